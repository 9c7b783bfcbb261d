package output

import (
	"encoding/json"
	"time"

	"github.com/HexSleeves/hrchat/internal/bus"
)

// Progress prints chat events as they happen. It is a bus.Handler and only
// prints tool activity, so subscribe it when the user asked for verbose
// output.
func (p *Printer) Progress(msg bus.Message) {
	switch msg.Type {
	case bus.MsgChatRound:
		p.Debug("round %d: %v tool call(s)", msg.Round, msg.Payload)
	case bus.MsgToolCalled:
		p.Debug("→ %s %s", msg.Tool, payloadText(msg.Payload))
	case bus.MsgToolResult:
		if r, ok := msg.Payload.(bus.ToolResultPayload); ok {
			p.Debug("%s %s (%s)", ToolIcon(r.IsError), msg.Tool, r.Duration.Round(time.Millisecond))
		}
	}
}

func payloadText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case json.RawMessage:
		return string(t)
	case string:
		return t
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}
