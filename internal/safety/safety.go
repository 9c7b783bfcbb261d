// Package safety holds the fast-reject filters applied before SQL text
// reaches the database. They are heuristics; the read-only connection is
// what actually prevents writes.
package safety

import (
	"strings"

	"github.com/HexSleeves/hrchat/internal/config"
	hrerrors "github.com/HexSleeves/hrchat/internal/errors"
)

// BaseForbiddenKeywords are always rejected by CheckQuery. Configured
// keywords add to them; an empty list cannot turn the filter off.
var BaseForbiddenKeywords = []string{"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE"}

// Guard enforces the table allow-list and the query keyword filter.
type Guard struct {
	tables    []string
	allowed   map[string]struct{}
	forbidden []string
}

// NewGuard builds a guard from cfg. BaseForbiddenKeywords always apply.
func NewGuard(cfg config.SafetyConfig) *Guard {
	g := &Guard{
		tables:  append([]string(nil), cfg.AllowedTables...),
		allowed: make(map[string]struct{}, len(cfg.AllowedTables)),
	}
	for _, t := range cfg.AllowedTables {
		g.allowed[t] = struct{}{}
	}
	seen := make(map[string]bool)
	for _, kw := range append(append([]string(nil), BaseForbiddenKeywords...), cfg.ForbiddenKeywords...) {
		if kw = strings.ToUpper(strings.TrimSpace(kw)); kw != "" && !seen[kw] {
			seen[kw] = true
			g.forbidden = append(g.forbidden, kw)
		}
	}
	return g
}

// CheckTable accepts only exact, case-sensitive members of the allow-list.
func (g *Guard) CheckTable(name string) error {
	if _, ok := g.allowed[name]; ok {
		return nil
	}
	return hrerrors.New(hrerrors.CodeInvalidTable,
		"Invalid table name. Must be one of: %s", strings.Join(g.tables, ", "))
}

// CheckQuery requires a leading SELECT and rejects any forbidden keyword
// appearing anywhere in the text, string literals included.
func (g *Guard) CheckQuery(query string) error {
	normalized := strings.ToUpper(strings.TrimSpace(query))
	if !strings.HasPrefix(normalized, "SELECT") {
		return hrerrors.New(hrerrors.CodeRejectedQuery, "Only SELECT queries are allowed")
	}
	for _, kw := range g.forbidden {
		if strings.Contains(normalized, kw) {
			return hrerrors.New(hrerrors.CodeRejectedQuery, "Query contains forbidden keywords")
		}
	}
	return nil
}

// AllowedTables returns a copy of the allow-list in configured order.
func (g *Guard) AllowedTables() []string {
	return append([]string(nil), g.tables...)
}
