package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "hrchat.json"

type Config struct {
	Server      ServerConfig      `json:"server" yaml:"server"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Chat        ChatConfig        `json:"chat" yaml:"chat"`
	Database    DatabaseConfig    `json:"database" yaml:"database"`
	EmployeeAPI EmployeeAPIConfig `json:"employee_api" yaml:"employee_api"`
	Safety      SafetyConfig      `json:"safety" yaml:"safety"`
	Tools       ToolsConfig       `json:"tools" yaml:"tools"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `json:"cors_origins" yaml:"cors_origins"`
}

type LLMConfig struct {
	Provider     string `json:"provider" yaml:"provider"`
	Model        string `json:"model" yaml:"model"`
	APIKey       string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	MaxTokens    int    `json:"max_tokens" yaml:"max_tokens"`
	MaxRounds    int    `json:"max_rounds" yaml:"max_rounds"`
	MaxRetries   int    `json:"max_retries" yaml:"max_retries"`
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt,omitempty"`
}

type ChatConfig struct {
	ParallelTools bool          `json:"parallel_tools" yaml:"parallel_tools"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	// HistoryTokens bounds the client history sent to the LLM; 0 disables.
	HistoryTokens int `json:"history_tokens" yaml:"history_tokens"`
}

type DatabaseConfig struct {
	Driver       string `json:"driver" yaml:"driver"` // "mysql" or "sqlite"
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	User         string `json:"user" yaml:"user"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	Name         string `json:"name" yaml:"name"`
	Path         string `json:"path,omitempty" yaml:"path,omitempty"` // sqlite file
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
}

type EmployeeAPIConfig struct {
	BaseURL    string        `json:"base_url" yaml:"base_url"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
}

type SafetyConfig struct {
	AllowedTables     []string `json:"allowed_tables" yaml:"allowed_tables"`
	ForbiddenKeywords []string `json:"forbidden_keywords" yaml:"forbidden_keywords"`
	MaxRows           int      `json:"max_rows" yaml:"max_rows"`
}

type ToolsConfig struct {
	// UpstreamFailures is "render" (network failures become the tool's text
	// body) or "raise" (they become upstream_unavailable errors).
	UpstreamFailures string `json:"upstream_failures" yaml:"upstream_failures"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Error reports an invalid configuration field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		LLM: LLMConfig{
			Provider:   "anthropic",
			Model:      "claude-3-haiku-20240307",
			MaxTokens:  4096,
			MaxRounds:  10,
			MaxRetries: 2,
		},
		Chat: ChatConfig{
			Timeout:       2 * time.Minute,
			HistoryTokens: 8000,
		},
		Database: DatabaseConfig{
			Driver:       "mysql",
			Host:         "localhost",
			Port:         3306,
			User:         "root",
			MaxOpenConns: 10,
		},
		EmployeeAPI: EmployeeAPIConfig{
			BaseURL:    "http://localhost:8080",
			Timeout:    10 * time.Second,
			MaxRetries: 2,
		},
		Safety: SafetyConfig{
			AllowedTables:     []string{"employees", "contracts", "departments"},
			ForbiddenKeywords: []string{"DROP", "DELETE", "INSERT", "UPDATE", "ALTER", "CREATE", "TRUNCATE"},
			MaxRows:           200,
		},
		Tools: ToolsConfig{
			UpstreamFailures: "render",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a JSON or YAML (by extension) config file over the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ApplyEnv overrides fields from the environment using lookup (os.LookupEnv
// in production). Unparseable numbers are reported, not ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Field: key, Message: fmt.Sprintf("not an integer: %q", v)}
		}
		*dst = n
		return nil
	}

	str("DB_DRIVER", &c.Database.Driver)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("DB_PATH", &c.Database.Path)
	str("LLM_PROVIDER", &c.LLM.Provider)
	str("LLM_MODEL", &c.LLM.Model)
	str("EMPLOYEE_API_URL", &c.EmployeeAPI.BaseURL)
	str("LOG_LEVEL", &c.Logging.Level)

	switch c.LLM.Provider {
	case "openai":
		str("OPENAI_API_KEY", &c.LLM.APIKey)
	default:
		str("ANTHROPIC_API_KEY", &c.LLM.APIKey)
	}

	for key, dst := range map[string]*int{
		"PORT":              &c.Server.Port,
		"DB_PORT":           &c.Database.Port,
		"HRCHAT_MAX_ROUNDS": &c.LLM.MaxRounds,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate returns the first invalid field.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &Error{Field: "server.port", Message: fmt.Sprintf("out of range: %d", c.Server.Port)}
	}
	switch c.LLM.Provider {
	case "anthropic", "openai":
	default:
		return &Error{Field: "llm.provider", Message: fmt.Sprintf("unsupported provider %q (anthropic, openai)", c.LLM.Provider)}
	}
	if c.LLM.MaxRounds <= 0 {
		return &Error{Field: "llm.max_rounds", Message: "must be at least 1"}
	}
	if c.Chat.HistoryTokens < 0 {
		return &Error{Field: "chat.history_tokens", Message: "must not be negative"}
	}
	if c.LLM.MaxTokens <= 0 {
		return &Error{Field: "llm.max_tokens", Message: "must be at least 1"}
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Name == "" {
			return &Error{Field: "database.name", Message: "required for mysql"}
		}
	case "sqlite":
		if c.Database.Path == "" {
			return &Error{Field: "database.path", Message: "required for sqlite"}
		}
	default:
		return &Error{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q (mysql, sqlite)", c.Database.Driver)}
	}
	if len(c.Safety.AllowedTables) == 0 {
		return &Error{Field: "safety.allowed_tables", Message: "at least one table is required"}
	}
	switch c.Tools.UpstreamFailures {
	case "render", "raise":
	default:
		return &Error{Field: "tools.upstream_failures", Message: fmt.Sprintf("must be render or raise, got %q", c.Tools.UpstreamFailures)}
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
