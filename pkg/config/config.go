package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/umputun/engager/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" jsonschema:"description=Control server configuration"`
	Database   DatabaseConfig   `yaml:"database" json:"database" jsonschema:"description=Database configuration"`
	Browser    BrowserConfig    `yaml:"browser" json:"browser" jsonschema:"description=Browser (CDP) configuration"`
	LLM        LLMConfig        `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for reply generation"`
	Automation AutomationConfig `yaml:"automation" json:"automation" jsonschema:"description=Automation loop and pacing configuration"`
	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Linked article extraction configuration"`
}

// ServerConfig holds control server settings
type ServerConfig struct {
	Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=127.0.0.1:8080,description=HTTP server listen address"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	BaseURL string        `yaml:"base_url" json:"base_url" jsonschema:"default=http://localhost:8080,description=Base URL for RSS links"`
}

// DatabaseConfig holds sqlite settings
type DatabaseConfig struct {
	DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:engager.db?cache=shared&mode=rwc,description=Database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=2,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// BrowserConfig holds chrome settings
type BrowserConfig struct {
	RemoteURL    string        `yaml:"remote_url" json:"remote_url" jsonschema:"description=DevTools websocket URL of a running Chrome (exec mode if empty)"`
	ExecPath     string        `yaml:"exec_path" json:"exec_path" jsonschema:"description=Chrome binary path (auto-detected if empty)"`
	ProfileDir   string        `yaml:"profile_dir" json:"profile_dir" jsonschema:"default=.engager/profile,description=Chrome user data dir keeping the logged-in session"`
	Headless     bool          `yaml:"headless" json:"headless" jsonschema:"default=false,description=Run Chrome headless"`
	StartURL     string        `yaml:"start_url" json:"start_url" jsonschema:"default=https://x.com/home,description=Page opened on start"`
	Width        int           `yaml:"width" json:"width" jsonschema:"default=1366,description=Window width"`
	Height       int           `yaml:"height" json:"height" jsonschema:"default=768,description=Window height"`
	StartTimeout time.Duration `yaml:"start_timeout" json:"start_timeout" jsonschema:"default=15s,description=Maximum time to wait for Chrome to connect"`
}

// LLMConfig holds LLM configuration for reply generation
type LLMConfig struct {
	Endpoint       string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.groq.com/openai/v1/chat/completions,description=Chat completions endpoint (initial setting)"`
	APIKey         string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (initial setting; can use environment variable)"`
	Model          string        `yaml:"model" json:"model" jsonschema:"default=llama-3.3-70b-versatile,description=Model name (initial setting)"`
	Temperature    float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.7,description=Temperature for response generation"`
	TopP           float64       `yaml:"top_p" json:"top_p" jsonschema:"default=0.9,description=Nucleus sampling"`
	MaxTokens      int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=100,description=Maximum tokens in response"`
	Timeout        time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	MinInterval    time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"default=5s,description=Minimum gap between consecutive API requests"`
	SystemPrompt   string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt (optional)"`
	PromptTemplate string        `yaml:"prompt_template" json:"prompt_template" jsonschema:"description=User prompt template with a single %s for post text (optional)"`
}

// DelayRange defines a randomized delay
type DelayRange struct {
	Min time.Duration `yaml:"min" json:"min" jsonschema:"description=Minimum delay"`
	Max time.Duration `yaml:"max" json:"max" jsonschema:"description=Maximum delay"`
}

// AutomationConfig holds loop triggers, pacing and policy
type AutomationConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Initial automation state (first run only)"`
	ScanInterval   time.Duration `yaml:"scan_interval" json:"scan_interval" jsonschema:"default=30s,description=Periodic scan interval"`
	MutationDelay  time.Duration `yaml:"mutation_delay" json:"mutation_delay" jsonschema:"default=10s,description=Delay after page mutation before scanning"`
	ScrollSettle   time.Duration `yaml:"scroll_settle" json:"scroll_settle" jsonschema:"default=1s,description=Pause after scrolling a post into view"`
	ClickDelay     DelayRange    `yaml:"click_delay" json:"click_delay" jsonschema:"description=Pause after like/follow click (default 500ms-1500ms)"`
	ActionDelay    DelayRange    `yaml:"action_delay" json:"action_delay" jsonschema:"description=Pause between actions (default 1s-2s)"`
	CommentDelay   DelayRange    `yaml:"comment_delay" json:"comment_delay" jsonschema:"description=Pause after reply attempt (default 3s-5s)"`
	PassDelay      DelayRange    `yaml:"pass_delay" json:"pass_delay" jsonschema:"description=Pause before a pass ends (default 3s-5s)"`
	ErrorDelay     time.Duration `yaml:"error_delay" json:"error_delay" jsonschema:"default=2s,description=Pause after a failed post"`
	ComposeMount   time.Duration `yaml:"compose_mount" json:"compose_mount" jsonschema:"default=10s,description=Wait for reply dialog to mount"`
	BeforeSubmit   time.Duration `yaml:"before_submit" json:"before_submit" jsonschema:"default=5s,description=Wait before submitting a reply"`
	AfterSubmit    time.Duration `yaml:"after_submit" json:"after_submit" jsonschema:"default=5s,description=Wait after submitting or closing a reply"`
	ErrorClose     time.Duration `yaml:"error_close" json:"error_close" jsonschema:"default=3s,description=Wait after closing the dialog on error"`
	TypingDelay    time.Duration `yaml:"typing_delay" json:"typing_delay" jsonschema:"default=10ms,description=Per-character delay for simulated typing"`
	OwnPostAge     time.Duration `yaml:"own_post_age" json:"own_post_age" jsonschema:"default=2m,description=Posts younger than this are treated as own"`
	SelfMarker     string        `yaml:"self_marker" json:"self_marker" jsonschema:"default=You,description=Label marking own posts"`
	BlockedAuthors []string      `yaml:"blocked_authors" json:"blocked_authors" jsonschema:"description=Handles excluded from all actions"`
}

// ExtractionConfig holds linked article extraction settings
type ExtractionConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Add linked article excerpt to prompts"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Extraction timeout per article"`
	MaxChars  int           `yaml:"max_chars" json:"max_chars" jsonschema:"default=500,description=Maximum excerpt length"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for HTTP requests (browser-like if empty)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults set, used when no config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills zero values with defaults
func (c *Config) SetDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = "127.0.0.1:8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = "http://localhost:8080"
	}

	// database
	if c.Database.DSN == "" {
		c.Database.DSN = "file:engager.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 4
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 2
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	// browser
	if c.Browser.ProfileDir == "" {
		c.Browser.ProfileDir = ".engager/profile"
	}
	if c.Browser.StartURL == "" {
		c.Browser.StartURL = "https://x.com/home"
	}
	if c.Browser.Width == 0 {
		c.Browser.Width = 1366
	}
	if c.Browser.Height == 0 {
		c.Browser.Height = 768
	}
	if c.Browser.StartTimeout == 0 {
		c.Browser.StartTimeout = 15 * time.Second
	}

	// llm
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = domain.DefaultAPIEndpoint
	}
	if c.LLM.Model == "" {
		c.LLM.Model = domain.DefaultModel
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.TopP == 0 {
		c.LLM.TopP = 0.9
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 100
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.MinInterval == 0 {
		c.LLM.MinInterval = 5 * time.Second
	}

	// automation
	a := &c.Automation
	setDuration(&a.ScanInterval, 30*time.Second)
	setDuration(&a.MutationDelay, 10*time.Second)
	setDuration(&a.ScrollSettle, time.Second)
	setRange(&a.ClickDelay, 500*time.Millisecond, 1500*time.Millisecond)
	setRange(&a.ActionDelay, time.Second, 2*time.Second)
	setRange(&a.CommentDelay, 3*time.Second, 5*time.Second)
	setRange(&a.PassDelay, 3*time.Second, 5*time.Second)
	setDuration(&a.ErrorDelay, 2*time.Second)
	setDuration(&a.ComposeMount, 10*time.Second)
	setDuration(&a.BeforeSubmit, 5*time.Second)
	setDuration(&a.AfterSubmit, 5*time.Second)
	setDuration(&a.ErrorClose, 3*time.Second)
	setDuration(&a.TypingDelay, 10*time.Millisecond)
	setDuration(&a.OwnPostAge, 2*time.Minute)
	if a.SelfMarker == "" {
		a.SelfMarker = "You"
	}
	if a.BlockedAuthors == nil {
		a.BlockedAuthors = []string{"Anubhavhing"}
	}

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 15 * time.Second
	}
	if c.Extraction.MaxChars == 0 {
		c.Extraction.MaxChars = 500
	}
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d == 0 {
		*d = def
	}
}

func setRange(r *DelayRange, minDelay, maxDelay time.Duration) {
	if r.Min == 0 && r.Max == 0 {
		r.Min, r.Max = minDelay, maxDelay
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.TopP < 0 || cfg.LLM.TopP > 1 {
		return fmt.Errorf("llm.top_p must be between 0 and 1")
	}
	if cfg.LLM.MaxTokens < 1 {
		return fmt.Errorf("llm.max_tokens must be at least 1")
	}

	// validate automation config
	if cfg.Automation.ScanInterval < time.Second {
		return fmt.Errorf("automation.scan_interval must be at least 1 second")
	}
	ranges := map[string]DelayRange{
		"click_delay":   cfg.Automation.ClickDelay,
		"action_delay":  cfg.Automation.ActionDelay,
		"comment_delay": cfg.Automation.CommentDelay,
		"pass_delay":    cfg.Automation.PassDelay,
	}
	for name, r := range ranges {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("automation.%s must have 0 <= min <= max", name)
		}
	}

	// validate extraction config
	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// InitialSettings returns user settings seeded into the store on the first run
func (c *Config) InitialSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.AutomationEnabled = c.Automation.Enabled
	s.APIKey = c.LLM.APIKey
	s.APIEndpoint = c.LLM.Endpoint
	s.Model = c.LLM.Model
	return s
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetBaseURL returns base URL used in generated links
func (c *Config) GetBaseURL() string {
	return c.Server.BaseURL
}
