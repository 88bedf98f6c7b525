// Package config loads and persists the peopled configuration file.
package config

// AppName and AppVersion identify this server to protocol clients.
const (
	AppName    = "peopled"
	AppVersion = "0.1.0"
)

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Agent    AgentConfig    `json:"agent" yaml:"agent"`
	Store    StoreConfig    `json:"store" yaml:"store"`
	Channels ChannelsConfig `json:"channels" yaml:"channels"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// LLMConfig configures the completion-service client.
type LLMConfig struct {
	APIKey       string            `json:"apiKey" yaml:"apiKey"`
	APIBase      string            `json:"apiBase" yaml:"apiBase"`
	Model        string            `json:"model" yaml:"model"`
	MaxTokens    int               `json:"maxTokens" yaml:"maxTokens"`
	Temperature  float64           `json:"temperature" yaml:"temperature"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" yaml:"extraHeaders,omitempty"`
}

// AgentConfig bounds the chat orchestrator.
type AgentConfig struct {
	// MaxToolRounds caps completion/tool iterations within one chat turn.
	MaxToolRounds int `json:"maxToolRounds" yaml:"maxToolRounds"`
	// HistoryWindow caps the per-chat in-memory history kept by channels.
	HistoryWindow int `json:"historyWindow" yaml:"historyWindow"`
}

// StoreConfig configures the people store and its backup schedule.
type StoreConfig struct {
	Path           string `json:"path" yaml:"path"`
	BackupDir      string `json:"backupDir" yaml:"backupDir"`
	BackupSchedule string `json:"backupSchedule" yaml:"backupSchedule"` // cron expression; empty disables
}

// ChannelsConfig enables optional chat channels.
type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Slack    SlackConfig    `json:"slack" yaml:"slack"`
}

// TelegramConfig configures the Telegram bot channel.
type TelegramConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Token     string   `json:"token" yaml:"token"`
	AllowFrom []string `json:"allowFrom,omitempty" yaml:"allowFrom,omitempty"`
}

// SlackConfig configures the Slack Socket Mode channel.
type SlackConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	BotToken  string   `json:"botToken" yaml:"botToken"`
	AppToken  string   `json:"appToken" yaml:"appToken"`
	AllowFrom []string `json:"allowFrom,omitempty" yaml:"allowFrom,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		LLM: LLMConfig{
			APIBase:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		Agent: AgentConfig{
			MaxToolRounds: 5,
			HistoryWindow: 40,
		},
		Store: StoreConfig{
			Path:      DataDir() + "/people.json",
			BackupDir: DataDir() + "/backups",
		},
	}
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	host := c.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.Server.Port
	if port == 0 {
		port = 8000
	}
	return hostPort(host, port)
}
