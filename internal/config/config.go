package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	DatabasePath string `json:"database_path"`
	APIPort      string `json:"api_port"`
	LogLevel     string `json:"log_level"`
	DataDir      string `json:"data_dir"`
	CORSOrigins  string `json:"cors_origins"` // comma separated, * allows all

	// Agent defaults, overridable per run
	SignerName            string `json:"signer_name"`
	DefaultTone           string `json:"default_tone"`
	DefaultAggressiveness string `json:"default_aggressiveness"`
	LoadSampleInbox       bool   `json:"load_sample_inbox"`

	IMAP IMAPConfig `json:"imap"`
}

// IMAPConfig describes the optional mailbox the agent can pull messages from
type IMAPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	UseSSL   bool   `json:"use_ssl"`
	Mailbox  string `json:"mailbox"`
	Limit    int    `json:"limit"`
}

// Enabled reports whether enough IMAP settings are present to connect
func (c IMAPConfig) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

// Default configuration values
const (
	DefaultDatabasePath   = "data/inbox_agent.db"
	DefaultAPIPort        = "8080"
	DefaultLogLevel       = "INFO"
	DefaultDataDir        = "data"
	DefaultCORSOrigins    = "*"
	DefaultSignerName     = "Alex"
	DefaultTone           = "balanced"
	DefaultAggressiveness = "balanced"
	DefaultIMAPPort       = 993
	DefaultIMAPMailbox    = "INBOX"
	DefaultIMAPLimit      = 50
)

// Load loads configuration from environment variables and config file
// Priority: Environment variables > .env file > Config file > Default values
func Load() (*Config, error) {
	cfg := Default()

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil {
		return nil, err
	}

	// .env is optional too; real environment variables win over it
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg, nil
}

// Default returns a configuration populated with default values
func Default() *Config {
	return &Config{
		DatabasePath:          DefaultDatabasePath,
		APIPort:               DefaultAPIPort,
		LogLevel:              DefaultLogLevel,
		DataDir:               DefaultDataDir,
		CORSOrigins:           DefaultCORSOrigins,
		SignerName:            DefaultSignerName,
		DefaultTone:           DefaultTone,
		DefaultAggressiveness: DefaultAggressiveness,
		LoadSampleInbox:       true,
		IMAP: IMAPConfig{
			Port:    DefaultIMAPPort,
			UseSSL:  true,
			Mailbox: DefaultIMAPMailbox,
			Limit:   DefaultIMAPLimit,
		},
	}
}

// loadFromFile loads configuration from config.json file
func (c *Config) loadFromFile() error {
	// Look for config file in current directory and data directory
	configPaths := []string{
		"config.json",
		filepath.Join(c.DataDir, "config.json"),
	}

	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		return json.Unmarshal(data, c)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	setString(&c.DatabasePath, "INBOX_AGENT_DATABASE_PATH")
	setString(&c.APIPort, "INBOX_AGENT_API_PORT")
	setString(&c.LogLevel, "INBOX_AGENT_LOG_LEVEL")
	setString(&c.DataDir, "INBOX_AGENT_DATA_DIR")
	setString(&c.CORSOrigins, "INBOX_AGENT_CORS_ORIGINS")
	setString(&c.SignerName, "INBOX_AGENT_SIGNER_NAME")
	setString(&c.DefaultTone, "INBOX_AGENT_DEFAULT_TONE")
	setString(&c.DefaultAggressiveness, "INBOX_AGENT_DEFAULT_AGGRESSIVENESS")
	setBool(&c.LoadSampleInbox, "INBOX_AGENT_LOAD_SAMPLE_INBOX")

	setString(&c.IMAP.Host, "INBOX_AGENT_IMAP_HOST")
	setInt(&c.IMAP.Port, "INBOX_AGENT_IMAP_PORT")
	setString(&c.IMAP.Username, "INBOX_AGENT_IMAP_USERNAME")
	setString(&c.IMAP.Password, "INBOX_AGENT_IMAP_PASSWORD")
	setBool(&c.IMAP.UseSSL, "INBOX_AGENT_IMAP_USE_SSL")
	setString(&c.IMAP.Mailbox, "INBOX_AGENT_IMAP_MAILBOX")
	setInt(&c.IMAP.Limit, "INBOX_AGENT_IMAP_LIMIT")
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// AllowedOrigins splits CORSOrigins into a list
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Save saves the current configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
