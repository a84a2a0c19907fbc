package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	SQLiteFilename    string
	ServerPort        int
	BaseURL           string // Base URL where the application is running
	QueueCapacity     int
	InitialBalance    decimal.Decimal
	CommandTimeout    time.Duration
	LogLevel          string
	Debug             bool
	TLSSelfSigned     bool // Serve HTTPS with a generated certificate (development only)
	SigningSecret     string
	SlackUserToken    string // User token used for channel management and posting
	SupportChannelID  string
	LogsChannelID     string
	StaffChannelID    string
	TimestampMaxGap   time.Duration
	TeamChannelPrefix string
}

var AppConfig = &Config{}

// Init loads the configuration into AppConfig and exits the process when a
// required variable is missing.
func Init() {
	cfg, err := Load()
	if err != nil {
		log.Fatal("Configuration error", "err", err)
	}
	AppConfig = cfg
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load() (*Config, error) {
	envFile := os.Getenv("NEECATHON_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, typically os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	var missingVars []string
	cfg := &Config{}

	// Database config
	cfg.SQLiteFilename = getenv("NEECATHON_SQLITE_FILENAME")
	if cfg.SQLiteFilename == "" {
		cfg.SQLiteFilename = "neecathon.db"
	}

	// Slack credentials (required)
	cfg.SigningSecret = getenv("SLACK_SIGNING_SECRET")
	if cfg.SigningSecret == "" {
		missingVars = append(missingVars, "SLACK_SIGNING_SECRET")
	}

	cfg.SlackUserToken = getenv("SLACK_USER_TOKEN")
	if cfg.SlackUserToken == "" {
		missingVars = append(missingVars, "SLACK_USER_TOKEN")
	}

	cfg.SupportChannelID = getenv("SLACK_SUPPORT_CHANNEL_ID")
	cfg.LogsChannelID = getenv("SLACK_LOGS_CHANNEL_ID")
	cfg.StaffChannelID = getenv("SLACK_STAFF_CHANNEL_ID")

	cfg.TeamChannelPrefix = getenv("NEECATHON_TEAM_CHANNEL_PREFIX")
	if cfg.TeamChannelPrefix == "" {
		cfg.TeamChannelPrefix = "t_"
	}

	cfg.BaseURL = getenv("NEECATHON_BASE_URL")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8888"
	}

	var err error
	if cfg.ServerPort, err = intVar(getenv, "NEECATHON_SERVER_PORT", 8888); err != nil {
		return nil, err
	}
	if cfg.QueueCapacity, err = intVar(getenv, "NEECATHON_QUEUE_CAPACITY", 100); err != nil {
		return nil, err
	}
	if cfg.QueueCapacity < 1 {
		return nil, fmt.Errorf("NEECATHON_QUEUE_CAPACITY must be positive, got %d", cfg.QueueCapacity)
	}
	if cfg.CommandTimeout, err = durationVar(getenv, "NEECATHON_COMMAND_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.TimestampMaxGap, err = durationVar(getenv, "SLACK_TIMESTAMP_MAX_GAP", 60*time.Second); err != nil {
		return nil, err
	}

	cfg.InitialBalance = decimal.NewFromInt(200)
	if s := getenv("NEECATHON_INITIAL_BALANCE"); s != "" {
		b, err := decimal.NewFromString(s)
		if err != nil || b.IsNegative() {
			return nil, fmt.Errorf("invalid NEECATHON_INITIAL_BALANCE %q", s)
		}
		cfg.InitialBalance = b
	}

	cfg.LogLevel = getenv("NEECATHON_LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Debug mode
	cfg.Debug = boolVar(getenv("NEECATHON_DEBUG"))
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	cfg.TLSSelfSigned = boolVar(getenv("NEECATHON_TLS_SELF_SIGNED"))

	if len(missingVars) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missingVars)
	}
	return cfg, nil
}

func intVar(getenv func(string) string, name string, def int) (int, error) {
	s := getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

func durationVar(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	s := getenv(name)
	if s == "" {
		return def, nil
	}
	// Plain numbers are seconds.
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}

func boolVar(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes"
}
