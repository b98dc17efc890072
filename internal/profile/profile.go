package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Defaults applied when a value is left unset.
const (
	DefaultPort                  = 28090
	DefaultSendRatePerSecond     = 20.0
	DefaultMaxConcurrentMessages = 8
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "json"
)

// Profile is configuration to start the bot.
type Profile struct {
	// Server
	Mode    string // dev, prod or demo
	Addr    string
	Port    int
	Data    string
	Version string

	// Audit log
	AuditEnabled bool
	Driver       string // sqlite or postgres
	DSN          string

	// Classification
	KnowledgePath string // empty selects the embedded payload
	Threshold     int    // 0 keeps the payload threshold
	Seed          uint64 // 0 picks replies non-deterministically
	CacheSize     int    // classification cache entries, 0 disables

	// Telegram
	TelegramToken         string
	TelegramMode          string // polling or webhook
	WebhookURL            string
	WebhookSecret         string
	SendRatePerSecond     float64
	MaxConcurrentMessages int

	// Logging
	LogLevel  string
	LogFormat string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// HasTelegram reports whether a bot token is configured.
func (p *Profile) HasTelegram() bool {
	return p.TelegramToken != ""
}

// ListenAddr returns the HTTP listen address.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads secrets and values that have no command line flag.
// Values already set on the profile win over the environment.
func (p *Profile) FromEnv() {
	if p.TelegramToken == "" {
		// BOT_TOKEN is accepted for deployments that predate the prefix.
		p.TelegramToken = getEnvOrDefault("CAREERBOT_TELEGRAM_TOKEN", os.Getenv("BOT_TOKEN"))
	}
	if p.WebhookSecret == "" {
		p.WebhookSecret = getEnvOrDefault("CAREERBOT_TELEGRAM_WEBHOOK_SECRET", "")
	}
	if p.MaxConcurrentMessages == 0 {
		p.MaxConcurrentMessages = getEnvOrDefaultInt("CAREERBOT_MAX_CONCURRENT_MESSAGES", DefaultMaxConcurrentMessages)
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalises the profile and rejects unusable settings.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Port == 0 {
		p.Port = DefaultPort
	}
	if p.LogLevel == "" {
		p.LogLevel = DefaultLogLevel
	}
	switch p.LogFormat {
	case "":
		p.LogFormat = DefaultLogFormat
	case "json", "text":
	default:
		return errors.Errorf("unsupported log format %q", p.LogFormat)
	}

	if p.Threshold < 0 {
		return errors.Errorf("threshold %d must not be negative", p.Threshold)
	}
	if p.CacheSize < 0 {
		return errors.Errorf("cache size %d must not be negative", p.CacheSize)
	}
	if p.SendRatePerSecond == 0 {
		p.SendRatePerSecond = DefaultSendRatePerSecond
	}
	if p.SendRatePerSecond < 0 {
		return errors.Errorf("send rate %.2f must be positive", p.SendRatePerSecond)
	}
	if p.MaxConcurrentMessages == 0 {
		p.MaxConcurrentMessages = DefaultMaxConcurrentMessages
	}
	if p.MaxConcurrentMessages < 0 {
		return errors.Errorf("max concurrent messages %d must be positive", p.MaxConcurrentMessages)
	}

	switch p.TelegramMode {
	case "":
		p.TelegramMode = "polling"
	case "polling":
	case "webhook":
		if p.WebhookURL == "" {
			return errors.New("telegram webhook mode requires a webhook URL")
		}
	default:
		return errors.Errorf("unsupported telegram mode %q", p.TelegramMode)
	}

	if !p.AuditEnabled {
		return nil
	}
	return p.validateAudit()
}

func (p *Profile) validateAudit() error {
	switch p.Driver {
	case "":
		p.Driver = "sqlite"
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported audit driver %q", p.Driver)
	}
	if p.Driver == "postgres" {
		if p.DSN == "" {
			return errors.New("postgres audit log requires a dsn")
		}
		return nil
	}
	if p.DSN != "" {
		return nil
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "careerbot")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/careerbot"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	p.DSN = filepath.Join(dataDir, fmt.Sprintf("careerbot_%s.db", p.Mode))
	return nil
}
