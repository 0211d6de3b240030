package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule = "@every 600s"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultLogFile      = "main.log"
)

const configPathEnv = "HOMEWORK_BOT_CONFIG"

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64

	Endpoint       string
	PollSchedule   string
	HTTPTimeout    time.Duration
	TelegramAPIURL string

	LogLevel    string
	LogFile     string
	Environment string

	// DatabaseURL enables the delivery journal when set.
	DatabaseURL string

	Verdicts homework.Verdicts
}

type fileConfig struct {
	Practicum struct {
		Token    string `yaml:"token"`
		Endpoint string `yaml:"endpoint"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"practicum"`
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID string `yaml:"chatId"`
		APIURL string `yaml:"apiUrl"`
	} `yaml:"telegram"`
	Poll struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"poll"`
	Logging struct {
		Level       string `yaml:"level"`
		File        string `yaml:"file"`
		Environment string `yaml:"environment"`
	} `yaml:"logging"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Verdicts map[string]string `yaml:"verdicts"`
}

// Load reads configuration from an optional YAML file, the .env file (if present)
// and environment variables, in increasing order of precedence.
// Missing secrets are not an error here; see CheckTokens.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Environment = strings.ToLower(cfg.Environment)

	return cfg, nil
}

// CheckTokens reports whether every secret required to start polling is present.
func (c *AppConfig) CheckTokens() bool {
	return c.PracticumToken != "" && c.TelegramToken != "" && c.TelegramChatID != 0
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Endpoint:     DefaultEndpoint,
		PollSchedule: DefaultPollSchedule,
		HTTPTimeout:  DefaultHTTPTimeout,
		LogLevel:     "info",
		LogFile:      DefaultLogFile,
		Environment:  "development",
		Verdicts:     homework.DefaultVerdicts(),
	}
}

func (c *AppConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	setIfNotEmpty(&c.PracticumToken, fc.Practicum.Token)
	setIfNotEmpty(&c.Endpoint, fc.Practicum.Endpoint)
	setIfNotEmpty(&c.TelegramToken, fc.Telegram.Token)
	setIfNotEmpty(&c.TelegramAPIURL, fc.Telegram.APIURL)
	setIfNotEmpty(&c.PollSchedule, fc.Poll.Schedule)
	setIfNotEmpty(&c.LogLevel, fc.Logging.Level)
	setIfNotEmpty(&c.LogFile, fc.Logging.File)
	setIfNotEmpty(&c.Environment, fc.Logging.Environment)
	setIfNotEmpty(&c.DatabaseURL, fc.Database.URL)

	if fc.Practicum.Timeout != "" {
		if c.HTTPTimeout, err = parseTimeout(fc.Practicum.Timeout); err != nil {
			return fmt.Errorf("invalid practicum.timeout in %s: %w", path, err)
		}
	}
	if fc.Telegram.ChatID != "" {
		if c.TelegramChatID, err = strconv.ParseInt(fc.Telegram.ChatID, 10, 64); err != nil {
			return fmt.Errorf("invalid telegram.chatId in %s: %w", path, err)
		}
	}
	for status, text := range fc.Verdicts {
		if text != "" {
			c.Verdicts[homework.Status(status)] = text
		}
	}

	return nil
}

func (c *AppConfig) applyEnvOverrides() error {
	var err error

	setIfNotEmpty(&c.PracticumToken, os.Getenv("PRACTICUM_TOKEN"))
	setIfNotEmpty(&c.TelegramToken, os.Getenv("TELEGRAM_TOKEN"))
	setIfNotEmpty(&c.Endpoint, os.Getenv("PRACTICUM_ENDPOINT"))
	setIfNotEmpty(&c.TelegramAPIURL, os.Getenv("TELEGRAM_API_URL"))
	setIfNotEmpty(&c.LogLevel, os.Getenv("LOG_LEVEL"))
	setIfNotEmpty(&c.LogFile, os.Getenv("LOG_FILE"))
	setIfNotEmpty(&c.Environment, os.Getenv("ENVIRONMENT"))
	setIfNotEmpty(&c.DatabaseURL, os.Getenv("DATABASE_URL"))

	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		c.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	if periodStr := os.Getenv("RETRY_PERIOD"); periodStr != "" {
		seconds, err := strconv.Atoi(periodStr)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid RETRY_PERIOD %q: want a positive number of seconds", periodStr)
		}
		c.PollSchedule = fmt.Sprintf("@every %ds", seconds)
	}
	// An explicit cron spec wins over RETRY_PERIOD.
	setIfNotEmpty(&c.PollSchedule, os.Getenv("POLL_SCHEDULE"))

	if timeoutStr := os.Getenv("HTTP_TIMEOUT"); timeoutStr != "" {
		if c.HTTPTimeout, err = parseTimeout(timeoutStr); err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
	}

	return nil
}

func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
