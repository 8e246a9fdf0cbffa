package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the brief pipeline. It is built
// once at process start and handed to the components that need it;
// nothing reads configuration ambiently after Load returns.
type Config struct {
	Topics           []string `mapstructure:"topics"`
	ArticlesPerTopic int      `mapstructure:"articles_per_topic"`
	Model            string   `mapstructure:"model"`
	MaxTokens        int      `mapstructure:"max_tokens"`
	DaysBack         int      `mapstructure:"days_back"`
	MaxResults       int      `mapstructure:"max_results"`
	SummaryPrompt    string   `mapstructure:"summary_prompt"`
	AutoSave         bool     `mapstructure:"auto_save"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	DateFormat       string   `mapstructure:"date_format"`
	QuerySuffix      string   `mapstructure:"query_suffix"`

	API      APIConfig      `mapstructure:"api"`
	Email    EmailConfig    `mapstructure:"email"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Server   ServerConfig   `mapstructure:"server"`
}

// APIConfig carries the upstream API credential and endpoint. Key is
// never logged.
type APIConfig struct {
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
}

// EmailConfig contains the email sink settings. SenderPassword is never
// logged.
type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SenderEmail    string `mapstructure:"sender_email"`
	SenderPassword string `mapstructure:"sender_password"`
	RecipientEmail string `mapstructure:"recipient_email"`
	SMTPServer     string `mapstructure:"smtp_server"`
	SMTPPort       int    `mapstructure:"smtp_port"`
}

// complete reports whether every field the sink needs is present.
func (e EmailConfig) complete() bool {
	return strings.TrimSpace(e.SenderEmail) != "" &&
		strings.TrimSpace(e.SenderPassword) != "" &&
		strings.TrimSpace(e.RecipientEmail) != ""
}

// ScheduleConfig controls the recurring run cadence. Cron, when set,
// replaces the every-N-days rule.
type ScheduleConfig struct {
	EveryDays    int           `mapstructure:"every_days"`
	At           string        `mapstructure:"at"`
	Cron         string        `mapstructure:"cron"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Normalize clamps unusable schedule values back to their defaults.
func (s ScheduleConfig) Normalize() ScheduleConfig {
	if s.EveryDays <= 0 {
		s.EveryDays = 3
	}
	if _, err := time.Parse("15:04", s.At); err != nil {
		s.At = "08:00"
	}
	if s.PollInterval <= 0 {
		s.PollInterval = 60 * time.Second
	}
	return s
}

// ServerConfig contains the optional ops HTTP server settings. An empty
// Listen disables the server.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// Load reads a JSON config file over built-in defaults and applies
// environment overrides. path may be empty, in which case config.json
// is searched for in the working directory and ./config. A missing file
// is fine; a malformed one logs a warning and leaves the defaults in
// force.
func Load(path string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[CONFIG] ", log.LstdFlags)
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		if isFileMissing(err) {
			logger.Printf("no config file found, using defaults")
		} else {
			logger.Printf("warn: %v", &ConfigError{Path: v.ConfigFileUsed(), Err: err})
			v = newViper(path)
		}
	}
	overrideFromEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{Path: v.ConfigFileUsed(), Err: err}
	}

	if cfg.DateFormat == "" {
		cfg.DateFormat = "January 2, 2006"
	}
	cfg.Schedule = cfg.Schedule.Normalize()
	if cfg.Email.Enabled && !cfg.Email.complete() {
		logger.Printf("warn: email is enabled but sender, password, or recipient is missing; email delivery disabled")
		cfg.Email.Enabled = false
	}
	return &cfg, nil
}

// Validate checks that required credentials resolved. Email credentials
// are not required here; an incomplete email block only disables that
// sink during Load.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.Key) == "" {
		return &CredentialError{Name: "PERPLEXITY_API_KEY"}
	}
	return nil
}

// newViper builds a viper instance with every default registered and
// env binding in place, ready for an optional ReadInConfig.
func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
		v.SetConfigType("json")
	}

	v.SetEnvPrefix("NEWSBRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("topics", []string{"general news"})
	v.SetDefault("articles_per_topic", 5)
	v.SetDefault("model", "sonar")
	v.SetDefault("max_tokens", 200)
	v.SetDefault("days_back", 1)
	v.SetDefault("max_results", 10)
	v.SetDefault("summary_prompt", "Summarize the following news article in 2-3 concise sentences. Focus on the key facts and main points:")
	v.SetDefault("auto_save", false)
	v.SetDefault("output_directory", "briefs")
	v.SetDefault("date_format", "January 2, 2006")
	v.SetDefault("query_suffix", "today")

	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", "")

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.sender_email", "")
	v.SetDefault("email.sender_password", "")
	v.SetDefault("email.recipient_email", "")
	v.SetDefault("email.smtp_server", "smtp.gmail.com")
	v.SetDefault("email.smtp_port", 587)

	v.SetDefault("schedule.every_days", 3)
	v.SetDefault("schedule.at", "08:00")
	v.SetDefault("schedule.cron", "")
	v.SetDefault("schedule.poll_interval", "60s")

	v.SetDefault("server.listen", "")
}

// overrideFromEnv applies the credential variables that live outside
// the NEWSBRIEF_* namespace.
func overrideFromEnv(v *viper.Viper) {
	if key := os.Getenv("PERPLEXITY_API_KEY"); key != "" {
		v.Set("api.key", key)
	}
	if pw := os.Getenv("EMAIL_PASSWORD"); pw != "" {
		v.Set("email.sender_password", pw)
	}
}

// isFileMissing distinguishes "no config file" from a broken one.
func isFileMissing(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}
