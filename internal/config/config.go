// Package config loads the backend configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var (
	ErrAPIURLNotSet     = errors.New("environment variable API_URL must be set")
	ErrAPIURLInvalid    = errors.New("environment variable API_URL must be a valid URL")
	ErrTimezoneInvalid  = errors.New("environment variable TIMEZONE must be a valid IANA time zone")
	ErrSMTPPortInvalid  = errors.New("environment variable SMTP_PORT must be a positive port number")
	ErrReminderSchedule = errors.New("environment variable REMINDER_SCHEDULE must be set when REMINDER_ENABLED is true")
)

// Config holds every configuration value of the backend.
//
// Nothing else in the code base reads the environment directly.
type Config struct {
	APIURL           string `env:"API_URL"`
	Port             string `env:"PORT,default=8080"`
	GinMode          string `env:"GIN_MODE,default=release"`
	LogFormat        string `env:"LOG_FORMAT"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS"`
	EnablePprof      bool   `env:"ENABLE_PPROF,default=false"`

	// PostgreSQL is used when DBHost is set, SQLite otherwise
	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBFile     string `env:"DB_FILE,default=data/gorm.db"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM,default=comptabilite@ecole.local"`

	// Used in mails sent to guardians
	SchoolName string `env:"SCHOOL_NAME,default=École"`
	Currency   string `env:"CURRENCY,default=FCFA"`

	ReminderEnabled  bool   `env:"REMINDER_ENABLED,default=false"`
	ReminderSchedule string `env:"REMINDER_SCHEDULE,default=0 8 * * 1"`
	Timezone         string `env:"TIMEZONE,default=UTC"`
}

// Load reads the optional dotenv file at path into the environment and
// unmarshals the environment into a Config.
func Load(path string) (Config, error) {
	if path != "" {
		log.Debug().Str("path", path).Msg("loading configuration file")
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("failed to load configuration file %s: %w", path, err)
		}
	}

	var c Config
	if _, err := env.UnmarshalFromEnviron(&c); err != nil {
		return Config{}, fmt.Errorf("failed to map environment variables to the configuration: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrAPIURLNotSet
	}

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrAPIURLInvalid
	}

	if c.Timezone == "" {
		c.Timezone = "UTC"
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: %s", ErrTimezoneInvalid, c.Timezone)
	}

	if c.SMTPHost != "" && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		return ErrSMTPPortInvalid
	}

	if c.ReminderEnabled && c.ReminderSchedule == "" {
		return ErrReminderSchedule
	}

	return nil
}

// URL returns the parsed API_URL. It must only be called on a validated Config.
func (c Config) URL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

// Location returns the time zone used for due date calculations and
// the reminder schedule. It falls back to UTC for unvalidated configurations.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// UsePostgres reports if the PostgreSQL driver is configured.
func (c Config) UsePostgres() bool {
	return c.DBHost != ""
}

// PostgresDSN returns the connection string for PostgreSQL.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s", c.DBHost, c.DBUser, c.DBPassword, c.DBName)
}

// SMTPEnabled reports if outgoing mail is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// HumanLogs reports if logs should be written in the human readable console format.
//
// If LOG_FORMAT is not set, human readable output is used in gin's debug mode
// and JSON otherwise.
func (c Config) HumanLogs() bool {
	if c.LogFormat == "" {
		return c.GinMode == "debug"
	}

	return c.LogFormat == "human"
}
