// Package config assembles the runtime settings of the calendar: built-in
// defaults, then an optional JSON or YAML file named by -c/-config, then
// command-line flags. Each layer only overrides what it sets.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/calendar"
	"github.com/dmitrijs2005/healthcal/internal/recurrence"
)

// Config holds runtime settings.
//
// DatabaseDSN selects the storage: empty means the in-memory store, anything
// else is a PostgreSQL DSN for pgx. The S3 fields configure diary photo
// uploads against any S3-compatible endpoint (MinIO in development).
type Config struct {
	DatabaseDSN string
	UserID      string

	Timezone  string
	WeekStart string

	MaxOccurrences      int
	DefaultRepeatMonths int

	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	PresignExpiry  time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.UserID = "local"
	c.Timezone = "Local"
	c.WeekStart = "monday"
	c.MaxOccurrences = recurrence.DefaultMaxOccurrences
	c.DefaultRepeatMonths = recurrence.DefaultSpanMonths
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "healthcal"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.PresignExpiry = 15 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Location resolves Timezone; "" and "Local" mean the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate rejects settings the calendar cannot run with.
func (c *Config) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user id must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := calendar.ParseWeekStart(c.WeekStart); err != nil {
		return err
	}
	if c.MaxOccurrences <= 0 {
		return fmt.Errorf("max occurrences must be positive, got %d", c.MaxOccurrences)
	}
	if c.DefaultRepeatMonths <= 0 {
		return fmt.Errorf("default repeat months must be positive, got %d", c.DefaultRepeatMonths)
	}
	if c.PresignExpiry <= 0 {
		return fmt.Errorf("presign expiry must be positive, got %s", c.PresignExpiry)
	}
	return nil
}

// LoadConfig builds a Config from defaults, the optional config file and
// the flags in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
