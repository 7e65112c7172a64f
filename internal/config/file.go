package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/healthcal/internal/flagx"
	"github.com/dmitrijs2005/healthcal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Pointer fields tell
// "absent" apart from a zero value so a file can set only what it needs.
type FileConfig struct {
	DatabaseDSN         *string         `json:"database_dsn" yaml:"database_dsn"`
	UserID              *string         `json:"user_id" yaml:"user_id"`
	Timezone            *string         `json:"timezone" yaml:"timezone"`
	WeekStart           *string         `json:"week_start" yaml:"week_start"`
	MaxOccurrences      *int            `json:"max_occurrences" yaml:"max_occurrences"`
	DefaultRepeatMonths *int            `json:"default_repeat_months" yaml:"default_repeat_months"`
	S3RootUser          *string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword      *string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket            *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region            *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint      *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	PresignExpiry       *timex.Duration `json:"presign_expiry" yaml:"presign_expiry"`
	LogLevel            *string         `json:"log_level" yaml:"log_level"`
	LogFormat           *string         `json:"log_format" yaml:"log_format"`
}

// decodeFile picks the decoder from the extension: .yaml/.yml is YAML,
// everything else JSON.
func decodeFile(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, fc)
	default:
		err = json.Unmarshal(raw, fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fc, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}
	fc, err := decodeFile(path)
	if err != nil {
		return err
	}

	set(&cfg.DatabaseDSN, fc.DatabaseDSN)
	set(&cfg.UserID, fc.UserID)
	set(&cfg.Timezone, fc.Timezone)
	set(&cfg.WeekStart, fc.WeekStart)
	set(&cfg.MaxOccurrences, fc.MaxOccurrences)
	set(&cfg.DefaultRepeatMonths, fc.DefaultRepeatMonths)
	set(&cfg.S3RootUser, fc.S3RootUser)
	set(&cfg.S3RootPassword, fc.S3RootPassword)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	if fc.PresignExpiry != nil {
		cfg.PresignExpiry = fc.PresignExpiry.Duration
	}
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	return nil
}
