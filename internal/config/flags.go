package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/healthcal/internal/flagx"
)

var knownFlags = []string{"-d", "-u", "-z", "-w", "-m", "-r", "-b", "-g", "-e", "-s3-user", "-s3-password", "-x", "-l", "-f"}

// parseFlags overrides cfg from the recognized flags in args:
//
//	-d string   PostgreSQL DSN (empty: in-memory store)
//	-u string   user id
//	-z string   IANA time zone, e.g. "Europe/Riga"
//	-w string   first day of the week: monday or sunday
//	-m int      max occurrences per recurring series
//	-r int      default series length in months when no end date is given
//	-b, -g, -e  S3 bucket, region and base endpoint
//	-s3-user, -s3-password  S3 credentials
//	-x int      presigned URL lifetime in minutes
//	-l, -f      log level and log format (json or text)
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("healthcal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id")
	fs.StringVar(&cfg.Timezone, "z", cfg.Timezone, "time zone")
	fs.StringVar(&cfg.WeekStart, "w", cfg.WeekStart, "week start")
	fs.IntVar(&cfg.MaxOccurrences, "m", cfg.MaxOccurrences, "max occurrences per series")
	fs.IntVar(&cfg.DefaultRepeatMonths, "r", cfg.DefaultRepeatMonths, "default repeat span in months")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3RootUser, "s3-user", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "s3-password", cfg.S3RootPassword, "S3 root password")
	expiry := fs.Int("x", int(cfg.PresignExpiry.Minutes()), "presigned URL expiry (in minutes)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "x" {
			cfg.PresignExpiry = time.Duration(*expiry) * time.Minute
		}
	})
	return nil
}
