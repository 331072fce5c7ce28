// Package config builds the process configuration from environment
// variables (optionally seeded from a .env file). Everything downstream
// receives an explicit Config; no package reads the environment itself.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultMonths     = 3
	DefaultFetchDelay = 3 * time.Second
)

// Config carries everything the sync run needs.
type Config struct {
	ScheduleCalendarID string // CALENDAR_ID_SCHEDULE
	NewsCalendarID     string // CALENDAR_ID_NEWS
	TokenFile          string // GOOGLE_TOKEN_FILE
	CredentialsFile    string // GOOGLE_CREDENTIALS_FILE
	Months             int    // SYNC_MONTHS
	FetchDelay         time.Duration
	LogLevel           string // LOG_LEVEL
}

// Load reads configuration from the environment. A missing .env file is
// fine; malformed numeric values are not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ScheduleCalendarID: os.Getenv("CALENDAR_ID_SCHEDULE"),
		NewsCalendarID:     os.Getenv("CALENDAR_ID_NEWS"),
		TokenFile:          envOr("GOOGLE_TOKEN_FILE", "token.json"),
		CredentialsFile:    envOr("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		Months:             DefaultMonths,
		FetchDelay:         DefaultFetchDelay,
		LogLevel:           envOr("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("SYNC_MONTHS"); v != "" {
		months, err := strconv.Atoi(v)
		if err != nil || months < 1 {
			return nil, fmt.Errorf("invalid SYNC_MONTHS %q", v)
		}
		cfg.Months = months
	}

	if v := os.Getenv("FETCH_DELAY_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 0 {
			return nil, fmt.Errorf("invalid FETCH_DELAY_SECONDS %q", v)
		}
		cfg.FetchDelay = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
