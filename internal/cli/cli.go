// Package cli wires configuration, clients and the syncer into the
// command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hinasync/internal/config"
	"hinasync/internal/gcal"
	"hinasync/internal/logger"
	"hinasync/internal/scraper"
	"hinasync/internal/syncer"
)

var (
	flagContent string
	flagMonths  int
	flagDryRun  bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hinasync",
		Short: "Sync the fan-club site's schedule into Google Calendar",
		Long: `Scrapes the official site's monthly schedule and news listings,
converts them into calendar events, and reconciles them against the
configured Google Calendars: new events are added, unchanged events are
left alone, and events that disappeared from the site are removed.`,
		RunE: runSync,
	}

	cmd.Flags().StringVar(&flagContent, "content", "all", "Content stream to sync: schedule, news or all")
	cmd.Flags().IntVar(&flagMonths, "months", 0, "Number of months to sync (default from SYNC_MONTHS)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log decisions without touching the calendar")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stdout))

	streams, err := selectStreams(cfg, flagContent)
	if err != nil {
		return err
	}

	months := cfg.Months
	if flagMonths > 0 {
		months = flagMonths
	}

	client, err := gcal.NewClient(cmd.Context(), cfg.TokenFile, cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("initializing calendar client: %w", err)
	}

	s := syncer.New(scraper.New(cfg.FetchDelay), client, flagDryRun)

	logger.Info("starting sync", logger.Fields{
		"months":  months,
		"streams": len(streams),
		"dry_run": flagDryRun,
	})
	return s.Run(streams, months)
}

// selectStreams maps the --content flag onto configured calendars. Asking
// for a stream with no calendar ID configured is a setup error.
func selectStreams(cfg *config.Config, content string) ([]syncer.Stream, error) {
	var streams []syncer.Stream

	want := strings.ToLower(strings.TrimSpace(content))
	switch want {
	case "schedule", "news", "all":
	default:
		return nil, fmt.Errorf("invalid --content %q (must be schedule, news or all)", content)
	}

	if want == "schedule" || want == "all" {
		if cfg.ScheduleCalendarID == "" {
			if want == "schedule" {
				return nil, fmt.Errorf("CALENDAR_ID_SCHEDULE is not set")
			}
		} else {
			streams = append(streams, syncer.Stream{
				Content:    scraper.ContentSchedule,
				CalendarID: cfg.ScheduleCalendarID,
			})
		}
	}

	if want == "news" || want == "all" {
		if cfg.NewsCalendarID == "" {
			if want == "news" {
				return nil, fmt.Errorf("CALENDAR_ID_NEWS is not set")
			}
		} else {
			streams = append(streams, syncer.Stream{
				Content:    scraper.ContentNews,
				CalendarID: cfg.NewsCalendarID,
			})
		}
	}

	if len(streams) == 0 {
		return nil, fmt.Errorf("no calendar IDs configured")
	}
	return streams, nil
}
