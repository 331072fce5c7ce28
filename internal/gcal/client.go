// Package gcal wraps the Google Calendar API for the schedule sync: the
// per-month list window, event insertion, deletion, and credential
// loading. It is the only package that talks to the calendar service.
package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"hinasync/internal/event"
)

// jst is fixed rather than loaded from tzdata; every timestamp this
// system handles is Tokyo wall clock.
var jst = time.FixedZone("JST", 9*60*60)

const (
	queryTimeZone = "Asia/Tokyo"

	// payloadTimeZone is the label stored on inserted events. The
	// calendar service accepts it as an alias of Asia/Tokyo.
	payloadTimeZone = "Japan"
)

// Client performs calendar operations against one authenticated account.
type Client struct {
	service *calendar.Service
}

// NewClient builds an authenticated calendar client. Credentials come
// from the cached token file when present and still valid, otherwise from
// the service-account credentials file (and the fresh token is cached).
func NewClient(ctx context.Context, tokenFile, credentialsFile string) (*Client, error) {
	ts, err := tokenSource(ctx, tokenFile, credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	service, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}

	return &Client{service: service}, nil
}

// MonthWindow returns the query range for one target month: the first of
// the month at 00:00 JST through the 4th of the following month at 04:00
// JST. The overhang catches events the site wrote with hours 24-28 on the
// month's last days, which the calendar stores on the next month's first
// days.
func MonthWindow(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, jst)
	end = time.Date(year, time.Month(month)+1, 4, 4, 0, 0, 0, jst)
	return start, end
}

// ListMonth fetches the month's existing events, normalized into
// reconciliation entries ordered by start time.
func (c *Client) ListMonth(calendarID string, year, month int) ([]event.Entry, error) {
	start, end := MonthWindow(year, month)

	result, err := c.service.Events.List(calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		TimeZone(queryTimeZone).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events for %04d-%02d: %w", year, month, err)
	}

	entries := make([]event.Entry, 0, len(result.Items))
	for _, item := range result.Items {
		entries = append(entries, event.Entry{
			ID:       item.Id,
			Summary:  item.Summary,
			StartJST: startJST(item),
		})
	}
	return entries, nil
}

// Insert creates one calendar event from a record. All-day records use
// date fields, timed records dateTime fields with the fixed zone label.
func (c *Client) Insert(calendarID string, rec event.Record, description string) error {
	body := &calendar.Event{
		Summary:     rec.Title,
		Description: description,
	}
	if rec.AllDay {
		body.Start = &calendar.EventDateTime{Date: rec.Start, TimeZone: payloadTimeZone}
		body.End = &calendar.EventDateTime{Date: rec.End, TimeZone: payloadTimeZone}
	} else {
		body.Start = &calendar.EventDateTime{DateTime: rec.Start, TimeZone: payloadTimeZone}
		body.End = &calendar.EventDateTime{DateTime: rec.End, TimeZone: payloadTimeZone}
	}

	if _, err := c.service.Events.Insert(calendarID, body).Do(); err != nil {
		return fmt.Errorf("inserting %q: %w", rec.Title, err)
	}
	return nil
}

// Delete removes one event by ID.
func (c *Client) Delete(calendarID, eventID string) error {
	if err := c.service.Events.Delete(calendarID, eventID).Do(); err != nil {
		return fmt.Errorf("deleting event %s: %w", eventID, err)
	}
	return nil
}

// startJST normalizes a fetched event start to the identity form used by
// reconciliation: the bare date for all-day events, otherwise the Tokyo
// wall-clock timestamp without zone suffix.
func startJST(item *calendar.Event) string {
	if item.Start == nil {
		return ""
	}
	if item.Start.Date != "" {
		return item.Start.Date
	}
	t, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return item.Start.DateTime
	}
	return t.In(jst).Format(event.TimestampLayout)
}
