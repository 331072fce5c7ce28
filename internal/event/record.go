package event

import (
	"fmt"
	"strconv"
)

// TimestampLayout is the wall-clock layout used for every timed start/end
// value in this package. Values carry no zone suffix; the calendar layer
// attaches Asia/Tokyo when it builds API payloads.
const TimestampLayout = "2006-01-02T15:04:05"

// DateLayout is the layout used for all-day start/end values.
const DateLayout = "2006-01-02"

// Record is a calendar-ready event built from scraped fragments.
//
// Identity is the (Title, Start) pair compared by exact string equality;
// End, Description and SourceURL never participate in matching. Records
// are built fresh on every scrape pass and not mutated afterwards.
type Record struct {
	Title       string
	Start       string // TimestampLayout, or DateLayout when AllDay
	End         string
	AllDay      bool
	Description string
	SourceURL   string
}

// BuildRecord composes a Record from the normalized fragments of one
// schedule entry. name, category, timeText and dateText must already be
// cleaned; dateText is the day-of-month as printed on the page.
//
// An empty timeText produces an all-day record on the nominal day.
// Otherwise the time text is parsed as a range and each endpoint resolved
// through ResolveOverflow, so late-night "25:30" entries land on the
// following date.
func BuildRecord(year, month int, name, category, timeText, dateText, link string) (Record, error) {
	day, err := strconv.Atoi(dateText)
	if err != nil {
		return Record{}, fmt.Errorf("parsing day %q: %w", dateText, err)
	}

	rec := Record{
		Title:     "(" + category + ")" + name,
		SourceURL: link,
	}

	if timeText == "" {
		rec.Start = fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		rec.End = rec.Start
		rec.AllDay = true
		return rec, nil
	}

	start, end := ParseTimeRange(timeText)
	rec.Start = ResolveOverflow(year, month, day, start)
	rec.End = ResolveOverflow(year, month, day, end)
	return rec, nil
}
