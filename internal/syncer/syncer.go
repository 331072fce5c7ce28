// Package syncer drives the per-month reconciliation loop: fetch the
// calendar's current state, scrape the site, reconcile, and apply the
// resulting additions and deletions.
package syncer

import (
	"errors"
	"fmt"
	"time"

	"hinasync/internal/event"
	"hinasync/internal/logger"
	"hinasync/internal/scraper"
)

// scheduleSection names the article-body section that carries show dates
// in news posts.
const scheduleSection = "スケジュール"

// newsExcerptLimit caps how much article text goes into an event
// description.
const newsExcerptLimit = 200

// CalendarAPI is the slice of the calendar client the syncer needs.
type CalendarAPI interface {
	ListMonth(calendarID string, year, month int) ([]event.Entry, error)
	Insert(calendarID string, rec event.Record, description string) error
	Delete(calendarID, eventID string) error
}

// Source is the slice of the scraper the syncer needs.
type Source interface {
	FetchMonth(ct scraper.ContentType, year, month int) (*scraper.MonthSchedule, error)
	FetchMembers(url string) string
	FetchArticleBody(url string) (string, error)
}

// Stream pairs a content type with the calendar it syncs into.
type Stream struct {
	Content    scraper.ContentType
	CalendarID string
}

// Syncer runs sequential month passes. It holds no cross-run state; the
// calendar service is the system of record.
type Syncer struct {
	source Source
	cal    CalendarAPI
	dryRun bool
	now    func() time.Time
}

// New creates a Syncer. With dryRun set, decisions are logged but no
// calendar mutation is performed.
func New(source Source, cal CalendarAPI, dryRun bool) *Syncer {
	return &Syncer{
		source: source,
		cal:    cal,
		dryRun: dryRun,
		now:    time.Now,
	}
}

// Run reconciles each stream over the current month plus the following
// months-1. A month whose page cannot be trusted is skipped; calendar API
// failures abort the run (the next scheduled run retries from scratch,
// and reconciliation is idempotent).
func (s *Syncer) Run(streams []Stream, months int) error {
	base := s.now()

	for i := 0; i < months; i++ {
		anchor := time.Date(base.Year(), base.Month()+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		year, month := anchor.Year(), int(anchor.Month())

		for _, stream := range streams {
			if err := s.syncMonth(stream, year, month); err != nil {
				if errors.Is(err, scraper.ErrMonthMismatch) {
					logger.Warn("skipping month", logger.Fields{
						"content": string(stream.Content),
						"month":   fmt.Sprintf("%04d-%02d", year, month),
						"reason":  err.Error(),
					})
					continue
				}
				return fmt.Errorf("syncing %s %04d-%02d: %w", stream.Content, year, month, err)
			}
		}
	}
	return nil
}

// syncMonth runs one reconciliation pass for one stream and month.
func (s *Syncer) syncMonth(stream Stream, year, month int) error {
	existing, err := s.cal.ListMonth(stream.CalendarID, year, month)
	if err != nil {
		return err
	}

	sched, err := s.source.FetchMonth(stream.Content, year, month)
	if err != nil {
		return err
	}

	var records []event.Record
	switch stream.Content {
	case scraper.ContentSchedule:
		records = s.buildScheduleRecords(sched)
	case scraper.ContentNews:
		records = s.buildNewsRecords(sched)
	}

	result := event.Reconcile(existing, records)
	return s.apply(stream, result)
}

// buildScheduleRecords converts the media/schedule listing into records.
// A fragment that fails to build is logged and dropped; one broken row
// must not lose the month.
func (s *Syncer) buildScheduleRecords(sched *scraper.MonthSchedule) []event.Record {
	var records []event.Record
	for _, day := range sched.Days {
		for _, item := range day.Items {
			rec, err := event.BuildRecord(sched.Year, sched.Month, item.Name, item.Category, item.TimeText, day.Day, item.Link)
			if err != nil {
				logger.Warn("dropping unbuildable entry", logger.Fields{
					"name": item.Name,
					"day":  day.Day,
				})
				continue
			}
			records = append(records, rec)
		}
	}
	return records
}

// buildNewsRecords converts the news listing into records. Each article's
// body is scanned for show dates in its schedule section: a doors-open /
// show-start pair becomes a timed record on that date, a plain date
// mention an all-day record. Articles without extractable dates fall back
// to an all-day record on their publish date.
func (s *Syncer) buildNewsRecords(sched *scraper.MonthSchedule) []event.Record {
	var records []event.Record
	for _, day := range sched.Days {
		for _, item := range day.Items {
			records = append(records, s.newsItemRecords(sched.Year, sched.Month, day.Day, item)...)
		}
	}
	return records
}

func (s *Syncer) newsItemRecords(year, month int, dayText string, item scraper.Fragment) []event.Record {
	base, err := event.BuildRecord(year, month, item.Name, item.Category, "", dayText, item.Link)
	if err != nil {
		logger.Warn("dropping unbuildable news entry", logger.Fields{"name": item.Name})
		return nil
	}

	body, err := s.source.FetchArticleBody(item.Link)
	if err != nil {
		logger.Warn("article body unavailable", logger.Fields{"link": item.Link})
		return []event.Record{base}
	}
	base.Description = excerpt(body)

	ref := time.Date(year, time.Month(month), parsedDay(dayText), 0, 0, 0, 0, time.UTC)
	times, err := event.ExtractShowtimes(body, ref, scheduleSection)
	if err != nil {
		// No dates in the article is a data condition, not a failure:
		// keep the announcement itself on its publish date.
		logger.Debug("no show dates in article", logger.Fields{"link": item.Link})
		return []event.Record{base}
	}
	if len(times) == 0 {
		return []event.Record{base}
	}

	var out []event.Record
	for i := 0; i < len(times); {
		rec := base
		if times[i].Label == event.LabelOpen && i+1 < len(times) && times[i+1].Label == event.LabelStart {
			rec.Start = times[i].Time.Format(event.TimestampLayout)
			rec.End = times[i+1].Time.Format(event.TimestampLayout)
			rec.AllDay = false
			i += 2
		} else {
			rec.Start = times[i].Time.Format(event.DateLayout)
			rec.End = rec.Start
			rec.AllDay = true
			i++
		}
		out = append(out, rec)
	}
	return out
}

// apply logs every reconciliation decision and performs the calendar
// mutations unless running dry.
func (s *Syncer) apply(stream Stream, result event.Result) error {
	fields := logger.Fields{"content": string(stream.Content)}

	for _, rec := range result.Passes {
		logger.Info("pass: "+rec.Start+" "+rec.Title, fields)
	}

	for _, rec := range result.Additions {
		logger.Info("add: "+rec.Start+" "+rec.Title, fields)
		if s.dryRun {
			continue
		}
		if err := s.cal.Insert(stream.CalendarID, rec, s.description(stream, rec)); err != nil {
			return err
		}
	}

	for _, entry := range result.Stale {
		logger.Info("del: "+entry.StartJST+" "+entry.Summary, fields)
		if s.dryRun {
			continue
		}
		if err := s.cal.Delete(stream.CalendarID, entry.ID); err != nil {
			return err
		}
	}

	return nil
}

// description assembles the inserted event's description: the source link
// first, then the supplemental detail. Schedule entries look up their
// member list only when actually inserting, news records carry the
// article excerpt from the build step.
func (s *Syncer) description(stream Stream, rec event.Record) string {
	detail := rec.Description
	if stream.Content == scraper.ContentSchedule {
		detail = s.source.FetchMembers(rec.SourceURL)
	}
	if detail == "" {
		return rec.SourceURL
	}
	return rec.SourceURL + "\n" + detail
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= newsExcerptLimit {
		return text
	}
	return string(runes[:newsExcerptLimit]) + "…"
}

func parsedDay(dayText string) int {
	var day int
	fmt.Sscanf(dayText, "%d", &day)
	if day < 1 {
		day = 1
	}
	return day
}
