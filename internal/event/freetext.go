package event

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

// ErrNoDates is reported when free-text extraction finds no date mention
// at all. Callers treat it as a data problem with the article, not a
// failure of the run: log it and skip the derived-date step.
var ErrNoDates = errors.New("no valid dates found in text")

// Labels attached to timestamps derived from a doors-open/show-start
// phrase.
const (
	LabelOpen  = "open"
	LabelStart = "start"
)

// LabeledTime is one extracted timestamp with its showtime role. Label is
// empty for plain date mentions.
type LabeledTime struct {
	Label string
	Time  time.Time
}

var (
	// "3月15日" or "3/15" or "3-15".
	datePattern = regexp.MustCompile(`(\d{1,2})月(\d{1,2})日|(\d{1,2})[/-](\d{1,2})`)

	// Doors-open / show-start phrase: "開場 17:00 開演 18:00" with
	// arbitrary filler between the keywords and the clock times.
	showtimePattern = regexp.MustCompile(`開場\D{0,10}(\d{1,2}):(\d{2})\D{0,10}開演\D{0,10}(\d{1,2}):(\d{2})`)
)

// ExtractDates scans free-form article text for date mentions and returns
// them as concrete timestamps at midnight, in order of appearance with
// duplicates removed.
//
// ref anchors year resolution: a date strictly before ref is assumed to
// mean the upcoming occurrence and rolls forward one year. section, when
// non-empty, restricts matching to a 【section】-delimited span; an absent
// section yields an empty result with no error.
func ExtractDates(text string, ref time.Time, section string) ([]time.Time, error) {
	text, ok := scopeSection(text, section)
	if !ok {
		return nil, nil
	}

	var out []time.Time
	seen := make(map[time.Time]bool)
	for _, md := range findDates(text) {
		ts := rollForward(time.Date(ref.Year(), md.month, md.day, 0, 0, 0, 0, time.UTC), ref)
		if seen[ts] {
			continue
		}
		seen[ts] = true
		out = append(out, ts)
	}

	if len(out) == 0 {
		return nil, ErrNoDates
	}
	return out, nil
}

// ExtractShowtimes scans article text for date mentions paired with
// doors-open/show-start phrases and returns an ordered sequence of
// labeled timestamps.
//
// Pairing follows the shape of the text: with no showtime phrase each
// date becomes one unlabeled midnight timestamp; with exactly one phrase
// every date gets that open/start pair; with one phrase per date they are
// zipped positionally. A phrase count that matches neither shape degrades
// to the unlabeled form rather than guessing an alignment.
func ExtractShowtimes(text string, ref time.Time, section string) ([]LabeledTime, error) {
	text, ok := scopeSection(text, section)
	if !ok {
		return nil, nil
	}

	dates := findDates(text)
	if len(dates) == 0 {
		return nil, ErrNoDates
	}
	times := showtimePattern.FindAllStringSubmatch(text, -1)

	aligned := len(times) == 1 || len(times) == len(dates)

	var out []LabeledTime
	for i, md := range dates {
		if len(times) == 0 || !aligned {
			ts := time.Date(ref.Year(), md.month, md.day, 0, 0, 0, 0, time.UTC)
			out = append(out, LabeledTime{Time: rollForward(ts, ref)})
			continue
		}

		m := times[0]
		if len(times) == len(dates) {
			m = times[i]
		}
		openH, _ := strconv.Atoi(m[1])
		openM, _ := strconv.Atoi(m[2])
		startH, _ := strconv.Atoi(m[3])
		startM, _ := strconv.Atoi(m[4])

		open := time.Date(ref.Year(), md.month, md.day, openH, openM, 0, 0, time.UTC)
		start := time.Date(ref.Year(), md.month, md.day, startH, startM, 0, 0, time.UTC)
		out = append(out,
			LabeledTime{Label: LabelOpen, Time: rollForward(open, ref)},
			LabeledTime{Label: LabelStart, Time: rollForward(start, ref)},
		)
	}

	return out, nil
}

type monthDay struct {
	month time.Month
	day   int
}

// findDates returns every date mention in order. Either alternation of
// datePattern may have matched; the empty groups belong to the other arm.
func findDates(text string) []monthDay {
	var out []monthDay
	for _, m := range datePattern.FindAllStringSubmatch(text, -1) {
		monthStr, dayStr := m[1], m[2]
		if monthStr == "" {
			monthStr, dayStr = m[3], m[4]
		}
		month, _ := strconv.Atoi(monthStr)
		day, _ := strconv.Atoi(dayStr)
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		out = append(out, monthDay{month: time.Month(month), day: day})
	}
	return out
}

// scopeSection narrows text to the interior of a 【section】...【 span.
// The trailing bracket is appended so a section running to the end of the
// text still closes.
func scopeSection(text, section string) (string, bool) {
	if section == "" {
		return text, true
	}
	pattern := regexp.MustCompile(`(?s)【` + regexp.QuoteMeta(section) + `】(.*?)【`)
	m := pattern.FindStringSubmatch(text + "【")
	if m == nil {
		return "", false
	}
	return m[1], true
}

// rollForward bumps a timestamp into the following year when it falls
// strictly before the reference: extracted dates always mean an upcoming
// event, never a past one.
func rollForward(ts, ref time.Time) time.Time {
	if ts.Before(ref) {
		return ts.AddDate(1, 0, 0)
	}
	return ts
}
