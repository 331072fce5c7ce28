package event

import "time"

// boundaryWindowLastDay closes the overflow buffer at the start of each
// month. The calendar query window reaches into the following month to
// catch hour-24..28 events, so an entry starting on day 1-4 can be absent
// from the current month's page while still being correct; those entries
// are exempt from stale deletion. The window assumes at most one overflow
// day: an event written past hour 28 on the month's last day would land
// on day 5+ and be deleted wrongly. Known limitation, not extended here.
const boundaryWindowLastDay = 4

// Entry is an event fetched back from the calendar service for the month
// under reconciliation.
type Entry struct {
	ID       string
	Summary  string
	StartJST string // DateLayout for all-day entries, TimestampLayout otherwise
}

// Result is the outcome of one reconciliation pass. The caller inserts
// Additions, deletes Stale, and logs Passes; nothing in here has touched
// the calendar yet.
type Result struct {
	Additions []Record
	Passes    []Record
	Matched   map[string]bool // entry IDs claimed by a scraped record
	Stale     []Entry
}

// Reconcile diffs freshly scraped records against the entries already in
// the calendar.
//
// Each record claims the first entry whose (Summary, StartJST) equals the
// record's (Title, Start) by exact string comparison; a claimed entry
// satisfies every later record with the same identity. An identity
// already queued for addition satisfies later duplicates too, so a
// duplicate identity is inserted at most once no matter how many records
// carry it or how many passes run. Entries left unclaimed are stale,
// except those starting inside the boundary window at the top of the
// month.
//
// Reconcile is pure: it never mutates its inputs and performs no I/O.
func Reconcile(existing []Entry, records []Record) Result {
	result := Result{
		Matched: make(map[string]bool),
	}

	type identity struct {
		title string
		start string
	}
	adding := make(map[identity]bool)

	for _, rec := range records {
		found := false
		for _, entry := range existing {
			if entry.Summary == rec.Title && entry.StartJST == rec.Start {
				result.Matched[entry.ID] = true
				found = true
				break
			}
		}
		if found || adding[identity{rec.Title, rec.Start}] {
			result.Passes = append(result.Passes, rec)
		} else {
			adding[identity{rec.Title, rec.Start}] = true
			result.Additions = append(result.Additions, rec)
		}
	}

	for _, entry := range existing {
		if result.Matched[entry.ID] {
			continue
		}
		day, ok := startDay(entry.StartJST)
		if !ok {
			// Unparseable start: keeping an odd entry beats deleting
			// something we cannot reason about.
			continue
		}
		if day >= 1 && day <= boundaryWindowLastDay {
			continue
		}
		result.Stale = append(result.Stale, entry)
	}

	return result
}

// startDay extracts the day-of-month from an entry start value in either
// layout.
func startDay(start string) (int, bool) {
	if len(start) < len(DateLayout) {
		return 0, false
	}
	t, err := time.Parse(DateLayout, start[:len(DateLayout)])
	if err != nil {
		return 0, false
	}
	return t.Day(), true
}
