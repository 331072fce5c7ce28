// Package event provides the calendar-event domain model for the fan-club
// schedule sync.
//
// It converts normalized text fragments into Record values (title, start,
// end, all-day flag), resolves the site's over-24-hour clock notation into
// real calendar dates, extracts date and showtime mentions from free-form
// article text, and reconciles a freshly scraped record set against the
// events already present in the calendar.
package event
