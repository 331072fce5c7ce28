package event

import "strings"

// rangeSeparator is the tilde between opening and closing clock times.
// Text is width-folded before it reaches this package, so the full-width
// tilde has already become ASCII; the wave dash shows up occasionally and
// is accepted too.
const rangeSeparator = "~"

// ParseTimeRange splits a schedule time fragment into start and end clock
// strings with a seconds component appended.
//
//	"19:00~21:00" → ("19:00:00", "21:00:00")
//	"19:00~"      → ("19:00:00", "19:00:00")
//	"19:00"       → ("19:00:00", "19:00:00")
//
// Text without a separator is valid input: the whole string is treated as
// a single clock time serving as both endpoints. ParseTimeRange is total;
// text that is not a clock time at all falls through to ResolveOverflow,
// which defaults digit-free input to midnight.
func ParseTimeRange(text string) (start, end string) {
	text = strings.ReplaceAll(text, "〜", rangeSeparator)

	if strings.HasSuffix(text, rangeSeparator) {
		// Open-ended range: the closing time collapses onto the start.
		start = strings.TrimSuffix(text, rangeSeparator)
		end = start
	} else if before, after, found := strings.Cut(text, rangeSeparator); found {
		start = before
		end = after
	} else {
		start = text
		end = text
	}

	return start + ":00", end + ":00"
}
