package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bareClockPattern matches compact 4-digit clock tokens like "1900".
var bareClockPattern = regexp.MustCompile(`(\d\d)(\d\d)`)

// ResolveOverflow converts a clock string attached to a nominal calendar
// day into an absolute local timestamp. The site writes late-night slots
// as hours 24-28 on the previous day's row ("25:30" on the 15th means
// 01:30 on the 16th); this is the single place that convention becomes a
// real date rollover.
//
// clock is either a full "H:MM:SS" value (as produced by ParseTimeRange)
// or a bare 4-digit token like "1900". Anything else resolves to midnight
// of the nominal day.
func ResolveOverflow(year, month, day int, clock string) string {
	var hour, minute int

	if strings.Count(clock, ":") == 2 {
		parts := strings.Split(clock, ":")
		hour, _ = strconv.Atoi(parts[0])
		minute, _ = strconv.Atoi(parts[1])
	} else if m := bareClockPattern.FindStringSubmatch(clock); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
	}

	// Adding minutes-from-midnight lets time.Time normalize hour >= 24
	// into the following day.
	midnight := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	resolved := midnight.Add(time.Duration(hour*60+minute) * time.Minute)

	return resolved.Format(TimestampLayout)
}
