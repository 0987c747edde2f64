package flashfeed

import "time"

// The feed is addressed by signed day offsets from "today", and upstream
// only guarantees data within roughly a week either side.
const (
	MinOffset = -7
	MaxOffset = 7
)

const dateLayout = "2006-01-02"

// OffsetForDate converts a calendar date to the feed's day-offset relative
// to now. Both sides are truncated to dates so time-of-day never shifts the
// result.
func OffsetForDate(target time.Time, now time.Time) int {
	t := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(n).Hours() / 24)
}

// DateForOffset is the inverse of OffsetForDate.
func DateForOffset(offset int, now time.Time) time.Time {
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return n.AddDate(0, 0, offset)
}

// FormatDate renders the canonical YYYY-MM-DD key used for dated storage.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func ParseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

// DateRange lists every date from start to end inclusive.
func DateRange(start, end time.Time) []time.Time {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// OffsetInWindow reports whether the feed is expected to have data at this
// offset. Out-of-window fetches are allowed but an empty body is normal.
func OffsetInWindow(offset int) bool {
	return offset >= MinOffset && offset <= MaxOffset
}
