package formatting

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/Freeeeeet/course_app/internal/model"
)

// LongLayout renders e.g. "Friday, March 1, 2024 at 2:00 PM IST".
const LongLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// InZone formats t in the named IANA zone, falling back to UTC for unknown names
func InZone(t time.Time, zone string) string {
	return t.In(model.LoadLocation(zone)).Format(LongLayout)
}

// FormatDate formats only the date
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// FormatDateWithWeekday formats the date with the weekday
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("Monday, January 2")
}

// FormatTime formats only the clock time
func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatTimeRange formats a time range
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", FormatTime(start), FormatTime(end))
}
