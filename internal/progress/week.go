package progress

import (
	"math"
	"time"
)

// FirstDayOfWeek is the day study weeks begin on.
const FirstDayOfWeek = time.Sunday

// WeekStart returns local midnight of the most recent firstDay at or before
// now, in now's location.
func WeekStart(now time.Time, firstDay time.Weekday) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	offset := (int(now.Weekday()) - int(firstDay) + 7) % 7
	return midnight.AddDate(0, 0, -offset)
}

// WeekBounds returns the current study week as [start, end).
func WeekBounds(now time.Time) (time.Time, time.Time) {
	start := WeekStart(now, FirstDayOfWeek)
	return start, start.AddDate(0, 0, 7)
}

// WeekNumber is the week of the year used to label snapshots: the ceiling of
// elapsed days since January 1 divided by seven, never below 1.
func WeekNumber(now time.Time) int {
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	days := now.Sub(jan1).Hours() / 24
	n := int(math.Ceil(days / 7))
	if n < 1 {
		n = 1
	}
	return n
}
