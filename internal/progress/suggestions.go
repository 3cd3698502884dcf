package progress

import "strings"

const (
	laggingPrefix  = "Units needing attention: "
	onTrackMessage = "Great progress! Consider reviewing previous topics for retention."
)

// StudySuggestions returns advisory strings in rule order: the calendar phase
// reminder, then either the two most behind units or a positive note.
func StudySuggestions(cal AcademicCalendar, currentWeek int, lagging []LaggingUnit) []string {
	out := make([]string, 0, 2)
	if msg, ok := cal.Reminder(currentWeek); ok {
		out = append(out, msg)
	}

	names := make([]string, 0, 2)
	for _, l := range lagging {
		if l.Course == nil {
			continue
		}
		names = append(names, l.Course.Name)
		if len(names) == 2 {
			break
		}
	}
	if len(names) > 0 {
		out = append(out, laggingPrefix+strings.Join(names, ", "))
	} else {
		out = append(out, onTrackMessage)
	}
	return out
}
