package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

// WeekSummary aggregates one study week for reports and snapshots.
type WeekSummary struct {
	WeekStart      time.Time `json:"week_start"`
	WeekEnd        time.Time `json:"week_end"`
	TotalMinutes   int       `json:"total_minutes"`
	TotalHours     float64   `json:"total_hours"`
	SessionCount   int       `json:"session_count"`
	CoursesStudied int       `json:"courses_studied"`
	// GoalHours is the sum of the weekly goals of the given courses.
	GoalHours float64 `json:"goal_hours"`
	// GoalPercent is the rounded, unclamped share of GoalHours studied. It is
	// 0 when there is no goal.
	GoalPercent int `json:"goal_percent"`
	GoalsMet    int `json:"goals_met"`
	TotalGoals  int `json:"total_goals"`
}

// Summarize aggregates sessions dated inside now's week [start, end).
func Summarize(courses []*types.Course, sessions []*types.StudySession, now time.Time) WeekSummary {
	start, end := WeekBounds(now)
	sum := WeekSummary{WeekStart: start, WeekEnd: end}

	studied := make(map[uuid.UUID]struct{})
	for _, s := range sessions {
		if s == nil || s.Duration <= 0 {
			continue
		}
		if s.Date.Before(start) || !s.Date.Before(end) {
			continue
		}
		sum.TotalMinutes += s.Duration
		sum.SessionCount++
		studied[s.CourseID] = struct{}{}
	}
	sum.CoursesStudied = len(studied)
	sum.TotalHours = float64(sum.TotalMinutes) / 60

	for _, c := range courses {
		if c == nil || !(c.WeeklyGoal > 0) || math.IsInf(c.WeeklyGoal, 0) {
			continue
		}
		sum.GoalHours += c.WeeklyGoal
		sum.TotalGoals++
		if UnitProgress(c, sessions, now) >= 100 {
			sum.GoalsMet++
		}
	}
	if sum.GoalHours > 0 {
		sum.GoalPercent = int(math.Round(sum.TotalHours / sum.GoalHours * 100))
	}
	return sum
}

// SnapshotSummary is the one-line description stored with a weekly snapshot.
func SnapshotSummary(weekNumber int, s WeekSummary) string {
	return fmt.Sprintf("Week %d: %d/%d goals achieved with %.1f total hours studied.",
		weekNumber, s.GoalsMet, s.TotalGoals, s.TotalHours)
}

// SnapshotRecommendations names up to three lagging units.
func SnapshotRecommendations(lagging []LaggingUnit) string {
	names := make([]string, 0, 3)
	for _, l := range lagging {
		if l.Course == nil {
			continue
		}
		names = append(names, l.Course.Name)
		if len(names) == 3 {
			break
		}
	}
	if len(names) == 0 {
		return "Great progress! Continue maintaining your study momentum."
	}
	return "Focus on: " + strings.Join(names, ", ")
}
