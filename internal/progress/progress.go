package progress

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/studyplanner-backend/internal/domain"
)

// LaggingThreshold is the progress percentage below which a course is lagging.
const LaggingThreshold = 50.0

type LaggingUnit struct {
	Course   *types.Course `json:"course"`
	Progress float64       `json:"progress"`
}

// UnitProgress returns the share of the course's weekly goal covered by
// sessions dated since the start of now's week, as a percentage in [0, 100].
// A nil course or a goal that is not a positive finite number yields 0.
func UnitProgress(course *types.Course, sessions []*types.StudySession, now time.Time) float64 {
	if course == nil {
		return 0
	}
	goal := course.WeeklyGoal
	if !(goal > 0) || math.IsInf(goal, 0) {
		return 0
	}
	start := WeekStart(now, FirstDayOfWeek)
	minutes := 0
	for _, s := range sessions {
		if s == nil || s.CourseID != course.ID || s.Duration <= 0 {
			continue
		}
		if s.Date.Before(start) {
			continue
		}
		minutes += s.Duration
	}
	ratio := (float64(minutes) / 60) / goal
	if ratio > 1 {
		ratio = 1
	}
	if !(ratio > 0) {
		return 0
	}
	return ratio * 100
}

// WeeklyProgress maps every course id to its UnitProgress.
func WeeklyProgress(courses []*types.Course, sessions []*types.StudySession, now time.Time) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(courses))
	for _, c := range courses {
		if c == nil {
			continue
		}
		out[c.ID] = UnitProgress(c, sessions, now)
	}
	return out
}

// LaggingUnits returns the courses below LaggingThreshold, most behind first.
// Equal progress keeps the input order.
func LaggingUnits(courses []*types.Course, sessions []*types.StudySession, now time.Time) []LaggingUnit {
	out := make([]LaggingUnit, 0)
	for _, c := range courses {
		if c == nil {
			continue
		}
		p := UnitProgress(c, sessions, now)
		if p < LaggingThreshold {
			out = append(out, LaggingUnit{Course: c, Progress: p})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Progress < out[j].Progress })
	return out
}
