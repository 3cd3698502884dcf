package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeeklyProgressSnapshot is written once by a weekly reset and never mutated.
type WeeklyProgressSnapshot struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	WeekNumber      int       `gorm:"column:week_number;not null" json:"week_number"`
	StartDate       time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         time.Time `gorm:"column:end_date;not null" json:"end_date"`
	TotalHours      float64   `gorm:"column:total_hours;not null;default:0" json:"total_hours"`
	TotalGoals      int       `gorm:"column:total_goals;not null;default:0" json:"total_goals"`
	GoalsMet        int       `gorm:"column:goals_met;not null;default:0" json:"goals_met"`
	Summary         string    `gorm:"column:summary" json:"summary"`
	Recommendations string    `gorm:"column:recommendations" json:"recommendations"`

	// UnitProgress holds []UnitProgressEntry as JSON.
	UnitProgress     datatypes.JSON `gorm:"column:unit_progress" json:"unit_progress"`
	LaggingPreserved bool           `gorm:"column:lagging_preserved;not null;default:false" json:"lagging_preserved"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (WeeklyProgressSnapshot) TableName() string { return "weekly_progress" }

func (w *WeeklyProgressSnapshot) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type UnitProgressEntry struct {
	CourseID   uuid.UUID `json:"course_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	WeeklyGoal float64   `json:"weekly_goal"`
	Hours      float64   `json:"hours"`
	Progress   float64   `json:"progress"`
	Lagging    bool      `json:"lagging"`
}
