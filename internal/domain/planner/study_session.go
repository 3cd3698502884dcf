package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudySession is append-only. Rows are created and deleted, never updated.
type StudySession struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	Date             time.Time `gorm:"column:date;not null;index" json:"date"`
	Duration         int       `gorm:"column:duration;not null" json:"duration"`
	Notes            string    `gorm:"column:notes" json:"notes"`
	Subtopic         string    `gorm:"column:subtopic" json:"subtopic"`
	ConfidenceRating *int      `gorm:"column:confidence_rating" json:"confidence_rating,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (StudySession) TableName() string { return "study_session" }

func (s *StudySession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Date.IsZero() {
		s.Date = time.Now()
	}
	return nil
}
