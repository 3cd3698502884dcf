package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/studyplanner-backend/internal/domain/user"
	"gorm.io/gorm"
)

type Course struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Name        string `gorm:"column:name;not null" json:"name"`
	Code        string `gorm:"column:code;not null" json:"code"`
	Color       string `gorm:"column:color" json:"color"`
	Description string `gorm:"column:description" json:"description"`
	Instructor  string `gorm:"column:instructor" json:"instructor"`
	Semester    string `gorm:"column:semester" json:"semester"`
	Year        int    `gorm:"column:year" json:"year"`
	Credits     int    `gorm:"column:credits" json:"credits"`

	// WeeklyGoal is the target number of study hours per week.
	WeeklyGoal float64 `gorm:"column:weekly_goal;not null;default:0" json:"weekly_goal"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
