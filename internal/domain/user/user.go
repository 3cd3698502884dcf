package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password       string    `gorm:"not null;column:password" json:"-"`
	FirstName      string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName       string    `gorm:"not null;column:last_name" json:"last_name"`
	PreferredTheme string    `gorm:"column:preferred_theme" json:"preferred_theme"`

	// CurrentWeek is the academic week the user says they are in. It drives
	// assessment reminders in study suggestions.
	CurrentWeek int `gorm:"column:current_week;not null;default:1" json:"current_week"`
	// Timezone is an IANA name. Empty means the server default.
	Timezone string `gorm:"column:timezone" json:"timezone"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CurrentWeek <= 0 {
		u.CurrentWeek = 1
	}
	return nil
}

// Location resolves the user's timezone, falling back to def.
func (u *User) Location(def *time.Location) *time.Location {
	if def == nil {
		def = time.UTC
	}
	if u == nil || u.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return def
	}
	return loc
}
