package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File is an uploaded attachment. Exactly one of CourseID and AssignmentID is set.
type File struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID     *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	AssignmentID *uuid.UUID `gorm:"type:uuid;index" json:"assignment_id,omitempty"`

	FileName    string `gorm:"column:file_name;not null" json:"file_name"`
	StorageKey  string `gorm:"column:storage_key;not null;uniqueIndex" json:"storage_key"`
	FileURL     string `gorm:"column:file_url" json:"file_url"`
	SizeBytes   int64  `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	ContentType string `gorm:"column:content_type" json:"content_type"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (File) TableName() string { return "file" }

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
