package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

type Notification struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title   string    `gorm:"column:title;not null" json:"title"`
	Message string    `gorm:"column:message;not null" json:"message"`
	Type    Type      `gorm:"column:type;not null;default:'info'" json:"type"`
	Read    bool      `gorm:"column:read;not null;default:false;index" json:"read"`

	RelatedTable string     `gorm:"column:related_table" json:"related_table,omitempty"`
	RelatedID    *uuid.UUID `gorm:"type:uuid;column:related_id" json:"related_id,omitempty"`

	// DedupeKey is set for notifications that must exist at most once, such as
	// scheduled reminders. The unique index enforces it across processes.
	DedupeKey *string `gorm:"column:dedupe_key;uniqueIndex" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Type == "" {
		n.Type = TypeInfo
	}
	return nil
}
