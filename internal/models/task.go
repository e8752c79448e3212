package models

import (
	"time"

	"github.com/goalraiders/goalraiders/internal/game"
)

// Task is a unit of work. Completing it deals damage to the linked boss, if
// any. RecurrenceDays 0 means one-shot; N > 0 means the task reopens N days
// after completion. Tasks form a forest via ParentID.
type Task struct {
	ID             string          `gorm:"primaryKey;size:32" json:"id"`
	Title          string          `gorm:"not null" json:"title"`
	Difficulty     game.Difficulty `gorm:"size:16;index" json:"difficulty"`
	Completed      bool            `gorm:"default:false;index" json:"completed"`
	LastCompleted  *time.Time      `json:"lastCompleted,omitempty"`
	RecurrenceDays int             `gorm:"default:0" json:"recurrenceDays"`
	IsDue          bool            `gorm:"default:false" json:"isDue"`
	ParentID       *string         `gorm:"size:32" json:"parentId,omitempty"`
	BossID         *string         `gorm:"size:32;index" json:"bossId,omitempty"`
	OwnerUID       string          `gorm:"size:64;index;not null" json:"ownerUid"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	Parent   *Task  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Task `gorm:"foreignKey:ParentID" json:"-"`
	Boss     *Boss  `gorm:"foreignKey:BossID" json:"-"`
}
