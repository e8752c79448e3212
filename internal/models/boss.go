package models

import (
	"time"

	"github.com/goalraiders/goalraiders/internal/game"
)

// Boss is a goal with hit points. Completing tasks linked to it deals
// difficulty-scaled damage; at 0 HP the boss is defeated. Bosses form a
// forest via ParentID.
type Boss struct {
	ID          string          `gorm:"primaryKey;size:32" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Difficulty  game.Difficulty `gorm:"size:16;index" json:"difficulty"`
	MaxHP       int             `json:"maxHp"`
	CurrentHP   int             `json:"currentHp"`
	Defeated    bool            `gorm:"default:false" json:"defeated"`
	ParentID    *string         `gorm:"size:32" json:"parentId,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	OwnerUID    string          `gorm:"size:64;index;not null" json:"ownerUid"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Parent   *Boss  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Boss `gorm:"foreignKey:ParentID" json:"-"`
}
