package models

import (
	"time"

	"github.com/goalraiders/goalraiders/internal/game"
)

// TaskCompletion is an append-only ledger row recorded for every successful
// completion, including repeats of recurring tasks.
type TaskCompletion struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	TaskID      string          `gorm:"size:32;index" json:"taskId"`
	BossID      *string         `gorm:"size:32;index" json:"bossId,omitempty"`
	OwnerUID    string          `gorm:"size:64;index" json:"ownerUid"`
	Difficulty  game.Difficulty `gorm:"size:16" json:"difficulty"`
	Damage      int             `json:"damage"`
	CompletedAt time.Time       `json:"completedAt"`
}
