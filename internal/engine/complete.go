// Package engine resolves task completions: one transaction that flips the
// task, damages the linked boss, and records the completion.
package engine

import (
	"errors"
	"time"

	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/models"
	"gorm.io/gorm"
)

// xpPerLevel is the experience required to advance one level. Overflow
// carries into the next level.
const xpPerLevel = 100

// CompletionResult describes the outcome of a successful completion, enough
// for the caller to refresh its view without a second round trip.
type CompletionResult struct {
	TaskID       string  `json:"taskId"`
	BossID       *string `json:"bossId,omitempty"`
	NewBossHP    *int    `json:"newBossHp,omitempty"`
	Damage       int     `json:"damage"`
	BossDefeated bool    `json:"bossDefeated"`
	XPAwarded    int     `json:"xpAwarded"`
}

// Complete resolves "complete task taskID for user uid" at time now.
//
// Preconditions are checked in order and fail fast with no writes: the task
// must exist, belong to the caller, and be pending; a linked boss must exist
// and belong to the caller. The completed flag is flipped with a guarded
// UPDATE so two concurrent completions of the same task deal damage exactly
// once — the loser of the race gets FailedPrecondition, same as a retry
// against an already-completed one-shot task.
func Complete(db *gorm.DB, tables *game.Tables, taskID, uid string, now time.Time) (*CompletionResult, error) {
	if taskID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "task id is required")
	}
	if uid == "" {
		return nil, apperr.New(apperr.Unauthenticated, "caller identity is required")
	}

	var result CompletionResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var t models.Task
		if err := tx.Where("id = ?", taskID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "task %s not found", taskID)
			}
			return apperr.Wrap(apperr.Internal, err, "load task %s", taskID)
		}
		if t.OwnerUID != uid {
			return apperr.New(apperr.PermissionDenied, "task %s does not belong to the caller", taskID)
		}
		// Completed tasks are never re-completable; recurring ones reopen
		// via the scanner, not here.
		if t.Completed {
			return apperr.New(apperr.FailedPrecondition, "task %s is already completed", taskID)
		}

		var b *models.Boss
		if t.BossID != nil {
			var loaded models.Boss
			if err := tx.Where("id = ?", *t.BossID).First(&loaded).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.New(apperr.NotFound, "boss %s not found", *t.BossID)
				}
				return apperr.Wrap(apperr.Internal, err, "load boss %s", *t.BossID)
			}
			if loaded.OwnerUID != uid {
				return apperr.New(apperr.PermissionDenied, "boss %s does not belong to the caller", loaded.ID)
			}
			b = &loaded
		}

		// Flip pending → completed, guarded on completed = false. Zero rows
		// means another writer won the race.
		updates := map[string]interface{}{
			"completed":      true,
			"last_completed": now,
		}
		if t.RecurrenceDays > 0 {
			updates["is_due"] = false
		}
		flip := tx.Model(&models.Task{}).
			Where("id = ? AND completed = ?", taskID, false).
			Updates(updates)
		if flip.Error != nil {
			return apperr.Wrap(apperr.Internal, flip.Error, "complete task %s", taskID)
		}
		if flip.RowsAffected == 0 {
			return apperr.New(apperr.FailedPrecondition, "task %s is already completed", taskID)
		}

		damage := tables.Damage(t.Difficulty)
		result = CompletionResult{
			TaskID: taskID,
			Damage: damage,
		}

		if b != nil {
			newHP := b.CurrentHP - damage
			if newHP < 0 {
				newHP = 0
			}
			bossUpdates := map[string]interface{}{"current_hp": newHP}

			// First time at zero: mark defeated and award XP.
			if newHP == 0 && !b.Defeated {
				bossUpdates["defeated"] = true
				result.BossDefeated = true
				result.XPAwarded = tables.XPReward(b.Difficulty)
				if result.XPAwarded > 0 {
					if err := addExperience(tx, uid, result.XPAwarded); err != nil {
						return err
					}
				}
			}

			if err := tx.Model(&models.Boss{}).Where("id = ?", b.ID).Updates(bossUpdates).Error; err != nil {
				return apperr.Wrap(apperr.Internal, err, "apply damage to boss %s", b.ID)
			}
			result.BossID = &b.ID
			result.NewBossHP = &newHP
		}

		entry := models.TaskCompletion{
			TaskID:      taskID,
			BossID:      t.BossID,
			OwnerUID:    uid,
			Difficulty:  t.Difficulty,
			Damage:      damage,
			CompletedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "record completion of task %s", taskID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// addExperience credits XP to the user, advancing levels at xpPerLevel each.
// Missing user rows are created on the fly, matching the get-or-create
// behavior of the API layer.
func addExperience(tx *gorm.DB, uid string, xp int) error {
	var u models.User
	err := tx.Where("uid = ?", uid).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = models.User{UID: uid, Level: 1}
		if err := tx.Create(&u).Error; err != nil {
			return apperr.Wrap(apperr.Internal, err, "create user %s", uid)
		}
	} else if err != nil {
		return apperr.Wrap(apperr.Internal, err, "load user %s", uid)
	}

	u.Experience += xp
	for u.Experience >= xpPerLevel {
		u.Level++
		u.Experience -= xpPerLevel
	}

	if err := tx.Model(&models.User{}).Where("uid = ?", uid).
		Updates(map[string]interface{}{"level": u.Level, "experience": u.Experience}).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err, "award xp to user %s", uid)
	}
	return nil
}
