// Package scanner converts elapsed time into reopened recurring tasks. A
// completed task with recurrenceDays N becomes pending and due again once N
// days have passed since its completion date.
package scanner

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/goalraiders/goalraiders/internal/models"
	"github.com/goalraiders/goalraiders/internal/notify"
	"gorm.io/gorm"
)

// ScanOnce reopens every recurring, completed task whose next-due date has
// arrived: completed=false, lastCompleted cleared, isDue set. The comparison
// is date-only; time of day never matters. Running it again on the same day
// is a no-op because reopened tasks fail the completed guard.
//
// Each reopened task triggers a best-effort notification; delivery failures
// are logged and never undo the reopen. Returns the number of tasks reopened.
func ScanOnce(ctx context.Context, db *gorm.DB, now time.Time, notifier notify.Notifier, out io.Writer) (int, error) {
	if out == nil {
		out = io.Discard
	}

	var candidates []models.Task
	if err := db.Where("recurrence_days > 0 AND completed = ?", true).Find(&candidates).Error; err != nil {
		return 0, fmt.Errorf("scanner: list recurring tasks: %w", err)
	}

	today := dateOf(now)
	reopened := 0
	for i := range candidates {
		t := &candidates[i]
		if !isDueOn(t, today) {
			continue
		}

		// Guarded on completed so a concurrent completion or a second scan
		// of the same task is skipped rather than double-applied.
		res := db.Model(&models.Task{}).
			Where("id = ? AND completed = ?", t.ID, true).
			Updates(map[string]interface{}{
				"completed":      false,
				"last_completed": nil,
				"is_due":         true,
			})
		if res.Error != nil {
			return reopened, fmt.Errorf("scanner: reopen task %s: %w", t.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		reopened++
		fmt.Fprintf(out, "Reopened %s (%s)\n", t.ID, t.Title)

		if notifier != nil {
			t.Completed = false
			t.LastCompleted = nil
			t.IsDue = true
			if err := notifier.TaskDue(ctx, t); err != nil {
				log.Printf("scanner: notify for task %s: %v", t.ID, err)
			}
		}
	}

	return reopened, nil
}

// ListDue returns the recurring, completed tasks that a scan at time now
// would reopen, without changing anything.
func ListDue(ctx context.Context, db *gorm.DB, now time.Time) ([]models.Task, error) {
	var candidates []models.Task
	if err := db.WithContext(ctx).Where("recurrence_days > 0 AND completed = ?", true).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("scanner: list recurring tasks: %w", err)
	}

	today := dateOf(now)
	due := candidates[:0]
	for i := range candidates {
		if isDueOn(&candidates[i], today) {
			due = append(due, candidates[i])
		}
	}
	return due, nil
}

// isDueOn reports whether a recurring, completed task should reopen on the
// given date. A completed task missing its completion date is treated as
// overdue rather than stuck forever.
func isDueOn(t *models.Task, today time.Time) bool {
	if t.LastCompleted == nil {
		return true
	}
	nextDue := dateOf(*t.LastCompleted).AddDate(0, 0, t.RecurrenceDays)
	return !today.Before(nextDue)
}

// dateOf truncates a timestamp to its calendar date.
func dateOf(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
