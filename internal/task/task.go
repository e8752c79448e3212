// Package task provides task lifecycle operations, scoped by owner.
// Completing a task is the engine package's job; this package covers CRUD,
// reference validation, and the sub-task forest.
package task

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/boss"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/models"
	"gorm.io/gorm"
)

const maxAncestorDepth = 100

// CreateOpts holds parameters for creating a new task.
type CreateOpts struct {
	Title          string
	Difficulty     game.Difficulty
	RecurrenceDays int
	ParentID       string
	BossID         string // optional; unassigned tasks never damage a boss
}

// UpdateOpts holds optional field changes for an existing task. Nil pointers
// leave the field untouched.
type UpdateOpts struct {
	Title          *string
	Difficulty     *game.Difficulty
	RecurrenceDays *int
	ParentID       *string
	ClearParent    bool
	BossID         *string
	ClearBoss      bool
}

// GenerateID creates a unique task ID in task-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("task: generate ID: %w", err)
	}
	return "task-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new pending task for the owner.
func Create(db *gorm.DB, ownerUID string, opts CreateOpts) (*models.Task, error) {
	if ownerUID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "owner is required")
	}
	if opts.Title == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title is required")
	}
	if !opts.Difficulty.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "unknown difficulty %q", opts.Difficulty)
	}
	if opts.RecurrenceDays < 0 {
		return nil, apperr.New(apperr.InvalidArgument, "recurrenceDays must not be negative")
	}
	if opts.ParentID != "" {
		if _, err := Get(db, ownerUID, opts.ParentID); err != nil {
			return nil, err
		}
	}
	if opts.BossID != "" {
		if _, err := boss.Get(db, ownerUID, opts.BossID); err != nil {
			return nil, err
		}
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	t := models.Task{
		ID:             id,
		Title:          opts.Title,
		Difficulty:     opts.Difficulty,
		RecurrenceDays: opts.RecurrenceDays,
		OwnerUID:       ownerUID,
	}
	if opts.ParentID != "" {
		t.ParentID = &opts.ParentID
	}
	if opts.BossID != "" {
		t.BossID = &opts.BossID
	}

	if err := db.Create(&t).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "create task")
	}
	return &t, nil
}

// Get retrieves a task by ID, enforcing ownership.
func Get(db *gorm.DB, ownerUID, id string) (*models.Task, error) {
	var t models.Task
	if err := db.Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "task %s not found", id)
		}
		return nil, apperr.Wrap(apperr.Internal, err, "get task %s", id)
	}
	if t.OwnerUID != ownerUID {
		return nil, apperr.New(apperr.PermissionDenied, "task %s does not belong to the caller", id)
	}
	return &t, nil
}

// ListByOwner returns all tasks owned by the given user, newest first.
func ListByOwner(db *gorm.DB, ownerUID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Where("owner_uid = ?", ownerUID).Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list tasks")
	}
	return tasks, nil
}

// Update applies field changes to a task. Completion state is not editable
// here; the engine and scanner own those transitions.
func Update(db *gorm.DB, ownerUID, id string, opts UpdateOpts) (*models.Task, error) {
	t, err := Get(db, ownerUID, id)
	if err != nil {
		return nil, err
	}

	if opts.Title != nil {
		if *opts.Title == "" {
			return nil, apperr.New(apperr.InvalidArgument, "title is required")
		}
		t.Title = *opts.Title
	}
	if opts.Difficulty != nil {
		if !opts.Difficulty.Valid() {
			return nil, apperr.New(apperr.InvalidArgument, "unknown difficulty %q", *opts.Difficulty)
		}
		t.Difficulty = *opts.Difficulty
	}
	if opts.RecurrenceDays != nil {
		if *opts.RecurrenceDays < 0 {
			return nil, apperr.New(apperr.InvalidArgument, "recurrenceDays must not be negative")
		}
		t.RecurrenceDays = *opts.RecurrenceDays
	}
	if opts.ClearParent {
		t.ParentID = nil
	} else if opts.ParentID != nil {
		parentID := *opts.ParentID
		if _, err := Get(db, ownerUID, parentID); err != nil {
			return nil, err
		}
		if err := checkNoCycle(db, id, parentID); err != nil {
			return nil, err
		}
		t.ParentID = &parentID
	}
	if opts.ClearBoss {
		t.BossID = nil
	} else if opts.BossID != nil {
		bossID := *opts.BossID
		if _, err := boss.Get(db, ownerUID, bossID); err != nil {
			return nil, err
		}
		t.BossID = &bossID
	}

	if err := db.Save(t).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "update task %s", id)
	}
	return t, nil
}

// Delete removes a task and all transitive descendants reachable via
// ParentID. No other tasks are touched.
func Delete(db *gorm.DB, ownerUID, id string) error {
	if _, err := Get(db, ownerUID, id); err != nil {
		return err
	}

	ids, err := subtreeIDs(db, id)
	if err != nil {
		return err
	}

	if err := db.Where("id IN ?", ids).Delete(&models.Task{}).Error; err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete task %s", id)
	}
	return nil
}

// ChildrenIndex builds a parent→children map from a flat task list. Roots
// are keyed under the empty string.
func ChildrenIndex(tasks []models.Task) map[string][]models.Task {
	index := make(map[string][]models.Task)
	for _, t := range tasks {
		key := ""
		if t.ParentID != nil {
			key = *t.ParentID
		}
		index[key] = append(index[key], t)
	}
	return index
}

// subtreeIDs collects id and all transitive descendant task IDs.
func subtreeIDs(db *gorm.DB, id string) ([]string, error) {
	ids := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		var children []models.Task
		if err := db.Select("id").Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "collect sub-tasks of %s", id)
		}
		frontier = frontier[:0]
		for _, c := range children {
			ids = append(ids, c.ID)
			frontier = append(frontier, c.ID)
		}
	}
	return ids, nil
}

// checkNoCycle rejects a re-parent that would make id its own ancestor.
func checkNoCycle(db *gorm.DB, id, newParentID string) error {
	current := newParentID
	for depth := 0; current != ""; depth++ {
		if depth >= maxAncestorDepth {
			return apperr.New(apperr.InvalidArgument, "parent chain of %s is too deep", newParentID)
		}
		if current == id {
			return apperr.New(apperr.InvalidArgument, "task %s cannot become its own ancestor", id)
		}
		var parent models.Task
		if err := db.Select("parent_id").Where("id = ?", current).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperr.Wrap(apperr.Internal, err, "walk ancestors of %s", newParentID)
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
	return nil
}
