// Package boss provides boss (goal) lifecycle operations, scoped by owner.
package boss

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/models"
	"gorm.io/gorm"
)

// maxAncestorDepth bounds parent-chain walks so a corrupt store can't loop
// forever.
const maxAncestorDepth = 100

// CreateOpts holds parameters for creating a new boss.
type CreateOpts struct {
	Title       string
	Description string
	Difficulty  game.Difficulty
	MaxHP       int // 0 = derive from the difficulty table
	ParentID    string
	DueDate     *time.Time
}

// UpdateOpts holds optional field changes for an existing boss. Nil pointers
// leave the field untouched.
type UpdateOpts struct {
	Title       *string
	Description *string
	Difficulty  *game.Difficulty
	CurrentHP   *int
	DueDate     *time.Time
	ClearDue    bool
	ParentID    *string
	ClearParent bool
}

// GenerateID creates a unique boss ID in boss-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("boss: generate ID: %w", err)
	}
	return "boss-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new boss for the owner. Max HP defaults from the
// difficulty table and current HP always starts full.
func Create(db *gorm.DB, tables *game.Tables, ownerUID string, opts CreateOpts) (*models.Boss, error) {
	if ownerUID == "" {
		return nil, apperr.New(apperr.Unauthenticated, "owner is required")
	}
	if opts.Title == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title is required")
	}
	if !opts.Difficulty.Valid() {
		return nil, apperr.New(apperr.InvalidArgument, "unknown difficulty %q", opts.Difficulty)
	}
	if opts.MaxHP < 0 {
		return nil, apperr.New(apperr.InvalidArgument, "maxHp must not be negative")
	}

	if opts.ParentID != "" {
		if _, err := Get(db, ownerUID, opts.ParentID); err != nil {
			return nil, err
		}
	}

	maxHP := opts.MaxHP
	if maxHP == 0 {
		maxHP = tables.MaxHP(opts.Difficulty)
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	b := models.Boss{
		ID:          id,
		Title:       opts.Title,
		Description: opts.Description,
		Difficulty:  opts.Difficulty,
		MaxHP:       maxHP,
		CurrentHP:   maxHP,
		DueDate:     opts.DueDate,
		OwnerUID:    ownerUID,
	}
	if opts.ParentID != "" {
		b.ParentID = &opts.ParentID
	}

	if err := db.Create(&b).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "create boss")
	}
	return &b, nil
}

// Get retrieves a boss by ID, enforcing ownership.
func Get(db *gorm.DB, ownerUID, id string) (*models.Boss, error) {
	var b models.Boss
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "boss %s not found", id)
		}
		return nil, apperr.Wrap(apperr.Internal, err, "get boss %s", id)
	}
	if b.OwnerUID != ownerUID {
		return nil, apperr.New(apperr.PermissionDenied, "boss %s does not belong to the caller", id)
	}
	return &b, nil
}

// ListByOwner returns all bosses owned by the given user, newest first.
func ListByOwner(db *gorm.DB, ownerUID string) ([]models.Boss, error) {
	var bosses []models.Boss
	if err := db.Where("owner_uid = ?", ownerUID).Order("created_at DESC").Find(&bosses).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "list bosses")
	}
	return bosses, nil
}

// Update applies field changes to a boss. Current HP is clamped to
// [0, maxHp]. Re-parenting revalidates ownership and acyclicity. Defeated
// bosses remain editable; "defeated" is display state only.
func Update(db *gorm.DB, ownerUID, id string, opts UpdateOpts) (*models.Boss, error) {
	b, err := Get(db, ownerUID, id)
	if err != nil {
		return nil, err
	}

	if opts.Title != nil {
		if *opts.Title == "" {
			return nil, apperr.New(apperr.InvalidArgument, "title is required")
		}
		b.Title = *opts.Title
	}
	if opts.Description != nil {
		b.Description = *opts.Description
	}
	if opts.Difficulty != nil {
		if !opts.Difficulty.Valid() {
			return nil, apperr.New(apperr.InvalidArgument, "unknown difficulty %q", *opts.Difficulty)
		}
		b.Difficulty = *opts.Difficulty
	}
	if opts.CurrentHP != nil {
		hp := *opts.CurrentHP
		if hp < 0 {
			hp = 0
		}
		if hp > b.MaxHP {
			hp = b.MaxHP
		}
		b.CurrentHP = hp
	}
	if opts.ClearDue {
		b.DueDate = nil
	} else if opts.DueDate != nil {
		b.DueDate = opts.DueDate
	}
	if opts.ClearParent {
		b.ParentID = nil
	} else if opts.ParentID != nil {
		parentID := *opts.ParentID
		if _, err := Get(db, ownerUID, parentID); err != nil {
			return nil, err
		}
		if err := checkNoCycle(db, id, parentID); err != nil {
			return nil, err
		}
		b.ParentID = &parentID
	}

	if err := db.Save(b).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "update boss %s", id)
	}
	return b, nil
}

// Delete removes a boss, all its transitive sub-bosses, and every task
// linked to any removed boss.
func Delete(db *gorm.DB, ownerUID, id string) error {
	if _, err := Get(db, ownerUID, id); err != nil {
		return err
	}

	ids, err := subtreeIDs(db, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("boss_id IN ?", ids).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete linked tasks: %w", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Boss{}).Error; err != nil {
			return fmt.Errorf("delete bosses: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "delete boss %s", id)
	}
	return nil
}

// ChildrenIndex builds a parent→children map from a flat boss list. Roots
// are keyed under the empty string.
func ChildrenIndex(bosses []models.Boss) map[string][]models.Boss {
	index := make(map[string][]models.Boss)
	for _, b := range bosses {
		key := ""
		if b.ParentID != nil {
			key = *b.ParentID
		}
		index[key] = append(index[key], b)
	}
	return index
}

// subtreeIDs collects id and all transitive descendant boss IDs.
func subtreeIDs(db *gorm.DB, id string) ([]string, error) {
	ids := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		var children []models.Boss
		if err := db.Select("id").Where("parent_id IN ?", frontier).Find(&children).Error; err != nil {
			return nil, apperr.Wrap(apperr.Internal, err, "collect sub-bosses of %s", id)
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
			return apperr.New(apperr.InvalidArgument, "boss %s cannot become its own ancestor", id)
		}
		var parent models.Boss
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
