package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/models"
	"gorm.io/gorm"
)

// handleConfig returns the game balance tables so clients render the same
// numbers the server applies.
func handleConfig(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		damage := make(map[game.Difficulty]int, len(game.Difficulties))
		maxHP := make(map[game.Difficulty]int, len(game.Difficulties))
		xp := make(map[game.Difficulty]int, len(game.Difficulties))
		for _, d := range game.Difficulties {
			damage[d] = opts.Tables.Damage(d)
			maxHP[d] = opts.Tables.MaxHP(d)
			xp[d] = opts.Tables.XPReward(d)
		}
		c.JSON(http.StatusOK, gin.H{
			"difficulties":     game.Difficulties,
			"difficultyDamage": damage,
			"bossHp":           maxHP,
			"bossXpReward":     xp,
		})
	}
}

// handleMe returns the caller's player record, creating it on first sight.
func handleMe(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := getOrCreateUser(opts.DB, callerUID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"uid":        u.UID,
			"username":   u.Username,
			"email":      u.Email,
			"level":      u.Level,
			"experience": u.Experience,
		})
	}
}

// getOrCreateUser loads the user row for uid, creating a fresh level-1
// player if none exists yet.
func getOrCreateUser(db *gorm.DB, uid string) (*models.User, error) {
	var u models.User
	err := db.Where("uid = ?", uid).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.Internal, err, "load user %s", uid)
	}

	short := uid
	if len(short) > 8 {
		short = short[:8]
	}
	u = models.User{
		UID:      uid,
		Username: fmt.Sprintf("Raider_%s", short),
		Level:    1,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "create user %s", uid)
	}
	return &u, nil
}
