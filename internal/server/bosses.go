package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/boss"
	"github.com/goalraiders/goalraiders/internal/game"
)

type createBossRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  game.Difficulty `json:"difficulty"`
	MaxHP       int             `json:"maxHp"`
	ParentID    string          `json:"parentId"`
	DueDate     *time.Time      `json:"dueDate"`
}

type updateBossRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Difficulty  *game.Difficulty `json:"difficulty"`
	CurrentHP   *int             `json:"currentHp"`
	DueDate     *time.Time       `json:"dueDate"`
	ClearDue    bool             `json:"clearDueDate"`
	ParentID    *string          `json:"parentId"`
	ClearParent bool             `json:"clearParent"`
}

func handleBossList(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		bosses, err := boss.ListByOwner(opts.DB, callerUID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bosses":   bosses,
			"children": boss.ChildrenIndex(bosses),
		})
	}
}

func handleBossCreate(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBossRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Wrap(apperr.InvalidArgument, err, "malformed request body"))
			return
		}
		b, err := boss.Create(opts.DB, opts.Tables, callerUID(c), boss.CreateOpts{
			Title:       req.Title,
			Description: req.Description,
			Difficulty:  req.Difficulty,
			MaxHP:       req.MaxHP,
			ParentID:    req.ParentID,
			DueDate:     req.DueDate,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

func handleBossGet(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := boss.Get(opts.DB, callerUID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func handleBossUpdate(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateBossRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Wrap(apperr.InvalidArgument, err, "malformed request body"))
			return
		}
		b, err := boss.Update(opts.DB, callerUID(c), c.Param("id"), boss.UpdateOpts{
			Title:       req.Title,
			Description: req.Description,
			Difficulty:  req.Difficulty,
			CurrentHP:   req.CurrentHP,
			DueDate:     req.DueDate,
			ClearDue:    req.ClearDue,
			ParentID:    req.ParentID,
			ClearParent: req.ClearParent,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func handleBossDelete(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := boss.Delete(opts.DB, callerUID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
