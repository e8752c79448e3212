package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/engine"
	"github.com/goalraiders/goalraiders/internal/game"
	"github.com/goalraiders/goalraiders/internal/task"
)

type createTaskRequest struct {
	Title          string          `json:"title"`
	Difficulty     game.Difficulty `json:"difficulty"`
	RecurrenceDays int             `json:"recurrenceDays"`
	ParentID       string          `json:"parentId"`
	BossID         string          `json:"bossId"`
}

type updateTaskRequest struct {
	Title          *string          `json:"title"`
	Difficulty     *game.Difficulty `json:"difficulty"`
	RecurrenceDays *int             `json:"recurrenceDays"`
	ParentID       *string          `json:"parentId"`
	ClearParent    bool             `json:"clearParent"`
	BossID         *string          `json:"bossId"`
	ClearBoss      bool             `json:"clearBoss"`
}

func handleTaskList(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := task.ListByOwner(opts.DB, callerUID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tasks":    tasks,
			"children": task.ChildrenIndex(tasks),
		})
	}
}

func handleTaskCreate(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Wrap(apperr.InvalidArgument, err, "malformed request body"))
			return
		}
		t, err := task.Create(opts.DB, callerUID(c), task.CreateOpts{
			Title:          req.Title,
			Difficulty:     req.Difficulty,
			RecurrenceDays: req.RecurrenceDays,
			ParentID:       req.ParentID,
			BossID:         req.BossID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func handleTaskGet(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := task.Get(opts.DB, callerUID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleTaskUpdate(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperr.Wrap(apperr.InvalidArgument, err, "malformed request body"))
			return
		}
		t, err := task.Update(opts.DB, callerUID(c), c.Param("id"), task.UpdateOpts{
			Title:          req.Title,
			Difficulty:     req.Difficulty,
			RecurrenceDays: req.RecurrenceDays,
			ParentID:       req.ParentID,
			ClearParent:    req.ClearParent,
			BossID:         req.BossID,
			ClearBoss:      req.ClearBoss,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func handleTaskDelete(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := task.Delete(opts.DB, callerUID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleTaskComplete resolves a completion and returns the updated boss HP
// so the client can refresh without a second round trip.
func handleTaskComplete(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := engine.Complete(opts.DB, opts.Tables, c.Param("id"), callerUID(c), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "success",
			"taskId":       res.TaskID,
			"bossId":       res.BossID,
			"newBossHp":    res.NewBossHP,
			"damage":       res.Damage,
			"bossDefeated": res.BossDefeated,
			"xpAwarded":    res.XPAwarded,
		})
	}
}
