package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/apperr"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	router.GET("/api/health", handleHealth())

	api := router.Group("/api")
	api.Use(authMiddleware(opts.Secret))

	api.GET("/config", handleConfig(opts))
	api.GET("/users/me", handleMe(opts))

	api.GET("/bosses", handleBossList(opts))
	api.POST("/bosses", handleBossCreate(opts))
	api.GET("/bosses/:id", handleBossGet(opts))
	api.PUT("/bosses/:id", handleBossUpdate(opts))
	api.DELETE("/bosses/:id", handleBossDelete(opts))

	api.GET("/tasks", handleTaskList(opts))
	api.POST("/tasks", handleTaskCreate(opts))
	api.GET("/tasks/:id", handleTaskGet(opts))
	api.PUT("/tasks/:id", handleTaskUpdate(opts))
	api.DELETE("/tasks/:id", handleTaskDelete(opts))
	api.POST("/tasks/:id/complete", handleTaskComplete(opts))
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.InvalidArgument:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.PermissionDenied:
		return http.StatusForbidden
	case apperr.FailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders an error as JSON. Internal causes are not leaked to
// the client; the full error is left to the recovery/log path.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.Internal {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"error": msg, "kind": string(kind)})
}
