package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goalraiders/goalraiders/internal/apperr"
	"github.com/goalraiders/goalraiders/internal/ident"
)

// uidKey is the gin context key carrying the authenticated user UID.
const uidKey = "uid"

// authMiddleware verifies the bearer credential and stores the caller's UID
// in the request context.
func authMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, apperr.New(apperr.Unauthenticated, "missing bearer credential"))
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		uid, err := ident.Verify(secret, token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(uidKey, uid)
		c.Next()
	}
}

// callerUID returns the authenticated UID set by authMiddleware.
func callerUID(c *gin.Context) string {
	return c.GetString(uidKey)
}
