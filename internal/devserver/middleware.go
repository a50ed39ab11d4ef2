package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoppingCart/internal/auth"
)

const ctxUserID = "userID"

func (s *Server) outage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.down.Load() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "backend unavailable"})
			return
		}
		c.Next()
	}
}

// requireUser rejects requests without a valid bearer token.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		hdr := c.GetHeader("Authorization")
		if hdr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		p, err := auth.ParseToken(s.opts.JWTSecret, hdr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, p.UserID)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
