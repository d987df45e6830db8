package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newsline-app/newsline/utils"
)

// Auth verifies the bearer token and, when roles are given, requires the
// decoded subject to hold one of them. The subject lands in the context for
// downstream handlers.
func Auth(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}
		subject, err := utils.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			c.Abort()
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if subject.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
				c.Abort()
				return
			}
		}

		c.Set("subject", subject)
		c.Next()
	}
}
