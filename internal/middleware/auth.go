package middleware

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/dropmart/dropmart-golang/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer token, confirms the user still
// exists, and stores "userID" and "userRole" on the context.
func AuthMiddleware(db *sql.DB, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": false, "error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": false, "error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(jwtSecret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		var role string
		err = db.QueryRow("SELECT role FROM users WHERE id = ?", userID).Scan(&role)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to verify user"})
			}
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Set("userRole", role)
		c.Next()
	}
}

// DropshipperMiddleware allows only dropshipper accounts through. Must run
// after AuthMiddleware.
func DropshipperMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("userRole")
		if role != "dropshipper" {
			c.JSON(http.StatusForbidden, gin.H{"status": false, "error": "Dropshipper access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
