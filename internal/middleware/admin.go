package middleware

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AdminHeaderMiddleware gates admin-panel endpoints. The panel sends the
// caller's identity as x-admin-id / x-admin-role headers; we verify the
// numeric id, that the user exists, and that the stored role matches the
// claimed one and is admin-level.
func AdminHeaderMiddleware(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		idHeader := c.GetHeader("x-admin-id")
		roleHeader := c.GetHeader("x-admin-role")

		if idHeader == "" || roleHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "x-admin-id and x-admin-role headers are required"})
			c.Abort()
			return
		}

		adminID, err := strconv.ParseInt(idHeader, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "x-admin-id must be numeric"})
			c.Abort()
			return
		}

		var role string
		err = db.QueryRow("SELECT role FROM users WHERE id = ?", adminID).Scan(&role)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Admin user not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to verify admin"})
			}
			c.Abort()
			return
		}

		if role != roleHeader || (role != "administrator" && role != "manager") {
			c.JSON(http.StatusForbidden, gin.H{"status": false, "error": "Permission denied"})
			c.Abort()
			return
		}

		c.Set("adminID", adminID)
		c.Set("adminRole", role)
		c.Next()
	}
}
