package middleware

import (
	"coffee_platform/internal/domain" // Importing domain models
	"net/http"                        // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// AdminOnly checks on each request that the admin behind the token still exists
func AdminOnly(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c) // Get claims from context
		if !ok {
			unauthorized(c, "Unauthorized")
			return
		}
		var count int64 // Fetch admin from database
		if err := db.WithContext(c.Request.Context()).Model(&domain.Admin{}).Where("id = ?", claims.ID).Count(&count).Error; err != nil || count == 0 {
			// If admin not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
