package api

import (
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Auth flows
	"coffee_platform/internal/storage" // Uploaded images
	"net/http"                         // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for business events
	"gorm.io/gorm"               // GORM ORM library
)

// ChangePasswordRequest is shared by users and admins
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"` // Current password
	NewPassword string `json:"newPassword" binding:"required"` // Replacement password
}

// recentActivities is how many log entries user-me returns
const recentActivities = 10

// UserMeHandler returns the signed-in user with the latest entries of their activity log
func UserMeHandler(auth *service.AuthService, activity *service.ActivityLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		user, err := auth.User(ctx, claims(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		entries, err := activity.Recent(ctx, domain.OwnerUsers, user.ID, recentActivities)
		if err != nil {
			respondError(c, err)
			return
		}
		user.Activities = entries
		respond(c, http.StatusOK, MsgOK, gin.H{"user": user})
	}
}

// ChangePasswordHandler replaces the signed-in user's password
func ChangePasswordHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if !bind(c, &req) {
			return
		}
		if err := auth.ChangePassword(c.Request.Context(), claims(c).ID, req.OldPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgPasswordReset, nil)
	}
}

// UploadProfilePhotoHandler replaces the signed-in user's photo; the old file is removed first
func UploadProfilePhotoHandler(db *gorm.DB, auth *service.AuthService, store storage.Store, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		img, ok := formImage(c, "file", true)
		if !ok {
			return
		}
		user, err := auth.User(ctx, claims(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		url, err := storage.Replace(ctx, store, storage.FolderUsers, user.ID, user.Image, img)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).Update("image", url).Error; err != nil {
			respondError(c, err)
			return
		}
		user.Image = url
		cache.Invalidate(ctx, nsUsers)
		activity.User(ctx, user.ID, "Profile photo updated")
		logrus.WithField("user_id", user.ID).Info("Profile photo updated")
		respond(c, http.StatusOK, "Profile photo uploaded successfully", gin.H{"user": user})
	}
}
