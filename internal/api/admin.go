package api

import (
	"coffee_platform/internal/db"      // Soft delete and pagination
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Account creation and activity
	"coffee_platform/internal/utils"   // Profile validation
	"errors"                           // Error inspection
	"fmt"                              // Activity messages
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for admin actions
	"gorm.io/gorm"               // GORM ORM library
)

// UserActionRequest targets one user by ID
type UserActionRequest struct {
	UserID uint `json:"userId" binding:"required"` // Target user
}

// AdminCreateUserRequest lets an admin open an account without the code flow
type AdminCreateUserRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required,contact"`
	Password     string `json:"password" binding:"required,strongpassword"`
	FirstName    string `json:"firstName" binding:"required"`
	SecondName   string `json:"secondName" binding:"required"`
	Gender       string `json:"gender" binding:"required"`
	BirthDate    string `json:"birthDate" binding:"required"`
}

// ListUsersHandler returns live users, newest first
func ListUsersHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.User](c, cache, nsUsers, "live", database)
	}
}

// ListAllUsersHandler returns users including soft-deleted ones
func ListAllUsersHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.User](c, cache, nsUsers, "all", database.Unscoped())
	}
}

// AdminCreateUserHandler creates an active user account
func AdminCreateUserHandler(auth *service.AuthService, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminCreateUserRequest
		if !bind(c, &req) {
			return
		}
		birth, ok := parseBirthDate(req.BirthDate)
		if !ok {
			badRequest(c, "Please enter a valid birth date.")
			return
		}
		ctx := c.Request.Context()
		user, err := auth.CreateUser(ctx, domain.ParseIdentifier(req.EmailOrPhone), utils.RegisterProfile{
			FirstName:  req.FirstName,
			SecondName: req.SecondName,
			Password:   req.Password,
			Gender:     strings.ToLower(strings.TrimSpace(req.Gender)),
			BirthDate:  birth,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		adminID := claims(c).ID
		activity.Admin(ctx, adminID, fmt.Sprintf("User %d created", user.ID))
		cache.Invalidate(ctx, nsUsers)
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "admin_id": adminID}).Info("User created by admin")
		respond(c, http.StatusCreated, MsgCreated, gin.H{"user": user})
	}
}

// DeleteUserHandler soft-deletes a user
func DeleteUserHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.SoftDelete[domain.User](ctx, database, req.UserID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("User %d deleted", req.UserID))
		cache.Invalidate(ctx, nsUsers)
		respond(c, http.StatusOK, "User deleted successfully", nil)
	}
}

// RestoreUserHandler clears a user's deleted flag
func RestoreUserHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.Restore[domain.User](ctx, database, req.UserID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("User %d restored", req.UserID))
		cache.Invalidate(ctx, nsUsers)
		respond(c, http.StatusOK, "User restored successfully", nil)
	}
}

// setAccountStatus moves a live user to status, refusing a no-op change
func setAccountStatus(c *gin.Context, database *gorm.DB, userID uint, status string) error {
	ctx := c.Request.Context()
	var user domain.User
	if err := database.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.AccountStatus == status {
		return domain.Invalid(fmt.Sprintf("User is already %s.", status))
	}
	return database.WithContext(ctx).Model(&user).Update("account_status", status).Error
}

// accountStatusHandler builds the block and unblock handlers
func accountStatusHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache, status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserActionRequest
		if !bind(c, &req) {
			return
		}
		if err := setAccountStatus(c, database, req.UserID, status); err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		verb := "blocked"
		if status == domain.AccountActive {
			verb = "unblocked"
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("User %d %s", req.UserID, verb))
		activity.User(ctx, req.UserID, fmt.Sprintf("Account %s by admin", verb))
		cache.Invalidate(ctx, nsUsers)
		respond(c, http.StatusOK, fmt.Sprintf("User %s successfully", verb), nil)
	}
}

// BlockUserHandler blocks a user; blocked users cannot log in or refresh
func BlockUserHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return accountStatusHandler(database, activity, cache, domain.AccountBlocked)
}

// UnblockUserHandler reactivates a blocked user
func UnblockUserHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return accountStatusHandler(database, activity, cache, domain.AccountActive)
}
