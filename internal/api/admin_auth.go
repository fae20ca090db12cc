package api

import (
	"coffee_platform/internal/service" // Admin auth
	"net/http"                         // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminLoginRequest struct for admin login
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AdminLoginHandler authenticates an admin
func AdminLoginHandler(admins *service.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminLoginRequest
		if !bind(c, &req) {
			return
		}
		tokens, err := admins.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Login successful", gin.H{"tokens": tokens})
	}
}

// AdminRefreshTokenHandler mints a new admin access token
func AdminRefreshTokenHandler(admins *service.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := admins.Refresh(c.Request.Context(), claims(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgOK, gin.H{"accessToken": token})
	}
}

// AdminChangePasswordHandler replaces the signed-in admin's password
func AdminChangePasswordHandler(admins *service.AdminAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if !bind(c, &req) {
			return
		}
		if err := admins.ChangePassword(c.Request.Context(), claims(c).ID, req.OldPassword, req.NewPassword); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgPasswordReset, nil)
	}
}
