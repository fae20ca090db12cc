package api

import (
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Auth flows
	"coffee_platform/internal/utils"   // Profile validation
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation
	"time"                             // Birth date parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// StartRegistrationRequest is step one of sign-up
type StartRegistrationRequest struct {
	contactFields
	Password string `json:"password" binding:"required"` // Password must be provided
}

// VerifyCodeRequest is step two of sign-up and recovery
type VerifyCodeRequest struct {
	contactFields
	OTP string `json:"otp" binding:"required"` // Code received by mail
}

// CompleteRegistrationRequest is step three of sign-up; the identifier comes from the register token
type CompleteRegistrationRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	SecondName string `json:"secondName" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Gender     string `json:"gender" binding:"required"`
	BirthDate  string `json:"birthDate" binding:"required"`
}

// StartRecoveryRequest is step one of password recovery
type StartRecoveryRequest struct {
	contactFields
}

// CompleteRecoveryRequest is step three of password recovery
type CompleteRecoveryRequest struct {
	Password string `json:"password" binding:"required"` // New password
}

// LoginRequest struct for user login
type LoginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" binding:"required"` // Email or phone must be provided
	Password     string `json:"password" binding:"required"`     // Password must be provided
}

var birthDateLayouts = []string{"2006-01-02", time.RFC3339, "02.01.2006"}

// parseBirthDate accepts ISO dates, RFC 3339 timestamps and dd.mm.yyyy
func parseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// registerIdentifier returns the identifier a register token was minted for
func registerIdentifier(c *gin.Context) (domain.Identifier, bool) {
	cl := claims(c)
	if cl.Identifier == nil || cl.Identifier.IsZero() {
		respond(c, http.StatusUnauthorized, "Invalid or expired token", nil)
		return domain.Identifier{}, false
	}
	return *cl.Identifier, true
}

// StartRegistrationHandler sends a sign-up code to a new email or phone number
func StartRegistrationHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartRegistrationRequest // Bind JSON request to struct
		if !bind(c, &req) {
			return
		}
		if err := auth.StartRegistration(c.Request.Context(), req.Identifier(), req.Password); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, MsgCodeSent, nil)
	}
}

// VerifyCodeHandler burns a code and hands out a register token; shared by both flows
func VerifyCodeHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyCodeRequest
		if !bind(c, &req) {
			return
		}
		token, err := auth.VerifyCode(c.Request.Context(), req.Identifier(), req.OTP)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgCodeVerified, gin.H{"registerToken": token})
	}
}

// CompleteRegistrationHandler creates the account for the identifier in the register token
func CompleteRegistrationHandler(auth *service.AuthService, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := registerIdentifier(c)
		if !ok {
			return
		}
		var req CompleteRegistrationRequest
		if !bind(c, &req) {
			return
		}
		birth, ok := parseBirthDate(req.BirthDate)
		if !ok {
			badRequest(c, "Please enter a valid birth date.")
			return
		}
		user, err := auth.CompleteRegistration(c.Request.Context(), id, utils.RegisterProfile{
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
		cache.Invalidate(c.Request.Context(), nsUsers)
		respond(c, http.StatusOK, MsgRegistered, gin.H{"user": user})
	}
}

// StartRecoveryHandler sends a recovery code to an existing account
func StartRecoveryHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StartRecoveryRequest
		if !bind(c, &req) {
			return
		}
		if err := auth.StartRecovery(c.Request.Context(), req.Identifier()); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusCreated, MsgCodeSent, nil)
	}
}

// CompleteRecoveryHandler sets a new password for the identifier in the register token
func CompleteRecoveryHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := registerIdentifier(c)
		if !ok {
			return
		}
		var req CompleteRecoveryRequest
		if !bind(c, &req) {
			return
		}
		if err := auth.CompleteRecovery(c.Request.Context(), id, req.Password); err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgPasswordReset, nil)
	}
}

// LoginHandler authenticates a user and returns an access/refresh pair
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if !bind(c, &req) {
			return
		}
		tokens, user, err := auth.Login(c.Request.Context(), domain.ParseIdentifier(req.EmailOrPhone), req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, "Login successful", gin.H{"tokens": tokens, "user": user})
	}
}

// RefreshTokenHandler mints a new access token from a refresh token
func RefreshTokenHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.Refresh(c.Request.Context(), claims(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, MsgOK, gin.H{"accessToken": token})
	}
}
