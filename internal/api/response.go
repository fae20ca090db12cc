package api

import (
	"coffee_platform/internal/domain" // Domain errors
	"coffee_platform/internal/otp"    // Code errors
	"coffee_platform/internal/utils"  // Token errors
	"errors"                          // Error inspection
	"net/http"                        // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for failures
	"gorm.io/gorm"               // GORM errors
)

// respond writes the uniform envelope {success, message, ...payload}
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": status < http.StatusBadRequest, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps err to a status and message; unclassified errors are logged and hidden
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := messageFor(err, status)
	if status == http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).WithError(err).Error("Unhandled error")
		_ = c.Error(err)
	}
	respond(c, status, message, nil)
}

// badRequest answers 400 with message
func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}

func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserAlreadyExists),
		errors.Is(err, domain.ErrSamePassword),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, utils.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountBlocked):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTooManyOTPRequests):
		return http.StatusTooManyRequests
	case errors.Is(err, otp.ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func messageFor(err error, status int) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return MsgDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return MsgNotFound
	case status == http.StatusServiceUnavailable:
		return MsgTryAgain
	case status == http.StatusInternalServerError:
		return MsgInternal
	}
	return err.Error()
}
