package api

import (
	"coffee_platform/internal/db"      // Soft delete and pagination
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Activity log
	"errors"                           // Error inspection
	"fmt"                              // Activity messages
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SubscribeRequest adds an address to the mailing list
type SubscribeRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// createSubscriber stores a subscriber; an address that was ever subscribed is a conflict
func createSubscriber(c *gin.Context, database *gorm.DB, req SubscribeRequest) (*domain.Subscriber, error) {
	sub := domain.Subscriber{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := database.WithContext(c.Request.Context()).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.Invalid("This email is already subscribed.")
		}
		return nil, err
	}
	return &sub, nil
}

// SubscribeHandler is the public newsletter sign-up
func SubscribeHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if !bind(c, &req) {
			return
		}
		sub, err := createSubscriber(c, database, req)
		if err != nil {
			respondError(c, err)
			return
		}
		cache.Invalidate(c.Request.Context(), nsSubscribers)
		respond(c, http.StatusCreated, "Subscribed successfully", gin.H{"subscriber": sub})
	}
}

// SubscriberActionRequest targets one subscriber by ID
type SubscriberActionRequest struct {
	SubscriberID uint `json:"subscriberId" binding:"required"` // Target subscriber
}

// ListSubscribersHandler returns live subscribers
func ListSubscribersHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.Subscriber](c, cache, nsSubscribers, "live", database)
	}
}

// AdminAddSubscriberHandler adds a subscriber from the admin panel
func AdminAddSubscriberHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if !bind(c, &req) {
			return
		}
		sub, err := createSubscriber(c, database, req)
		if err != nil {
			respondError(c, err)
			return
		}
		ctx := c.Request.Context()
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Subscriber %s added", sub.Email))
		cache.Invalidate(ctx, nsSubscribers)
		respond(c, http.StatusCreated, MsgCreated, gin.H{"subscriber": sub})
	}
}

// DeleteSubscriberHandler soft-deletes a subscriber
func DeleteSubscriberHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriberActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.SoftDelete[domain.Subscriber](ctx, database, req.SubscriberID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Subscriber %d deleted", req.SubscriberID))
		cache.Invalidate(ctx, nsSubscribers)
		respond(c, http.StatusOK, "Subscriber deleted successfully", nil)
	}
}

// RestoreSubscriberHandler clears a subscriber's deleted flag
func RestoreSubscriberHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriberActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.Restore[domain.Subscriber](ctx, database, req.SubscriberID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Subscriber %d restored", req.SubscriberID))
		cache.Invalidate(ctx, nsSubscribers)
		respond(c, http.StatusOK, "Subscriber restored successfully", nil)
	}
}
