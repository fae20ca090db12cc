package api

import (
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Activity log
	"coffee_platform/internal/utils"   // Account validation and hashing
	"context"                          // Request context
	"errors"                           // Error inspection
	"fmt"                              // Activity messages
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for admin actions
	"gorm.io/gorm"               // GORM ORM library
)

// PartnerAccountPayload is a staff account as sent by the admin panel
type PartnerAccountPayload struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (p PartnerAccountPayload) input() utils.PartnerAccountInput {
	return utils.PartnerAccountInput{
		FullName: strings.TrimSpace(p.FullName),
		Username: strings.TrimSpace(p.Username),
		Password: p.Password,
		Role:     strings.ToLower(strings.TrimSpace(p.Role)),
	}
}

// AddPartnerAccountRequest adds a staff account to a partner
type AddPartnerAccountRequest struct {
	PartnerID      uint                  `json:"partnerId" binding:"required"`
	PartnerAccount PartnerAccountPayload `json:"partnerAccount"`
}

// EditPartnerAccountRequest replaces a staff account; an empty password keeps the old one
type EditPartnerAccountRequest struct {
	PartnerID      uint                  `json:"partnerId" binding:"required"`
	AccountID      uint                  `json:"accountId" binding:"required"`
	PartnerAccount PartnerAccountPayload `json:"partnerAccount"`
}

// DeletePartnerAccountRequest removes a staff account from a partner
type DeletePartnerAccountRequest struct {
	PartnerID uint `json:"partnerId" binding:"required"`
	AccountID uint `json:"accountId" binding:"required"`
}

// PartnerContactRequest sets a partner's contact details; empty fields are cleared
type PartnerContactRequest struct {
	PartnerID uint   `json:"partnerId" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,azphone"`
}

// usernameTaken reports whether any account other than exceptID holds username, deleted ones included
func usernameTaken(ctx context.Context, database *gorm.DB, username string, exceptID uint) (bool, error) {
	var count int64
	err := database.WithContext(ctx).Unscoped().Model(&domain.PartnerAccount{}).
		Where("username = ? AND id <> ?", username, exceptID).Count(&count).Error
	return count > 0, err
}

func partnerExists(ctx context.Context, database *gorm.DB, partnerID uint) error {
	var count int64
	if err := database.WithContext(ctx).Model(&domain.Partner{}).Where("id = ?", partnerID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListPartnersHandler returns partners with their shop and live accounts
func ListPartnersHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.Partner](c, cache, nsPartners, "live", database, "Accounts", "Shop")
	}
}

// AddPartnerAccountHandler creates a staff account under a partner
func AddPartnerAccountHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddPartnerAccountRequest
		if !bind(c, &req) {
			return
		}
		in := req.PartnerAccount.input()
		if res := utils.ValidatePartnerAccount(in); !res.IsValid {
			badRequest(c, res.Message)
			return
		}
		ctx := c.Request.Context()
		if err := partnerExists(ctx, database, req.PartnerID); err != nil {
			respondError(c, err)
			return
		}
		taken, err := usernameTaken(ctx, database, in.Username, 0)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			badRequest(c, MsgUsernameTaken)
			return
		}
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		account := domain.PartnerAccount{
			PartnerID: req.PartnerID,
			FullName:  in.FullName,
			Username:  in.Username,
			Password:  hash,
			Role:      in.Role,
		}
		if err := database.WithContext(ctx).Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				badRequest(c, MsgUsernameTaken)
				return
			}
			respondError(c, err)
			return
		}
		adminID := claims(c).ID
		activity.Admin(ctx, adminID, fmt.Sprintf("Partner account %s added to partner %d", account.Username, req.PartnerID))
		activity.Partner(ctx, req.PartnerID, fmt.Sprintf("Account %s added as %s", account.Username, account.Role))
		cache.Invalidate(ctx, nsPartners)
		logrus.WithFields(logrus.Fields{"partner_id": req.PartnerID, "account_id": account.ID, "admin_id": adminID}).Info("Partner account added")
		respond(c, http.StatusCreated, "Partner account added successfully", gin.H{"partnerAccount": account})
	}
}

// EditPartnerAccountHandler updates a staff account of a partner
func EditPartnerAccountHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req EditPartnerAccountRequest
		if !bind(c, &req) {
			return
		}
		in := req.PartnerAccount.input()
		check := in
		if check.Password == "" {
			check.Password = "unchanged"
		}
		if res := utils.ValidatePartnerAccount(check); !res.IsValid {
			badRequest(c, res.Message)
			return
		}
		ctx := c.Request.Context()
		var account domain.PartnerAccount
		err := database.WithContext(ctx).Where("id = ? AND partner_id = ?", req.AccountID, req.PartnerID).First(&account).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respond(c, http.StatusNotFound, MsgAccountGone, nil)
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		taken, err := usernameTaken(ctx, database, in.Username, account.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if taken {
			badRequest(c, MsgUsernameTaken)
			return
		}
		changes := map[string]any{"full_name": in.FullName, "username": in.Username, "role": in.Role}
		if in.Password != "" {
			hash, err := utils.HashPassword(in.Password)
			if err != nil {
				respondError(c, err)
				return
			}
			changes["password"] = hash
		}
		if err := database.WithContext(ctx).Model(&account).Updates(changes).Error; err != nil {
			respondError(c, err)
			return
		}
		account.FullName, account.Username, account.Role = in.FullName, in.Username, in.Role
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Partner account %d of partner %d updated", account.ID, req.PartnerID))
		cache.Invalidate(ctx, nsPartners)
		respond(c, http.StatusOK, "Partner account updated successfully", gin.H{"partnerAccount": account})
	}
}

// DeletePartnerAccountHandler soft-deletes a staff account of a partner
func DeletePartnerAccountHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeletePartnerAccountRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		res := database.WithContext(ctx).
			Where("id = ? AND partner_id = ?", req.AccountID, req.PartnerID).
			Delete(&domain.PartnerAccount{})
		if res.Error != nil {
			respondError(c, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			respond(c, http.StatusNotFound, MsgAccountGone, nil)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Partner account %d of partner %d deleted", req.AccountID, req.PartnerID))
		activity.Partner(ctx, req.PartnerID, fmt.Sprintf("Account %d removed", req.AccountID))
		cache.Invalidate(ctx, nsPartners)
		respond(c, http.StatusOK, "Partner account deleted successfully", nil)
	}
}

// UpdatePartnerContactHandler sets the email and phone a partner is reached at
func UpdatePartnerContactHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PartnerContactRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := partnerExists(ctx, database, req.PartnerID); err != nil {
			respondError(c, err)
			return
		}
		changes := map[string]any{"email": nil, "phone": nil}
		if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
			changes["email"] = email
		}
		if phone := strings.TrimSpace(req.Phone); phone != "" {
			changes["phone"] = phone
		}
		if err := database.WithContext(ctx).Model(&domain.Partner{}).Where("id = ?", req.PartnerID).Updates(changes).Error; err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Partner %d contact updated", req.PartnerID))
		cache.Invalidate(ctx, nsPartners)
		respond(c, http.StatusOK, "Partner contact updated successfully", nil)
	}
}
