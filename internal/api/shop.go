package api

import (
	"coffee_platform/internal/db"      // Soft delete and pagination
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Shop provisioning
	"coffee_platform/internal/storage" // Uploaded images
	"coffee_platform/internal/utils"   // Shop validation
	"errors"                           // Error inspection
	"fmt"                              // Activity messages
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for admin actions
	"gorm.io/gorm"               // GORM ORM library
)

// ShopActionRequest targets one shop by ID
type ShopActionRequest struct {
	ShopID uint `json:"shopId" binding:"required"` // Target shop
}

// shopForm reads the shop fields of a multipart form on top of base
func shopForm(c *gin.Context, base utils.ShopInput, creating bool) (utils.ShopInput, bool) {
	in := base
	for key, dest := range map[string]*string{"name": &in.Name, "address": &in.Address, "shortAddress": &in.ShortAddress} {
		if v, ok := c.GetPostForm(key); ok {
			*dest = strings.TrimSpace(v)
		}
	}
	if _, ok := c.GetPostForm("discountRate"); ok {
		rate, ok := formFloat(c, "discountRate")
		if !ok {
			return in, false
		}
		in.DiscountRate = rate
	}
	if _, ok := jsonField(c, "location", utils.SchemaLocation, &in.Location, creating); !ok {
		return in, false
	}
	if _, ok := jsonField(c, "operatingHours", utils.SchemaOperatingHours, &in.OperatingHours, creating); !ok {
		return in, false
	}
	var settings domain.ShopSettings
	present, ok := jsonField(c, "settings", utils.SchemaSettings, &settings, false)
	if !ok {
		return in, false
	}
	if present {
		in.Settings = &settings
	}
	return in, true
}

// ListShopsHandler returns live shops
func ListShopsHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.Shop](c, cache, nsShops, "live", database)
	}
}

// ListAllShopsHandler returns shops including soft-deleted ones
func ListAllShopsHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		listPage[domain.Shop](c, cache, nsShops, "all", database.Unscoped())
	}
}

// CreateShopHandler provisions a shop together with its partner and first partner admin
func CreateShopHandler(provisioner *service.ShopProvisioner, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := shopForm(c, utils.ShopInput{}, true)
		if !ok {
			return
		}
		logo, ok := formImage(c, "logo", true)
		if !ok {
			return
		}
		cover, ok := formImage(c, "coverPhoto", true)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		out, err := provisioner.Create(ctx, claims(c).ID, in, service.ShopImages{Logo: logo, Cover: cover})
		if err != nil {
			respondError(c, err)
			return
		}
		cache.Invalidate(ctx, nsShops, nsPartners)
		respond(c, http.StatusCreated, "Shop created successfully", gin.H{
			"shop":           out.Shop,
			"partner":        out.Partner,
			"partnerAccount": out.Account,
		})
	}
}

// EditShopHandler updates the fields present in the form and replaces uploaded images
func EditShopHandler(database *gorm.DB, store storage.Store, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := formID(c, "shopId")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var shop domain.Shop
		if err := database.WithContext(ctx).First(&shop, shopID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = domain.ErrNotFound
			}
			respondError(c, err)
			return
		}
		settings := shop.Settings.Data()
		in, ok := shopForm(c, utils.ShopInput{
			Name:           shop.Name,
			Address:        shop.Address,
			ShortAddress:   shop.ShortAddress,
			Location:       shop.Location.Data(),
			DiscountRate:   shop.DiscountRate,
			OperatingHours: shop.OperatingHours.Data(),
			Settings:       &settings,
		}, false)
		if !ok {
			return
		}
		if res := utils.ValidateShop(in); !res.IsValid {
			badRequest(c, res.Message)
			return
		}
		logo, ok := formImage(c, "logo", false)
		if !ok {
			return
		}
		cover, ok := formImage(c, "coverPhoto", false)
		if !ok {
			return
		}
		updated := service.NewShop(in)
		changes := map[string]any{
			"name":            updated.Name,
			"address":         updated.Address,
			"short_address":   updated.ShortAddress,
			"location":        updated.Location,
			"operating_hours": updated.OperatingHours,
			"settings":        updated.Settings,
			"discount_rate":   updated.DiscountRate,
		}
		if logo != nil {
			url, err := storage.Replace(ctx, store, storage.FolderShopLogos, shop.ID, shop.Logo, logo)
			if err != nil {
				respondError(c, err)
				return
			}
			changes["logo"] = url
		}
		if cover != nil {
			url, err := storage.Replace(ctx, store, storage.FolderShopCovers, shop.ID, shop.CoverPhoto, cover)
			if err != nil {
				respondError(c, err)
				return
			}
			changes["cover_photo"] = url
		}
		if err := database.WithContext(ctx).Model(&shop).Updates(changes).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := database.WithContext(ctx).First(&shop, shop.ID).Error; err != nil {
			respondError(c, err)
			return
		}
		adminID := claims(c).ID
		activity.Admin(ctx, adminID, fmt.Sprintf("Shop %d updated", shop.ID))
		cache.Invalidate(ctx, nsShops, nsPartners)
		logrus.WithFields(logrus.Fields{"shop_id": shop.ID, "admin_id": adminID}).Info("Shop updated")
		respond(c, http.StatusOK, "Shop updated successfully", gin.H{"shop": shop})
	}
}

// DeleteShopHandler soft-deletes a shop; its products and partner stay untouched
func DeleteShopHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShopActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.SoftDelete[domain.Shop](ctx, database, req.ShopID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Shop %d deleted", req.ShopID))
		cache.Invalidate(ctx, nsShops, nsPartners)
		respond(c, http.StatusOK, "Shop deleted successfully", nil)
	}
}

// RestoreShopHandler clears a shop's deleted flag
func RestoreShopHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ShopActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.Restore[domain.Shop](ctx, database, req.ShopID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Shop %d restored", req.ShopID))
		cache.Invalidate(ctx, nsShops, nsPartners)
		respond(c, http.StatusOK, "Shop restored successfully", nil)
	}
}
