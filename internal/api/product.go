package api

import (
	"coffee_platform/internal/db"      // Soft delete and pagination
	"coffee_platform/internal/domain"  // Importing domain models
	"coffee_platform/internal/service" // Activity log
	"coffee_platform/internal/storage" // Uploaded images
	"coffee_platform/internal/utils"   // Product validation
	"errors"                           // Error inspection
	"fmt"                              // Activity messages
	"net/http"                         // HTTP status codes
	"strings"                          // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for admin actions
	"gorm.io/datatypes"          // JSON columns
	"gorm.io/gorm"               // GORM ORM library
)

// ProductActionRequest targets one product by ID
type ProductActionRequest struct {
	ProductID uint `json:"productId" binding:"required"` // Target product
}

// productPayload is the JSON carried in the multipart "product" field
type productPayload struct {
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	ServingType       string               `json:"servingType"`
	InStock           *bool                `json:"inStock"`
	Sizes             []domain.Size        `json:"sizes"`
	AdditionalOptions []domain.OptionGroup `json:"additionalOptions"`
}

func (p productPayload) input() utils.ProductInput {
	return utils.ProductInput{
		Title:             strings.TrimSpace(p.Title),
		Description:       strings.TrimSpace(p.Description),
		ServingType:       p.ServingType,
		Sizes:             p.Sizes,
		AdditionalOptions: p.AdditionalOptions,
	}
}

// apply copies the payload onto product
func (p productPayload) apply(product *domain.Product) {
	in := p.input()
	product.Title = in.Title
	product.Description = in.Description
	product.ServingType = in.ServingType
	product.Sizes = datatypes.NewJSONSlice(in.Sizes)
	options := in.AdditionalOptions
	if options == nil {
		options = []domain.OptionGroup{}
	}
	product.AdditionalOptions = datatypes.NewJSONSlice(options)
	if p.InStock != nil {
		product.InStock = *p.InStock
	}
}

// productForm reads and validates the "product" JSON field
func productForm(c *gin.Context) (productPayload, bool) {
	var payload productPayload
	if _, ok := jsonField(c, "product", utils.SchemaProduct, &payload, true); !ok {
		return payload, false
	}
	if res := utils.ValidateProduct(payload.input()); !res.IsValid {
		badRequest(c, res.Message)
		return payload, false
	}
	return payload, true
}

// ListProductsHandler returns the live products of a shop
func ListProductsHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := queryID(c, "shopId")
		if !ok {
			return
		}
		listPage[domain.Product](c, cache, nsProducts, fmt.Sprintf("shop=%d:live", shopID),
			database.Where("shop_id = ?", shopID))
	}
}

// ListAllProductsHandler returns the products of a shop including soft-deleted ones
func ListAllProductsHandler(database *gorm.DB, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := queryID(c, "shopId")
		if !ok {
			return
		}
		listPage[domain.Product](c, cache, nsProducts, fmt.Sprintf("shop=%d:all", shopID),
			database.Unscoped().Where("shop_id = ?", shopID))
	}
}

// CreateProductHandler adds a product with its image to a live shop
func CreateProductHandler(database *gorm.DB, store storage.Store, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := formID(c, "shopId")
		if !ok {
			return
		}
		payload, ok := productForm(c)
		if !ok {
			return
		}
		img, ok := formImage(c, "image", true)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var stored string
		product := domain.Product{ShopID: shopID, InStock: true}
		payload.apply(&product)
		err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var shop domain.Shop
			if err := tx.Select("id").First(&shop, shopID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			url, err := store.Save(ctx, storage.FolderProducts, img.FileName(product.ID), img)
			if err != nil {
				return err
			}
			stored = url
			product.Image = url
			return tx.Model(&product).Update("image", url).Error
		})
		if err != nil {
			if stored != "" {
				if delErr := store.Delete(ctx, stored); delErr != nil {
					logrus.WithField("url", stored).WithError(delErr).Warn("Failed to remove orphaned upload")
				}
			}
			respondError(c, err)
			return
		}
		adminID := claims(c).ID
		activity.Admin(ctx, adminID, fmt.Sprintf("Product %s created for shop %d", product.Title, shopID))
		cache.Invalidate(ctx, nsProducts)
		logrus.WithFields(logrus.Fields{"product_id": product.ID, "shop_id": shopID, "admin_id": adminID}).Info("Product created")
		respond(c, http.StatusCreated, "Product created successfully", gin.H{"product": product})
	}
}

// EditProductHandler replaces a product's fields and optionally its image
func EditProductHandler(database *gorm.DB, store storage.Store, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := formID(c, "productId")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var product domain.Product
		if err := database.WithContext(ctx).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = domain.ErrNotFound
			}
			respondError(c, err)
			return
		}
		payload, ok := productForm(c)
		if !ok {
			return
		}
		img, ok := formImage(c, "image", false)
		if !ok {
			return
		}
		payload.apply(&product)
		if img != nil {
			url, err := storage.Replace(ctx, store, storage.FolderProducts, product.ID, product.Image, img)
			if err != nil {
				respondError(c, err)
				return
			}
			product.Image = url
		}
		if err := database.WithContext(ctx).Model(&product).Select(
			"title", "description", "serving_type", "in_stock", "sizes", "additional_options", "image",
		).Updates(&product).Error; err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Product %d updated", product.ID))
		cache.Invalidate(ctx, nsProducts)
		respond(c, http.StatusOK, "Product updated successfully", gin.H{"product": product})
	}
}

// DeleteProductHandler soft-deletes a product
func DeleteProductHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.SoftDelete[domain.Product](ctx, database, req.ProductID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Product %d deleted", req.ProductID))
		cache.Invalidate(ctx, nsProducts)
		respond(c, http.StatusOK, "Product deleted successfully", nil)
	}
}

// RestoreProductHandler clears a product's deleted flag
func RestoreProductHandler(database *gorm.DB, activity *service.ActivityLog, cache *ListCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductActionRequest
		if !bind(c, &req) {
			return
		}
		ctx := c.Request.Context()
		if err := db.Restore[domain.Product](ctx, database, req.ProductID); err != nil {
			respondError(c, err)
			return
		}
		activity.Admin(ctx, claims(c).ID, fmt.Sprintf("Product %d restored", req.ProductID))
		cache.Invalidate(ctx, nsProducts)
		respond(c, http.StatusOK, "Product restored successfully", nil)
	}
}
