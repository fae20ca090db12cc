package service

import (
	"coffee_platform/internal/domain"  // Domain models
	"coffee_platform/internal/storage" // Image storage
	"coffee_platform/internal/utils"   // Validation and hashing
	"context"                          // Request context
	"fmt"                              // Activity messages
	"strings"                          // Input trimming

	"github.com/google/uuid"        // Generated credentials
	"github.com/shopspring/decimal" // Exact money values
	"github.com/sirupsen/logrus"    // Logrus for business events
	"gorm.io/datatypes"             // JSON columns
	"gorm.io/gorm"                  // GORM ORM library
)

// DefaultPartnerDistance is the delivery distance of a new partner, in km
const DefaultPartnerDistance = 5

// ShopImages are the optional uploads of a shop
type ShopImages struct {
	Logo  *storage.Image
	Cover *storage.Image
}

// ShopProvisioner creates shops together with their partner and its admin account
type ShopProvisioner struct {
	db       *gorm.DB
	store    storage.Store
	activity *ActivityLog
}

// NewShopProvisioner wires shop creation
func NewShopProvisioner(db *gorm.DB, store storage.Store, activity *ActivityLog) *ShopProvisioner {
	return &ShopProvisioner{db: db, store: store, activity: activity}
}

// Provisioned is the outcome of a shop creation
type Provisioned struct {
	Shop    *domain.Shop
	Partner *domain.Partner
	Account *domain.PartnerAccount
}

// Create validates in and writes the shop, its images, its partner and one admin
// partner account in a single transaction. On failure nothing is kept, including stored files.
func (p *ShopProvisioner) Create(ctx context.Context, adminID uint, in utils.ShopInput, images ShopImages) (*Provisioned, error) {
	if err := utils.ValidateShop(in).Err(); err != nil {
		return nil, err
	}
	var (
		stored []string
		out    Provisioned
	)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		shop := NewShop(in)
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		if images.Logo != nil {
			url, err := p.store.Save(ctx, storage.FolderShopLogos, images.Logo.FileName(shop.ID), images.Logo)
			if err != nil {
				return err
			}
			stored = append(stored, url)
			shop.Logo = url
		}
		if images.Cover != nil {
			url, err := p.store.Save(ctx, storage.FolderShopCovers, images.Cover.FileName(shop.ID), images.Cover)
			if err != nil {
				return err
			}
			stored = append(stored, url)
			shop.CoverPhoto = url
		}
		if len(stored) > 0 {
			if err := tx.Model(&shop).Updates(map[string]any{"logo": shop.Logo, "cover_photo": shop.CoverPhoto}).Error; err != nil {
				return err
			}
		}
		partner := domain.Partner{
			ShopID:       shop.ID,
			TotalRevenue: decimal.Zero,
			Balance:      decimal.Zero,
			Distance:     DefaultPartnerDistance,
			Activities:   []domain.Activity{{Message: "Partner created"}},
		}
		if err := tx.Create(&partner).Error; err != nil {
			return err
		}
		account, err := newPartnerAdmin(partner.ID)
		if err != nil {
			return err
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		out = Provisioned{Shop: &shop, Partner: &partner, Account: account}
		return nil
	})
	if err != nil {
		for _, url := range stored {
			if delErr := p.store.Delete(ctx, url); delErr != nil {
				logrus.WithField("url", url).WithError(delErr).Warn("Failed to remove orphaned upload")
			}
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"shop_id":    out.Shop.ID,
		"partner_id": out.Partner.ID,
		"admin_id":   adminID,
	}).Info("Shop provisioned")
	p.activity.Admin(ctx, adminID, fmt.Sprintf("Created shop %s", out.Shop.Name))
	p.activity.Admin(ctx, adminID, fmt.Sprintf("New Partner created for shop %d as admin", out.Shop.ID))
	return &out, nil
}

// NewShop builds an unsaved shop from validated input
func NewShop(in utils.ShopInput) domain.Shop {
	settings := domain.DefaultShopSettings
	if in.Settings != nil {
		settings = *in.Settings
	}
	location := in.Location
	location.Type = "Point"
	return domain.Shop{
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		ShortAddress:   strings.TrimSpace(in.ShortAddress),
		Location:       datatypes.NewJSONType(location),
		OperatingHours: datatypes.NewJSONType(in.OperatingHours),
		Settings:       datatypes.NewJSONType(settings),
		DiscountRate:   in.DiscountRate,
		Rating:         5,
	}
}

// newPartnerAdmin builds the first admin account of a partner with generated credentials
func newPartnerAdmin(partnerID uint) (*domain.PartnerAccount, error) {
	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &domain.PartnerAccount{
		PartnerID: partnerID,
		FullName:  "Admin",
		Username:  "admin-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Password:  hash,
		Role:      domain.RoleAdmin,
	}, nil
}
