package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact money values
	"gorm.io/datatypes"             // JSON columns
)

// ServingTypes a product can be served as
var ServingTypes = []string{"hot", "cold"}

// CupSizes usable as size labels
var CupSizes = []string{"S", "M", "L"}

// Size is one priced size variant of a product
type Size struct {
	Label            string          `json:"label"`
	Price            decimal.Decimal `json:"price"`
	DiscountRate     float64         `json:"discountRate"`
	BaseDiscountRate float64         `json:"baseDiscountRate"`
}

// Addition is one priced add-on inside an option group
type Addition struct {
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	DiscountRate     float64         `json:"discountRate"`
	BaseDiscountRate float64         `json:"baseDiscountRate"`
}

// OptionGroup groups add-ons under a title, e.g. "Syrups"
type OptionGroup struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Options     []Addition `json:"options"`
}

// Product Model
type Product struct {
	ID                uint                             `gorm:"primaryKey" json:"id"`
	ShopID            uint                             `gorm:"index;not null" json:"shopId"`
	Title             string                           `gorm:"size:191;not null" json:"title"`
	Description       string                           `gorm:"type:text" json:"description"`
	Image             string                           `gorm:"size:255" json:"image"`
	ServingType       string                           `gorm:"size:16" json:"servingType"`
	InStock           bool                             `json:"inStock"`
	Rating            float64                          `json:"rating"`
	ReviewCount       int                              `json:"reviewCount"`
	TotalSales        int                              `json:"totalSales"`
	Sizes             datatypes.JSONSlice[Size]        `json:"sizes"`
	AdditionalOptions datatypes.JSONSlice[OptionGroup] `json:"additionalOptions"`
	CreatedAt         time.Time                        `json:"createdAt"`
	UpdatedAt         time.Time                        `json:"updatedAt"`
	SoftDelete
}
