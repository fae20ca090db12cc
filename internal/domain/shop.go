package domain

import (
	"time"

	"gorm.io/datatypes" // JSON columns
)

// Coordinates of a geo point
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GeoPoint is a shop location
type GeoPoint struct {
	Type        string      `json:"type"`
	Coordinates Coordinates `json:"coordinates"`
}

// OperatingHours holds opening and closing hours as "0".."23"
type OperatingHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// MachineLearning tuning of a shop
type MachineLearning struct {
	IsWorking     bool    `json:"isWorking"`
	StartingLimit float64 `json:"startingLimit"`
}

// ShopSettings groups per-shop settings
type ShopSettings struct {
	MachineLearning MachineLearning `json:"machineLearning"`
}

// DefaultShopSettings are applied when a shop is created without settings
var DefaultShopSettings = ShopSettings{MachineLearning: MachineLearning{IsWorking: true, StartingLimit: 30}}

// Shop Model
type Shop struct {
	ID             uint                               `gorm:"primaryKey" json:"id"`
	Name           string                             `gorm:"size:191;not null" json:"name"`
	Address        string                             `gorm:"size:255;not null" json:"address"`
	ShortAddress   string                             `gorm:"size:191;not null" json:"shortAddress"`
	Logo           string                             `gorm:"size:255" json:"logo"`
	CoverPhoto     string                             `gorm:"size:255" json:"coverPhoto"`
	Location       datatypes.JSONType[GeoPoint]       `json:"location"`
	OperatingHours datatypes.JSONType[OperatingHours] `json:"operatingHours"`
	Settings       datatypes.JSONType[ShopSettings]   `json:"settings"`
	DiscountRate   float64                            `json:"discountRate"`
	Rating         float64                            `json:"rating"`
	ReviewCount    int                                `json:"reviewCount"`
	TotalSales     int                                `json:"totalSales"`
	Products       []Product                          `gorm:"foreignKey:ShopID" json:"products,omitempty"`
	CreatedAt      time.Time                          `json:"createdAt"`
	UpdatedAt      time.Time                          `json:"updatedAt"`
	SoftDelete
}
