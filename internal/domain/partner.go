package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact money values
)

// Partner account roles
const (
	RoleSeller  = "seller"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// PartnerRoles lists every valid partner account role
var PartnerRoles = []string{RoleSeller, RoleAdmin, RoleManager}

// Partner Model, the operating entity of one shop
type Partner struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	ShopID       uint             `gorm:"uniqueIndex;not null" json:"shopId"`
	Shop         *Shop            `json:"shop,omitempty"`
	Email        *string          `gorm:"size:191;uniqueIndex" json:"email"`
	Phone        *string          `gorm:"size:32;uniqueIndex" json:"phone"`
	TotalRevenue decimal.Decimal  `gorm:"type:decimal(14,2)" json:"totalRevenue"`
	Balance      decimal.Decimal  `gorm:"type:decimal(14,2)" json:"balance"`
	Distance     float64          `json:"distance"`
	Accounts     []PartnerAccount `gorm:"foreignKey:PartnerID" json:"accounts,omitempty"`
	Activities   []Activity       `gorm:"polymorphic:Owner;" json:"activities,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// PartnerAccount Model, a login-capable staff identity of a partner
type PartnerAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PartnerID uint      `gorm:"index;not null" json:"partnerId"`
	FullName  string    `gorm:"size:191" json:"fullName"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	SoftDelete
}
