package domain

import (
	"time"

	"github.com/shopspring/decimal" // Exact money values
)

// Genders accepted at registration
var Genders = []string{"male", "female"}

// MembershipLevels in ascending order; the first one is the default
var MembershipLevels = []string{"bronze", "silver", "gold", "platinum"}

// Account statuses
const (
	AccountActive  = "active"
	AccountBlocked = "blocked"
)

// DefaultBalance is credited to every new account
var DefaultBalance = decimal.NewFromInt(1000)

// User Model
type User struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	FirstName       string          `gorm:"size:100;not null" json:"firstName"`
	SecondName      string          `gorm:"size:100;not null" json:"secondName"`
	Image           string          `gorm:"size:255" json:"image"`
	Email           *string         `gorm:"size:191;uniqueIndex" json:"email"`      // Nullable unique email
	PhoneNumber     *string         `gorm:"size:32;uniqueIndex" json:"phoneNumber"` // Nullable unique phone
	Password        string          `gorm:"not null" json:"-"`                      // Hashed password
	BirthDate       time.Time       `json:"birthDate"`
	Gender          string          `gorm:"size:16" json:"gender"`
	MembershipLevel string          `gorm:"size:16" json:"membershipLevel"`
	Balance         decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance"`
	LoyaltyPoints   int             `json:"loyaltyPoints"`
	AccountStatus   string          `gorm:"size:16;index" json:"accountStatus"`
	Activities      []Activity      `gorm:"polymorphic:Owner;" json:"activities,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	SoftDelete
}

// SetIdentifier stores the identifier in the column its kind maps to
func (u *User) SetIdentifier(id Identifier) {
	value := id.Value
	if id.Kind == IdentifierEmail {
		u.Email = &value
		return
	}
	u.PhoneNumber = &value
}

// IsBlocked reports whether an admin blocked the account
func (u *User) IsBlocked() bool {
	return u.AccountStatus == AccountBlocked
}
