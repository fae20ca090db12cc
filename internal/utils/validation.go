package utils

import (
	"coffee_platform/internal/domain" // Domain enums and embedded types
	"fmt"                             // Message formatting
	"regexp"                          // Regular expressions
	"slices"                          // Enum membership
	"strconv"                         // Hour parsing
	"strings"                         // String manipulation
	"time"                            // Age computation
	"unicode"                         // Password character classes
	"unicode/utf8"                    // Password length in characters

	"github.com/gin-gonic/gin/binding"       // Gin binding engine
	"github.com/go-playground/validator/v10" // Struct tag validation
	"github.com/shopspring/decimal"          // Exact money values
)

// ValidationResult is the outcome of a field validation
type ValidationResult struct {
	IsValid bool
	Message string
}

// Err converts a failed result into a *domain.ValidationError
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return domain.Invalid(r.Message)
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(message string) ValidationResult {
	return ValidationResult{Message: message}
}

const (
	passwordMessage = "Password must be at least 8 characters long and contain one uppercase letter, one lowercase letter, one digit, and one special character."
	passwordSpecial = "!@#$%^&*"
	minAge          = 14
)

var (
	emailRegex   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	azPhoneRegex = regexp.MustCompile(`^(?:\+994|994|0)?(50|99|51|55|70|77)\d{7}$`)
	nameRegex    = regexp.MustCompile(`^[A-Za-zÇçĞğİıÖöŞşÜü\s]+$`)
)

// IsEmail checks the general email shape
func IsEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsAzerbaijanPhone checks an Azerbaijani mobile number, with or without country prefix
func IsAzerbaijanPhone(phone string) bool {
	return azPhoneRegex.MatchString(phone)
}

// IsStrongPassword requires 8+ characters with a digit, lower and upper case letters and one of !@#$%^&*
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}
	var digit, lower, upper, special bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case strings.ContainsRune(passwordSpecial, r):
			special = true
		}
	}
	return digit && lower && upper && special
}

// ValidateIdentifier checks the contact a user registers or recovers with
func ValidateIdentifier(id domain.Identifier) ValidationResult {
	switch {
	case id.IsZero():
		return invalid("Email or phone number is required.")
	case id.Kind == domain.IdentifierEmail && !IsEmail(id.Value):
		return invalid("Please enter a valid email address.")
	case id.Kind == domain.IdentifierPhone && !IsAzerbaijanPhone(id.Value):
		return invalid("Please enter a valid phone number.")
	}
	return valid()
}

// ValidatePassword checks password strength
func ValidatePassword(password string) ValidationResult {
	if !IsStrongPassword(password) {
		return invalid(passwordMessage)
	}
	return valid()
}

// RegisterProfile is the profile completed at the last registration step
type RegisterProfile struct {
	FirstName  string
	SecondName string
	Password   string
	Gender     string
	BirthDate  time.Time
}

// ValidateRegister checks the profile fields of a new account
func ValidateRegister(p RegisterProfile, now time.Time) ValidationResult {
	if r := ValidatePassword(p.Password); !r.IsValid {
		return r
	}
	if !slices.Contains(domain.Genders, p.Gender) {
		return invalid("Gender must be either 'male' or 'female'.")
	}
	if r := ValidateBirthDate(p.BirthDate, now); !r.IsValid {
		return r
	}
	if !isName(p.FirstName) {
		return invalid("First name must only contain letters and cannot be empty.")
	}
	if !isName(p.SecondName) {
		return invalid("Last name must only contain letters and cannot be empty.")
	}
	return valid()
}

// ValidateBirthDate requires a past date at least 14 calendar years back
func ValidateBirthDate(birth, now time.Time) ValidationResult {
	if birth.IsZero() || birth.After(now) {
		return invalid("Please enter a valid birth date.")
	}
	if now.Year()-birth.Year() < minAge {
		return invalid("You must be over 14 years old.")
	}
	return valid()
}

func isName(s string) bool {
	return strings.TrimSpace(s) != "" && nameRegex.MatchString(s)
}

// ShopInput carries the editable fields of a shop
type ShopInput struct {
	Name           string
	Address        string
	ShortAddress   string
	Location       domain.GeoPoint
	DiscountRate   float64
	OperatingHours domain.OperatingHours
	Settings       *domain.ShopSettings
}

// ValidateShop checks shop fields
func ValidateShop(s ShopInput) ValidationResult {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return invalid("Shop name is required and must be a valid string.")
	case strings.TrimSpace(s.Address) == "":
		return invalid("Shop address is required and must be a valid string.")
	case strings.TrimSpace(s.ShortAddress) == "":
		return invalid("Short address is required and must be a valid string.")
	}
	lat, lng := s.Location.Coordinates.Latitude, s.Location.Coordinates.Longitude
	if lat < -90 || lat > 90 {
		return invalid("Latitude must be a number between -90 and 90.")
	}
	if lng < -180 || lng > 180 {
		return invalid("Longitude must be a number between -180 and 180.")
	}
	if !isRate(s.DiscountRate) {
		return invalid("Discount rate must be a number between 0 and 100.")
	}
	if s.OperatingHours.Open == "" || s.OperatingHours.Close == "" {
		return invalid("Operating hours must have 'open' and 'close' times.")
	}
	if !isHour(s.OperatingHours.Open) {
		return invalid("Open time must be a valid hour (0-23).")
	}
	if !isHour(s.OperatingHours.Close) {
		return invalid("Close time must be a valid hour (0-23).")
	}
	if s.Settings != nil && s.Settings.MachineLearning.StartingLimit < 0 {
		return invalid("Machine learning 'startingLimit' must be a positive number.")
	}
	return valid()
}

func isHour(s string) bool {
	h, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && h >= 0 && h <= 23
}

func isRate(r float64) bool {
	return r >= 0 && r <= 100
}

// ProductInput carries the editable fields of a product
type ProductInput struct {
	Title             string
	Description       string
	ServingType       string
	Sizes             []domain.Size
	AdditionalOptions []domain.OptionGroup
}

// ValidateProduct checks product fields, sizes and option groups
func ValidateProduct(p ProductInput) ValidationResult {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return invalid("Product title is required and must be a valid string.")
	case strings.TrimSpace(p.Description) == "":
		return invalid("Product description is required and must be a valid string.")
	case !slices.Contains(domain.ServingTypes, p.ServingType):
		return invalid(fmt.Sprintf("Serving type must be one of the following: %s.", strings.Join(domain.ServingTypes, ", ")))
	case len(p.Sizes) == 0:
		return invalid("At least one size is required.")
	}
	for _, size := range p.Sizes {
		if !slices.Contains(domain.CupSizes, size.Label) {
			return invalid(fmt.Sprintf("Size label must be one of the following: %s.", strings.Join(domain.CupSizes, ", ")))
		}
		if !size.Price.GreaterThan(decimal.Zero) {
			return invalid("Each size must have a valid positive price.")
		}
		if !isRate(size.DiscountRate) {
			return invalid("Each size discount rate must be a number between 0 and 100.")
		}
		if !isRate(size.BaseDiscountRate) {
			return invalid("Each size base discount rate must be a number between 0 and 100.")
		}
	}
	for _, set := range p.AdditionalOptions {
		if set.Options == nil {
			return invalid("Each additional option set must have a valid options array.")
		}
		if strings.TrimSpace(set.Title) == "" {
			return invalid("Each option set must have a valid title.")
		}
		for _, option := range set.Options {
			if strings.TrimSpace(option.Title) == "" {
				return invalid("Each additional option must have a valid title.")
			}
			if !option.Price.GreaterThan(decimal.Zero) {
				return invalid("Each additional option must have a valid positive price.")
			}
			if !isRate(option.DiscountRate) {
				return invalid("Each additional option discount rate must be a number between 0 and 100.")
			}
			if !isRate(option.BaseDiscountRate) {
				return invalid("Each additional option base discount rate must be a number between 0 and 100.")
			}
		}
	}
	return valid()
}

// PartnerAccountInput carries the fields of a partner staff account
type PartnerAccountInput struct {
	FullName string
	Username string
	Password string
	Role     string
}

// ValidatePartnerAccount checks partner account fields; username uniqueness is checked against storage by the caller
func ValidatePartnerAccount(a PartnerAccountInput) ValidationResult {
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return invalid("Full name is required and must be a valid string.")
	case strings.TrimSpace(a.Username) == "":
		return invalid("Username is required and must be a valid string.")
	case strings.TrimSpace(a.Password) == "":
		return invalid("Password is required and must be a valid string.")
	case !slices.Contains(domain.PartnerRoles, a.Role):
		return invalid("Role must be one of the following: seller, admin, or manager.")
	}
	return valid()
}

// RegisterBindingValidators adds the platform tags to gin's validator engine
func RegisterBindingValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return ValidateIdentifier(domain.ParseIdentifier(fl.Field().String())).IsValid
	}); err != nil {
		return err
	}
	return v.RegisterValidation("azphone", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "" || IsAzerbaijanPhone(fl.Field().String())
	})
}
