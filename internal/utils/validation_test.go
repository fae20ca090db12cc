package utils

import (
	"coffee_platform/internal/domain"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	cases := []struct {
		raw   string
		valid bool
	}{
		{"user@example.com", true},
		{"user@example", false},
		{"+994501234567", true},
		{"994551234567", true},
		{"0701234567", true},
		{"501234567", true},
		{"0601234567", false},
		{"+99450123456", false},
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidateIdentifier(domain.ParseIdentifier(tc.raw)).IsValid)
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Secret1!"))
	assert.False(t, IsStrongPassword("Secr1!"), "too short")
	assert.False(t, IsStrongPassword("Ab1!ççç"), "seven characters in ten bytes")
	assert.True(t, IsStrongPassword("Ab1!çççç"))
	assert.False(t, IsStrongPassword("secret1!"), "no upper case")
	assert.False(t, IsStrongPassword("SECRET1!"), "no lower case")
	assert.False(t, IsStrongPassword("Secretx!"), "no digit")
	assert.False(t, IsStrongPassword("Secret12"), "no special")
	assert.False(t, IsStrongPassword("Secret1?"), "special outside the allowed set")
}

func TestValidateRegister(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	ok := RegisterProfile{
		FirstName:  "Şəhla",
		SecondName: "Öztürk",
		Password:   "Secret1!",
		Gender:     "female",
		BirthDate:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	// "ə" is outside the accepted alphabet
	assert.False(t, ValidateRegister(ok, now).IsValid)

	ok.FirstName = "Şahla"
	assert.True(t, ValidateRegister(ok, now).IsValid)

	young := ok
	young.BirthDate = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	r := ValidateRegister(young, now)
	assert.False(t, r.IsValid)
	assert.Equal(t, "You must be over 14 years old.", r.Message)

	// Calendar year difference only
	borderline := ok
	borderline.BirthDate = time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, ValidateRegister(borderline, now).IsValid)

	badLast := ok
	badLast.SecondName = "Öztürk2"
	r = ValidateRegister(badLast, now)
	assert.False(t, r.IsValid)
	assert.Equal(t, "Last name must only contain letters and cannot be empty.", r.Message)

	badGender := ok
	badGender.Gender = "other"
	assert.False(t, ValidateRegister(badGender, now).IsValid)

	blankName := ok
	blankName.SecondName = "   "
	assert.False(t, ValidateRegister(blankName, now).IsValid)

	weak := ok
	weak.Password = "password"
	assert.Equal(t, passwordMessage, ValidateRegister(weak, now).Message)
}

func validShop() ShopInput {
	return ShopInput{
		Name:           "Corner Coffee",
		Address:        "28 May street 12, Baku",
		ShortAddress:   "28 May",
		Location:       domain.GeoPoint{Type: "Point", Coordinates: domain.Coordinates{Latitude: 40.38, Longitude: 49.85}},
		DiscountRate:   10,
		OperatingHours: domain.OperatingHours{Open: "8", Close: "23"},
	}
}

func TestValidateShop(t *testing.T) {
	assert.True(t, ValidateShop(validShop()).IsValid)

	s := validShop()
	s.Location.Coordinates.Latitude = 91
	assert.False(t, ValidateShop(s).IsValid)

	s = validShop()
	s.Location.Coordinates.Longitude = -181
	assert.False(t, ValidateShop(s).IsValid)

	s = validShop()
	s.DiscountRate = 101
	assert.False(t, ValidateShop(s).IsValid)

	s = validShop()
	s.OperatingHours.Close = "24"
	assert.Equal(t, "Close time must be a valid hour (0-23).", ValidateShop(s).Message)

	s = validShop()
	s.Settings = &domain.ShopSettings{MachineLearning: domain.MachineLearning{StartingLimit: -1}}
	assert.False(t, ValidateShop(s).IsValid)

	s = validShop()
	s.ShortAddress = ""
	assert.False(t, ValidateShop(s).IsValid)
}

func validProduct() ProductInput {
	return ProductInput{
		Title:       "Latte",
		Description: "Espresso with steamed milk",
		ServingType: "hot",
		Sizes: []domain.Size{
			{Label: "S", Price: decimal.RequireFromString("3.50"), DiscountRate: 0, BaseDiscountRate: 5},
		},
		AdditionalOptions: []domain.OptionGroup{
			{Title: "Syrups", Options: []domain.Addition{{Title: "Vanilla", Price: decimal.RequireFromString("0.50")}}},
		},
	}
}

func TestValidateProduct(t *testing.T) {
	assert.True(t, ValidateProduct(validProduct()).IsValid)

	p := validProduct()
	p.ServingType = "warm"
	assert.False(t, ValidateProduct(p).IsValid)

	p = validProduct()
	p.Sizes = nil
	assert.Equal(t, "At least one size is required.", ValidateProduct(p).Message)

	p = validProduct()
	p.Sizes[0].Label = "XL"
	assert.False(t, ValidateProduct(p).IsValid)

	p = validProduct()
	p.Sizes[0].Price = decimal.Zero
	assert.False(t, ValidateProduct(p).IsValid)

	p = validProduct()
	p.AdditionalOptions[0].Options[0].BaseDiscountRate = 120
	assert.False(t, ValidateProduct(p).IsValid)

	p = validProduct()
	p.AdditionalOptions[0].Options = nil
	assert.False(t, ValidateProduct(p).IsValid)
}

func TestValidatePartnerAccount(t *testing.T) {
	a := PartnerAccountInput{FullName: "Aysel Mammadova", Username: "aysel", Password: "x", Role: domain.RoleSeller}
	assert.True(t, ValidatePartnerAccount(a).IsValid)

	a.Role = "owner"
	assert.False(t, ValidatePartnerAccount(a).IsValid)
}

func TestValidationResultErr(t *testing.T) {
	assert.NoError(t, valid().Err())
	var verr *domain.ValidationError
	assert.ErrorAs(t, invalid("nope").Err(), &verr)
	assert.Equal(t, "nope", verr.Message)
}
