package domain

import "strings" // String normalization

// IdentifierKind tells which contact channel an identifier belongs to
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email" // Email address
	IdentifierPhone IdentifierKind = "phone" // Phone number
)

// Identifier is the contact a user registers, recovers and logs in with.
// Exactly one of email or phone is carried; the kind decides which column it maps to.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

// EmailIdentifier builds an email identifier, lowercased
func EmailIdentifier(email string) Identifier {
	return Identifier{Kind: IdentifierEmail, Value: strings.ToLower(strings.TrimSpace(email))}
}

// PhoneIdentifier builds a phone identifier
func PhoneIdentifier(phone string) Identifier {
	return Identifier{Kind: IdentifierPhone, Value: strings.TrimSpace(phone)}
}

// ParseIdentifier classifies free-form input: anything with an "@" is an email
func ParseIdentifier(raw string) Identifier {
	if strings.Contains(raw, "@") {
		return EmailIdentifier(raw)
	}
	return PhoneIdentifier(raw)
}

// IsZero reports whether the identifier carries no value
func (i Identifier) IsZero() bool {
	return i.Value == ""
}

// Key is the stable string form used for cache keys
func (i Identifier) Key() string {
	return string(i.Kind) + ":" + i.Value
}

// Column is the users table column holding this kind of identifier
func (i Identifier) Column() string {
	if i.Kind == IdentifierEmail {
		return "email"
	}
	return "phone_number"
}

func (i Identifier) String() string {
	return i.Value
}
