package domain

import "time"

// OneTimeCode is an outstanding code proving control of an identifier
type OneTimeCode struct {
	Identifier Identifier `json:"identifier"`
	Code       string     `json:"code"`
	CreatedAt  time.Time  `json:"createdAt"`
}
