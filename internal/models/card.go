package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Card represents a bank card
type Card struct {
	ID           uuid.UUID       `json:"id"`
	NumberCipher string          `json:"number_cipher"` // Encrypted, never returned in full
	NumberHash   string          `json:"number_hash"`   // HMAC of the plain number, used for uniqueness
	Expiration   YearMonth       `json:"expiration"`
	Status       CardStatus      `json:"status"`
	Balance      decimal.Decimal `json:"balance"`
	Active       bool            `json:"active"` // false means soft-deleted
	OwnerID      uuid.UUID       `json:"owner_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Clone returns a copy that can be mutated without affecting the receiver.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// IsExpired reports whether the card's expiration month lies before the month of now.
func (c *Card) IsExpired(now time.Time) bool {
	return c.Expiration.Before(YearMonthOf(now))
}

// CardFilter narrows card listings. Nil fields are not filtered on.
type CardFilter struct {
	OwnerID         *uuid.UUID
	Status          *CardStatus
	IncludeInactive bool
}

// CardView is the read projection of a card. The number is masked.
type CardView struct {
	ID           uuid.UUID       `json:"id"`
	MaskedNumber string          `json:"masked_number"`
	Expiration   YearMonth       `json:"expiration"`
	Status       CardStatus      `json:"status"`
	Balance      decimal.Decimal `json:"balance"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Active       bool            `json:"active"`
}
