package models

import "fmt"

// CardStatus is the lifecycle state of a card.
type CardStatus string

const (
	CardStatusActive         CardStatus = "ACTIVE"
	CardStatusBlockRequested CardStatus = "BLOCK_REQUESTED"
	CardStatusBlocked        CardStatus = "BLOCKED"
	CardStatusExpired        CardStatus = "EXPIRED"
)

// ParseCardStatus validates a textual status.
func ParseCardStatus(s string) (CardStatus, error) {
	switch st := CardStatus(s); st {
	case CardStatusActive, CardStatusBlockRequested, CardStatusBlocked, CardStatusExpired:
		return st, nil
	}
	return "", fmt.Errorf("unknown card status %q", s)
}

func (s CardStatus) String() string {
	return string(s)
}
