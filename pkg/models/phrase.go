package models

import (
	"strconv"
	"time"
)

// Phrase represents a Korean sentence from the practice catalog
type Phrase struct {
	ID            int       `json:"id" db:"id"`
	Category      string    `json:"category" db:"category"`           // e.g., "Hall", "Kitchen", "Daily"
	Situation     string    `json:"situation" db:"situation"`         // e.g., "Greeting", "Order"
	Korean        string    `json:"korean" db:"korean"`               // The Korean sentence itself
	Pronunciation string    `json:"pronunciation" db:"pronunciation"` // Optional: romanized reading
	Meaning       string    `json:"meaning" db:"meaning"`             // Translation gloss
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Key returns the identity used to track a phrase across missions and logs.
// The synthetic ID is preferred; rows that predate IDs fall back to the
// Korean text itself.
func (p Phrase) Key() string {
	if p.ID > 0 {
		return "phrase:" + strconv.Itoa(p.ID)
	}
	return p.Korean
}
