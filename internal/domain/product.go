package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in an owner's catalog. Quantity is the stock
// on hand; it is decremented when a sale is recorded and restored when a
// sale's line items are replaced, and never goes negative.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OwnerID     uuid.UUID `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
