package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a buyer record scoped to an owning user. Email and
// mobile number are unique per owner.
type Customer struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OwnerID      uuid.UUID `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	MobileNumber string    `json:"mobile_number" db:"mobile_number"`
	Address      Address   `json:"address"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Address is a customer's postal address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}
