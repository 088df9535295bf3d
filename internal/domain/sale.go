package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod enumerates how a sale was paid for
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentOnline       PaymentMethod = "Online"
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentDebitCard    PaymentMethod = "Debit Card"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentMethods lists every accepted payment method
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentOnline,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentUPI,
	PaymentBankTransfer,
}

// Valid reports whether the payment method is one of the accepted values
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts a raw string into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// SaleItem is a single line of a sale: a product reference and the number
// of units sold. Product carries the resolved record when the sale was
// loaded with references expanded.
type SaleItem struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

// CustomerRef holds either a bare customer id or the resolved customer
// record. Inbound payloads may carry either form; resolution happens at
// the boundary, never by shape-checking at use sites.
type CustomerRef struct {
	ID       uuid.UUID
	Resolved *Customer
}

// Ref builds an unresolved reference from an id
func Ref(id uuid.UUID) *CustomerRef {
	return &CustomerRef{ID: id}
}

// Resolve attaches the resolved record to the reference
func (r *CustomerRef) Resolve(c *Customer) {
	r.ID = c.ID
	r.Resolved = c
}

// MarshalJSON renders the resolved record when present, otherwise the id
func (r CustomerRef) MarshalJSON() ([]byte, error) {
	if r.Resolved != nil {
		return json.Marshal(r.Resolved)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts either a bare id string or a customer object
// carrying an "id" field.
func (r *CustomerRef) UnmarshalJSON(data []byte) error {
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Resolved = nil
		return nil
	}

	var customer Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return fmt.Errorf("customer reference must be an id or a customer object: %w", err)
	}
	if customer.ID == uuid.Nil {
		return fmt.Errorf("customer reference object is missing an id")
	}
	r.ID = customer.ID
	r.Resolved = &customer
	return nil
}

// Sale represents a recorded sales transaction. A sale exclusively
// belongs to one owning user and holds non-owning references to the
// products and customer involved.
type Sale struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	OwnerID       uuid.UUID     `json:"owner_id" db:"owner_id"`
	Items         []SaleItem    `json:"items"`
	Customer      *CustomerRef  `json:"customer,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	TotalPrice    float64       `json:"total_price" db:"total_price"`
	Date          time.Time     `json:"date" db:"date"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}
