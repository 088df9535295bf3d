package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
)

type saleTestRequest struct {
	Items []saleTestItem `json:"items" validate:"required,min=1,dive"`
	Total float64        `json:"total_price" validate:"gte=0"`
	Email string         `json:"email" validate:"required,email"`
}

type saleTestItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

func TestDecodeAndValidate_Valid(t *testing.T) {
	body := `{"items":[{"product_id":"abc","quantity":2}],"total_price":10.5,"email":"asha@example.com"}`
	req := httptest.NewRequest("POST", "/test", strings.NewReader(body))

	var payload saleTestRequest
	if err := DecodeAndValidate(req, &payload); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].Quantity != 2 {
		t.Errorf("payload not decoded: %+v", payload)
	}
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"items":`))

	var payload saleTestRequest
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Errorf("malformed JSON accepted")
	}
}

func TestDecodeAndValidate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "missing items",
			body:  `{"total_price":10,"email":"asha@example.com"}`,
			field: "Items",
		},
		{
			name:  "zero quantity item",
			body:  `{"items":[{"product_id":"abc","quantity":0}],"total_price":10,"email":"asha@example.com"}`,
			field: "Quantity",
		},
		{
			name:  "negative total",
			body:  `{"items":[{"product_id":"abc","quantity":1}],"total_price":-5,"email":"asha@example.com"}`,
			field: "Total",
		},
		{
			name:  "bad email",
			body:  `{"items":[{"product_id":"abc","quantity":1}],"total_price":5,"email":"not-an-email"}`,
			field: "Email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/test", strings.NewReader(tt.body))

			var payload saleTestRequest
			err := DecodeAndValidate(req, &payload)
			if err == nil {
				t.Fatalf("invalid payload accepted")
			}

			formatted := FormatValidationErrors(err)
			if len(formatted) == 0 {
				t.Fatalf("no formatted errors for %v", err)
			}

			found := false
			for _, fe := range formatted {
				if fe.Field == tt.field {
					found = true
					if fe.Message == "" {
						t.Errorf("empty message for field %s", fe.Field)
					}
				}
			}
			if !found {
				t.Errorf("expected error on field %s, got %+v", tt.field, formatted)
			}
		})
	}
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader(`[]`))

	var payload saleTestRequest
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatalf("array payload accepted")
	}

	// Decode errors are not field errors; formatting yields nothing.
	if formatted := FormatValidationErrors(err); len(formatted) != 0 {
		t.Errorf("expected no formatted entries for a decode error, got %+v", formatted)
	}
}
