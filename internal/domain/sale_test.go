package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestPaymentMethod_Valid(t *testing.T) {
	for _, m := range PaymentMethods {
		if !m.Valid() {
			t.Errorf("%q should be valid", m)
		}
	}

	for _, raw := range []string{"", "cash", "CASH", "Barter", "Cheque"} {
		if PaymentMethod(raw).Valid() {
			t.Errorf("%q should not be valid", raw)
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("Credit Card")
	if err != nil {
		t.Fatalf("ParsePaymentMethod failed: %v", err)
	}
	if m != PaymentCreditCard {
		t.Errorf("got %q", m)
	}

	if _, err := ParsePaymentMethod("credit card"); err == nil {
		t.Errorf("payment methods are case sensitive")
	}
}

func TestCustomerRef_UnmarshalBareID(t *testing.T) {
	id := uuid.New()

	var ref CustomerRef
	if err := json.Unmarshal([]byte(`"`+id.String()+`"`), &ref); err != nil {
		t.Fatalf("unmarshal bare id failed: %v", err)
	}
	if ref.ID != id {
		t.Errorf("id mismatch: %s", ref.ID)
	}
	if ref.Resolved != nil {
		t.Errorf("bare id should not resolve a record")
	}
}

func TestCustomerRef_UnmarshalObject(t *testing.T) {
	id := uuid.New()
	payload := `{"id":"` + id.String() + `","name":"Asha","email":"asha@example.com"}`

	var ref CustomerRef
	if err := json.Unmarshal([]byte(payload), &ref); err != nil {
		t.Fatalf("unmarshal object failed: %v", err)
	}
	if ref.ID != id {
		t.Errorf("id mismatch: %s", ref.ID)
	}
	if ref.Resolved == nil || ref.Resolved.Name != "Asha" {
		t.Errorf("object form should carry the resolved record: %+v", ref.Resolved)
	}
}

func TestCustomerRef_UnmarshalRejectsInvalid(t *testing.T) {
	tests := []string{
		`"not-a-uuid"`,
		`{"name":"missing id"}`,
		`42`,
	}
	for _, payload := range tests {
		var ref CustomerRef
		if err := json.Unmarshal([]byte(payload), &ref); err == nil {
			t.Errorf("payload %s should be rejected", payload)
		}
	}
}

func TestCustomerRef_MarshalUnresolved(t *testing.T) {
	id := uuid.New()
	data, err := json.Marshal(Ref(id))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"`+id.String()+`"` {
		t.Errorf("unresolved reference should render as its id, got %s", data)
	}
}

func TestCustomerRef_MarshalResolved(t *testing.T) {
	ref := Ref(uuid.Nil)
	ref.Resolve(&Customer{ID: uuid.New(), Name: "Asha", Email: "asha@example.com"})

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"name":"Asha"`) {
		t.Errorf("resolved reference should render the record, got %s", data)
	}
	if ref.ID != ref.Resolved.ID {
		t.Errorf("Resolve should adopt the record's id")
	}
}
