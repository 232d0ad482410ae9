package customer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/erp/customers/internal/domain/shared"
)

// Wire field names
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldPassword = "password"
	FieldEmail    = "email"
	FieldAddress  = "address"
	FieldActive   = "active"
)

// Serialize returns the wire representation with exactly the six attributes.
// id and address are nil when unset.
func (c *Customer) Serialize() map[string]any {
	var id any
	if c.HasID() {
		id = c.ID
	}
	var address any
	if c.Address != nil {
		address = *c.Address
	}
	return map[string]any{
		FieldID:       id,
		FieldName:     c.Name,
		FieldPassword: c.Password,
		FieldEmail:    c.Email,
		FieldAddress:  address,
		FieldActive:   c.Active,
	}
}

// Deserialize populates the customer from an untyped key-value payload,
// usually the result of decoding a JSON body into an interface{}.
// The customer is left untouched when an error is returned.
func (c *Customer) Deserialize(data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return shared.NewValidationError("Invalid Customer: body of request contained bad or no data")
	}

	next := *c

	if raw, present := m[FieldID]; present && !c.HasID() {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		next.ID = id
	}

	if raw, present := m[FieldAddress]; present {
		switch v := raw.(type) {
		case nil:
			next.Address = nil
		case string:
			next.Address = &v
		default:
			return shared.NewValidationError(
				fmt.Sprintf("Invalid attribute: %s must be a string, got %s", FieldAddress, jsonType(raw)))
		}
	}

	for _, field := range []struct {
		key string
		dst *string
	}{
		{FieldName, &next.Name},
		{FieldPassword, &next.Password},
		{FieldEmail, &next.Email},
	} {
		raw, present := m[field.key]
		if !present {
			return shared.NewValidationError("Invalid Customer: missing " + field.key)
		}
		s, ok := raw.(string)
		if !ok {
			return shared.NewValidationError(
				fmt.Sprintf("Invalid attribute: %s must be a string, got %s", field.key, jsonType(raw)))
		}
		*field.dst = s
	}

	if raw, present := m[FieldActive]; present {
		b, ok := raw.(bool)
		if !ok {
			return shared.NewValidationError(
				fmt.Sprintf("Invalid type for boolean [%s]: %s", FieldActive, jsonType(raw)))
		}
		next.Active = b
	}

	*c = next
	return nil
}

func parseID(raw any) (int64, error) {
	invalid := func() error {
		return shared.NewValidationError(
			fmt.Sprintf("Invalid attribute: %s must be an integer, got %s", FieldID, jsonType(raw)))
	}

	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, invalid()
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, invalid()
		}
		return id, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, invalid()
		}
		return id, nil
	default:
		return 0, invalid()
	}
}

// jsonType names a decoded JSON value the way a client would describe it
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
