package customer

import (
	"encoding/json"
	"testing"

	"github.com/erp/customers/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) any {
	t.Helper()
	var data any
	require.NoError(t, json.Unmarshal([]byte(body), &data))
	return data
}

func TestCustomer_Serialize(t *testing.T) {
	t.Run("unsaved customer", func(t *testing.T) {
		c := New("Wang", "123456", "w@x.com")

		out := c.Serialize()
		assert.Len(t, out, 6)
		assert.Nil(t, out["id"])
		assert.Nil(t, out["address"])
		assert.Equal(t, false, out["active"])
	})

	t.Run("saved customer", func(t *testing.T) {
		c := New("Wang", "123456", "w@x.com")
		c.ID = 9
		c.Address = strPtr("apt1")
		c.Active = true

		out := c.Serialize()
		assert.Equal(t, map[string]any{
			"id":       int64(9),
			"name":     "Wang",
			"password": "123456",
			"email":    "w@x.com",
			"address":  "apt1",
			"active":   true,
		}, out)
	})
}

func TestCustomer_Deserialize(t *testing.T) {
	t.Run("populates every field", func(t *testing.T) {
		c := &Customer{}
		err := c.Deserialize(decode(t, `{"id":5,"name":"Wang","password":"123456","email":"w@x.com","address":"apt1","active":true}`))
		require.NoError(t, err)

		assert.Equal(t, int64(5), c.ID)
		assert.Equal(t, "Wang", c.Name)
		assert.Equal(t, "123456", c.Password)
		assert.Equal(t, "w@x.com", c.Email)
		require.NotNil(t, c.Address)
		assert.Equal(t, "apt1", *c.Address)
		assert.True(t, c.Active)
	})

	t.Run("round trips through serialize", func(t *testing.T) {
		src := New("Wang", "123456", "w@x.com")
		src.Address = strPtr("apt1")
		src.Active = true

		body, err := json.Marshal(src.Serialize())
		require.NoError(t, err)

		dst := &Customer{}
		require.NoError(t, dst.Deserialize(decode(t, string(body))))
		assert.Equal(t, src.Serialize(), dst.Serialize())
	})

	t.Run("address and active are optional", func(t *testing.T) {
		c := &Customer{}
		err := c.Deserialize(decode(t, `{"name":"Wang","password":"123456","email":"w@x.com"}`))
		require.NoError(t, err)
		assert.Nil(t, c.Address)
		assert.False(t, c.Active)
	})

	t.Run("null address clears it", func(t *testing.T) {
		c := New("Wang", "123456", "w@x.com")
		c.Address = strPtr("apt1")
		err := c.Deserialize(decode(t, `{"name":"Wang","password":"123456","email":"w@x.com","address":null}`))
		require.NoError(t, err)
		assert.Nil(t, c.Address)
	})

	t.Run("keeps existing id", func(t *testing.T) {
		c := New("Wang", "123456", "w@x.com")
		c.ID = 3
		err := c.Deserialize(decode(t, `{"id":99,"name":"Li","password":"pw","email":"l@x.com"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(3), c.ID)
		assert.Equal(t, "Li", c.Name)
	})

	t.Run("accepts numeric string id", func(t *testing.T) {
		c := &Customer{}
		err := c.Deserialize(decode(t, `{"id":"12","name":"Wang","password":"123456","email":"w@x.com"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(12), c.ID)
	})

	missing := []struct {
		field string
		body  string
	}{
		{"name", `{"password":"123456","email":"w@x.com","active":false}`},
		{"password", `{"name":"Wang","email":"w@x.com","active":false}`},
		{"email", `{"name":"Wang","password":"123456","active":false}`},
	}
	for _, tt := range missing {
		t.Run("rejects missing "+tt.field, func(t *testing.T) {
			c := &Customer{}
			err := c.Deserialize(decode(t, tt.body))
			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err))
			assert.Equal(t, "Invalid Customer: missing "+tt.field, err.Error())
		})
	}

	badActive := []struct {
		name     string
		body     string
		typeName string
	}{
		{"string", `"not a boolean"`, "string"},
		{"number", `1`, "number"},
		{"null", `null`, "null"},
	}
	for _, tt := range badActive {
		t.Run("rejects active as "+tt.name, func(t *testing.T) {
			c := &Customer{}
			err := c.Deserialize(decode(t, `{"name":"Wang","password":"123456","email":"w@x.com","active":`+tt.body+`}`))
			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.typeName)
		})
	}

	t.Run("rejects non-map input", func(t *testing.T) {
		for _, body := range []string{`[]`, `"customer"`, `42`, `null`} {
			c := &Customer{}
			err := c.Deserialize(decode(t, body))
			require.Error(t, err, body)
			assert.True(t, shared.IsValidationError(err))
			assert.Contains(t, err.Error(), "bad or no data")
		}
	})

	t.Run("rejects non-string name", func(t *testing.T) {
		c := &Customer{}
		err := c.Deserialize(decode(t, `{"name":5,"password":"123456","email":"w@x.com"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name must be a string")
	})

	t.Run("rejects fractional id", func(t *testing.T) {
		c := &Customer{}
		err := c.Deserialize(decode(t, `{"id":1.5,"name":"Wang","password":"123456","email":"w@x.com"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id must be an integer")
	})

	t.Run("leaves customer untouched on error", func(t *testing.T) {
		c := New("Wang", "123456", "w@x.com")
		c.ID = 3
		c.Active = true
		err := c.Deserialize(decode(t, `{"name":"Li","password":"pw","email":"l@x.com","active":"yes"}`))
		require.Error(t, err)
		assert.Equal(t, "Wang", c.Name)
		assert.True(t, c.Active)
	})
}
