package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{"Number", `{"total": 12.5}`, "12.50"},
		{"String", `{"total": "7.25"}`, "7.25"},
		{"Not a number", `{"total": "n/a"}`, "0.00"},
		{"Null", `{"total": null}`, "0.00"},
		{"Missing", `{}`, "0.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var rec SaleRecord
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &rec))
			assert.Equal(t, tc.want, rec.Total.StringFixed(2))
		})
	}
}

func TestSaleRecord_Decode(t *testing.T) {
	raw := `{"id":4,"created_at":"2024-05-02 10:11:00","total":"13.00","seller":{"name":"Ana"},"details":[{"name":"Pen","quantity":2}]}`

	var rec SaleRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))

	assert.Equal(t, int64(4), rec.ID)
	assert.Equal(t, "Ana", rec.Seller.Name)
	assert.Equal(t, []SaleDetail{{Name: "Pen", Quantity: 2}}, rec.Details)

	out, err := json.Marshal(rec.Total)
	require.NoError(t, err)
	assert.Equal(t, `"13.00"`, string(out))
}
