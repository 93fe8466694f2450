package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type Seller struct {
	Name string `json:"name"`
}

type SaleDetail struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SaleRecord is one entry of the sales history as the backend reports it.
type SaleRecord struct {
	ID        int64        `json:"id"`
	CreatedAt string       `json:"created_at"`
	Total     Amount       `json:"total"`
	Seller    Seller       `json:"seller"`
	Details   []SaleDetail `json:"details"`
}

// Amount is a USD total that the backend sends either as a JSON number or as
// a string. Text that is not a number decodes to zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(s string) Amount {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}
	}
	return Amount{d}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = NewAmount(s)
		return nil
	}
	*a = NewAmount(string(b))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(2) + `"`), nil
}
