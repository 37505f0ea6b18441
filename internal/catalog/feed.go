package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

const (
	noDataMarker    = "---"
	noCompanyMarker = "--------"
)

var (
	ErrFeedNotArray = errors.New("feed is not a json array")
	ErrFeedDecode   = errors.New("feed decode failed")
)

// Field is a feed value that may arrive as a JSON string, number or null.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
	default:
		*f = Field(b)
	}
	return nil
}

func (f Field) String() string { return string(f) }

// Record is one raw row of the price feed.
type Record struct {
	InternalCode Field `json:"Codigo da Mercadoria"`
	Barcode      Field `json:"Cod Fabricante"`
	Name         Field `json:"Mercadoria"`
	SalePrice    Field `json:"Preco de Venda"`
	Company      Field `json:"Fantasia"`
}

func DecodeFeed(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedDecode, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, ErrFeedNotArray
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedDecode, err)
	}
	return records, nil
}

// Load maps feed records to products in feed order. Records without a name,
// with a placeholder name or with an unparseable or negative price are dropped.
// The company is the first usable Fantasia value.
func Load(records []Record) ([]Product, string) {
	out := make([]Product, 0, len(records))
	company := ""

	for _, rec := range records {
		if company == "" {
			company = companyName(rec.Company)
		}

		p, ok := toProduct(rec)
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, company
}

func toProduct(rec Record) (Product, bool) {
	name := rec.Name.String()
	if name == "" || strings.Contains(name, noDataMarker) {
		return Product{}, false
	}

	price, ok := parsePrice(rec.SalePrice.String())
	if !ok {
		return Product{}, false
	}

	return Product{
		InternalCode: rec.InternalCode.String(),
		Barcode:      rec.Barcode.String(),
		Name:         name,
		Price:        price,
	}, true
}

func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

func companyName(f Field) string {
	v := strings.TrimSpace(f.String())
	if v == "" || v == noCompanyMarker {
		return ""
	}
	return v
}
