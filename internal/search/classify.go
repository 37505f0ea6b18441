// Package search resolves a scanned or typed query against a catalog
// snapshot. Everything here is pure: no I/O, no shared state.
package search

import (
	"fmt"
	"regexp"
	"strings"
)

type Mode int

const (
	ModeName Mode = iota
	ModeBarcode
	ModeInternalCode
)

func (m Mode) String() string {
	switch m {
	case ModeBarcode:
		return "barcode"
	case ModeInternalCode:
		return "internal_code"
	default:
		return "name"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "barcode":
		*m = ModeBarcode
	case "internal_code":
		*m = ModeInternalCode
	case "name":
		*m = ModeName
	default:
		return fmt.Errorf("unknown search mode %q", b)
	}
	return nil
}

// EAN-8, UPC-A (12), EAN-13 and GTIN-14.
var (
	barcodePattern = regexp.MustCompile(`^\d{8}$|^\d{12}$|^\d{13}$|^\d{14}$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

// Classify picks the search mode for a query. Length alone separates the two
// numeric modes.
func Classify(query string) Mode {
	q := strings.TrimSpace(query)
	switch {
	case barcodePattern.MatchString(q):
		return ModeBarcode
	case digitsPattern.MatchString(q):
		return ModeInternalCode
	default:
		return ModeName
	}
}
