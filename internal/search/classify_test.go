package search_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"PriceCheck/internal/search"
)

func Test_Classify_BarcodeLengths(t *testing.T) {
	for _, n := range []int{8, 12, 13, 14} {
		q := strings.Repeat("7", n)
		assert.Equal(t, search.ModeBarcode, search.Classify(q), "len=%d", n)
	}
}

func Test_Classify_OtherDigitLengthsAreInternalCodes(t *testing.T) {
	for n := 1; n <= 20; n++ {
		if n == 8 || n == 12 || n == 13 || n == 14 {
			continue
		}
		q := strings.Repeat("1", n)
		assert.Equal(t, search.ModeInternalCode, search.Classify(q), "len=%d", n)
	}
}

func Test_Classify(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  search.Mode
	}{
		{name: "ean13_with_spaces", query: "  7891234567890 ", want: search.ModeBarcode},
		{name: "short_code", query: "100", want: search.ModeInternalCode},
		{name: "fifteen_digits", query: "123456789012345", want: search.ModeInternalCode},
		{name: "letters", query: "arroz", want: search.ModeName},
		{name: "digits_with_letter", query: "7891234567890a", want: search.ModeName},
		{name: "digits_with_inner_space", query: "789 123", want: search.ModeName},
		{name: "signed_number", query: "-100", want: search.ModeName},
		{name: "decimal_number", query: "10.5", want: search.ModeName},
		{name: "empty", query: "", want: search.ModeName},
		{name: "whitespace_only", query: " \t ", want: search.ModeName},
		{name: "non_ascii_digits", query: "١٢٣٤٥٦٧٨", want: search.ModeName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, search.Classify(tc.query))
		})
	}
}

func Test_Mode_String(t *testing.T) {
	assert.Equal(t, "barcode", search.ModeBarcode.String())
	assert.Equal(t, "internal_code", search.ModeInternalCode.String())
	assert.Equal(t, "name", search.ModeName.String())
}
