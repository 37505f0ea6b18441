package search_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceCheck/internal/catalog"
	"PriceCheck/internal/search"
)

func product(code, barcode, name, price string) catalog.Product {
	return catalog.Product{
		InternalCode: code,
		Barcode:      barcode,
		Name:         name,
		Price:        decimal.RequireFromString(price),
	}
}

var rice = product("100", "7891234567890", "Arroz Branco 5kg", "25.90")

func Test_Resolve_Scenario(t *testing.T) {
	products := []catalog.Product{rice}

	tests := []struct {
		name     string
		query    string
		kind     search.Kind
		mode     search.Mode
		found    bool
		products int
	}{
		{name: "barcode", query: "7891234567890", kind: search.KindSingle, mode: search.ModeBarcode, found: true},
		{name: "internal_code", query: "100", kind: search.KindSingle, mode: search.ModeInternalCode, found: true},
		{name: "unknown_code", query: "99999", kind: search.KindSingle, mode: search.ModeInternalCode},
		{name: "name_match", query: "arroz", kind: search.KindMultiple, mode: search.ModeName, found: true, products: 1},
		{name: "name_miss", query: "feijao", kind: search.KindMultiple, mode: search.ModeName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := search.Resolve(products, tc.query)

			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.mode, got.Mode)
			assert.Equal(t, tc.found, got.Found())

			if tc.kind == search.KindSingle {
				assert.Empty(t, got.Products)
				if tc.found {
					require.NotNil(t, got.Product)
					assert.Equal(t, rice, *got.Product)
				} else {
					assert.Nil(t, got.Product)
				}
				return
			}

			assert.Nil(t, got.Product)
			assert.NotNil(t, got.Products)
			assert.Len(t, got.Products, tc.products)
		})
	}
}

func Test_Resolve_UnknownBarcodeDoesNotFallThroughToName(t *testing.T) {
	products := []catalog.Product{product("1", "", "Código 78912345", "1.00")}

	got := search.Resolve(products, "78912345")

	assert.Equal(t, search.KindSingle, got.Kind)
	assert.Nil(t, got.Product)
}

func Test_Resolve_BarcodeMatchesBarcodeFieldOnly(t *testing.T) {
	products := []catalog.Product{
		product("78912345", "", "Internal looks like barcode", "1.00"),
		product("2", "78912345", "Real barcode", "2.00"),
	}

	got := search.Resolve(products, "78912345")

	require.NotNil(t, got.Product)
	assert.Equal(t, "2", got.Product.InternalCode)
}

func Test_Resolve_FirstMatchWinsOnDuplicates(t *testing.T) {
	products := []catalog.Product{
		product("7", "12345678", "First", "1.00"),
		product("7", "12345678", "Second", "2.00"),
	}

	byBarcode := search.Resolve(products, "12345678")
	byCode := search.Resolve(products, "7")

	require.NotNil(t, byBarcode.Product)
	require.NotNil(t, byCode.Product)
	assert.Equal(t, "First", byBarcode.Product.Name)
	assert.Equal(t, "First", byCode.Product.Name)
}

func Test_Resolve_ExactMatchIsCaseAndFormatSensitive(t *testing.T) {
	products := []catalog.Product{product("0100", "", "Leading zero", "1.00")}

	assert.Nil(t, search.Resolve(products, "100").Product)
	assert.NotNil(t, search.Resolve(products, "0100").Product)
}

func Test_Resolve_ReturnsCopy(t *testing.T) {
	products := []catalog.Product{rice}

	got := search.Resolve(products, "100")
	require.NotNil(t, got.Product)
	got.Product.Name = "changed"

	assert.Equal(t, "Arroz Branco 5kg", products[0].Name)
}

func Test_Resolve_EmptyCatalog(t *testing.T) {
	assert.Nil(t, search.Resolve(nil, "7891234567890").Product)
	assert.Nil(t, search.Resolve(nil, "100").Product)
	assert.Empty(t, search.Resolve(nil, "arroz").Products)
}

func Test_Resolve_WhitespaceOnlyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		got := search.Resolve([]catalog.Product{rice}, q)

		assert.Equal(t, search.KindMultiple, got.Kind)
		assert.NotNil(t, got.Products)
		assert.Empty(t, got.Products)
		assert.False(t, got.Capped())
	}
}

func Test_MatchName_AccentInsensitive(t *testing.T) {
	products := []catalog.Product{
		product("1", "", "Açúcar Refinado", "4.99"),
		product("2", "", "Sal Refinado", "2.49"),
	}

	got := search.MatchName(products, "ACUCAR")

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].InternalCode)
	assert.Len(t, search.MatchName(products, "açúcar"), 1)
}

func Test_MatchName_TermOrderIndependent(t *testing.T) {
	products := []catalog.Product{
		product("1", "", "Açúcar Refinado", "4.99"),
		product("2", "", "Açúcar Cristal", "3.99"),
		product("3", "", "Sal Refinado", "2.49"),
	}

	a := search.MatchName(products, "refinado acucar")
	b := search.MatchName(products, "acucar refinado")

	assert.Equal(t, a, b)
	require.Len(t, a, 1)
	assert.Equal(t, "1", a[0].InternalCode)
}

func Test_MatchName_EveryTermMustMatch(t *testing.T) {
	products := []catalog.Product{
		product("1", "", "Leite Integral Tipo A", "5.49"),
		product("2", "", "Leite Desnatado", "5.29"),
		product("3", "", "Iogurte Integral", "3.10"),
	}

	got := search.MatchName(products, "integral   leite")

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].InternalCode)
}

func Test_MatchName_SubstringWithinWords(t *testing.T) {
	products := []catalog.Product{product("1", "", "Chocolate ao Leite", "7.90")}

	assert.Len(t, search.MatchName(products, "colat eit"), 1)
}

func Test_MatchName_CapsAndKeepsCatalogOrder(t *testing.T) {
	products := make([]catalog.Product, 0, 120)
	for i := 0; i < 120; i++ {
		products = append(products, product(fmt.Sprint(i), "", fmt.Sprintf("Biscoito %03d", i), "1.00"))
	}
	products = append(products, product("x", "", "Pão", "0.50"))

	got := search.Resolve(products, "biscoito")

	require.Len(t, got.Products, search.MaxNameResults)
	assert.True(t, got.Capped())
	for i, p := range got.Products {
		assert.Equal(t, fmt.Sprint(i), p.InternalCode)
	}
}

func Test_MatchName_ResultsAreSubsetWithAllTerms(t *testing.T) {
	products := []catalog.Product{
		product("1", "", "Café Torrado e Moído", "15.90"),
		product("2", "", "Café Solúvel", "12.50"),
		product("3", "", "Filtro de Café", "4.20"),
		product("4", "", "Chá Mate", "6.00"),
	}

	query := "CAFÉ mo"
	terms := search.Terms(query)
	got := search.MatchName(products, query)

	require.NotEmpty(t, got)
	for _, p := range got {
		for _, term := range terms {
			assert.True(t, strings.Contains(search.Normalize(p.Name), term), "%q lacks %q", p.Name, term)
		}
	}
	assert.Len(t, got, 1)
}

func Test_Result_SingleNameMatchStaysMultiple(t *testing.T) {
	got := search.Resolve([]catalog.Product{rice}, "branco 5kg")

	assert.Equal(t, search.KindMultiple, got.Kind)
	assert.Len(t, got.Products, 1)
	assert.False(t, got.Capped())

	first, ok := got.First()
	assert.True(t, ok)
	assert.Equal(t, rice, first)
}
