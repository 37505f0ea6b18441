package search

import (
	"strings"

	"PriceCheck/internal/catalog"
)

// MaxNameResults caps a name search.
const MaxNameResults = 50

type Kind int

const (
	KindSingle Kind = iota
	KindMultiple
)

func (k Kind) String() string {
	if k == KindMultiple {
		return "multiple"
	}
	return "single"
}

// Result is either Single (Product set, or nil for not found) or Multiple
// (Products, possibly empty).
type Result struct {
	Kind     Kind
	Mode     Mode
	Product  *catalog.Product
	Products []catalog.Product
}

func (r Result) Found() bool {
	if r.Kind == KindSingle {
		return r.Product != nil
	}
	return len(r.Products) > 0
}

// First returns the single match, or the first candidate of a name search.
func (r Result) First() (catalog.Product, bool) {
	if r.Kind == KindSingle {
		if r.Product == nil {
			return catalog.Product{}, false
		}
		return *r.Product, true
	}
	if len(r.Products) == 0 {
		return catalog.Product{}, false
	}
	return r.Products[0], true
}

// Capped reports whether a name search hit MaxNameResults.
func (r Result) Capped() bool {
	return r.Kind == KindMultiple && len(r.Products) == MaxNameResults
}

// Resolve classifies query and searches products with the matching strategy.
// Code lookups always give Single; name lookups always give Multiple.
func Resolve(products []catalog.Product, query string) Result {
	q := strings.TrimSpace(query)

	mode := Classify(q)
	switch mode {
	case ModeBarcode:
		return single(mode, FindByBarcode(products, q))
	case ModeInternalCode:
		return single(mode, FindByInternalCode(products, q))
	default:
		return multiple(MatchName(products, q))
	}
}

func FindByBarcode(products []catalog.Product, code string) *catalog.Product {
	return findFirst(products, code, func(p catalog.Product) string { return p.Barcode })
}

func FindByInternalCode(products []catalog.Product, code string) *catalog.Product {
	return findFirst(products, code, func(p catalog.Product) string { return p.InternalCode })
}

func findFirst(products []catalog.Product, code string, field func(catalog.Product) string) *catalog.Product {
	if code == "" {
		return nil
	}
	for i := range products {
		if field(products[i]) == code {
			p := products[i]
			return &p
		}
	}
	return nil
}

// MatchName returns, in catalog order, the first MaxNameResults products
// whose normalized name contains every normalized term of query.
func MatchName(products []catalog.Product, query string) []catalog.Product {
	terms := Terms(query)
	out := make([]catalog.Product, 0)
	if len(terms) == 0 {
		return out
	}

	for _, p := range products {
		if containsAll(Normalize(p.Name), terms) {
			out = append(out, p)
			if len(out) == MaxNameResults {
				break
			}
		}
	}
	return out
}

func containsAll(name string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

func single(mode Mode, p *catalog.Product) Result {
	return Result{Kind: KindSingle, Mode: mode, Product: p}
}

func multiple(products []catalog.Product) Result {
	return Result{Kind: KindMultiple, Mode: ModeName, Products: products}
}
