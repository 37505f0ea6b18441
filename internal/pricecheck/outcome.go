package pricecheck

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"PriceCheck/internal/catalog"
	"PriceCheck/internal/search"
)

// State is what the kiosk should show next.
type State string

const (
	StateProduct   State = "product"
	StateNotFound  State = "not_found"
	StateNoResults State = "no_results"
	StateResults   State = "results"
)

const (
	titleNotFound   = "Produto não encontrado"
	messageNotFound = "O código ou nome informado não foi localizado."

	titleNoResults   = "Nenhum produto encontrado"
	messageNoResults = "Tente uma busca diferente ou verifique se o código está correto."
)

var cappedNotice = fmt.Sprintf("Primeiros %d resultados. Refine sua busca.", search.MaxNameResults)

type ProductView struct {
	InternalCode string          `json:"internal_code"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceLabel   string          `json:"price_label"`
}

type Outcome struct {
	State   State         `json:"state"`
	Mode    search.Mode   `json:"mode"`
	Query   string        `json:"query"`
	Title   string        `json:"title,omitempty"`
	Message string        `json:"message,omitempty"`
	Product *ProductView  `json:"product,omitempty"`
	Results []ProductView `json:"results,omitempty"`
	Count   int           `json:"count"`
	Capped  bool          `json:"capped,omitempty"`
	Notice  string        `json:"notice,omitempty"`
}

// Dispatch maps a typed-query result to a screen. A name search always
// goes to the results list, even with a single match.
func Dispatch(query string, r search.Result) Outcome {
	o := Outcome{Mode: r.Mode, Query: query}

	if r.Kind == search.KindSingle {
		if r.Product == nil {
			return notFound(o)
		}
		v := viewOf(*r.Product)
		o.State = StateProduct
		o.Product = &v
		o.Count = 1
		return o
	}

	if len(r.Products) == 0 {
		o.State = StateNoResults
		o.Title = titleNoResults
		o.Message = messageNoResults
		return o
	}

	o.State = StateResults
	o.Results = make([]ProductView, 0, len(r.Products))
	for _, p := range r.Products {
		o.Results = append(o.Results, viewOf(p))
	}
	o.Count = len(o.Results)
	if r.Capped() {
		o.Capped = true
		o.Notice = cappedNotice
	}
	return o
}

// DispatchScan maps a decoder result: the scanner screen has no list, so it
// shows the first match or a not-found notice.
func DispatchScan(code string, r search.Result) Outcome {
	o := Outcome{Mode: r.Mode, Query: code}

	p, ok := r.First()
	if !ok {
		return notFound(o)
	}
	v := viewOf(p)
	o.State = StateProduct
	o.Product = &v
	o.Count = 1
	return o
}

func notFound(o Outcome) Outcome {
	o.State = StateNotFound
	o.Title = titleNotFound
	o.Message = messageNotFound
	return o
}

func viewOf(p catalog.Product) ProductView {
	return ProductView{
		InternalCode: p.InternalCode,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Price:        p.Price,
		PriceLabel:   FormatPrice(p.Price),
	}
}

// FormatPrice renders a price in Brazilian reais, e.g. "R$ 25,90".
func FormatPrice(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
