package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const missingOrderLabel = "N/A"

// OrderTotal is the quantity and amount reported sold for one order.
type OrderTotal struct {
	CONo     string          `json:"co_no"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
	Reports  int             `json:"reports"`
}

// Label returns the order number, or "N/A" for records without one.
func (t OrderTotal) Label() string {
	if t.CONo == "" {
		return missingOrderLabel
	}
	return t.CONo
}

// AggregateByOrder groups records by co_no and sums qty_sold and amount per group.
// Groups are ordered ascending by order number. The grouped totals always add up
// to the totals over the ungrouped input.
func AggregateByOrder(records []MergedRecord) []OrderTotal {
	index := make(map[string]int)
	var out []OrderTotal
	for _, m := range records {
		i, ok := index[m.CONo]
		if !ok {
			i = len(out)
			index[m.CONo] = i
			out = append(out, OrderTotal{CONo: m.CONo})
		}
		out[i].Quantity = out[i].Quantity.Add(m.QtySold)
		out[i].Amount = out[i].Amount.Add(m.Amount)
		out[i].Reports++
	}
	slices.SortStableFunc(out, func(a, b OrderTotal) int {
		return strings.Compare(a.CONo, b.CONo)
	})
	return out
}

// Summary is the results panel shown above the table.
type Summary struct {
	Count    int             `json:"count"`
	Headline string          `json:"headline"`
	Orders   []OrderTotal    `json:"orders"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summarize aggregates the filtered view and builds the "Found N results:" headline.
func Summarize(records []MergedRecord) Summary {
	s := Summary{
		Count:  len(records),
		Orders: AggregateByOrder(records),
	}
	word := "results"
	if s.Count == 1 {
		word = "result"
	}
	s.Headline = fmt.Sprintf("Found %d %s:", s.Count, word)
	for _, o := range s.Orders {
		s.Quantity = s.Quantity.Add(o.Quantity)
		s.Amount = s.Amount.Add(o.Amount)
	}
	return s
}

// DashboardTitle picks the heading of the progress dashboard: the company name
// when every record belongs to one company, the order number when every record
// belongs to one order, a generic heading otherwise.
func DashboardTitle(records []MergedRecord) string {
	if len(records) == 0 {
		return "Consignment Overview Dashboard"
	}
	companies := make(map[string]struct{})
	orders := make(map[string]struct{})
	for _, m := range records {
		companies[m.NameCompany] = struct{}{}
		orders[m.CONo] = struct{}{}
	}
	switch {
	case len(companies) == 1:
		return records[0].NameCompany
	case len(orders) == 1:
		return "Latest update on C.O. " + records[0].CONo
	}
	return "Latest Consignment Updates"
}
