package core

import (
	"slices"
	"strings"
)

// NormalizeQuery trims and lower-cases a search term.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Search returns every merged record belonging to an order that has at least one
// record whose sr_id, co_no or inv_no contains the query (case-insensitive).
// A match pulls in all sibling reports of the order, not just the matching line.
// Records without an order number never seed a match.
// The result is sorted by sr_id (case-insensitive), ties keeping input order.
// An empty query returns nil: searching is opt-in.
func Search(query string, merged []MergedRecord) []MergedRecord {
	q := NormalizeQuery(query)
	if q == "" {
		return nil
	}

	orders := make(map[string]struct{})
	for _, m := range merged {
		if m.CONo == "" {
			continue
		}
		if matchesQuery(q, m.SRID, m.CONo, m.InvNo) {
			orders[m.CONo] = struct{}{}
		}
	}
	if len(orders) == 0 {
		return nil
	}

	out := make([]MergedRecord, 0, len(orders))
	for _, m := range merged {
		if _, ok := orders[m.CONo]; ok {
			out = append(out, m)
		}
	}
	SortByReport(out)
	return out
}

// SortByReport stable-sorts records by lower-cased sr_id.
func SortByReport(records []MergedRecord) {
	slices.SortStableFunc(records, func(a, b MergedRecord) int {
		return strings.Compare(strings.ToLower(a.SRID), strings.ToLower(b.SRID))
	})
}

// matchesQuery reports whether any field contains q; q must already be lower-cased.
func matchesQuery(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
