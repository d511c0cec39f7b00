package core

import (
	"slices"
	"unicode/utf8"
)

const (
	// SuggestionPageSize is the number of suggestions shown per batch.
	SuggestionPageSize = 5

	// MinSuggestionQuery is the shortest query that produces suggestions.
	MinSuggestionQuery = 3

	unknownCompany = "Unknown Company"
)

// Suggestion is one order offered while the user types.
// Value is the order number searched for when the suggestion is picked.
type Suggestion struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Shuffler randomizes the first page of suggestions. *rand.Rand from math/rand/v2
// satisfies it; tests pass a seeded generator.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// MatchSuggestions scans the raw (unmerged) records and returns one suggestion per
// distinct non-empty order number with a record matching the query on sr_id,
// co_no or inv_no. Order follows first encounter; the label carries the company
// of the last record seen for that order. Queries shorter than
// MinSuggestionQuery runes return nil.
func MatchSuggestions(query string, raw []RawRecord) []Suggestion {
	q := NormalizeQuery(query)
	if utf8.RuneCountInString(q) < MinSuggestionQuery {
		return nil
	}

	var out []Suggestion
	index := make(map[string]int)
	for _, r := range raw {
		co := string(r.CONo)
		if co == "" || !matchesQuery(q, string(r.SRID), co, string(r.InvNo)) {
			continue
		}
		company := string(r.NameCompany)
		if company == "" {
			company = unknownCompany
		}
		s := Suggestion{Label: company + " – " + co, Value: co}
		if i, ok := index[co]; ok {
			out[i] = s
			continue
		}
		index[co] = len(out)
		out = append(out, s)
	}
	return out
}

// SuggestionPage is one batch of suggestions.
type SuggestionPage struct {
	Items   []Suggestion `json:"items"`
	Offset  int          `json:"offset"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
}

// SuggestionPager walks the candidate list in batches of SuggestionPageSize.
//
// The first batch is the whole list sorted by label when it fits on one page,
// otherwise a random sample. Later batches slice the list in encounter order
// starting at the next page offset.
type SuggestionPager struct {
	all      []Suggestion
	offset   int
	shuffler Shuffler
}

// NewSuggestionPager returns a pager positioned before the first batch.
func NewSuggestionPager(all []Suggestion, shuffler Shuffler) *SuggestionPager {
	return &SuggestionPager{all: all, shuffler: shuffler}
}

// First resets the pager and returns the first batch.
func (p *SuggestionPager) First() SuggestionPage {
	p.offset = 0
	page := SuggestionPage{Total: len(p.all), HasMore: len(p.all) > SuggestionPageSize}

	if len(p.all) <= SuggestionPageSize {
		items := slices.Clone(p.all)
		c := newCollator()
		slices.SortStableFunc(items, func(a, b Suggestion) int {
			return c.CompareString(a.Label, b.Label)
		})
		page.Items = items
		return page
	}

	sample := slices.Clone(p.all)
	if p.shuffler != nil {
		p.shuffler.Shuffle(len(sample), func(i, j int) {
			sample[i], sample[j] = sample[j], sample[i]
		})
	}
	page.Items = sample[:SuggestionPageSize]
	return page
}

// More advances to the next batch. It returns false once the list is exhausted.
func (p *SuggestionPager) More() (SuggestionPage, bool) {
	next := p.offset + SuggestionPageSize
	if next >= len(p.all) {
		return SuggestionPage{Offset: p.offset, Total: len(p.all)}, false
	}
	p.offset = next
	end := min(next+SuggestionPageSize, len(p.all))
	return SuggestionPage{
		Items:   slices.Clone(p.all[next:end]),
		Offset:  next,
		Total:   len(p.all),
		HasMore: len(p.all) > end,
	}, true
}

// Total returns the number of candidates.
func (p *SuggestionPager) Total() int { return len(p.all) }
