package core_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

func mergedSample() []core.MergedRecord {
	return core.Merge([]core.RawRecord{
		raw("sr-20", "C100", "Acme", "1", "1", "0", "", ""),
		raw("SR-03", "C100", "Acme", "2", "2", "0", "INV-77", ""),
		raw("SR-10", "C200", "Beta", "3", "3", "0", "", ""),
		raw("SR-11", "", "Ghost", "4", "4", "0", "INV-77", ""),
		raw("SR-01", "C100", "Acme", "5", "5", "0", "", ""),
	}).Records()
}

func srIDs(records []core.MergedRecord) []string {
	out := make([]string, len(records))
	for i, m := range records {
		out[i] = m.SRID
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "order match pulls in every report", query: "c100", want: []string{"SR-01", "SR-03", "sr-20"}},
		{name: "invoice match propagates to the order", query: "inv-77", want: []string{"SR-01", "SR-03", "sr-20"}},
		{name: "report match propagates to the order", query: "SR-20", want: []string{"SR-01", "SR-03", "sr-20"}},
		{name: "matches across orders", query: "sr-1", want: []string{"SR-10"}},
		{name: "whitespace trimmed", query: "  C200 ", want: []string{"SR-10"}},
		{name: "records without order never seed", query: "ghost", want: nil},
		{name: "no match", query: "zzz", want: nil},
		{name: "empty query is opt-in", query: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := srIDs(core.Search(tt.query, mergedSample()))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearch_EveryRecordOfMatchedOrder(t *testing.T) {
	all := mergedSample()
	got := core.Search("SR-03", all)
	for _, m := range all {
		if m.CONo != "C100" {
			continue
		}
		if !slices.ContainsFunc(got, func(g core.MergedRecord) bool { return g == m }) {
			t.Errorf("record %s of matched order missing or altered", m.SRID)
		}
	}
}

func suggestionRaw(n int) []core.RawRecord {
	var out []core.RawRecord
	for i := range n {
		co := "CO-" + string(rune('A'+i))
		out = append(out, raw("SR", co, "Company "+string(rune('Z'-i)), "1", "1", "0", "", ""))
	}
	return out
}

func TestMatchSuggestions(t *testing.T) {
	in := []core.RawRecord{
		raw("SR-1", "C-9", "Acme", "1", "1", "0", "", ""),
		raw("SR-2", "C-9", "Acme Renamed", "1", "1", "0", "", ""),
		raw("SR-3", "", "Nobody", "1", "1", "0", "", ""),
		raw("SR-4", "C-1", "", "1", "1", "0", "", ""),
	}

	if got := core.MatchSuggestions("sr", in); got != nil {
		t.Errorf("two-character query produced %v", got)
	}

	got := core.MatchSuggestions("SR-", in)
	want := []core.Suggestion{
		{Label: "Acme Renamed – C-9", Value: "C-9"},
		{Label: "Unknown Company – C-1", Value: "C-1"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("MatchSuggestions = %v, want %v", got, want)
	}
}

func TestSuggestionPager_SmallSetSortedByLabel(t *testing.T) {
	all := core.MatchSuggestions("co-", suggestionRaw(3))
	p := core.NewSuggestionPager(all, rand.New(rand.NewPCG(1, 2)))
	first := p.First()
	labels := make([]string, len(first.Items))
	for i, s := range first.Items {
		labels[i] = s.Label
	}
	want := []string{"Company X – CO-C", "Company Y – CO-B", "Company Z – CO-A"}
	if !slices.Equal(labels, want) {
		t.Errorf("first page = %v, want %v", labels, want)
	}
	if first.HasMore {
		t.Error("three candidates must fit on one page")
	}
	if _, ok := p.More(); ok {
		t.Error("More should report exhaustion")
	}
}

func TestSuggestionPager_LargeSetSamplesThenPages(t *testing.T) {
	all := core.MatchSuggestions("co-", suggestionRaw(12))
	if len(all) != 12 {
		t.Fatalf("expected 12 candidates, got %d", len(all))
	}

	p := core.NewSuggestionPager(all, rand.New(rand.NewPCG(42, 42)))
	first := p.First()
	if len(first.Items) != core.SuggestionPageSize || !first.HasMore {
		t.Fatalf("first page = %d items, has_more=%v", len(first.Items), first.HasMore)
	}
	seen := map[string]bool{}
	for _, s := range first.Items {
		if !slices.Contains(all, s) {
			t.Errorf("sampled suggestion %v is not a candidate", s)
		}
		if seen[s.Value] {
			t.Errorf("duplicate suggestion %v", s)
		}
		seen[s.Value] = true
	}

	// Same seed, same sample.
	again := core.NewSuggestionPager(all, rand.New(rand.NewPCG(42, 42))).First()
	if !slices.Equal(first.Items, again.Items) {
		t.Error("seeded shuffler must be deterministic")
	}

	second, ok := p.More()
	if !ok || !slices.Equal(second.Items, all[5:10]) || !second.HasMore {
		t.Errorf("second page = %+v, want candidates 5..10 in encounter order", second)
	}
	third, ok := p.More()
	if !ok || !slices.Equal(third.Items, all[10:12]) || third.HasMore {
		t.Errorf("third page = %+v, want the last two candidates", third)
	}
	if _, ok := p.More(); ok {
		t.Error("expected exhaustion after the third page")
	}
}
