package core_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

func sortSample() []core.MergedRecord {
	return core.Merge([]core.RawRecord{
		raw("SR-2", "C1", "beta", "10", "$1,000", "5", "", ""),
		raw("SR-1", "C1", "Alpha", "2", "$30.5", "1", "", ""),
		raw("SR-3", "C1", "gamma", "100", "$2", "0", "", ""),
	}).Records()
}

func TestSortRecords(t *testing.T) {
	tests := []struct {
		state core.SortState
		want  []string
	}{
		{core.SortState{Column: core.ColumnQtySold, Direction: core.Ascending}, []string{"SR-1", "SR-2", "SR-3"}},
		{core.SortState{Column: core.ColumnQtySold, Direction: core.Descending}, []string{"SR-3", "SR-2", "SR-1"}},
		{core.SortState{Column: core.ColumnAmount, Direction: core.Ascending}, []string{"SR-3", "SR-1", "SR-2"}},
		{core.SortState{Column: core.ColumnCompany, Direction: core.Ascending}, []string{"SR-1", "SR-2", "SR-3"}},
		{core.SortState{Column: core.ColumnCompany, Direction: core.Descending}, []string{"SR-3", "SR-2", "SR-1"}},
		{core.SortState{Column: core.ColumnRemainingBal, Direction: core.Ascending}, []string{"SR-3", "SR-1", "SR-2"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.state.Column)+"_"+string(tt.state.Direction), func(t *testing.T) {
			records := sortSample()
			core.SortRecords(records, tt.state)
			if got := srIDs(records); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortRecords_Idempotent(t *testing.T) {
	s := core.SortState{Column: core.ColumnAmount, Direction: core.Descending}
	once := sortSample()
	core.SortRecords(once, s)
	twice := slices.Clone(once)
	core.SortRecords(twice, s)
	if !slices.Equal(srIDs(once), srIDs(twice)) {
		t.Errorf("sorting twice changed order: %v vs %v", srIDs(once), srIDs(twice))
	}
}

func TestSortRecords_ToggleReverses(t *testing.T) {
	var s core.SortState
	s = s.Toggle(core.ColumnSRID)
	if s.Direction != core.Ascending {
		t.Fatalf("first toggle = %v, want ascending", s)
	}
	records := sortSample()
	core.SortRecords(records, s)
	asc := srIDs(records)

	s = s.Toggle(core.ColumnSRID)
	if s.Direction != core.Descending {
		t.Fatalf("second toggle = %v, want descending", s)
	}
	core.SortRecords(records, s)
	desc := srIDs(records)
	slices.Reverse(desc)
	if !slices.Equal(asc, desc) {
		t.Errorf("descending is not the reverse of ascending: %v vs %v", asc, desc)
	}

	if next := s.Toggle(core.ColumnAmount); next.Column != core.ColumnAmount || next.Direction != core.Ascending {
		t.Errorf("new column should reset to ascending, got %v", next)
	}
}

func TestSortRecords_StableOnTies(t *testing.T) {
	records := core.Merge([]core.RawRecord{
		raw("A", "C1", "", "1", "0", "0", "", ""),
		raw("B", "C1", "", "1", "0", "0", "", ""),
		raw("C", "C1", "", "1", "0", "0", "", ""),
	}).Records()
	core.SortRecords(records, core.SortState{Column: core.ColumnQtySold, Direction: core.Descending})
	if got := srIDs(records); !slices.Equal(got, []string{"A", "B", "C"}) {
		t.Errorf("ties reordered: %v", got)
	}
}

func TestSortRecords_EmptyIsNoop(t *testing.T) {
	core.SortRecords(nil, core.SortState{Column: core.ColumnSRID, Direction: core.Ascending})
}

func TestParseColumn(t *testing.T) {
	if c, err := core.ParseColumn("remaining_bal"); err != nil || c != core.ColumnRemainingBal {
		t.Errorf("ParseColumn(remaining_bal) = %v, %v", c, err)
	}
	if _, err := core.ParseColumn("status"); !errors.Is(err, core.ErrUnknownColumn) {
		t.Errorf("expected ErrUnknownColumn, got %v", err)
	}
}
