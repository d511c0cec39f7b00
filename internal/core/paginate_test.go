package core_test

import (
	"slices"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

func TestPaginate_Coverage(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		total := core.TotalPages(n, core.PageSize)
		if want := (n + core.PageSize - 1) / core.PageSize; total != want {
			t.Fatalf("n=%d: TotalPages = %d, want %d", n, total, want)
		}

		var joined []int
		for page := 1; page <= total; page++ {
			joined = append(joined, core.Paginate(items, page).Items...)
		}
		if !slices.Equal(joined, items) && !(n == 0 && len(joined) == 0) {
			t.Errorf("n=%d: concatenated pages = %v", n, joined)
		}
	}
}

func TestPaginate_ClampsAndControls(t *testing.T) {
	items := make([]int, 12)

	p := core.Paginate(items, 99)
	if p.Number != 3 || len(p.Items) != 2 || p.HasNext || !p.HasPrev {
		t.Errorf("page 99 of 12 items = %+v", p)
	}

	p = core.Paginate(items, -4)
	if p.Number != 1 || p.HasPrev || !p.HasNext {
		t.Errorf("page -4 = %+v", p)
	}

	single := core.Paginate(items[:5], 1)
	if single.ShowControls || single.Window != nil {
		t.Errorf("a single page must suppress controls: %+v", single)
	}

	empty := core.Paginate([]int{}, 3)
	if empty.Number != 1 || empty.TotalPages != 0 || empty.ShowControls {
		t.Errorf("empty = %+v", empty)
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current, total int
		first, last    int
	}{
		{1, 1, 1, 1},
		{2, 3, 1, 3},
		{4, 4, 1, 4},
		{1, 10, 1, 4},
		{2, 10, 1, 4},
		{3, 10, 1, 4},
		{5, 10, 3, 6},
		{9, 10, 7, 10},
		{10, 10, 7, 10},
		{3, 5, 1, 4},
		{5, 5, 2, 5},
	}
	for _, tt := range tests {
		first, last := core.PageWindow(tt.current, tt.total)
		if first != tt.first || last != tt.last {
			t.Errorf("PageWindow(%d, %d) = [%d, %d], want [%d, %d]",
				tt.current, tt.total, first, last, tt.first, tt.last)
		}
		if last-first+1 > core.MaxPageButtons {
			t.Errorf("PageWindow(%d, %d) shows %d buttons", tt.current, tt.total, last-first+1)
		}
		if tt.current < first || tt.current > last {
			t.Errorf("PageWindow(%d, %d) does not contain the current page", tt.current, tt.total)
		}
	}
}
