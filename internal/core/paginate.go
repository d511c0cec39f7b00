package core

const (
	// PageSize is the number of rows per results page.
	PageSize = 5

	// MaxPageButtons bounds the numbered page controls shown at once.
	MaxPageButtons = 4
)

// TotalPages returns ceil(n / size).
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage forces page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageSlice returns the items of a 1-based page: [(page-1)*size, page*size).
func PageSlice[T any](items []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(items) {
		return nil
	}
	end := min(start+size, len(items))
	return items[start:end]
}

// PageWindow returns the first and last page number to render as buttons.
// The window holds at most MaxPageButtons pages, is centered on current when
// possible and shifts inward at either edge so it stays full.
func PageWindow(current, totalPages int) (first, last int) {
	if totalPages <= MaxPageButtons {
		return 1, totalPages
	}

	half := MaxPageButtons / 2
	first = current - half
	last = current + (MaxPageButtons - half - 1)

	if first < 1 {
		last += 1 - first
		first = 1
	}
	if last > totalPages {
		first -= last - totalPages
		last = totalPages
		if first < 1 {
			first = 1
		}
	}
	if last-first+1 > MaxPageButtons {
		if current-first < last-current {
			last = first + MaxPageButtons - 1
		} else {
			first = last - MaxPageButtons + 1
		}
	}
	return first, last
}

// Page is one rendered page of results.
type Page[T any] struct {
	Number     int   `json:"number"`
	TotalPages int   `json:"total_pages"`
	Items      []T   `json:"items"`
	Window     []int `json:"window"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`

	// ShowControls is false when everything fits on one page; the controls are
	// then omitted rather than disabled.
	ShowControls bool `json:"show_controls"`
}

// Paginate slices items into the requested page, clamping the page number.
func Paginate[T any](items []T, page int) Page[T] {
	total := TotalPages(len(items), PageSize)
	page = ClampPage(page, total)

	p := Page[T]{
		Number:       page,
		TotalPages:   total,
		Items:        PageSlice(items, page, PageSize),
		HasPrev:      page > 1,
		HasNext:      page < total,
		ShowControls: total > 1,
	}
	if p.ShowControls {
		first, last := PageWindow(page, total)
		for i := first; i <= last; i++ {
			p.Window = append(p.Window, i)
		}
	}
	return p
}
