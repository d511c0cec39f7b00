package core

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies a sortable column of the results table.
type Column string

const (
	ColumnSRID         Column = "sr_id"
	ColumnCompany      Column = "name_company"
	ColumnCONo         Column = "co_no"
	ColumnQtySold      Column = "qty_sold"
	ColumnAmount       Column = "amount"
	ColumnRemainingBal Column = "remaining_bal"
	ColumnInvNo        Column = "inv_no"
	ColumnVoucherNo    Column = "voucher_no"
	ColumnVoucherDate  Column = "voucher_date"
)

// Columns lists every sortable column in table order.
var Columns = []Column{
	ColumnSRID, ColumnCompany, ColumnCONo, ColumnQtySold, ColumnAmount,
	ColumnRemainingBal, ColumnInvNo, ColumnVoucherNo, ColumnVoucherDate,
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if slices.Contains(Columns, c) {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// Numeric reports whether the column compares by value rather than by text.
func (c Column) Numeric() bool {
	return c == ColumnQtySold || c == ColumnAmount || c == ColumnRemainingBal
}

// Direction is the sort order of a column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortState is the active sort column and direction. The zero value means unsorted.
type SortState struct {
	Column    Column    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Toggle returns the state after the user picks col: the direction flips when
// col is already active, otherwise col becomes active ascending.
func (s SortState) Toggle(col Column) SortState {
	if s.Column == col && s.Direction == Ascending {
		return SortState{Column: col, Direction: Descending}
	}
	return SortState{Column: col, Direction: Ascending}
}

// Active reports whether a column has been chosen.
func (s SortState) Active() bool { return s.Column != "" }

// SortRecords stable-sorts records in place by the state's column and direction.
// Numeric columns compare by value; the others use English collation.
// An inactive state or an empty slice is left untouched.
func SortRecords(records []MergedRecord, s SortState) {
	if len(records) == 0 || !s.Active() {
		return
	}

	var cmp func(a, b MergedRecord) int
	if s.Column.Numeric() {
		cmp = func(a, b MergedRecord) int {
			return a.Number(s.Column).Cmp(b.Number(s.Column))
		}
	} else {
		c := newCollator()
		cmp = func(a, b MergedRecord) int {
			return c.CompareString(a.Text(s.Column), b.Text(s.Column))
		}
	}

	if s.Direction == Descending {
		slices.SortStableFunc(records, func(a, b MergedRecord) int { return cmp(b, a) })
		return
	}
	slices.SortStableFunc(records, cmp)
}

// newCollator returns a fresh collator; collate.Collator is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}
