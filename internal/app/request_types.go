package app

// SearchRequest is the input for a free-text search or a suggestion lookup.
type SearchRequest struct {
	Term string `json:"term"`
}

// SelectRequest picks a suggestion; Value is the order number it carries.
type SelectRequest struct {
	Value string `json:"value"`
}

// SortRequest picks a column to sort by. Picking the active column again flips
// the direction.
type SortRequest struct {
	Column string `json:"column"`
}

// PageRequest moves the results table. Step is "next" or "prev"; when empty,
// Page is the 1-based page to show.
type PageRequest struct {
	Page int    `json:"page,omitempty"`
	Step string `json:"step,omitempty"`
}

// ConfirmRequest acknowledges an awaiting-invoice report before its slip is
// printed or shared. TermsAccepted mirrors the terms checkbox.
type ConfirmRequest struct {
	TermsAccepted bool `json:"terms_accepted"`
}
