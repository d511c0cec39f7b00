package app

import "errors"

var (
	// ErrNotLoaded is returned when an action needs records but none are loaded,
	// either because Load was never called or because the last load failed.
	ErrNotLoaded = errors.New("records not loaded")

	// ErrRecordNotFound is returned when no merged record has the requested key.
	ErrRecordNotFound = errors.New("sales report not found")

	// ErrNotAwaitingInvoice is returned when confirming a report that already has an invoice.
	ErrNotAwaitingInvoice = errors.New("sales report is not awaiting an invoice")

	// ErrTermsNotAccepted is returned when confirming without accepting the terms.
	ErrTermsNotAccepted = errors.New("terms must be accepted before printing")

	// ErrNoSuggestions is returned by MoreSuggestions before Suggest has produced any.
	ErrNoSuggestions = errors.New("no suggestions to page through")
)
