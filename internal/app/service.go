package app

import (
	"context"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// RecordSource delivers the full raw record collection in a single attempt.
// Failures are reported as *core.DataFetchError.
type RecordSource interface {
	Fetch(ctx context.Context) ([]core.RawRecord, error)

	// Name describes the source in logs, e.g. "http https://host/api/records".
	Name() string
}

// SearchStore persists the last search term for the lifetime of one session.
type SearchStore interface {
	LastSearchTerm() string
	SetLastSearchTerm(term string)
	ClearLastSearchTerm()
}

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from the record pipeline. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// OpenDashboard starts a new dashboard bound to a session's search store.
	// The dashboard holds no records until Load is called.
	OpenDashboard(store SearchStore) *Dashboard

	// FetchRecords fetches the raw records once, bypassing any dashboard state.
	FetchRecords(ctx context.Context) ([]core.RawRecord, error)

	// Verify fetches and merges the records and reports data-quality counters.
	Verify(ctx context.Context) (*VerifyResult, error)

	// Schemas returns JSON schemas for the record and view contracts.
	Schemas() (*SchemaResult, error)

	// SourceName describes the configured record source.
	SourceName() string
}
