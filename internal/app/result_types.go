package app

import (
	"time"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// VerifyResult is returned by Verify.
type VerifyResult struct {
	Source    string          `json:"source"`
	RawCount  int             `json:"raw_count"`
	Merged    int             `json:"merged"`
	Orders    int             `json:"orders"`
	Malformed int             `json:"malformed"`
	ByState   map[string]int  `json:"by_state"`
	Quantity  decimal.Decimal `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
	FetchedAt time.Time       `json:"fetched_at"`

	// MissingKey counts merged records with an empty sr_id or co_no. They stay
	// in their own bucket and never appear in search results without an order.
	MissingKey int `json:"missing_key"`
}

// SchemaResult is returned by Schemas.
type SchemaResult struct {
	Record *jsonschema.Schema `json:"record"`
	View   *jsonschema.Schema `json:"view"`
}
