package app

import (
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// ViewState is the coarse state of the results area.
type ViewState string

const (
	ViewIdle      ViewState = "idle"       // records loaded, no search yet
	ViewResults   ViewState = "results"    // search returned rows
	ViewNoResults ViewState = "no_results" // search returned nothing
	ViewLoadError ViewState = "load_error" // the last fetch failed
)

// MessageKind styles a user-facing message.
type MessageKind string

const (
	MessageInfo  MessageKind = "info"
	MessageError MessageKind = "error"
)

// Message is a banner shown above the table.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// User-facing texts.
const (
	textPrompt       = "Enter a search term and press Enter or select a suggestion."
	textNoData       = "No data found for your search."
	textNoMatches    = "No matching results found."
	textLoadError    = "Error loading data. Please check your API connection."
	textLoadErrorMsg = "Failed to load data from the records service. Error: "
)

// ViewModel is the read-only snapshot handed to renderers after every action.
// It is rebuilt from the dashboard state each time and never mutated afterwards.
type ViewModel struct {
	State   ViewState      `json:"state"`
	Query   string         `json:"query"`
	Message *Message       `json:"message,omitempty"`
	Empty   string         `json:"empty,omitempty"` // table placeholder when there are no rows
	Sort    core.SortState `json:"sort"`
	Table   TablePage      `json:"table"`

	// Summary and Dashboard are nil when hidden.
	Summary   *SummaryView   `json:"summary,omitempty"`
	Dashboard *DashboardView `json:"dashboard,omitempty"`

	CanExport bool `json:"can_export"`
	Loaded    int  `json:"loaded"` // raw records held by the session
}

// TablePage is the visible page of the results table.
type TablePage = core.Page[RowView]

// RowView is one formatted row of the results table.
type RowView struct {
	Key          core.MergeKey   `json:"key"`
	SRID         string          `json:"sr_id"`
	Company      string          `json:"name_company"`
	CONo         string          `json:"co_no"`
	Quantity     string          `json:"qty_sold"`
	RemainingBal string          `json:"remaining_bal"`
	Amount       string          `json:"amount"`
	InvNo        string          `json:"inv_no"`
	VoucherNo    string          `json:"voucher_no"`
	VoucherDate  string          `json:"voucher_date"`
	HasVoucher   bool            `json:"has_voucher"`
	Status       core.StatusView `json:"status"`
}

// SummaryView is the per-order breakdown above the table.
type SummaryView struct {
	Headline string           `json:"headline"`
	Orders   []OrderTotalView `json:"orders"`
}

// OrderTotalView is one formatted line of the summary.
type OrderTotalView struct {
	CONo     string `json:"co_no"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Amount   string `json:"amount"`
	Line     string `json:"line"`
}

// DashboardView is the progress overview of the current results.
type DashboardView struct {
	Title   string           `json:"title"`
	Reports []ReportProgress `json:"reports"`
}

// ReportProgress is one progress card.
type ReportProgress struct {
	SRID   string          `json:"sr_id"`
	CONo   string          `json:"co_no"`
	Status core.StatusView `json:"status"`
}

// DetailsView is the acknowledgment slip of one report.
type DetailsView struct {
	Company          string          `json:"company"`
	SRID             string          `json:"sr_id"`
	CONo             string          `json:"co_no"`
	TotalQuantity    string          `json:"total_quantity"`
	RemainingBalance string          `json:"remaining_balance"`
	TotalAmount      string          `json:"total_amount"`
	Status           core.StatusView `json:"status"`
	CanConfirm       bool            `json:"can_confirm"`
}

// ── Builders ──────────────────────────────────────────────────────────────────

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func newRowView(m core.MergedRecord, acked bool) RowView {
	row := RowView{
		Key:          m.Key(),
		SRID:         m.SRID,
		Company:      m.NameCompany,
		CONo:         m.CONo,
		RemainingBal: "0",
		InvNo:        m.InvNo,
		VoucherNo:    orDash(m.VoucherNo),
		VoucherDate:  orDash(m.VoucherDate),
		HasVoucher:   m.HasVoucher(),
		Status:       core.PresentStatus(m.Status(), acked),
	}
	if !m.QtySold.IsZero() {
		row.Quantity = core.FormatQuantity(m.QtySold)
	}
	if !m.Amount.IsZero() {
		row.Amount = core.FormatAmount(m.Amount)
	}
	if !m.RemainingBal.IsZero() {
		row.RemainingBal = core.FormatQuantity(m.RemainingBal)
	}
	return row
}

func newSummaryView(records []core.MergedRecord) *SummaryView {
	s := core.Summarize(records)
	v := &SummaryView{Headline: s.Headline}
	for _, o := range s.Orders {
		qty := core.FormatQuantity(o.Quantity)
		unit := core.PieceUnit(o.Quantity)
		amount := core.FormatAmount(o.Amount)
		v.Orders = append(v.Orders, OrderTotalView{
			CONo:     o.Label(),
			Quantity: qty,
			Unit:     unit,
			Amount:   amount,
			Line:     "CO Number " + o.Label() + " : " + qty + " " + unit + ", Total Amount " + amount + " reported sold.",
		})
	}
	return v
}

func newDetailsView(m core.MergedRecord, acked bool) DetailsView {
	status := core.PresentStatus(m.Status(), acked)
	return DetailsView{
		Company:          orNA(m.NameCompany),
		SRID:             orNA(m.SRID),
		CONo:             orNA(m.CONo),
		TotalQuantity:    core.FormatPieces(m.QtySold),
		RemainingBalance: core.FormatRemaining(m.RemainingBal),
		TotalAmount:      core.FormatAmount(m.Amount),
		Status:           status,
		CanConfirm:       status.State == core.AwaitingInvoice,
	}
}
