package core

import (
	"fmt"
	"strings"
)

// FulfillmentState is the derived progress of one sales report:
//
//	AwaitingInvoice → ProcessingVoucher → Complete
//
// It is never stored. Advancing means the invoice or voucher fields were updated
// upstream and the next derivation picks the change up.
type FulfillmentState int

const (
	AwaitingInvoice FulfillmentState = iota
	ProcessingVoucher
	Complete
)

func (s FulfillmentState) String() string {
	switch s {
	case AwaitingInvoice:
		return "awaiting_invoice"
	case ProcessingVoucher:
		return "processing_voucher"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// MarshalText encodes the state by name in JSON.
func (s FulfillmentState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *FulfillmentState) UnmarshalText(b []byte) error {
	for _, st := range []FulfillmentState{AwaitingInvoice, ProcessingVoucher, Complete} {
		if string(b) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown fulfillment state %q", b)
}

// DeriveStatus maps invoice and voucher numbers to a fulfillment state.
// The voucher is not inspected while the invoice is unset.
func DeriveStatus(invNo, voucherNo string) FulfillmentState {
	if isUnsetInvoice(invNo) {
		return AwaitingInvoice
	}
	if isUnsetVoucher(voucherNo) {
		return ProcessingVoucher
	}
	return Complete
}

func isUnsetInvoice(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == "-"
}

func isUnsetVoucher(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == "-" || t == "0"
}

// ── Presentation ──────────────────────────────────────────────────────────────

// StepState is the visual state of one stage of the progress bar.
type StepState string

const (
	StepInactive       StepState = "inactive"
	StepActive         StepState = "active"
	StepPendingInvoice StepState = "pending_invoice"
	StepPendingVoucher StepState = "pending_voucher"
	StepCompleted      StepState = "completed"
)

// ProgressSteps holds the three stages shown for each sales report.
type ProgressSteps struct {
	SalesReport StepState `json:"sales_report"`
	Invoice     StepState `json:"invoice"`
	Voucher     StepState `json:"voucher"`
}

// StatusView is everything a renderer needs to draw the status of one report.
type StatusView struct {
	State      FulfillmentState `json:"state"`
	TableLabel string           `json:"table_label"`
	TableClass string           `json:"table_class"`
	Label      string           `json:"label"`

	// Badge marks the actionable "awaiting" badge; once acknowledged the label
	// is shown as plain text instead.
	Badge          bool          `json:"badge"`
	CanAcknowledge bool          `json:"can_acknowledge"`
	Acknowledged   bool          `json:"acknowledged"`
	Steps          ProgressSteps `json:"steps"`
}

// PresentStatus combines the derived state with the acknowledgment flag.
// Acknowledgment only changes the presentation of AwaitingInvoice reports.
func PresentStatus(state FulfillmentState, acknowledged bool) StatusView {
	v := StatusView{State: state}

	switch state {
	case AwaitingInvoice:
		v.TableLabel = "awaiting for invoice"
		v.TableClass = "status-waiting"
		v.Steps = ProgressSteps{SalesReport: StepActive, Invoice: StepPendingInvoice, Voucher: StepInactive}
		if acknowledged {
			v.Label = "Waiting for Invoice"
			v.Acknowledged = true
		} else {
			v.Label = "Awaiting for Invoice"
			v.Badge = true
			v.CanAcknowledge = true
		}
	case ProcessingVoucher:
		v.TableLabel = "Processing Voucher"
		v.TableClass = "status-processing"
		v.Label = "Processing Voucher"
		v.Steps = ProgressSteps{SalesReport: StepActive, Invoice: StepActive, Voucher: StepPendingVoucher}
	default:
		v.TableLabel = "complete"
		v.TableClass = "status-done"
		v.Label = "Completed"
		v.Steps = ProgressSteps{SalesReport: StepCompleted, Invoice: StepCompleted, Voucher: StepCompleted}
	}
	return v
}
