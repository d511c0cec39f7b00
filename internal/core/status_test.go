package core_test

import (
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		inv, voucher string
		want         core.FulfillmentState
	}{
		{"", "", core.AwaitingInvoice},
		{"-", "V-1", core.AwaitingInvoice},
		{"  ", "V-1", core.AwaitingInvoice},
		{"INV-1", "", core.ProcessingVoucher},
		{"INV-1", "-", core.ProcessingVoucher},
		{"INV-1", "0", core.ProcessingVoucher},
		{"INV-1", " 0 ", core.ProcessingVoucher},
		{"INV-1", "V-9", core.Complete},
	}
	for _, tt := range tests {
		t.Run(tt.inv+"/"+tt.voucher, func(t *testing.T) {
			if got := core.DeriveStatus(tt.inv, tt.voucher); got != tt.want {
				t.Errorf("DeriveStatus(%q, %q) = %s, want %s", tt.inv, tt.voucher, got, tt.want)
			}
		})
	}
}

func TestPresentStatus(t *testing.T) {
	tests := []struct {
		name           string
		state          core.FulfillmentState
		acknowledged   bool
		label          string
		tableLabel     string
		canAcknowledge bool
		invoiceStep    core.StepState
	}{
		{"awaiting", core.AwaitingInvoice, false, "Awaiting for Invoice", "awaiting for invoice", true, core.StepPendingInvoice},
		{"awaiting acknowledged", core.AwaitingInvoice, true, "Waiting for Invoice", "awaiting for invoice", false, core.StepPendingInvoice},
		{"processing", core.ProcessingVoucher, false, "Processing Voucher", "Processing Voucher", false, core.StepActive},
		{"processing ignores ack", core.ProcessingVoucher, true, "Processing Voucher", "Processing Voucher", false, core.StepActive},
		{"complete", core.Complete, false, "Completed", "complete", false, core.StepCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := core.PresentStatus(tt.state, tt.acknowledged)
			if v.Label != tt.label || v.TableLabel != tt.tableLabel {
				t.Errorf("labels = %q/%q, want %q/%q", v.Label, v.TableLabel, tt.label, tt.tableLabel)
			}
			if v.CanAcknowledge != tt.canAcknowledge {
				t.Errorf("CanAcknowledge = %v, want %v", v.CanAcknowledge, tt.canAcknowledge)
			}
			if v.Steps.Invoice != tt.invoiceStep {
				t.Errorf("invoice step = %s, want %s", v.Steps.Invoice, tt.invoiceStep)
			}
			if v.Acknowledged && tt.state != core.AwaitingInvoice {
				t.Error("acknowledgment must not show outside AwaitingInvoice")
			}
		})
	}
}

func TestAcknowledgmentTracker(t *testing.T) {
	tr := core.NewAcknowledgmentTracker()
	if tr.IsAcknowledged("C1", "SR1") {
		t.Fatal("fresh tracker reports acknowledgment")
	}
	if !tr.Acknowledge("C1", "SR1") {
		t.Error("first Acknowledge should report a new key")
	}
	if tr.Acknowledge("C1", "SR1") {
		t.Error("second Acknowledge should be a no-op")
	}
	if !tr.IsAcknowledged("C1", "SR1") || tr.Len() != 1 {
		t.Errorf("after two acknowledgments: acked=%v len=%d", tr.IsAcknowledged("C1", "SR1"), tr.Len())
	}
	if tr.IsAcknowledged("SR1", "C1") {
		t.Error("key must be order then report")
	}
	if got := core.NewAckKey("C1", "SR1"); got != "C1-SR1" {
		t.Errorf("NewAckKey = %q", got)
	}
}
