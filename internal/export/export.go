// Package export renders the current search results as a downloadable XLSX
// workbook or a standalone HTML page.
package export

import (
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// Data is one export of the filtered view, in the order the table shows it.
type Data struct {
	Title       string
	GeneratedAt time.Time
	Records     []core.MergedRecord

	// IsAcknowledged reports confirmed reports; nil means none are.
	IsAcknowledged func(orderNumber, reportID string) bool
}

func (d Data) acked(m core.MergedRecord) bool {
	return d.IsAcknowledged != nil && d.IsAcknowledged(m.CONo, m.SRID)
}

// Headers are the export column titles.
var Headers = []string{
	"SR ID", "Company", "C.O. No.", "Qty Sold", "Remaining Bal", "Amount",
	"Invoice No.", "Voucher No.", "Voucher Date", "Status",
}

// FileName returns a download name such as "consignments-20261015-1504.xlsx".
func FileName(at time.Time, ext string) string {
	return "consignments-" + at.Format("20060102-1504") + "." + ext
}

// row is one record formatted for text output.
type row struct {
	SRID, Company, CONo, Quantity, Remaining, Amount, InvNo, VoucherNo, VoucherDate, Status string
}

func (r row) cells() []string {
	return []string{r.SRID, r.Company, r.CONo, r.Quantity, r.Remaining, r.Amount, r.InvNo, r.VoucherNo, r.VoucherDate, r.Status}
}

func formatRow(m core.MergedRecord, acked bool) row {
	return row{
		SRID:        m.SRID,
		Company:     m.NameCompany,
		CONo:        m.CONo,
		Quantity:    core.FormatQuantity(m.QtySold),
		Remaining:   core.FormatQuantity(m.RemainingBal),
		Amount:      core.FormatAmount(m.Amount),
		InvNo:       m.InvNo,
		VoucherNo:   dash(m.VoucherNo),
		VoucherDate: dash(m.VoucherDate),
		Status:      core.PresentStatus(m.Status(), acked).Label,
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
