package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/core"
)

const ruleWidth = 118

// PrintView renders a view model as plain text: banner, summary, table, pager
// and progress cards.
func PrintView(w io.Writer, v app.ViewModel) {
	if v.Message != nil {
		label := "INFO"
		if v.Message.Kind == app.MessageError {
			label = "ERROR"
		}
		fmt.Fprintf(w, "[%s] %s\n", label, v.Message.Text)
	}

	if v.Summary != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Summary.Headline)
		for _, o := range v.Summary.Orders {
			fmt.Fprintf(w, "  %s\n", o.Line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(w, "  %-8s %-22s %-10s %10s %10s %12s %-10s %-10s %-12s %s\n",
		header(v, core.ColumnSRID, "SR ID"), header(v, core.ColumnCompany, "COMPANY"),
		header(v, core.ColumnCONo, "C.O."), header(v, core.ColumnQtySold, "QTY"),
		header(v, core.ColumnRemainingBal, "REMAINING"), header(v, core.ColumnAmount, "AMOUNT"),
		header(v, core.ColumnInvNo, "INV NO"), header(v, core.ColumnVoucherNo, "VOUCHER"),
		header(v, core.ColumnVoucherDate, "DATE"), "STATUS")
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	if len(v.Table.Items) == 0 {
		fmt.Fprintf(w, "  %s\n", v.Empty)
	}
	for _, r := range v.Table.Items {
		fmt.Fprintf(w, "  %-8s %-22s %-10s %10s %10s %12s %-10s %-10s %-12s %s\n",
			clip(r.SRID, 8), clip(r.Company, 22), clip(r.CONo, 10), r.Quantity, r.RemainingBal,
			r.Amount, clip(r.InvNo, 10), clip(r.VoucherNo, 10), clip(r.VoucherDate, 12), r.Status.TableLabel)
	}
	fmt.Fprintln(w, strings.Repeat("=", ruleWidth))
	if v.Table.ShowControls {
		fmt.Fprintf(w, "  Page %d of %d  %s\n", v.Table.Number, v.Table.TotalPages, pageButtons(v.Table))
	}

	if v.Dashboard != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, v.Dashboard.Title)
		for _, p := range v.Dashboard.Reports {
			fmt.Fprintf(w, "  SR %-8s C.O. %-10s %s  %s\n", p.SRID, p.CONo, steps(p.Status.Steps), p.Status.Label)
		}
	}
}

// header marks the active sort column with an arrow.
func header(v app.ViewModel, col core.Column, title string) string {
	if v.Sort.Column != col {
		return title
	}
	if v.Sort.Direction == core.Descending {
		return title + "↓"
	}
	return title + "↑"
}

func pageButtons(p app.TablePage) string {
	var b strings.Builder
	if p.HasPrev {
		b.WriteString("< ")
	}
	for _, n := range p.Window {
		if n == p.Number {
			b.WriteString("[" + strconv.Itoa(n) + "] ")
		} else {
			b.WriteString(strconv.Itoa(n) + " ")
		}
	}
	if p.HasNext {
		b.WriteString(">")
	}
	return strings.TrimSpace(b.String())
}

func steps(s core.ProgressSteps) string {
	return fmt.Sprintf("SR:%s  INV:%s  VCH:%s", s.SalesReport, s.Invoice, s.Voucher)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// PrintSuggestions lists one batch of suggestions, numbered from the batch offset.
func PrintSuggestions(w io.Writer, page core.SuggestionPage) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "  No suggestions.")
		return
	}
	for i, s := range page.Items {
		fmt.Fprintf(w, "  %2d. %s\n", page.Offset+i+1, s.Label)
	}
	if page.HasMore {
		fmt.Fprintf(w, "  ... %d more (type 'more')\n", page.Total-page.Offset-len(page.Items))
	}
}

// PrintDetails renders the acknowledgment slip of one report.
func PrintDetails(w io.Writer, d app.DetailsView) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-20s %s\n", "Company", d.Company)
	fmt.Fprintf(w, "  %-20s %s\n", "SR ID", d.SRID)
	fmt.Fprintf(w, "  %-20s %s\n", "C.O. No.", d.CONo)
	fmt.Fprintf(w, "  %-20s %s\n", "Total Quantity", d.TotalQuantity)
	fmt.Fprintf(w, "  %-20s %s\n", "Remaining Balance", d.RemainingBalance)
	fmt.Fprintf(w, "  %-20s %s\n", "Total Amount", d.TotalAmount)
	fmt.Fprintf(w, "  %-20s %s\n", "Status", d.Status.Label)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	if d.CanConfirm {
		fmt.Fprintf(w, "  Type 'confirm %s %s' to acknowledge and print.\n", d.CONo, d.SRID)
	}
}

// PrintVerify renders the data-quality report of one fetch.
func PrintVerify(w io.Writer, r *app.VerifyResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-58s\n", "RECORD SOURCE CHECK")
	fmt.Fprintf(w, "  Source   : %s\n", r.Source)
	fmt.Fprintf(w, "  Fetched  : %s\n", r.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-30s %10d\n", "Raw records", r.RawCount)
	fmt.Fprintf(w, "  %-30s %10d\n", "Merged reports", r.Merged)
	fmt.Fprintf(w, "  %-30s %10d\n", "Orders", r.Orders)
	fmt.Fprintf(w, "  %-30s %10d\n", "Malformed numeric fields", r.Malformed)
	fmt.Fprintf(w, "  %-30s %10d\n", "Reports missing a key", r.MissingKey)
	for _, state := range []core.FulfillmentState{core.AwaitingInvoice, core.ProcessingVoucher, core.Complete} {
		fmt.Fprintf(w, "  %-30s %10d\n", "  "+state.String(), r.ByState[state.String()])
	}
	fmt.Fprintln(w, strings.Repeat("-", 62))
	fmt.Fprintf(w, "  %-30s %10s\n", "Quantity sold", core.FormatQuantity(r.Quantity))
	fmt.Fprintf(w, "  %-30s %10s\n", "Amount", core.FormatAmount(r.Amount))
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  search <term>          Search by SR ID, C.O. number or invoice number")
	fmt.Fprintln(w, "  clear                  Clear the search")
	fmt.Fprintln(w, "  sort <column>          Sort by column; again to reverse")
	fmt.Fprintf(w, "                         columns: %s\n", columnList())
	fmt.Fprintln(w, "  page <n> | next | prev Move through the results")
	fmt.Fprintln(w, "  suggest <term>         Suggest orders (at least 3 characters)")
	fmt.Fprintln(w, "  more                   Show more suggestions")
	fmt.Fprintln(w, "  select <n|co>          Search by a suggestion number or order number")
	fmt.Fprintln(w, "  details <co> <sr>      Show the slip of one sales report")
	fmt.Fprintln(w, "  confirm <co> <sr>      Accept the terms and acknowledge a report")
	fmt.Fprintln(w, "  reload                 Fetch the records again")
	fmt.Fprintln(w, "  help                   Show this help")
	fmt.Fprintln(w, "  exit                   Leave")
}

func columnList() string {
	names := make([]string, len(core.Columns))
	for i, c := range core.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
