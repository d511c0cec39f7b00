package source

import (
	"fmt"
	"strings"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

// Columns is the record column set shared by tabular files and SQL tables.
var Columns = []string{
	"_id", "sr_id", "co_no", "name_company", "item_description",
	"qty_sold", "amount", "remaining_bal", "inv_no", "voucher_no", "voucher_date",
}

func fieldPtr(r *core.RawRecord, column string) *core.Text {
	switch column {
	case "_id":
		return &r.ID
	case "sr_id":
		return &r.SRID
	case "co_no":
		return &r.CONo
	case "name_company":
		return &r.NameCompany
	case "item_description":
		return &r.ItemDescription
	case "qty_sold":
		return &r.QtySold
	case "amount":
		return &r.Amount
	case "remaining_bal":
		return &r.RemainingBal
	case "inv_no":
		return &r.InvNo
	case "voucher_no":
		return &r.VoucherNo
	case "voucher_date":
		return &r.VoucherDate
	}
	return nil
}

// FieldValues returns the record's values in Columns order.
func FieldValues(r core.RawRecord) []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = string(*fieldPtr(&r, c))
	}
	return out
}

// rowsToRecords maps a header row onto record fields. Header names are matched
// case-insensitively; unknown columns are ignored and sr_id plus co_no are required.
func rowsToRecords(header []string, rows [][]string) ([]core.RawRecord, error) {
	index := make(map[int]string, len(header))
	seen := make(map[string]bool)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		var probe core.RawRecord
		if fieldPtr(&probe, name) != nil {
			index[i] = name
			seen[name] = true
		}
	}
	for _, required := range []string{"sr_id", "co_no"} {
		if !seen[required] {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	records := make([]core.RawRecord, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		var r core.RawRecord
		for i, cell := range row {
			if name, ok := index[i]; ok {
				*fieldPtr(&r, name) = core.Text(strings.TrimSpace(cell))
			}
		}
		records = append(records, r)
	}
	return records, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
