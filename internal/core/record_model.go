package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Text is a string field that decodes from a JSON string, number, boolean or null.
// The upstream document store is schemaless, so the same column may arrive as
// "C-1001" in one row and 1001 in the next. Numeric literals are kept in their
// canonical decimal form ("1e3" becomes "1000").
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{':
		// Extended-JSON object ids: {"$oid": "..."}
		var obj map[string]any
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		oid, ok := obj["$oid"].(string)
		if !ok {
			return fmt.Errorf("unsupported object value %s", b)
		}
		*t = Text(oid)
	case '[':
		return fmt.Errorf("unsupported array value %s", b)
	case 't', 'f':
		*t = Text(b)
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("invalid number %s: %w", b, err)
		}
		*t = Text(d.String())
	}
	return nil
}

// String returns the raw text.
func (t Text) String() string { return string(t) }

// RawRecord is one sales-report line exactly as delivered by the data source.
// Numeric fields are kept as text; they are normalized when merged.
type RawRecord struct {
	ID              Text `json:"_id" jsonschema_description:"Internal identifier assigned by the records service"`
	SRID            Text `json:"sr_id" jsonschema_description:"Sales report identifier"`
	CONo            Text `json:"co_no" jsonschema_description:"Consignment order number grouping several sales reports"`
	NameCompany     Text `json:"name_company" jsonschema_description:"Consignee company name"`
	ItemDescription Text `json:"item_description,omitempty" jsonschema_description:"Free-text description of the consigned item"`
	QtySold         Text `json:"qty_sold" jsonschema_description:"Quantity sold; number or locale-formatted string"`
	Amount          Text `json:"amount" jsonschema_description:"Sales amount; number or currency-formatted string such as $1,234.50"`
	RemainingBal    Text `json:"remaining_bal" jsonschema_description:"Remaining consigned balance; number or formatted string"`
	InvNo           Text `json:"inv_no" jsonschema_description:"Invoice number; empty or - when not yet invoiced"`
	VoucherNo       Text `json:"voucher_no" jsonschema_description:"Payment voucher number; empty, - or 0 when not yet issued"`
	VoucherDate     Text `json:"voucher_date" jsonschema_description:"Voucher issue date as free text"`
}

// MergeKey identifies one merged sales report.
type MergeKey struct {
	SRID string `json:"sr_id"`
	CONo string `json:"co_no"`
}

// KeyOf returns the merge key of a raw record.
func KeyOf(r RawRecord) MergeKey {
	return MergeKey{SRID: string(r.SRID), CONo: string(r.CONo)}
}

// MergedRecord is the aggregate of every raw record sharing one (sr_id, co_no) pair.
// Non-numeric fields come from the first raw record seen for the key.
type MergedRecord struct {
	ID              string          `json:"_id"`
	SRID            string          `json:"sr_id"`
	CONo            string          `json:"co_no"`
	NameCompany     string          `json:"name_company"`
	ItemDescription string          `json:"item_description,omitempty"`
	QtySold         decimal.Decimal `json:"qty_sold"`
	Amount          decimal.Decimal `json:"amount"`
	RemainingBal    decimal.Decimal `json:"remaining_bal"`
	InvNo           string          `json:"inv_no"`
	VoucherNo       string          `json:"voucher_no"`
	VoucherDate     string          `json:"voucher_date"`
	Lines           int             `json:"lines"` // raw records folded into this aggregate
}

// Key returns the merge key of the record.
func (m MergedRecord) Key() MergeKey {
	return MergeKey{SRID: m.SRID, CONo: m.CONo}
}

// Status derives the fulfillment state from the current invoice and voucher fields.
func (m MergedRecord) Status() FulfillmentState {
	return DeriveStatus(m.InvNo, m.VoucherNo)
}

// HasVoucher reports whether a payment voucher has been issued.
func (m MergedRecord) HasVoucher() bool {
	return !isUnsetVoucher(m.VoucherNo)
}

// Number returns the numeric value of a numeric column, zero otherwise.
func (m MergedRecord) Number(col Column) decimal.Decimal {
	switch col {
	case ColumnQtySold:
		return m.QtySold
	case ColumnAmount:
		return m.Amount
	case ColumnRemainingBal:
		return m.RemainingBal
	}
	return decimal.Zero
}

// Text returns the textual value of a column. Numeric columns render as plain decimals.
func (m MergedRecord) Text(col Column) string {
	switch col {
	case ColumnSRID:
		return m.SRID
	case ColumnCompany:
		return m.NameCompany
	case ColumnCONo:
		return m.CONo
	case ColumnInvNo:
		return m.InvNo
	case ColumnVoucherNo:
		return m.VoucherNo
	case ColumnVoucherDate:
		return m.VoucherDate
	case ColumnQtySold, ColumnAmount, ColumnRemainingBal:
		return m.Number(col).String()
	}
	return ""
}
