package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MergeResult holds merged records in order of first appearance of their key.
type MergeResult struct {
	records   []MergedRecord
	index     map[MergeKey]int
	malformed int
}

// Merge folds raw records sharing an (sr_id, co_no) pair into one aggregate,
// summing qty_sold, amount and remaining_bal. A record with an empty sr_id or
// co_no still forms its own bucket. Each raw record is counted exactly once.
func Merge(raw []RawRecord) *MergeResult {
	res := &MergeResult{
		records: make([]MergedRecord, 0, len(raw)),
		index:   make(map[MergeKey]int, len(raw)),
	}

	for _, r := range raw {
		qty := res.parse("qty_sold", r.QtySold)
		amount := res.parse("amount", r.Amount)
		bal := res.parse("remaining_bal", r.RemainingBal)

		key := KeyOf(r)
		if i, ok := res.index[key]; ok {
			m := &res.records[i]
			m.QtySold = m.QtySold.Add(qty)
			m.Amount = m.Amount.Add(amount)
			m.RemainingBal = m.RemainingBal.Add(bal)
			m.Lines++
			continue
		}

		res.index[key] = len(res.records)
		res.records = append(res.records, MergedRecord{
			ID:              string(r.ID),
			SRID:            string(r.SRID),
			CONo:            string(r.CONo),
			NameCompany:     string(r.NameCompany),
			ItemDescription: string(r.ItemDescription),
			QtySold:         qty,
			Amount:          amount,
			RemainingBal:    bal,
			InvNo:           string(r.InvNo),
			VoucherNo:       string(r.VoucherNo),
			VoucherDate:     string(r.VoucherDate),
			Lines:           1,
		})
	}
	return res
}

func (res *MergeResult) parse(field string, v Text) decimal.Decimal {
	d, err := ParseNumeric(string(v))
	var mfe *MalformedFieldError
	if errors.As(err, &mfe) {
		mfe.Field = field
		res.malformed++
	}
	return d
}

// Records returns a copy of the merged records in first-appearance order.
func (res *MergeResult) Records() []MergedRecord {
	out := make([]MergedRecord, len(res.records))
	copy(out, res.records)
	return out
}

// Keys returns the merge keys in first-appearance order.
func (res *MergeResult) Keys() []MergeKey {
	keys := make([]MergeKey, len(res.records))
	for i, m := range res.records {
		keys[i] = m.Key()
	}
	return keys
}

// Get returns the merged record for key.
func (res *MergeResult) Get(key MergeKey) (MergedRecord, bool) {
	i, ok := res.index[key]
	if !ok {
		return MergedRecord{}, false
	}
	return res.records[i], true
}

// Len returns the number of distinct keys.
func (res *MergeResult) Len() int { return len(res.records) }

// Malformed returns how many numeric fields failed to parse and were taken as zero.
func (res *MergeResult) Malformed() int { return res.malformed }
