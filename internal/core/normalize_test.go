package core_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "plain integer string", in: "10", want: "10"},
		{name: "currency with separators", in: "$1,234.50", want: "1234.5"},
		{name: "peso sign", in: "₱ 2,000", want: "2000"},
		{name: "negative", in: "-5.25", want: "-5.25"},
		{name: "leading dot", in: ".5", want: "0.5"},
		{name: "trailing garbage after prefix", in: "12-3", want: "12"},
		{name: "empty", in: "", want: "0"},
		{name: "dash sentinel", in: "-", want: "0"},
		{name: "no digits", in: "n/a", want: "0"},
		{name: "nil", in: nil, want: "0"},
		{name: "int", in: 12, want: "12"},
		{name: "float", in: 7.5, want: "7.5"},
		{name: "text field", in: core.Text("3 pcs"), want: "3"},
		{name: "decimal passthrough", in: dec("42.1"), want: "42.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Normalize(tt.in)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Normalize(%v) = %s, want %s", tt.in, got, tt.want)
			}
			if again := core.Normalize(got); !again.Equal(got) {
				t.Errorf("Normalize is not idempotent: %s then %s", got, again)
			}
		})
	}
}

func TestParseNumeric_Malformed(t *testing.T) {
	d, err := core.ParseNumeric("abc")
	if !d.IsZero() {
		t.Errorf("expected zero, got %s", d)
	}
	if !errors.Is(err, core.ErrMalformedField) {
		t.Fatalf("expected ErrMalformedField, got %v", err)
	}
	var mfe *core.MalformedFieldError
	if !errors.As(err, &mfe) || mfe.Value != "abc" {
		t.Errorf("expected MalformedFieldError carrying the value, got %#v", err)
	}

	if _, err := core.ParseNumeric("-"); err != nil {
		t.Errorf("dash is a sentinel, not malformed: %v", err)
	}
}

func TestRawRecord_DecodesMixedTypes(t *testing.T) {
	in := `{"_id":{"$oid":"64f0"},"sr_id":1001,"co_no":"C1","name_company":"Acme",
		"qty_sold":"10","amount":5.5,"remaining_bal":null,"inv_no":"","voucher_no":0,"voucher_date":"-"}`

	var r core.RawRecord
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	checks := map[string][2]string{
		"_id":           {string(r.ID), "64f0"},
		"sr_id":         {string(r.SRID), "1001"},
		"amount":        {string(r.Amount), "5.5"},
		"remaining_bal": {string(r.RemainingBal), ""},
		"voucher_no":    {string(r.VoucherNo), "0"},
	}
	for field, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", field, c[0], c[1])
		}
	}
}

func TestRawRecord_RejectsArrays(t *testing.T) {
	var r core.RawRecord
	if err := json.Unmarshal([]byte(`{"sr_id":["a"]}`), &r); err == nil {
		t.Fatal("expected error for array value")
	}
}
