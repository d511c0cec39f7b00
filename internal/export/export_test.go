package export_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/moonandjupiter/consign-tracker/internal/export"
	"github.com/xuri/excelize/v2"
)

func sample() export.Data {
	raw := []core.RawRecord{
		{SRID: "SR1", CONo: "C1", NameCompany: "Acme <Ltd>", QtySold: "10", Amount: "1000.5"},
		{SRID: "SR1", CONo: "C1", NameCompany: "Acme <Ltd>", QtySold: "2", Amount: "20"},
		{SRID: "SR2", CONo: "C2", NameCompany: "=cmd", QtySold: "1", Amount: "5", InvNo: "INV-9", VoucherNo: "V-1"},
	}
	return export.Data{
		Title:       "Acme: Q3 / [draft]",
		GeneratedAt: time.Date(2026, 10, 15, 15, 4, 0, 0, time.UTC),
		Records:     core.Merge(raw).Records(),
		IsAcknowledged: func(co, sr string) bool {
			return co == "C1" && sr == "SR1"
		},
	}
}

func TestExcel(t *testing.T) {
	out, err := export.Excel(sample())
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	if sheet != "Acme Q3  draft" {
		t.Errorf("sheet name = %q", sheet)
	}

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Acme: Q3 / [draft]"},
		{"A4", "SR ID"},
		{"J4", "Status"},
		{"A5", "SR1"},
		{"D5", "12"},
		{"F5", "1020.5"},
		{"H5", "-"},
		{"J5", "Waiting for Invoice"},
		{"B6", "'=cmd"},
		{"J6", "Completed"},
		{"A8", "Found 2 results:"},
	}
	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := f.GetCellValue(sheet, tt.cell)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}
}

func TestExcel_Empty(t *testing.T) {
	out, err := export.Excel(export.Data{})
	if err != nil {
		t.Fatalf("Excel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := f.GetSheetList()[0]; got != "Consignments" {
		t.Errorf("sheet name = %q", got)
	}
}

func TestPage(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Page(sample()).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"<title>Acme: Q3 / [draft]</title>",
		"Acme &lt;Ltd&gt;",
		`<td class="num">1,020.50</td>`,
		"Waiting for Invoice",
		"CO Number C1 : 12 pcs, Total Amount 1,020.50 reported sold.",
		"CO Number C2 : 1 pc, Total Amount 5.00 reported sold.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(html, "<Ltd>") {
		t.Error("company name not escaped")
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 15, 15, 4, 0, 0, time.UTC)
	if got := export.FileName(at, "xlsx"); got != "consignments-20261015-1504.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}
