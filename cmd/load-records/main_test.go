package main

import (
	"strings"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/core"
)

func TestAssignIDs(t *testing.T) {
	records := []core.RawRecord{{ID: "keep"}, {ID: "  "}, {}}
	if n := assignIDs(records); n != 2 {
		t.Fatalf("assigned = %d, want 2", n)
	}
	if records[0].ID != "keep" {
		t.Errorf("existing id replaced: %q", records[0].ID)
	}
	if records[1].ID == "" || records[1].ID == records[2].ID {
		t.Errorf("generated ids = %q, %q", records[1].ID, records[2].ID)
	}
}

func TestUpsertSQL(t *testing.T) {
	got := upsertSQL("public.consign_records")
	for _, want := range []string{
		`INSERT INTO "public"."consign_records" ("_id", "sr_id"`,
		`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		`ON CONFLICT ("_id") DO UPDATE SET "sr_id" = EXCLUDED."sr_id"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("upsertSQL missing %q\n%s", want, got)
		}
	}
	if strings.Contains(got, `"_id" = EXCLUDED`) {
		t.Error("primary key must not be updated")
	}
}
