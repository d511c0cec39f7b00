package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moonandjupiter/consign-tracker/internal/adapters/cli"
	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/sirupsen/logrus"
)

type fakeSource struct{ records []core.RawRecord }

func (f *fakeSource) Fetch(context.Context) ([]core.RawRecord, error) { return f.records, nil }
func (f *fakeSource) Name() string                                    { return "fake" }

func records() []core.RawRecord {
	var out []core.RawRecord
	for i, co := range []string{"CO-101", "CO-102", "CO-103", "CO-104", "CO-105", "CO-106"} {
		out = append(out, core.RawRecord{
			SRID: core.Text("SR" + co[3:]), CONo: core.Text(co), NameCompany: "Acme",
			QtySold: core.Text(strings.Repeat("1", i+1)), Amount: "2",
		})
	}
	return out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TRACKER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	closed := false
	open := func(ctx context.Context, cfg *config.Config, log *logrus.Logger) (app.ApplicationService, func(), error) {
		if cfg.Source.Kind != config.SourceHTTP {
			t.Errorf("source kind = %q", cfg.Source.Kind)
		}
		return app.NewAppService(&fakeSource{records: records()}, log), func() { closed = true }, nil
	}

	root := cli.NewRootCommand(open)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader("search co-104\nexit\n"))
	root.SetArgs(args)
	err := root.Execute()
	if err == nil && !closed {
		t.Error("record source not closed")
	}
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := execute(t, "search", "co-10", "--sort", "qty_sold", "--desc")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Found 6 results:") || !strings.Contains(out, "Page 1 of 2") {
		t.Errorf("output:\n%s", out)
	}
	if strings.Index(out, "SR106") > strings.Index(out, "SR105") {
		t.Errorf("descending qty order wrong:\n%s", out)
	}
}

func TestSearchCommand_JSON(t *testing.T) {
	out, err := execute(t, "search", "co-10", "--page", "2", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var vm app.ViewModel
	if err := json.Unmarshal([]byte(out), &vm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if vm.Table.Number != 2 || len(vm.Table.Items) != 1 || vm.Table.Items[0].SRID != "SR106" {
		t.Errorf("page 2 = %+v", vm.Table)
	}
}

func TestSuggestCommand(t *testing.T) {
	out, err := execute(t, "suggest", "co-1", "--all")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "Acme – CO-10") != 6 {
		t.Errorf("expected every suggestion:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"xlsx", "html"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "out."+format)
			out, err := execute(t, "export", "co-101", "-f", format, "-o", path)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "Exported 1 reports") {
				t.Errorf("output = %q", out)
			}
			if info, err := os.Stat(path); err != nil || info.Size() == 0 {
				t.Errorf("export file: %v", err)
			}
		})
	}

	if _, err := execute(t, "export", "nothing-matches"); err == nil {
		t.Error("empty export accepted")
	}
	if _, err := execute(t, "export", "co-101", "-f", "pdf"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestVerifyCommand(t *testing.T) {
	out, err := execute(t, "verify", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var res app.VerifyResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatal(err)
	}
	if res.RawCount != 6 || res.Merged != 6 || res.Orders != 6 || res.ByState["awaiting_invoice"] != 6 {
		t.Errorf("verify = %+v", res)
	}
}

func TestReplCommand(t *testing.T) {
	out, err := execute(t, "repl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Found 1 result:") || !strings.Contains(out, "Goodbye!") {
		t.Errorf("repl output:\n%s", out)
	}
}
