// Package cli wires the tracker's cobra command tree.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moonandjupiter/consign-tracker/internal/adapters/repl"
	"github.com/moonandjupiter/consign-tracker/internal/app"
	"github.com/moonandjupiter/consign-tracker/internal/config"
	"github.com/moonandjupiter/consign-tracker/internal/export"
	"github.com/moonandjupiter/consign-tracker/internal/session"
	"github.com/moonandjupiter/consign-tracker/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// OpenFunc builds the application service for a loaded configuration. The
// returned function releases the record source.
type OpenFunc func(ctx context.Context, cfg *config.Config, log *logrus.Logger) (app.ApplicationService, func(), error)

// OpenService is the default OpenFunc: it opens the configured record source.
func OpenService(ctx context.Context, cfg *config.Config, log *logrus.Logger) (app.ApplicationService, func(), error) {
	src, closeFn, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	return app.NewAppService(src, log), closeFn, nil
}

// runtime is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type runtime struct {
	open    OpenFunc
	cfgPath string
	verbose bool

	svc     app.ApplicationService
	closeFn func()
}

// NewRootCommand returns the tracker command tree. open may be nil to use OpenService.
func NewRootCommand(open OpenFunc) *cobra.Command {
	if open == nil {
		open = OpenService
	}
	rt := &runtime{open: open}

	root := &cobra.Command{
		Use:   "tracker",
		Short: "Consignment tracker - search sales reports and follow their invoice and voucher progress",
		Long: `tracker loads consignment sales records from the configured source, merges
the rows of each sales report and lets you search, sort, page and export them.

Example Usage:
  tracker search CO-1042               # Show the reports of one order
  tracker suggest 104                  # Suggest matching orders
  tracker export CO-1042 -f xlsx       # Export the results
  tracker repl                         # Interactive dashboard
  tracker verify                       # Check the record source`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.closeFn != nil {
				rt.closeFn()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&rt.cfgPath, "config", "", "Path to the configuration file (default $TRACKER_CONFIG or tracker.yaml)")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newSearchCommand(rt),
		newSuggestCommand(rt),
		newExportCommand(rt),
		newReplCommand(rt),
		newVerifyCommand(rt),
	)
	return root
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	if !cmd.HasParent() {
		return nil
	}
	path := rt.cfgPath
	if path == "" {
		path = os.Getenv("TRACKER_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if rt.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	svc, closeFn, err := rt.open(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("open record source: %w", err)
	}
	rt.svc, rt.closeFn = svc, closeFn
	return nil
}

// dashboard opens a dashboard with its own search store and loads it.
func (rt *runtime) dashboard(ctx context.Context) (*app.Dashboard, error) {
	d := rt.svc.OpenDashboard(&session.MemorySearchStore{})
	if _, err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// ── search ────────────────────────────────────────────────────────────────────

func newSearchCommand(rt *runtime) *cobra.Command {
	var (
		sortBy string
		desc   bool
		page   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search sales reports by SR ID, C.O. number or invoice number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			vm, err := d.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if sortBy != "" {
				if vm, err = d.Sort(sortBy); err != nil {
					return err
				}
				if desc {
					vm, _ = d.Sort(sortBy)
				}
			}
			if page > 1 {
				vm = d.GoToPage(page)
			}
			if asJSON {
				return writeJSON(cmd, vm)
			}
			repl.PrintView(cmd.OutOrStdout(), vm)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "Sort by column")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the view model as JSON")
	return cmd
}

// ── suggest ───────────────────────────────────────────────────────────────────

func newSuggestCommand(rt *runtime) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "suggest <term>",
		Short: "Suggest orders matching a partial SR ID, C.O. number or invoice number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			page, err := d.Suggest(strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			repl.PrintSuggestions(out, page)
			if !all {
				return nil
			}
			for {
				next, ok, err := d.MoreSuggestions()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				repl.PrintSuggestions(out, next)
			}
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Print every suggestion instead of the first batch")
	return cmd
}

// ── export ────────────────────────────────────────────────────────────────────

func newExportCommand(rt *runtime) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <term>",
		Short: "Export the search results as XLSX or HTML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "xlsx" && format != "html" {
				return fmt.Errorf("unknown format %q (want xlsx or html)", format)
			}
			d, err := rt.dashboard(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := d.Search(strings.Join(args, " ")); err != nil {
				return err
			}
			records, title := d.ExportRows()
			if len(records) == 0 {
				return fmt.Errorf("no results for %q", strings.Join(args, " "))
			}
			data := export.Data{
				Title:          title,
				GeneratedAt:    time.Now(),
				Records:        records,
				IsAcknowledged: d.IsAcknowledged,
			}

			var content []byte
			if format == "xlsx" {
				if content, err = export.Excel(data); err != nil {
					return err
				}
			} else {
				var b strings.Builder
				if err := export.Page(data).Render(cmd.Context(), &b); err != nil {
					return err
				}
				content = []byte(b.String())
			}

			if out == "" {
				out = export.FileName(data.GeneratedAt, format)
			}
			if err := os.WriteFile(out, content, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			abs, _ := filepath.Abs(out)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reports to %s\n", len(records), abs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "Export format: xlsx or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default consignments-<timestamp>.<format>)")
	return cmd
}

// ── repl ──────────────────────────────────────────────────────────────────────

func newReplCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := rt.svc.OpenDashboard(&session.MemorySearchStore{})
			return repl.Run(cmd.Context(), d, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}
}

// ── verify ────────────────────────────────────────────────────────────────────

func newVerifyCommand(rt *runtime) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Fetch and merge the records once and report data-quality counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.Verify(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, res)
			}
			repl.PrintVerify(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
