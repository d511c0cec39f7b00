package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/moonandjupiter/consign-tracker/internal/core"
	"github.com/sirupsen/logrus"
)

// Dashboard is the single owner of one session's pipeline state. Every action
// runs to completion under the dashboard lock and recomputes the derived views;
// Load holds the lock for the whole fetch, so no action observes a half-loaded
// record set.
type Dashboard struct {
	mu sync.Mutex

	svc   *appService
	store SearchStore
	log   *logrus.Entry

	raw     []core.RawRecord
	loaded  bool
	loadErr error

	query    string
	merged   *core.MergeResult
	filtered []core.MergedRecord
	sort     core.SortState
	page     int

	acks        *core.AcknowledgmentTracker
	suggestions *core.SuggestionPager
}

func newDashboard(svc *appService, store SearchStore) *Dashboard {
	return &Dashboard{
		svc:   svc,
		store: store,
		log:   logrus.NewEntry(svc.log),
		page:  1,
		acks:  core.NewAcknowledgmentTracker(),
	}
}

// WithLogFields attaches fields (e.g. the session ID) to every log line of the dashboard.
func (d *Dashboard) WithLogFields(fields logrus.Fields) *Dashboard {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.log = d.log.WithFields(fields)
	return d
}

// ── Loading ───────────────────────────────────────────────────────────────────

// Load fetches the raw records and re-runs the last stored search, if any.
// On failure the dashboard drops every result and reports ViewLoadError; the
// error is returned as well. Acknowledgments survive a reload.
func (d *Dashboard) Load(ctx context.Context) (ViewModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	raw, err := d.svc.FetchRecords(ctx)
	if err != nil {
		d.raw, d.loaded, d.loadErr = nil, false, err
		d.resetResults()
		return d.view(), err
	}
	d.raw, d.loaded, d.loadErr = raw, true, nil

	if last := d.store.LastSearchTerm(); last != "" {
		d.log.WithField("term", last).Debug("restoring last search")
		d.search(last)
	} else {
		d.resetResults()
	}
	return d.view(), nil
}

// Loaded reports whether records are available.
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// ── Search ────────────────────────────────────────────────────────────────────

// Search re-merges the raw records and filters them to every order matching
// term. The normalized term is stored for the session; an empty term clears it.
func (d *Dashboard) Search(term string) (ViewModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return d.view(), ErrNotLoaded
	}
	d.search(term)
	return d.view(), nil
}

// SelectSuggestion searches by the order number a suggestion carries.
func (d *Dashboard) SelectSuggestion(value string) (ViewModel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return d.view(), ErrNotLoaded
	}
	d.suggestions = nil
	d.search(value)
	return d.view(), nil
}

// Clear drops the search term and every derived view.
func (d *Dashboard) Clear() ViewModel {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store.ClearLastSearchTerm()
	d.suggestions = nil
	d.resetResults()
	return d.view()
}

func (d *Dashboard) search(term string) {
	q := core.NormalizeQuery(term)
	if q == "" {
		d.store.ClearLastSearchTerm()
		d.resetResults()
		return
	}
	d.store.SetLastSearchTerm(q)

	d.query = q
	d.merged = core.Merge(d.raw)
	d.filtered = core.Search(q, d.merged.Records())
	d.sort = core.SortState{}
	d.page = 1

	entry := d.log.WithFields(logrus.Fields{"term": q, "results": len(d.filtered)})
	if n := d.merged.Malformed(); n > 0 {
		entry = entry.WithField("malformed_fields", n)
	}
	entry.Info("search")
}

func (d *Dashboard) resetResults() {
	d.query = ""
	d.merged = nil
	d.filtered = nil
	d.sort = core.SortState{}
	d.page = 1
}

// ── Sorting and paging ────────────────────────────────────────────────────────

// Sort sorts the filtered view by column, toggling the direction when the column
// is already active, and returns to page 1. With no rows it changes nothing.
func (d *Dashboard) Sort(column string) (ViewModel, error) {
	col, err := core.ParseColumn(column)
	if err != nil {
		return d.View(), err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.filtered) == 0 {
		return d.view(), nil
	}
	d.sort = d.sort.Toggle(col)
	core.SortRecords(d.filtered, d.sort)
	d.page = 1
	return d.view(), nil
}

// GoToPage shows page n, clamped to the available pages.
func (d *Dashboard) GoToPage(n int) ViewModel {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = core.ClampPage(n, core.TotalPages(len(d.filtered), core.PageSize))
	return d.view()
}

// NextPage advances one page unless already on the last one.
func (d *Dashboard) NextPage() ViewModel {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = core.ClampPage(d.page+1, core.TotalPages(len(d.filtered), core.PageSize))
	return d.view()
}

// PrevPage goes back one page unless already on the first one.
func (d *Dashboard) PrevPage() ViewModel {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.page = core.ClampPage(d.page-1, core.TotalPages(len(d.filtered), core.PageSize))
	return d.view()
}

// ── Suggestions ───────────────────────────────────────────────────────────────

// Suggest computes order suggestions for a partially typed term and returns the
// first batch. Terms shorter than three characters yield an empty batch.
func (d *Dashboard) Suggest(term string) (core.SuggestionPage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return core.SuggestionPage{}, ErrNotLoaded
	}
	all := core.MatchSuggestions(term, d.raw)
	d.suggestions = core.NewSuggestionPager(all, d.svc.newShuffler())
	return d.suggestions.First(), nil
}

// MoreSuggestions returns the next batch of the last Suggest call. The second
// result is false once every candidate has been shown.
func (d *Dashboard) MoreSuggestions() (core.SuggestionPage, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.suggestions == nil {
		return core.SuggestionPage{}, false, ErrNoSuggestions
	}
	page, ok := d.suggestions.More()
	return page, ok, nil
}

// ── Details and acknowledgment ────────────────────────────────────────────────

// Details returns the acknowledgment slip of one report from the last search.
func (d *Dashboard) Details(orderNumber, reportID string) (DetailsView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, err := d.lookup(orderNumber, reportID)
	if err != nil {
		return DetailsView{}, err
	}
	return newDetailsView(m, d.acks.IsAcknowledged(m.CONo, m.SRID)), nil
}

// Confirm acknowledges an awaiting-invoice report once the terms are accepted,
// unlocking its slip for printing. Confirming an acknowledged report again
// returns the same slip.
func (d *Dashboard) Confirm(orderNumber, reportID string, termsAccepted bool) (DetailsView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, err := d.lookup(orderNumber, reportID)
	if err != nil {
		return DetailsView{}, err
	}
	if m.Status() != core.AwaitingInvoice {
		return DetailsView{}, fmt.Errorf("%w: %s/%s is %s", ErrNotAwaitingInvoice, m.CONo, m.SRID, m.Status())
	}
	if !termsAccepted {
		return DetailsView{}, ErrTermsNotAccepted
	}
	if d.acks.Acknowledge(m.CONo, m.SRID) {
		d.log.WithFields(logrus.Fields{"co_no": m.CONo, "sr_id": m.SRID}).Info("report acknowledged")
	}
	return newDetailsView(m, true), nil
}

// IsAcknowledged reports whether the report was confirmed in this session.
func (d *Dashboard) IsAcknowledged(orderNumber, reportID string) bool {
	return d.acks.IsAcknowledged(orderNumber, reportID)
}

func (d *Dashboard) lookup(orderNumber, reportID string) (core.MergedRecord, error) {
	if d.merged != nil {
		if m, ok := d.merged.Get(core.MergeKey{SRID: reportID, CONo: orderNumber}); ok {
			return m, nil
		}
	}
	return core.MergedRecord{}, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, orderNumber, reportID)
}

// ── Views ─────────────────────────────────────────────────────────────────────

// View returns the current view model.
func (d *Dashboard) View() ViewModel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view()
}

// ExportRows returns a copy of the filtered view in its current order.
func (d *Dashboard) ExportRows() ([]core.MergedRecord, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.filtered), core.DashboardTitle(d.filtered)
}

func (d *Dashboard) view() ViewModel {
	v := ViewModel{
		Query:  d.query,
		Sort:   d.sort,
		Loaded: len(d.raw),
	}

	rows := make([]RowView, len(d.filtered))
	for i, m := range d.filtered {
		rows[i] = newRowView(m, d.acks.IsAcknowledged(m.CONo, m.SRID))
	}
	v.Table = core.Paginate(rows, d.page)

	switch {
	case d.loadErr != nil:
		v.State = ViewLoadError
		v.Empty = textLoadError
		v.Message = &Message{Kind: MessageError, Text: textLoadErrorMsg + d.loadErr.Error()}
	case d.query == "":
		v.State = ViewIdle
		v.Empty = textPrompt
	case len(d.filtered) == 0:
		v.State = ViewNoResults
		v.Empty = textNoData
		v.Message = &Message{Kind: MessageInfo, Text: textNoMatches}
	default:
		v.State = ViewResults
		v.CanExport = true
		v.Summary = newSummaryView(d.filtered)
		v.Dashboard = d.dashboardView()
	}
	return v
}

// dashboardView builds progress cards ordered by report ID. It sorts a copy so
// the table keeps the user's chosen order.
func (d *Dashboard) dashboardView() *DashboardView {
	records := slices.Clone(d.filtered)
	core.SortByReport(records)

	dv := &DashboardView{Title: core.DashboardTitle(records)}
	for _, m := range records {
		dv.Reports = append(dv.Reports, ReportProgress{
			SRID:   orNA(m.SRID),
			CONo:   orNA(m.CONo),
			Status: core.PresentStatus(m.Status(), d.acks.IsAcknowledged(m.CONo, m.SRID)),
		})
	}
	return dv
}
