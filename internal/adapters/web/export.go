package web

import (
	"bytes"
	"net/http"

	"github.com/moonandjupiter/consign-tracker/internal/export"
)

// exportData snapshots the session's filtered view. It writes 409 and returns
// false when there is nothing to export.
func (h *Handler) exportData(w http.ResponseWriter, r *http.Request) (export.Data, bool) {
	d := h.session(w, r).Dashboard
	records, title := d.ExportRows()
	if len(records) == 0 {
		writeError(w, r, "no search results to export", "NOTHING_TO_EXPORT", http.StatusConflict)
		return export.Data{}, false
	}
	return export.Data{
		Title:          title,
		GeneratedAt:    h.now(),
		Records:        records,
		IsAcknowledged: d.IsAcknowledged,
	}, true
}

// exportXLSX handles GET /api/export/xlsx.
func (h *Handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	out, err := export.Excel(data)
	if err != nil {
		h.log.WithError(err).Error("xlsx export failed")
		writeError(w, r, "export failed", "EXPORT_FAILED", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(data.GeneratedAt, "xlsx")+`"`)
	_, _ = w.Write(out)
}

// exportHTML handles GET /api/export/html.
func (h *Handler) exportHTML(w http.ResponseWriter, r *http.Request) {
	data, ok := h.exportData(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.Page(data).Render(r.Context(), &buf); err != nil {
		h.log.WithError(err).Error("html export failed")
		writeError(w, r, "export failed", "EXPORT_FAILED", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="`+export.FileName(data.GeneratedAt, "html")+`"`)
	_, _ = w.Write(buf.Bytes())
}
