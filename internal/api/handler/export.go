package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtrank/league-data/internal/api/respond"
	"github.com/courtrank/league-data/internal/export"
	"github.com/courtrank/league-data/internal/ranking"
)

// ExportXLSX streams a full Excel backup of the league.
// @Summary Export Excel backup
// @Description Streams an .xlsx workbook with Players, Seasons, Matches, and a Rankings sheet for the requested scope (default lifetime).
// @Tags export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param scope query string false "Ranking scope for the Rankings sheet" default(lifetime)
// @Success 200 {file} binary
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /export/xlsx [get]
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	selector := r.URL.Query().Get("scope")
	if selector == "" {
		selector = "lifetime"
	}
	scope, err := ranking.ParseScope(selector)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SCOPE", err.Error())
		return
	}

	f, err := export.Workbook(r.Context(), h.store, h.cfg, scope)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Could not build workbook")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("league-backup-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		// Headers are gone; nothing useful left to send.
		return
	}
}
