package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/courtrank/league-data/internal/api/respond"
	"github.com/courtrank/league-data/internal/cache"
	"github.com/courtrank/league-data/internal/ranking"
)

// GetLifetimeRankings returns the all-time ranking table.
// @Summary Lifetime rankings
// @Description Returns the ranking table over every match on record. Rank is implicit in array order.
// @Tags rankings
// @Produce json
// @Success 200 {array} ranking.Row
// @Router /rankings/lifetime [get]
func (h *Handler) GetLifetimeRankings(w http.ResponseWriter, r *http.Request) {
	h.serveRankings(w, r, ranking.Lifetime())
}

// GetSeasonRankings returns one season's ranking table.
// @Summary Season rankings
// @Description Returns the ranking table for a single season. An unknown season id yields an empty table.
// @Tags rankings
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {array} ranking.Row
// @Failure 400 {object} respond.ErrorResponse
// @Router /rankings/season/{id} [get]
func (h *Handler) GetSeasonRankings(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "Season id must be an integer")
		return
	}
	h.serveRankings(w, r, ranking.ForSeason(id))
}

// GetDateRankings returns the ranking table for one play date.
// @Summary Daily rankings
// @Description Returns the ranking table for a single play date (YYYY-MM-DD). A date with no matches yields an empty table.
// @Tags rankings
// @Produce json
// @Param date path string true "Play date (YYYY-MM-DD)"
// @Success 200 {array} ranking.Row
// @Failure 400 {object} respond.ErrorResponse
// @Router /rankings/date/{date} [get]
func (h *Handler) GetDateRankings(w http.ResponseWriter, r *http.Request) {
	day, err := ranking.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return
	}
	h.serveRankings(w, r, ranking.ForDate(day))
}

// serveRankings is the cache-first read path shared by all ranking scopes.
// On miss the table is recomputed from the store and cached with the
// scope's TTL; the X-Cache header tells the two apart.
func (h *Handler) serveRankings(w http.ResponseWriter, r *http.Request, scope ranking.Scope) {
	key := scope.CacheKey()
	ttl := scope.TTL(h.cfg)

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	rows, err := ranking.Compute(r.Context(), h.src, scope, ranking.OptionsFromConfig(h.cfg))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "AGGREGATION_FAILED",
			"Could not compute rankings")
		return
	}

	data, err := json.Marshal(rows)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODING_FAILED",
			"Could not encode rankings")
		return
	}

	etag := h.cache.Set(key, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
