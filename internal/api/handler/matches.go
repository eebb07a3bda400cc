package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/courtrank/league-data/internal/api/respond"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

// matchRequest is the write shape for matches. Teams are player id lists of
// one or two entries; solo variants use a single id per side. season_id
// defaults to the active season.
type matchRequest struct {
	SeasonID   *int64  `json:"season_id,omitempty"`
	PlayedOn   string  `json:"played_on"`
	Team1      []int64 `json:"team1"`
	Team2      []int64 `json:"team2"`
	Score1     int     `json:"score1"`
	Score2     int     `json:"score2"`
	WinnerTeam int     `json:"winner_team"`
}

func (h *Handler) matchParams(w http.ResponseWriter, r *http.Request, req *matchRequest) (store.MatchParams, bool) {
	var params store.MatchParams

	if len(req.Team1) == 0 || len(req.Team1) > 2 || len(req.Team2) == 0 || len(req.Team2) > 2 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAMS",
			"Each team needs one or two player ids")
		return params, false
	}
	if req.WinnerTeam != 1 && req.WinnerTeam != 2 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_WINNER", "winner_team must be 1 or 2")
		return params, false
	}

	day, err := ranking.ParseDate(req.PlayedOn)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
		return params, false
	}
	params.PlayedOn = day

	if req.SeasonID != nil {
		if _, err := h.store.GetSeason(r.Context(), *req.SeasonID); errors.Is(err, store.ErrNotFound) {
			respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_SEASON", "season_id does not exist")
			return params, false
		}
		params.SeasonID = *req.SeasonID
	} else {
		season, err := h.store.ActiveSeason(r.Context())
		if errors.Is(err, store.ErrNoActiveSeason) {
			respond.WriteError(w, http.StatusBadRequest, "NO_ACTIVE_SEASON",
				"No active season; pass season_id or open a season first")
			return params, false
		}
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not resolve season")
			return params, false
		}
		params.SeasonID = season.ID
	}

	params.Team1A = &req.Team1[0]
	if len(req.Team1) == 2 {
		params.Team1B = &req.Team1[1]
	}
	params.Team2A = &req.Team2[0]
	if len(req.Team2) == 2 {
		params.Team2B = &req.Team2[1]
	}
	params.Score1 = req.Score1
	params.Score2 = req.Score2
	params.WinnerTeam = req.WinnerTeam
	return params, true
}

// ListMatches returns matches within a scope selector (default lifetime).
// @Summary List matches
// @Description Returns matches in chronological order. Filter with ?scope=season/3 or ?scope=date/2026-08-30.
// @Tags matches
// @Produce json
// @Param scope query string false "Scope selector" default(lifetime)
// @Success 200 {array} store.Match
// @Failure 400 {object} respond.ErrorResponse
// @Router /matches [get]
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	selector := r.URL.Query().Get("scope")
	if selector == "" {
		selector = "lifetime"
	}
	scope, err := ranking.ParseScope(selector)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SCOPE", err.Error())
		return
	}

	matches, err := h.src.MatchesInScope(r.Context(), scope)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not list matches")
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}
	respond.WriteJSONObject(w, http.StatusOK, matches)
}

// CreateMatch records a match result.
// @Summary Record match
// @Tags matches
// @Accept json
// @Produce json
// @Param match body matchRequest true "Match"
// @Success 201 {object} store.Match
// @Failure 400 {object} respond.ErrorResponse
// @Router /matches [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	params, ok := h.matchParams(w, r, &req)
	if !ok {
		return
	}

	m, err := h.store.CreateMatch(r.Context(), params)
	if errors.Is(err, store.ErrDuplicatePlayers) {
		respond.WriteError(w, http.StatusBadRequest, "DUPLICATE_PLAYERS",
			"A player cannot appear in more than one slot")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not record match")
		return
	}

	h.inv.OnMutation()
	respond.WriteJSONObject(w, http.StatusCreated, m)
}

// GetMatch returns one match.
// @Summary Get match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} store.Match
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{id} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	m, err := h.store.GetMatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not load match")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, m)
}

// UpdateMatch rewrites a recorded match.
// @Summary Edit match
// @Tags matches
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param match body matchRequest true "Match"
// @Success 204 "updated"
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{id} [put]
func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	params, ok := h.matchParams(w, r, &req)
	if !ok {
		return
	}

	err := h.store.UpdateMatch(r.Context(), id, params)
	if errors.Is(err, store.ErrDuplicatePlayers) {
		respond.WriteError(w, http.StatusBadRequest, "DUPLICATE_PLAYERS",
			"A player cannot appear in more than one slot")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not update match")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMatch removes a match from the log.
// @Summary Delete match
// @Tags matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 204 "deleted"
// @Failure 404 {object} respond.ErrorResponse
// @Router /matches/{id} [delete]
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteMatch(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Match not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not delete match")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}
