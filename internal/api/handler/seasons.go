package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/courtrank/league-data/internal/api/respond"
	"github.com/courtrank/league-data/internal/ranking"
	"github.com/courtrank/league-data/internal/store"
)

type seasonRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"` // default: today
	EndDate   string `json:"end_date,omitempty"`   // set to create an already-ended season
	LossFee   *int64 `json:"loss_fee,omitempty"`
}

type endSeasonRequest struct {
	EndDate string `json:"end_date,omitempty"` // default: today
}

type rosterRequest struct {
	PlayerIDs []int64 `json:"player_ids"`
}

// ListSeasons returns all seasons, newest first.
// @Summary List seasons
// @Tags seasons
// @Produce json
// @Success 200 {array} store.Season
// @Router /seasons [get]
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.store.ListSeasons(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not list seasons")
		return
	}
	if seasons == nil {
		seasons = []store.Season{}
	}
	respond.WriteJSONObject(w, http.StatusOK, seasons)
}

// CreateSeason opens a new season. Created active unless end_date is given.
// @Summary Create season
// @Tags seasons
// @Accept json
// @Produce json
// @Param season body seasonRequest true "Season"
// @Success 201 {object} store.Season
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /seasons [post]
func (h *Handler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}

	params := store.CreateSeasonParams{Name: req.Name, Active: true, LossFee: req.LossFee}

	params.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		day, err := ranking.ParseDate(req.StartDate)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
			return
		}
		params.StartDate = day
	}
	if req.EndDate != "" {
		day, err := ranking.ParseDate(req.EndDate)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
			return
		}
		params.EndDate = &day
		params.Active = false
	}

	season, err := h.store.CreateSeason(r.Context(), params)
	if errors.Is(err, store.ErrActiveSeasonExists) {
		respond.WriteError(w, http.StatusConflict, "SEASON_ACTIVE",
			"Another season is already active; end it first")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not create season")
		return
	}

	h.inv.OnMutation()
	respond.WriteJSONObject(w, http.StatusCreated, season)
}

// GetSeason returns one season.
// @Summary Get season
// @Tags seasons
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {object} store.Season
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{id} [get]
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	season, err := h.store.GetSeason(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not load season")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, season)
}

// EndSeason closes a season.
// @Summary End season
// @Tags seasons
// @Accept json
// @Produce json
// @Param id path int true "Season ID"
// @Param body body endSeasonRequest false "End date"
// @Success 204 "ended"
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{id}/end [post]
func (h *Handler) EndSeason(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	var req endSeasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.EndDate != "" {
		day, err := ranking.ParseDate(req.EndDate)
		if err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_DATE", err.Error())
			return
		}
		endDate = day
	}

	err := h.store.EndSeason(r.Context(), id, endDate)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not end season")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}

// ReactivateSeason reopens an ended season.
// @Summary Reactivate season
// @Tags seasons
// @Produce json
// @Param id path int true "Season ID"
// @Success 204 "reactivated"
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /seasons/{id}/reactivate [post]
func (h *Handler) ReactivateSeason(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	err := h.store.ReactivateSeason(r.Context(), id)
	if errors.Is(err, store.ErrActiveSeasonExists) {
		respond.WriteError(w, http.StatusConflict, "SEASON_ACTIVE",
			"Another season is already active; end it first")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not reactivate season")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSeason removes an inactive season and its matches.
// @Summary Delete season
// @Description Deletes an ended season. Active seasons must be ended first.
// @Tags seasons
// @Produce json
// @Param id path int true "Season ID"
// @Success 204 "deleted"
// @Failure 404 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /seasons/{id} [delete]
func (h *Handler) DeleteSeason(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteSeason(r.Context(), id)
	if errors.Is(err, store.ErrSeasonActive) {
		respond.WriteError(w, http.StatusConflict, "SEASON_ACTIVE", "End the season before deleting it")
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not delete season")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}

// GetSeasonRoster returns a season's explicit roster (empty = open season).
// @Summary Get season roster
// @Tags seasons
// @Produce json
// @Param id path int true "Season ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{id}/roster [get]
func (h *Handler) GetSeasonRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.store.GetSeason(r.Context(), id); errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	ids, err := h.store.SeasonRoster(r.Context(), id)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not load roster")
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"season_id":  id,
		"player_ids": ids,
	})
}

// SetSeasonRoster replaces a season's roster.
// @Summary Replace season roster
// @Tags seasons
// @Accept json
// @Produce json
// @Param id path int true "Season ID"
// @Param roster body rosterRequest true "Roster"
// @Success 204 "updated"
// @Failure 404 {object} respond.ErrorResponse
// @Router /seasons/{id}/roster [put]
func (h *Handler) SetSeasonRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	err := h.store.SetSeasonRoster(r.Context(), id, req.PlayerIDs)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Season not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not update roster")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}
