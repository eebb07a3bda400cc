package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/courtrank/league-data/internal/api/respond"
	"github.com/courtrank/league-data/internal/store"
)

type createPlayerRequest struct {
	Name string `json:"name"`
}

// ListPlayers returns every league member.
// @Summary List players
// @Tags players
// @Produce json
// @Success 200 {array} store.Player
// @Router /players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.ListPlayers(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not list players")
		return
	}
	if players == nil {
		players = []store.Player{}
	}
	respond.WriteJSONObject(w, http.StatusOK, players)
}

// CreatePlayer registers a new league member.
// @Summary Create player
// @Tags players
// @Accept json
// @Produce json
// @Param player body createPlayerRequest true "Player"
// @Success 201 {object} store.Player
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /players [post]
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "name is required")
		return
	}

	p, err := h.store.CreatePlayer(r.Context(), req.Name)
	if errors.Is(err, store.ErrDuplicateName) {
		respond.WriteError(w, http.StatusConflict, "DUPLICATE_NAME", "A player with that name already exists")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not create player")
		return
	}

	h.inv.OnMutation()
	respond.WriteJSONObject(w, http.StatusCreated, p)
}

// GetPlayer returns one player.
// @Summary Get player
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} store.Player
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.store.GetPlayer(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Player not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not load player")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, p)
}

// DeletePlayer removes a player and, by cascade, every match they played.
// @Summary Delete player
// @Description Removes the player and strikes all their matches from the log.
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 204 "deleted"
// @Failure 404 {object} respond.ErrorResponse
// @Router /players/{id} [delete]
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	err := h.store.DeletePlayer(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Player not found")
		return
	}
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILED", "Could not delete player")
		return
	}

	h.inv.OnMutation()
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ID", "ID must be an integer")
		return 0, false
	}
	return id, true
}
