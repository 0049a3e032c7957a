package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// handleListClans returns all clans with their member counts.
// GET /api/clans
func (r *Router) handleListClans(w http.ResponseWriter, req *http.Request) {
	clans, err := r.store.ListClans(req.Context())
	if err != nil {
		log.Printf("Error listing clans: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list clans")
		return
	}
	writeJSON(w, http.StatusOK, clans)
}

type createClanRequest struct {
	Name        string `json:"name"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// handleCreateClan registers a new clan.
// POST /api/clans
func (r *Router) handleCreateClan(w http.ResponseWriter, req *http.Request) {
	var body createClanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Tag = strings.TrimSpace(body.Tag)
	if body.Name == "" || body.Tag == "" {
		writeError(w, http.StatusBadRequest, "name and tag are required")
		return
	}
	if err := validateColor(body.Color); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	clan := &domain.Clan{
		Name:        body.Name,
		Tag:         body.Tag,
		Description: strings.TrimSpace(body.Description),
		Color:       body.Color,
	}
	if err := r.store.CreateClan(req.Context(), clan); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			writeError(w, http.StatusConflict, "a clan with that name or tag already exists")
			return
		}
		log.Printf("Error creating clan: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create clan")
		return
	}
	writeJSON(w, http.StatusCreated, clan)
}

// handleGetClan returns one clan with its member list.
// GET /api/clans/{id}
func (r *Router) handleGetClan(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := r.store.GetClanDetail(req.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "clan not found")
			return
		}
		log.Printf("Error getting clan %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to get clan")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateClanRequest struct {
	Name        *string `json:"name"`
	Tag         *string `json:"tag"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// handleUpdateClan applies a partial update to a clan.
// PATCH /api/clans/{id}
func (r *Router) handleUpdateClan(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body updateClanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Name == nil && body.Tag == nil && body.Description == nil && body.Color == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if body.Tag != nil && strings.TrimSpace(*body.Tag) == "" {
		writeError(w, http.StatusBadRequest, "tag cannot be empty")
		return
	}
	if body.Color != nil {
		// validateColor treats "" as not-provided; an explicit empty color on a
		// PATCH would otherwise wipe the stored value.
		if *body.Color == "" {
			writeError(w, http.StatusBadRequest, "color cannot be empty")
			return
		}
		if err := validateColor(*body.Color); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	clan, err := r.store.UpdateClan(req.Context(), id, storage.ClanUpdate{
		Name:        body.Name,
		Tag:         body.Tag,
		Description: body.Description,
		Color:       body.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "clan not found")
		case errors.Is(err, storage.ErrConflict):
			writeError(w, http.StatusConflict, "a clan with that name or tag already exists")
		default:
			log.Printf("Error updating clan %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to update clan")
		}
		return
	}
	writeJSON(w, http.StatusOK, clan)
}

// handleDeleteClan removes a clan, detaching its members.
// DELETE /api/clans/{id}
func (r *Router) handleDeleteClan(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.store.DeleteClan(req.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "clan not found")
			return
		}
		log.Printf("Error deleting clan %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete clan")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
