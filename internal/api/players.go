package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// handleListPlayers returns players, optionally filtered by clan or name.
// GET /api/players?clan_id=&search=
func (r *Router) handleListPlayers(w http.ResponseWriter, req *http.Request) {
	var filter storage.PlayerFilter
	if raw := req.URL.Query().Get("clan_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid clan_id")
			return
		}
		filter.ClanID = &id
	}
	filter.Search = strings.TrimSpace(req.URL.Query().Get("search"))

	players, err := r.store.ListPlayers(req.Context(), filter)
	if err != nil {
		log.Printf("Error listing players: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// handleUnassignedPlayers returns players without a clan.
// GET /api/players/unassigned
func (r *Router) handleUnassignedPlayers(w http.ResponseWriter, req *http.Request) {
	players, err := r.store.ListPlayers(req.Context(), storage.PlayerFilter{Unassigned: true})
	if err != nil {
		log.Printf("Error listing unassigned players: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list players")
		return
	}
	writeJSON(w, http.StatusOK, players)
}

type createPlayerRequest struct {
	Name      string  `json:"name"`
	ClanID    *int64  `json:"clan_id"`
	DiscordID *string `json:"discord_id"`
}

// handleCreatePlayer registers a player manually.
// POST /api/players
func (r *Router) handleCreatePlayer(w http.ResponseWriter, req *http.Request) {
	var body createPlayerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	player := &domain.Player{
		Name:      body.Name,
		ClanID:    body.ClanID,
		DiscordID: body.DiscordID,
	}
	if err := r.store.CreatePlayer(req.Context(), player); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusBadRequest, "clan does not exist")
		case errors.Is(err, storage.ErrConflict):
			writeError(w, http.StatusConflict, "a player with that name already exists")
		default:
			log.Printf("Error creating player: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to create player")
		}
		return
	}
	writeJSON(w, http.StatusCreated, player)
}

type updatePlayerRequest struct {
	Name      *string `json:"name"`
	DiscordID *string `json:"discord_id"`
}

// handleUpdatePlayer applies a partial update to a player.
// PATCH /api/players/{id}
func (r *Router) handleUpdatePlayer(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body updatePlayerRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Name == nil && body.DiscordID == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}

	player, err := r.store.UpdatePlayer(req.Context(), id, storage.PlayerUpdate{
		Name:      body.Name,
		DiscordID: body.DiscordID,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, http.StatusNotFound, "player not found")
		case errors.Is(err, storage.ErrConflict):
			writeError(w, http.StatusConflict, "a player with that name already exists")
		default:
			log.Printf("Error updating player %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "failed to update player")
		}
		return
	}
	writeJSON(w, http.StatusOK, player)
}

// handleDeletePlayer removes a player record.
// DELETE /api/players/{id}
func (r *Router) handleDeletePlayer(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.store.DeletePlayer(req.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		log.Printf("Error deleting player %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete player")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type assignClanRequest struct {
	ClanID *int64 `json:"clan_id"`
}

// handleAssignPlayerToClan moves a player into a clan (or out with null).
// POST /api/players/{id}/clan
func (r *Router) handleAssignPlayerToClan(w http.ResponseWriter, req *http.Request) {
	id, err := parseID(req, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body assignClanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	player, err := r.store.UpdatePlayer(req.Context(), id, storage.PlayerUpdate{
		ClanID:  body.ClanID,
		SetClan: true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "player or clan not found")
			return
		}
		log.Printf("Error assigning player %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to assign player")
		return
	}
	writeJSON(w, http.StatusOK, player)
}

type assignPlayersRequest struct {
	PlayerIDs []int64 `json:"player_ids"`
	ClanID    *int64  `json:"clan_id"`
}

// handleAssignPlayers moves a batch of players into a clan in one call.
// POST /api/players/assign
func (r *Router) handleAssignPlayers(w http.ResponseWriter, req *http.Request) {
	var body assignPlayersRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.PlayerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "player_ids is required")
		return
	}

	updated, err := r.store.AssignPlayersToClan(req.Context(), body.PlayerIDs, body.ClanID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "clan does not exist")
			return
		}
		log.Printf("Error assigning players: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to assign players")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// handleSyncPlayers creates player records for every human actor name seen in
// the killfeed that has no record yet.
// POST /api/players/sync
func (r *Router) handleSyncPlayers(w http.ResponseWriter, req *http.Request) {
	result, err := r.store.SyncPlayers(req.Context(), r.npc.IsNPC)
	if err != nil {
		log.Printf("Error syncing players: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to sync players")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
