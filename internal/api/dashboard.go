package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/stats"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// handleHealth is a liveness probe that also checks the database.
// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if err := r.store.Ping(req.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDashboard returns the aggregated dashboard payload.
// GET /api/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) {
	kills, err := r.store.ListKills(req.Context(), storage.KillFilter{})
	if err != nil {
		log.Printf("Error loading kills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load kills")
		return
	}
	refs, err := r.store.ClanRefsByPlayerName(req.Context())
	if err != nil {
		log.Printf("Error loading clan refs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load clans")
		return
	}

	filtered := r.npc.FilterKills(kills)
	dashboard := stats.BuildDashboard(filtered, refs, time.Now().UTC())
	writeJSON(w, http.StatusOK, dashboard)
}

// handleRecentKills returns the latest kills decorated with clan tags.
// GET /api/kills/recent?limit=
func (r *Router) handleRecentKills(w http.ResponseWriter, req *http.Request) {
	limit := parseLimit(req)

	kills, err := r.store.ListKills(req.Context(), storage.KillFilter{})
	if err != nil {
		log.Printf("Error loading kills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load kills")
		return
	}
	refs, err := r.store.ClanRefsByPlayerName(req.Context())
	if err != nil {
		log.Printf("Error loading clan refs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load clans")
		return
	}

	filtered := r.npc.FilterKills(kills)

	recent := make([]domain.RecentKill, 0, limit)
	for i := len(filtered) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, decorateKill(filtered[i], refs))
	}
	writeJSON(w, http.StatusOK, recent)
}

// decorateKill resolves the clan tag/color for both actors of a kill.
func decorateKill(k domain.Kill, refs map[string]domain.ClanRef) domain.RecentKill {
	rk := domain.RecentKill{
		ID:        k.ID,
		Killer:    k.Killer,
		Victim:    k.Victim,
		Distance:  k.Distance,
		Weapon:    k.Weapon,
		Timestamp: k.Timestamp,
	}
	if ref, ok := refs[k.Killer]; ok {
		tag, color := ref.Tag, ref.Color
		rk.KillerClanTag, rk.KillerClanColor = &tag, &color
	}
	if ref, ok := refs[k.Victim]; ok {
		tag, color := ref.Tag, ref.Color
		rk.VictimClanTag, rk.VictimClanColor = &tag, &color
	}
	return rk
}

// handleFirstTimestamp returns the timestamp of the oldest recorded kill.
// GET /api/kills/first-timestamp
func (r *Router) handleFirstTimestamp(w http.ResponseWriter, req *http.Request) {
	ts, err := r.store.FirstKillTimestamp(req.Context())
	if err != nil {
		log.Printf("Error loading first kill timestamp: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load first kill timestamp")
		return
	}
	writeJSON(w, http.StatusOK, map[string]*time.Time{"first_timestamp": ts})
}

// handleGetPlayerStats returns the personal stat card for one player name.
// GET /api/players/stats?name=
func (r *Router) handleGetPlayerStats(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimSpace(req.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	kills, err := r.store.ListKills(req.Context(), storage.KillFilter{})
	if err != nil {
		log.Printf("Error loading kills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load kills")
		return
	}

	filtered := r.npc.FilterKills(kills)
	writeJSON(w, http.StatusOK, stats.BuildPlayerStats(filtered, name))
}
