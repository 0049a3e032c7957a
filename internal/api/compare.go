package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/stats"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// handleCompareClans returns the head-to-head comparison of two clans.
// GET /api/compare/clans?clan1=&clan2=&start_date=&end_date=
func (r *Router) handleCompareClans(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	id1, err := strconv.ParseInt(q.Get("clan1"), 10, 64)
	if err != nil || id1 <= 0 {
		writeError(w, http.StatusBadRequest, "clan1 must be a clan id")
		return
	}
	id2, err := strconv.ParseInt(q.Get("clan2"), 10, 64)
	if err != nil || id2 <= 0 {
		writeError(w, http.StatusBadRequest, "clan2 must be a clan id")
		return
	}
	if id1 == id2 {
		writeError(w, http.StatusBadRequest, "cannot compare a clan with itself")
		return
	}

	start, end, ok := parseWindow(w, q.Get("start_date"), q.Get("end_date"))
	if !ok {
		return
	}

	ctx := req.Context()
	clan1, err := r.store.GetClanByID(ctx, id1)
	if err != nil {
		respondClanLookup(w, err, id1)
		return
	}
	clan2, err := r.store.GetClanByID(ctx, id2)
	if err != nil {
		respondClanLookup(w, err, id2)
		return
	}

	members1, err := r.store.ClanMemberNames(ctx, id1)
	if err != nil {
		log.Printf("Error loading members of clan %d: %v", id1, err)
		writeError(w, http.StatusInternalServerError, "failed to load clan members")
		return
	}
	members2, err := r.store.ClanMemberNames(ctx, id2)
	if err != nil {
		log.Printf("Error loading members of clan %d: %v", id2, err)
		writeError(w, http.StatusInternalServerError, "failed to load clan members")
		return
	}

	kills, err := r.store.ListKills(ctx, storage.KillFilter{})
	if err != nil {
		log.Printf("Error loading kills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load kills")
		return
	}

	result, err := stats.Compare(r.npc.FilterKills(kills), members1, members2, start, end)
	if err != nil {
		if errors.Is(err, stats.ErrOverlappingSides) {
			writeError(w, http.StatusBadRequest, "the clans share members and cannot be compared")
			return
		}
		log.Printf("Error comparing clans %d and %d: %v", id1, id2, err)
		writeError(w, http.StatusInternalServerError, "failed to compare clans")
		return
	}

	fillClanSide(&result.Clan1, clan1, len(members1))
	fillClanSide(&result.Clan2, clan2, len(members2))
	writeJSON(w, http.StatusOK, result)
}

// handleComparePlayers returns the head-to-head comparison of two players,
// referenced by their registry ids.
// GET /api/compare/players?player1=&player2=&start_date=&end_date=
func (r *Router) handleComparePlayers(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	id1, err := strconv.ParseInt(q.Get("player1"), 10, 64)
	if err != nil || id1 <= 0 {
		writeError(w, http.StatusBadRequest, "player1 must be a player id")
		return
	}
	id2, err := strconv.ParseInt(q.Get("player2"), 10, 64)
	if err != nil || id2 <= 0 {
		writeError(w, http.StatusBadRequest, "player2 must be a player id")
		return
	}
	if id1 == id2 {
		writeError(w, http.StatusBadRequest, "cannot compare a player with themselves")
		return
	}

	start, end, ok := parseWindow(w, q.Get("start_date"), q.Get("end_date"))
	if !ok {
		return
	}

	ctx := req.Context()
	player1, err := r.store.GetPlayerByID(ctx, id1)
	if err != nil {
		respondPlayerLookup(w, err, id1)
		return
	}
	player2, err := r.store.GetPlayerByID(ctx, id2)
	if err != nil {
		respondPlayerLookup(w, err, id2)
		return
	}

	kills, err := r.store.ListKills(ctx, storage.KillFilter{})
	if err != nil {
		log.Printf("Error loading kills: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load kills")
		return
	}
	refs, err := r.store.ClanRefsByPlayerName(ctx)
	if err != nil {
		log.Printf("Error loading clan refs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load clans")
		return
	}

	result, err := stats.Compare(r.npc.FilterKills(kills),
		[]string{player1.Name}, []string{player2.Name}, start, end)
	if err != nil {
		if errors.Is(err, stats.ErrOverlappingSides) {
			writeError(w, http.StatusBadRequest, "cannot compare a player with themselves")
			return
		}
		log.Printf("Error comparing players %d and %d: %v", id1, id2, err)
		writeError(w, http.StatusInternalServerError, "failed to compare players")
		return
	}

	fillPlayerSide(&result.Clan1, player1, refs)
	fillPlayerSide(&result.Clan2, player2, refs)
	writeJSON(w, http.StatusOK, result)
}

// parseWindow parses the optional start/end date query parameters, writing a
// 400 response on failure.
func parseWindow(w http.ResponseWriter, startRaw, endRaw string) (start, end *time.Time, ok bool) {
	start, err := parseDateParam(startRaw, false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	end, err = parseDateParam(endRaw, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	if start != nil && end != nil && end.Before(*start) {
		writeError(w, http.StatusBadRequest, "end_date is before start_date")
		return nil, nil, false
	}
	return start, end, true
}

func respondClanLookup(w http.ResponseWriter, err error, id int64) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "clan not found")
		return
	}
	log.Printf("Error getting clan %d: %v", id, err)
	writeError(w, http.StatusInternalServerError, "failed to get clan")
}

func fillClanSide(side *domain.CompareSide, clan *domain.Clan, memberCount int) {
	side.ID = clan.ID
	side.Name = clan.Name
	side.Tag = clan.Tag
	side.Color = clan.Color
	side.MemberCount = memberCount
}

func respondPlayerLookup(w http.ResponseWriter, err error, id int64) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "player not found")
		return
	}
	log.Printf("Error getting player %d: %v", id, err)
	writeError(w, http.StatusInternalServerError, "failed to get player")
}

func fillPlayerSide(side *domain.CompareSide, player *domain.Player, refs map[string]domain.ClanRef) {
	side.ID = player.ID
	side.Name = player.Name
	side.MemberCount = 1
	if ref, ok := refs[player.Name]; ok {
		side.Tag = ref.Tag
		side.Color = ref.Color
	}
}
