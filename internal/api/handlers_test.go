package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nereuvjr-br/kills-scum/internal/domain"
	"github.com/nereuvjr-br/kills-scum/internal/metrics"
	"github.com/nereuvjr-br/kills-scum/internal/stats"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

func newTestRouter(t *testing.T) (*Router, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRouter(store, stats.DefaultMatcher(), metrics.New(), ""), store
}

func doJSON(t *testing.T, router *Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestClanLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/clans", map[string]string{
		"name": "Reapers", "tag": "RPS", "color": "#ff0000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, body %s", rec.Code, rec.Body)
	}
	var clan domain.Clan
	decode(t, rec, &clan)
	if clan.ID == 0 || clan.Color != "#ff0000" {
		t.Fatalf("created clan = %+v", clan)
	}

	// Duplicate tag conflicts.
	rec = doJSON(t, router, "POST", "/api/clans", map[string]string{"name": "Other", "tag": "RPS"})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate tag: got %d, want 409", rec.Code)
	}

	// Missing fields are rejected before touching the store.
	rec = doJSON(t, router, "POST", "/api/clans", map[string]string{"name": "NoTag"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing tag: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, "PATCH", "/api/clans/1", map[string]string{"description": "raiders"})
	if rec.Code != http.StatusOK {
		t.Errorf("patch: got %d, body %s", rec.Code, rec.Body)
	}

	// An explicit empty color is rejected, not written through.
	rec = doJSON(t, router, "PATCH", "/api/clans/1", map[string]string{"color": ""})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty color patch: got %d, want 400", rec.Code)
	}
	rec = doJSON(t, router, "GET", "/api/clans/1", nil)
	var detail struct {
		Color string `json:"color"`
	}
	decode(t, rec, &detail)
	if detail.Color != "#ff0000" {
		t.Errorf("color after rejected patch = %q, want #ff0000", detail.Color)
	}

	rec = doJSON(t, router, "GET", "/api/clans/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing clan: got %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, "DELETE", "/api/clans/1", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete: got %d", rec.Code)
	}
	rec = doJSON(t, router, "DELETE", "/api/clans/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete: got %d, want 404", rec.Code)
	}
}

func TestUploadAndDuplicate(t *testing.T) {
	router, store := newTestRouter(t)

	payload := map[string]string{
		"kill":      "Alice 😎",
		"victim":    "Bob",
		"distance":  "147m",
		"weapon":    "AK-47",
		"timestamp": "2026-03-01T10:00:00Z",
		"idDiscord": "d1",
	}

	rec := doJSON(t, router, "POST", "/api/upload", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: got %d, body %s", rec.Code, rec.Body)
	}
	var resp uploadResponse
	decode(t, rec, &resp)
	if resp.Status != "imported" {
		t.Errorf("status = %q, want imported", resp.Status)
	}

	// Same record again is a reported duplicate, not an error.
	rec = doJSON(t, router, "POST", "/api/upload", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate upload: got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Status != "duplicate" {
		t.Errorf("status = %q, want duplicate", resp.Status)
	}

	kills, err := store.ListKills(context.Background(), storage.KillFilter{})
	if err != nil {
		t.Fatalf("ListKills: %v", err)
	}
	if len(kills) != 1 {
		t.Fatalf("stored %d kills, want 1", len(kills))
	}
	if kills[0].Killer != "Alice" {
		t.Errorf("emoji not stripped on upload: %q", kills[0].Killer)
	}

	// A bad timestamp is a per-record validation error.
	payload["idDiscord"] = "d2"
	payload["timestamp"] = "not a time"
	rec = doJSON(t, router, "POST", "/api/upload", payload)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad timestamp: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/upload", map[string]string{"kill": "X", "victim": "Y"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing idDiscord: got %d, want 400", rec.Code)
	}
}

func TestUploadCarriesRowNumber(t *testing.T) {
	router, _ := newTestRouter(t)

	// The importer posts rows one at a time; validation errors must cite the
	// original spreadsheet row, not a hardcoded 1.
	rec := doJSON(t, router, "POST", "/api/upload", map[string]any{
		"kill":      "Alice",
		"victim":    "Bob",
		"distance":  "10m",
		"weapon":    "AK-47",
		"timestamp": "not a time",
		"idDiscord": "d9",
		"rowNumber": 7,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
	var resp uploadResponse
	decode(t, rec, &resp)
	if !strings.Contains(resp.Message, "row 7") {
		t.Errorf("message %q should cite row 7", resp.Message)
	}
}

func seedKill(t *testing.T, store *storage.Store, killer, victim, distance, externalID string, ts time.Time) {
	t.Helper()
	id := externalID
	err := store.InsertKill(context.Background(), &domain.Kill{
		Killer:     killer,
		Victim:     victim,
		Distance:   distance,
		Weapon:     "AK-47",
		Timestamp:  ts,
		ExternalID: &id,
	})
	if err != nil {
		t.Fatalf("seed kill: %v", err)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	now := time.Now().UTC()

	seedKill(t, store, "Alice", "Bob", "100m", "d1", now.Add(-time.Hour))
	seedKill(t, store, "NPC Guard Level 3", "Alice", "5m", "d2", now.Add(-time.Hour))

	rec := doJSON(t, router, "GET", "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: got %d, body %s", rec.Code, rec.Body)
	}

	var d domain.DashboardStats
	decode(t, rec, &d)
	if d.TotalKills != 1 {
		t.Errorf("TotalKills = %d, want 1 (NPC kill filtered)", d.TotalKills)
	}
	if len(d.Charts.KillsByDay) != 7 {
		t.Errorf("chart window = %d days, want 7", len(d.Charts.KillsByDay))
	}
}

func TestRecentKillsDecoration(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	clan := &domain.Clan{Name: "Reapers", Tag: "RPS", Color: "#ff0000"}
	if err := store.CreateClan(ctx, clan); err != nil {
		t.Fatalf("CreateClan: %v", err)
	}
	if err := store.CreatePlayer(ctx, &domain.Player{Name: "Alice", ClanID: &clan.ID}); err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedKill(t, store, "Alice", "Bob", "10m", "d1", base)
	seedKill(t, store, "Bob", "Alice", "20m", "d2", base.Add(time.Hour))

	rec := doJSON(t, router, "GET", "/api/kills/recent?limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recent: got %d", rec.Code)
	}
	var kills []domain.RecentKill
	decode(t, rec, &kills)
	if len(kills) != 1 {
		t.Fatalf("got %d kills, want 1", len(kills))
	}
	k := kills[0]
	if k.Killer != "Bob" {
		t.Errorf("newest kill first: got %q", k.Killer)
	}
	if k.VictimClanTag == nil || *k.VictimClanTag != "RPS" {
		t.Errorf("victim clan tag missing: %+v", k)
	}
	if k.KillerClanTag != nil {
		t.Errorf("clanless killer should have nil tag: %+v", k)
	}
}

func TestCompareClansEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	clan1 := &domain.Clan{Name: "Reapers", Tag: "RPS"}
	clan2 := &domain.Clan{Name: "Wolves", Tag: "WLV"}
	for _, c := range []*domain.Clan{clan1, clan2} {
		if err := store.CreateClan(ctx, c); err != nil {
			t.Fatalf("CreateClan: %v", err)
		}
	}
	store.CreatePlayer(ctx, &domain.Player{Name: "Alice", ClanID: &clan1.ID})
	store.CreatePlayer(ctx, &domain.Player{Name: "Carl", ClanID: &clan2.ID})

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedKill(t, store, "Alice", "Carl", "100m", "d1", base)
	seedKill(t, store, "Alice", "Carl", "50m", "d2", base.Add(time.Hour))
	seedKill(t, store, "Carl", "Alice", "10m", "d3", base.Add(2*time.Hour))

	rec := doJSON(t, router, "GET", "/api/compare/clans?clan1=1&clan2=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare: got %d, body %s", rec.Code, rec.Body)
	}
	var result domain.ComparisonResult
	decode(t, rec, &result)
	if result.Clan1.Name != "Reapers" || result.Clan1.MemberCount != 1 {
		t.Errorf("clan1 identity = %+v", result.Clan1)
	}
	if result.HeadToHead.Clan1Wins != 2 || result.HeadToHead.Clan2Wins != 1 {
		t.Errorf("wins = %d/%d, want 2/1", result.HeadToHead.Clan1Wins, result.HeadToHead.Clan2Wins)
	}

	rec = doJSON(t, router, "GET", "/api/compare/clans?clan1=1&clan2=1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self comparison: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/compare/clans?clan1=1&clan2=999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing clan: got %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/compare/clans?clan1=1&clan2=2&start_date=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date: got %d, want 400", rec.Code)
	}
}

func TestComparePlayersEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	alice := &domain.Player{Name: "Alice"}
	carl := &domain.Player{Name: "Carl"}
	for _, p := range []*domain.Player{alice, carl} {
		if err := store.CreatePlayer(ctx, p); err != nil {
			t.Fatalf("CreatePlayer: %v", err)
		}
	}

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedKill(t, store, "Alice", "Carl", "100m", "d1", base)
	seedKill(t, store, "Carl", "Alice", "10m", "d2", base.Add(time.Hour))

	rec := doJSON(t, router, "GET", "/api/compare/players?player1=1&player2=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("compare players: got %d, body %s", rec.Code, rec.Body)
	}
	var result domain.ComparisonResult
	decode(t, rec, &result)
	if result.Clan1.Name != "Alice" || result.Clan2.Name != "Carl" {
		t.Errorf("identities = %q vs %q", result.Clan1.Name, result.Clan2.Name)
	}
	if result.HeadToHead.Clan1Wins != 1 || result.HeadToHead.Clan2Wins != 1 {
		t.Errorf("wins = %d/%d, want 1/1", result.HeadToHead.Clan1Wins, result.HeadToHead.Clan2Wins)
	}

	rec = doJSON(t, router, "GET", "/api/compare/players?player1=1&player2=1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self comparison: got %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/compare/players?player1=1&player2=999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing player: got %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, "GET", "/api/compare/players?player1=1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing player2: got %d, want 400", rec.Code)
	}
}

func TestPlayerSyncEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedKill(t, store, "Alice", "Bob", "10m", "d1", base)
	seedKill(t, store, "NPC Guard Level 3", "Alice", "5m", "d2", base)

	rec := doJSON(t, router, "POST", "/api/players/sync", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync: got %d, body %s", rec.Code, rec.Body)
	}
	var result domain.SyncResult
	decode(t, rec, &result)
	if result.Created != 2 {
		t.Errorf("created = %d, want 2 (NPC skipped)", result.Created)
	}

	rec = doJSON(t, router, "GET", "/api/players", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list players: got %d", rec.Code)
	}
	var players []domain.PlayerWithClan
	decode(t, rec, &players)
	if len(players) != 2 {
		t.Errorf("got %d players, want 2", len(players))
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("health: got %d, want 200", rec.Code)
	}
}
