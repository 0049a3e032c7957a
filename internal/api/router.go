package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nereuvjr-br/kills-scum/internal/metrics"
	"github.com/nereuvjr-br/kills-scum/internal/stats"
	"github.com/nereuvjr-br/kills-scum/internal/storage"
)

// Router holds the HTTP routes and dependencies
type Router struct {
	mux       *http.ServeMux
	store     *storage.Store
	npc       *stats.Matcher
	wsHub     *WebSocketHub
	metrics   *metrics.Metrics
	staticDir string
}

// NewRouter creates a new HTTP router
func NewRouter(store *storage.Store, npc *stats.Matcher, m *metrics.Metrics, staticDir string) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		store:     store,
		npc:       npc,
		wsHub:     NewWebSocketHub(),
		metrics:   m,
		staticDir: staticDir,
	}

	// Clan management
	r.mux.HandleFunc("GET /api/clans", r.handleListClans)
	r.mux.HandleFunc("POST /api/clans", r.handleCreateClan)
	r.mux.HandleFunc("GET /api/clans/{id}", r.handleGetClan)
	r.mux.HandleFunc("PATCH /api/clans/{id}", r.handleUpdateClan)
	r.mux.HandleFunc("DELETE /api/clans/{id}", r.handleDeleteClan)

	// Player management
	r.mux.HandleFunc("GET /api/players", r.handleListPlayers)
	r.mux.HandleFunc("POST /api/players", r.handleCreatePlayer)
	r.mux.HandleFunc("GET /api/players/unassigned", r.handleUnassignedPlayers)
	r.mux.HandleFunc("GET /api/players/stats", r.handleGetPlayerStats)
	r.mux.HandleFunc("PATCH /api/players/{id}", r.handleUpdatePlayer)
	r.mux.HandleFunc("DELETE /api/players/{id}", r.handleDeletePlayer)
	r.mux.HandleFunc("POST /api/players/{id}/clan", r.handleAssignPlayerToClan)
	r.mux.HandleFunc("POST /api/players/assign", r.handleAssignPlayers)
	r.mux.HandleFunc("POST /api/players/sync", r.handleSyncPlayers)

	// Dashboard and killfeed queries
	r.mux.HandleFunc("GET /api/dashboard", r.handleDashboard)
	r.mux.HandleFunc("GET /api/kills/recent", r.handleRecentKills)
	r.mux.HandleFunc("GET /api/kills/first-timestamp", r.handleFirstTimestamp)

	// Comparison views
	r.mux.HandleFunc("GET /api/compare/clans", r.handleCompareClans)
	r.mux.HandleFunc("GET /api/compare/players", r.handleComparePlayers)

	// Import upload
	r.mux.HandleFunc("POST /api/upload", r.handleUpload)

	// Live kill feed
	r.mux.HandleFunc("GET /ws", r.handleWebSocket)

	// Observability
	r.mux.Handle("GET /metrics", m.Handler())
	r.mux.HandleFunc("GET /health", r.handleHealth)

	// Static files - only serve if staticDir is configured
	if staticDir != "" {
		r.mux.HandleFunc("GET /", r.handleStatic)
	}

	return r
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// CORS headers for API
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if req.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	r.mux.ServeHTTP(sw, req)
	r.metrics.ObserveRequest(req.Method, sw.status)
}

// StartWebSocketHub starts broadcasting imported kills to connected clients
func (r *Router) StartWebSocketHub() {
	go r.wsHub.Run()
}

// Hub exposes the websocket hub so the import pipeline can publish kills.
func (r *Router) Hub() *WebSocketHub {
	return r.wsHub
}

// statusWriter captures the response status for request metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade take over the connection through the
// metrics wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleStatic serves static files from the configured directory
// For SPA support, serves index.html for any path that doesn't match a file
func (r *Router) handleStatic(w http.ResponseWriter, req *http.Request) {
	path := filepath.Clean(req.URL.Path)
	if path == "/" {
		path = "/index.html"
	}

	fullPath := filepath.Join(r.staticDir, path)

	// Security: ensure the path is within staticDir
	absStaticDir, _ := filepath.Abs(r.staticDir)
	absPath, _ := filepath.Abs(fullPath)
	if !strings.HasPrefix(absPath, absStaticDir) {
		http.NotFound(w, req)
		return
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		// SPA fallback: serve index.html for unknown paths
		fullPath = filepath.Join(r.staticDir, "index.html")
		if _, err := os.Stat(fullPath); err != nil {
			http.NotFound(w, req)
			return
		}
	}

	http.ServeFile(w, req, fullPath)
}
