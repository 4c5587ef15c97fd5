// Package web serves the workspace over a JSON HTTP API.
//
// Every request loads the workspace state fresh from the store, mutates it in
// memory, and saves on success. The store's WAL mode plus busy timeout make
// this safe alongside concurrent CLI use of the same workspace.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"stockroom-cli/internal/mutate"
	"stockroom-cli/internal/store"
)

type ServerConfig struct {
	Addr     string
	Dir      string
	UserID   string
	ReadOnly bool
}

type Server struct {
	mu  sync.RWMutex
	cfg ServerConfig
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) cfgSnapshot() ServerConfig {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	return cfg
}

func (s *Server) dir() string {
	return s.cfgSnapshot().Dir
}

func (s *Server) readOnly() bool {
	return s.cfgSnapshot().ReadOnly
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /items", s.handleItemsList)
	mux.HandleFunc("POST /items", s.handleItemCreate)
	mux.HandleFunc("GET /items/{itemId}", s.handleItemGet)
	mux.HandleFunc("PUT /items/{itemId}", s.handleItemPut)
	mux.HandleFunc("DELETE /items/{itemId}", s.handleItemArchive)
	mux.HandleFunc("GET /items/{itemId}/events", s.handleItemEvents)
	mux.HandleFunc("GET /categories", s.handleCategoriesList)
	mux.HandleFunc("POST /categories", s.handleCategoryCreate)
	mux.HandleFunc("GET /locations", s.handleLocationsList)
	mux.HandleFunc("POST /locations", s.handleLocationCreate)

	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	cfg := s.cfgSnapshot()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// loadDB re-reads the workspace for one request.
func (s *Server) loadDB() (*store.DB, store.Store, error) {
	st := store.Store{Dir: s.dir()}
	db, err := st.Load()
	if err != nil {
		return nil, st, err
	}
	return db, st, nil
}

// requestUserID resolves the acting user: X-Stockroom-User header, then the
// configured user, then the workspace's current user.
func (s *Server) requestUserID(r *http.Request, db *store.DB) string {
	if u := strings.TrimSpace(r.Header.Get("X-Stockroom-User")); u != "" {
		return u
	}
	if u := strings.TrimSpace(s.cfgSnapshot().UserID); u != "" {
		return u
	}
	return strings.TrimSpace(db.CurrentUserID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeErrorf(w http.ResponseWriter, status int, format string, args ...any) {
	writeError(w, status, fmt.Errorf(format, args...))
}

// errStatus maps mutation errors onto HTTP statuses.
func errStatus(err error) int {
	var nf mutate.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound
	}
	if errors.Is(err, mutate.ErrEmptyName) || errors.Is(err, mutate.ErrNegativeQuantity) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
