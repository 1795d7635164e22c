package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"ministudio/internal/domain"
	"ministudio/internal/infra"
	"ministudio/internal/storage"
	"ministudio/internal/studio"
)

// HistoryLister lists past generations; nil when no database is configured.
type HistoryLister interface {
	ListRecent(ctx context.Context, limit int) ([]domain.VideoArtifact, error)
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Logger  infra.Logger
	Studio  *studio.Service
	Store   *storage.FileStore
	History HistoryLister
}

func NewApp(logger infra.Logger, svc *studio.Service, store *storage.FileStore, history HistoryLister) *App {
	return &App{Logger: logger, Studio: svc, Store: store, History: history}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
