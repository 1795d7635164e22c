package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ministudio/internal/media"
)

// VideoDownload serves a stored clip for the inline player and the download
// link.
func (a *App) VideoDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "file name required")
		return
	}
	f, info, err := a.Store.Open(name)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "video not found")
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", media.MIMEMP4)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// VideosList returns recent generation history, newest first. Without a
// configured database the list is always empty.
func (a *App) VideosList(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	items := []artifactResponse{}
	if a.History != nil {
		artifacts, err := a.History.ListRecent(r.Context(), limit)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to fetch history")
			return
		}
		for i := range artifacts {
			items = append(items, toArtifactResponse(&artifacts[i]))
		}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
