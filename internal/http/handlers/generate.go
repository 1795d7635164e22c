package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ministudio/internal/domain"
)

type generateRequest struct {
	Choice         int     `json:"choice"`
	Prompt         string  `json:"prompt"`
	Duration       float64 `json:"duration"`
	Steps          int     `json:"steps"`
	GuidanceScale  float64 `json:"guidance_scale"`
	GuidanceScale2 float64 `json:"guidance_scale_2"`
	Seed           *int64  `json:"seed"`
	RandomizeSeed  *bool   `json:"randomize_seed"`
}

type artifactResponse struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Provider  string    `json:"provider"`
	URL       string    `json:"url"`
	File      string    `json:"file"`
	Format    string    `json:"format"`
	Bytes     int64     `json:"bytes"`
	Duration  float64   `json:"duration"`
	Seed      int64     `json:"seed"`
	CreatedAt time.Time `json:"created_at"`
}

// VideosGenerate is the JSON API: one prompt in, one artifact out. The call
// blocks until the model finishes.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompt, err := resolveRequestPrompt(req)
	if err != nil {
		a.error(w, http.StatusBadRequest, "invalid_prompt", err.Error())
		return
	}
	artifact, err := a.Studio.Generate(r.Context(), prompt, requestSettings(req))
	if err != nil {
		a.generationError(w, err)
		return
	}
	a.json(w, http.StatusOK, toArtifactResponse(artifact))
}

// generationError maps adapter failures onto status codes. Provider errors
// pass through verbatim; the UI layer displays them as-is.
func (a *App) generationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt), errors.Is(err, domain.ErrPromptTooLong):
		a.error(w, http.StatusBadRequest, "invalid_prompt", err.Error())
	default:
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	}
}

// resolveRequestPrompt maps the request to the prompt text: an explicit
// choice picks a preset, otherwise the prompt field goes through the regular
// selector (so "1" as free text still selects preset 1).
func resolveRequestPrompt(req generateRequest) (string, error) {
	if req.Choice != 0 {
		p, ok := domain.PresetByChoice(req.Choice)
		if !ok {
			return "", fmt.Errorf("unknown preset choice %d", req.Choice)
		}
		return p.Prompt, nil
	}
	return domain.ResolvePrompt(req.Prompt)
}

func requestSettings(req generateRequest) domain.GenerationSettings {
	settings := domain.DefaultSettings()
	if req.Duration > 0 {
		settings.Duration = req.Duration
	}
	if req.Steps > 0 {
		settings.Steps = req.Steps
	}
	if req.GuidanceScale > 0 {
		settings.GuidanceScale = req.GuidanceScale
	}
	if req.GuidanceScale2 > 0 {
		settings.GuidanceScale2 = req.GuidanceScale2
	}
	if req.Seed != nil {
		settings.Seed = *req.Seed
		settings.RandomizeSeed = false
	}
	if req.RandomizeSeed != nil {
		settings.RandomizeSeed = *req.RandomizeSeed
	}
	return settings
}

func toArtifactResponse(artifact *domain.VideoArtifact) artifactResponse {
	return artifactResponse{
		ID:        artifact.ID,
		Prompt:    artifact.Prompt,
		Provider:  artifact.Provider,
		URL:       artifact.URL,
		File:      artifact.StorageKey,
		Format:    artifact.Format,
		Bytes:     artifact.Bytes,
		Duration:  artifact.Duration,
		Seed:      artifact.Seed,
		CreatedAt: artifact.CreatedAt,
	}
}
