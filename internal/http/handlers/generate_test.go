package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ministudio/internal/domain"
	"ministudio/internal/media"
	"ministudio/internal/providers/video"
	"ministudio/internal/storage"
	"ministudio/internal/studio"
)

type fakeGenerator struct {
	prompts []string
	err     error
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) Generate(ctx context.Context, req video.GenerateRequest) (*video.Asset, error) {
	g.prompts = append(g.prompts, req.Prompt)
	if g.err != nil {
		return nil, g.err
	}
	return &video.Asset{
		Data:     media.EncodeSolidClip(16, 16, req.Duration, [3]byte{0, 0, 0}),
		Format:   media.MIMEMP4,
		Seed:     req.Seed,
		Duration: req.Duration,
	}, nil
}

func newTestApp(t *testing.T, gen video.Generator, history HistoryLister) *App {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	svc, err := studio.NewService(studio.Options{
		Generator: gen,
		Store:     store,
		BaseURL:   "/videos",
		Sleep:     func(context.Context, time.Duration) error { return nil },
	})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return NewApp(zerolog.New(io.Discard), svc, store, history)
}

func TestVideosGenerateChoiceOne(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(t, gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/generate", strings.NewReader(`{"choice":1}`))
	rec := httptest.NewRecorder()
	app.VideosGenerate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp artifactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := "nailing a standard nail into a block of wood using a claw hammer"
	if resp.Prompt != want {
		t.Fatalf("prompt = %q, want %q", resp.Prompt, want)
	}
	if len(gen.prompts) != 1 || gen.prompts[0] != want {
		t.Fatalf("generator prompts = %v", gen.prompts)
	}
	if !strings.HasPrefix(resp.URL, "/videos/") {
		t.Fatalf("unexpected url: %q", resp.URL)
	}
}

func TestVideosGenerateFreeForm(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(t, gen, nil)

	body := `{"prompt":"a paper boat in the rain","seed":7}`
	req := httptest.NewRequest(http.MethodPost, "/v1/videos/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.VideosGenerate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp artifactResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Prompt != "a paper boat in the rain" {
		t.Fatalf("prompt = %q", resp.Prompt)
	}
	if resp.Seed != 7 {
		t.Fatalf("seed = %d, want pinned 7", resp.Seed)
	}
}

func TestVideosGenerateEmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	app := newTestApp(t, gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/generate", strings.NewReader(`{"prompt":"  "}`))
	rec := httptest.NewRecorder()
	app.VideosGenerate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(gen.prompts) != 0 {
		t.Fatal("generator must not be called for empty prompts")
	}
}

func TestVideosGenerateSurfacesProviderError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("GPU quota exceeded")}
	app := newTestApp(t, gen, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/generate", strings.NewReader(`{"choice":2}`))
	rec := httptest.NewRecorder()
	app.VideosGenerate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GPU quota exceeded") {
		t.Fatalf("provider error not surfaced: %s", rec.Body.String())
	}
}

func TestVideosGenerateUnknownChoice(t *testing.T) {
	app := newTestApp(t, &fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/videos/generate", strings.NewReader(`{"choice":9}`))
	rec := httptest.NewRecorder()
	app.VideosGenerate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

type fakeHistory struct {
	items []domain.VideoArtifact
	err   error
}

func (h *fakeHistory) ListRecent(ctx context.Context, limit int) ([]domain.VideoArtifact, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit < len(h.items) {
		return h.items[:limit], nil
	}
	return h.items, nil
}

func TestVideosListWithoutHistory(t *testing.T) {
	app := newTestApp(t, &fakeGenerator{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
	rec := httptest.NewRecorder()
	app.VideosList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items []artifactResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Fatalf("items = %v, want empty", resp.Items)
	}
}

func TestVideosListWithHistory(t *testing.T) {
	history := &fakeHistory{items: []domain.VideoArtifact{
		{ID: "a", Prompt: "first", StorageKey: "a.mp4"},
		{ID: "b", Prompt: "second", StorageKey: "b.mp4"},
	}}
	app := newTestApp(t, &fakeGenerator{}, history)

	req := httptest.NewRequest(http.MethodGet, "/v1/videos?limit=1", nil)
	rec := httptest.NewRecorder()
	app.VideosList(rec, req)

	var resp struct {
		Items []artifactResponse `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "a" {
		t.Fatalf("unexpected items: %v", resp.Items)
	}
}
