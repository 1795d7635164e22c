package studio

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"ministudio/internal/domain"
	"ministudio/internal/media"
	"ministudio/internal/providers/video"
	"ministudio/internal/storage"
)

type stubGenerator struct {
	requests []video.GenerateRequest
	failures int
	err      error
}

func (g *stubGenerator) Name() string { return "stub" }

func (g *stubGenerator) Generate(ctx context.Context, req video.GenerateRequest) (*video.Asset, error) {
	g.requests = append(g.requests, req)
	if g.failures > 0 {
		g.failures--
		return nil, g.err
	}
	// 1-frame black clip for any prompt.
	return &video.Asset{
		Data:     media.EncodeSolidClip(16, 16, req.Duration, [3]byte{0, 0, 0}),
		Format:   media.MIMEMP4,
		Seed:     req.Seed,
		Duration: req.Duration,
	}, nil
}

func newTestService(t *testing.T, gen video.Generator, history History) *Service {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	svc, err := NewService(Options{
		Generator: gen,
		Store:     store,
		History:   history,
		BaseURL:   "/videos",
		Sleep:     func(context.Context, time.Duration) error { return nil },
		Now:       func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestGenerateWritesValidMP4(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(t, gen, nil)

	artifact, err := svc.Generate(context.Background(), "a single black frame", domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	info, err := os.Stat(artifact.Path)
	if err != nil {
		t.Fatalf("artifact missing on disk: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("artifact is empty")
	}
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !media.IsMP4(data) {
		t.Fatal("artifact is not a valid MP4 container")
	}
	if artifact.Format != media.MIMEMP4 {
		t.Fatalf("unexpected format: %q", artifact.Format)
	}
	if artifact.URL != "/videos/"+artifact.StorageKey {
		t.Fatalf("unexpected url: %q", artifact.URL)
	}
}

func TestGenerateEndToEndPresetOne(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(t, gen, nil)

	prompt, err := domain.ResolvePrompt("1")
	if err != nil {
		t.Fatalf("ResolvePrompt error: %v", err)
	}
	artifact, err := svc.Generate(context.Background(), prompt, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(gen.requests) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.requests))
	}
	if got := gen.requests[0].Prompt; got != "nailing a standard nail into a block of wood using a claw hammer" {
		t.Fatalf("generator received %q", got)
	}
	if gen.requests[0].NegativePrompt != domain.NegativePrompt {
		t.Fatal("negative prompt not forwarded")
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Fatalf("artifact missing on disk: %v", err)
	}
}

func TestGenerateRejectsEmptyPromptBeforeModelCall(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestService(t, gen, nil)

	for _, prompt := range []string{"", "   "} {
		if _, err := svc.Generate(context.Background(), prompt, domain.DefaultSettings()); !errors.Is(err, domain.ErrEmptyPrompt) {
			t.Fatalf("Generate(%q) = %v, want ErrEmptyPrompt", prompt, err)
		}
	}
	if len(gen.requests) != 0 {
		t.Fatalf("generator should not be called, got %d calls", len(gen.requests))
	}
}

func TestGenerateRetriesWithShorterDurations(t *testing.T) {
	gen := &stubGenerator{failures: 2, err: errors.New("GPU quota exceeded")}
	svc := newTestService(t, gen, nil)

	settings := domain.DefaultSettings()
	settings.Duration = 6.0
	if _, err := svc.Generate(context.Background(), "retry me", settings); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(gen.requests) != 3 {
		t.Fatalf("generator called %d times, want 3", len(gen.requests))
	}
	want := []float64{6.0, 5.0, 4.0}
	for i, d := range want {
		if gen.requests[i].Duration != d {
			t.Fatalf("attempt %d duration = %v, want %v", i+1, gen.requests[i].Duration, d)
		}
	}
}

func TestGenerateSurfacesLastProviderError(t *testing.T) {
	providerErr := errors.New("model out of memory")
	gen := &stubGenerator{failures: 10, err: providerErr}
	svc := newTestService(t, gen, nil)

	_, err := svc.Generate(context.Background(), "always fails", domain.DefaultSettings())
	if !errors.Is(err, providerErr) {
		t.Fatalf("expected provider error to surface, got %v", err)
	}
	if len(gen.requests) != 4 {
		t.Fatalf("generator called %d times, want 4", len(gen.requests))
	}
}

type recordingHistory struct {
	artifacts []domain.VideoArtifact
	err       error
}

func (h *recordingHistory) Record(ctx context.Context, artifact domain.VideoArtifact) error {
	h.artifacts = append(h.artifacts, artifact)
	return h.err
}

func TestGenerateRecordsHistory(t *testing.T) {
	history := &recordingHistory{}
	svc := newTestService(t, &stubGenerator{}, history)

	artifact, err := svc.Generate(context.Background(), "remember this", domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(history.artifacts) != 1 {
		t.Fatalf("history recorded %d artifacts, want 1", len(history.artifacts))
	}
	if history.artifacts[0].ID != artifact.ID {
		t.Fatal("recorded artifact does not match")
	}
}

func TestGenerateHistoryFailureIsNotFatal(t *testing.T) {
	history := &recordingHistory{err: errors.New("db down")}
	svc := newTestService(t, &stubGenerator{}, history)

	if _, err := svc.Generate(context.Background(), "still works", domain.DefaultSettings()); err != nil {
		t.Fatalf("Generate should succeed despite history failure, got %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"nailing a nail":     "nailing_a_nail",
		"slashes/and:colons": "slashes_and_colons",
		"  padded  ":         "padded",
		"dots.and-dashes_ok": "dots.and-dashes_ok",
		"中文提示词":              "_",
	}
	for input, want := range cases {
		if got := SanitizeFilename(input); got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestArtifactKeyShape(t *testing.T) {
	ts := time.Date(2026, 8, 30, 9, 30, 15, 0, time.UTC)
	key := artifactKey(ts, "a very plain prompt")
	if key != "20260830-093015_a_very_plain_prompt.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
	if got := artifactKey(ts, "你好"); got != "20260830-093015__.mp4" && got != "20260830-093015_clip.mp4" {
		t.Fatalf("unexpected non-ascii key: %q", got)
	}
}
