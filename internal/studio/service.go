package studio

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ministudio/internal/domain"
	"ministudio/internal/infra"
	"ministudio/internal/providers/video"
	"ministudio/internal/storage"
)

// History records finished generations. Implementations may be absent; the
// studio treats history as best-effort.
type History interface {
	Record(ctx context.Context, artifact domain.VideoArtifact) error
}

// Options configures the generation service.
type Options struct {
	Generator   video.Generator
	Store       *storage.FileStore
	History     History
	Logger      *infra.Logger
	BaseURL     string
	MaxAttempts int
	// Timeout bounds one whole generation including retries; zero disables it.
	Timeout time.Duration
	// Sleep is called between attempts; tests inject a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// Service is the prompt-to-video adapter: it validates the prompt, drives the
// provider through the duration ladder, persists the clip and reports the
// resulting artifact.
type Service struct {
	generator   video.Generator
	store       *storage.FileStore
	history     History
	logger      *infra.Logger
	baseURL     string
	maxAttempts int
	timeout     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
}

// NewService constructs a Service with sane defaults and injected dependencies.
func NewService(opts Options) (*Service, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("studio: generator is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("studio: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1 + len(domain.DurationLadder)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		generator:   opts.Generator,
		store:       opts.Store,
		history:     opts.History,
		logger:      logger,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		maxAttempts: maxAttempts,
		timeout:     opts.Timeout,
		sleep:       sleep,
		now:         now,
	}, nil
}

// Generate runs one prompt through the model and writes the resulting MP4
// under the store. Failed attempts retry with shorter durations to dodge
// GPU-quota limits on the Space; the last provider error surfaces unchanged.
func (s *Service) Generate(ctx context.Context, prompt string, settings domain.GenerationSettings) (*domain.VideoArtifact, error) {
	prompt = strings.TrimSpace(prompt)
	if err := domain.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	durations := durationLadder(settings.Duration, s.maxAttempts)

	var asset *video.Asset
	var lastErr error
	for attempt, d := range durations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		asset, lastErr = s.generator.Generate(ctx, video.GenerateRequest{
			Prompt:         prompt,
			NegativePrompt: domain.NegativePrompt,
			Duration:       d,
			GuidanceScale:  settings.GuidanceScale,
			GuidanceScale2: settings.GuidanceScale2,
			Steps:          settings.Steps,
			Seed:           settings.Seed,
			RandomizeSeed:  settings.RandomizeSeed,
			RequestID:      requestID,
		})
		if lastErr == nil {
			break
		}
		s.logger.Warn().
			Err(lastErr).
			Str("request_id", requestID).
			Float64("duration", d).
			Int("attempt", attempt+1).
			Msg("studio: generation attempt failed")
		if attempt == len(durations)-1 {
			break
		}
		// Gentle backoff between attempts, as the original studio does.
		if err := s.sleep(ctx, time.Duration(float64(time.Second)*1.2*float64(attempt+1))); err != nil {
			return nil, err
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	if asset == nil || len(asset.Data) == 0 {
		return nil, domain.ErrProviderFailure
	}

	createdAt := s.now()
	key := artifactKey(createdAt, prompt)
	storedKey, err := s.store.Write(ctx, key, asset.Data)
	if err != nil {
		return nil, err
	}
	path, err := s.store.Path(storedKey)
	if err != nil {
		return nil, err
	}

	artifact := &domain.VideoArtifact{
		ID:         requestID,
		Prompt:     prompt,
		Provider:   s.generator.Name(),
		StorageKey: storedKey,
		Path:       path,
		URL:        s.baseURL + "/" + storedKey,
		Format:     asset.Format,
		Bytes:      int64(len(asset.Data)),
		Duration:   asset.Duration,
		Seed:       asset.Seed,
		CreatedAt:  createdAt,
	}

	if s.history != nil {
		if err := s.history.Record(ctx, *artifact); err != nil {
			s.logger.Error().Err(err).Str("request_id", requestID).Msg("studio: record history failed")
		}
	}

	s.logger.Info().
		Str("request_id", requestID).
		Str("provider", artifact.Provider).
		Str("storage_key", storedKey).
		Int64("bytes", artifact.Bytes).
		Int64("seed", artifact.Seed).
		Msg("studio: video generated")
	return artifact, nil
}

// durationLadder returns the durations tried in order: the requested value
// first, then the shorter fallbacks, capped at maxAttempts.
func durationLadder(requested float64, maxAttempts int) []float64 {
	if requested <= 0 {
		requested = domain.DefaultDuration
	}
	ladder := append([]float64{requested}, domain.DurationLadder...)
	if len(ladder) > maxAttempts {
		ladder = ladder[:maxAttempts]
	}
	return ladder
}

var filenamePattern = regexp.MustCompile(`[^A-Za-z0-9_. -]+`)

// SanitizeFilename reduces arbitrary prompt text to a safe filename fragment.
func SanitizeFilename(s string) string {
	s = filenamePattern.ReplaceAllString(s, "_")
	if len(s) > 80 {
		s = s[:80]
	}
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// artifactKey derives the storage key for a clip: timestamp plus the first
// 60 characters of the sanitized prompt.
func artifactKey(ts time.Time, prompt string) string {
	fragment := prompt
	if len(fragment) > 60 {
		fragment = fragment[:60]
	}
	fragment = SanitizeFilename(fragment)
	if fragment == "" {
		fragment = "clip"
	}
	return fmt.Sprintf("%s_%s.mp4", ts.Format("20060102-150405"), fragment)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
