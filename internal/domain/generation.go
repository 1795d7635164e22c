package domain

import "time"

// Generation defaults. Durations and guidance values mirror the knobs the
// WAN 2.2 Space exposes.
const (
	DefaultDuration       = 5.1
	DefaultSteps          = 4
	DefaultGuidanceScale  = 1.0
	DefaultGuidanceScale2 = 3.0
	DefaultSeed           = 42
)

// DurationLadder lists the fallback durations tried when a generation fails,
// shortest last. Shorter clips dodge GPU-quota limits on the Space.
var DurationLadder = []float64{5.0, 4.0, 3.5}

// GenerationSettings carries the per-request tunables for one model call.
type GenerationSettings struct {
	Duration       float64
	Steps          int
	GuidanceScale  float64
	GuidanceScale2 float64
	Seed           int64
	RandomizeSeed  bool
}

// DefaultSettings returns the settings used when the caller does not tune
// anything, matching the defaults of the original studio UI.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		Duration:       DefaultDuration,
		Steps:          DefaultSteps,
		GuidanceScale:  DefaultGuidanceScale,
		GuidanceScale2: DefaultGuidanceScale2,
		Seed:           DefaultSeed,
		RandomizeSeed:  true,
	}
}

// VideoArtifact is the persisted result of one generation: exactly one MP4
// per prompt, immutable once written.
type VideoArtifact struct {
	ID         string
	Prompt     string
	Provider   string
	StorageKey string
	Path       string
	URL        string
	Format     string
	Bytes      int64
	Duration   float64
	Seed       int64
	CreatedAt  time.Time
}
