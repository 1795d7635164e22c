package video

import "context"

// GenerateRequest carries one prompt and its tunables to a video provider.
type GenerateRequest struct {
	Prompt         string
	NegativePrompt string
	Duration       float64
	GuidanceScale  float64
	GuidanceScale2 float64
	Steps          int
	Seed           int64
	RandomizeSeed  bool
	RequestID      string
}

// Asset is the provider-agnostic result of one generation.
type Asset struct {
	Data     []byte
	URL      string
	Format   string
	Seed     int64
	Duration float64
}

// Generator produces one video asset per request, synchronously.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}
