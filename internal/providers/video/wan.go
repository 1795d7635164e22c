package video

import (
	"context"

	"ministudio/internal/providers/wan"
)

// WANGenerator generates clips through a connected WAN 2.2 Space client.
type WANGenerator struct {
	client *wan.Client
}

func NewWANGenerator(client *wan.Client) *WANGenerator {
	return &WANGenerator{client: client}
}

func (g *WANGenerator) Name() string { return "wan2.2" }

func (g *WANGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	result, err := g.client.GenerateVideo(ctx, wan.GenerateRequest{
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		Duration:       req.Duration,
		GuidanceScale:  req.GuidanceScale,
		GuidanceScale2: req.GuidanceScale2,
		Steps:          req.Steps,
		Seed:           req.Seed,
		RandomizeSeed:  req.RandomizeSeed,
	})
	if err != nil {
		return nil, err
	}
	return &Asset{
		Data:     result.Data,
		URL:      result.URL,
		Format:   result.Format,
		Seed:     result.Seed,
		Duration: req.Duration,
	}, nil
}

var _ Generator = (*WANGenerator)(nil)
