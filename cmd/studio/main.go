package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"ministudio/internal/domain"
	"ministudio/internal/infra"
	"ministudio/internal/providers/video"
	"ministudio/internal/providers/wan"
	"ministudio/internal/storage"
	"ministudio/internal/studio"
)

func main() {
	var (
		choiceFlag    int
		promptFlag    string
		outFlag       string
		durationFlag  float64
		stepsFlag     int
		g1Flag        float64
		g2Flag        float64
		seedFlag      int64
		randomizeFlag bool
		syntheticFlag bool
	)

	flag.IntVar(&choiceFlag, "choice", 0, "preset scene to render (1-3)")
	flag.StringVar(&promptFlag, "prompt", "", "free-form prompt (overrides -choice)")
	flag.StringVar(&outFlag, "out", "", "output directory (default $OUTPUT_DIR or ./videos)")
	flag.Float64Var(&durationFlag, "duration", domain.DefaultDuration, "clip duration in seconds")
	flag.IntVar(&stepsFlag, "steps", domain.DefaultSteps, "inference steps")
	flag.Float64Var(&g1Flag, "g1", domain.DefaultGuidanceScale, "guidance scale (high-noise)")
	flag.Float64Var(&g2Flag, "g2", domain.DefaultGuidanceScale2, "guidance scale 2 (low-noise)")
	flag.Int64Var(&seedFlag, "seed", domain.DefaultSeed, "generation seed")
	flag.BoolVar(&randomizeFlag, "randomize", true, "randomize the seed")
	flag.BoolVar(&syntheticFlag, "synthetic", false, "skip the space and render a synthetic placeholder")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt, err := resolveInput(choiceFlag, promptFlag)
	if err != nil {
		exitWithError(err)
	}

	outputDir := outFlag
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	store, err := storage.NewFileStore(outputDir)
	if err != nil {
		exitWithError(err)
	}

	var generator video.Generator
	if syntheticFlag {
		generator = video.NewSyntheticGenerator()
	} else {
		client, err := wan.Connect(ctx, wan.Options{
			Targets: cfg.SpaceTargets,
			Token:   cfg.HFToken,
			Logger:  &logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("wan space unreachable, using synthetic generator")
			generator = video.NewSyntheticGenerator()
		} else {
			generator = video.NewWANGenerator(client)
		}
	}

	svc, err := studio.NewService(studio.Options{
		Generator:   generator,
		Store:       store,
		Logger:      &logger,
		BaseURL:     cfg.StorageBaseURL,
		MaxAttempts: cfg.GenerateMaxAttempts,
		Timeout:     cfg.GenerateTimeout,
	})
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Generating video for: %s\n", prompt)
	artifact, err := svc.Generate(ctx, prompt, domain.GenerationSettings{
		Duration:       durationFlag,
		Steps:          stepsFlag,
		GuidanceScale:  g1Flag,
		GuidanceScale2: g2Flag,
		Seed:           seedFlag,
		RandomizeSeed:  randomizeFlag,
	})
	if err != nil {
		exitWithError(err)
	}

	fmt.Printf("Saved: %s\n", artifact.Path)
	fmt.Printf("Seed:  %d\n", artifact.Seed)
}

// resolveInput turns flags (or an interactive menu) into the prompt text.
func resolveInput(choice int, prompt string) (string, error) {
	if strings.TrimSpace(prompt) != "" {
		return domain.ResolvePrompt(prompt)
	}
	if choice != 0 {
		p, ok := domain.PresetByChoice(choice)
		if !ok {
			return "", fmt.Errorf("unknown preset choice %d", choice)
		}
		return p.Prompt, nil
	}
	return promptInteractively()
}

func promptInteractively() (string, error) {
	fmt.Println("Pick a scene:")
	for _, p := range domain.Presets {
		fmt.Printf("  %d) %s\n", p.Choice, p.Name)
	}
	fmt.Print("Enter 1-3 or type your own prompt: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return domain.ResolvePrompt(line)
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
