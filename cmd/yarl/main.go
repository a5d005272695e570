// Package main is the entry point for yarl.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"

	"github.com/RafeHatfield/yarl-sub006/internal/game"
	"github.com/RafeHatfield/yarl-sub006/internal/telemetry"
)

func main() {
	seed := flag.Int64("seed", 0, "dungeon seed (0 = random)")
	savePath := flag.String("save", "yarl-save.yaml", "save file path")
	resume := flag.Bool("resume", false, "resume from the save file")
	flag.Parse()

	// Load .env file for local development.
	// This makes HONEYCOMB_YARL_API_KEY available.
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Game will run without observability")
		// Continue without telemetry - game still works
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	g, err := game.New(game.Config{
		Seed:     *seed,
		SavePath: *savePath,
		Resume:   *resume,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}

	if err := g.Run(ctx); err != nil {
		g.Close()
		log.Fatalf("Game error: %v", err)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	apiKey := os.Getenv("HONEYCOMB_YARL_API_KEY")
	dataset := os.Getenv("HONEYCOMB_YARL_DATASET")
	if dataset == "" {
		dataset = "yarl" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
