package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/fittrack/internal/catalog"
	"github.com/claude/fittrack/internal/program"
	"github.com/claude/fittrack/internal/syncer"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	planPath := flag.String("plan", "", "path to a YAML program plan")
	apiURL := flag.String("api-url", "", "FitTrack API URL (defaults to $API_URL)")
	userID := flag.Int64("user", 1, "user who owns the program")
	cacheDir := flag.String("cache-dir", "", "catalog cache directory (defaults to ~/.fittrack)")
	activate := flag.Bool("activate", false, "make the saved program the user's active program")
	dryRun := flag.Bool("dry-run", false, "print the request body instead of saving")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-plan", Version)
		return
	}

	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *planPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fittrack-plan -plan <file.yaml> [-api-url URL] [-user ID] [-activate] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *apiURL == "" {
		*apiURL = os.Getenv("API_URL")
	}
	if *apiURL == "" {
		fmt.Fprintf(os.Stderr, "Error: -api-url or API_URL is required\n")
		os.Exit(1)
	}

	if *cacheDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*cacheDir = filepath.Join(homeDir, ".fittrack")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *planPath, *apiURL, *cacheDir, *userID, *activate, *dryRun, log); err != nil {
		log.Error("fittrack-plan failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, planPath, apiURL, cacheDir string, userID int64, activate, dryRun bool, log *slog.Logger) error {
	plan, err := readPlan(planPath)
	if err != nil {
		return err
	}

	cache, err := catalog.OpenSQLiteCache(cacheDir)
	if err != nil {
		return fmt.Errorf("opening catalog cache: %w", err)
	}
	defer cache.Close()

	store := program.NewStore(program.Program{})
	if err := build(store, plan, catalogLookup(ctx, catalog.NewClient(apiURL, cache, log))); err != nil {
		return err
	}
	snap := store.Snapshot()
	log.Info("plan built", "name", snap.Name, "workouts", len(snap.Workouts))

	if dryRun {
		wire, err := syncer.ToWire(snap)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(wire)
	}

	client := syncer.NewClient(apiURL)
	syn := syncer.New(client, store, userID, log)
	defer syn.Close()

	saved, err := syn.Save(ctx)
	if err != nil {
		return err
	}
	log.Info("program saved", "program_id", saved.ID)

	if activate {
		if err := client.ActivateProgram(ctx, userID, saved.ID); err != nil {
			return fmt.Errorf("activating program: %w", err)
		}
		log.Info("program activated", "program_id", saved.ID, "user_id", userID)
	}
	return nil
}
