package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/chyiyaqing/ideapack/internal/check"
	"github.com/chyiyaqing/ideapack/internal/config"
	"github.com/chyiyaqing/ideapack/internal/pipeline"
	"github.com/chyiyaqing/ideapack/internal/scheduler"
	"github.com/chyiyaqing/ideapack/internal/server"
	"github.com/chyiyaqing/ideapack/internal/store"
)

const configPath = "ideapack.yaml"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// check needs neither the database nor the pipeline.
	if os.Args[1] == "check" {
		cmdCheck(cfg)
		return
	}

	db, err := store.New(cfg.Paths.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	p := pipeline.New(cfg, db)

	switch os.Args[1] {
	case "harvest":
		cmdHarvest(p)
	case "generate":
		draws, keep := 0, 0
		if len(os.Args) > 2 {
			draws = atoiArg(os.Args[2], "n")
		}
		if len(os.Args) > 3 {
			keep = atoiArg(os.Args[3], "keep")
		}
		cmdGenerate(p, draws, keep)
	case "trending":
		cmdTrending(p)
	case "history":
		window := "7days"
		if len(os.Args) > 2 {
			window = os.Args[2]
		}
		cmdHistory(db, window)
	case "serve":
		cmdServe(db, cfg)
	case "run":
		cmdRun(db, cfg, p)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ideapack <command>

Commands:
  harvest                    Fetch trending content and write the seed file
  generate [n] [keep]        Draw n ideas, keep the best and write the pack
  trending                   Write the top-10 funny report (trending.html)
  check                      Verify API credentials; exits 1 on failure
  history  [24h|3days|7days|all]  List recent harvest/generate runs
  serve    [--addr=:8080]    Serve the output directory and run API
  run      [cron-expr] [--addr=:8080]  Harvest+generate on a schedule while serving
`)
}

func atoiArg(s, name string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Fatalf("Invalid %s %q: must be a positive integer", name, s)
	}
	return n
}

func cmdHarvest(p *pipeline.Pipeline) {
	rep, err := p.Harvest(context.Background())
	if err != nil {
		log.Fatalf("Harvest failed: %v", err)
	}

	fmt.Printf("\nSources:\n")
	for _, r := range rep.Results {
		fmt.Printf("  %s\n", r)
	}
	fmt.Printf("\nPatterns from %d records:\n", len(rep.Pool))
	for _, cat := range []string{"hooks", "settings", "objects", "formats"} {
		fmt.Printf("  %-9s %s\n", cat+":", strings.Join(rep.Patterns[cat], ", "))
	}
}

func cmdGenerate(p *pipeline.Pipeline, draws, keep int) {
	rep, err := p.Generate(context.Background(), draws, keep)
	if err != nil {
		log.Fatalf("Generate failed: %v", err)
	}

	fmt.Printf("\n=== %s Idea Pack (%d ideas, seeds %s, canon %s) ===\n\n",
		rep.Canon.Name, len(rep.Ideas), rep.SeedStatus, rep.CanonStatus)
	for i, it := range rep.Ideas {
		fmt.Printf("%2d. [%d | %ds] %s\n", i+1, it.Score, it.DurationSeconds, it.Title)
	}
	fmt.Printf("\nOpen %s/index.html and click Copy Next.\n", p.Config.Paths.OutDir)
}

func cmdTrending(p *pipeline.Pipeline) {
	rep, err := p.Trending(context.Background())
	if err != nil {
		log.Fatalf("Trending failed: %v", err)
	}
	fmt.Printf("Wrote %s/trending.json and %s/trending.html (%d YouTube, %d Reddit)\n",
		p.Config.Paths.OutDir, p.Config.Paths.OutDir, len(rep.YouTube), len(rep.Reddit))
}

func cmdCheck(cfg *config.Config) {
	p := pipeline.New(cfg, nil)
	c := &check.Checker{Getenv: os.Getenv, Reddit: p.Reddit, YouTube: p.YouTube}
	if !c.Run(context.Background(), os.Stdout, os.Stderr) {
		os.Exit(1)
	}
}

func cmdHistory(db *store.Store, window string) {
	runs, err := db.RecentRuns(window, 50)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Printf("No runs in %s window.\n", window)
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %-8s  %4d  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.RecordCount, r.ID)
		if r.Kind != store.KindHarvest {
			continue
		}
		results, err := db.SourceResults(r.ID)
		if err != nil {
			log.Printf("WARNING: source results for %s: %v", r.ID, err)
			continue
		}
		for _, sr := range results {
			line := fmt.Sprintf("    %s: %s (%d)", sr.Source, sr.Status, sr.Records)
			if sr.Error != "" {
				line += ": " + sr.Error
			}
			fmt.Println(line)
		}
	}
}

func cmdServe(db *store.Store, cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, httpAddr := parseRunArgs(os.Args[2:])
	srv := server.New(db, cfg.Paths.OutDir, httpAddr)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func cmdRun(db *store.Store, cfg *config.Config, p *pipeline.Pipeline) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	schedule, httpAddr := parseRunArgs(os.Args[2:])

	// Start HTTP server in background
	srv := server.New(db, cfg.Paths.OutDir, httpAddr)
	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Start cron scheduler (blocks until ctx is cancelled)
	if err := scheduler.Run(ctx, p, schedule); err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}
}

// parseRunArgs parses optional args: [cron-expr] [--addr=:8080]
func parseRunArgs(args []string) (schedule, httpAddr string) {
	httpAddr = ":8080"
	for _, arg := range args {
		if strings.HasPrefix(arg, "--addr=") {
			httpAddr = strings.TrimPrefix(arg, "--addr=")
		} else {
			schedule = arg
		}
	}
	return schedule, httpAddr
}
