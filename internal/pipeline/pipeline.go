// Package pipeline wires the harvest, generate and trending stages to the
// configured files, archive and notifier.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/chyiyaqing/ideapack/internal/ai"
	"github.com/chyiyaqing/ideapack/internal/canon"
	"github.com/chyiyaqing/ideapack/internal/config"
	"github.com/chyiyaqing/ideapack/internal/generator"
	"github.com/chyiyaqing/ideapack/internal/notify"
	"github.com/chyiyaqing/ideapack/internal/notify/telegram"
	"github.com/chyiyaqing/ideapack/internal/render"
	"github.com/chyiyaqing/ideapack/internal/seeds"
	"github.com/chyiyaqing/ideapack/internal/source"
	"github.com/chyiyaqing/ideapack/internal/store"
	"github.com/chyiyaqing/ideapack/internal/trending"
)

type Pipeline struct {
	Config *config.Config
	// DB may be nil, in which case nothing is archived.
	DB *store.Store

	YouTube *source.YouTube
	Reddit  *source.Reddit
	Sources []source.Source

	// Notifier is nil when Telegram is not configured.
	Notifier notify.Notifier
	// Rand overrides the generator's random source when set.
	Rand generator.Rand
	Now  func() time.Time
}

func New(cfg *config.Config, db *store.Store) *Pipeline {
	yt := source.NewYouTube(cfg.YouTube)
	rd := source.NewReddit(cfg.Reddit)

	p := &Pipeline{
		Config:  cfg,
		DB:      db,
		YouTube: yt,
		Reddit:  rd,
		Sources: []source.Source{yt, rd, source.NewGoogleTrends(cfg.GoogleTrends)},
		Now:     time.Now,
	}
	if tg := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID); tg != nil {
		p.Notifier = tg
	}
	return p
}

type HarvestReport struct {
	RunID    string
	Pool     []source.ContentRecord
	Results  []source.Result
	Patterns seeds.Patterns
}

// Harvest fetches every source, extracts the seed patterns and writes the
// seed file. Source failures are reported in Results, not as an error.
func (p *Pipeline) Harvest(ctx context.Context) (*HarvestReport, error) {
	started := p.Now()

	pool, results := source.Harvest(ctx, p.Sources)
	patterns := seeds.Extract(pool, seeds.DefaultVocabulary())

	statuses := make(map[string]string, len(results))
	for _, r := range results {
		statuses[r.Source] = string(r.Status)
	}

	err := seeds.Save(p.Config.Paths.Seeds, seeds.File{
		GeneratedFrom: len(pool),
		GeneratedAt:   started.UTC(),
		Sources:       statuses,
		Patterns:      patterns,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Wrote %s from %d records", p.Config.Paths.Seeds, len(pool))

	rep := &HarvestReport{Pool: pool, Results: results, Patterns: patterns}
	if p.DB != nil {
		id, err := p.DB.SaveHarvest(started, pool, results, patterns)
		if err != nil {
			log.Printf("WARNING: archive harvest: %v", err)
		} else {
			rep.RunID = id
		}
	}
	return rep, nil
}

type GenerateReport struct {
	RunID       string
	Canon       canon.Canon
	CanonStatus canon.Status
	SeedStatus  seeds.LoadStatus
	Ideas       []generator.Idea
}

// Generate builds an idea pack and writes it to the output directory.
// draws and keep override the configured counts when positive.
func (p *Pipeline) Generate(ctx context.Context, draws, keep int) (*GenerateReport, error) {
	started := p.Now()

	c, canonStatus := canon.Load(p.Config.Paths.Canon)
	if canonStatus == canon.StatusMalformed {
		log.Printf("WARNING: %s is malformed, using default canon", p.Config.Paths.Canon)
	}

	var patterns seeds.Patterns
	f, seedStatus := seeds.Load(p.Config.Paths.Seeds)
	switch seedStatus {
	case seeds.StatusLoaded:
		patterns = f.Patterns
	case seeds.StatusMalformed:
		log.Printf("WARNING: %s is malformed, using defaults only", p.Config.Paths.Seeds)
	default:
		log.Printf("No %s found, using defaults only", p.Config.Paths.Seeds)
	}

	opts := generator.NewOptions(p.Config.Generate)
	if draws > 0 {
		opts.Draws = draws
	}
	if keep > 0 {
		opts.Keep = keep
	}
	opts.Scorer = p.scorer(c)

	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ideas := generator.New(c, patterns, generator.DefaultLists(), opts, rng).Build(ctx)
	if err := render.WritePack(p.Config.Paths.OutDir, ideas, c, started); err != nil {
		return nil, fmt.Errorf("write pack: %w", err)
	}
	log.Printf("Wrote %d ideas to %s", len(ideas), p.Config.Paths.OutDir)

	rep := &GenerateReport{Canon: c, CanonStatus: canonStatus, SeedStatus: seedStatus, Ideas: ideas}
	if p.DB != nil {
		id, err := p.DB.SaveIdeas(started, ideas)
		if err != nil {
			log.Printf("WARNING: archive ideas: %v", err)
		} else {
			rep.RunID = id
		}
	}

	p.notify(ctx, rep)
	return rep, nil
}

func (p *Pipeline) scorer(c canon.Canon) generator.Scorer {
	switch strings.ToLower(p.Config.Generate.Scoring) {
	case "off", "none":
		return nil
	case "llm":
		return ai.NewClient(p.Config.Ollama)
	default:
		return generator.Heuristic{Disallowed: c.Disallowed}
	}
}

func (p *Pipeline) notify(ctx context.Context, rep *GenerateReport) {
	if p.Notifier == nil || len(rep.Ideas) == 0 {
		return
	}
	msg := telegram.FormatPack(rep.Canon.Name, rep.Ideas, p.Config.Telegram.PackURL)
	if err := p.Notifier.Send(ctx, "", msg); err != nil {
		log.Printf("WARNING: telegram send: %v", err)
		return
	}
	if p.DB != nil && rep.RunID != "" {
		if err := p.DB.MarkNotified(rep.RunID); err != nil {
			log.Printf("WARNING: mark notified: %v", err)
		}
	}
	log.Printf("Pack sent to Telegram (%d ideas)", len(rep.Ideas))
}

// Trending collects the top-10 report and writes it next to the pack.
func (p *Pipeline) Trending(ctx context.Context) (trending.Report, error) {
	rep := trending.Collect(ctx, p.YouTube, p.Reddit, p.Now())
	if err := render.WriteTrending(p.Config.Paths.OutDir, rep); err != nil {
		return rep, fmt.Errorf("write trending: %w", err)
	}
	return rep, nil
}

// Run harvests and then generates with the configured counts. Errors are
// logged; a failed harvest still lets generation run on the previous
// seed file.
func (p *Pipeline) Run(ctx context.Context) {
	log.Println("Pipeline: harvesting...")
	if _, err := p.Harvest(ctx); err != nil {
		log.Printf("ERROR: harvest: %v", err)
	}

	log.Println("Pipeline: generating...")
	if _, err := p.Generate(ctx, 0, 0); err != nil {
		log.Printf("ERROR: generate: %v", err)
	}
	log.Println("Pipeline: done")
}
