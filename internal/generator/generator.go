// Package generator fills the short-video prompt template with sampled
// values and produces a deduplicated, optionally scored idea pack.
package generator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chyiyaqing/ideapack/internal/canon"
	"github.com/chyiyaqing/ideapack/internal/config"
	"github.com/chyiyaqing/ideapack/internal/seeds"
)

// Rand is the randomness the generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Scorer rates an idea; higher is better.
type Scorer interface {
	Score(ctx context.Context, idea Idea) (int, error)
}

type Idea struct {
	Title           string    `json:"title"`
	Style           string    `json:"style"`
	Setting         string    `json:"setting"`
	Object          string    `json:"object"`
	Hook            string    `json:"hook"`
	Format          string    `json:"format"`
	Beats           []string  `json:"beats"`
	Camera          string    `json:"camera"`
	Audio           string    `json:"audio"`
	DurationSeconds int       `json:"duration_s"`
	AspectRatio     string    `json:"aspect_ratio"`
	PromptText      string    `json:"prompt_text"`
	Score           int       `json:"score"`
	FromSeeds       []string  `json:"from_seeds,omitempty"`
	TrendNote       TrendNote `json:"trend_note"`
}

// TrendNote records how much the trend seeds influenced an idea.
type TrendNote struct {
	UsedSeeds   bool     `json:"used_seeds"`
	SettingPool []string `json:"setting_pool"`
	FormatPool  []string `json:"format_pool"`
}

type Options struct {
	Draws               int
	Keep                int
	FallbackProbability float64
	MinDuration         int
	MaxDuration         int
	AspectRatio         string
	// Scorer is nil when scoring is off; ideas then keep draw order.
	Scorer Scorer
}

// NewOptions converts the generate config section, filling gaps with
// defaults. The scorer is left for the caller to set.
func NewOptions(cfg config.GenerateConfig) Options {
	return Options{
		Draws:               cfg.Draws,
		Keep:                cfg.Keep,
		FallbackProbability: cfg.FallbackProbability,
		MinDuration:         cfg.MinDuration,
		MaxDuration:         cfg.MaxDuration,
		AspectRatio:         cfg.AspectRatio,
	}.withDefaults()
}

// withDefaults replaces zero or out-of-range values with the defaults.
func (o Options) withDefaults() Options {
	if o.Draws <= 0 {
		o.Draws = 60
	}
	if o.Keep <= 0 {
		o.Keep = 30
	}
	if o.MinDuration <= 0 {
		o.MinDuration = 10
	}
	if o.MaxDuration < o.MinDuration {
		o.MaxDuration = o.MinDuration
	}
	if o.AspectRatio == "" {
		o.AspectRatio = "16:9"
	}
	return o
}

type Generator struct {
	canon      canon.Canon
	continuity string
	patterns   seeds.Patterns
	lists      Lists
	opts       Options
	rng        Rand
	caser      cases.Caser
}

// New returns a generator. patterns may be nil, in which case every value
// comes from lists.
func New(c canon.Canon, patterns seeds.Patterns, lists Lists, opts Options, rng Rand) *Generator {
	return &Generator{
		canon:      c,
		continuity: c.ContinuityRules(),
		patterns:   patterns,
		lists:      lists,
		opts:       opts.withDefaults(),
		rng:        rng,
		caser:      cases.Title(language.English),
	}
}

// Build draws Options.Draws ideas, drops duplicate titles, scores them when
// a scorer is configured and returns at most Options.Keep.
func (g *Generator) Build(ctx context.Context) []Idea {
	drawn := make([]Idea, 0, g.opts.Draws)
	for i := 0; i < g.opts.Draws; i++ {
		drawn = append(drawn, g.MakeIdea())
	}

	ideas := Dedupe(drawn)
	log.Printf("Generated %d ideas, %d unique titles", len(drawn), len(ideas))

	if g.opts.Scorer != nil {
		ideas = scoreAll(ctx, g.opts.Scorer, Heuristic{Disallowed: g.canon.Disallowed}, ideas)
	}

	if len(ideas) > g.opts.Keep {
		ideas = ideas[:g.opts.Keep]
	}
	return ideas
}

// MakeIdea samples one value per category and fills the template.
func (g *Generator) MakeIdea() Idea {
	var fromSeeds []string

	setting, seeded := g.pick(seeds.Settings, g.lists.Settings)
	if seeded {
		fromSeeds = append(fromSeeds, seeds.Settings)
	}
	object, seeded := g.pick(seeds.Objects, g.lists.Objects)
	if seeded {
		fromSeeds = append(fromSeeds, seeds.Objects)
	}
	hook, seeded := g.pick(seeds.Hooks, g.lists.Hooks)
	if seeded {
		fromSeeds = append(fromSeeds, seeds.Hooks)
	}
	format, seeded := g.pick(seeds.Formats, g.lists.Formats)
	if seeded {
		fromSeeds = append(fromSeeds, seeds.Formats)
	}

	style := g.choice(g.lists.Styles)
	camera := g.choice(g.lists.Camera)
	audio := g.choice(g.lists.Audio)
	caption := g.choice(g.lists.Captions)
	move := g.choice(g.canon.SignatureMoves)
	duration := g.opts.MinDuration + g.rng.IntN(g.opts.MaxDuration-g.opts.MinDuration+1)

	c := g.canon
	title := fmt.Sprintf("%s vs. the %s %s", c.Name, g.caser.String(setting), g.caser.String(format))
	beats := []string{
		fmt.Sprintf("Open (%s). Wide: in a %s, %s (%s, %s) notices a %s.", hook, setting, c.Name, c.Coat, c.Accessories, object),
		fmt.Sprintf("Medium: the %s plays out; %s answers with a %s.", format, c.Name, move),
		fmt.Sprintf("Close: deadpan punchline; caption card: \"%s\"; 0.5s hold; cut.", caption),
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "title: %s\n", title)
	fmt.Fprintf(&sb, "character: %s: %s, %s, %s; accessories: %s\n", c.Name, c.Coat, c.Eyes, c.Size, c.Accessories)
	fmt.Fprintf(&sb, "personality: %s; voice: %s\n", c.Personality, c.Voice)
	fmt.Fprintf(&sb, "style: %s\n", style)
	fmt.Fprintf(&sb, "beats: %s\n", strings.Join(beats, " | "))
	fmt.Fprintf(&sb, "camera: %s\n", camera)
	fmt.Fprintf(&sb, "audio: %s\n", audio)
	fmt.Fprintf(&sb, "duration_s: %d\n", duration)
	fmt.Fprintf(&sb, "aspect_ratio: %s\n", g.opts.AspectRatio)
	sb.WriteString(g.continuity + "\n")
	sb.WriteString("Rules: clear silhouette; readable action; avoid tiny text; simple background.")

	return Idea{
		Title:           title,
		Style:           style,
		Setting:         setting,
		Object:          object,
		Hook:            hook,
		Format:          format,
		Beats:           beats,
		Camera:          camera,
		Audio:           audio,
		DurationSeconds: duration,
		AspectRatio:     g.opts.AspectRatio,
		PromptText:      sb.String(),
		FromSeeds:       fromSeeds,
		TrendNote: TrendNote{
			UsedSeeds:   len(g.patterns) > 0,
			SettingPool: g.patterns[seeds.Settings],
			FormatPool:  g.patterns[seeds.Formats],
		},
	}
}

// pick returns a value for category and whether it came from the seeds.
// Seeds are consulted only when the category has a non-empty seed list and
// the fallback roll does not hit.
func (g *Generator) pick(category string, defaults []string) (string, bool) {
	if pool := g.patterns[category]; len(pool) > 0 && g.rng.Float64() >= g.opts.FallbackProbability {
		return pool[g.rng.IntN(len(pool))], true
	}
	return g.choice(defaults), false
}

func (g *Generator) choice(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[g.rng.IntN(len(list))]
}

// Dedupe keeps the first idea for each case-insensitive title.
func Dedupe(ideas []Idea) []Idea {
	seen := make(map[string]bool, len(ideas))
	out := make([]Idea, 0, len(ideas))
	for _, it := range ideas {
		k := strings.ToLower(strings.TrimSpace(it.Title))
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

// scoreAll sets each idea's score and sorts by score, highest first,
// keeping draw order among equals. Ideas the scorer fails on get the
// fallback score.
func scoreAll(ctx context.Context, scorer, fallback Scorer, ideas []Idea) []Idea {
	scored := make([]Idea, len(ideas))
	copy(scored, ideas)

	for i := range scored {
		s, err := scorer.Score(ctx, scored[i])
		if err != nil {
			log.Printf("WARNING: score %q: %v", scored[i].Title, err)
			s, _ = fallback.Score(ctx, scored[i])
		}
		scored[i].Score = s
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
