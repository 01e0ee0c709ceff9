package seeds

// Category names shared by the extractor and the generator.
const (
	Hooks    = "hooks"
	Settings = "settings"
	Objects  = "objects"
	Formats  = "formats"
)

// Categories lists the category names in canonical order.
var Categories = []string{Hooks, Settings, Objects, Formats}

// Rule maps search terms to the label that is counted when they match.
// EachMatch rules count every occurrence of every term; other rules count
// at most one hit per record.
type Rule struct {
	Label     string
	Terms     []string
	EachMatch bool
}

// Category is one extraction bucket. Fallback is used verbatim when no rule
// matches anywhere in the pool.
type Category struct {
	Name     string
	TopK     int
	Rules    []Rule
	Fallback []string
}

type Vocabulary []Category

func keywordRules(words ...string) []Rule {
	rules := make([]Rule, len(words))
	for i, w := range words {
		rules[i] = Rule{Label: w, Terms: []string{w}, EachMatch: true}
	}
	return rules
}

// DefaultVocabulary returns a fresh copy of the built-in vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		{
			Name: Hooks,
			TopK: 3,
			Rules: []Rule{
				{Label: "POV-style cold open", Terms: []string{"pov"}},
			},
			Fallback: []string{"POV-style cold open"},
		},
		{
			Name:     Settings,
			TopK:     6,
			Rules:    keywordRules("office", "elevator", "subway", "boardroom", "taxi", "bodega", "lobby", "corridor", "coffee cart"),
			Fallback: []string{"office", "elevator", "subway", "boardroom", "bodega", "taxi"},
		},
		{
			Name:     Objects,
			TopK:     6,
			Rules:    keywordRules("banana", "bagel", "chair", "box", "note", "coffee", "badge", "briefcase"),
			Fallback: []string{"banana", "chair", "box", "note", "coffee", "briefcase"},
		},
		{
			Name: Formats,
			TopK: 3,
			Rules: []Rule{
				{Label: "prank / bait-and-switch", Terms: []string{"prank", "trick", "swap", "fake", "sticker", "duet", "reaction", "meme"}},
			},
			Fallback: []string{"prank / bait-and-switch"},
		},
	}
}
