// Package canon holds the fixed description of the recurring character that
// every generated prompt is written around.
package canon

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Canon is the character record. It is read once per run and never
// modified afterwards.
type Canon struct {
	Name           string   `json:"name"`
	Coat           string   `json:"coat"`
	Eyes           string   `json:"eyes"`
	Size           string   `json:"size"`
	Accessories    string   `json:"accessories"`
	Voice          string   `json:"voice"`
	Personality    string   `json:"personality"`
	SignatureMoves []string `json:"signature_moves"`
	Disallowed     []string `json:"disallowed"`
	OneLiner       string   `json:"one_liner"`
}

// Status reports how the override file was handled.
type Status string

const (
	StatusDefault   Status = "default"
	StatusMerged    Status = "merged"
	StatusMalformed Status = "malformed"
)

func Default() Canon {
	return Canon{
		Name:        "Baxter von Pounce",
		Coat:        "plush grey with white muzzle, chest, and paws",
		Eyes:        "oversized bright green",
		Size:        "small, plush, round-faced",
		Accessories: "navy tie with white diagonal stripes; tiny espresso cup; pen",
		Voice:       "executive silent-film vibe (no dialogue; occasional approving hum)",
		Personality: "decisive, mildly smug, caffeine-powered; consummate boardroom boss",
		SignatureMoves: []string{
			"dramatic espresso sip",
			"slow tail flick before a decision",
			"pressing the desk intercom",
			"approving nod",
		},
		Disallowed: []string{
			"more than one cat",
			"crowded scenes",
			"tiny unreadable text",
			"real company logos/brands",
			"overt politics",
		},
		OneLiner: "A plush grey-and-white executive cat with huge green eyes and a navy striped tie, ruling a NYC boardroom.",
	}
}

// Load merges the override file at path over the defaults. Only non-empty
// override values replace defaults. A missing or malformed file yields the
// defaults unchanged.
func Load(path string) (Canon, Status) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, StatusDefault
		}
		return c, StatusMalformed
	}

	var override Canon
	if err := json.Unmarshal(data, &override); err != nil {
		return Default(), StatusMalformed
	}
	c.merge(override)
	return c, StatusMerged
}

func (c *Canon) merge(o Canon) {
	setStr := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	setStr(&c.Name, o.Name)
	setStr(&c.Coat, o.Coat)
	setStr(&c.Eyes, o.Eyes)
	setStr(&c.Size, o.Size)
	setStr(&c.Accessories, o.Accessories)
	setStr(&c.Voice, o.Voice)
	setStr(&c.Personality, o.Personality)
	setStr(&c.OneLiner, o.OneLiner)
	if len(o.SignatureMoves) > 0 {
		c.SignatureMoves = o.SignatureMoves
	}
	if len(o.Disallowed) > 0 {
		c.Disallowed = o.Disallowed
	}
}

// ContinuityRules is the constraint line appended to every prompt.
func (c Canon) ContinuityRules() string {
	return fmt.Sprintf("Continuity: single cat only (%s); on-model appearance at all times: %s, %s, %s, accessories: %s. "+
		"Maintain %s; preferred actions include %s. Avoid: %s. "+
		"At most 2 human extras if needed; simple, readable motion; no tiny text; avoid crowds and complex staging.",
		c.Name, c.Coat, c.Eyes, c.Size, c.Accessories,
		c.Voice, strings.Join(c.SignatureMoves, ", "), strings.Join(c.Disallowed, ", "))
}
