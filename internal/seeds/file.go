package seeds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
)

// LoadStatus tells the caller what happened to an optional input file.
type LoadStatus string

const (
	StatusLoaded    LoadStatus = "loaded"
	StatusMissing   LoadStatus = "missing"
	StatusMalformed LoadStatus = "malformed"
)

// File is the on-disk seed record.
type File struct {
	GeneratedFrom int               `json:"generated_from"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Sources       map[string]string `json:"sources,omitempty"`
	Patterns      Patterns          `json:"patterns"`
}

// Save writes f as indented JSON, creating the parent directory.
func Save(path string, f File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seeds: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write seeds: %w", err)
	}
	return nil
}

// Load reads a seed file. A missing or unreadable file is not an error;
// the status says which case applied and the returned File is nil.
//
// Each category under "patterns" is taken independently: only lists of
// strings are kept and anything else is ignored. Mistyped metadata fields
// are left at their zero value.
func Load(path string) (*File, LoadStatus) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, StatusMissing
		}
		return nil, StatusMalformed
	}
	if !gjson.ValidBytes(data) {
		return nil, StatusMalformed
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, StatusMalformed
	}

	f := File{Patterns: Patterns{}}
	if v := root.Get("generated_from"); v.Type == gjson.Number {
		f.GeneratedFrom = int(v.Int())
	}
	if v := root.Get("generated_at"); v.Type == gjson.String {
		if t, err := time.Parse(time.RFC3339Nano, v.Str); err == nil {
			f.GeneratedAt = t
		}
	}
	if v := root.Get("sources"); v.IsObject() {
		v.ForEach(func(k, st gjson.Result) bool {
			if st.Type == gjson.String {
				if f.Sources == nil {
					f.Sources = make(map[string]string)
				}
				f.Sources[k.Str] = st.Str
			}
			return true
		})
	}
	if v := root.Get("patterns"); v.IsObject() {
		v.ForEach(func(k, list gjson.Result) bool {
			if values, ok := stringList(list); ok {
				f.Patterns[k.Str] = values
			}
			return true
		})
	}
	return &f, StatusLoaded
}

// stringList returns list's elements when it is an array of strings.
func stringList(list gjson.Result) ([]string, bool) {
	if !list.IsArray() {
		return nil, false
	}
	items := list.Array()
	values := make([]string, 0, len(items))
	for _, it := range items {
		if it.Type != gjson.String {
			return nil, false
		}
		values = append(values, it.Str)
	}
	return values, true
}
