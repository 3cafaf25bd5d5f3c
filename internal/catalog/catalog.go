// Package catalog holds the static swim-skill curriculum: for each level
// its ordered activities, color scheme, objective text, and mascot image,
// combined in a single entry so the pieces cannot drift apart.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/acquagyn/swimeval/internal/model"
)

//go:embed data/levels.json
var dataFS embed.FS

// Color is a "#RRGGBB" hex color.
type Color string

// RGB decomposes the color into its channels. Entries are validated on
// load, so a malformed color cannot reach here.
func (c Color) RGB() (r, g, b int) {
	r, _ = hexByte(string(c)[1:3])
	g, _ = hexByte(string(c)[3:5])
	b, _ = hexByte(string(c)[5:7])
	return r, g, b
}

func hexByte(s string) (int, error) {
	v, err := strconv.ParseUint(s, 16, 8)
	return int(v), err
}

func (c Color) validate() error {
	if len(c) != 7 || c[0] != '#' {
		return fmt.Errorf("color %q: want #RRGGBB", c)
	}
	for _, part := range []string{string(c)[1:3], string(c)[3:5], string(c)[5:7]} {
		if _, err := hexByte(part); err != nil {
			return fmt.Errorf("color %q: %w", c, err)
		}
	}
	return nil
}

// ColorScheme is a level's display palette.
type ColorScheme struct {
	Primary   Color `json:"primary"`
	Secondary Color `json:"secondary"`
	Accent    Color `json:"accent"`
}

// Entry is the composite catalog record for one level.
type Entry struct {
	Level      model.Level      `json:"level"`
	Colors     ColorScheme      `json:"colors"`
	Objective  string           `json:"objective"`
	Image      string           `json:"image"`
	Activities []model.Activity `json:"activities"`
}

// Catalog is the immutable level registry, loaded once at process start.
type Catalog struct {
	entries []Entry
	index   map[model.Level]int
}

// Load parses and validates the embedded curriculum.
func Load() (*Catalog, error) {
	data, err := dataFS.ReadFile("data/levels.json")
	if err != nil {
		return nil, fmt.Errorf("read catalog data: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse catalog data: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{entries: entries, index: make(map[model.Level]int, len(entries))}
	for i, e := range entries {
		if e.Level == "" {
			return nil, fmt.Errorf("entry %d: missing level name", i)
		}
		if _, dup := c.index[e.Level]; dup {
			return nil, fmt.Errorf("duplicate level %q", e.Level)
		}
		if len(e.Activities) == 0 {
			return nil, fmt.Errorf("level %q: no activities", e.Level)
		}
		ids := make(map[string]bool, len(e.Activities))
		for _, a := range e.Activities {
			if a.ID == "" || a.Name == "" {
				return nil, fmt.Errorf("level %q: activity with empty id or name", e.Level)
			}
			if ids[a.ID] {
				return nil, fmt.Errorf("level %q: duplicate activity id %q", e.Level, a.ID)
			}
			ids[a.ID] = true
		}
		for _, col := range []Color{e.Colors.Primary, e.Colors.Secondary, e.Colors.Accent} {
			if err := col.validate(); err != nil {
				return nil, fmt.Errorf("level %q: %w", e.Level, err)
			}
		}
		c.index[e.Level] = i
	}
	return c, nil
}

// Levels returns all levels in their fixed promotion order.
func (c *Catalog) Levels() []model.Level {
	out := make([]model.Level, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Level
	}
	return out
}

// Entries returns all catalog entries in level order.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Get returns the entry for a level.
func (c *Catalog) Get(level model.Level) (Entry, bool) {
	i, ok := c.index[level]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Ordinal returns the position of a level in the fixed order.
func (c *Catalog) Ordinal(level model.Level) (int, bool) {
	i, ok := c.index[level]
	return i, ok
}

// PromotionTargets returns the levels strictly after the given one, in
// order. The last level (and an unknown level) has no valid targets.
func (c *Catalog) PromotionTargets(level model.Level) []model.Level {
	i, ok := c.index[level]
	if !ok || i == len(c.entries)-1 {
		return nil
	}
	out := make([]model.Level, 0, len(c.entries)-i-1)
	for _, e := range c.entries[i+1:] {
		out = append(out, e.Level)
	}
	return out
}
