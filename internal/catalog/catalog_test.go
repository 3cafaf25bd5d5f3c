package catalog

import (
	"testing"

	"github.com/acquagyn/swimeval/internal/model"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadLevels(t *testing.T) {
	c := loadCatalog(t)

	want := []model.Level{
		model.LevelBaby1,
		model.LevelBaby2,
		model.LevelBaby3,
		model.LevelAdapt,
		model.LevelInit,
		model.LevelPerf1,
		model.LevelPerf2,
		model.LevelPerf3,
	}
	got := c.Levels()
	if len(got) != len(want) {
		t.Fatalf("got %d levels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntriesComplete(t *testing.T) {
	c := loadCatalog(t)

	for _, e := range c.Entries() {
		if len(e.Activities) != 10 {
			t.Errorf("%s: %d activities, want 10", e.Level, len(e.Activities))
		}
		if e.Objective == "" {
			t.Errorf("%s: missing objective", e.Level)
		}
		if e.Image == "" {
			t.Errorf("%s: missing image", e.Level)
		}
		seen := make(map[string]bool)
		for _, a := range e.Activities {
			if a.ID == "" || a.Name == "" {
				t.Errorf("%s: activity with empty id or name: %+v", e.Level, a)
			}
			if seen[a.ID] {
				t.Errorf("%s: duplicate activity id %q", e.Level, a.ID)
			}
			seen[a.ID] = true
		}
	}
}

func TestGet(t *testing.T) {
	c := loadCatalog(t)

	e, ok := c.Get(model.LevelInit)
	if !ok {
		t.Fatal("Get(Iniciação) not found")
	}
	if e.Level != model.LevelInit {
		t.Errorf("entry level = %q", e.Level)
	}
	if _, ok := c.Get(model.Level("Tubarão")); ok {
		t.Error("Get(unknown) reported found")
	}
}

func TestPromotionTargets(t *testing.T) {
	c := loadCatalog(t)

	tests := []struct {
		level model.Level
		want  []model.Level
	}{
		{
			level: model.LevelBaby1,
			want: []model.Level{
				model.LevelBaby2, model.LevelBaby3, model.LevelAdapt,
				model.LevelInit, model.LevelPerf1, model.LevelPerf2, model.LevelPerf3,
			},
		},
		{
			level: model.LevelPerf2,
			want:  []model.Level{model.LevelPerf3},
		},
		{level: model.LevelPerf3, want: nil},
		{level: model.Level("Tubarão"), want: nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := c.PromotionTargets(tt.level)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d targets %v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("target[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOrdinalMatchesCatalogOrder(t *testing.T) {
	c := loadCatalog(t)

	for i, lvl := range c.Levels() {
		ord, ok := c.Ordinal(lvl)
		if !ok || ord != i {
			t.Errorf("Ordinal(%q) = %d, %v; want %d, true", lvl, ord, ok, i)
		}
	}
	if _, ok := c.Ordinal(model.Level("Golfinho")); ok {
		t.Error("Ordinal(unknown) reported found")
	}
}

func TestColorSchemes(t *testing.T) {
	c := loadCatalog(t)

	for _, e := range c.Entries() {
		for _, col := range []Color{e.Colors.Primary, e.Colors.Secondary, e.Colors.Accent} {
			if err := col.validate(); err != nil {
				t.Errorf("%s: bad color %q: %v", e.Level, col, err)
			}
		}
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b := Color("#10B981").RGB()
	if r != 0x10 || g != 0xB9 || b != 0x81 {
		t.Errorf("RGB() = %d,%d,%d", r, g, b)
	}
}
