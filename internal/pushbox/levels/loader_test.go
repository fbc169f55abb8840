package levels_test

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/vovakirdan/tilelab/internal/pushbox"
	"github.com/vovakirdan/tilelab/internal/pushbox/levels"
)

// getTestdataPath returns path to testdata/levels.
func getTestdataPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "testdata", "levels")
}

func TestLoaderLoadAll(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvls, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) != 2 {
		t.Fatalf("expected 2 valid levels, got %d", len(lvls))
	}
	if lvls[0].ID != "corridor" || lvls[1].ID != "seed10" {
		t.Errorf("levels not sorted by id: %s, %s", lvls[0].ID, lvls[1].ID)
	}
}

func TestLoaderFixedLayout(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvl, err := loader.LoadByID("corridor")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Name != "Corridor" {
		t.Errorf("expected Name 'Corridor', got %q", lvl.Name)
	}
	if lvl.Metadata["author"] != "tilelab" {
		t.Errorf("expected author metadata, got %v", lvl.Metadata)
	}

	play, err := lvl.Playable()
	if err != nil {
		t.Fatalf("Playable failed: %v", err)
	}
	if play.Width() != 7 || play.Height() != 3 {
		t.Errorf("expected 7x3, got %dx%d", play.Width(), play.Height())
	}
	play.Move(pushbox.East)
	play.Move(pushbox.East)
	play.Move(pushbox.East)
	if !play.Solved() {
		t.Errorf("corridor should be solved after three pushes:\n%s", play)
	}
}

func TestLoaderGeneratedLayout(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())

	lvl, err := loader.LoadByID("seed10")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	if lvl.Settings == nil || lvl.Settings.NumBoxes != 5 {
		t.Fatalf("expected generator settings with 5 boxes, got %+v", lvl.Settings)
	}

	first, err := lvl.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	second, _ := lvl.Text()
	if first != second {
		t.Error("generated layout is not deterministic")
	}
	if rows := strings.Split(first, "\n"); len(rows) != 11 || len(rows[0]) != 14 {
		t.Errorf("expected 14x11 layout, got %d rows of %d", len(rows), len(rows[0]))
	}
}

func TestLoaderMissingLevel(t *testing.T) {
	loader := levels.NewLoader(getTestdataPath())
	if _, err := loader.LoadByID("nope"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := levels.NewLoader(filepath.Join(t.TempDir(), "missing")).LoadAll(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoaderSaveRoundTrip(t *testing.T) {
	loader := levels.NewLoader(filepath.Join(t.TempDir(), "pack"))
	seed := uint32(7)
	settings := pushbox.DefaultSettings(3)
	settings.ActionsSeed = &seed

	layout := "*****\n*P X*\n* B *\n*****"
	path, err := loader.Save(levels.Level{ID: "saved", Name: "Saved", Layout: layout, Settings: &settings})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "saved.yaml" {
		t.Errorf("expected saved.yaml, got %s", path)
	}

	lvl, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	text, err := lvl.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != layout {
		t.Errorf("layout changed on round trip:\n%q\nexpected\n%q", text, layout)
	}
	if lvl.Settings == nil || lvl.Settings.ActionsSeed == nil || *lvl.Settings.ActionsSeed != 7 {
		t.Errorf("settings lost on round trip: %+v", lvl.Settings)
	}
}
