package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSettings(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "level.yaml")
	if err := os.WriteFile(settingsPath, []byte("width: 12\nnumBoxes: 3\nseed: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		file     string
		args     []string
		width    int
		height   int
		numBoxes int
		seed     uint32
	}{
		{"file overrides config", settingsPath, nil, 12, 10, 3, 9},
		{"args override file", settingsPath, []string{"numBoxes=1", "seed=4"}, 12, 10, 1, 4},
		{"args only", "", []string{"height=8", "seed=7"}, 10, 8, 2, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := buildSettings("", tt.file, tt.args)
			if err != nil {
				t.Fatalf("buildSettings() error: %v", err)
			}
			if s.Width != tt.width || s.Height != tt.height || s.NumBoxes != tt.numBoxes || s.Seed != tt.seed {
				t.Errorf("buildSettings() = %+v, expected %dx%d boxes %d seed %d",
					s, tt.width, tt.height, tt.numBoxes, tt.seed)
			}
		})
	}
}

func TestBuildSettingsRejectsBadArgs(t *testing.T) {
	if _, err := buildSettings("", "", []string{"width"}); err == nil {
		t.Error("buildSettings() should reject an argument without '='")
	}
	if _, err := buildSettings("", filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("buildSettings() should fail on a missing settings file")
	}
}

func TestLoadLayout(t *testing.T) {
	dir := t.TempDir()
	text := "*****\n*PBX*\n*****\n"
	path := filepath.Join(dir, "level.txt")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := loadLayout(path)
	if err != nil {
		t.Fatalf("loadLayout() error: %v", err)
	}
	if got != text {
		t.Errorf("loadLayout() = %q, expected %q", got, text)
	}

	if _, err := loadLayout(filepath.Join(dir, "nope.txt")); err == nil {
		t.Error("loadLayout() of a missing file should fail")
	}
}
