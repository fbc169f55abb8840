package registry

import (
	"testing"

	"github.com/vovakirdan/tilelab/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string                           { return g.id }
func (g stubGame) Title() string                        { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig)             {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen)                  {}
func (g stubGame) State() core.GameState                { return core.GameState{} }

func TestRegisterCreateList(t *testing.T) {
	Register("zz_stub", func() Game { return stubGame{"zz_stub"} })
	Register("aa_stub", func() Game { return stubGame{"aa_stub"} })

	if !Exists("zz_stub") || !Exists("aa_stub") {
		t.Fatal("registered games should exist")
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true, expected false")
	}

	g, err := Create("aa_stub")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if g.ID() != "aa_stub" {
		t.Errorf("Create() id = %q, expected aa_stub", g.ID())
	}
	if _, err := Create("missing"); err == nil {
		t.Error("Create(missing) should fail")
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}
	found := false
	for _, info := range list {
		if info.ID == "zz_stub" {
			found = info.Title == "Stub zz_stub"
		}
	}
	if !found {
		t.Error("List() should include zz_stub with its title")
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		id   string
		f    Factory
	}{
		{"duplicate", "dup_stub", func() Game { return stubGame{"dup_stub"} }},
		{"mismatched id", "alias_stub", func() Game { return stubGame{"other"} }},
	}
	Register("dup_stub", func() Game { return stubGame{"dup_stub"} })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) should panic", tt.id)
				}
			}()
			Register(tt.id, tt.f)
		})
	}
}
