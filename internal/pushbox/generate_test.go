package pushbox

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tilelab/internal/settings"
)

func TestGenerateLevelValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Settings)
		contains string
	}{
		{"height too large", func(s *Settings) { s.Height = 21 }, "Specified (height=21) > (kMaxRoomSize=20) "},
		{"width too large", func(s *Settings) { s.Width = 25 }, "Specified (width=25) > (kMaxRoomSize=20) "},
		{"too few boxes", func(s *Settings) { s.NumBoxes = 0 }, "Specified (numBoxes=0) < (kMinBoxes=1) "},
		{"too few steps", func(s *Settings) { s.RoomSteps = 4 }, "Specified (roomSteps=4) < (kMinSteps=5) "},
		{"too narrow", func(s *Settings) { s.Width = 2 }, "kMinRoomSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings(1)
			tt.mutate(&s)
			_, err := GenerateLevel(s)
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("GenerateLevel() error = %v, expected it to contain %q", err, tt.contains)
			}
		})
	}
}

func checkLevel(t *testing.T, level string, width, height, boxes int) {
	t.Helper()
	rows := strings.Split(level, "\n")
	if len(rows) != height {
		t.Fatalf("level has %d rows, expected %d:\n%s", len(rows), height, level)
	}
	for i, row := range rows {
		if len(row) != width {
			t.Errorf("row %d has width %d, expected %d", i, len(row), width)
		}
	}
	if got := strings.Count(level, "B") + strings.Count(level, "&"); got != boxes {
		t.Errorf("level has %d boxes, expected %d", got, boxes)
	}
	if got := strings.Count(level, "X") + strings.Count(level, "&"); got != boxes {
		t.Errorf("level has %d targets, expected %d", got, boxes)
	}
	if got := strings.Count(level, "P"); got != 1 {
		t.Errorf("level has %d players, expected 1", got)
	}
	if strings.Count(level, "&") == boxes {
		t.Error("level is already solved")
	}
	for x := range width {
		if rows[0][x] != WallChar || rows[height-1][x] != WallChar {
			t.Errorf("outer wall missing at column %d", x)
		}
	}
}

func TestGenerateLevel(t *testing.T) {
	s := Settings{Seed: 10, Width: 14, Height: 11, NumBoxes: 5, RoomSteps: 20}
	level, err := GenerateLevel(s)
	if err != nil {
		t.Fatalf("GenerateLevel() failed: %v", err)
	}
	checkLevel(t, level, 14, 11, 5)
	if strings.Index(level, "\n") != 14 {
		t.Errorf("first newline at %d, expected 14", strings.Index(level, "\n"))
	}
}

func TestGenerateLevelDefaults(t *testing.T) {
	generated := 0
	for seed := range uint32(5) {
		level, err := GenerateLevel(DefaultSettings(seed))
		if err != nil {
			continue
		}
		generated++
		checkLevel(t, level, 14, 14, 4)
	}
	if generated == 0 {
		t.Error("no default level generated for seeds 0..4")
	}
}

func TestGenerateLevelDeterministic(t *testing.T) {
	room, targets, actions := uint32(11), uint32(22), uint32(33)
	s := Settings{Seed: 10, Width: 12, Height: 10, NumBoxes: 3, RoomSteps: 20,
		RoomSeed: &room, TargetsSeed: &targets, ActionsSeed: &actions}

	first, err1 := GenerateLevel(s)
	second, err2 := GenerateLevel(s)
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("GenerateLevel() errors differ: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("GenerateLevel() is not deterministic:\n%s\n---\n%s", first, second)
	}
}

func TestGenerateLevelImpossible(t *testing.T) {
	s := Settings{Seed: 10, Width: 5, Height: 5, NumBoxes: 36, RoomSteps: 20}
	_, err := GenerateLevel(s)
	if !errors.Is(err, ErrRetriesExhausted) && !errors.Is(err, ErrTopology) {
		t.Errorf("GenerateLevel() error = %v, expected a retry error", err)
	}
}

func TestGenerateScoresAboveZero(t *testing.T) {
	room, err := Generate(Settings{Seed: 10, Width: 14, Height: 11, NumBoxes: 5, RoomSteps: 20})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if room.Score() <= 0 {
		t.Errorf("Score() = %v, expected > 0", room.Score())
	}
	if room.BoxOnTarget() || room.PlayerOnTarget() {
		t.Error("generated room starts with a box or the player on a target")
	}
}

func TestSubSeedsKeepOrder(t *testing.T) {
	base := DefaultSettings(99)
	room, targets, actions := base.subSeeds()

	explicit := uint32(5)
	withRoom := base
	withRoom.RoomSeed = &explicit
	r2, t2, a2 := withRoom.subSeeds()
	if r2 != 5 || t2 != targets || a2 != actions {
		t.Errorf("subSeeds() = %d, %d, %d, expected 5, %d, %d", r2, t2, a2, targets, actions)
	}
	if room == targets && targets == actions {
		t.Error("derived sub-seeds should differ")
	}
}

func TestReverseSolveRoom(t *testing.T) {
	room := corridor(7, 2)
	room.AddBox(C(2, 1))
	room.SetPlayer(C(3, 1))

	best, ok := ReverseSolveRoom(room, NewRNG(3), MaxRoomConfigurations, MaxAppliedActions)
	if !ok {
		t.Fatal("ReverseSolveRoom() found nothing")
	}
	if best.Score() <= 0 {
		t.Errorf("Score() = %v, expected > 0", best.Score())
	}
	if best.BoxOnTarget() {
		t.Error("best room has the box on its target")
	}
	if p := best.Player(); best.IsWall(p) || best.ContainsBox(p) {
		t.Errorf("player placed at %v, expected a free cell", p)
	}
	if room.Boxes()[0].Pos != C(2, 1) {
		t.Error("ReverseSolveRoom() modified the base room")
	}
}

func TestReverseSolveRoomStuck(t *testing.T) {
	// A box in a one-cell pocket cannot be pulled anywhere.
	room := corridor(4, 1)
	room.AddBox(C(1, 1))
	room.SetPlayer(C(2, 1))

	if _, ok := ReverseSolveRoom(room, NewRNG(3), MaxRoomConfigurations, MaxAppliedActions); ok {
		t.Error("ReverseSolveRoom() should fail when no pull is possible")
	}
}

func TestSettingsFromTable(t *testing.T) {
	table := settings.Table{"seed": 10, "width": 14, "height": 11, "numBoxes": 5, "actionsSeed": 7}
	s, err := SettingsFromTable(table)
	if err != nil {
		t.Fatalf("SettingsFromTable() failed: %v", err)
	}
	if s.Seed != 10 || s.Width != 14 || s.Height != 11 || s.NumBoxes != 5 || s.RoomSteps != 20 {
		t.Errorf("SettingsFromTable() = %+v", s)
	}
	if s.ActionsSeed == nil || *s.ActionsSeed != 7 || s.RoomSeed != nil || s.TargetsSeed != nil {
		t.Errorf("sub-seeds = %v, %v, %v", s.RoomSeed, s.TargetsSeed, s.ActionsSeed)
	}

	back, err := SettingsFromTable(s.Table())
	if err != nil || back.Seed != s.Seed || *back.ActionsSeed != 7 {
		t.Errorf("Table() round trip = %+v, %v", back, err)
	}
}

func TestSettingsFromTableErrors(t *testing.T) {
	full := func() settings.Table {
		return settings.Table{"seed": 1, "width": 14, "height": 11, "numBoxes": 5}
	}
	tests := []struct {
		name     string
		mutate   func(settings.Table)
		expected string
	}{
		{"missing seed", func(t settings.Table) { delete(t, "seed") }, "Missing kwarg: 'seed'"},
		{"negative seed", func(t settings.Table) { t["seed"] = -1 }, "Missing kwarg: 'seed'"},
		{"missing width", func(t settings.Table) { delete(t, "width") }, "Missing kwarg: 'width'"},
		{"missing height", func(t settings.Table) { delete(t, "height") }, "Missing kwarg: 'height'"},
		{"missing boxes", func(t settings.Table) { delete(t, "numBoxes") }, "Missing kwarg: 'numBoxes'"},
		{"bad steps", func(t settings.Table) { t["roomSteps"] = "many" }, "kwarg: 'roomSteps' must be an int."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := full()
			tt.mutate(table)
			if _, err := SettingsFromTable(table); err == nil || err.Error() != tt.expected {
				t.Errorf("SettingsFromTable() error = %v, expected %q", err, tt.expected)
			}
		})
	}
}
