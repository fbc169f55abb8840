package pushbox

import (
	"testing"
)

func TestCandidatesPullTowardsPlayer(t *testing.T) {
	room := corridor(6)
	room.AddBox(C(2, 1))
	room.SetPlayer(C(4, 1))

	gen := NewCandidateGenerator(room)
	candidates := gen.Generate(room, nil)
	if len(candidates) != 1 {
		t.Fatalf("Generate() returned %d candidates, expected 1", len(candidates))
	}
	next := candidates[0]
	if next.Player() != C(4, 1) || next.Boxes()[0].Pos != C(3, 1) {
		t.Errorf("candidate player %v box %v, expected (4,1) and (3,1)", next.Player(), next.Boxes()[0].Pos)
	}
	if room.Boxes()[0].Pos != C(2, 1) {
		t.Error("Generate() modified the source room")
	}

	if more := gen.Generate(next, nil); len(more) != 0 {
		t.Errorf("box against the wall side produced %d candidates, expected 0", len(more))
	}
}

func TestCandidatesRespectReachability(t *testing.T) {
	// The box cuts the corridor, so only the player's side can pull.
	room := corridor(8)
	room.AddBox(C(3, 1))
	room.SetPlayer(C(2, 1))

	gen := NewCandidateGenerator(room)
	candidates := gen.Generate(room, nil)
	if len(candidates) != 1 {
		t.Fatalf("Generate() returned %d candidates, expected 1", len(candidates))
	}
	if got := candidates[0].Boxes()[0].Pos; got != C(2, 1) {
		t.Errorf("box pulled to %v, expected (2,1)", got)
	}
	if got := candidates[0].Player(); got != C(1, 1) {
		t.Errorf("player at %v, expected (1,1)", got)
	}
}

func TestCandidatesSurviveEpochReset(t *testing.T) {
	room := corridor(6)
	room.AddBox(C(2, 1))
	room.SetPlayer(C(4, 1))

	gen := NewCandidateGenerator(room)
	gen.Generate(room, nil)
	gen.epoch = boxMark - 1

	candidates := gen.Generate(room, nil)
	if len(candidates) != 1 {
		t.Fatalf("Generate() after reset returned %d candidates, expected 1", len(candidates))
	}
	if gen.epoch != firstMark+1 {
		t.Errorf("epoch = %d, expected %d", gen.epoch, int64(firstMark+1))
	}
}

func TestMovePlayerAvoidsTargets(t *testing.T) {
	room := corridor(6, 1)
	room.SetPlayer(C(2, 1))
	gen := NewCandidateGenerator(room)
	rng := NewRNG(1)

	seen := map[Coord]bool{}
	for range 100 {
		if !gen.MovePlayerToRandomAccessiblePosition(rng, room) {
			t.Fatal("MovePlayerToRandomAccessiblePosition() failed")
		}
		seen[room.Player()] = true
	}
	if seen[C(1, 1)] {
		t.Error("player was moved onto a target")
	}
	for x := 2; x <= 4; x++ {
		if !seen[C(x, 1)] {
			t.Errorf("cell (%d,1) was never chosen", x)
		}
	}
}

func TestMovePlayerWithNoFreeCell(t *testing.T) {
	room := corridor(3, 1)
	room.SetPlayer(C(1, 1))
	gen := NewCandidateGenerator(room)

	if gen.MovePlayerToRandomAccessiblePosition(NewRNG(1), room) {
		t.Error("expected failure when only a target is reachable")
	}
	if room.Player() != C(1, 1) {
		t.Errorf("player moved to %v", room.Player())
	}
}
