package main

import (
	"math"
	"testing"
)

func swapSides(b Board) Board {
	b.Bot, b.Player = b.Player, b.Bot
	return b
}

func TestEvaluateStartingPositionIsEven(t *testing.T) {
	board := NewStartingBoard(CellWhite)
	if score := HeuristicValue(board, DefaultConfig().Heuristics); score != 0.0 {
		t.Fatalf("symmetric opening should score 0, got %f", score)
	}
}

func TestEvaluateIsAntisymmetric(t *testing.T) {
	board := NewStartingBoard(CellWhite)
	board = board.ApplyMove(2, 3, CellWhite)
	board = board.ApplyMove(2, 2, CellBlack)
	board = board.ApplyMove(3, 2, CellWhite)
	weights := DefaultConfig().Heuristics

	score := HeuristicValue(board, weights)
	swapped := HeuristicValue(swapSides(board), weights)
	if score != -swapped {
		t.Fatalf("expected swapping sides to negate the score, got %f and %f", score, swapped)
	}
}

func TestEvaluateRewardsCorner(t *testing.T) {
	board := emptyBoard(CellWhite).With(0, 0, CellWhite).With(7, 7, CellBlack).With(0, 7, CellWhite)
	if got := cornerScore(board); got != 25.0 {
		t.Fatalf("expected raw corner score 25, got %f", got)
	}
	weights := DefaultConfig().Heuristics
	breakdown := EvaluateBoard(board, weights)
	want := weights.Corner * 25.0
	if breakdown.Corner != want {
		t.Fatalf("expected corner component %f, got %f", want, breakdown.Corner)
	}
}

func TestEvaluatePenalizesCellsNextToOpenCorner(t *testing.T) {
	board := emptyBoard(CellWhite).With(1, 1, CellWhite).With(6, 6, CellBlack).With(6, 7, CellBlack)
	if got := cornerClosenessScore(board); got != 12.5 {
		t.Fatalf("expected +12.5 (player holds one more X/C square), got %f", got)
	}
	// Once the corner is taken its neighbours no longer count.
	board = board.With(7, 7, CellWhite)
	if got := cornerClosenessScore(board); got != -12.5 {
		t.Fatalf("expected -12.5 after the corner is filled, got %f", got)
	}
}

func TestShareScore(t *testing.T) {
	cases := []struct {
		mine, theirs int
		want         float64
	}{
		{mine: 3, theirs: 1, want: 75.0},
		{mine: 1, theirs: 3, want: -75.0},
		{mine: 2, theirs: 2, want: 0.0},
		{mine: 0, theirs: 0, want: 0.0},
	}
	for _, tc := range cases {
		if got := shareScore(tc.mine, tc.theirs); got != tc.want {
			t.Fatalf("shareScore(%d,%d) = %f, want %f", tc.mine, tc.theirs, got, tc.want)
		}
	}
}

func TestEdgeDiskScorePrefersFewerExposedDisks(t *testing.T) {
	// Bot's corner disk is enclosed; five player disks border empty cells.
	board := emptyBoard(CellWhite)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			board = board.With(row, col, CellBlack)
		}
	}
	board = board.With(0, 0, CellWhite)
	got := edgeDiskScore(board)
	if got <= 0 {
		t.Fatalf("expected positive edge score when player has more exposed disks, got %f", got)
	}
}

func TestResolvedHeuristicConfigFillsZeroWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Heuristics = HeuristicConfig{Corner: 1000}
	resolved := resolvedHeuristicConfig(cfg)
	defaults := DefaultConfig().Heuristics
	if resolved.Corner != 1000 {
		t.Fatalf("expected explicit corner weight to survive, got %f", resolved.Corner)
	}
	if resolved.Mobility != defaults.Mobility || resolved.Field != defaults.Field {
		t.Fatalf("expected zero weights to fall back to defaults, got %+v", resolved)
	}
	if heuristicHash(resolved) == heuristicHash(defaults) {
		t.Fatalf("different weights should hash differently")
	}
}

func TestHeuristicValueOfFixedPosition(t *testing.T) {
	// Black (bot) holds a1 and a small centre group; White has g1 next to the
	// open h1 corner.
	board := emptyBoard(CellBlack)
	for _, cell := range [][2]int{{0, 0}, {2, 2}, {3, 3}, {3, 4}, {4, 4}} {
		board = board.With(cell[0], cell[1], CellBlack)
	}
	for _, cell := range [][2]int{{0, 6}, {3, 2}, {4, 3}, {5, 4}} {
		board = board.With(cell[0], cell[1], CellWhite)
	}

	if got := board.countLegalMoves(CellBlack); got != 5 {
		t.Fatalf("expected 5 black moves, got %d (%v)", got, board.LegalMoves(CellBlack))
	}
	if got := board.countLegalMoves(CellWhite); got != 6 {
		t.Fatalf("expected 6 white moves, got %d (%v)", got, board.LegalMoves(CellWhite))
	}

	raw := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "field", got: fieldScore(board), want: 15.0},
		{name: "disk difference", got: diskDifferenceScore(board), want: 500.0 / 9.0},
		{name: "corner", got: cornerScore(board), want: 25.0},
		{name: "corner closeness", got: cornerClosenessScore(board), want: 12.5},
		{name: "mobility", got: mobilityScore(board), want: -600.0 / 11.0},
		{name: "edge disks", got: edgeDiskScore(board), want: -500.0 / 9.0},
	}
	for _, tc := range raw {
		if math.Abs(tc.got-tc.want) > 1e-9 {
			t.Fatalf("%s: expected %f, got %f", tc.name, tc.want, tc.got)
		}
	}

	const want = 17086.03308080808
	if got := HeuristicValue(board, DefaultConfig().Heuristics); math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected heuristic value %.9f, got %.9f", want, got)
	}
}
