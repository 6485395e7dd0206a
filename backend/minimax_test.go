package main

import (
	"math"
	"testing"
	"time"
)

func newTestContext(deadline time.Time) *searchContext {
	return &searchContext{
		cache:    NewEvalCache(DefaultConfig()),
		useCache: true,
		deadline: deadline,
		stats:    &SearchStats{},
	}
}

// bruteForce is plain minimax with the same terminal rule and evaluation.
func bruteForce(b Board, depth int, maximizing bool, weights HeuristicConfig) float64 {
	side := b.Player
	if maximizing {
		side = b.Bot
	}
	if b.IsTerminal(side) {
		return b.GoalValue()
	}
	if depth == 0 {
		return HeuristicValue(b, weights)
	}
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, next := range b.Successors(side) {
		score := bruteForce(next, depth-1, !maximizing, weights)
		if maximizing {
			best = math.Max(best, score)
		} else {
			best = math.Min(best, score)
		}
	}
	return best
}

func midgameBoard() Board {
	board := NewStartingBoard(CellWhite)
	board = board.ApplyMove(2, 3, CellWhite)
	board = board.ApplyMove(2, 2, CellBlack)
	board = board.ApplyMove(3, 2, CellWhite)
	board = board.ApplyMove(4, 5, CellBlack)
	board = board.ApplyMove(5, 4, CellWhite)
	return board
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	weights := resolvedHeuristicConfig(DefaultConfig())
	positions := map[string]Board{
		"opening": NewStartingBoard(CellWhite),
		"midgame": midgameBoard(),
		"swapped": swapSides(midgameBoard()),
	}
	for name, board := range positions {
		for depth := 1; depth <= 4; depth++ {
			ctx := newTestContext(time.Now().Add(time.Minute))
			gotMax, ok := maxScore(ctx, board, depth, math.Inf(-1), math.Inf(1))
			if !ok {
				t.Fatalf("%s depth %d: search cancelled", name, depth)
			}
			if want := bruteForce(board, depth, true, weights); gotMax != want {
				t.Fatalf("%s depth %d max: alpha-beta %f, minimax %f", name, depth, gotMax, want)
			}
			gotMin, ok := minScore(ctx, board, depth, math.Inf(-1), math.Inf(1))
			if !ok {
				t.Fatalf("%s depth %d: search cancelled", name, depth)
			}
			if want := bruteForce(board, depth, false, weights); gotMin != want {
				t.Fatalf("%s depth %d min: alpha-beta %f, minimax %f", name, depth, gotMin, want)
			}
		}
	}
}

func TestAlphaBetaPrunes(t *testing.T) {
	ctx := newTestContext(time.Now().Add(time.Minute))
	if _, ok := maxScore(ctx, midgameBoard(), 4, math.Inf(-1), math.Inf(1)); !ok {
		t.Fatalf("search cancelled")
	}
	if ctx.stats.Cutoffs == 0 {
		t.Fatalf("expected at least one cutoff at depth 4")
	}
}

func TestSearchReturnsGoalValueAtTerminal(t *testing.T) {
	// Black (player) cannot bracket the white disks on the corner files.
	board := emptyBoard(CellWhite).With(0, 0, CellWhite).With(1, 0, CellWhite).With(0, 1, CellBlack)
	ctx := newTestContext(time.Now().Add(time.Minute))
	score, ok := minScore(ctx, board, 3, math.Inf(-1), math.Inf(1))
	if !ok || !math.IsInf(score, 1) {
		t.Fatalf("expected +Inf for a won terminal position, got %v (ok=%v)", score, ok)
	}
}

func TestExpiredDeadlineCancels(t *testing.T) {
	ctx := newTestContext(time.Now().Add(-time.Second))
	if _, ok := maxScore(ctx, NewStartingBoard(CellWhite), 3, math.Inf(-1), math.Inf(1)); ok {
		t.Fatalf("expected cancellation with a past deadline")
	}
	if ctx.stats.Nodes != 0 || ctx.stats.Leaves != 0 {
		t.Fatalf("cancelled search should do no work, got %+v", ctx.stats)
	}
}
