package main

import (
	"math"
	"time"
)

type SearchStats struct {
	Nodes           int64
	Leaves          int64
	TerminalHits    int64
	Cutoffs         int64
	Start           time.Time
	DepthDurations  []time.Duration
	CompletedDepths int
}

// searchContext is shared by every node of one search. It is owned by a
// single goroutine.
type searchContext struct {
	cache     *EvalCache
	useCache  bool
	deadline  time.Time
	stats     *SearchStats
	cancelled bool
}

func (ctx *searchContext) expired() bool {
	if ctx.cancelled {
		return true
	}
	if time.Now().After(ctx.deadline) {
		ctx.cancelled = true
	}
	return ctx.cancelled
}

func (ctx *searchContext) leafValue(b Board) float64 {
	ctx.stats.Leaves++
	if !ctx.useCache {
		return ctx.cache.Evaluate(b)
	}
	return ctx.cache.GetOrCompute(b)
}

// maxScore expands Bot's moves. The bool is false when the deadline passed
// somewhere below; the score is meaningless in that case.
func maxScore(ctx *searchContext, b Board, depth int, alpha, beta float64) (float64, bool) {
	if ctx.expired() {
		return 0, false
	}
	if depth <= 0 {
		if b.IsTerminal(b.Bot) {
			ctx.stats.TerminalHits++
			return b.GoalValue(), true
		}
		return ctx.leafValue(b), true
	}
	ctx.stats.Nodes++
	// No successors means the side to move is stuck, which is terminal.
	successors := b.Successors(b.Bot)
	if len(successors) == 0 {
		ctx.stats.TerminalHits++
		return b.GoalValue(), true
	}
	for _, next := range successors {
		score, ok := minScore(ctx, next, depth-1, alpha, beta)
		if !ok {
			return 0, false
		}
		alpha = math.Max(alpha, score)
		if alpha >= beta {
			ctx.stats.Cutoffs++
			return beta, true
		}
	}
	return alpha, true
}

// minScore expands Player's moves; see maxScore.
func minScore(ctx *searchContext, b Board, depth int, alpha, beta float64) (float64, bool) {
	if ctx.expired() {
		return 0, false
	}
	if depth <= 0 {
		if b.IsTerminal(b.Player) {
			ctx.stats.TerminalHits++
			return b.GoalValue(), true
		}
		return ctx.leafValue(b), true
	}
	ctx.stats.Nodes++
	successors := b.Successors(b.Player)
	if len(successors) == 0 {
		ctx.stats.TerminalHits++
		return b.GoalValue(), true
	}
	for _, next := range successors {
		score, ok := maxScore(ctx, next, depth-1, alpha, beta)
		if !ok {
			return 0, false
		}
		beta = math.Min(beta, score)
		if alpha >= beta {
			ctx.stats.Cutoffs++
			return alpha, true
		}
	}
	return beta, true
}
