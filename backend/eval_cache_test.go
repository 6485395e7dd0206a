package main

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestEvalCacheMatchesDirectEvaluation(t *testing.T) {
	cfg := DefaultConfig()
	cache := NewEvalCache(cfg)
	board := NewStartingBoard(CellWhite).ApplyMove(2, 3, CellWhite)
	direct := HeuristicValue(board, resolvedHeuristicConfig(cfg))
	if got := cache.GetOrCompute(board); got != direct {
		t.Fatalf("cached value %f differs from direct value %f", got, direct)
	}
	if got := cache.GetOrCompute(board); got != direct {
		t.Fatalf("second lookup returned %f, want %f", got, direct)
	}
}

func TestEvalCacheComputesOncePerBoard(t *testing.T) {
	var calls atomic.Int64
	cache := newEvalCacheWithFunc(func(b Board) float64 {
		calls.Add(1)
		return float64(b.CountDisks(b.Bot))
	}, 1)
	first := NewStartingBoard(CellWhite)
	second := first.ApplyMove(2, 3, CellWhite)

	cache.GetOrCompute(first)
	cache.GetOrCompute(first)
	cache.GetOrCompute(second)
	cache.GetOrCompute(first)

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 evaluations for 2 distinct boards, got %d", got)
	}
	stats := cache.Stats()
	if stats.Entries != 2 || stats.Probes != 4 || stats.Hits != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestEvalCacheKeyIncludesSides(t *testing.T) {
	cache := newEvalCacheWithFunc(func(b Board) float64 {
		return float64(b.Bot)
	}, 1)
	board := NewStartingBoard(CellWhite)
	if cache.GetOrCompute(board) == cache.GetOrCompute(swapSides(board)) {
		t.Fatalf("same grid with swapped sides must be a different key")
	}
}

func TestEvalCacheReset(t *testing.T) {
	cache := NewEvalCache(DefaultConfig())
	cache.GetOrCompute(NewStartingBoard(CellBlack))
	cache.Reset()
	if cache.Len() != 0 || cache.Stats().Probes != 0 {
		t.Fatalf("expected empty cache after reset, got %+v", cache.Stats())
	}
}

func TestEvalCacheConcurrentAccess(t *testing.T) {
	cache := NewEvalCache(DefaultConfig())
	boards := NewStartingBoard(CellWhite).Successors(CellWhite)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				cache.GetOrCompute(boards[i%len(boards)])
			}
		}()
	}
	wg.Wait()
	if cache.Len() != len(boards) {
		t.Fatalf("expected %d entries, got %d", len(boards), cache.Len())
	}
}
