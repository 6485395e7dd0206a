package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestApplyMoveFlipsOpeningDisk(t *testing.T) {
	board := startingMatrix()
	next, ok := applyMove(board, 2, 4, black)
	if !ok {
		t.Fatalf("expected (2,4) to be legal for black")
	}
	if next[3][4] != black || next[2][4] != black {
		t.Fatalf("expected (3,4) flipped, got %v", next)
	}
	if board[3][4] != white {
		t.Fatalf("source board modified")
	}
	if _, ok := applyMove(board, 0, 0, black); ok {
		t.Fatalf("expected (0,0) to be illegal")
	}
}

func TestPlayGameStopsWhenNeitherSideMoves(t *testing.T) {
	var turns int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analyze":
			_ = json.NewEncoder(w).Encode(analyzeResponse{})
		default:
			turns++
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	s := &selfPlay{
		client:  server.Client(),
		baseURL: server.URL,
		logger:  log.New(io.Discard, "", 0),
		rng:     rand.New(rand.NewSource(1)),
	}
	result, err := s.playGame(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turns != 0 || result.Plies != 0 {
		t.Fatalf("expected no turns, got %d requests and %d plies", turns, result.Plies)
	}
	if result.Black != 2 || result.White != 2 || result.Winner != 0 {
		t.Fatalf("expected a 2-2 draw, got %+v", result)
	}
	if result.ID == "" {
		t.Fatalf("expected a game id")
	}
}

func TestPlayGamePassesWhenOnlyOpponentCanMove(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := analyzeResponse{}
		if calls == 1 {
			resp.PlayerMoves = []move{{Row: 2, Col: 3}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s := &selfPlay{
		client:  server.Client(),
		baseURL: server.URL,
		logger:  log.New(io.Discard, "", 0),
		rng:     rand.New(rand.NewSource(1)),
	}
	result, err := s.playGame(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Passes != 1 || calls != 2 {
		t.Fatalf("expected one pass over two analyses, got %+v after %d calls", result, calls)
	}
}

func TestSleepWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepWithContext(ctx, time.Minute) {
		t.Fatalf("expected cancelled sleep to return false")
	}
}
