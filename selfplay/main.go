package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	black = 1
	white = -1
)

type boardRequest struct {
	Board  [][]int `json:"board"`
	Player int     `json:"player"`
	Bot    int     `json:"bot"`
}

type move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type analyzeResponse struct {
	BotMoves    []move `json:"bot_moves"`
	PlayerMoves []move `json:"player_moves"`
}

type computerTurnResponse struct {
	Board [][]int         `json:"board"`
	Move  move            `json:"move"`
	Pass  bool            `json:"pass"`
	Depth int             `json:"depth"`
	Score json.RawMessage `json:"score"`
}

type gameResult struct {
	ID     string
	Plies  int
	Passes int
	Black  int
	White  int
	Winner int
}

type selfPlay struct {
	client       *http.Client
	baseURL      string
	logger       *log.Logger
	rng          *rand.Rand
	openingPlies int
}

func main() {
	logger, closeLog, err := buildLogger(getenv("SELFPLAY_LOG", ""))
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()

	s := &selfPlay{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      getenv("OTHELLO_API_ADDR", "http://localhost:8080"),
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		openingPlies: getenvInt("SELFPLAY_OPENING_PLIES", 2),
	}
	games := getenvInt("SELFPLAY_GAMES", 1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.waitBackendReady(ctx); err != nil {
		s.logger.Fatalf("backend not ready at %s: %v", s.baseURL, err)
	}
	s.logger.Printf("self-play started. backend=%s games=%d opening_plies=%d", s.baseURL, games, s.openingPlies)

	tally := map[int]int{}
	for i := 0; i < games; i++ {
		result, err := s.playGame(ctx)
		if err != nil {
			s.logger.Printf("game %d aborted: %v", i+1, err)
			break
		}
		tally[result.Winner]++
		s.logger.Printf("game %d id=%s plies=%d passes=%d black=%d white=%d winner=%s",
			i+1, result.ID, result.Plies, result.Passes, result.Black, result.White, sideName(result.Winner))
	}
	s.logger.Printf("self-play done. black=%d white=%d draws=%d", tally[black], tally[white], tally[0])
}

// playGame alternates both colours through the backend until neither side
// can move. The first openingPlies moves are picked at random from the
// legal ones so repeated games differ.
func (s *selfPlay) playGame(ctx context.Context) (gameResult, error) {
	result := gameResult{ID: uuid.NewString()}
	board := startingMatrix()
	side := black
	for {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		var analysis analyzeResponse
		if err := s.postJSON("/api/analyze", boardRequest{Board: board, Player: -side, Bot: side}, &analysis); err != nil {
			return result, err
		}
		if len(analysis.BotMoves) == 0 {
			if len(analysis.PlayerMoves) == 0 {
				break
			}
			result.Passes++
			side = -side
			continue
		}

		if result.Plies < s.openingPlies {
			m := analysis.BotMoves[s.rng.Intn(len(analysis.BotMoves))]
			next, ok := applyMove(board, m.Row, m.Col, side)
			if !ok {
				return result, fmt.Errorf("backend listed illegal move %d,%d", m.Row, m.Col)
			}
			board = next
		} else {
			var turn computerTurnResponse
			if err := s.postJSON("/api/computer-turn", boardRequest{Board: board, Player: -side, Bot: side}, &turn); err != nil {
				return result, err
			}
			if turn.Pass {
				return result, fmt.Errorf("backend passed with legal moves available")
			}
			s.logger.Printf("[%s] %s plays %d,%d depth=%d score=%s", result.ID[:8], sideName(side), turn.Move.Row, turn.Move.Col, turn.Depth, string(turn.Score))
			board = turn.Board
		}
		result.Plies++
		side = -side
	}
	result.Black, result.White = countDisks(board)
	switch {
	case result.Black > result.White:
		result.Winner = black
	case result.White > result.Black:
		result.Winner = white
	}
	return result, nil
}

func startingMatrix() [][]int {
	board := make([][]int, 8)
	for i := range board {
		board[i] = make([]int, 8)
	}
	board[3][3], board[4][4] = black, black
	board[3][4], board[4][3] = white, white
	return board
}

// applyMove plays an opening move locally so random openings need no extra
// round trip. It reports false if nothing would flip.
func applyMove(board [][]int, row, col, side int) ([][]int, bool) {
	if board[row][col] != 0 {
		return board, false
	}
	next := make([][]int, len(board))
	for i := range board {
		next[i] = append([]int(nil), board[i]...)
	}
	flipped := false
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			run := 0
			for r >= 0 && r < 8 && c >= 0 && c < 8 && next[r][c] == -side {
				r, c = r+dr, c+dc
				run++
			}
			if run == 0 || r < 0 || r >= 8 || c < 0 || c >= 8 || next[r][c] != side {
				continue
			}
			for i := 1; i <= run; i++ {
				next[row+dr*i][col+dc*i] = side
			}
			flipped = true
		}
	}
	if !flipped {
		return board, false
	}
	next[row][col] = side
	return next, true
}

func countDisks(board [][]int) (int, int) {
	b, w := 0, 0
	for _, row := range board {
		for _, cell := range row {
			switch cell {
			case black:
				b++
			case white:
				w++
			}
		}
	}
	return b, w
}

func sideName(side int) string {
	switch side {
	case black:
		return "black"
	case white:
		return "white"
	default:
		return "draw"
	}
}

func (s *selfPlay) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if err := s.getJSON("/api/ping", &map[string]bool{}); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, 1*time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("timeout after 60s")
}

func (s *selfPlay) getJSON(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *selfPlay) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// buildLogger writes to stdout, and also to path when it is set.
func buildLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stdout, "", log.LstdFlags), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stdout, f), "", log.LstdFlags)
	return logger, func() { _ = f.Close() }, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
