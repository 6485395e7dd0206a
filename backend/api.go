package main

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// jsonScore encodes proven outcomes as "+inf" / "-inf", which plain JSON
// numbers cannot carry.
type jsonScore float64

func (s jsonScore) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(s), 0) {
		return []byte(strconv.Quote(s.String())), nil
	}
	return []byte(s.String()), nil
}

func (s jsonScore) String() string {
	switch {
	case math.IsInf(float64(s), 1):
		return "+inf"
	case math.IsInf(float64(s), -1):
		return "-inf"
	default:
		return strconv.FormatFloat(float64(s), 'f', -1, 64)
	}
}

type boardRequest struct {
	Board  [][]int `json:"board"`
	Player int     `json:"player"`
	Bot    int     `json:"bot"`
}

type diskCounts struct {
	Bot    int `json:"bot"`
	Player int `json:"player"`
}

type computerTurnResponse struct {
	ID        string     `json:"id"`
	Board     [][]int    `json:"board"`
	Move      Move       `json:"move"`
	Pass      bool       `json:"pass"`
	Depth     int        `json:"depth"`
	Score     jsonScore  `json:"score"`
	Advantage int        `json:"advantage"`
	ElapsedMs int64      `json:"elapsed_ms"`
	Disks     diskCounts `json:"disks"`
}

type analyzeResponse struct {
	BotMoves       []Move             `json:"bot_moves"`
	PlayerMoves    []Move             `json:"player_moves"`
	Disks          diskCounts         `json:"disks"`
	BotTerminal    bool               `json:"bot_terminal"`
	PlayerTerminal bool               `json:"player_terminal"`
	GoalValue      jsonScore          `json:"goal_value"`
	Winner         int                `json:"winner"`
	Heuristic      HeuristicBreakdown `json:"heuristic"`
	HeuristicTotal float64            `json:"heuristic_total"`
}

// advantageBar maps a score to 0..100 from Bot's side: 50 is even, a proven
// win or loss pins it to 100 or 0.
func advantageBar(score float64) int {
	switch {
	case math.IsInf(score, 1):
		return 100
	case math.IsInf(score, -1):
		return 0
	}
	value := 50.0 + score/100_000.0*50.0
	value = math.Max(0, math.Min(100, value))
	return int(math.Floor(value))
}

func newRouter(ai *AIPlayer, configs *ConfigStore, hub *SearchHub) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, configs.Get())
	})

	r.Put("/api/config", func(w http.ResponseWriter, r *http.Request) {
		config := configs.Get()
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := config.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		var persist func(Config) (string, error)
		if r.URL.Query().Get("persist") == "1" {
			persist = saveConfig
		}
		path, err := configs.Apply(config, persist)
		if err != nil {
			log.Printf("[backend] save config: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not save config"})
			return
		}
		if path != "" {
			log.Printf("[backend] config saved to %s", path)
		}
		writeJSON(w, http.StatusOK, configs.Get())
	})

	r.Post("/api/computer-turn", func(w http.ResponseWriter, r *http.Request) {
		board, ok := decodeBoardRequest(w, r)
		if !ok {
			return
		}
		id := uuid.NewString()
		result := ai.ChooseMove(id, board)
		writeJSON(w, http.StatusOK, computerTurnResponse{
			ID:        id,
			Board:     result.Board.Matrix(),
			Move:      result.Move,
			Pass:      result.Pass,
			Depth:     result.Depth,
			Score:     jsonScore(result.Score),
			Advantage: advantageBar(result.Score),
			ElapsedMs: result.Elapsed.Milliseconds(),
			Disks:     diskCounts{Bot: result.Board.CountDisks(board.Bot), Player: result.Board.CountDisks(board.Player)},
		})
	})

	r.Post("/api/analyze", func(w http.ResponseWriter, r *http.Request) {
		board, ok := decodeBoardRequest(w, r)
		if !ok {
			return
		}
		breakdown := EvaluateBoard(board, resolvedHeuristicConfig(configs.Get()))
		writeJSON(w, http.StatusOK, analyzeResponse{
			BotMoves:       board.LegalMoves(board.Bot),
			PlayerMoves:    board.LegalMoves(board.Player),
			Disks:          diskCounts{Bot: board.CountDisks(board.Bot), Player: board.CountDisks(board.Player)},
			BotTerminal:    board.IsTerminal(board.Bot),
			PlayerTerminal: board.IsTerminal(board.Player),
			GoalValue:      jsonScore(board.GoalValue()),
			Winner:         int(board.Winner()),
			Heuristic:      breakdown,
			HeuristicTotal: breakdown.Total(),
		})
	})

	r.Get("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ai.CacheStats())
	})

	r.Delete("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		ai.ResetCache()
		writeJSON(w, http.StatusOK, ai.CacheStats())
	})

	r.Get("/ws/search", func(w http.ResponseWriter, r *http.Request) {
		serveSearchWS(hub, w, r)
	})

	return r
}

// saveConfig is swapped out in tests to avoid touching the user's config dir.
var saveConfig = SaveConfig

func decodeBoardRequest(w http.ResponseWriter, r *http.Request) (Board, bool) {
	var payload boardRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return Board{}, false
	}
	board, err := BoardFromMatrix(payload.Board, payload.Player, payload.Bot)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return Board{}, false
	}
	return board, true
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[backend] write response: %v", err)
	}
}
