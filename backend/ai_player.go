package main

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

type AIScoreSettings struct {
	Config Config
	Cache  *EvalCache
	// Deadline overrides Start + AiTimeBudgetMs when set.
	Deadline time.Time
	SearchID string
	OnDepth  func(DepthReport)
	Stats    *SearchStats
}

type SearchResult struct {
	Board   Board
	Move    Move
	Pass    bool
	Depth   int
	Score   float64
	Elapsed time.Duration
}

type DepthReport struct {
	SearchID  string    `json:"search_id,omitempty"`
	Depth     int       `json:"depth"`
	Move      Move      `json:"move"`
	Score     jsonScore `json:"score"`
	Nodes     int64     `json:"nodes"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Final     bool      `json:"final,omitempty"`
}

// moveOrdering keeps the root successors keyed by board, with the score
// each one got in the last completed iteration.
type moveOrdering struct {
	boards []Board
	moves  map[Board]Move
	scores map[Board]float64
}

func newMoveOrdering(root Board, moves []Move) *moveOrdering {
	o := &moveOrdering{
		boards: make([]Board, 0, len(moves)),
		moves:  make(map[Board]Move, len(moves)),
		scores: make(map[Board]float64, len(moves)),
	}
	for _, move := range moves {
		next := root.ApplyMove(move.Row, move.Col, root.Bot)
		o.boards = append(o.boards, next)
		o.moves[next] = move
		o.scores[next] = 0.0
	}
	return o
}

func (o *moveOrdering) priority() []Board {
	return movePriority(o.boards, o.scores)
}

// movePriority returns keys sorted by descending score. Equal scores keep
// the order of keys. Neither argument is modified.
func movePriority[K comparable](keys []K, scores map[K]float64) []K {
	out := make([]K, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	return out
}

// Search runs iterative deepening from root for Bot. When time runs out in
// the middle of an iteration, the result of the last completed iteration is
// returned and Depth is that iteration's depth (0 if none completed).
func Search(root Board, settings AIScoreSettings) SearchResult {
	config := settings.Config
	if config == (Config{}) {
		config = DefaultConfig()
	}
	stats := settings.Stats
	if stats == nil {
		stats = &SearchStats{}
	}
	if stats.Start.IsZero() {
		stats.Start = time.Now()
	}
	deadline := settings.Deadline
	if deadline.IsZero() {
		deadline = stats.Start.Add(time.Duration(config.AiTimeBudgetMs) * time.Millisecond)
	}
	cache := settings.Cache
	if cache == nil {
		cache = NewEvalCache(config)
	}
	ctx := &searchContext{
		cache:    cache,
		useCache: config.AiEnableEvalCache,
		deadline: deadline,
		stats:    stats,
	}

	moves := root.LegalMoves(root.Bot)
	if len(moves) == 0 {
		return SearchResult{
			Board:   root,
			Move:    Move{Row: -1, Col: -1},
			Pass:    true,
			Score:   root.GoalValue(),
			Elapsed: time.Since(stats.Start),
		}
	}

	ordering := newMoveOrdering(root, moves)
	best := ordering.boards[0]
	bestScore := fallbackScore(ctx, best)
	bestDepth := 0
	depthBest := best

	finish := func() SearchResult {
		result := SearchResult{
			Board:   best,
			Move:    ordering.moves[best],
			Depth:   bestDepth,
			Score:   bestScore,
			Elapsed: time.Since(stats.Start),
		}
		if settings.OnDepth != nil {
			settings.OnDepth(depthReport(settings.SearchID, result, stats, true))
		}
		return result
	}

	for depth := config.AiStartDepth; depth < config.AiMaxDepth; depth++ {
		if ctx.expired() {
			break
		}
		depthStart := time.Now()
		alpha := math.Inf(-1)
		for _, next := range ordering.priority() {
			score, ok := minScore(ctx, next, depth-1, alpha, math.Inf(1))
			if !ok {
				return finish()
			}
			ordering.scores[next] = score
			if score > alpha {
				alpha = score
				depthBest = next
			}
		}
		best, bestScore, bestDepth = depthBest, alpha, depth
		stats.CompletedDepths = depth
		stats.DepthDurations = append(stats.DepthDurations, time.Since(depthStart))
		if settings.OnDepth != nil {
			report := SearchResult{Board: best, Move: ordering.moves[best], Depth: depth, Score: alpha, Elapsed: time.Since(stats.Start)}
			settings.OnDepth(depthReport(settings.SearchID, report, stats, false))
		}
		if math.IsInf(alpha, 1) {
			break
		}
		// Every line now reaches a full board, deeper iterations repeat the same search.
		if depth >= root.EmptyCount() {
			break
		}
	}
	return finish()
}

func fallbackScore(ctx *searchContext, b Board) float64 {
	if b.IsTerminal(b.Player) {
		return b.GoalValue()
	}
	return ctx.leafValue(b)
}

func depthReport(id string, result SearchResult, stats *SearchStats, final bool) DepthReport {
	return DepthReport{
		SearchID:  id,
		Depth:     result.Depth,
		Move:      result.Move,
		Score:     jsonScore(result.Score),
		Nodes:     stats.Nodes,
		ElapsedMs: result.Elapsed.Milliseconds(),
		Final:     final,
	}
}

// ComputerTurn is the host-facing entry point: it takes a raw matrix and the
// two player identifiers and returns the matrix after the bot's move, the
// depth reached and the score. The evaluation cache lives for this call only.
func ComputerTurn(matrix [][]int, player, bot int) ([][]int, int, float64, error) {
	board, err := BoardFromMatrix(matrix, player, bot)
	if err != nil {
		return nil, 0, 0, err
	}
	result := Search(board, AIScoreSettings{Config: DefaultConfig()})
	return result.Board.Matrix(), result.Depth, result.Score, nil
}

// AIPlayer is the long-lived search service. It owns the evaluation cache
// shared by every search it runs.
type AIPlayer struct {
	configs        *ConfigStore
	cacheMu        sync.Mutex
	cache          *EvalCache
	publishEnabled func() bool
	publisher      func(DepthReport)
}

func NewAIPlayer(configs *ConfigStore) *AIPlayer {
	player := &AIPlayer{configs: configs}
	player.cache = NewEvalCache(configs.Get())
	return player
}

func (a *AIPlayer) SetDepthPublisher(enabled func() bool, publisher func(DepthReport)) {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	a.publishEnabled = enabled
	a.publisher = publisher
}

func (a *AIPlayer) ChooseMove(searchID string, board Board) SearchResult {
	config := a.configs.Get()
	stats := &SearchStats{Start: time.Now()}
	settings := AIScoreSettings{
		Config:   config,
		Cache:    a.cacheFor(config),
		SearchID: searchID,
		Stats:    stats,
	}
	a.cacheMu.Lock()
	if config.StreamDepthReports && a.publisher != nil && (a.publishEnabled == nil || a.publishEnabled()) {
		settings.OnDepth = a.publisher
	}
	a.cacheMu.Unlock()
	result := Search(board, settings)
	if config.AiLogSearchStats {
		logSearchStats(searchID, stats, result, settings.Cache)
	}
	return result
}

// cacheFor returns the shared cache, replacing it when the heuristic weights
// changed. With sharing disabled every search gets a fresh cache.
func (a *AIPlayer) cacheFor(config Config) *EvalCache {
	if !config.AiShareEvalCache {
		return NewEvalCache(config)
	}
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	if a.cache.WeightsHash() != heuristicHashFromConfig(config) {
		a.cache = NewEvalCache(config)
	}
	return a.cache
}

func (a *AIPlayer) CacheStats() EvalCacheStats {
	a.cacheMu.Lock()
	cache := a.cache
	a.cacheMu.Unlock()
	stats := cache.Stats()
	stats.Shared = a.configs.Get().AiShareEvalCache
	return stats
}

func (a *AIPlayer) ResetCache() {
	a.cacheMu.Lock()
	cache := a.cache
	a.cacheMu.Unlock()
	cache.Reset()
}

func logSearchStats(tag string, stats *SearchStats, result SearchResult, cache *EvalCache) {
	if stats == nil {
		return
	}
	elapsed := time.Since(stats.Start)
	parts := make([]string, 0, len(stats.DepthDurations))
	for _, d := range stats.DepthDurations {
		parts = append(parts, fmt.Sprintf("%dms", d.Milliseconds()))
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes) / elapsed.Seconds()
	}
	cacheStats := cache.Stats()
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf("[ai:%s] t=%dms move=%s depth=%d score=%s nodes=%d leaves=%d terminal=%d cutoffs=%d nps=%.0f eval_size=%d eval_probe=%d eval_hit=%d eval_hit_rate=%.1f%% mem_heap=%s depth_times=[%s]\n",
		tag,
		elapsed.Milliseconds(),
		result.Move,
		result.Depth,
		jsonScore(result.Score),
		stats.Nodes,
		stats.Leaves,
		stats.TerminalHits,
		stats.Cutoffs,
		nps,
		cacheStats.Entries,
		cacheStats.Probes,
		cacheStats.Hits,
		cacheStats.HitRate,
		formatBytes(mem.HeapAlloc),
		strings.Join(parts, ","),
	)
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
