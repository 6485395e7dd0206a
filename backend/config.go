package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/adrg/xdg"
)

const (
	configFile   = "othello/config.json"
	configEnvVar = "OTHELLO_CONFIG"
)

type Config struct {
	StreamDepthReports     bool            `json:"stream_depth_reports"`
	ListenAddr             string          `json:"listen_addr"`
	AiTimeBudgetMs         int             `json:"ai_time_budget_ms"`
	AiStartDepth           int             `json:"ai_start_depth"`
	AiMaxDepth             int             `json:"ai_max_depth"`
	AiEnableEvalCache      bool            `json:"ai_enable_eval_cache"`
	AiShareEvalCache       bool            `json:"ai_share_eval_cache"`
	AiEvalCacheWarnEntries int             `json:"ai_eval_cache_warn_entries"`
	AiLogSearchStats       bool            `json:"ai_log_search_stats"`
	Heuristics             HeuristicConfig `json:"heuristics"`
}

type HeuristicConfig struct {
	Field           float64 `json:"field"`
	DiskDifference  float64 `json:"disk_difference"`
	Corner          float64 `json:"corner"`
	CornerCloseness float64 `json:"corner_closeness"`
	Mobility        float64 `json:"mobility"`
	EdgeDisks       float64 `json:"edge_disks"`
}

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		StreamDepthReports: true,
		ListenAddr:         ":8080",

		AiTimeBudgetMs: 3000,
		AiStartDepth:   3,
		AiMaxDepth:     64,

		AiEnableEvalCache: true,
		// One cache for the whole process; set false to scope it to a single call.
		AiShareEvalCache:       true,
		AiEvalCacheWarnEntries: 4_000_000,

		AiLogSearchStats: false,

		Heuristics: HeuristicConfig{
			Field:           10.0,
			DiskDifference:  10.0,
			Corner:          801.724,
			CornerCloseness: 382.026,
			Mobility:        78.922,
			EdgeDisks:       74.396,
		},
	}
}

func (c Config) Validate() error {
	if c.AiTimeBudgetMs <= 0 {
		return &InvalidConfig{"ai_time_budget_ms must be positive"}
	}
	if c.AiStartDepth < 1 {
		return &InvalidConfig{"ai_start_depth must be at least 1"}
	}
	if c.AiMaxDepth <= c.AiStartDepth {
		return &InvalidConfig{fmt.Sprintf("ai_max_depth (%d) must be greater than ai_start_depth (%d)", c.AiMaxDepth, c.AiStartDepth)}
	}
	if c.AiEvalCacheWarnEntries < 0 {
		return &InvalidConfig{"ai_eval_cache_warn_entries must not be negative"}
	}
	return nil
}

// LoadConfig reads the config file named by OTHELLO_CONFIG, or the first
// othello/config.json found in the XDG config directories. Missing files
// are not an error; the defaults are used.
func LoadConfig() (Config, error) {
	path := os.Getenv(configEnvVar)
	if path == "" {
		found, err := xdg.SearchConfigFile(configFile)
		if err != nil {
			config := DefaultConfig()
			return config, config.Validate()
		}
		path = found
	}
	return LoadConfigFile(path)
}

func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, config.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// SaveConfig writes config to the XDG config directory and returns the path.
func SaveConfig(config Config) (string, error) {
	path, err := xdg.ConfigFile(configFile)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, saveConfigFile(path, config)
}

func saveConfigFile(path string, config Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o664)
}

func NewConfigStore(config Config) *ConfigStore {
	return &ConfigStore{config: config}
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) error {
	_, err := c.Apply(newConfig, nil)
	return err
}

// Apply validates newConfig, runs persist if set, and only then swaps it in.
// A failed persist leaves the current config untouched.
func (c *ConfigStore) Apply(newConfig Config, persist func(Config) (string, error)) (string, error) {
	if err := newConfig.Validate(); err != nil {
		return "", err
	}
	path := ""
	if persist != nil {
		saved, err := persist(newConfig)
		if err != nil {
			return "", fmt.Errorf("persist config: %w", err)
		}
		path = saved
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
	return path, nil
}
