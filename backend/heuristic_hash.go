package main

import (
	"fmt"
	"math"
)

const fnv64Offset = 1469598103934665603
const fnv64Prime = 1099511628211

func resolvedHeuristicConfig(config Config) HeuristicConfig {
	defaults := DefaultConfig().Heuristics
	heuristics := config.Heuristics
	if heuristics == (HeuristicConfig{}) {
		return defaults
	}
	if heuristics.Field == 0 {
		heuristics.Field = defaults.Field
	}
	if heuristics.DiskDifference == 0 {
		heuristics.DiskDifference = defaults.DiskDifference
	}
	if heuristics.Corner == 0 {
		heuristics.Corner = defaults.Corner
	}
	if heuristics.CornerCloseness == 0 {
		heuristics.CornerCloseness = defaults.CornerCloseness
	}
	if heuristics.Mobility == 0 {
		heuristics.Mobility = defaults.Mobility
	}
	if heuristics.EdgeDisks == 0 {
		heuristics.EdgeDisks = defaults.EdgeDisks
	}
	return heuristics
}

// heuristicHash identifies a weight set, so a cache filled under one set of
// weights is never read under another.
func heuristicHash(config HeuristicConfig) uint64 {
	hash := uint64(fnv64Offset)
	mix := func(value float64) {
		bits := math.Float64bits(value)
		for i := 0; i < 8; i++ {
			hash ^= uint64(byte(bits >> (8 * i)))
			hash *= fnv64Prime
		}
	}
	mix(config.Field)
	mix(config.DiskDifference)
	mix(config.Corner)
	mix(config.CornerCloseness)
	mix(config.Mobility)
	mix(config.EdgeDisks)
	return hash
}

func heuristicHashFromConfig(config Config) uint64 {
	return heuristicHash(resolvedHeuristicConfig(config))
}

func formatHash(hash uint64) string {
	return fmt.Sprintf("0x%016x", hash)
}
