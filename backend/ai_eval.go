package main

var fieldValues = [BoardSize][BoardSize]float64{
	{20.0, -3.0, 11.0, 8.0, 8.0, 11.0, -3.0, 20.0},
	{-3.0, -7.0, -4.0, 1.0, 1.0, -4.0, -7.0, -3.0},
	{11.0, -4.0, 2.0, 2.0, 2.0, 2.0, -4.0, 11.0},
	{8.0, 1.0, 2.0, -3.0, -3.0, 2.0, 1.0, 8.0},
	{8.0, 1.0, 2.0, -3.0, -3.0, 2.0, 1.0, 8.0},
	{11.0, -4.0, 2.0, 2.0, 2.0, 2.0, -4.0, 11.0},
	{-3.0, -7.0, -4.0, 1.0, 1.0, -4.0, -7.0, -3.0},
	{20.0, -3.0, 11.0, 8.0, 8.0, 11.0, -3.0, 20.0},
}

type cornerRegion struct {
	corner    [2]int
	neighbors [3][2]int
}

var cornerRegions = [4]cornerRegion{
	{corner: [2]int{0, 0}, neighbors: [3][2]int{{0, 1}, {1, 1}, {1, 0}}},
	{corner: [2]int{0, 7}, neighbors: [3][2]int{{0, 6}, {1, 6}, {1, 7}}},
	{corner: [2]int{7, 0}, neighbors: [3][2]int{{7, 1}, {6, 1}, {6, 0}}},
	{corner: [2]int{7, 7}, neighbors: [3][2]int{{6, 7}, {6, 6}, {7, 6}}},
}

// HeuristicBreakdown holds each weighted component of a static evaluation.
type HeuristicBreakdown struct {
	Field           float64 `json:"field"`
	DiskDifference  float64 `json:"disk_difference"`
	Corner          float64 `json:"corner"`
	CornerCloseness float64 `json:"corner_closeness"`
	Mobility        float64 `json:"mobility"`
	EdgeDisks       float64 `json:"edge_disks"`
}

func (h HeuristicBreakdown) Total() float64 {
	return h.DiskDifference + h.Corner + h.CornerCloseness + h.Mobility + h.EdgeDisks + h.Field
}

// HeuristicValue is the static score of b from Bot's point of view.
func HeuristicValue(b Board, weights HeuristicConfig) float64 {
	return EvaluateBoard(b, weights).Total()
}

func EvaluateBoard(b Board, weights HeuristicConfig) HeuristicBreakdown {
	return HeuristicBreakdown{
		Field:           weights.Field * fieldScore(b),
		DiskDifference:  weights.DiskDifference * diskDifferenceScore(b),
		Corner:          weights.Corner * cornerScore(b),
		CornerCloseness: weights.CornerCloseness * cornerClosenessScore(b),
		Mobility:        weights.Mobility * mobilityScore(b),
		EdgeDisks:       weights.EdgeDisks * edgeDiskScore(b),
	}
}

func fieldScore(b Board) float64 {
	score := 0.0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch b.cells[row][col] {
			case b.Bot:
				score += fieldValues[row][col]
			case b.Player:
				score -= fieldValues[row][col]
			}
		}
	}
	return score
}

// shareScore is the leading side's percentage of mine+theirs, positive when
// mine leads, negative when theirs leads, zero on a tie.
func shareScore(mine, theirs int) float64 {
	total := float64(mine + theirs)
	switch {
	case mine > theirs:
		return 100.0 * float64(mine) / total
	case theirs > mine:
		return -100.0 * float64(theirs) / total
	default:
		return 0.0
	}
}

func diskDifferenceScore(b Board) float64 {
	return shareScore(b.CountDisks(b.Bot), b.CountDisks(b.Player))
}

func cornerScore(b Board) float64 {
	bot, player := 0, 0
	for _, region := range cornerRegions {
		switch b.cells[region.corner[0]][region.corner[1]] {
		case b.Bot:
			bot++
		case b.Player:
			player++
		}
	}
	return 25.0 * float64(bot-player)
}

// cornerClosenessScore penalizes disks next to corners that are still open.
func cornerClosenessScore(b Board) float64 {
	bot, player := 0, 0
	for _, region := range cornerRegions {
		if b.cells[region.corner[0]][region.corner[1]] != CellEmpty {
			continue
		}
		for _, n := range region.neighbors {
			switch b.cells[n[0]][n[1]] {
			case b.Bot:
				bot++
			case b.Player:
				player++
			}
		}
	}
	return -12.5 * float64(bot-player)
}

func mobilityScore(b Board) float64 {
	return shareScore(b.countLegalMoves(b.Bot), b.countLegalMoves(b.Player))
}

// edgeDiskScore counts disks touching at least one empty cell. Exposed disks
// are a liability, so the sign is reversed.
func edgeDiskScore(b Board) float64 {
	bot, player := 0, 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			cell := b.cells[row][col]
			if cell == CellEmpty || !touchesEmpty(b, row, col) {
				continue
			}
			if cell == b.Bot {
				bot++
			} else {
				player++
			}
		}
	}
	return -shareScore(bot, player)
}

func touchesEmpty(b Board, row, col int) bool {
	for _, dir := range directions {
		r, c := row+dir[0], col+dir[1]
		if InBounds(r, c) && b.cells[r][c] == CellEmpty {
			return true
		}
	}
	return false
}
