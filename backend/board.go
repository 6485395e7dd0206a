package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const BoardSize = 8

type Cell int8

const (
	CellWhite Cell = -1
	CellEmpty Cell = 0
	CellBlack Cell = 1
)

var (
	ErrInvalidBoard   = errors.New("invalid board")
	ErrInvalidPlayers = errors.New("invalid player identifiers")
)

var directions = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, -1}, {1, -1}, {-1, 1},
}

// Board is an 8x8 position plus the side the search maximizes for (Bot) and
// the side it minimizes against (Player). Boards are values: moves return a
// new Board and the receiver is never modified. Board is comparable and is
// used directly as a map key.
type Board struct {
	cells  [BoardSize][BoardSize]Cell
	Bot    Cell
	Player Cell
}

// NewStartingBoard returns the standard opening cross with bot playing the
// given colour.
func NewStartingBoard(bot Cell) Board {
	b := Board{Bot: bot, Player: bot.Opponent()}
	b.cells[3][3] = CellBlack
	b.cells[3][4] = CellWhite
	b.cells[4][3] = CellWhite
	b.cells[4][4] = CellBlack
	return b
}

// BoardFromMatrix builds a Board from host input. Only the shape, the cell
// values and the player identifiers are checked.
func BoardFromMatrix(matrix [][]int, player, bot int) (Board, error) {
	if bot != int(CellBlack) && bot != int(CellWhite) {
		return Board{}, fmt.Errorf("%w: bot must be 1 or -1, got %d", ErrInvalidPlayers, bot)
	}
	if player != -bot {
		return Board{}, fmt.Errorf("%w: player %d is not the opponent of bot %d", ErrInvalidPlayers, player, bot)
	}
	if len(matrix) != BoardSize {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, BoardSize, len(matrix))
	}
	b := Board{Bot: Cell(bot), Player: Cell(player)}
	for row, values := range matrix {
		if len(values) != BoardSize {
			return Board{}, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(values))
		}
		for col, value := range values {
			if value < -1 || value > 1 {
				return Board{}, fmt.Errorf("%w: cell (%d,%d) has value %d", ErrInvalidBoard, row, col, value)
			}
			b.cells[row][col] = Cell(value)
		}
	}
	return b, nil
}

func (c Cell) Opponent() Cell {
	return c * -1
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < BoardSize && col < BoardSize
}

func (b Board) At(row, col int) Cell {
	return b.cells[row][col]
}

// With returns a copy of b with one cell replaced. It does not flip anything.
func (b Board) With(row, col int, value Cell) Board {
	b.cells[row][col] = value
	return b
}

func (b Board) Matrix() [][]int {
	out := make([][]int, BoardSize)
	for row := 0; row < BoardSize; row++ {
		out[row] = make([]int, BoardSize)
		for col := 0; col < BoardSize; col++ {
			out[row][col] = int(b.cells[row][col])
		}
	}
	return out
}

// IsLegal reports whether player may place a disk at (row, col).
func (b Board) IsLegal(row, col int, player Cell) bool {
	if b.cells[row][col] != CellEmpty {
		return false
	}
	opponent := player.Opponent()
	for _, dir := range directions {
		r, c := row+dir[0], col+dir[1]
		run := 0
		for InBounds(r, c) && b.cells[r][c] == opponent {
			run++
			r += dir[0]
			c += dir[1]
		}
		if run > 0 && InBounds(r, c) && b.cells[r][c] == player {
			return true
		}
	}
	return false
}

// ApplyMove places a disk for player and flips every bracketed run. The
// origin cell is only set when at least one disk flips, so an illegal move
// yields an unchanged copy.
func (b Board) ApplyMove(row, col int, player Cell) Board {
	next := b
	opponent := player.Opponent()
	for _, dir := range directions {
		r, c := row+dir[0], col+dir[1]
		run := 0
		for InBounds(r, c) && b.cells[r][c] == opponent {
			run++
			r += dir[0]
			c += dir[1]
		}
		if run == 0 || !InBounds(r, c) || b.cells[r][c] != player {
			continue
		}
		for i := 1; i <= run; i++ {
			next.cells[row+dir[0]*i][col+dir[1]*i] = player
		}
		next.cells[row][col] = player
	}
	return next
}

// LegalMoves lists player's legal moves in row-major order.
func (b Board) LegalMoves(player Cell) []Move {
	moves := make([]Move, 0, 16)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.IsLegal(row, col, player) {
				moves = append(moves, NewMove(row, col))
			}
		}
	}
	return moves
}

func (b Board) Successors(player Cell) []Board {
	moves := b.LegalMoves(player)
	out := make([]Board, 0, len(moves))
	for _, move := range moves {
		out = append(out, b.ApplyMove(move.Row, move.Col, player))
	}
	return out
}

func (b Board) countLegalMoves(player Cell) int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.IsLegal(row, col, player) {
				count++
			}
		}
	}
	return count
}

// IsTerminal is true when player has no legal move. The opponent's moves are
// not considered.
func (b Board) IsTerminal(player Cell) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.IsLegal(row, col, player) {
				return false
			}
		}
	}
	return true
}

// GoalValue scores a finished game: +Inf when Bot has more disks, -Inf when
// Player has more, 0 on a tie.
func (b Board) GoalValue() float64 {
	botDisks := b.CountDisks(b.Bot)
	playerDisks := b.CountDisks(b.Player)
	switch {
	case botDisks > playerDisks:
		return math.Inf(1)
	case playerDisks > botDisks:
		return math.Inf(-1)
	default:
		return 0.0
	}
}

func (b Board) CountDisks(cell Cell) int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.cells[row][col] == cell {
				count++
			}
		}
	}
	return count
}

func (b Board) EmptyCount() int {
	return b.CountDisks(CellEmpty)
}

// Winner returns the colour holding more disks, or CellEmpty on a tie.
func (b Board) Winner() Cell {
	black := b.CountDisks(CellBlack)
	white := b.CountDisks(CellWhite)
	switch {
	case black > white:
		return CellBlack
	case white > black:
		return CellWhite
	default:
		return CellEmpty
	}
}

// MoveBetween recovers the move that turned from into to.
func MoveBetween(from, to Board) (Move, bool) {
	found := Move{Row: -1, Col: -1}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if from.cells[row][col] != CellEmpty || to.cells[row][col] == CellEmpty {
				continue
			}
			if found.IsValid() {
				return Move{Row: -1, Col: -1}, false
			}
			found = NewMove(row, col)
		}
	}
	return found, found.IsValid()
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			switch b.cells[row][col] {
			case CellBlack:
				sb.WriteByte('X')
			case CellWhite:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
