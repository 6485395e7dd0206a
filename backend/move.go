package main

import "fmt"

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) IsValid() bool {
	return InBounds(m.Row, m.Col)
}

func (m Move) Equals(other Move) bool {
	return m.Row == other.Row && m.Col == other.Col
}

// String uses the usual a1..h8 notation, columns as letters.
func (m Move) String() string {
	if !m.IsValid() {
		return "pass"
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}
