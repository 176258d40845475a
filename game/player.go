package game

// Player identifies one of the two sides. Black places first.
type Player int

const (
	Black Player = iota
	White
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

func (p Player) String() string {
	if p == Black {
		return "Black"
	}
	return "White"
}

// Cell is one intersection of the grid.
type Cell int8

const (
	Empty Cell = iota
	BlackStone
	WhiteStone
)

func stone(p Player) Cell {
	if p == Black {
		return BlackStone
	}
	return WhiteStone
}

// Owner returns the player occupying the cell, if any.
func (c Cell) Owner() (Player, bool) {
	switch c {
	case BlackStone:
		return Black, true
	case WhiteStone:
		return White, true
	default:
		return Black, false
	}
}

func (c Cell) String() string {
	switch c {
	case BlackStone:
		return "●"
	case WhiteStone:
		return "○"
	default:
		return "·"
	}
}

// Pos is a zero-based (row, col) coordinate on the 5x5 grid.
type Pos struct {
	Row int
	Col int
}

// Step is a single-cell relocation during the movement phase.
type Step struct {
	From Pos
	To   Pos
}

// Size is the board edge length.
const Size = 5

func inBounds(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
