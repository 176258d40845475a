package game

import "fmt"

// PatternKind is a reward shape family.
type PatternKind int

const (
	SquarePattern PatternKind = iota // 2x2 block, anchored by its top-left corner
	TriPattern                       // three-cell corner diagonal
	TetraPattern                     // four-cell off diagonal
	RowPattern                       // full row
	ColPattern                       // full column
	DragonPattern                    // full main or anti diagonal
)

func (k PatternKind) String() string {
	switch k {
	case SquarePattern:
		return "square"
	case TriPattern:
		return "tri"
	case TetraPattern:
		return "tetra"
	case RowPattern:
		return "row"
	case ColPattern:
		return "col"
	case DragonPattern:
		return "dragon"
	default:
		return "unknown"
	}
}

// Pattern is one concrete pattern instance. Squares are identified by
// their top-left anchor, every other family by a fixed index.
type Pattern struct {
	Kind   PatternKind
	Anchor Pos // squares only
	ID     int // tri/tetra/dragon id, row/col index
}

// Fixed coordinate tables. IDs match the original game's numbering.
var triCells = [4][3]Pos{
	{{0, 2}, {1, 1}, {2, 0}},
	{{0, 2}, {1, 3}, {2, 4}},
	{{2, 0}, {3, 1}, {4, 2}},
	{{2, 4}, {3, 3}, {4, 2}},
}

var tetraCells = [4][4]Pos{
	{{0, 1}, {1, 2}, {2, 3}, {3, 4}},
	{{0, 3}, {1, 2}, {2, 1}, {3, 0}},
	{{1, 0}, {2, 1}, {3, 2}, {4, 3}},
	{{1, 4}, {2, 3}, {3, 2}, {4, 1}},
}

var dragonCells = [2][5]Pos{
	{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}},
	{{0, 4}, {1, 3}, {2, 2}, {3, 1}, {4, 0}},
}

// Cells returns the grid coordinates covered by the pattern instance.
func (p Pattern) Cells() []Pos {
	switch p.Kind {
	case SquarePattern:
		r, c := p.Anchor.Row, p.Anchor.Col
		return []Pos{{r, c}, {r, c + 1}, {r + 1, c}, {r + 1, c + 1}}
	case TriPattern:
		return triCells[p.ID][:]
	case TetraPattern:
		return tetraCells[p.ID][:]
	case RowPattern:
		cells := make([]Pos, Size)
		for c := 0; c < Size; c++ {
			cells[c] = Pos{p.ID, c}
		}
		return cells
	case ColPattern:
		cells := make([]Pos, Size)
		for r := 0; r < Size; r++ {
			cells[r] = Pos{r, p.ID}
		}
		return cells
	case DragonPattern:
		return dragonCells[p.ID][:]
	default:
		return nil
	}
}

// Bonus is the reward granted when the pattern completes: one extra
// action for the small shapes, two for a full line.
func (p Pattern) Bonus() int {
	switch p.Kind {
	case RowPattern, ColPattern, DragonPattern:
		return 2
	default:
		return 1
	}
}

func (p Pattern) String() string {
	if p.Kind == SquarePattern {
		return fmt.Sprintf("square(%d,%d)", p.Anchor.Row, p.Anchor.Col)
	}
	return fmt.Sprintf("%s(%d)", p.Kind, p.ID)
}

// owns reports whether every cell in the list holds a stone of the player.
func (b *Board) owns(cells []Pos, p Player) bool {
	s := stone(p)
	for _, pos := range cells {
		if b.grid[pos.Row][pos.Col] != s {
			return false
		}
	}
	return true
}

// isSquare reports whether the 2x2 block anchored at (r,c) is fully
// occupied by the player. Anchors range over [0,3]x[0,3] so the far
// corner (r+1,c+1) stays on the board.
func (b *Board) isSquare(r, c int, p Player) bool {
	if r < 0 || r >= Size-1 || c < 0 || c >= Size-1 {
		return false
	}
	return b.owns(Pattern{Kind: SquarePattern, Anchor: Pos{r, c}}.Cells(), p)
}

func (b *Board) isTri(id int, p Player) bool {
	if id < 0 || id >= len(triCells) {
		return false
	}
	return b.owns(triCells[id][:], p)
}

func (b *Board) isTetra(id int, p Player) bool {
	if id < 0 || id >= len(tetraCells) {
		return false
	}
	return b.owns(tetraCells[id][:], p)
}

func (b *Board) isRow(r int, p Player) bool {
	if r < 0 || r >= Size {
		return false
	}
	return b.owns(Pattern{Kind: RowPattern, ID: r}.Cells(), p)
}

func (b *Board) isCol(c int, p Player) bool {
	if c < 0 || c >= Size {
		return false
	}
	return b.owns(Pattern{Kind: ColPattern, ID: c}.Cells(), p)
}

func (b *Board) isDragon(id int, p Player) bool {
	if id < 0 || id >= len(dragonCells) {
		return false
	}
	return b.owns(dragonCells[id][:], p)
}

// holdsPattern reports whether the player currently occupies every cell
// of an arbitrary pattern instance.
func (b *Board) holdsPattern(pat Pattern, p Player) bool {
	return b.owns(pat.Cells(), p)
}

func contains(cells []Pos, pos Pos) bool {
	for _, c := range cells {
		if c == pos {
			return true
		}
	}
	return false
}
