package game

import "strings"

// Phase is the stage of the game. Exactly one phase is active at a time.
type Phase int

const (
	Placement Phase = iota
	Capture
	Movement
)

func (p Phase) String() string {
	switch p {
	case Placement:
		return "placement"
	case Capture:
		return "capture"
	default:
		return "movement"
	}
}

// MovementOrigin tags how the movement phase was entered. It decides
// whose turn it is when the phase opens.
type MovementOrigin int

const (
	FromPlacement MovementOrigin = iota // every capture skipped: White moves first
	FromCapture                         // capture phase resolved: mover preserved
	FromMovement                        // reward sub-loop finished: turn flips
)

// captureSource distinguishes the post-placement capture phase from a
// reward-triggered sub-loop during movement.
type captureSource int

const (
	captureFromPlacement captureSource = iota
	captureFromMovement
)

// triggered records which pattern instances have ever been awarded.
// Sets are append-only for the lifetime of a game: a pattern that fired
// once never grants again, even if its cells change hands later.
type triggered struct {
	squares map[Pos]struct{}
	tris    map[int]struct{}
	tetras  map[int]struct{}
	rows    map[int]struct{}
	cols    map[int]struct{}
	dragons map[int]struct{}
}

func newTriggered() triggered {
	return triggered{
		squares: make(map[Pos]struct{}),
		tris:    make(map[int]struct{}),
		tetras:  make(map[int]struct{}),
		rows:    make(map[int]struct{}),
		cols:    make(map[int]struct{}),
		dragons: make(map[int]struct{}),
	}
}

func (t triggered) has(pat Pattern) bool {
	switch pat.Kind {
	case SquarePattern:
		_, ok := t.squares[pat.Anchor]
		return ok
	case TriPattern:
		_, ok := t.tris[pat.ID]
		return ok
	case TetraPattern:
		_, ok := t.tetras[pat.ID]
		return ok
	case RowPattern:
		_, ok := t.rows[pat.ID]
		return ok
	case ColPattern:
		_, ok := t.cols[pat.ID]
		return ok
	default:
		_, ok := t.dragons[pat.ID]
		return ok
	}
}

func (t triggered) add(pat Pattern) {
	switch pat.Kind {
	case SquarePattern:
		t.squares[pat.Anchor] = struct{}{}
	case TriPattern:
		t.tris[pat.ID] = struct{}{}
	case TetraPattern:
		t.tetras[pat.ID] = struct{}{}
	case RowPattern:
		t.rows[pat.ID] = struct{}{}
	case ColPattern:
		t.cols[pat.ID] = struct{}{}
	default:
		t.dragons[pat.ID] = struct{}{}
	}
}

func (t triggered) clone() triggered {
	c := newTriggered()
	for k := range t.squares {
		c.squares[k] = struct{}{}
	}
	for k := range t.tris {
		c.tris[k] = struct{}{}
	}
	for k := range t.tetras {
		c.tetras[k] = struct{}{}
	}
	for k := range t.rows {
		c.rows[k] = struct{}{}
	}
	for k := range t.cols {
		c.cols[k] = struct{}{}
	}
	for k := range t.dragons {
		c.dragons[k] = struct{}{}
	}
	return c
}

// instances enumerates every triggered pattern instance.
func (t triggered) instances() []Pattern {
	pats := make([]Pattern, 0,
		len(t.squares)+len(t.tris)+len(t.tetras)+len(t.rows)+len(t.cols)+len(t.dragons))
	for a := range t.squares {
		pats = append(pats, Pattern{Kind: SquarePattern, Anchor: a})
	}
	for id := range t.tris {
		pats = append(pats, Pattern{Kind: TriPattern, ID: id})
	}
	for id := range t.tetras {
		pats = append(pats, Pattern{Kind: TetraPattern, ID: id})
	}
	for id := range t.rows {
		pats = append(pats, Pattern{Kind: RowPattern, ID: id})
	}
	for id := range t.cols {
		pats = append(pats, Pattern{Kind: ColPattern, ID: id})
	}
	for id := range t.dragons {
		pats = append(pats, Pattern{Kind: DragonPattern, ID: id})
	}
	return pats
}

// Board owns the single source of truth for one game. It is mutated
// only through Place, Capture and Move; every accessor is read-only.
// Board is not safe for concurrent mutation; hand the advisor a Clone.
type Board struct {
	grid           [Size][Size]Cell
	current        Player
	phase          Phase
	extraMoves     int
	captureLeft    map[Player]int
	captureTurn    Player
	captureSource  captureSource
	movementOrigin MovementOrigin
	trig           triggered
	protected      map[Player]map[Pos]struct{}
	record         []Action
}

// NewBoard returns an empty board in the placement phase, Black to play.
func NewBoard() *Board {
	b := &Board{
		current:     Black,
		phase:       Placement,
		captureLeft: map[Player]int{Black: 0, White: 0},
		captureTurn: Black,
		trig:        newTriggered(),
	}
	b.updateProtected()
	return b
}

// Clone returns a deep copy sharing no mutable state with the receiver.
func (b *Board) Clone() *Board {
	c := &Board{
		grid:           b.grid,
		current:        b.current,
		phase:          b.phase,
		extraMoves:     b.extraMoves,
		captureLeft:    map[Player]int{Black: b.captureLeft[Black], White: b.captureLeft[White]},
		captureTurn:    b.captureTurn,
		captureSource:  b.captureSource,
		movementOrigin: b.movementOrigin,
		trig:           b.trig.clone(),
		record:         make([]Action, len(b.record)),
	}
	copy(c.record, b.record)
	c.updateProtected()
	return c
}

// State returns the active phase and the player to act.
func (b *Board) State() (Phase, Player) {
	return b.phase, b.current
}

func (b *Board) Phase() Phase          { return b.phase }
func (b *Board) CurrentPlayer() Player { return b.current }
func (b *Board) ExtraMoves() int       { return b.extraMoves }
func (b *Board) CaptureTurn() Player   { return b.captureTurn }

// Origin reports how the current movement phase was entered.
func (b *Board) Origin() MovementOrigin { return b.movementOrigin }

// CaptureRemaining returns the player's pending capture quota.
func (b *Board) CaptureRemaining(p Player) int { return b.captureLeft[p] }

// At returns the cell at (row, col).
func (b *Board) At(row, col int) Cell { return b.grid[row][col] }

// Record returns a copy of the append-only action log.
func (b *Board) Record() []Action {
	rec := make([]Action, len(b.record))
	copy(rec, b.record)
	return rec
}

func (b *Board) recordAction(a Action) {
	b.record = append(b.record, a)
}

// Pieces lists the player's stones in row-major order.
func (b *Board) Pieces(p Player) []Pos {
	s := stone(p)
	var pieces []Pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == s {
				pieces = append(pieces, Pos{r, c})
			}
		}
	}
	return pieces
}

// StoneCount returns how many stones the player has on the board.
func (b *Board) StoneCount(p Player) int {
	s := stone(p)
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == s {
				n++
			}
		}
	}
	return n
}

func (b *Board) full() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

// HasLegalMoves reports whether the player could act in the movement
// phase: at least 3 stones, and at least one with an empty orthogonal
// neighbor. Below 3 stones no pattern can ever form, so the player has
// already lost regardless of empty cells.
func (b *Board) HasLegalMoves(p Player) bool {
	pieces := b.Pieces(p)
	if len(pieces) < 3 {
		return false
	}
	for _, pos := range pieces {
		for _, n := range neighbors(pos) {
			if b.grid[n.Row][n.Col] == Empty {
				return true
			}
		}
	}
	return false
}

func neighbors(pos Pos) []Pos {
	candidates := [4]Pos{
		{pos.Row - 1, pos.Col},
		{pos.Row + 1, pos.Col},
		{pos.Row, pos.Col - 1},
		{pos.Row, pos.Col + 1},
	}
	var ns []Pos
	for _, n := range candidates {
		if inBounds(n.Row, n.Col) {
			ns = append(ns, n)
		}
	}
	return ns
}

// IsProtected reports whether the stone at pos belongs to owner and sits
// inside a triggered pattern the owner still fully holds.
func (b *Board) IsProtected(pos Pos, owner Player) bool {
	_, ok := b.protected[owner][pos]
	return ok
}

// ProtectedCount returns the number of the player's protected stones.
func (b *Board) ProtectedCount(p Player) int { return len(b.protected[p]) }

// updateProtected rebuilds the derived protection sets from the current
// grid and the triggered-pattern record. A cell is protected only while
// it is both part of an already-triggered pattern and occupied by that
// pattern's owner.
func (b *Board) updateProtected() {
	b.protected = map[Player]map[Pos]struct{}{
		Black: make(map[Pos]struct{}),
		White: make(map[Pos]struct{}),
	}
	for _, pat := range b.trig.instances() {
		for _, p := range []Player{Black, White} {
			if b.holdsPattern(pat, p) {
				for _, cell := range pat.Cells() {
					b.protected[p][cell] = struct{}{}
				}
			}
		}
	}
}

// claim awards the pattern to the player if it is fully held and has
// never fired before. Returns the bonus granted (0 if not claimed).
func (b *Board) claim(pat Pattern, p Player) int {
	if b.trig.has(pat) || !b.holdsPattern(pat, p) {
		return 0
	}
	b.trig.add(pat)
	b.recordAction(Action{Type: RewardAction, Player: p, Pattern: &pat})
	return pat.Bonus()
}

// squareAnchors lists the 2x2 anchors whose block contains pos.
func squareAnchors(pos Pos) []Pos {
	var anchors []Pos
	for _, a := range [4]Pos{
		{pos.Row, pos.Col},
		{pos.Row, pos.Col - 1},
		{pos.Row - 1, pos.Col},
		{pos.Row - 1, pos.Col - 1},
	} {
		if a.Row >= 0 && a.Row < Size-1 && a.Col >= 0 && a.Col < Size-1 {
			anchors = append(anchors, a)
		}
	}
	return anchors
}

// checkPlacementRewards evaluates patterns completed by a stone just
// placed at pos: squares localized to the placement, every other family
// scanned over all of its instances.
func (b *Board) checkPlacementRewards(pos Pos) int {
	p := b.current
	bonus := 0
	for _, a := range squareAnchors(pos) {
		bonus += b.claim(Pattern{Kind: SquarePattern, Anchor: a}, p)
	}
	for id := range triCells {
		bonus += b.claim(Pattern{Kind: TriPattern, ID: id}, p)
	}
	for id := range tetraCells {
		bonus += b.claim(Pattern{Kind: TetraPattern, ID: id}, p)
	}
	for r := 0; r < Size; r++ {
		bonus += b.claim(Pattern{Kind: RowPattern, ID: r}, p)
	}
	for c := 0; c < Size; c++ {
		bonus += b.claim(Pattern{Kind: ColPattern, ID: c}, p)
	}
	for id := range dragonCells {
		bonus += b.claim(Pattern{Kind: DragonPattern, ID: id}, p)
	}
	return bonus
}

// checkMovementRewards evaluates only patterns containing the
// destination cell of a move.
func (b *Board) checkMovementRewards(pos Pos) int {
	p := b.current
	count := 0
	for _, a := range squareAnchors(pos) {
		count += b.claim(Pattern{Kind: SquarePattern, Anchor: a}, p)
	}
	for id := range triCells {
		if contains(triCells[id][:], pos) {
			count += b.claim(Pattern{Kind: TriPattern, ID: id}, p)
		}
	}
	for id := range tetraCells {
		if contains(tetraCells[id][:], pos) {
			count += b.claim(Pattern{Kind: TetraPattern, ID: id}, p)
		}
	}
	count += b.claim(Pattern{Kind: RowPattern, ID: pos.Row}, p)
	count += b.claim(Pattern{Kind: ColPattern, ID: pos.Col}, p)
	for id := range dragonCells {
		if contains(dragonCells[id][:], pos) {
			count += b.claim(Pattern{Kind: DragonPattern, ID: id}, p)
		}
	}
	return count
}

// scanAllRewards rebuilds the triggered sets from the current grid for
// both players. Used at capture-phase entry so the pattern record is
// ownership-accurate; no reward log entries are emitted, a rescan is
// bookkeeping, not a grant.
func (b *Board) scanAllRewards() {
	for _, p := range []Player{Black, White} {
		for r := 0; r < Size-1; r++ {
			for c := 0; c < Size-1; c++ {
				if b.isSquare(r, c, p) {
					b.trig.add(Pattern{Kind: SquarePattern, Anchor: Pos{r, c}})
				}
			}
		}
		for id := range triCells {
			if b.isTri(id, p) {
				b.trig.add(Pattern{Kind: TriPattern, ID: id})
			}
		}
		for id := range tetraCells {
			if b.isTetra(id, p) {
				b.trig.add(Pattern{Kind: TetraPattern, ID: id})
			}
		}
		for r := 0; r < Size; r++ {
			if b.isRow(r, p) {
				b.trig.add(Pattern{Kind: RowPattern, ID: r})
			}
		}
		for c := 0; c < Size; c++ {
			if b.isCol(c, p) {
				b.trig.add(Pattern{Kind: ColPattern, ID: c})
			}
		}
		for id := range dragonCells {
			if b.isDragon(id, p) {
				b.trig.add(Pattern{Kind: DragonPattern, ID: id})
			}
		}
	}
}

// ownedPatternBonus sums the rewards of triggered patterns the player
// currently holds. This is the pattern-derived capture quota.
func (b *Board) ownedPatternBonus(p Player) int {
	total := 0
	for _, pat := range b.trig.instances() {
		if b.holdsPattern(pat, p) {
			total += pat.Bonus()
		}
	}
	return total
}

// OwnedPatternCount returns how many triggered pattern instances the
// player currently holds in full.
func (b *Board) OwnedPatternCount(p Player) int {
	n := 0
	for _, pat := range b.trig.instances() {
		if b.holdsPattern(pat, p) {
			n++
		}
	}
	return n
}

// hasCapturableTargets reports whether the attacker could legally
// capture at least one opposing stone.
func (b *Board) hasCapturableTargets(attacker Player) bool {
	opp := attacker.Opponent()
	s := stone(opp)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == s && !b.IsProtected(Pos{r, c}, opp) {
				return true
			}
		}
	}
	return false
}

// Place puts the current player's stone at (row, col) during the
// placement phase. It returns the bonus placements granted by any newly
// completed patterns. One pending bonus is consumed per placement; with
// none pending the turn passes. Filling the board enters the capture
// phase.
func (b *Board) Place(row, col int) (int, error) {
	if b.phase != Placement {
		return 0, ErrWrongPhase
	}
	if !inBounds(row, col) {
		return 0, ErrOutOfBounds
	}
	if b.grid[row][col] != Empty {
		return 0, ErrCellOccupied
	}

	p := b.current
	b.grid[row][col] = stone(p)
	b.recordAction(Action{Type: PlaceAction, Player: p, Pos: Pos{row, col}})

	bonus := b.checkPlacementRewards(Pos{row, col})
	b.extraMoves += bonus
	if b.extraMoves > 0 {
		b.extraMoves--
	} else {
		b.current = p.Opponent()
	}
	b.updateProtected()

	if b.full() {
		b.enterCapturePhase()
	}
	return bonus, nil
}

// enterCapturePhase runs when the board fills. The triggered-pattern
// record is rebuilt from the final grid, quotas derive from the
// patterns each player holds, and White opens if it can capture.
func (b *Board) enterCapturePhase() {
	b.phase = Capture
	b.captureSource = captureFromPlacement
	b.trig = newTriggered()
	b.scanAllRewards()
	b.updateProtected()

	b.captureLeft = map[Player]int{Black: 0, White: 0}
	for _, p := range []Player{White, Black} {
		quota := b.ownedPatternBonus(p)
		if quota > 0 && !b.hasCapturableTargets(p) {
			quota = 0
		}
		b.captureLeft[p] = quota
	}

	switch {
	case b.captureLeft[White] > 0:
		b.current = White
		b.captureTurn = White
	case b.captureLeft[Black] > 0:
		b.current = Black
		b.captureTurn = Black
	default:
		b.enterMovementPhase(FromPlacement)
	}
}

// Capture removes an unprotected opposing stone at (row, col) for the
// current player, who must have a pending quota. When every debt is
// settled the board moves on to the movement phase.
func (b *Board) Capture(row, col int) error {
	if b.phase != Capture {
		return ErrWrongPhase
	}
	p := b.current
	if b.captureLeft[p] <= 0 {
		return ErrNoCaptureOwed
	}
	if !inBounds(row, col) {
		return ErrOutOfBounds
	}

	opp := p.Opponent()
	owner, occupied := b.grid[row][col].Owner()
	if !occupied {
		return ErrCellEmpty
	}
	if owner == p {
		return ErrOwnStone
	}
	if b.IsProtected(Pos{row, col}, opp) {
		return ErrProtected
	}

	b.grid[row][col] = Empty
	b.recordAction(Action{Type: CaptureAction, Player: p, Pos: Pos{row, col}})
	b.captureLeft[p]--
	b.updateProtected()

	return b.resolveCaptureTurn(p)
}

// resolveCaptureTurn applies the turn policy after a capture: the actor
// continues while it owes, otherwise the debt moves to the opponent if
// payable; unpayable debts are forfeited. Total pending is monotonically
// non-increasing and the phase flips to movement exactly at zero.
func (b *Board) resolveCaptureTurn(actor Player) error {
	for _, p := range []Player{actor, actor.Opponent()} {
		if b.captureLeft[p] > 0 && !b.hasCapturableTargets(p) {
			b.captureLeft[p] = 0
		}
	}

	if b.captureLeft[actor] > 0 {
		return nil
	}
	if opp := actor.Opponent(); b.captureLeft[opp] > 0 {
		b.current = opp
		return nil
	}

	if b.captureSource == captureFromMovement {
		b.enterMovementPhase(FromMovement)
	} else {
		b.enterMovementPhase(FromCapture)
	}
	// Immobilization is re-checked once movement has begun, against the
	// opponent of whoever captured last.
	if !b.HasLegalMoves(actor.Opponent()) {
		return ImmediateWinError{Winner: actor}
	}
	return nil
}

func (b *Board) enterMovementPhase(origin MovementOrigin) {
	b.phase = Movement
	b.movementOrigin = origin
	switch origin {
	case FromPlacement:
		b.current = White
	case FromCapture:
		// Mover preserved.
	case FromMovement:
		b.current = b.current.Opponent()
	}
	b.updateProtected()
}

func manhattan(a, c Pos) int {
	return abs(a.Row-c.Row) + abs(a.Col-c.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Move relocates the current player's stone one orthogonal cell during
// the movement phase. A destination completing new patterns re-enters
// the capture phase with the mover owed the returned count; the caller
// resolves those captures interactively. With no reward, the turn
// passes unless the opponent is immobilized, which wins the game for
// the mover on the spot.
func (b *Board) Move(from, to Pos) (int, error) {
	if b.phase != Movement {
		return 0, ErrWrongPhase
	}
	if !inBounds(from.Row, from.Col) || !inBounds(to.Row, to.Col) {
		return 0, ErrOutOfBounds
	}
	p := b.current
	owner, occupied := b.grid[from.Row][from.Col].Owner()
	if !occupied {
		return 0, ErrCellEmpty
	}
	if owner != p {
		return 0, ErrNotYourStone
	}
	if b.grid[to.Row][to.Col] != Empty {
		return 0, ErrCellOccupied
	}
	if manhattan(from, to) != 1 {
		return 0, ErrNotAdjacent
	}

	b.grid[from.Row][from.Col] = Empty
	b.grid[to.Row][to.Col] = stone(p)
	b.recordAction(Action{Type: MoveAction, Player: p, From: from, To: to})

	captures := b.checkMovementRewards(to)
	b.updateProtected()

	if captures > 0 {
		if b.hasCapturableTargets(p) {
			b.phase = Capture
			b.captureSource = captureFromMovement
			b.captureLeft = map[Player]int{Black: 0, White: 0}
			b.captureLeft[p] = captures
			b.captureTurn = p
			return captures, nil
		}
		// Every opposing stone is protected: the quota is unpayable and
		// forfeited on the spot, and the turn resolves as usual.
		captures = 0
	}

	opp := p.Opponent()
	if !b.HasLegalMoves(opp) {
		return 0, ImmediateWinError{Winner: p}
	}
	b.current = opp
	return 0, nil
}

// Winner reports a decided game: a side below 3 stones loses, and a
// player unable to move during the movement phase loses. Never decided
// during placement.
func (b *Board) Winner() (Player, bool) {
	if b.phase == Placement {
		return Black, false
	}
	if b.StoneCount(Black) < 3 {
		return White, true
	}
	if b.StoneCount(White) < 3 {
		return Black, true
	}
	if b.phase == Movement && !b.HasLegalMoves(b.current) {
		return b.current.Opponent(), true
	}
	return Black, false
}

// LegalPlacements lists every empty cell in row-major order.
func (b *Board) LegalPlacements() []Pos {
	var cells []Pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == Empty {
				cells = append(cells, Pos{r, c})
			}
		}
	}
	return cells
}

// LegalCaptures lists the opposing stones the current player may
// capture right now.
func (b *Board) LegalCaptures() []Pos {
	opp := b.current.Opponent()
	s := stone(opp)
	var targets []Pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.grid[r][c] == s && !b.IsProtected(Pos{r, c}, opp) {
				targets = append(targets, Pos{r, c})
			}
		}
	}
	return targets
}

// LegalSteps lists every (from, to) move available to the current
// player in row-major order.
func (b *Board) LegalSteps() []Step {
	var steps []Step
	for _, from := range b.Pieces(b.current) {
		for _, to := range neighbors(from) {
			if b.grid[to.Row][to.Col] == Empty {
				steps = append(steps, Step{From: from, To: to})
			}
		}
	}
	return steps
}

// String renders the grid with coordinate headers.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4\n")
	for r := 0; r < Size; r++ {
		sb.WriteByte(byte('0' + r))
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			sb.WriteString(b.grid[r][c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
