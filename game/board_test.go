package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// placementScript fills the board through legal alternating play,
// leaving Black holding the square at (0,0) and White the square at
// (3,3) and nothing else. Each square completes mid-phase, so both
// players spend one bonus placement.
var placementScript = []Pos{
	{0, 0}, {3, 3}, {0, 1}, {3, 4}, {1, 0}, {4, 3},
	{1, 1}, // black square fires, Black places again
	{1, 3},
	{4, 4}, // white square fires, White places again
	{0, 2},
	{2, 2}, {0, 3}, {2, 3}, {0, 4}, {2, 4}, {1, 2},
	{3, 0}, {1, 4}, {3, 2}, {2, 0}, {4, 0}, {2, 1},
	{4, 1}, {3, 1}, {4, 2},
}

// patternFreeScript fills the board with strictly alternating rows of
// inverted colors, so no pattern ever completes for either player.
var patternFreeScript = []Pos{
	{0, 0}, {0, 2}, {0, 1}, {0, 3}, {0, 4}, {1, 0},
	{1, 2}, {1, 1}, {1, 3}, {1, 4}, {2, 0}, {2, 2},
	{2, 1}, {2, 3}, {2, 4}, {3, 0}, {3, 2}, {3, 1},
	{3, 3}, {3, 4}, {4, 0}, {4, 2}, {4, 1}, {4, 3},
	{4, 4},
}

func playScript(t *testing.T, b *Board, script []Pos) {
	t.Helper()
	for i, pos := range script {
		_, err := b.Place(pos.Row, pos.Col)
		require.NoError(t, err, "placement %d at %v", i+1, pos)
	}
}

// movementBoard builds a movement-phase position directly, bypassing
// the placement phase. The triggered-pattern record starts empty.
func movementBoard(current Player, black, white []Pos) *Board {
	b := NewBoard()
	for _, p := range black {
		b.grid[p.Row][p.Col] = BlackStone
	}
	for _, p := range white {
		b.grid[p.Row][p.Col] = WhiteStone
	}
	b.phase = Movement
	b.current = current
	b.updateProtected()
	return b
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	phase, player := b.State()
	require.Equal(t, Placement, phase)
	require.Equal(t, Black, player)
	require.Empty(t, b.Record())
	require.Len(t, b.LegalPlacements(), Size*Size)
}

func TestPlaceValidation(t *testing.T) {
	t.Run("out of bounds", func(t *testing.T) {
		b := NewBoard()
		_, err := b.Place(5, 0)
		require.ErrorIs(t, err, ErrOutOfBounds)
		_, err = b.Place(0, -1)
		require.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("occupied cell", func(t *testing.T) {
		b := NewBoard()
		_, err := b.Place(2, 2)
		require.NoError(t, err)
		_, err = b.Place(2, 2)
		require.ErrorIs(t, err, ErrCellOccupied)
	})

	t.Run("wrong phase", func(t *testing.T) {
		b := movementBoard(Black, []Pos{{0, 0}, {0, 1}, {0, 2}}, []Pos{{4, 0}, {4, 1}, {4, 2}})
		_, err := b.Place(2, 2)
		require.ErrorIs(t, err, ErrWrongPhase)
	})
}

func TestPlacementSquareReward(t *testing.T) {
	b := NewBoard()
	script := []Pos{{0, 0}, {4, 4}, {0, 1}, {4, 3}, {1, 0}, {3, 4}}
	playScript(t, b, script)
	require.Equal(t, Black, b.CurrentPlayer())

	bonus, err := b.Place(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, bonus, "completing the 2x2 square grants one extra placement")
	require.Equal(t, Black, b.CurrentPlayer(), "the bonus keeps Black on the move")

	_, err = b.Place(0, 0)
	require.ErrorIs(t, err, ErrCellOccupied, "the bonus placement must still target an empty cell")

	bonus, err = b.Place(2, 2)
	require.NoError(t, err)
	require.Equal(t, 0, bonus)
	require.Equal(t, White, b.CurrentPlayer(), "the consumed bonus hands the turn over")

	rewards := 0
	for _, a := range b.Record() {
		if a.Type == RewardAction {
			rewards++
			require.Equal(t, SquarePattern, a.Pattern.Kind)
			require.Equal(t, Pos{0, 0}, a.Pattern.Anchor)
		}
	}
	require.Equal(t, 1, rewards, "the square fires exactly once")
}

func TestTriggeredPatternsNeverRefire(t *testing.T) {
	b := NewBoard()
	for _, pos := range []Pos{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		b.grid[pos.Row][pos.Col] = BlackStone
	}
	pat := Pattern{Kind: SquarePattern, Anchor: Pos{0, 0}}

	require.Equal(t, 1, b.claim(pat, Black))
	require.Equal(t, 0, b.claim(pat, Black), "a claimed pattern never grants again")

	// Break the square and rebuild it: the record is append-only.
	b.grid[0][0] = Empty
	b.grid[0][0] = BlackStone
	require.Equal(t, 0, b.claim(pat, Black))
	require.True(t, b.trig.has(pat))
}

func TestPatternFreePlacementSkipsCaptures(t *testing.T) {
	b := NewBoard()
	playScript(t, b, patternFreeScript)

	require.Equal(t, Movement, b.Phase(), "no quotas means the capture phase is skipped entirely")
	require.Equal(t, FromPlacement, b.Origin())
	require.Equal(t, White, b.CurrentPlayer(), "White moves first after placement")
	require.Equal(t, 0, b.CaptureRemaining(Black))
	require.Equal(t, 0, b.CaptureRemaining(White))

	// The board is still full, so the mover is immobilized on the spot.
	winner, over := b.Winner()
	require.True(t, over)
	require.Equal(t, Black, winner)
}

func TestScriptedGameThroughCapturePhase(t *testing.T) {
	b := NewBoard()
	playScript(t, b, placementScript)

	require.Equal(t, Capture, b.Phase())
	require.Equal(t, White, b.CurrentPlayer(), "White settles its quota first")
	require.Equal(t, White, b.CaptureTurn())
	require.Equal(t, 1, b.CaptureRemaining(White), "one held square, bonus one")
	require.Equal(t, 1, b.CaptureRemaining(Black))
	require.Equal(t, 4, b.ProtectedCount(Black))
	require.Equal(t, 4, b.ProtectedCount(White))

	t.Run("capture validation", func(t *testing.T) {
		require.ErrorIs(t, b.Capture(0, 0), ErrProtected, "square cells are reward pieces")
		require.ErrorIs(t, b.Capture(3, 3), ErrOwnStone)
		require.ErrorIs(t, b.Capture(5, 5), ErrOutOfBounds)
	})

	require.NoError(t, b.Capture(2, 2))
	require.Equal(t, 0, b.CaptureRemaining(White))
	require.Equal(t, Black, b.CurrentPlayer(), "the settled debt moves to Black")
	require.Equal(t, Capture, b.Phase())

	require.ErrorIs(t, b.Capture(3, 4), ErrProtected)
	require.NoError(t, b.Capture(1, 2))
	require.Equal(t, 0, b.CaptureRemaining(Black))

	require.Equal(t, Movement, b.Phase(), "the phase flips exactly when every quota reaches zero")
	require.Equal(t, FromCapture, b.Origin())
	require.Equal(t, Black, b.CurrentPlayer(), "the last capturer keeps the move")

	require.Equal(t, Empty, b.At(2, 2))
	require.Equal(t, Empty, b.At(1, 2))
	require.Equal(t, 12, b.StoneCount(Black))
	require.Equal(t, 11, b.StoneCount(White))
}

func TestCaptureValidationOutsidePhase(t *testing.T) {
	b := NewBoard()
	require.ErrorIs(t, b.Capture(0, 0), ErrWrongPhase)
}

func TestCaptureWithoutQuota(t *testing.T) {
	b := movementBoard(Black, []Pos{{0, 0}, {0, 1}, {0, 2}}, []Pos{{4, 0}, {4, 1}, {4, 2}})
	b.phase = Capture
	require.ErrorIs(t, b.Capture(4, 0), ErrNoCaptureOwed)
}

func TestMoveValidation(t *testing.T) {
	black := []Pos{{0, 0}, {0, 1}, {2, 2}}
	white := []Pos{{4, 0}, {4, 2}, {4, 4}}

	t.Run("wrong phase", func(t *testing.T) {
		b := NewBoard()
		_, err := b.Move(Pos{0, 0}, Pos{0, 1})
		require.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("from an empty cell", func(t *testing.T) {
		b := movementBoard(Black, black, white)
		_, err := b.Move(Pos{3, 3}, Pos{3, 4})
		require.ErrorIs(t, err, ErrCellEmpty)
	})

	t.Run("opposing stone", func(t *testing.T) {
		b := movementBoard(Black, black, white)
		_, err := b.Move(Pos{4, 0}, Pos{3, 0})
		require.ErrorIs(t, err, ErrNotYourStone)
	})

	t.Run("occupied destination", func(t *testing.T) {
		b := movementBoard(Black, black, white)
		_, err := b.Move(Pos{0, 0}, Pos{0, 1})
		require.ErrorIs(t, err, ErrCellOccupied)
	})

	t.Run("not orthogonally adjacent", func(t *testing.T) {
		b := movementBoard(Black, black, white)
		_, err := b.Move(Pos{2, 2}, Pos{3, 3})
		require.ErrorIs(t, err, ErrNotAdjacent)
		_, err = b.Move(Pos{2, 2}, Pos{2, 4})
		require.ErrorIs(t, err, ErrNotAdjacent)
	})
}

func TestMoveRewardEntersCaptureSubLoop(t *testing.T) {
	b := movementBoard(Black,
		[]Pos{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 4}},
		[]Pos{{2, 0}, {2, 4}, {4, 0}, {4, 2}, {4, 4}})

	captures, err := b.Move(Pos{1, 4}, Pos{0, 4})
	require.NoError(t, err)
	require.Equal(t, 2, captures, "a completed row owes exactly two captures")
	require.Equal(t, Capture, b.Phase())
	require.Equal(t, Black, b.CaptureTurn(), "the mover settles its own reward")
	require.Equal(t, 2, b.CaptureRemaining(Black))

	require.ErrorIs(t, b.Capture(0, 0), ErrProtected, "the fresh row is protected immediately")

	require.NoError(t, b.Capture(4, 0))
	require.Equal(t, 1, b.CaptureRemaining(Black), "pending captures only ever decrease")
	require.Equal(t, Capture, b.Phase())

	require.NoError(t, b.Capture(4, 2))
	require.Equal(t, 0, b.CaptureRemaining(Black))
	require.Equal(t, Movement, b.Phase())
	require.Equal(t, FromMovement, b.Origin(), "leaving the reward sub-loop flips the turn")
	require.Equal(t, White, b.CurrentPlayer())
}

func TestCaptureCompletionImmediateWin(t *testing.T) {
	b := movementBoard(Black,
		[]Pos{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 4}},
		[]Pos{{2, 0}, {2, 4}, {4, 0}, {4, 1}})

	captures, err := b.Move(Pos{1, 4}, Pos{0, 4})
	require.NoError(t, err)
	require.Equal(t, 2, captures)

	require.NoError(t, b.Capture(4, 0))
	err = b.Capture(4, 1)

	var win ImmediateWinError
	require.ErrorAs(t, err, &win, "dropping White below three stones decides the game")
	require.Equal(t, Black, win.Winner)
	require.Equal(t, Movement, b.Phase(), "the board still reflects the completed capture")

	winner, over := b.Winner()
	require.True(t, over)
	require.Equal(t, Black, winner)
}

func TestMoveForfeitsUnpayableQuota(t *testing.T) {
	b := movementBoard(Black,
		[]Pos{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 4}},
		[]Pos{{4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4}})
	// White's row already fired, so every white stone is protected.
	b.trig.add(Pattern{Kind: RowPattern, ID: 4})
	b.updateProtected()

	captures, err := b.Move(Pos{1, 4}, Pos{0, 4})
	require.NoError(t, err)
	require.Equal(t, 0, captures, "a quota with no legal target is forfeited")
	require.Equal(t, Movement, b.Phase())
	require.Equal(t, White, b.CurrentPlayer())
	require.Equal(t, 0, b.CaptureRemaining(Black))
}

func TestMoveImmediateWinOnImmobilizedOpponent(t *testing.T) {
	b := movementBoard(Black,
		[]Pos{{0, 2}, {1, 1}, {2, 0}, {4, 4}},
		[]Pos{{0, 0}, {0, 1}, {1, 0}})

	_, err := b.Move(Pos{4, 4}, Pos{4, 3})

	var win ImmediateWinError
	require.ErrorAs(t, err, &win)
	require.Equal(t, Black, win.Winner, "a cornered opponent loses on the spot")
}

func TestHasLegalMoves(t *testing.T) {
	t.Run("fewer than three stones", func(t *testing.T) {
		b := movementBoard(Black, []Pos{{2, 2}, {3, 3}}, nil)
		require.False(t, b.HasLegalMoves(Black), "below three stones no pattern can ever form")
	})

	t.Run("three enclosed stones", func(t *testing.T) {
		b := movementBoard(White,
			[]Pos{{0, 2}, {1, 1}, {2, 0}},
			[]Pos{{0, 0}, {0, 1}, {1, 0}})
		require.False(t, b.HasLegalMoves(White))
	})

	t.Run("one free neighbor suffices", func(t *testing.T) {
		b := movementBoard(Black, []Pos{{0, 0}, {0, 1}, {2, 2}}, nil)
		require.True(t, b.HasLegalMoves(Black))
	})
}

func TestWinner(t *testing.T) {
	t.Run("never during placement", func(t *testing.T) {
		b := NewBoard()
		_, over := b.Winner()
		require.False(t, over)
	})

	t.Run("below three stones mid capture", func(t *testing.T) {
		b := movementBoard(White,
			[]Pos{{0, 0}, {4, 4}},
			[]Pos{{2, 0}, {2, 1}, {2, 2}, {2, 3}})
		b.phase = Capture
		winner, over := b.Winner()
		require.True(t, over)
		require.Equal(t, White, winner)
	})

	t.Run("immobilized mover loses", func(t *testing.T) {
		b := movementBoard(White,
			[]Pos{{0, 2}, {1, 1}, {2, 0}},
			[]Pos{{0, 0}, {0, 1}, {1, 0}})
		winner, over := b.Winner()
		require.True(t, over)
		require.Equal(t, Black, winner)
	})

	t.Run("undecided movement", func(t *testing.T) {
		b := movementBoard(Black,
			[]Pos{{0, 0}, {0, 1}, {0, 2}},
			[]Pos{{4, 0}, {4, 1}, {4, 2}})
		_, over := b.Winner()
		require.False(t, over)
	})
}

func TestProtectionFollowsOccupancy(t *testing.T) {
	b := NewBoard()
	for _, pos := range []Pos{{0, 0}, {0, 1}, {1, 0}, {1, 1}} {
		b.grid[pos.Row][pos.Col] = BlackStone
	}
	b.trig.add(Pattern{Kind: SquarePattern, Anchor: Pos{0, 0}})
	b.updateProtected()

	require.Equal(t, 4, b.ProtectedCount(Black))
	require.True(t, b.IsProtected(Pos{0, 0}, Black))

	b.grid[0][0] = Empty
	b.updateProtected()
	require.Equal(t, 0, b.ProtectedCount(Black),
		"protection lapses as soon as the pattern is no longer fully held")
	require.False(t, b.IsProtected(Pos{0, 1}, Black))
}

func TestCloneIndependence(t *testing.T) {
	b := NewBoard()
	playScript(t, b, []Pos{{0, 0}, {4, 4}, {0, 1}})

	c := b.Clone()
	_, err := c.Place(2, 2)
	require.NoError(t, err)

	require.Equal(t, Empty, b.At(2, 2), "mutating the clone leaves the original alone")
	require.Equal(t, White, b.CurrentPlayer())
	require.Len(t, b.Record(), 3)
	require.Len(t, c.Record(), 4)
}

func TestRecordReturnsCopy(t *testing.T) {
	b := NewBoard()
	playScript(t, b, []Pos{{0, 0}, {4, 4}})

	rec := b.Record()
	rec[0] = Action{Type: CaptureAction, Player: White, Pos: Pos{3, 3}}
	require.Equal(t, PlaceAction, b.Record()[0].Type)
}

func TestLegalSteps(t *testing.T) {
	b := movementBoard(Black, []Pos{{2, 2}}, nil)
	want := []Step{
		{From: Pos{2, 2}, To: Pos{1, 2}},
		{From: Pos{2, 2}, To: Pos{3, 2}},
		{From: Pos{2, 2}, To: Pos{2, 1}},
		{From: Pos{2, 2}, To: Pos{2, 3}},
	}
	require.Equal(t, want, b.LegalSteps())
}

func TestLegalCapturesSkipProtected(t *testing.T) {
	b := movementBoard(White,
		[]Pos{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {3, 3}},
		[]Pos{{4, 0}, {4, 1}, {4, 2}})
	b.trig.add(Pattern{Kind: SquarePattern, Anchor: Pos{0, 0}})
	b.updateProtected()

	require.Equal(t, []Pos{{3, 3}}, b.LegalCaptures())
}
