package game

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ActionType tags an entry of the game record.
type ActionType int

const (
	PlaceAction ActionType = iota
	CaptureAction
	MoveAction
	RewardAction
)

func (t ActionType) String() string {
	switch t {
	case PlaceAction:
		return "place"
	case CaptureAction:
		return "capture"
	case MoveAction:
		return "move"
	default:
		return "reward"
	}
}

// Action is one entry of the append-only game record. Place and Capture
// use Pos, Move uses From/To, Reward carries the pattern instance.
// Reward entries are side-effect markers of the Place or Move before
// them; a replay never re-applies them as commands.
type Action struct {
	Type    ActionType
	Player  Player
	Pos     Pos
	From    Pos
	To      Pos
	Pattern *Pattern
}

func (a Action) String() string {
	switch a.Type {
	case PlaceAction, CaptureAction:
		return fmt.Sprintf("%s %s (%d,%d)", a.Type, a.Player, a.Pos.Row, a.Pos.Col)
	case MoveAction:
		return fmt.Sprintf("move %s (%d,%d)->(%d,%d)", a.Player,
			a.From.Row, a.From.Col, a.To.Row, a.To.Col)
	default:
		return fmt.Sprintf("reward %s %s", a.Player, a.Pattern)
	}
}

func playerName(p Player) string {
	if p == Black {
		return "black"
	}
	return "white"
}

func parsePlayer(s string) (Player, error) {
	switch s {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	default:
		return Black, fmt.Errorf("unknown player %q", s)
	}
}

func parsePatternKind(s string) (PatternKind, error) {
	switch s {
	case "square":
		return SquarePattern, nil
	case "tri":
		return TriPattern, nil
	case "tetra":
		return TetraPattern, nil
	case "row":
		return RowPattern, nil
	case "col":
		return ColPattern, nil
	case "dragon":
		return DragonPattern, nil
	default:
		return SquarePattern, fmt.Errorf("unknown pattern kind %q", s)
	}
}

// Encode writes the record as one CSV row per action, tagged by variant:
//
//	place,black,2,3
//	reward,black,square,1,2
//	reward,white,row,4
//	capture,white,0,0
//	move,black,1,2,1,3
//
// The format is human-readable and sufficient for exact replay.
func Encode(w io.Writer, actions []Action) error {
	cw := csv.NewWriter(w)
	for _, a := range actions {
		var row []string
		switch a.Type {
		case PlaceAction, CaptureAction:
			row = []string{a.Type.String(), playerName(a.Player),
				strconv.Itoa(a.Pos.Row), strconv.Itoa(a.Pos.Col)}
		case MoveAction:
			row = []string{"move", playerName(a.Player),
				strconv.Itoa(a.From.Row), strconv.Itoa(a.From.Col),
				strconv.Itoa(a.To.Row), strconv.Itoa(a.To.Col)}
		case RewardAction:
			if a.Pattern == nil {
				return errors.New("reward action without a pattern")
			}
			row = []string{"reward", playerName(a.Player), a.Pattern.Kind.String()}
			if a.Pattern.Kind == SquarePattern {
				row = append(row, strconv.Itoa(a.Pattern.Anchor.Row),
					strconv.Itoa(a.Pattern.Anchor.Col))
			} else {
				row = append(row, strconv.Itoa(a.Pattern.ID))
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write action: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode parses a record previously written by Encode.
func Decode(r io.Reader) ([]Action, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var actions []Action
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return actions, nil
		}
		if err != nil {
			return nil, err
		}
		a, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("record line %d: %w", line, err)
		}
		actions = append(actions, a)
	}
}

func decodeRow(row []string) (Action, error) {
	if len(row) < 2 {
		return Action{}, errors.New("truncated record row")
	}
	player, err := parsePlayer(row[1])
	if err != nil {
		return Action{}, err
	}
	switch row[0] {
	case "place", "capture":
		if len(row) != 4 {
			return Action{}, fmt.Errorf("%s row needs 4 fields, got %d", row[0], len(row))
		}
		pos, err := parsePos(row[2], row[3])
		if err != nil {
			return Action{}, err
		}
		t := PlaceAction
		if row[0] == "capture" {
			t = CaptureAction
		}
		return Action{Type: t, Player: player, Pos: pos}, nil
	case "move":
		if len(row) != 6 {
			return Action{}, fmt.Errorf("move row needs 6 fields, got %d", len(row))
		}
		from, err := parsePos(row[2], row[3])
		if err != nil {
			return Action{}, err
		}
		to, err := parsePos(row[4], row[5])
		if err != nil {
			return Action{}, err
		}
		return Action{Type: MoveAction, Player: player, From: from, To: to}, nil
	case "reward":
		if len(row) < 4 {
			return Action{}, errors.New("truncated reward row")
		}
		kind, err := parsePatternKind(row[2])
		if err != nil {
			return Action{}, err
		}
		pat := Pattern{Kind: kind}
		if kind == SquarePattern {
			if len(row) != 5 {
				return Action{}, errors.New("square reward row needs 5 fields")
			}
			pat.Anchor, err = parsePos(row[3], row[4])
			if err != nil {
				return Action{}, err
			}
		} else {
			pat.ID, err = strconv.Atoi(row[3])
			if err != nil {
				return Action{}, fmt.Errorf("pattern id: %w", err)
			}
		}
		return Action{Type: RewardAction, Player: player, Pattern: &pat}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", row[0])
	}
}

func parsePos(rs, cs string) (Pos, error) {
	r, err := strconv.Atoi(rs)
	if err != nil {
		return Pos{}, fmt.Errorf("row coordinate: %w", err)
	}
	c, err := strconv.Atoi(cs)
	if err != nil {
		return Pos{}, fmt.Errorf("col coordinate: %w", err)
	}
	if !inBounds(r, c) {
		return Pos{}, ErrOutOfBounds
	}
	return Pos{r, c}, nil
}

// Replayer re-derives board states by replaying a recorded action list
// through the command surface, one action at a time.
type Replayer struct {
	actions []Action
	step    int
	board   *Board
}

func NewReplayer(actions []Action) *Replayer {
	return &Replayer{actions: actions, board: NewBoard()}
}

// StepForward applies the next recorded action and returns the board,
// or false when the record is exhausted. Reward entries advance the
// cursor without touching the board.
func (r *Replayer) StepForward() (*Board, bool, error) {
	if r.step >= len(r.actions) {
		return r.board, false, nil
	}
	a := r.actions[r.step]
	r.step++

	var err error
	switch a.Type {
	case PlaceAction:
		_, err = r.board.Place(a.Pos.Row, a.Pos.Col)
	case CaptureAction:
		err = r.board.Capture(a.Pos.Row, a.Pos.Col)
	case MoveAction:
		_, err = r.board.Move(a.From, a.To)
	case RewardAction:
		// Log-only marker, implied by the preceding place or move.
	}
	var win ImmediateWinError
	if errors.As(err, &win) {
		// Terminal signal, not a corrupt record.
		err = nil
	}
	if err != nil {
		return r.board, false, fmt.Errorf("replay step %d (%s): %w", r.step, a, err)
	}
	return r.board, true, nil
}

// Board returns the replayed board at the current cursor.
func (r *Replayer) Board() *Board { return r.board }

// Reset rewinds the replayer to an empty board.
func (r *Replayer) Reset() {
	r.step = 0
	r.board = NewBoard()
}

// Replay runs a full record from an empty board and returns the final
// state.
func Replay(actions []Action) (*Board, error) {
	rp := NewReplayer(actions)
	for {
		_, more, err := rp.StepForward()
		if err != nil {
			return nil, err
		}
		if !more {
			return rp.Board(), nil
		}
	}
}
