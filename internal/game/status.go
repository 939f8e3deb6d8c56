package game

import "fmt"

// Status is where a game is in its lifecycle. Every status other than
// InProgress is terminal.
type Status uint8

const (
	InProgress Status = iota
	WhiteWins
	BlackWins
	Draw
)

var statusNames = [...]string{"in_progress", "white_wins", "black_wins", "draw"}

// String returns the status name.
func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// IsTerminal reports whether no further actions are accepted.
func (s Status) IsTerminal() bool {
	return s != InProgress
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid status: %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("invalid status: %q", text)
}

// Method records how a game ended.
type Method uint8

const (
	// NoMethod means the game has not ended.
	NoMethod Method = iota
	// Resignation means one player resigned.
	Resignation
	// DrawAgreement means both players agreed to a draw.
	DrawAgreement
	// FiftyMoveRule means a hundred half-moves passed without a pawn move or capture.
	FiftyMoveRule
)

var methodNames = [...]string{"", "resignation", "draw_agreement", "fifty_move_rule"}

// String returns the method name.
func (m Method) String() string {
	if int(m) < len(methodNames) {
		if m == NoMethod {
			return "none"
		}
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// MarshalText encodes the method by name; NoMethod encodes as "".
func (m Method) MarshalText() ([]byte, error) {
	if int(m) >= len(methodNames) {
		return nil, fmt.Errorf("invalid method: %d", uint8(m))
	}
	return []byte(methodNames[m]), nil
}

// UnmarshalText is the inverse of MarshalText.
func (m *Method) UnmarshalText(text []byte) error {
	for i, name := range methodNames {
		if name == string(text) {
			*m = Method(i)
			return nil
		}
	}
	return fmt.Errorf("invalid method: %q", text)
}
