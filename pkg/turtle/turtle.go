package turtle

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultDrawSymbols are the symbols that move forward and draw.
const DefaultDrawSymbols = "FGX"

// Command symbols.
const (
	TurnRight   = '+'
	TurnLeft    = '-'
	PushBranch  = '['
	CloseBranch = ']'
)

// InitialHeading is the direction the turtle faces before any turn.
var InitialHeading = Point{X: 0, Y: 1}

// ErrUnbalancedBracket matches any *UnbalancedBracketError.
var ErrUnbalancedBracket = errors.New("unbalanced bracket")

// UnbalancedBracketError reports a branch close with no open branch.
type UnbalancedBracketError struct {
	Index int // rune index into the derived string
}

func (e *UnbalancedBracketError) Error() string {
	return fmt.Sprintf("%s: %q at index %d has no matching %q", ErrUnbalancedBracket, CloseBranch, e.Index, PushBranch)
}

func (e *UnbalancedBracketError) Is(target error) bool {
	return target == ErrUnbalancedBracket
}

// Options controls symbol interpretation.
type Options struct {
	// DrawSymbols lists the symbols that move forward and draw. Empty means
	// DefaultDrawSymbols.
	DrawSymbols string
}

func (o Options) drawSet() string {
	if o.DrawSymbols == "" {
		return DefaultDrawSymbols
	}
	return o.DrawSymbols
}

// frame is a saved turtle pose.
type frame struct {
	position Point
	heading  Point
}

// branchStack holds poses saved by '[' until the matching ']'.
type branchStack struct {
	frames []frame
}

func (bs *branchStack) push(f frame) {
	bs.frames = append(bs.frames, f)
}

func (bs *branchStack) pop() (frame, bool) {
	if len(bs.frames) == 0 {
		return frame{}, false
	}
	f := bs.frames[len(bs.frames)-1]
	bs.frames = bs.frames[:len(bs.frames)-1]
	return f, true
}

// state is the turtle owned by a single Interpret call.
type state struct {
	position Point
	heading  Point
	stack    branchStack
	current  Path
	paths    Paths
}

func newState() *state {
	origin := Point{}
	return &state{
		position: origin,
		heading:  InitialHeading,
		current:  Path{origin},
	}
}

func (s *state) forward(length float64) {
	s.position = s.position.Add(s.heading.Scale(length))
	s.current = append(s.current, s.position)
}

func (s *state) turn(theta float64) {
	s.heading = s.heading.Rotate(theta)
}

func (s *state) push() {
	s.stack.push(frame{position: s.position, heading: s.heading})
}

// closeBranch ends the current path and restarts at the saved pose.
func (s *state) closeBranch() bool {
	f, ok := s.stack.pop()
	if !ok {
		return false
	}
	s.paths = append(s.paths, s.current)
	s.position = f.position
	s.heading = f.heading
	s.current = Path{f.position}
	return true
}

// finish flushes the open path so no generated point is dropped.
func (s *state) finish() Paths {
	s.paths = append(s.paths, s.current)
	s.current = nil
	return s.paths
}

// Interpret walks derived once and returns the polylines it draws.
//
// '+' turns by -angle and '-' by +angle (radians). '[' saves the pose;
// ']' closes the current path and resumes from the saved pose in a new
// path. Symbols in the draw set move forward by length. Everything else
// is ignored.
//
// On an unmatched ']' Interpret stops and returns the paths closed so far
// along with an *UnbalancedBracketError.
func Interpret(derived string, angle, length float64, opts Options) (Paths, error) {
	draw := opts.drawSet()
	s := newState()

	index := 0
	for _, c := range derived {
		switch {
		case c == PushBranch:
			s.push()
		case c == CloseBranch:
			if !s.closeBranch() {
				return s.paths, &UnbalancedBracketError{Index: index}
			}
		case c == TurnRight:
			s.turn(-angle)
		case c == TurnLeft:
			s.turn(angle)
		case strings.ContainsRune(draw, c):
			s.forward(length)
		}
		index++
	}
	return s.finish(), nil
}
