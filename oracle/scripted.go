package oracle

import (
	"context"
	"fmt"
	"sync"
)

type scriptTurn struct {
	action Action
	raw    string
	err    error
	isRaw  bool
}

// Scripted is a deterministic in-memory Oracle for tests and examples. It
// replays a fixed sequence of turns; once the script runs out it either
// repeats the final turn (RepeatLast) or fails the call.
type Scripted struct {
	mu         sync.Mutex
	turns      []scriptTurn
	calls      int
	repeatLast bool
}

// NewScripted constructs an empty scripted oracle.
func NewScripted() *Scripted { return &Scripted{} }

// AddAction appends a structured proposal turn. Returns the oracle for chaining.
func (s *Scripted) AddAction(thought, action string, input map[string]any) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, scriptTurn{action: Action{Thought: thought, Action: action, ActionInput: input}})
	return s
}

// AddFinish appends a finish turn carrying the final output.
func (s *Scripted) AddFinish(thought string, output any) *Scripted {
	return s.AddAction(thought, ActionFinish, map[string]any{OutputKey: output})
}

// AddRaw appends a turn whose raw text is run through ParseAction, for
// exercising the tolerant-parsing path including malformed output.
func (s *Scripted) AddRaw(raw string) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, scriptTurn{raw: raw, isRaw: true})
	return s
}

// AddError appends a failing turn, simulating a broken oracle channel.
func (s *Scripted) AddError(err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, scriptTurn{err: err})
	return s
}

// RepeatLast makes the oracle replay its final turn forever instead of
// failing when the script is exhausted.
func (s *Scripted) RepeatLast() *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repeatLast = true
	return s
}

// Calls returns how many Propose calls have been made.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Propose implements Oracle.
func (s *Scripted) Propose(ctx context.Context, _ Request) (Action, error) {
	if err := ctx.Err(); err != nil {
		return Action{}, &Error{Err: err}
	}

	s.mu.Lock()
	idx := s.calls
	s.calls++
	if idx >= len(s.turns) {
		if s.repeatLast && len(s.turns) > 0 {
			idx = len(s.turns) - 1
		} else {
			s.mu.Unlock()
			return Action{}, &Error{Err: fmt.Errorf("script exhausted after %d turns", len(s.turns))}
		}
	}
	turn := s.turns[idx]
	s.mu.Unlock()

	switch {
	case turn.err != nil:
		return Action{}, turn.err
	case turn.isRaw:
		return ParseAction(turn.raw)
	default:
		return turn.action, nil
	}
}
