package roast

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is returned by Session.Submit while an earlier submission of the
// same session is still in flight.
var ErrPending = errors.New("roast: a submission is already pending")

type State int

const (
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session holds the single live Result of one form and serializes its
// submissions. A submission made while another is pending is rejected.
type Session struct {
	client *Client

	mu      sync.Mutex
	pending bool
	result  *Result
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Submit clears the previous Result, runs one submission and stores its
// Result. It returns ErrPending without calling out if one is in flight.
func (s *Session) Submit(ctx context.Context, text string) (Result, error) {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Result{}, ErrPending
	}
	s.pending = true
	s.result = nil
	s.mu.Unlock()

	res := s.client.Submit(ctx, text)

	s.mu.Lock()
	s.pending = false
	s.result = &res
	s.mu.Unlock()

	return res, nil
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Result returns the live Result, if any.
func (s *Session) Result() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.pending:
		return StatePending
	case s.result == nil:
		return StateIdle
	case s.result.OK():
		return StateSucceeded
	default:
		return StateFailed
	}
}

// Reset drops the live Result. It has no effect on a pending submission,
// whose Result will still be stored when it completes.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending {
		s.result = nil
	}
}
