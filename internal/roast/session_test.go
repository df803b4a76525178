package roast

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionStates(t *testing.T) {
	calls := 0
	s := NewSession(NewClient(TransportFunc(func(_ context.Context, req Request) (string, error) {
		calls++
		if req.Text == "fail" {
			return "", StatusError(500, "boom")
		}
		return "roasted: " + req.Text, nil
	})))

	assert.Equal(t, StateIdle, s.State())
	_, ok := s.Result()
	assert.False(t, ok)

	res, err := s.Submit(context.Background(), "fail")
	require.NoError(t, err)
	assert.Equal(t, KindServer, res.Kind)
	assert.Equal(t, StateFailed, s.State())

	res, err = s.Submit(context.Background(), "I burnt the rice")
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, s.State())

	live, ok := s.Result()
	require.True(t, ok)
	assert.Equal(t, res, live)
	assert.Equal(t, "roasted: I burnt the rice", live.Text)
	assert.Empty(t, live.Message, "no error text from the first call may survive")
	assert.Equal(t, 2, calls)

	s.Reset()
	assert.Equal(t, StateIdle, s.State())
}

func TestSessionRejectsOverlappingSubmission(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	calls := 0
	s := NewSession(NewClient(TransportFunc(func(_ context.Context, req Request) (string, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(started)
		<-release
		return "first wins", nil
	})))

	done := make(chan Result)
	go func() {
		res, _ := s.Submit(context.Background(), "first")
		done <- res
	}()

	<-started
	assert.True(t, s.Pending())
	assert.Equal(t, StatePending, s.State())
	_, ok := s.Result()
	assert.False(t, ok, "previous result is cleared while pending")

	_, err := s.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrPending)

	close(release)
	res := <-done
	assert.Equal(t, "first wins", res.Text)
	assert.False(t, s.Pending())

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestSessionValidationDoesNotCall(t *testing.T) {
	transport := new(MockTransport)
	s := NewSession(NewClient(transport))

	res, err := s.Submit(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, StateFailed, s.State())
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}
