package ui

import (
	"context"
	"testing"
	"time"

	"github.com/bz888/roastbattle/internal/roast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSuccessClearsError(t *testing.T) {
	f := NewForm(false)
	f.errorView.SetText("Server error. Please try again in a moment.")

	f.render(roast.Success("Nee alle aa pen vangiyathu? Athu thanne thettu."))

	assert.Empty(t, f.errorView.GetText(true))
	assert.Contains(t, f.responseView.GetText(true), "Athu thanne thettu.")
}

func TestRenderFailureClearsResponse(t *testing.T) {
	f := NewForm(false)
	f.responseView.SetText("an old roast")

	f.render(roast.Failure(roast.KindRateLimited, roast.MsgRateLimited))

	assert.Empty(t, f.responseView.GetText(true))
	assert.Contains(t, f.errorView.GetText(true), roast.MsgRateLimited)
}

func TestPendingState(t *testing.T) {
	f := NewForm(false)
	f.responseView.SetText("previous")
	f.errorView.SetText("previous error")

	f.setPending(true)
	assert.Equal(t, loadingLabel, f.button.GetLabel())
	assert.True(t, f.button.IsDisabled())
	assert.Empty(t, f.responseView.GetText(true))
	assert.Empty(t, f.errorView.GetText(true))

	f.setPending(false)
	assert.Equal(t, submitLabel, f.button.GetLabel())
	assert.False(t, f.button.IsDisabled())
}

func TestSubmitRunsOneSubmission(t *testing.T) {
	release := make(chan struct{})
	calls := make(chan string, 4)
	session := roast.NewSession(roast.NewClient(roast.TransportFunc(func(_ context.Context, req roast.Request) (string, error) {
		calls <- req.Text
		<-release
		return "done", nil
	})))

	f := NewForm(false)
	f.ctx = context.Background()
	f.session = session
	f.textArea.SetText("I lost my pen", false)

	f.submit()
	assert.Equal(t, "I lost my pen", <-calls)
	assert.Equal(t, loadingLabel, f.button.GetLabel())

	// a second press while pending does nothing
	f.submit()
	close(release)

	require.Eventually(t, func() bool { return !session.Pending() }, time.Second, 10*time.Millisecond)
	res, ok := session.Result()
	require.True(t, ok)
	assert.Equal(t, "done", res.Text)
	assert.Empty(t, calls)
}

func TestCommands(t *testing.T) {
	f := NewForm(false)

	assert.True(t, f.runCommand("/help"))
	assert.Contains(t, f.responseView.GetText(true), "/bye")

	assert.True(t, f.runCommand("/debug"))
	assert.False(t, f.runCommand("my pen is gone"))
}
