package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecPlayerUnavailableCommand(t *testing.T) {
	player := NewExecPlayer("pipdash-test-no-such-player")

	assert.Error(t, player.Load("/tmp/track.mp3"))
	assert.False(t, player.IsBusy())

	// All controls are safe no-ops without a process.
	player.Play()
	player.Pause()
	player.Unpause()
	player.Stop()
	assert.False(t, player.IsBusy())
}

func TestExecPlayerProcessEndClearsBusy(t *testing.T) {
	// "true" exits immediately, standing in for a track that ended.
	player := NewExecPlayer("true")

	require.NoError(t, player.Load("/dev/null"))
	player.Play()

	assert.Eventually(t, func() bool { return !player.IsBusy() },
		2*time.Second, 10*time.Millisecond)
}
