package screen

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayer scripts the playback service: Play marks it busy until the
// test declares the track finished.
type fakePlayer struct {
	loaded  string
	busy    bool
	paused  bool
	stopped int
	played  int
}

func (p *fakePlayer) Load(path string) error {
	p.loaded = path
	return nil
}

func (p *fakePlayer) Play() {
	p.busy = true
	p.paused = false
	p.played++
}

func (p *fakePlayer) Pause() {
	p.paused = true
}

func (p *fakePlayer) Unpause() {
	p.paused = false
}

func (p *fakePlayer) Stop() {
	p.busy = false
	p.stopped++
}

func (p *fakePlayer) IsBusy() bool {
	return p.busy
}

func newTestRadioScreen(t *testing.T) (*RadioScreen, *fakePlayer) {
	musicFolder := t.TempDir()
	for _, name := range []string{"alpha.mp3", "bravo.ogg", "charlie.wav"} {
		require.NoError(t, ioutil.WriteFile(filepath.Join(musicFolder, name), []byte("x"), 0660))
	}
	playerDevice := &fakePlayer{}
	fontSet := asset.LoadFontSet(t.TempDir())
	return NewRadioScreen(fontSet, playerDevice, musicFolder, 2, 3), playerDevice
}

func TestRadioLoadTracksSortedAndFiltered(t *testing.T) {
	musicFolder := t.TempDir()
	for _, name := range []string{"b.mp3", "a.ogg", "readme.txt"} {
		require.NoError(t, ioutil.WriteFile(filepath.Join(musicFolder, name), []byte("x"), 0660))
	}
	s := NewRadioScreen(asset.LoadFontSet(t.TempDir()), &fakePlayer{}, musicFolder, 2, 3)

	assert.Equal(t, []string{"a.ogg", "b.mp3"}, s.Tracks())
}

func TestRadioPlayTrack(t *testing.T) {
	s, playerDevice := newTestRadioScreen(t)

	require.NoError(t, s.PlayTrack(1))

	assert.Equal(t, RADIO_PLAYING, s.state)
	assert.Equal(t, 1, s.current)
	assert.Equal(t, "bravo.ogg", filepath.Base(playerDevice.loaded))

	assert.Error(t, s.PlayTrack(3))
	assert.Error(t, s.PlayTrack(-1))
}

func TestRadioSelectStopsPreviousTrack(t *testing.T) {
	s, playerDevice := newTestRadioScreen(t)

	require.NoError(t, s.PlayTrack(0))
	s.HandleEvent(event.DOWN_EVENT)
	s.HandleEvent(event.SELECT_EVENT)

	assert.Equal(t, 2, playerDevice.stopped, "starting a track always stops the previous one")
	assert.Equal(t, 1, s.current)
	assert.Equal(t, RADIO_PLAYING, s.state)
}

func TestRadioTogglePause(t *testing.T) {
	s, playerDevice := newTestRadioScreen(t)

	require.NoError(t, s.PlayTrack(0))

	s.HandleEvent(event.KEY1_EVENT)
	assert.Equal(t, RADIO_PAUSED, s.state)
	assert.True(t, playerDevice.paused)

	s.HandleEvent(event.KEY1_EVENT)
	assert.Equal(t, RADIO_PLAYING, s.state)
	assert.False(t, playerDevice.paused)
}

func TestRadioPauseWhileStoppedStartsCursorTrack(t *testing.T) {
	s, _ := newTestRadioScreen(t)

	s.HandleEvent(event.KEY1_EVENT)

	assert.Equal(t, RADIO_PLAYING, s.state)
	assert.Equal(t, 0, s.current)
}

func TestRadioAutoAdvance(t *testing.T) {
	s, playerDevice := newTestRadioScreen(t)

	require.NoError(t, s.PlayTrack(2))

	// Track ends on its own: playback moves exactly one track forward,
	// wrapping, and the cursor follows.
	playerDevice.busy = false
	s.checkEnded()

	assert.Equal(t, RADIO_PLAYING, s.state)
	assert.Equal(t, 0, s.current)
	assert.Equal(t, 0, s.selected)
	assert.Equal(t, "alpha.mp3", filepath.Base(playerDevice.loaded))
}

func TestRadioNoAutoAdvanceWhenStopped(t *testing.T) {
	s, playerDevice := newTestRadioScreen(t)

	require.NoError(t, s.PlayTrack(0))
	s.HandleEvent(event.KEY3_EVENT)
	played := playerDevice.played

	s.checkEnded()

	assert.Equal(t, RADIO_STOPPED, s.state)
	assert.Equal(t, played, playerDevice.played)
}

func TestRadioCursorWraps(t *testing.T) {
	s, _ := newTestRadioScreen(t)

	s.HandleEvent(event.UP_EVENT)
	assert.Equal(t, 2, s.selected)
	s.HandleEvent(event.DOWN_EVENT)
	assert.Equal(t, 0, s.selected)
}

func TestRadioEmptyFolderIgnoresEvents(t *testing.T) {
	s := NewRadioScreen(asset.LoadFontSet(t.TempDir()), &fakePlayer{}, t.TempDir(), 2, 3)

	s.HandleEvent(event.SELECT_EVENT)
	s.HandleEvent(event.KEY1_EVENT)

	assert.Equal(t, RADIO_STOPPED, s.state)
	assert.NotNil(t, s.Render())
}
