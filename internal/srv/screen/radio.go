package screen

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/device"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/sirupsen/logrus"
)

type playState int

const (
	RADIO_STOPPED playState = iota
	RADIO_PLAYING
	RADIO_PAUSED
)

// RadioScreen plays the files of the music folder through the playback
// service. The cursor moves independently of the playing track; a track
// that ends on its own advances playback by one.
type RadioScreen struct {
	fontSet      *asset.FontSet
	playerDevice device.Player
	musicFolder  string
	position     int
	count        int

	tracks   []string
	current  int
	selected int
	state    playState
}

func NewRadioScreen(fontSet *asset.FontSet, playerDevice device.Player, musicFolder string, position, count int) *RadioScreen {
	s := &RadioScreen{
		fontSet:      fontSet,
		playerDevice: playerDevice,
		musicFolder:  musicFolder,
		position:     position,
		count:        count,
	}
	s.loadTracks()
	return s
}

func (s *RadioScreen) Name() string {
	return "RADIO"
}

func (s *RadioScreen) loadTracks() {
	s.tracks = nil
	if err := os.MkdirAll(s.musicFolder, 0770); err != nil {
		logrus.Warnf("Unable to create music folder: %v", err)
		return
	}
	files, err := os.ReadDir(s.musicFolder)
	if err != nil {
		logrus.Warnf("Unable to read music folder: %v", err)
		return
	}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(file.Name())) {
		case ".mp3", ".ogg", ".wav":
			s.tracks = append(s.tracks, file.Name())
		}
	}
	sort.Strings(s.tracks)
}

// Tracks returns the track list snapshot.
func (s *RadioScreen) Tracks() []string {
	return s.tracks
}

// PlayTrack stops any current playback, then loads and starts the given
// track. Load failures leave the screen stopped, they never propagate.
func (s *RadioScreen) PlayTrack(index int) error {
	if len(s.tracks) == 0 {
		return fmt.Errorf("no tracks available")
	}
	if index < 0 || index >= len(s.tracks) {
		return fmt.Errorf("track %d is undefined", index)
	}
	s.playTrack(index)
	return nil
}

func (s *RadioScreen) playTrack(index int) {
	if len(s.tracks) == 0 {
		return
	}
	s.playerDevice.Stop()
	s.current = index % len(s.tracks)

	path := filepath.Join(s.musicFolder, s.tracks[s.current])
	if err := s.playerDevice.Load(path); err != nil {
		logrus.Warnf("Unable to load track %s: %v", path, err)
		s.state = RADIO_STOPPED
		return
	}
	s.playerDevice.Play()
	s.state = RADIO_PLAYING
}

func (s *RadioScreen) togglePause() {
	switch s.state {
	case RADIO_STOPPED:
		s.playTrack(s.current)
	case RADIO_PLAYING:
		s.playerDevice.Pause()
		s.state = RADIO_PAUSED
	case RADIO_PAUSED:
		s.playerDevice.Unpause()
		s.state = RADIO_PLAYING
	}
}

func (s *RadioScreen) nextTrack() {
	s.playTrack((s.current + 1) % len(s.tracks))
	s.selected = s.current
}

// StopPlayback halts the player and parks the screen in the stopped state.
func (s *RadioScreen) StopPlayback() {
	s.playerDevice.Stop()
	s.state = RADIO_STOPPED
}

// checkEnded auto-advances when the current track finished on its own.
func (s *RadioScreen) checkEnded() {
	if s.state == RADIO_PLAYING && !s.playerDevice.IsBusy() {
		s.playTrack((s.current + 1) % len(s.tracks))
		s.selected = s.current
	}
}

func (s *RadioScreen) HandleEvent(ev event.ButtonEvent) {
	if len(s.tracks) == 0 {
		return
	}

	switch ev {
	case event.UP_EVENT:
		s.selected = (s.selected - 1 + len(s.tracks)) % len(s.tracks)
	case event.DOWN_EVENT:
		s.selected = (s.selected + 1) % len(s.tracks)
	case event.SELECT_EVENT:
		s.playTrack(s.selected)
	case event.KEY1_EVENT:
		s.togglePause()
	case event.KEY2_EVENT:
		s.nextTrack()
	case event.KEY3_EVENT:
		s.StopPlayback()
	}
}

func (s *RadioScreen) Render() *image.RGBA {
	if len(s.tracks) > 0 {
		s.checkEnded()
	}

	img := NewFrame()
	drawHeader(img, s.fontSet.Title, s.fontSet.Small, s.Name(), s.position, s.count)

	if len(s.tracks) == 0 {
		addLabel(img, 8, 40, "No audio files found", s.fontSet.Body, colGreenDim)
		addLabel(img, 8, 52, "Put .mp3/.ogg/.wav", s.fontSet.Body, colGreenDim)
		addLabel(img, 8, 64, "into the music folder", s.fontSet.Body, colGreenDim)
		drawFooter(img, s.fontSet.Small, "")
		return img
	}

	y := 18
	status := "STOPPED"
	statusColor := colGreenDim
	switch s.state {
	case RADIO_PLAYING:
		status = "PLAYING"
		statusColor = colGreen
	case RADIO_PAUSED:
		status = "PAUSED"
		statusColor = colAmber
	}
	addLabel(img, 4, y, "["+status+"]", s.fontSet.Body, statusColor)
	addLabel(img, 4, y+10, clipLine(s.tracks[s.current], 18), s.fontSet.Body, colCyan)

	drawDivider(img, y+22)

	listTop := y + 25
	lineHeight := 10
	visible := (FrameHeight - 15 - listTop) / lineHeight
	if visible < 1 {
		visible = 1
	}
	// Keep the cursor visible.
	scroll := 0
	if s.selected >= visible {
		scroll = s.selected - visible + 1
	}

	for i := 0; i < visible; i++ {
		idx := scroll + i
		if idx >= len(s.tracks) {
			break
		}
		trackY := listTop + i*lineHeight
		isSelected := idx == s.selected
		isPlaying := idx == s.current && s.state == RADIO_PLAYING

		if isSelected {
			fillRect(img, image.Rect(1, trackY-1, FrameWidth-1, trackY+lineHeight-2), color.RGBA{0, 30, 10, 255})
		}

		prefix := "  "
		if isPlaying {
			prefix = "> "
		} else if isSelected {
			prefix = "* "
		}

		clr := colGreenDim
		if isSelected {
			clr = colGreen
		}
		if isPlaying {
			clr = colCyan
		}
		addLabel(img, 3, trackY, prefix+clipLine(s.tracks[idx], 18), s.fontSet.Small, clr)
	}

	if len(s.tracks) > visible {
		drawScrollbar(img, listTop, FrameHeight-15, len(s.tracks), visible, scroll)
	}

	drawFooter(img, s.fontSet.Small, "K1:play K2:next K3:stop")

	return img
}
