package screen

import (
	"image"
	"image/color"
	"io/ioutil"
	"strings"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/event"
)

// InvScreen is a scrollable viewer for the user-editable inventory file.
// SELECT re-reads the file so it can be edited while the device runs.
type InvScreen struct {
	fontSet           *asset.FontSet
	inventoryFilename string
	position          int
	count             int

	lines        []string
	scrollOffset int
}

func NewInvScreen(fontSet *asset.FontSet, inventoryFilename string, position, count int) *InvScreen {
	s := &InvScreen{
		fontSet:           fontSet,
		inventoryFilename: inventoryFilename,
		position:          position,
		count:             count,
	}
	s.loadFile()
	return s
}

func (s *InvScreen) Name() string {
	return "INV"
}

func (s *InvScreen) loadFile() {
	raw, err := ioutil.ReadFile(s.inventoryFilename)
	if err != nil {
		// A missing inventory is an empty one, not a failure.
		s.lines = []string{
			"[ inv.txt not found ]",
			"",
			"Create inv.txt in the",
			"config folder to",
			"populate your",
			"inventory.",
		}
		return
	}
	s.lines = strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
}

func (s *InvScreen) HandleEvent(ev event.ButtonEvent) {
	maxScroll := len(s.lines) - s.visibleLines()
	if maxScroll < 0 {
		maxScroll = 0
	}
	switch ev {
	case event.UP_EVENT:
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case event.DOWN_EVENT:
		if s.scrollOffset < maxScroll {
			s.scrollOffset++
		}
	case event.SELECT_EVENT:
		s.loadFile()
		s.scrollOffset = 0
	}
}

func (s *InvScreen) visibleLines() int {
	bodyTop := 17
	bodyBottom := FrameHeight - 15
	return (bodyBottom - bodyTop) / 10
}

func (s *InvScreen) Render() *image.RGBA {
	img := NewFrame()

	drawHeader(img, s.fontSet.Title, s.fontSet.Small, s.Name(), s.position, s.count)

	y := 18
	lineHeight := 10
	visible := s.visibleLines()

	for i := 0; i < visible; i++ {
		idx := s.scrollOffset + i
		if idx >= len(s.lines) {
			break
		}
		// Shade alternating rows for readability.
		if i%2 == 0 {
			fillRect(img, image.Rect(1, y-1, FrameWidth-1, y+lineHeight-2), color.RGBA{0, 12, 0, 255})
		}
		addLabel(img, 3, y, clipLine(s.lines[idx], 20), s.fontSet.Body, colGreen)
		y += lineHeight
	}

	if len(s.lines) > visible {
		drawScrollbar(img, 18, FrameHeight-15, len(s.lines), visible, s.scrollOffset)
	}

	drawFooter(img, s.fontSet.Small, "^v scroll  SEL reload")

	return img
}
