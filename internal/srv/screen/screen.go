// Package screen holds the drawable pages of the interface. Each screen
// renders a fresh frame per tick and reacts to the button events the main
// loop forwards to it.
package screen

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/ncarel/pipdash/internal/srv/event"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const FrameWidth = 128
const FrameHeight = 128

// Classic green-on-black palette with an amber accent.
var (
	colGreen    = color.RGBA{0, 255, 0, 255}
	colGreenDim = color.RGBA{0, 140, 0, 255}
	colGreenMid = color.RGBA{0, 200, 0, 255}
	colAmber    = color.RGBA{255, 191, 0, 255}
	colCyan     = color.RGBA{0, 200, 200, 255}
)

type Screen interface {
	Name() string
	HandleEvent(ev event.ButtonEvent)
	Render() *image.RGBA
}

// NewFrame returns a fresh black frame.
func NewFrame() *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
}

func fillRect(img *image.RGBA, r image.Rectangle, clr color.Color) {
	draw.Draw(img, r, &image.Uniform{clr}, image.Point{}, draw.Src)
}

// addLabel draws text with y as the top of the line and returns the end x.
func addLabel(img *image.RGBA, x, y int, label string, face font.Face, clr color.Color) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Round()),
	}
	d.DrawString(label)
	return d.Dot.X.Round()
}

func textWidth(face font.Face, label string) int {
	return font.MeasureString(face, label).Round()
}

func drawHeader(img *image.RGBA, face font.Face, smallFace font.Face, title string, position, count int) {
	fillRect(img, image.Rect(0, 0, FrameWidth, 15), colGreenDim)
	addLabel(img, 3, 1, title, face, colGreen)
	nav := strconv.Itoa(position+1) + "/" + strconv.Itoa(count)
	addLabel(img, FrameWidth-textWidth(smallFace, nav)-3, 2, nav, smallFace, colGreenMid)
}

func drawFooter(img *image.RGBA, face font.Face, hints string) {
	fillRect(img, image.Rect(0, FrameHeight-13, FrameWidth, FrameHeight), colGreenDim)
	addLabel(img, 2, FrameHeight-12, hints, face, colGreenMid)
}

func drawDivider(img *image.RGBA, y int) {
	fillRect(img, image.Rect(0, y, FrameWidth, y+1), colGreenDim)
}

// drawScrollbar paints a track with a proportional thumb on the right edge.
func drawScrollbar(img *image.RGBA, top, bottom, total, visible, offset int) {
	trackHeight := bottom - top
	thumbHeight := trackHeight * visible / total
	if thumbHeight < 6 {
		thumbHeight = 6
	}
	maxOffset := total - visible
	if maxOffset < 1 {
		maxOffset = 1
	}
	thumbPos := top + (trackHeight-thumbHeight)*offset/maxOffset
	fillRect(img, image.Rect(FrameWidth-4, top, FrameWidth-2, bottom), colGreenDim)
	fillRect(img, image.Rect(FrameWidth-4, thumbPos, FrameWidth-2, thumbPos+thumbHeight), colGreen)
}

// clipLine keeps a line readable inside the panel width. Clipping counts
// runes, not bytes, so multi-byte names never lose half a character.
func clipLine(line string, max int) string {
	runes := []rune(line)
	if len(runes) <= max {
		return line
	}
	return string(runes[:max-3]) + "..."
}
