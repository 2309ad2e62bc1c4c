package screen

import (
	"image"
	"image/color"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/ncarel/pipdash/internal/srv/metrics"
)

// StatScreen is the system information dashboard.
type StatScreen struct {
	fontSet         *asset.FontSet
	metricsProvider *metrics.Provider
	position        int
	count           int
}

func NewStatScreen(fontSet *asset.FontSet, metricsProvider *metrics.Provider, position, count int) *StatScreen {
	s := &StatScreen{
		fontSet:         fontSet,
		metricsProvider: metricsProvider,
		position:        position,
		count:           count,
	}
	// Prime the CPU sample so the second frame already shows a delta.
	s.metricsProvider.CPUPercent()
	return s
}

func (s *StatScreen) Name() string {
	return "STAT"
}

func (s *StatScreen) HandleEvent(ev event.ButtonEvent) {
	// Nothing interactive here, navigation is handled by the main loop.
}

func (s *StatScreen) Render() *image.RGBA {
	img := NewFrame()

	drawHeader(img, s.fontSet.Title, s.fontSet.Small, s.Name(), s.position, s.count)

	ramUsed, ramTotal := s.metricsProvider.RAMInfo()
	diskUsed, diskTotal := s.metricsProvider.DiskInfo()

	lines := []struct {
		label string
		value string
	}{
		{"CPU", s.metricsProvider.CPUPercent()},
		{"RAM", ramUsed + "/" + ramTotal},
		{"DISK", diskUsed + "/" + diskTotal},
		{"IP", s.metricsProvider.IPAddress()},
		{"UP", s.metricsProvider.Uptime()},
		{"TEMP", s.metricsProvider.CPUTemp()},
	}

	y := 19
	for _, line := range lines {
		endX := addLabel(img, 4, y, line.label+":", s.fontSet.Body, colGreenDim)
		addLabel(img, endX+2, y, line.value, s.fontSet.Body, colGreen)
		y += 12
	}

	drawDivider(img, y-2)
	y += 2

	// The UPS exposes its charge level through the LEDs on the board only.
	fillRect(img, image.Rect(2, y, FrameWidth-2, y+17), color.RGBA{20, 10, 0, 255})
	addLabel(img, 5, y+1, "BATT: check the", s.fontSet.Small, colAmber)
	addLabel(img, 5, y+9, "LEDs on the board", s.fontSet.Small, colAmber)

	drawFooter(img, s.fontSet.Small, "<> switch screen")

	return img
}
