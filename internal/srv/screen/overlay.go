package screen

import (
	"image"
	"strconv"
	"time"

	"github.com/ncarel/pipdash/internal/srv/asset"
)

// CountdownDigit maps the remaining confirmation time to the digit shown,
// counting 3,2,1 instead of 2,1,0.
func CountdownDigit(remaining, total time.Duration) int {
	digit := int(remaining.Seconds()) + 1
	if max := int(total.Seconds()); digit > max {
		digit = max
	}
	if digit < 1 {
		digit = 1
	}
	return digit
}

// RenderShutdownOverlay draws the confirmation countdown: a digit that
// drains monotonically and a proportional progress bar.
func RenderShutdownOverlay(fontSet *asset.FontSet, remaining, total time.Duration) *image.RGBA {
	img := NewFrame()

	title := "SHUTDOWN?"
	addLabel(img, (FrameWidth-textWidth(fontSet.Big, title))/2, 24, title, fontSet.Big, colAmber)

	digit := strconv.Itoa(CountdownDigit(remaining, total))
	addLabel(img, (FrameWidth-textWidth(fontSet.Big, digit))/2, 52, digit, fontSet.Big, colGreen)

	barLeft := 14
	barTop := 78
	barWidth := FrameWidth - 2*barLeft
	fillRect(img, image.Rect(barLeft-1, barTop-1, barLeft+barWidth+1, barTop+9), colGreenDim)
	filled := int(int64(barWidth) * remaining.Nanoseconds() / total.Nanoseconds())
	fillRect(img, image.Rect(barLeft, barTop, barLeft+filled, barTop+8), colGreen)

	hint := "any key: cancel"
	addLabel(img, (FrameWidth-textWidth(fontSet.Small, hint))/2, 100, hint, fontSet.Small, colGreenMid)

	return img
}

// RenderSplash draws the boot screen shown while the devices come up.
func RenderSplash(fontSet *asset.FontSet) *image.RGBA {
	img := NewFrame()
	addLabel(img, (FrameWidth-textWidth(fontSet.Big, "PIPDASH"))/2, 48, "PIPDASH", fontSet.Big, colGreen)
	addLabel(img, (FrameWidth-textWidth(fontSet.Small, "booting..."))/2, 70, "booting...", fontSet.Small, colGreenDim)
	return img
}
