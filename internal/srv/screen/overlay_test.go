package screen

import (
	"testing"
	"time"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/stretchr/testify/assert"
)

func TestCountdownDigit(t *testing.T) {
	total := 3 * time.Second

	// The digit counts 3,2,1 over the window, never 0 and never 4.
	assert.Equal(t, 3, CountdownDigit(3*time.Second, total))
	assert.Equal(t, 3, CountdownDigit(2900*time.Millisecond, total))
	assert.Equal(t, 3, CountdownDigit(2*time.Second, total))
	assert.Equal(t, 2, CountdownDigit(1999*time.Millisecond, total))
	assert.Equal(t, 2, CountdownDigit(1500*time.Millisecond, total))
	assert.Equal(t, 1, CountdownDigit(900*time.Millisecond, total))
	assert.Equal(t, 1, CountdownDigit(0, total))
}

func TestRenderShutdownOverlaySize(t *testing.T) {
	fontSet := asset.LoadFontSet(t.TempDir())

	img := RenderShutdownOverlay(fontSet, 1500*time.Millisecond, 3*time.Second)

	assert.Equal(t, FrameWidth, img.Bounds().Dx())
	assert.Equal(t, FrameHeight, img.Bounds().Dy())
}

func TestRenderSplashSize(t *testing.T) {
	img := RenderSplash(asset.LoadFontSet(t.TempDir()))

	assert.Equal(t, FrameWidth, img.Bounds().Dx())
	assert.Equal(t, FrameHeight, img.Bounds().Dy())
}
