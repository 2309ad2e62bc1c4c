package device

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingConn captures every SPI transfer together with the level of the
// data/command line at the time of the write.
type recordingConn struct {
	gpioDevice *MemGpio
	dcPin      int

	transfers []recordedTransfer
}

type recordedTransfer struct {
	data    []byte
	command bool
}

func (c *recordingConn) Tx(w, r []byte) error {
	data := make([]byte, len(w))
	copy(data, w)
	c.transfers = append(c.transfers, recordedTransfer{
		data:    data,
		command: !c.gpioDevice.Read(c.dcPin),
	})
	return nil
}

func newTestDisplay(t *testing.T) (*Display, *recordingConn) {
	gpioDevice := NewMemGpio()
	for _, pin := range []int{27, 25, 24} {
		require.NoError(t, gpioDevice.ClaimOutput(pin))
	}
	conn := &recordingConn{gpioDevice: gpioDevice, dcPin: 25}
	return &Display{
		gpioDevice: gpioDevice,
		rstPin:     27,
		dcPin:      25,
		blPin:      24,
		conn:       conn,
	}, conn
}

func (c *recordingConn) opcodes() []byte {
	var opcodes []byte
	for _, transfer := range c.transfers {
		if transfer.command {
			opcodes = append(opcodes, transfer.data...)
		}
	}
	return opcodes
}

func TestPackRGB565(t *testing.T) {
	assert.Equal(t, uint16(0xF800), packRGB565(255, 0, 0))
	assert.Equal(t, uint16(0x07E0), packRGB565(0, 255, 0))
	assert.Equal(t, uint16(0x001F), packRGB565(0, 0, 255))
	assert.Equal(t, uint16(0xFFFF), packRGB565(255, 255, 255))
	assert.Equal(t, uint16(0x0000), packRGB565(0, 0, 0))
}

func TestRGB565RepackIsStable(t *testing.T) {
	for _, pixel := range []uint16{0x0000, 0xF800, 0x07E0, 0x001F, 0xFFFF, 0x1234, 0xABCD} {
		r, g, b := unpackRGB565(pixel)
		assert.Equal(t, pixel, packRGB565(r, g, b))
	}
}

func TestFrameBytes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, displayWidth, displayHeight))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})

	buf := frameBytes(img, displayWidth, displayHeight)

	require.Len(t, buf, displayWidth*displayHeight*2)
	// Big-endian RGB565: pure red is 0xF800.
	assert.Equal(t, byte(0xF8), buf[0])
	assert.Equal(t, byte(0x00), buf[1])
}

func TestBlitCommandSequence(t *testing.T) {
	displayDevice, conn := newTestDisplay(t)

	displayDevice.blit(image.NewRGBA(image.Rect(0, 0, displayWidth, displayHeight)))

	opcodes := conn.opcodes()
	require.Len(t, opcodes, 3)
	assert.Equal(t, byte(cmdColumnAddress), opcodes[0])
	assert.Equal(t, byte(cmdRowAddress), opcodes[1])
	assert.Equal(t, byte(cmdMemoryWrite), opcodes[2])
}

func TestBlitChunking(t *testing.T) {
	displayDevice, conn := newTestDisplay(t)

	img := image.NewRGBA(image.Rect(0, 0, displayWidth, displayHeight))
	img.Set(5, 7, color.RGBA{0, 255, 0, 255})
	displayDevice.blit(img)

	var pixelData []byte
	pixelTransfers := 0
	afterMemoryWrite := false
	for _, transfer := range conn.transfers {
		if transfer.command {
			afterMemoryWrite = len(transfer.data) == 1 && transfer.data[0] == cmdMemoryWrite
			continue
		}
		if !afterMemoryWrite {
			continue
		}
		assert.LessOrEqual(t, len(transfer.data), maxTransferSize)
		pixelData = append(pixelData, transfer.data...)
		pixelTransfers++
	}

	// 128*128*2 bytes in 4096-byte slices.
	assert.Equal(t, displayWidth*displayHeight*2/maxTransferSize, pixelTransfers)
	assert.True(t, bytes.Equal(frameBytes(img, displayWidth, displayHeight), pixelData),
		"chunked transfers must concatenate back to the full frame")
}

func TestInitPanelEndsBacklitAndOutOfReset(t *testing.T) {
	displayDevice, conn := newTestDisplay(t)

	displayDevice.initPanel()

	gpioDevice := displayDevice.gpioDevice.(*MemGpio)
	assert.True(t, gpioDevice.Read(27), "reset line must be released")
	assert.True(t, gpioDevice.Read(24), "backlight must be on")

	opcodes := conn.opcodes()
	require.GreaterOrEqual(t, len(opcodes), 5)
	assert.Equal(t, byte(cmdSoftReset), opcodes[0])
	assert.Equal(t, byte(cmdSleepOut), opcodes[1])
	assert.Equal(t, byte(cmdDisplayOn), opcodes[len(opcodes)-1])
}
