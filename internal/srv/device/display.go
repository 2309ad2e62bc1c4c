package device

import (
	"image"
	"time"

	"github.com/ncarel/pipdash/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

const displayWidth = 128
const displayHeight = 128

// Largest buffer a single spidev transfer accepts.
const maxTransferSize = 4096

// ST7735S command bytes
const (
	cmdSoftReset     = 0x01
	cmdSleepOut      = 0x11
	cmdInversionOn   = 0x21
	cmdDisplayOn     = 0x29
	cmdColumnAddress = 0x2A
	cmdRowAddress    = 0x2B
	cmdMemoryWrite   = 0x2C
	cmdMemoryAccess  = 0x36
	cmdPixelFormat   = 0x3A
)

// MADCTL bits
const (
	madctlMY  = 0x80
	madctlMX  = 0x40
	madctlMV  = 0x20
	madctlRGB = 0x00
)

// pixelFormat16bpp selects packed 16-bit RGB565.
const pixelFormat16bpp = 0x55

// displayConn is the write half of the SPI channel; satisfied by spi.Conn
// and by the recording fake in the tests.
type displayConn interface {
	Tx(w, r []byte) error
}

func NewDisplay(gpioDevice Gpio, serverConfig *config.ServerConfig) *Display {
	device := Display{
		simulationMode: serverConfig.SimulationMode,
		gpioDevice:     gpioDevice,
		spiPortName:    serverConfig.DisplayParam.SpiPort,
		spiSpeedMhz:    serverConfig.DisplayParam.SpiSpeedMhz,
		invert:         serverConfig.DisplayParam.Invert,
		rstPin:         serverConfig.PinParam.Reset,
		dcPin:          serverConfig.PinParam.DataCommand,
		blPin:          serverConfig.PinParam.Backlight,
	}

	return &device
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	if d.simulationMode {
		d.startSimulation()
		return
	}

	var err error
	d.spiPort, err = spireg.Open(d.spiPortName)
	if err != nil {
		logrus.Fatalf("Unable to open spi port %s: %v\n", d.spiPortName, err)
	}
	d.conn, err = d.spiPort.Connect(physic.Frequency(d.spiSpeedMhz)*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		logrus.Fatalf("Unable to connect to display: %v\n", err)
	}

	// Chip select stays with the kernel SPI subsystem, only the three
	// auxiliary lines are ours.
	for _, pin := range []int{d.rstPin, d.dcPin, d.blPin} {
		if err := d.gpioDevice.ClaimOutput(pin); err != nil {
			logrus.Fatalf("Unable to setup display control line: %v\n", err)
		}
	}

	d.initPanel()
}

// initPanel runs the ST7735S power-up sequence.
func (d *Display) initPanel() {
	d.gpioDevice.Write(d.rstPin, false)
	time.Sleep(100 * time.Millisecond)
	d.gpioDevice.Write(d.rstPin, true)
	time.Sleep(100 * time.Millisecond)

	d.sendCommand(cmdSoftReset)
	time.Sleep(150 * time.Millisecond)
	d.sendCommand(cmdSleepOut)
	time.Sleep(150 * time.Millisecond)
	d.sendCommand(cmdPixelFormat, pixelFormat16bpp)
	// Orientation constant for the panel's physical mounting.
	d.sendCommand(cmdMemoryAccess, madctlMX|madctlMV|madctlRGB)
	if d.invert {
		d.sendCommand(cmdInversionOn)
	}
	d.sendCommand(cmdDisplayOn)

	d.gpioDevice.Write(d.blPin, true)
}

// sendCommand writes the opcode with the data/command line low, then any
// payload bytes with the line high.
func (d *Display) sendCommand(opcode byte, payload ...byte) {
	d.gpioDevice.Write(d.dcPin, false)
	if err := d.conn.Tx([]byte{opcode}, nil); err != nil {
		logrus.Warnf("Display command 0x%02x failed: %v", opcode, err)
		return
	}
	if len(payload) > 0 {
		d.gpioDevice.Write(d.dcPin, true)
		if err := d.conn.Tx(payload, nil); err != nil {
			logrus.Warnf("Display command 0x%02x payload failed: %v", opcode, err)
		}
	}
}

// blit programs a full-panel write window and streams the frame as
// big-endian RGB565, chunked to the transport's transfer limit.
func (d *Display) blit(img image.Image) {
	buf := frameBytes(img, displayWidth, displayHeight)

	d.sendCommand(cmdColumnAddress, 0x00, 0x01, 0x00, displayWidth)
	d.sendCommand(cmdRowAddress, 0x00, 0x00, 0x00, displayHeight-1)

	d.gpioDevice.Write(d.dcPin, false)
	if err := d.conn.Tx([]byte{cmdMemoryWrite}, nil); err != nil {
		logrus.Warnf("Display memory write failed: %v", err)
		return
	}
	d.gpioDevice.Write(d.dcPin, true)
	for i := 0; i < len(buf); i += maxTransferSize {
		end := i + maxTransferSize
		if end > len(buf) {
			end = len(buf)
		}
		if err := d.conn.Tx(buf[i:end], nil); err != nil {
			logrus.Warnf("Display pixel stream failed: %v", err)
			return
		}
	}
}

func (d *Display) ShowImage(img image.Image) {
	d.lock.Lock()
	d.lastImg = img
	d.lock.Unlock()

	if d.simulationMode {
		d.invalidateSimulationWindow()
	} else {
		d.blit(img)
	}
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		d.closeSimulationWindow()
		return
	}

	// Blank the panel and drop the backlight before releasing the port.
	d.blit(image.NewRGBA(image.Rect(0, 0, displayWidth, displayHeight)))
	d.gpioDevice.Write(d.blPin, false)
	if err := d.spiPort.Close(); err != nil {
		logrus.Warnf("Unable to close spi port: %v", err)
	}
}

// frameBytes serializes a frame row-major as big-endian RGB565.
func frameBytes(img image.Image, width, height int) []byte {
	buf := make([]byte, 0, width*height*2)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			pixel := packRGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			buf = append(buf, byte(pixel>>8), byte(pixel))
		}
	}
	return buf
}

// packRGB565 truncates 8-bit channels to 5/6/5 bits.
func packRGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// unpackRGB565 expands a packed pixel back to 8-bit channels; repacking the
// result is stable.
func unpackRGB565(pixel uint16) (r, g, b uint8) {
	r = uint8(pixel>>11) << 3
	g = uint8(pixel>>5&0x3f) << 2
	b = uint8(pixel&0x1f) << 3
	return
}
