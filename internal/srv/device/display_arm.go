package device

import (
	"image"
	"sync"

	"periph.io/x/conn/v3/spi"
)

type Display struct {
	simulationMode bool
	gpioDevice     Gpio

	spiPortName string
	spiSpeedMhz int64
	invert      bool
	rstPin      int
	dcPin       int
	blPin       int

	spiPort spi.PortCloser
	conn    displayConn

	lock    sync.RWMutex
	lastImg image.Image
}

func (d *Display) startSimulation() {
}

func (d *Display) invalidateSimulationWindow() {
}

func (d *Display) closeSimulationWindow() {
}
