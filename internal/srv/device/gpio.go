package device

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Gpio is the capability set every backend must provide. Pins are BCM
// numbers. Read reports the raw electrical level (true = high); inputs on
// this board are pulled up and active-low, so callers interpret polarity.
type Gpio interface {
	ClaimInput(pin int) error
	ClaimOutput(pin int) error
	Read(pin int) bool
	Write(pin int, level bool) error
	Close() error
}

// PeriphGpio drives real lines through the periph.io host drivers.
type PeriphGpio struct {
	pins map[int]gpio.PinIO
}

func NewPeriphGpio() (*PeriphGpio, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize periph host: %w", err)
	}
	return &PeriphGpio{pins: map[int]gpio.PinIO{}}, nil
}

func (g *PeriphGpio) pin(pin int) (gpio.PinIO, error) {
	if p, ok := g.pins[pin]; ok {
		return p, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", pin))
	if p == nil {
		return nil, fmt.Errorf("GPIO%d not found", pin)
	}
	g.pins[pin] = p
	return p, nil
}

func (g *PeriphGpio) ClaimInput(pin int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	// Internal pull up, no edge watching: levels are polled.
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return fmt.Errorf("unable to claim GPIO%d as input: %w", pin, err)
	}
	return nil
}

func (g *PeriphGpio) ClaimOutput(pin int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	if err := p.Out(gpio.Low); err != nil {
		return fmt.Errorf("unable to claim GPIO%d as output: %w", pin, err)
	}
	return nil
}

func (g *PeriphGpio) Read(pin int) bool {
	p, ok := g.pins[pin]
	if !ok {
		return true
	}
	return p.Read() == gpio.High
}

func (g *PeriphGpio) Write(pin int, level bool) error {
	p, ok := g.pins[pin]
	if !ok {
		return fmt.Errorf("GPIO%d is not claimed", pin)
	}
	return p.Out(gpio.Level(level))
}

func (g *PeriphGpio) Close() error {
	for pin, p := range g.pins {
		if err := p.Halt(); err != nil {
			logrus.Warnf("Unable to release GPIO%d: %v", pin, err)
		}
	}
	g.pins = map[int]gpio.PinIO{}
	return nil
}
