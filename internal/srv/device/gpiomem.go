package device

import (
	"fmt"
	"sync"
)

// MemGpio keeps pin levels in memory. It backs simulation mode and the
// package tests; SetLevel stands in for the electrical world.
type MemGpio struct {
	lock    sync.Mutex
	levels  map[int]bool
	inputs  map[int]bool
	outputs map[int]bool
}

func NewMemGpio() *MemGpio {
	return &MemGpio{
		levels:  map[int]bool{},
		inputs:  map[int]bool{},
		outputs: map[int]bool{},
	}
}

func (g *MemGpio) ClaimInput(pin int) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.outputs[pin] {
		return fmt.Errorf("GPIO%d is busy", pin)
	}
	g.inputs[pin] = true
	// Pulled up: released button reads high.
	g.levels[pin] = true
	return nil
}

func (g *MemGpio) ClaimOutput(pin int) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if g.inputs[pin] {
		return fmt.Errorf("GPIO%d is busy", pin)
	}
	g.outputs[pin] = true
	g.levels[pin] = false
	return nil
}

func (g *MemGpio) Read(pin int) bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	level, ok := g.levels[pin]
	if !ok {
		return true
	}
	return level
}

func (g *MemGpio) Write(pin int, level bool) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	if !g.outputs[pin] {
		return fmt.Errorf("GPIO%d is not claimed as output", pin)
	}
	g.levels[pin] = level
	return nil
}

// SetLevel forces the electrical level of a pin, pressed buttons being low.
func (g *MemGpio) SetLevel(pin int, level bool) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.levels[pin] = level
}

func (g *MemGpio) Close() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.inputs = map[int]bool{}
	g.outputs = map[int]bool{}
	return nil
}
