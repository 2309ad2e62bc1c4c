package device

import (
	"sync"
	"time"

	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/sirupsen/logrus"
)

// PinBinding maps one input line to the event its press edge produces.
type PinBinding struct {
	Pin   int
	Event event.ButtonEvent
}

// Input polls every bound pin, debounces press edges into a FIFO of button
// events and answers raw "still held" level queries for combo detection.
// The queue is shared between the poll goroutine and the main loop, hence
// the lock around push and pop. PinsHeld bypasses both debounce and queue:
// a combo is a level condition, not a pair of edges.
type Input struct {
	gpioDevice     Gpio
	bindings       []PinBinding
	debounceWindow time.Duration

	lock         sync.Mutex
	queue        []event.ButtonEvent
	lastLevel    map[int]bool
	lastAccepted map[int]time.Time

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewInput(gpioDevice Gpio, bindings []PinBinding, debounceWindow time.Duration) (*Input, error) {
	device := &Input{
		gpioDevice:     gpioDevice,
		bindings:       bindings,
		debounceWindow: debounceWindow,
		lastLevel:      map[int]bool{},
		lastAccepted:   map[int]time.Time{},
	}

	for _, binding := range bindings {
		if err := gpioDevice.ClaimInput(binding.Pin); err != nil {
			return nil, err
		}
	}

	return device, nil
}

func (d *Input) Start() {
	logrus.Infof("Start input device")

	d.checkTicker = time.NewTicker(20 * time.Millisecond)
	d.askDone = make(chan bool)
	d.done = make(chan bool)

	go func() {
		for loop := true; loop; {
			select {
			case <-d.checkTicker.C:
				d.Poll(time.Now())
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Input) StopSendingEvent() {
	logrus.Infof("Stop input device")

	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
}

// Poll samples every bound pin once. A fresh falling edge (active-low press)
// older than the debounce window since the pin's last accepted event queues
// that pin's button event. The recorded level is updated unconditionally so
// held buttons and bounce never desync the edge tracking.
func (d *Input) Poll(now time.Time) {
	for _, binding := range d.bindings {
		pressed := !d.gpioDevice.Read(binding.Pin)
		wasPressed := d.lastLevel[binding.Pin]
		if pressed && !wasPressed {
			if now.Sub(d.lastAccepted[binding.Pin]) >= d.debounceWindow {
				d.lock.Lock()
				d.queue = append(d.queue, binding.Event)
				d.lock.Unlock()
				d.lastAccepted[binding.Pin] = now
			}
		}
		d.lastLevel[binding.Pin] = pressed
	}
}

// PopEvent returns the oldest queued event, if any.
func (d *Input) PopEvent() (event.ButtonEvent, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if len(d.queue) == 0 {
		return 0, false
	}
	ev := d.queue[0]
	d.queue = d.queue[1:]
	return ev, true
}

// Drain discards every queued event.
func (d *Input) Drain() {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.queue = nil
}

// PinsHeld reports whether every given pin is currently pressed. It reads
// the raw levels directly so a multi-second hold stays visible on every
// tick even though the press edges were queued (and possibly drained) long
// before.
func (d *Input) PinsHeld(pins ...int) bool {
	for _, pin := range pins {
		if d.gpioDevice.Read(pin) {
			return false
		}
	}
	return len(pins) > 0
}
