package device

import (
	"image"
	"log"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
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

	simulationWindow *app.Window
}

func (d *Display) startSimulation() {
	d.simulationWindow = app.NewWindow(app.Size(unit.Px(256), unit.Px(256)), app.MinSize(unit.Px(displayWidth), unit.Px(displayHeight)))
	go func() {
		if err := d.gioloop(); err != nil {
			log.Fatal(err)
		}
	}()
	go app.Main()
}

func (d *Display) invalidateSimulationWindow() {
	d.simulationWindow.Invalidate()
}

func (d *Display) closeSimulationWindow() {
	d.simulationWindow.Close()
}

func (d *Display) gioloop() error {
	var ops op.Ops
	for {
		e := <-d.simulationWindow.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			d.lock.RLock()
			lastImg := d.lastImg
			d.lock.RUnlock()

			if lastImg != nil {
				img := widget.Image{Src: paint.NewImageOp(lastImg), Fit: widget.Contain}
				img.Layout(gtx)
			}
			e.Frame(gtx.Ops)
		}
	}
}
