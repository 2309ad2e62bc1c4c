package srv

import (
	"image"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/ncarel/pipdash/internal/srv/screen"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) refreshLoop() {
	// A panic in a screen or the transport must still release the gpio
	// lines, blank the panel and kill the player process: hand the stop
	// signal to the main goroutine, whose Stop joins us through loopDone.
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("Refresh loop panic: [%v] - stack trace:\n[%s]", rec, debug.Stack())
			syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			s.loopDone <- true
		}
	}()

	refreshTicker := time.NewTicker(s.RefreshPeriod())
	defer refreshTicker.Stop()

	haltSignalled := false

	for loop := true; loop; {
		select {
		case ev := <-s.apiDevice.EventChannel():
			s.handleApiEvent(ev)
		case now := <-refreshTicker.C:
			s.processTick(now)
			if s.haltRequested && !haltSignalled {
				haltSignalled = true
				syscall.Kill(syscall.Getpid(), syscall.SIGUSR1)
			}
			s.displayDevice.ShowImage(s.renderFrame(now))
		case <-s.loopAskDone:
			loop = false
		}
	}

	s.loopDone <- true
}

// processTick runs the shutdown state machine first, so a held combo or a
// pending confirmation always wins over ordinary navigation, then dispatches
// at most one queued button event.
func (s *ServerApp) processTick(now time.Time) {
	pins := s.ServerParam.PinParam

	switch s.shutdownState {
	case SHUTDOWN_IDLE:
		if s.inputDevice.PinsHeld(pins.Key1, pins.Key2) {
			logrus.Infof("Shutdown combo held, asking confirmation")
			s.shutdownState = SHUTDOWN_CONFIRMING
			s.confirmDeadline = now.Add(s.ConfirmDuration())
			// The presses that formed the combo must not leak to a screen.
			s.inputDevice.Drain()
			return
		}
	case SHUTDOWN_CONFIRMING:
		// The sampler may queue the combo's own edges after the entry
		// drain. While both keys are still held those stale edges keep
		// confirming, they never cancel it.
		if s.inputDevice.PinsHeld(pins.Key1, pins.Key2) {
			s.inputDevice.Drain()
		} else if ev, ok := s.inputDevice.PopEvent(); ok {
			logrus.Infof("Shutdown cancelled by %s press", ev)
			s.shutdownState = SHUTDOWN_IDLE
			return
		}
		if !now.Before(s.confirmDeadline) && !s.haltRequested {
			logrus.Infof("Shutdown confirmed")
			s.haltRequested = true
		}
		return
	}

	ev, ok := s.inputDevice.PopEvent()
	if !ok {
		return
	}

	logrus.Debugf("Receive button event: %s", ev)

	switch ev {
	case event.LEFT_EVENT:
		s.setScreenIndex(s.screenIndex - 1)
	case event.RIGHT_EVENT:
		s.setScreenIndex(s.screenIndex + 1)
	default:
		s.screens[s.screenIndex].HandleEvent(ev)
	}
}

func (s *ServerApp) renderFrame(now time.Time) *image.RGBA {
	if s.shutdownState == SHUTDOWN_CONFIRMING {
		remaining := s.confirmDeadline.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		return screen.RenderShutdownOverlay(s.fontSet, remaining, s.ConfirmDuration())
	}
	return s.screens[s.screenIndex].Render()
}
