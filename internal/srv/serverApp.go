package srv

import (
	"os"
	"os/exec"
	"time"

	"github.com/ncarel/pipdash/internal/srv/asset"
	"github.com/ncarel/pipdash/internal/srv/config"
	"github.com/ncarel/pipdash/internal/srv/device"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/ncarel/pipdash/internal/srv/metrics"
	"github.com/ncarel/pipdash/internal/srv/screen"
	"github.com/ncarel/pipdash/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig

	gpioDevice    device.Gpio
	displayDevice *device.Display
	inputDevice   *device.Input
	playerDevice  device.Player
	apiDevice     *device.Api

	fontSet         *asset.FontSet
	metricsProvider *metrics.Provider

	screens     []screen.Screen
	radioScreen *screen.RadioScreen
	screenIndex int

	shutdownState   ShutdownState
	confirmDeadline time.Time
	haltRequested   bool

	loopAskDone chan bool
	loopDone    chan bool
}

type ShutdownState int64

const (
	SHUTDOWN_IDLE ShutdownState = iota
	SHUTDOWN_CONFIRMING
)

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of pipdash server %s ...", version.AppVersion.String())

	app := &ServerApp{
		shutdownState: SHUTDOWN_IDLE,
		loopAskDone:   make(chan bool, 1),
		loopDone:      make(chan bool),
		ServerConfig:  config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	if app.SimulationMode {
		app.gpioDevice = device.NewMemGpio()
	} else {
		periphGpio, err := device.NewPeriphGpio()
		if err != nil {
			logrus.Fatalf("Unable to initialize gpio: %v", err)
		}
		app.gpioDevice = periphGpio
	}

	app.displayDevice = device.NewDisplay(app.gpioDevice, app.ServerConfig)
	app.playerDevice = device.NewExecPlayer(app.ServerParam.PlayerCommand)
	app.apiDevice = device.NewApi(app.ServerConfig)

	pins := app.ServerParam.PinParam
	inputDevice, err := device.NewInput(app.gpioDevice, []device.PinBinding{
		{Pin: pins.JoyUp, Event: event.UP_EVENT},
		{Pin: pins.JoyDown, Event: event.DOWN_EVENT},
		{Pin: pins.JoyLeft, Event: event.LEFT_EVENT},
		{Pin: pins.JoyRight, Event: event.RIGHT_EVENT},
		{Pin: pins.JoyPress, Event: event.SELECT_EVENT},
		{Pin: pins.Key1, Event: event.KEY1_EVENT},
		{Pin: pins.Key2, Event: event.KEY2_EVENT},
		{Pin: pins.Key3, Event: event.KEY3_EVENT},
	}, app.DebounceWindow())
	if err != nil {
		logrus.Fatalf("Unable to claim button pins: %v", err)
	}
	app.inputDevice = inputDevice

	app.fontSet = asset.LoadFontSet(app.GetCompleteFontFolder())
	app.metricsProvider = metrics.NewProvider()

	app.radioScreen = screen.NewRadioScreen(app.fontSet, app.playerDevice, app.GetCompleteMusicFolder(), 2, 3)
	app.screens = []screen.Screen{
		screen.NewStatScreen(app.fontSet, app.metricsProvider, 0, 3),
		screen.NewInvScreen(app.fontSet, app.GetCompleteInventoryFilename(), 1, 3),
		app.radioScreen,
	}

	// Restore the last shown screen, clamped in case the screen list shrank.
	app.screenIndex = app.ServerState.ScreenIndex()
	if app.screenIndex < 0 || app.screenIndex >= len(app.screens) {
		app.screenIndex = 0
	}

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting pipdash server ...")

	logrus.Printf("Starting devices ...")

	// Start display device
	s.displayDevice.Start()

	// Display startup screen
	s.displayDevice.ShowImage(screen.RenderSplash(s.fontSet))
	time.Sleep(1 * time.Second)

	// Start input device
	s.inputDevice.Start()

	// Start api device
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.Start()
	}

	// Start refresh loop
	go s.refreshLoop()
}

func (s *ServerApp) Stop(halt bool) {
	logrus.Printf("Stopping pipdash server ...")

	// Stop api
	if s.ServerParam.ApiParam.Enabled {
		s.apiDevice.StopSendingEvent()
	}

	// Stop input device
	s.inputDevice.StopSendingEvent()

	// Stop refresh loop
	logrus.Infof("Stop refresh loop")
	s.loopAskDone <- true
	<-s.loopDone

	// Stop playback
	s.playerDevice.Stop()

	// Stop display device
	s.displayDevice.Stop()

	// Release gpio lines
	err := s.gpioDevice.Close()
	if err != nil {
		logrus.Warnf("Unable to release gpio lines: %v", err)
	}

	// Flush state backup
	s.ServerConfig.ServerState.FlushSave()

	logrus.Printf("Server stopped")

	if halt {
		logrus.Printf("System poweroff")
		haltCmd := exec.Command("sudo", "poweroff")
		err := haltCmd.Run()
		if err != nil {
			logrus.Panicf("Unable to poweroff the system: %v", err)
		}
	}
	os.Exit(0)
}

func (s *ServerApp) setScreenIndex(screenIndex int) {
	s.screenIndex = ((screenIndex % len(s.screens)) + len(s.screens)) % len(s.screens)
	s.ServerState.SetScreenIndex(s.screenIndex)
}

func (s *ServerApp) handleApiEvent(ev event.ApiEvent) {
	if s.shutdownState == SHUTDOWN_CONFIRMING {
		ev.Result <- device.ErrShutdownPending
		return
	}

	switch data := ev.Data.(type) {
	case event.ApiEventScreenSelectData:
		if data.ScreenIndex < 0 || data.ScreenIndex >= len(s.screens) {
			ev.Result <- device.ErrUnknownScreen
			return
		}
		s.setScreenIndex(data.ScreenIndex)
		ev.Result <- nil
	case event.ApiEventRadioPlayData:
		ev.Result <- s.radioScreen.PlayTrack(data.TrackIndex)
	case event.ApiEventRadioStopData:
		s.radioScreen.StopPlayback()
		ev.Result <- nil
	}
}
