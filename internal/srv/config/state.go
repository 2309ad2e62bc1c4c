package config

import (
	"io/ioutil"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerState is the part of the configuration the device rewrites on its
// own: it survives restarts through a debounced backup save.
type ServerState struct {
	serverStateConfig     ServerStateConfig
	lock                  sync.RWMutex
	backupTimer           *time.Timer
	completeStateFilename string
}

func NewServerState(completeStateFilename string) *ServerState {
	serverState := &ServerState{
		completeStateFilename: completeStateFilename,
	}

	rawConfig, err := ioutil.ReadFile(completeStateFilename)
	if err == nil {
		// Interpret state file
		err = yaml.Unmarshal(rawConfig, &serverState.serverStateConfig)
		if err != nil {
			logrus.Fatalf("Unable to interpret state file: %v\n", err)
		}
	} else {
		// Create default state file
		logrus.Infof("Create default state file")
		serverState.SetScreenIndex(0)
	}

	return serverState
}

func (ss *ServerState) ScreenIndex() int {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.ScreenIndex
}

func (ss *ServerState) SetScreenIndex(screenIndex int) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	ss.serverStateConfig.ScreenIndex = screenIndex
	ss.scheduleSave()
}

func (ss *ServerState) scheduleSave() {
	if ss.backupTimer == nil {
		ss.backupTimer = time.AfterFunc(10*time.Second, func() {
			ss.lock.Lock()
			defer ss.lock.Unlock()
			ss.save()
		})
	} else {
		ss.backupTimer.Reset(10 * time.Second)
	}
}

func (ss *ServerState) save() {
	logrus.Infof("Save state file: %s", ss.completeStateFilename)
	rawConfig, err := yaml.Marshal(&ss.serverStateConfig)
	if err != nil {
		logrus.Fatalf("Unable to serialize state file: %v\n", err)
	}
	err = ioutil.WriteFile(ss.completeStateFilename, rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save state file: %v\n", err)
	}
}

func (ss *ServerState) FlushSave() {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.backupTimer != nil {
		if ss.backupTimer.Stop() {
			ss.save()
		}
	}
}

type ServerStateConfig struct {
	ScreenIndex int `yaml:"screen_index"`
}
