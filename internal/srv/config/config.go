package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"
const stateFilename = "state.yaml"
const musicFolder = "music"
const fontFolder = "fonts"
const inventoryFilename = "inv.txt"

type ServerConfig struct {
	ConfigDir      string
	DebugMode      bool
	SimulationMode bool

	*ServerParam
	*ServerState
}

func NewServerConfig(configDir string, debugMode bool, simulationMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir:      configDir,
		DebugMode:      debugMode,
		SimulationMode: simulationMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.Mkdir(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	rawConfig, err := ioutil.ReadFile(serverConfig.GetCompleteParamFilename())
	if err == nil {
		// Interpret param file
		serverConfig.ServerParam = &ServerParam{}
		err = yaml.Unmarshal(rawConfig, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}
	} else {
		// Create default param file
		logrus.Infof("Create default param file")
		serverConfig.ServerParam = &ServerParam{}

		err = yaml.Unmarshal(ParamDefaultFile, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret config file: %v\n", err)
		}

		serverConfig.SaveParam()
	}

	// Open state file
	serverConfig.ServerState = NewServerState(serverConfig.GetCompleteStateFilename())

	return serverConfig
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteStateFilename() string {
	return filepath.Join(sc.ConfigDir, stateFilename)
}

func (sc *ServerConfig) GetCompleteMusicFolder() string {
	return filepath.Join(sc.ConfigDir, musicFolder)
}

func (sc *ServerConfig) GetCompleteFontFolder() string {
	return filepath.Join(sc.ConfigDir, fontFolder)
}

func (sc *ServerConfig) GetCompleteInventoryFilename() string {
	return filepath.Join(sc.ConfigDir, inventoryFilename)
}

func (sc *ServerConfig) DebounceWindow() time.Duration {
	return time.Duration(sc.ServerParam.DebounceMs) * time.Millisecond
}

func (sc *ServerConfig) RefreshPeriod() time.Duration {
	return time.Second / time.Duration(sc.ServerParam.RefreshHz)
}

func (sc *ServerConfig) ConfirmDuration() time.Duration {
	return time.Duration(sc.ServerParam.ConfirmSeconds) * time.Second
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = ioutil.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}
