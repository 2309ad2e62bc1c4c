package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStatePersistsScreenIndex(t *testing.T) {
	stateFilename := filepath.Join(t.TempDir(), "state.yaml")

	state := NewServerState(stateFilename)
	state.SetScreenIndex(2)
	state.FlushSave()

	reloaded := NewServerState(stateFilename)
	assert.Equal(t, 2, reloaded.ScreenIndex())
}

func TestServerStateMissingFileDefaults(t *testing.T) {
	state := NewServerState(filepath.Join(t.TempDir(), "state.yaml"))
	assert.Equal(t, 0, state.ScreenIndex())
}

func TestServerConfigCreatesDefaultParam(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "pipdash")

	serverConfig := NewServerConfig(configDir, false, true)

	require.NotNil(t, serverConfig.ServerParam)
	assert.Equal(t, int64(150), serverConfig.ServerParam.DebounceMs)
	assert.Equal(t, int64(10), serverConfig.ServerParam.RefreshHz)
	assert.Equal(t, int64(3), serverConfig.ServerParam.ConfirmSeconds)

	// The generated file round-trips.
	reloaded := NewServerConfig(configDir, false, true)
	assert.Equal(t, *serverConfig.ServerParam, *reloaded.ServerParam)
}
