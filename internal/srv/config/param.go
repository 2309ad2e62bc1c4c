package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	DebounceMs     int64        `yaml:"debounce_ms"`
	RefreshHz      int64        `yaml:"refresh_hz"`
	ConfirmSeconds int64        `yaml:"confirm_seconds"`
	PlayerCommand  string       `yaml:"player_command"`
	PinParam       PinParam     `yaml:"pins"`
	DisplayParam   DisplayParam `yaml:"display"`
	ApiParam       ApiParam     `yaml:"api"`
}

// PinParam holds the BCM numbers of every line the HAT wires up. The
// chip-select line is owned by the kernel SPI subsystem and is deliberately
// absent: claiming it fails with a busy error.
type PinParam struct {
	JoyUp       int `yaml:"joy_up"`
	JoyDown     int `yaml:"joy_down"`
	JoyLeft     int `yaml:"joy_left"`
	JoyRight    int `yaml:"joy_right"`
	JoyPress    int `yaml:"joy_press"`
	Key1        int `yaml:"key1"`
	Key2        int `yaml:"key2"`
	Key3        int `yaml:"key3"`
	Reset       int `yaml:"reset"`
	DataCommand int `yaml:"data_command"`
	Backlight   int `yaml:"backlight"`
}

type DisplayParam struct {
	SpiPort     string `yaml:"spi_port"`
	SpiSpeedMhz int64  `yaml:"spi_speed_mhz"`
	Invert      bool   `yaml:"invert"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}
