package event

// ButtonEvent is produced once per accepted press edge.
type ButtonEvent int

const (
	UP_EVENT ButtonEvent = iota
	DOWN_EVENT
	LEFT_EVENT
	RIGHT_EVENT
	SELECT_EVENT
	KEY1_EVENT
	KEY2_EVENT
	KEY3_EVENT
)

func (e ButtonEvent) String() string {
	switch e {
	case UP_EVENT:
		return "UP"
	case DOWN_EVENT:
		return "DOWN"
	case LEFT_EVENT:
		return "LEFT"
	case RIGHT_EVENT:
		return "RIGHT"
	case SELECT_EVENT:
		return "SELECT"
	case KEY1_EVENT:
		return "KEY1"
	case KEY2_EVENT:
		return "KEY2"
	case KEY3_EVENT:
		return "KEY3"
	}
	return "UNKNOWN"
}

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

type ApiEventScreenSelectData struct {
	ScreenIndex int
}

type ApiEventRadioPlayData struct {
	TrackIndex int
}

type ApiEventRadioStopData struct{}
