package device

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
)

// Player is the playback service the RADIO screen drives. Implementations
// never block: playback runs in an external process or not at all.
type Player interface {
	Load(path string) error
	Play()
	Pause()
	Unpause()
	Stop()
	IsBusy() bool
}

// ExecPlayer plays one file at a time through an external player process.
// Pause and unpause map to SIGSTOP/SIGCONT on the process group leader.
type ExecPlayer struct {
	lock          sync.Mutex
	playerCommand string
	available     bool
	loadedPath    string
	currentCmd    *exec.Cmd
}

func NewExecPlayer(playerCommand string) *ExecPlayer {
	player := &ExecPlayer{playerCommand: playerCommand}

	if _, err := exec.LookPath(playerCommand); err != nil {
		// Expected absence: the RADIO screen degrades to a silent list.
		logrus.Warnf("Player command %q not found, playback disabled", playerCommand)
	} else {
		player.available = true
	}

	return player
}

func (p *ExecPlayer) Load(path string) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.available {
		return fmt.Errorf("no audio backend available")
	}
	p.stop()
	p.loadedPath = path
	return nil
}

func (p *ExecPlayer) Play() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.available || p.loadedPath == "" {
		return
	}
	p.stop()

	p.currentCmd = exec.Command(p.playerCommand, "-q", p.loadedPath)
	if err := p.currentCmd.Start(); err != nil {
		logrus.Warnf("Unable to play %s: %v", p.loadedPath, err)
		p.currentCmd = nil
		return
	}

	currentCmd := p.currentCmd
	go func() {
		currentCmd.Wait()
		p.lock.Lock()
		defer p.lock.Unlock()
		if p.currentCmd == currentCmd {
			p.currentCmd = nil
		}
	}()
}

func (p *ExecPlayer) Pause() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.currentCmd != nil {
		if err := p.currentCmd.Process.Signal(syscall.SIGSTOP); err != nil {
			logrus.Warnf("Unable to pause playback: %v", err)
		}
	}
}

func (p *ExecPlayer) Unpause() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.currentCmd != nil {
		if err := p.currentCmd.Process.Signal(syscall.SIGCONT); err != nil {
			logrus.Warnf("Unable to resume playback: %v", err)
		}
	}
}

func (p *ExecPlayer) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.stop()
}

func (p *ExecPlayer) stop() {
	if p.currentCmd != nil {
		// A paused process ignores SIGKILL until resumed.
		p.currentCmd.Process.Signal(syscall.SIGCONT)
		if err := p.currentCmd.Process.Kill(); err != nil {
			logrus.Errorf("Failed to kill player process: %v", err)
		}
		p.currentCmd = nil
	}
}

// IsBusy reports whether the player process is still alive. A track that
// ended on its own clears the busy state through the Wait goroutine.
func (p *ExecPlayer) IsBusy() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.currentCmd != nil
}
