// Package process spawns and supervises the mixer executable.
package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// HintToken is replaced by the packed placement hint in launch arguments.
const HintToken = "{hint}"

// Process is a spawned child the controller can watch and kill.
type Process interface {
	PID() int
	// Exited reports whether the process has terminated. It never blocks and
	// stays valid after the OS handle is gone.
	Exited() bool
	Kill() error
}

// Supervisor starts processes and cleans up strays by name.
type Supervisor interface {
	Start(path string, args []string) (Process, error)
	// KillByName terminates every running process with the given image name,
	// best-effort, and returns how many kills were attempted.
	KillByName(name string) int
}

// ExecSupervisor is the os/exec backed Supervisor.
type ExecSupervisor struct{}

var _ Supervisor = ExecSupervisor{}

// Start launches path without a console or shell window.
func (ExecSupervisor) Start(path string, args []string) (Process, error) {
	cmd := exec.Command(path, args...)
	cmd.SysProcAttr = hiddenProcAttr()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", path, err)
	}

	p := &execProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// KillByName kills matching processes, skipping the current one.
func (ExecSupervisor) KillByName(name string) int {
	pids, err := findByName(name)
	if err != nil {
		return 0
	}

	self := os.Getpid()
	attempts := 0
	for _, pid := range pids {
		if pid == self {
			continue
		}
		attempts++
		if proc, err := os.FindProcess(pid); err == nil {
			_ = proc.Kill()
			_ = proc.Release()
		}
	}
	return attempts
}

type execProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Kill is idempotent; killing an exited process is not an error.
func (p *execProcess) Kill() error {
	if p.Exited() {
		return nil
	}
	var err error
	p.once.Do(func() {
		err = p.cmd.Process.Kill()
		if errors.Is(err, os.ErrProcessDone) {
			err = nil
		}
	})
	return err
}

// ExpandArgs substitutes the packed placement hint into the argument template.
func ExpandArgs(args []string, hint int32) []string {
	out := make([]string, len(args))
	value := strconv.FormatInt(int64(hint), 10)
	for i, arg := range args {
		out[i] = strings.ReplaceAll(arg, HintToken, value)
	}
	return out
}

// matchesName compares process image names case-insensitively, ignoring a
// trailing ".exe" on either side.
func matchesName(image, name string) bool {
	trim := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.TrimSuffix(s, ".exe")
	}
	return name != "" && trim(image) == trim(name)
}

// ImageName returns the process image name for an executable path, without
// directory or ".exe" suffix.
func ImageName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if strings.HasSuffix(strings.ToLower(base), ".exe") {
		base = base[:len(base)-len(".exe")]
	}
	return base
}

// ResolveMixerPath returns configured, or the platform's mixer when it is empty.
func ResolveMixerPath(configured string) string {
	if p := strings.TrimSpace(configured); p != "" {
		return p
	}
	return DefaultMixerPath()
}
