// Package runner owns the lifecycle of a single script-interpreter child
// process: launch, incremental output streaming, graceful-then-forced stop,
// and exit classification. At most one process is active per Runner; a run
// request while one is active is rejected, not queued.
package runner

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// State is the runner's current lifecycle phase.
type State int

const (
	Idle State = iota
	Running
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is delivered on the runner's output channel. Consumers switch on
// the concrete type.
type Event interface{ Type() string }

// StateChanged reports a lifecycle transition.
type StateChanged struct{ State State }

// Output carries one decoded chunk of child output, tagged by stream.
type Output struct {
	Stream string // "stdout" or "stderr"
	Text   string
}

// Completed is the terminal event for one run.
type Completed struct {
	RunID    string
	ExitCode int
	Message  string
}

func (StateChanged) Type() string { return "state" }
func (Output) Type() string       { return "output" }
func (Completed) Type() string    { return "completed" }

// Request describes one execution. When FromBuffer is set, UnsavedText is
// written to a temporary file and executed in place of ScriptPath; the
// runner owns that file and deletes it after the run.
type Request struct {
	InterpreterPath string
	ScriptPath      string
	UnsavedText     string
	FromBuffer      bool
	Flags           string
	Args            string
	WorkingDir      string
}

const startTimeout = 3 * time.Second

// Runner manages one child process at a time.
type Runner struct {
	mu        sync.Mutex
	state     State
	cmd       *exec.Cmd
	runID     string
	tempFile  string
	killTimer *time.Timer
	events    chan Event
}

// New builds an idle runner. The events channel is buffered; the consumer
// is expected to drain it for the lifetime of the runner.
func New() *Runner {
	return &Runner{events: make(chan Event, 256)}
}

// Events delivers state changes, output chunks, and completions in the
// order they occurred.
func (r *Runner) Events() <-chan Event { return r.events }

// State returns the current lifecycle phase.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// setState must be called with r.mu held.
func (r *Runner) setState(s State) {
	r.state = s
	r.events <- StateChanged{State: s}
}

// Run launches the requested script. Returns false without side effects
// when a process is already active.
func (r *Runner) Run(req Request) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Running {
		return false
	}

	target := req.ScriptPath
	if req.FromBuffer {
		tmp, err := os.CreateTemp("", "ahkwb_*.ahk")
		if err != nil {
			r.setState(Error)
			r.events <- Completed{RunID: "", ExitCode: -1, Message: fmt.Sprintf("Failed to create temp script: %v", err)}
			return true
		}
		if _, err := tmp.WriteString(req.UnsavedText); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			r.setState(Error)
			r.events <- Completed{RunID: "", ExitCode: -1, Message: fmt.Sprintf("Failed to write temp script: %v", err)}
			return true
		}
		tmp.Close()
		r.tempFile = tmp.Name()
		target = r.tempFile
	}

	workDir := req.WorkingDir
	if workDir == "" {
		workDir = filepath.Dir(target)
	}

	argv := []string{req.InterpreterPath}
	argv = append(argv, strings.Fields(req.Flags)...)
	argv = append(argv, target)
	argv = append(argv, strings.Fields(req.Args)...)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		r.failStart(fmt.Sprintf("Failed to open stdout pipe: %v", err))
		return true
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		r.failStart(fmt.Sprintf("Failed to open stderr pipe: %v", err))
		return true
	}

	r.cmd = cmd
	r.runID = uuid.NewString()
	r.setState(Running)
	r.events <- Output{Stream: "stdout", Text: ">> " + strings.Join(argv, " ") + "\n"}
	log.Printf("Starting run %s: %s", r.runID, strings.Join(argv, " "))

	started := make(chan error, 1)
	go func() { started <- cmd.Start() }()

	select {
	case err := <-started:
		if err != nil {
			r.failStart("Failed to start AHK process")
			return true
		}
	case <-time.After(startTimeout):
		// Reap the process if the late start ever succeeds.
		go func() {
			if err := <-started; err == nil {
				cmd.Process.Kill()
				cmd.Wait()
			}
		}()
		r.failStart("Failed to start AHK process")
		return true
	}

	runID := r.runID
	var wg sync.WaitGroup
	wg.Add(2)
	go r.stream("stdout", stdout, &wg)
	go r.stream("stderr", stderr, &wg)

	go func() {
		wg.Wait()
		err := cmd.Wait()
		r.finish(cmd, runID, err)
	}()
	return true
}

// failStart must be called with r.mu held.
func (r *Runner) failStart(msg string) {
	r.removeTempFile()
	r.cmd = nil
	r.setState(Error)
	r.events <- Completed{RunID: r.runID, ExitCode: -1, Message: msg}
}

// Stop requests cooperative termination and arms a one-shot forced kill
// that fires after graceful elapses. The escalation is disarmed if the
// process exits on its own first. No-op when nothing is running.
func (r *Runner) Stop(graceful time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running || r.cmd == nil || r.cmd.Process == nil {
		return
	}

	cmd := r.cmd
	if err := terminate(cmd); err != nil {
		log.Printf("Graceful termination request failed: %v", err)
	}

	if r.killTimer != nil {
		r.killTimer.Stop()
	}
	r.killTimer = time.AfterFunc(graceful, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.state == Running && r.cmd == cmd {
			log.Printf("Graceful window expired, killing process")
			cmd.Process.Kill()
		}
	})
}

// stream copies one pipe to the events channel in small chunks so output
// is visible before the process exits. Undecodable bytes are replaced.
func (r *Runner) stream(name string, pipe io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()
	buf := make([]byte, 4096)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			r.events <- Output{Stream: name, Text: strings.ToValidUTF8(string(buf[:n]), "�")}
		}
		if err != nil {
			return
		}
	}
}

func (r *Runner) finish(cmd *exec.Cmd, runID string, waitErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != cmd {
		return
	}
	if r.killTimer != nil {
		r.killTimer.Stop()
		r.killTimer = nil
	}
	r.removeTempFile()
	r.cmd = nil

	exitCode := 0
	crashed := false
	if waitErr != nil {
		var ee *exec.ExitError
		if errors.As(waitErr, &ee) {
			exitCode = ee.ExitCode()
			if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				crashed = true
			}
		} else {
			exitCode = -1
		}
	}

	if exitCode == 0 {
		r.setState(Idle)
		r.events <- Completed{RunID: runID, ExitCode: 0, Message: "Process exited normally"}
		return
	}

	r.setState(Error)
	label := "exited"
	if crashed {
		label = "crashed"
	}
	r.events <- Completed{RunID: runID, ExitCode: exitCode, Message: fmt.Sprintf("Process %s with code %d", label, exitCode)}
}

// removeTempFile must be called with r.mu held. Deletion is best-effort.
func (r *Runner) removeTempFile() {
	if r.tempFile == "" {
		return
	}
	os.Remove(r.tempFile)
	r.tempFile = ""
}
