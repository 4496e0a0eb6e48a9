package runner

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("tests drive /bin/sh")
	}
	return "/bin/sh"
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

// drain collects events until the terminal completion arrives.
func drain(t *testing.T, r *Runner, timeout time.Duration) ([]Event, Completed) {
	t.Helper()
	var events []Event
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-r.Events():
			events = append(events, ev)
			if done, ok := ev.(Completed); ok {
				return events, done
			}
		case <-deadline:
			t.Fatalf("no completion within %v (saw %d events)", timeout, len(events))
		}
	}
}

func outputText(events []Event) string {
	var b strings.Builder
	for _, ev := range events {
		if out, ok := ev.(Output); ok {
			b.WriteString(out.Text)
		}
	}
	return b.String()
}

func TestRunStreamsOutputAndReturnsToIdle(t *testing.T) {
	sh := requireShell(t)
	script := writeScript(t, "echo hello\necho oops >&2\n")

	r := New()
	require.True(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))

	events, done := drain(t, r, 10*time.Second)

	assert.Equal(t, 0, done.ExitCode)
	assert.Equal(t, "Process exited normally", done.Message)
	assert.NotEmpty(t, done.RunID)
	assert.Equal(t, Idle, r.State())

	text := outputText(events)
	assert.Contains(t, text, ">> "+sh+" "+script)
	assert.Contains(t, text, "hello")

	var sawStderr bool
	for _, ev := range events {
		if out, ok := ev.(Output); ok && out.Stream == "stderr" && strings.Contains(out.Text, "oops") {
			sawStderr = true
		}
	}
	assert.True(t, sawStderr, "stderr chunk should be tagged by stream")
}

func TestRunNonZeroExitEntersErrorState(t *testing.T) {
	sh := requireShell(t)
	script := writeScript(t, "exit 3\n")

	r := New()
	require.True(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))

	_, done := drain(t, r, 10*time.Second)
	assert.Equal(t, 3, done.ExitCode)
	assert.Equal(t, "Process exited with code 3", done.Message)
	assert.Equal(t, Error, r.State())
}

func TestRunWhileRunningIsRejected(t *testing.T) {
	sh := requireShell(t)
	script := writeScript(t, "sleep 5\n")

	r := New()
	require.True(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))
	assert.Eventually(t, func() bool { return r.State() == Running }, 5*time.Second, 10*time.Millisecond)

	assert.False(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))
	assert.Equal(t, Running, r.State())

	r.Stop(100 * time.Millisecond)
	drain(t, r, 10*time.Second)
}

func TestStopBeforeAnyRunIsNoop(t *testing.T) {
	r := New()
	r.Stop(time.Second)
	assert.Equal(t, Idle, r.State())
}

func TestGracefulStopSkipsForcedKill(t *testing.T) {
	sh := requireShell(t)
	script := writeScript(t, "trap 'exit 0' TERM\nwhile true; do sleep 0.1; done\n")

	r := New()
	require.True(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))
	assert.Eventually(t, func() bool { return r.State() == Running }, 5*time.Second, 10*time.Millisecond)

	start := time.Now()
	r.Stop(10 * time.Second)
	_, done := drain(t, r, 10*time.Second)

	// The trap exits 0 well inside the graceful window.
	assert.Equal(t, 0, done.ExitCode)
	assert.Equal(t, Idle, r.State())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestForcedKillAfterGracefulWindow(t *testing.T) {
	sh := requireShell(t)
	script := writeScript(t, "trap '' TERM\nwhile true; do sleep 0.1; done\n")

	r := New()
	require.True(t, r.Run(Request{InterpreterPath: sh, ScriptPath: script}))
	assert.Eventually(t, func() bool { return r.State() == Running }, 5*time.Second, 10*time.Millisecond)

	r.Stop(200 * time.Millisecond)
	_, done := drain(t, r, 10*time.Second)

	assert.Contains(t, done.Message, "crashed")
	assert.Equal(t, Error, r.State())
}

func TestRunFromBufferDeletesTempFile(t *testing.T) {
	sh := requireShell(t)

	r := New()
	require.True(t, r.Run(Request{
		InterpreterPath: sh,
		FromBuffer:      true,
		UnsavedText:     "echo from-buffer\n",
	}))

	events, done := drain(t, r, 10*time.Second)
	require.Equal(t, 0, done.ExitCode)
	assert.Contains(t, outputText(events), "from-buffer")

	// The command-line echo names the temp file; it must be gone now.
	fields := strings.Fields(strings.TrimPrefix(strings.SplitN(outputText(events), "\n", 2)[0], ">> "))
	require.Len(t, fields, 2)
	tempPath := fields[1]
	assert.Contains(t, filepath.Base(tempPath), "ahkwb_")
	_, err := os.Stat(tempPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCommandLineAssemblyOrder(t *testing.T) {
	requireShell(t)
	script := writeScript(t, "ignored\n")

	r := New()
	require.True(t, r.Run(Request{
		InterpreterPath: "/bin/echo",
		ScriptPath:      script,
		Flags:           "--flag1 --flag2",
		Args:            "alpha beta",
	}))

	events, done := drain(t, r, 10*time.Second)
	require.Equal(t, 0, done.ExitCode)

	// echo prints its argv back: flags, then target, then args.
	assert.Contains(t, outputText(events), "--flag1 --flag2 "+script+" alpha beta")
}

func TestStartFailureReportsCompletion(t *testing.T) {
	requireShell(t)

	r := New()
	require.True(t, r.Run(Request{
		InterpreterPath: filepath.Join(t.TempDir(), "missing-interpreter"),
		ScriptPath:      writeScript(t, "echo never\n"),
	}))

	_, done := drain(t, r, 10*time.Second)
	assert.Equal(t, -1, done.ExitCode)
	assert.Equal(t, "Failed to start AHK process", done.Message)
	assert.Equal(t, Error, r.State())
}
