package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Process represents a running ffmpeg process with lifecycle management.
type Process struct {
	cmd      *exec.Cmd
	pid      int
	done     chan struct{}
	err      error
	stderr   bytes.Buffer
	progress chan<- Progress
}

// PID returns the process ID, or 0 if not started.
func (p *Process) PID() int {
	return p.pid
}

// Wait blocks until the process completes and returns any error.
func (p *Process) Wait() error {
	<-p.done
	return p.err
}

// Kill sends SIGKILL to the process.
func (p *Process) Kill() error {
	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// Done returns a channel that closes when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Stderr returns the captured stderr output (available after Wait).
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Start starts an ffmpeg process and returns a Process handle. The
// caller is responsible for calling Wait() or Kill() to clean up. When
// a progress channel is given, -progress output on stdout is parsed and
// forwarded; the channel is closed when the process exits.
func Start(ctx context.Context, args []string, progress chan<- Progress) (*Process, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	p := &Process{
		cmd:      cmd,
		done:     make(chan struct{}),
		progress: progress,
	}
	cmd.Stderr = &p.stderr

	if progress != nil {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("ffmpeg: failed to create stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("ffmpeg: failed to start: %w", err)
		}
		p.pid = cmd.Process.Pid

		go func() {
			defer close(p.done)
			ParseProgressOutput(bufio.NewScanner(stdout), progress)
			p.err = wrapWait(cmd.Wait(), args, &p.stderr)
			close(progress)
		}()
		return p, nil
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: failed to start: %w", err)
	}
	p.pid = cmd.Process.Pid

	go func() {
		defer close(p.done)
		p.err = wrapWait(cmd.Wait(), args, &p.stderr)
	}()
	return p, nil
}

func wrapWait(err error, args []string, stderr *bytes.Buffer) error {
	if err == nil {
		return nil
	}
	return &Error{
		Args:   args,
		Stderr: stderr.String(),
		Err:    err,
	}
}

// run executes ffmpeg and waits for completion.
func run(ctx context.Context, args []string, progress chan<- Progress) error {
	proc, err := Start(ctx, args, progress)
	if err != nil {
		return err
	}
	return proc.Wait()
}

// Error represents an ffmpeg execution error with context.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

// Error implements error, quoting the tail of stderr where ffmpeg puts
// the actual failure reason.
func (e *Error) Error() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	tail := strings.Join(lines, "\n")
	if tail != "" {
		return fmt.Sprintf("ffmpeg: %v: %s", e.Err, tail)
	}
	return fmt.Sprintf("ffmpeg: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Command returns the command line that was executed.
func (e *Error) Command() string {
	return "ffmpeg " + strings.Join(e.Args, " ")
}
