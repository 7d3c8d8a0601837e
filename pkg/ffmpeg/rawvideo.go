package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// RawDecoder streams a video's frames as packed RGB24 bytes on a pipe.
type RawDecoder struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer

	// Frames is the raw frame stream: Width*Height*3 bytes per frame,
	// no separators, ending at EOF.
	Frames io.ReadCloser
}

// StartRawDecoder launches an ffmpeg decode of the first video stream
// into packed RGB24 frames on stdout.
func StartRawDecoder(ctx context.Context, input string) (*RawDecoder, error) {
	args := []string{
		"-hide_banner",
		"-i", input,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	d := &RawDecoder{cmd: cmd}
	cmd.Stderr = &d.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: failed to create stdout pipe: %w", err)
	}
	d.Frames = stdout

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: failed to start decoder: %w", err)
	}
	return d, nil
}

// Wait blocks until the decoder exits.
func (d *RawDecoder) Wait() error {
	return wrapWait(d.cmd.Wait(), d.cmd.Args[1:], &d.stderr)
}

// Kill terminates the decoder.
func (d *RawDecoder) Kill() error {
	if d.cmd.Process == nil {
		return nil
	}
	return d.cmd.Process.Kill()
}

// RawEncoder consumes packed RGB24 frames from a pipe and encodes them
// into a video file.
type RawEncoder struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer

	// Frames accepts Width*Height*3 bytes per frame. Close it to signal
	// end of stream before calling Wait.
	Frames io.WriteCloser
}

// StartRawEncoder launches an ffmpeg encode reading packed RGB24 frames
// of the given geometry from stdin. Codec options come from opts.
func StartRawEncoder(ctx context.Context, output string, width, height int, fps float64, opts ...Option) (*RawEncoder, error) {
	pre := []string{
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", fmt.Sprintf("%g", fps),
	}
	cmd := NewCommand("pipe:0", output, opts...)
	cmd.preInput = append(cmd.preInput, pre...)

	proc := exec.CommandContext(ctx, "ffmpeg", cmd.Build()...)

	e := &RawEncoder{cmd: proc}
	proc.Stderr = &e.stderr

	stdin, err := proc.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: failed to create stdin pipe: %w", err)
	}
	e.Frames = stdin

	if err := proc.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg: failed to start encoder: %w", err)
	}
	return e, nil
}

// Wait blocks until the encoder exits. Close Frames first.
func (e *RawEncoder) Wait() error {
	return wrapWait(e.cmd.Wait(), e.cmd.Args[1:], &e.stderr)
}

// Kill terminates the encoder.
func (e *RawEncoder) Kill() error {
	if e.cmd.Process == nil {
		return nil
	}
	return e.cmd.Process.Kill()
}
