package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tonecraft.systems/grade/pkg/cube"
)

// ErrTruncatedFrame is returned when the decoder stream ends mid-frame.
var ErrTruncatedFrame = errors.New("exporter: truncated frame")

// gradeStream pumps fixed-size RGB24 frames from r through the LUT and
// into w. Frames travel through a bounded channel so a slow encoder
// applies backpressure to the decoder instead of buffering the whole
// video; a single reader and single writer keep frame order intact.
// onFrame, when non-nil, is called with the running frame count after
// each frame is written. Returns the total frames written.
func gradeStream(ctx context.Context, lut *cube.LUT, r io.Reader, w io.Writer, frameSize, depth int, onFrame func(int64)) (int64, error) {
	if depth < 1 {
		depth = 1
	}
	// Derived cancel releases the reader goroutine if the consumer
	// returns early on a write error.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan []byte, depth)
	readErr := make(chan error, 1)

	go func() {
		defer close(frames)
		for {
			buf := make([]byte, frameSize)
			_, err := io.ReadFull(r, buf)
			if err == io.EOF {
				readErr <- nil
				return
			}
			if err == io.ErrUnexpectedEOF {
				readErr <- ErrTruncatedFrame
				return
			}
			if err != nil {
				readErr <- fmt.Errorf("exporter: read frame: %w", err)
				return
			}
			select {
			case frames <- buf:
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
	}()

	var count int64
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		select {
		case buf, ok := <-frames:
			if !ok {
				return count, <-readErr
			}
			lut.ApplyRGB24(buf)
			if _, err := w.Write(buf); err != nil {
				return count, fmt.Errorf("exporter: write frame: %w", err)
			}
			count++
			if onFrame != nil {
				onFrame(count)
			}
		case <-ctx.Done():
			return count, ctx.Err()
		}
	}
}
