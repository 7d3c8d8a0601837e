package ffmpeg

import (
	"bufio"
	"strconv"
	"strings"
)

// Progress represents ffmpeg encoding progress.
type Progress struct {
	Frame     int64   // Current frame number
	FPS       float64 // Current encoding speed in frames per second
	TotalSize int64   // Current output size in bytes
	OutTimeUS int64   // Output timestamp in microseconds
	Speed     string  // Encoding speed multiplier (e.g. "2.5x")
	Progress  string  // "continue" or "end"
}

// OutTimeSeconds returns the output time in seconds.
func (p Progress) OutTimeSeconds() float64 {
	return float64(p.OutTimeUS) / 1_000_000
}

// ProgressParser accumulates key=value updates from ffmpeg -progress
// output; a "progress=" line completes one update.
type ProgressParser struct {
	current Progress
}

// NewProgressParser creates a new progress parser.
func NewProgressParser() *ProgressParser {
	return &ProgressParser{}
}

// ParseLine parses one line and updates internal state. Returns true
// when a complete progress update is ready.
func (p *ProgressParser) ParseLine(line string) bool {
	line = strings.TrimSpace(line)
	idx := strings.Index(line, "=")
	if idx <= 0 {
		return false
	}
	key, value := line[:idx], line[idx+1:]

	switch key {
	case "frame":
		p.current.Frame, _ = strconv.ParseInt(value, 10, 64)
	case "fps":
		p.current.FPS, _ = strconv.ParseFloat(value, 64)
	case "total_size":
		p.current.TotalSize, _ = strconv.ParseInt(value, 10, 64)
	case "out_time_us":
		p.current.OutTimeUS, _ = strconv.ParseInt(value, 10, 64)
	case "speed":
		p.current.Speed = value
	case "progress":
		p.current.Progress = value
		return true
	}
	return false
}

// Current returns the current progress state.
func (p *ProgressParser) Current() Progress {
	return p.current
}

// ParseProgressOutput reads -progress output and sends completed
// updates to the channel until the stream ends.
func ParseProgressOutput(scanner *bufio.Scanner, progress chan<- Progress) {
	parser := NewProgressParser()
	for scanner.Scan() {
		if parser.ParseLine(scanner.Text()) {
			progress <- parser.Current()
			if parser.Current().Progress == "end" {
				break
			}
		}
	}
}
