package ffmpeg

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressParserAccumulates(t *testing.T) {
	p := NewProgressParser()

	assert.False(t, p.ParseLine("frame=120"))
	assert.False(t, p.ParseLine("fps=29.97"))
	assert.False(t, p.ParseLine("total_size=1048576"))
	assert.False(t, p.ParseLine("out_time_us=4000000"))
	assert.False(t, p.ParseLine("speed=2.5x"))
	assert.True(t, p.ParseLine("progress=continue"))

	cur := p.Current()
	assert.Equal(t, int64(120), cur.Frame)
	assert.InDelta(t, 29.97, cur.FPS, 1e-9)
	assert.Equal(t, int64(1048576), cur.TotalSize)
	assert.Equal(t, "2.5x", cur.Speed)
	assert.Equal(t, "continue", cur.Progress)
	assert.InDelta(t, 4.0, cur.OutTimeSeconds(), 1e-9)
}

func TestProgressParserIgnoresGarbage(t *testing.T) {
	p := NewProgressParser()

	assert.False(t, p.ParseLine(""))
	assert.False(t, p.ParseLine("no equals sign"))
	assert.False(t, p.ParseLine("=value without key"))
	assert.False(t, p.ParseLine("unknown_key=5"))
}

func TestParseProgressOutputStopsAtEnd(t *testing.T) {
	input := strings.Join([]string{
		"frame=10",
		"out_time_us=1000000",
		"progress=continue",
		"frame=20",
		"out_time_us=2000000",
		"progress=end",
		"frame=999", // after end, must not be reported
		"progress=continue",
	}, "\n")

	ch := make(chan Progress, 8)
	ParseProgressOutput(bufio.NewScanner(strings.NewReader(input)), ch)
	close(ch)

	var updates []Progress
	for u := range ch {
		updates = append(updates, u)
	}
	require.Len(t, updates, 2)
	assert.Equal(t, int64(10), updates[0].Frame)
	assert.Equal(t, "end", updates[1].Progress)
	assert.Equal(t, int64(20), updates[1].Frame)
}
