package exporter

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonecraft.systems/grade/pkg/cube"
	"tonecraft.systems/grade/pkg/grade"
)

const testFrameSize = 4 * 2 * 3 // 4x2 RGB24

func makeFrames(n int) []byte {
	buf := make([]byte, n*testFrameSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	return buf
}

func TestGradeStreamIdentityPreservesBytesAndOrder(t *testing.T) {
	input := makeFrames(10)
	lut := cube.Build(grade.Identity(), 33)

	var out bytes.Buffer
	count, err := gradeStream(context.Background(), lut, bytes.NewReader(input), &out, testFrameSize, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), count)
	assert.Equal(t, input, out.Bytes())
}

func TestGradeStreamAppliesLUT(t *testing.T) {
	p := grade.Identity()
	p.Saturation = 0
	lut := cube.Build(p, 33)

	input := make([]byte, testFrameSize)
	for i := 0; i+2 < len(input); i += 3 {
		input[i], input[i+1], input[i+2] = 255, 0, 0
	}

	var out bytes.Buffer
	_, err := gradeStream(context.Background(), lut, bytes.NewReader(input), &out, testFrameSize, 1, nil)
	require.NoError(t, err)

	// Desaturated pure red collapses to equal gray channels.
	got := out.Bytes()
	for i := 0; i+2 < len(got); i += 3 {
		assert.Equal(t, got[i], got[i+1])
		assert.Equal(t, got[i+1], got[i+2])
	}
}

func TestGradeStreamRejectsTruncatedFrame(t *testing.T) {
	input := makeFrames(3)[:testFrameSize*2+5]
	lut := cube.Build(grade.Identity(), 17)

	var out bytes.Buffer
	count, err := gradeStream(context.Background(), lut, bytes.NewReader(input), &out, testFrameSize, 4, nil)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
	assert.Equal(t, int64(2), count, "complete frames before the tear are still delivered")
}

func TestGradeStreamHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lut := cube.Build(grade.Identity(), 17)
	var out bytes.Buffer
	_, err := gradeStream(ctx, lut, bytes.NewReader(makeFrames(100)), &out, testFrameSize, 2, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGradeStreamReportsFrameCount(t *testing.T) {
	lut := cube.Build(grade.Identity(), 17)

	var seen []int64
	var out bytes.Buffer
	count, err := gradeStream(context.Background(), lut, bytes.NewReader(makeFrames(5)), &out, testFrameSize, 2, func(n int64) {
		seen = append(seen, n)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seen)
}

func TestGradeStreamEmptyInput(t *testing.T) {
	lut := cube.Build(grade.Identity(), 17)
	var out bytes.Buffer
	count, err := gradeStream(context.Background(), lut, bytes.NewReader(nil), &out, testFrameSize, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.Zero(t, out.Len())
}
