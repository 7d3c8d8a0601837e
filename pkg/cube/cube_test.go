package cube

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tonecraft.systems/grade/pkg/grade"
)

func TestGenerateHeader(t *testing.T) {
	text := Generate(grade.Identity(), 17)

	assert.Contains(t, text, "TITLE \"tonecraft grade export\"\n")
	assert.Contains(t, text, "LUT_3D_SIZE 17\n")
	assert.Contains(t, text, "DOMAIN_MIN 0 0 0\n")
	assert.Contains(t, text, "DOMAIN_MAX 1 1 1\n")

	// First body line is black, last is white, for identity.
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, "0.000000 0.000000 0.000000", lines[4])
	assert.Equal(t, "1.000000 1.000000 1.000000", lines[len(lines)-1])
	assert.Len(t, lines, 4+17*17*17)
}

func TestGenerateOrderingBlueFastest(t *testing.T) {
	text := Generate(grade.Identity(), 3)
	lines := strings.Split(strings.TrimSpace(text), "\n")[4:]
	require.Len(t, lines, 27)

	// Second line advances only blue: input (0, 0, 0.5).
	assert.Equal(t, "0.000000 0.000000 0.500000", lines[1])
	// Fourth line wraps blue and advances green: input (0, 0.5, 0).
	assert.Equal(t, "0.000000 0.500000 0.000000", lines[3])
	// Tenth line advances red: input (0.5, 0, 0).
	assert.Equal(t, "0.500000 0.000000 0.000000", lines[9])
}

func TestRoundTripMatchesEngine(t *testing.T) {
	p := grade.Identity()
	p.Exposure = 0.8
	p.Contrast = 25
	p.Saturation = 130
	p.Temperature = -20
	p.Lift = grade.Wheel{Master: 0.05}

	const size = 17
	parsed, err := Parse(Generate(p, size))
	require.NoError(t, err)
	assert.Equal(t, size, parsed.Size)
	require.Len(t, parsed.Data, size*size*size*3)

	n := float64(size - 1)
	i := 0
	for ri := 0; ri < size; ri++ {
		for gi := 0; gi < size; gi++ {
			for bi := 0; bi < size; bi++ {
				r, g, b := grade.TransformPixel(float64(ri)/n, float64(gi)/n, float64(bi)/n, p)
				assert.InDelta(t, r, parsed.Data[i], 1e-5)
				assert.InDelta(t, g, parsed.Data[i+1], 1e-5)
				assert.InDelta(t, b, parsed.Data[i+2], 1e-5)
				i += 3
			}
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"missing size", "TITLE \"x\"\n0.5 0.5 0.5\n"},
		{"zero size", "LUT_3D_SIZE 0\n"},
		{"negative size", "LUT_3D_SIZE -3\n"},
		{"non-numeric size", "LUT_3D_SIZE abc\n"},
		{"non-numeric sample", "LUT_3D_SIZE 2\n0.0 zero 0.0\n"},
		{"wrong arity", "LUT_3D_SIZE 2\n0.0 0.0\n"},
		{"1d lut", "LUT_1D_SIZE 4\n0\n0.33\n0.66\n1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Parse(tt.text)
			assert.Nil(t, l)
			assert.ErrorIs(t, err, ErrInvalidLUT)
		})
	}
}

func TestParseRejectsTruncatedGrid(t *testing.T) {
	var b strings.Builder
	b.WriteString("LUT_3D_SIZE 17\n")
	// Claim 17 but provide only 100 triples.
	for i := 0; i < 100; i++ {
		b.WriteString("0.5 0.5 0.5\n")
	}

	l, err := Parse(b.String())
	assert.Nil(t, l, "a truncated grid must not be partially loaded")
	assert.ErrorIs(t, err, ErrInvalidLUT)
}

func TestParseSkipsCommentsAndDomain(t *testing.T) {
	var b strings.Builder
	b.WriteString("# created by some other grading tool\n")
	b.WriteString("TITLE \"external look\"\n")
	b.WriteString("LUT_3D_SIZE 2\n")
	b.WriteString("DOMAIN_MIN 0 0 0\n")
	b.WriteString("DOMAIN_MAX 1 1 1\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "%.6f %.6f %.6f\n", float64(i)/8, 0.25, 0.75)
	}

	l, err := Parse(b.String())
	require.NoError(t, err)
	assert.Equal(t, "external look", l.Title)
	assert.Equal(t, 2, l.Size)
	assert.Len(t, l.Data, 24)
}

func TestLookupAtGridPointsIsExact(t *testing.T) {
	p := grade.Identity()
	p.Contrast = 40
	p.Saturation = 60

	l := Build(p, 9)
	n := 8.0
	for ri := 0; ri <= 8; ri += 2 {
		for gi := 0; gi <= 8; gi += 2 {
			for bi := 0; bi <= 8; bi += 2 {
				wr, wg, wb := grade.TransformPixel(float64(ri)/n, float64(gi)/n, float64(bi)/n, p)
				gr, gg, gb := l.Lookup(float64(ri)/n, float64(gi)/n, float64(bi)/n)
				assert.InDelta(t, wr, gr, 1e-9)
				assert.InDelta(t, wg, gg, 1e-9)
				assert.InDelta(t, wb, gb, 1e-9)
			}
		}
	}
}

func TestLookupInterpolatesBetweenPoints(t *testing.T) {
	// Identity LUT: interpolation must reproduce the input everywhere.
	l := Build(grade.Identity(), 5)
	for _, v := range []float64{0.1, 0.33, 0.5, 0.77, 0.9} {
		r, g, b := l.Lookup(v, v/2, 1-v)
		assert.InDelta(t, v, r, 1e-9)
		assert.InDelta(t, v/2, g, 1e-9)
		assert.InDelta(t, 1-v, b, 1e-9)
	}

	// Out-of-range inputs clamp to the grid edges.
	r, g, b := l.Lookup(-1, 2, 0.5)
	assert.Equal(t, 0.0, r)
	assert.Equal(t, 1.0, g)
	assert.InDelta(t, 0.5, b, 1e-9)
}

func TestApplyRGB24Identity(t *testing.T) {
	l := Build(grade.Identity(), 33)
	frame := []byte{0, 0, 0, 128, 64, 200, 255, 255, 255, 17, 99, 240}
	want := append([]byte(nil), frame...)

	l.ApplyRGB24(frame)
	assert.Equal(t, want, frame)
}

func TestApplyRGB24Grades(t *testing.T) {
	p := grade.Identity()
	p.Saturation = 0
	l := Build(p, 33)

	frame := []byte{255, 0, 0} // pure red -> Rec. 709 luma 0.2126
	l.ApplyRGB24(frame)

	lumaF := 0.2126*255 + 0.5
	luma := byte(lumaF)
	assert.InDelta(t, float64(luma), float64(frame[0]), 1.0)
	assert.Equal(t, frame[0], frame[1])
	assert.Equal(t, frame[1], frame[2])
}
