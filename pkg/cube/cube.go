// Package cube samples the grading transform onto fixed-grid 3D lookup
// tables and serializes them in the .cube text format, including parsing
// such files back into grid data.
package cube

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tonecraft.systems/grade/pkg/grade"
)

// DefaultSize is the grid resolution used for exported LUTs. 17/33/65
// are the conventional sizes; 33 balances fidelity against file size.
const DefaultSize = 33

// ErrInvalidLUT is returned by Parse when the input is not a usable
// .cube file: missing or zero size, wrong sample count, or non-numeric
// data. A grid is never partially loaded.
var ErrInvalidLUT = errors.New("cube: invalid LUT")

// LUT is an N×N×N grid of RGB triples in [0,1]. Data is row-major with
// blue varying fastest, green next, red slowest; length is Size³×3.
type LUT struct {
	Title string
	Size  int
	Data  []float64
}

// Build samples the grading transform at every grid point.
func Build(p grade.Parameters, size int) *LUT {
	if size < 2 {
		size = DefaultSize
	}
	l := &LUT{
		Title: "tonecraft grade export",
		Size:  size,
		Data:  make([]float64, 0, size*size*size*3),
	}
	n := float64(size - 1)
	for ri := 0; ri < size; ri++ {
		for gi := 0; gi < size; gi++ {
			for bi := 0; bi < size; bi++ {
				r, g, b := grade.TransformPixel(float64(ri)/n, float64(gi)/n, float64(bi)/n, p)
				l.Data = append(l.Data, r, g, b)
			}
		}
	}
	return l
}

// Generate samples the transform and serializes it in one step.
func Generate(p grade.Parameters, size int) string {
	return Build(p, size).Encode()
}

// Encode serializes the LUT as .cube text: header, then Size³ lines of
// three fixed-precision floats.
func (l *LUT) Encode() string {
	var b strings.Builder
	b.Grow(l.Size * l.Size * l.Size * 27)
	fmt.Fprintf(&b, "TITLE %q\n", l.Title)
	fmt.Fprintf(&b, "LUT_3D_SIZE %d\n", l.Size)
	b.WriteString("DOMAIN_MIN 0 0 0\n")
	b.WriteString("DOMAIN_MAX 1 1 1\n")
	for i := 0; i+2 < len(l.Data); i += 3 {
		fmt.Fprintf(&b, "%.6f %.6f %.6f\n", l.Data[i], l.Data[i+1], l.Data[i+2])
	}
	return b.String()
}

// Parse reads .cube text into a LUT. Comments, TITLE and DOMAIN lines
// are skipped; the declared LUT_3D_SIZE must be present and the triple
// count must match it exactly, otherwise ErrInvalidLUT is returned.
func Parse(text string) (*LUT, error) {
	l := &LUT{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "TITLE":
			if start := strings.Index(line, `"`); start != -1 {
				if end := strings.LastIndex(line, `"`); end > start {
					l.Title = line[start+1 : end]
				}
			}
		case "LUT_3D_SIZE":
			if len(fields) != 2 {
				return nil, fmt.Errorf("%w: malformed size line %q", ErrInvalidLUT, line)
			}
			size, err := strconv.Atoi(fields[1])
			if err != nil || size <= 0 {
				return nil, fmt.Errorf("%w: bad size %q", ErrInvalidLUT, fields[1])
			}
			l.Size = size
		case "DOMAIN_MIN", "DOMAIN_MAX", "LUT_1D_SIZE":
			// Domain declarations are fixed at [0,1] in this system; a 1D
			// size line marks a format this codec does not load.
			if fields[0] == "LUT_1D_SIZE" {
				return nil, fmt.Errorf("%w: 1D LUTs are not supported", ErrInvalidLUT)
			}
		default:
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: unrecognized line %q", ErrInvalidLUT, line)
			}
			for _, f := range fields {
				v, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: non-numeric sample %q", ErrInvalidLUT, f)
				}
				l.Data = append(l.Data, v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLUT, err)
	}

	if l.Size <= 0 {
		return nil, fmt.Errorf("%w: missing LUT_3D_SIZE", ErrInvalidLUT)
	}
	if want := l.Size * l.Size * l.Size * 3; len(l.Data) != want {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidLUT, len(l.Data), want)
	}
	return l, nil
}

// at returns the grid sample at integer coordinates.
func (l *LUT) at(ri, gi, bi int) (float64, float64, float64) {
	idx := ((ri*l.Size+gi)*l.Size + bi) * 3
	return l.Data[idx], l.Data[idx+1], l.Data[idx+2]
}

// Lookup evaluates the LUT at an arbitrary color via trilinear
// interpolation between the eight surrounding grid points.
func (l *LUT) Lookup(r, g, b float64) (float64, float64, float64) {
	n := float64(l.Size - 1)
	rIdx := clamp01(r) * n
	gIdx := clamp01(g) * n
	bIdx := clamp01(b) * n

	r0, g0, b0 := int(rIdx), int(gIdx), int(bIdx)
	r1, g1, b1 := minInt(r0+1, l.Size-1), minInt(g0+1, l.Size-1), minInt(b0+1, l.Size-1)
	rf, gf, bf := rIdx-float64(r0), gIdx-float64(g0), bIdx-float64(b0)

	// Interpolate along red, then green, then blue.
	c000r, c000g, c000b := l.at(r0, g0, b0)
	c100r, c100g, c100b := l.at(r1, g0, b0)
	c010r, c010g, c010b := l.at(r0, g1, b0)
	c110r, c110g, c110b := l.at(r1, g1, b0)
	c001r, c001g, c001b := l.at(r0, g0, b1)
	c101r, c101g, c101b := l.at(r1, g0, b1)
	c011r, c011g, c011b := l.at(r0, g1, b1)
	c111r, c111g, c111b := l.at(r1, g1, b1)

	c00r, c00g, c00b := lerp3(c000r, c000g, c000b, c100r, c100g, c100b, rf)
	c10r, c10g, c10b := lerp3(c010r, c010g, c010b, c110r, c110g, c110b, rf)
	c01r, c01g, c01b := lerp3(c001r, c001g, c001b, c101r, c101g, c101b, rf)
	c11r, c11g, c11b := lerp3(c011r, c011g, c011b, c111r, c111g, c111b, rf)

	c0r, c0g, c0b := lerp3(c00r, c00g, c00b, c10r, c10g, c10b, gf)
	c1r, c1g, c1b := lerp3(c01r, c01g, c01b, c11r, c11g, c11b, gf)

	return lerp3(c0r, c0g, c0b, c1r, c1g, c1b, bf)
}

// ApplyRGB24 grades a packed RGB24 frame in place.
func (l *LUT) ApplyRGB24(frame []byte) {
	for i := 0; i+2 < len(frame); i += 3 {
		r, g, b := l.Lookup(
			float64(frame[i])/255,
			float64(frame[i+1])/255,
			float64(frame[i+2])/255,
		)
		frame[i] = byte(r*255 + 0.5)
		frame[i+1] = byte(g*255 + 0.5)
		frame[i+2] = byte(b*255 + 0.5)
	}
}

func lerp3(ar, ag, ab, br, bg, bb, t float64) (float64, float64, float64) {
	return ar + t*(br-ar), ag + t*(bg-ag), ab + t*(bb-ab)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
