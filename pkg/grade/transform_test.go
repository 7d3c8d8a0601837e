package grade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTransform(t *testing.T) {
	id := Identity()
	require.True(t, id.IsIdentity())

	step := 0.125
	for r := 0.0; r <= 1.0; r += step {
		for g := 0.0; g <= 1.0; g += step {
			for b := 0.0; b <= 1.0; b += step {
				or, og, ob := TransformPixel(r, g, b, id)
				assert.InDelta(t, r, or, 1e-6)
				assert.InDelta(t, g, og, 1e-6)
				assert.InDelta(t, b, ob, 1e-6)
			}
		}
	}
}

func TestExposureDoublesPerStop(t *testing.T) {
	p := Identity()
	p.Exposure = 1

	r, g, b := TransformPixel(0.25, 0.1, 0.4, p)
	assert.InDelta(t, 0.5, r, 1e-9)
	assert.InDelta(t, 0.2, g, 1e-9)
	assert.InDelta(t, 0.8, b, 1e-9)
}

func TestMonotonicExposure(t *testing.T) {
	prev := -1.0
	clamped := false
	for ev := -3.0; ev <= 3.0; ev += 0.25 {
		p := Identity()
		p.Exposure = ev

		r, g, b := TransformPixel(0.3, 0.5, 0.2, p)
		luma := Luma709(r, g, b)

		if clamped {
			assert.GreaterOrEqual(t, luma, prev)
		} else if prev >= 0 {
			assert.Greater(t, luma, prev, "luma must strictly increase before clamping at ev=%v", ev)
		}
		if r == 1 && g == 1 && b == 1 {
			clamped = true
		}
		prev = luma
	}
}

func TestSaturationZeroYieldsLuma(t *testing.T) {
	p := Identity()
	p.Saturation = 0

	inputs := [][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.8, 0.2, 0.5},
		{0.1, 0.9, 0.3},
	}
	for _, in := range inputs {
		want := Luma709(in[0], in[1], in[2])
		r, g, b := TransformPixel(in[0], in[1], in[2], p)
		assert.InDelta(t, want, r, 1e-9)
		assert.InDelta(t, want, g, 1e-9)
		assert.InDelta(t, want, b, 1e-9)
	}
}

func TestContrastPivotIsFixedPoint(t *testing.T) {
	p := Identity()
	p.Contrast = 60

	r, g, b := TransformPixel(0.18, 0.18, 0.18, p)
	assert.InDelta(t, 0.18, r, 1e-9)
	assert.InDelta(t, 0.18, g, 1e-9)
	assert.InDelta(t, 0.18, b, 1e-9)

	// Above the pivot values move up, below they move down.
	hi, _, _ := TransformPixel(0.5, 0.5, 0.5, p)
	lo, _, _ := TransformPixel(0.05, 0.05, 0.05, p)
	assert.Greater(t, hi, 0.5)
	assert.Less(t, lo, 0.05)
}

func TestApplyLiftGammaGain(t *testing.T) {
	tests := []struct {
		name                string
		v, lift, gamma, gain float64
		want                float64
	}{
		{"neutral", 0.5, 0, 1, 1, 0.5},
		{"lift raises black", 0, 0.1, 1, 1, 0.1},
		{"lift leaves white", 1, 0.1, 1, 1, 1},
		{"gain scales", 0.5, 0, 1, 1.2, 0.6},
		{"gain clamps", 0.9, 0, 1, 2, 1},
		{"gamma power", 0.25, 0, 2, 1, 0.5},
		{"gamma skips zero", 0, 0, 2, 1, 0},
		{"negative lift crushes", 0.1, -0.2, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyLiftGammaGain(tt.v, tt.lift, tt.gamma, tt.gain)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestLGGCoefficientsFoldMaster(t *testing.T) {
	p := Identity()
	p.Lift = Wheel{R: 0.1, Master: 0.05}
	p.Gamma = Wheel{B: -0.2, Master: 0.1}
	p.Gain = Wheel{G: 0.3}

	lift, gamma, gain := p.LGGCoefficients()
	assert.InDelta(t, 0.15, lift[0], 1e-9)
	assert.InDelta(t, 0.05, lift[1], 1e-9)
	assert.InDelta(t, 1.1, gamma[0], 1e-9)
	assert.InDelta(t, 0.9, gamma[2], 1e-9)
	assert.InDelta(t, 1.3, gain[1], 1e-9)
	assert.InDelta(t, 1.0, gain[2], 1e-9)
}

func TestTemperatureShiftsChannels(t *testing.T) {
	p := Identity()
	p.Temperature = 50

	r, g, b := TransformPixel(0.5, 0.5, 0.5, p)
	assert.InDelta(t, 0.55, r, 1e-9)
	assert.InDelta(t, 0.49, g, 1e-9)
	assert.InDelta(t, 0.45, b, 1e-9)
}

func TestTintShiftsGreen(t *testing.T) {
	p := Identity()
	p.Tint = 40

	r, g, b := TransformPixel(0.5, 0.5, 0.5, p)
	assert.InDelta(t, 0.5, r, 1e-9)
	assert.InDelta(t, 0.54, g, 1e-9)
	assert.InDelta(t, 0.5, b, 1e-9)
}

func TestRangeWeights(t *testing.T) {
	for l := 0.0; l <= 1.0; l += 0.01 {
		sw, mw, hw := RangeWeights(l)

		assert.GreaterOrEqual(t, sw, 0.0)
		assert.LessOrEqual(t, sw, 1.0)
		assert.GreaterOrEqual(t, mw, 0.0)
		assert.LessOrEqual(t, mw, 1.0)
		assert.GreaterOrEqual(t, hw, 0.0)
		assert.LessOrEqual(t, hw, 1.0)

		sum := sw + mw + hw
		assert.LessOrEqual(t, sum, 1.0+1e-9, "weights must not over-contribute at luma %v", l)
		assert.GreaterOrEqual(t, sum, 0.0)
	}

	// Pure shadows and pure highlights.
	sw, mw, hw := RangeWeights(0)
	assert.InDelta(t, 1.0, sw, 1e-9)
	assert.InDelta(t, 0.0, mw, 1e-9)
	assert.InDelta(t, 0.0, hw, 1e-9)

	sw, mw, hw = RangeWeights(1)
	assert.InDelta(t, 0.0, sw, 1e-9)
	assert.InDelta(t, 0.0, mw, 1e-9)
	assert.InDelta(t, 1.0, hw, 1e-9)
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0, 1, -0.5))
	assert.Equal(t, 0.0, Smoothstep(0, 1, 0))
	assert.Equal(t, 0.5, Smoothstep(0, 1, 0.5))
	assert.Equal(t, 1.0, Smoothstep(0, 1, 1))
	assert.Equal(t, 1.0, Smoothstep(0, 1, 2))
}

func TestBalanceShiftsRanges(t *testing.T) {
	p := Identity()
	p.Shadows = Balance{R: 20}

	// A dark pixel picks up most of the shadow shift.
	r, _, _ := TransformPixel(0.05, 0.05, 0.05, p)
	sw, _, _ := RangeWeights(0.05)
	assert.InDelta(t, 0.05+0.2*sw, r, 1e-9)

	// A bright pixel is nearly untouched by a shadow shift.
	r, _, _ = TransformPixel(0.9, 0.9, 0.9, p)
	assert.InDelta(t, 0.9, r, 1e-3)
}

func TestTransformOutputAlwaysInRange(t *testing.T) {
	extreme := Parameters{
		Exposure:      4,
		Contrast:      100,
		ContrastPivot: 0.18,
		Saturation:    200,
		Temperature:   100,
		Tint:          -100,
		Lift:          Wheel{R: 1, G: -1, B: 1, Master: 1},
		Gamma:         Wheel{R: 1, G: 1, B: -0.9, Master: -0.05},
		Gain:          Wheel{R: 1, G: 1, B: 1, Master: 1},
		Shadows:       Balance{R: 100, G: -100, B: 100},
		Midtones:      Balance{R: -100, G: 100, B: -100},
		Highlights:    Balance{R: 100, G: 100, B: -100},
	}

	for r := 0.0; r <= 1.0; r += 0.2 {
		for g := 0.0; g <= 1.0; g += 0.2 {
			for b := 0.0; b <= 1.0; b += 0.2 {
				or, og, ob := TransformPixel(r, g, b, extreme)
				for _, v := range []float64{or, og, ob} {
					assert.False(t, math.IsNaN(v))
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
				}
			}
		}
	}
}
