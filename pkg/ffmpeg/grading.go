package ffmpeg

import (
	"fmt"
	"math"
	"strings"

	"tonecraft.systems/grade/pkg/grade"
)

// Sampling densities for the piecewise-curve approximations. More points
// track the continuous math more closely but lengthen the filter string;
// these are fixed contract values, not tunables.
const (
	lggCurvePoints      = 8  // intervals for lift/gamma/gain curves
	contrastCurvePoints = 12 // intervals for the contrast curve
)

// Per-range weights used when folding a continuous channel shift into
// ffmpeg's three-range colorbalance primitive.
const (
	shadowRangeWeight    = 1.0
	midtoneRangeWeight   = 0.5
	highlightRangeWeight = 0.3
)

// GradeFilterChain transcribes the grading parameters into an ffmpeg
// -vf filter chain. Stages appear in the same fixed order as the
// reference transform; stages at identity are omitted. Where ffmpeg has
// no native operator the stage is approximated: lift/gamma/gain and
// contrast become piecewise curves sampling the exact reference formula,
// temperature/tint and the range balances become colorbalance shifts.
// Returns the explicit "null" passthrough filter when every stage is
// neutral, since an empty -vf argument is not accepted.
func GradeFilterChain(p grade.Parameters) string {
	p = p.Clamp()

	var stages []string
	if p.Exposure != 0 {
		stages = append(stages, exposureFilter(p.Exposure))
	}
	if p.LiftGammaGainActive() {
		stages = append(stages, liftGammaGainFilter(p))
	}
	if p.TemperatureTintActive() {
		stages = append(stages, temperatureTintFilter(p))
	}
	if p.Contrast != 0 {
		stages = append(stages, contrastFilter(p))
	}
	if p.SaturationActive() {
		stages = append(stages, fmt.Sprintf("eq=saturation=%.4f", p.Saturation/100))
	}
	if p.BalanceActive() {
		stages = append(stages, rangeBalanceFilter(p))
	}

	if len(stages) == 0 {
		return "null"
	}
	return strings.Join(stages, ",")
}

// exposureFilter represents 2^ev as either a linear curve or an explicit
// multiply-and-clip. curves cannot express slopes above 1 without
// clipping artifacts at its internal sample count, so gains brighter
// than unity go through lutrgb instead.
func exposureFilter(ev float64) string {
	m := math.Exp2(ev)
	if m <= 1 {
		return fmt.Sprintf("curves=all='0/0 1/%.6f'", m)
	}
	clip := fmt.Sprintf("'clip(val*%.6f,0,255)'", m)
	return fmt.Sprintf("lutrgb=r=%s:g=%s:b=%s", clip, clip, clip)
}

// liftGammaGainFilter approximates the three-way corrector with one
// piecewise curve per channel, each point evaluated through the exact
// reference formula.
func liftGammaGainFilter(p grade.Parameters) string {
	lift, gamma, gain := p.LGGCoefficients()
	channel := func(i int) string {
		var pts []string
		for s := 0; s <= lggCurvePoints; s++ {
			x := float64(s) / lggCurvePoints
			y := grade.ApplyLiftGammaGain(x, lift[i], gamma[i], gain[i])
			pts = append(pts, fmt.Sprintf("%.6f/%.6f", x, y))
		}
		return strings.Join(pts, " ")
	}
	return fmt.Sprintf("curves=r='%s':g='%s':b='%s'", channel(0), channel(1), channel(2))
}

// contrastFilter samples the exact pivot contrast formula onto a curve.
func contrastFilter(p grade.Parameters) string {
	k := 1 + (p.Contrast/100)*1.5
	var pts []string
	for s := 0; s <= contrastCurvePoints; s++ {
		x := float64(s) / contrastCurvePoints
		y := clampUnit((x-p.ContrastPivot)*k + p.ContrastPivot)
		pts = append(pts, fmt.Sprintf("%.6f/%.6f", x, y))
	}
	return fmt.Sprintf("curves=all='%s'", strings.Join(pts, " "))
}

// temperatureTintFilter folds the continuous temperature/tint channel
// shifts into colorbalance's three discrete ranges, weighting shadows
// hardest and highlights lightest.
func temperatureTintFilter(p grade.Parameters) string {
	temp := p.Temperature / 100
	tint := p.Tint / 100
	rShift := temp * 0.1
	gShift := tint*0.1 - temp*0.02
	bShift := -temp * 0.1
	return colorBalance(
		rShift*shadowRangeWeight, gShift*shadowRangeWeight, bShift*shadowRangeWeight,
		rShift*midtoneRangeWeight, gShift*midtoneRangeWeight, bShift*midtoneRangeWeight,
		rShift*highlightRangeWeight, gShift*highlightRangeWeight, bShift*highlightRangeWeight,
	)
}

// rangeBalanceFilter maps the shadow/midtone/highlight balances onto
// colorbalance directly; both sides are three-range controls.
func rangeBalanceFilter(p grade.Parameters) string {
	return colorBalance(
		p.Shadows.R/100, p.Shadows.G/100, p.Shadows.B/100,
		p.Midtones.R/100, p.Midtones.G/100, p.Midtones.B/100,
		p.Highlights.R/100, p.Highlights.G/100, p.Highlights.B/100,
	)
}

// colorBalance emits a colorbalance filter, skipping zero-valued keys.
// Values are clamped to the filter's [-1,1] domain.
func colorBalance(rs, gs, bs, rm, gm, bm, rh, gh, bh float64) string {
	keys := []struct {
		name string
		val  float64
	}{
		{"rs", rs}, {"gs", gs}, {"bs", bs},
		{"rm", rm}, {"gm", gm}, {"bm", bm},
		{"rh", rh}, {"gh", gh}, {"bh", bh},
	}
	var parts []string
	for _, k := range keys {
		if k.val == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.4f", k.name, clampSigned(k.val)))
	}
	if len(parts) == 0 {
		return "null"
	}
	return "colorbalance=" + strings.Join(parts, ":")
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
