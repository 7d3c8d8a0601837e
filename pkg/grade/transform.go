package grade

import "math"

// Rec. 709 luma coefficients.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luma709 returns the Rec. 709 luma of a linear RGB triple.
func Luma709(r, g, b float64) float64 {
	return lumaR*r + lumaG*g + lumaB*b
}

// Smoothstep is the cubic Hermite transition t*t*(3-2t) of x clamped and
// normalized between edge0 and edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// RangeWeights returns the shadow, midtone and highlight isolation
// weights for a given luma. Shadows roll off over [0, 0.4], highlights
// roll on over [0.6, 1.0], midtones occupy the remainder.
func RangeWeights(luma float64) (shadow, midtone, highlight float64) {
	low := Smoothstep(0.0, 0.4, luma)
	high := Smoothstep(0.6, 1.0, luma)
	return 1 - low, low * (1 - high), high
}

// LGGCoefficients resolves the lift/gamma/gain wheels into per-channel
// coefficients with the master offsets folded in. Index order is R, G, B.
func (p Parameters) LGGCoefficients() (lift, gamma, gain [3]float64) {
	lift = [3]float64{p.Lift.R + p.Lift.Master, p.Lift.G + p.Lift.Master, p.Lift.B + p.Lift.Master}
	gamma = [3]float64{1 + p.Gamma.R + p.Gamma.Master, 1 + p.Gamma.G + p.Gamma.Master, 1 + p.Gamma.B + p.Gamma.Master}
	gain = [3]float64{1 + p.Gain.R + p.Gain.Master, 1 + p.Gain.G + p.Gain.Master, 1 + p.Gain.B + p.Gain.Master}
	return lift, gamma, gain
}

// ApplyLiftGammaGain evaluates the three-way corrector for one channel:
// lift offsets shadows (scaled by 1-v), gain multiplies, gamma is a
// power curve. Output is clamped to [0,1].
func ApplyLiftGammaGain(v, lift, gamma, gain float64) float64 {
	out := clamp01(gain * (v + lift*(1-v)))
	if gamma != 1 && out > 0 {
		out = math.Pow(out, 1/gamma)
	}
	return clamp01(out)
}

// TransformPixel applies the six grading stages to one pixel. Channels
// are in [0,1] on input and output. The stage order is fixed; reordering
// changes results and breaks parity between the preview, export and LUT
// renditions. Stages at their neutral values are skipped entirely, the
// same way the transcoders omit them, so all four renditions agree even
// on intermediates outside [0,1].
func TransformPixel(r, g, b float64, p Parameters) (float64, float64, float64) {
	// 1. Exposure. No clamp yet; later stages may use the extended range.
	if p.Exposure != 0 {
		m := math.Exp2(p.Exposure)
		r *= m
		g *= m
		b *= m
	}

	// 2. Lift/gamma/gain.
	if p.LiftGammaGainActive() {
		lift, gamma, gain := p.LGGCoefficients()
		r = ApplyLiftGammaGain(r, lift[0], gamma[0], gain[0])
		g = ApplyLiftGammaGain(g, lift[1], gamma[1], gain[1])
		b = ApplyLiftGammaGain(b, lift[2], gamma[2], gain[2])
	}

	// 3. Temperature/tint channel shifts.
	if p.TemperatureTintActive() {
		temp := p.Temperature / 100
		tint := p.Tint / 100
		r += temp * 0.1
		g += tint*0.1 - temp*0.02
		b -= temp * 0.1
	}

	// 4. Contrast around the pivot.
	if p.Contrast != 0 {
		k := 1 + (p.Contrast/100)*1.5
		r = clamp01((r-p.ContrastPivot)*k + p.ContrastPivot)
		g = clamp01((g-p.ContrastPivot)*k + p.ContrastPivot)
		b = clamp01((b-p.ContrastPivot)*k + p.ContrastPivot)
	}

	// 5. Luminance-weighted saturation.
	if p.SaturationActive() {
		luma := Luma709(r, g, b)
		s := p.Saturation / 100
		r = luma + s*(r-luma)
		g = luma + s*(g-luma)
		b = luma + s*(b-luma)
	}

	// 6. Shadow/midtone/highlight balance. Luma is recomputed on the
	// post-saturation color.
	if p.BalanceActive() {
		luma := Luma709(r, g, b)
		sw, mw, hw := RangeWeights(luma)
		r += p.Shadows.R/100*sw + p.Midtones.R/100*mw + p.Highlights.R/100*hw
		g += p.Shadows.G/100*sw + p.Midtones.G/100*mw + p.Highlights.G/100*hw
		b += p.Shadows.B/100*sw + p.Midtones.B/100*mw + p.Highlights.B/100*hw
	}

	return clamp01(r), clamp01(g), clamp01(b)
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
