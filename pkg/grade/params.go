// Package grade defines the grading parameter model and the reference
// per-pixel color transform every other representation (shader source,
// ffmpeg filter chains, 3D LUTs) is transcribed from.
package grade

// Wheel is a three-way corrector control with per-channel trims and a
// master offset applied to all channels, ASC CDL style.
type Wheel struct {
	R      float64 `json:"r" validate:"gte=-1,lte=1"`
	G      float64 `json:"g" validate:"gte=-1,lte=1"`
	B      float64 `json:"b" validate:"gte=-1,lte=1"`
	Master float64 `json:"master" validate:"gte=-1,lte=1"`
}

// Active reports whether any component deviates from neutral.
func (w Wheel) Active() bool {
	return w.R != 0 || w.G != 0 || w.B != 0 || w.Master != 0
}

// Balance is a per-channel color shift for one luminance range,
// expressed in percent.
type Balance struct {
	R float64 `json:"r" validate:"gte=-100,lte=100"`
	G float64 `json:"g" validate:"gte=-100,lte=100"`
	B float64 `json:"b" validate:"gte=-100,lte=100"`
}

// Active reports whether any channel deviates from neutral.
func (b Balance) Active() bool {
	return b.R != 0 || b.G != 0 || b.B != 0
}

// Parameters is the full set of numeric controls describing one color
// transform. Treat values as immutable once built; derive edited copies
// instead of mutating in place.
type Parameters struct {
	// Exposure in stops; multiplicative via 2^Exposure.
	Exposure float64 `json:"exposure" validate:"gte=-4,lte=4"`
	// Contrast is the S-curve strength around ContrastPivot.
	Contrast float64 `json:"contrast" validate:"gte=-100,lte=100"`
	// ContrastPivot anchors the contrast curve. 0.18 is mid-gray.
	ContrastPivot float64 `json:"contrastPivot" validate:"gte=0,lte=1"`
	// Saturation is luminance-weighted; 100 is identity.
	Saturation float64 `json:"saturation" validate:"gte=0,lte=200"`
	// Temperature shifts warm/cool, Tint green/magenta.
	Temperature float64 `json:"temperature" validate:"gte=-100,lte=100"`
	Tint        float64 `json:"tint" validate:"gte=-100,lte=100"`

	Lift  Wheel `json:"lift"`
	Gamma Wheel `json:"gamma"`
	Gain  Wheel `json:"gain"`

	Shadows    Balance `json:"shadows"`
	Midtones   Balance `json:"midtones"`
	Highlights Balance `json:"highlights"`
}

// Identity returns the parameter set whose transform leaves every pixel
// unchanged. This is the default and reset state.
func Identity() Parameters {
	return Parameters{
		ContrastPivot: 0.18,
		Saturation:    100,
	}
}

// IsIdentity reports whether every stage of the transform is neutral.
func (p Parameters) IsIdentity() bool {
	return p.Exposure == 0 &&
		!p.LiftGammaGainActive() &&
		!p.TemperatureTintActive() &&
		p.Contrast == 0 &&
		!p.SaturationActive() &&
		!p.BalanceActive()
}

// LiftGammaGainActive reports whether the three-way corrector stage
// deviates from neutral.
func (p Parameters) LiftGammaGainActive() bool {
	return p.Lift.Active() || p.Gamma.Active() || p.Gain.Active()
}

// TemperatureTintActive reports whether the temperature/tint stage
// deviates from neutral.
func (p Parameters) TemperatureTintActive() bool {
	return p.Temperature != 0 || p.Tint != 0
}

// SaturationActive reports whether the saturation stage deviates from
// neutral (100).
func (p Parameters) SaturationActive() bool {
	return p.Saturation != 100
}

// BalanceActive reports whether any of the shadow/midtone/highlight
// balance stages deviates from neutral.
func (p Parameters) BalanceActive() bool {
	return p.Shadows.Active() || p.Midtones.Active() || p.Highlights.Active()
}

// Clamp returns a copy with every field pulled into its declared range.
// Out-of-range values are corrected here, at the model boundary; the
// transform itself never rejects input.
func (p Parameters) Clamp() Parameters {
	p.Exposure = clampRange(p.Exposure, -4, 4)
	p.Contrast = clampRange(p.Contrast, -100, 100)
	p.ContrastPivot = clampRange(p.ContrastPivot, 0, 1)
	p.Saturation = clampRange(p.Saturation, 0, 200)
	p.Temperature = clampRange(p.Temperature, -100, 100)
	p.Tint = clampRange(p.Tint, -100, 100)
	p.Lift = p.Lift.clamp()
	p.Gamma = p.Gamma.clamp()
	p.Gain = p.Gain.clamp()
	p.Shadows = p.Shadows.clamp()
	p.Midtones = p.Midtones.clamp()
	p.Highlights = p.Highlights.clamp()
	return p
}

func (w Wheel) clamp() Wheel {
	return Wheel{
		R:      clampRange(w.R, -1, 1),
		G:      clampRange(w.G, -1, 1),
		B:      clampRange(w.B, -1, 1),
		Master: clampRange(w.Master, -1, 1),
	}
}

func (b Balance) clamp() Balance {
	return Balance{
		R: clampRange(b.R, -100, 100),
		G: clampRange(b.G, -100, 100),
		B: clampRange(b.B, -100, 100),
	}
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
