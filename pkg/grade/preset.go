package grade

// Preset is a named parameter bundle. Params is already merged over the
// identity defaults, so every field carries a usable value. Presets are
// static data; never mutate them, blend toward a copy instead.
type Preset struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Params      Parameters `json:"params"`
}

// overlay builds a merged preset parameter set from identity defaults.
func overlay(fn func(*Parameters)) Parameters {
	p := Identity()
	fn(&p)
	return p
}

var presets = []Preset{
	{
		Name:        "cinematic-warm",
		Description: "Warm highlights, lifted contrast, slightly muted color",
		Params: overlay(func(p *Parameters) {
			p.Temperature = 35
			p.Contrast = 12
			p.Saturation = 90
			p.Shadows = Balance{R: 4, G: 1, B: -3}
			p.Highlights = Balance{R: 3, G: 0, B: -3}
		}),
	},
	{
		Name:        "cinematic-cool",
		Description: "Cool shadows and desaturated midtones",
		Params: overlay(func(p *Parameters) {
			p.Temperature = -30
			p.Contrast = 18
			p.Saturation = 85
			p.Shadows = Balance{R: -5, G: 0, B: 8}
			p.Midtones = Balance{R: -3, G: 1, B: 5}
		}),
	},
	{
		Name:        "film-noir",
		Description: "High-contrast monochrome with crushed shadows",
		Params: overlay(func(p *Parameters) {
			p.Saturation = 0
			p.Contrast = 45
			p.Exposure = 0.15
			p.Gamma = Wheel{Master: -0.1}
		}),
	},
	{
		Name:        "bleach-bypass",
		Description: "Silver-retention look: low saturation, hard contrast",
		Params: overlay(func(p *Parameters) {
			p.Saturation = 40
			p.Contrast = 32
			p.Exposure = 0.1
		}),
	},
	{
		Name:        "orange-teal",
		Description: "Warm skin tones against teal shadows",
		Params: overlay(func(p *Parameters) {
			p.Saturation = 115
			p.Contrast = 10
			p.Shadows = Balance{R: -10, G: 2, B: 12}
			p.Highlights = Balance{R: 10, G: 3, B: -8}
		}),
	},
	{
		Name:        "vintage-fade",
		Description: "Lifted blacks, soft gain, gently warmed midtones",
		Params: overlay(func(p *Parameters) {
			p.Lift = Wheel{Master: 0.06}
			p.Gain = Wheel{Master: -0.08}
			p.Saturation = 70
			p.Midtones = Balance{R: 5, G: 2, B: -3}
		}),
	},
	{
		Name:        "golden-hour",
		Description: "Late-afternoon warmth with a gentle lift",
		Params: overlay(func(p *Parameters) {
			p.Temperature = 45
			p.Tint = 8
			p.Exposure = 0.2
			p.Saturation = 112
			p.Gamma = Wheel{Master: 0.05}
		}),
	},
	{
		Name:        "moonlit",
		Description: "Dim, blue-leaning night look",
		Params: overlay(func(p *Parameters) {
			p.Temperature = -40
			p.Exposure = -0.5
			p.Saturation = 60
			p.Shadows = Balance{R: -4, G: 0, B: 6}
			p.Gamma = Wheel{Master: -0.1}
		}),
	},
}

// Presets returns the built-in preset table. The returned slice is
// shared; callers must not modify it.
func Presets() []Preset {
	return presets
}

// PresetByName looks up a built-in preset.
func PresetByName(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Blend interpolates between identity and the preset's merged parameters.
// Intensity runs 0..100: 0 yields identity exactly, 100 yields the preset
// exactly. Interpolation is linear, field by field.
func Blend(preset Preset, intensity float64) Parameters {
	t := clampRange(intensity, 0, 100) / 100
	if t == 0 {
		return Identity()
	}
	if t == 1 {
		return preset.Params
	}

	id := Identity()
	pp := preset.Params
	return Parameters{
		Exposure:      lerp(id.Exposure, pp.Exposure, t),
		Contrast:      lerp(id.Contrast, pp.Contrast, t),
		ContrastPivot: lerp(id.ContrastPivot, pp.ContrastPivot, t),
		Saturation:    lerp(id.Saturation, pp.Saturation, t),
		Temperature:   lerp(id.Temperature, pp.Temperature, t),
		Tint:          lerp(id.Tint, pp.Tint, t),
		Lift:          lerpWheel(id.Lift, pp.Lift, t),
		Gamma:         lerpWheel(id.Gamma, pp.Gamma, t),
		Gain:          lerpWheel(id.Gain, pp.Gain, t),
		Shadows:       lerpBalance(id.Shadows, pp.Shadows, t),
		Midtones:      lerpBalance(id.Midtones, pp.Midtones, t),
		Highlights:    lerpBalance(id.Highlights, pp.Highlights, t),
	}
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func lerpWheel(a, b Wheel, t float64) Wheel {
	return Wheel{
		R:      lerp(a.R, b.R, t),
		G:      lerp(a.G, b.G, t),
		B:      lerp(a.B, b.B, t),
		Master: lerp(a.Master, b.Master, t),
	}
}

func lerpBalance(a, b Balance, t float64) Balance {
	return Balance{
		R: lerp(a.R, b.R, t),
		G: lerp(a.G, b.G, t),
		B: lerp(a.B, b.B, t),
	}
}
