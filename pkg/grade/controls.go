package grade

// ControlType describes the kind of input control for a parameter.
type ControlType string

const (
	ControlSlider ControlType = "slider"
	ControlWheel  ControlType = "wheel"
)

// Control describes one adjustable grading parameter so clients can
// build their UI from the engine's declared ranges instead of
// hardcoding them.
type Control struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	Type     ControlType `json:"type"`
	Min      float64     `json:"min"`
	Max      float64     `json:"max"`
	Step     float64     `json:"step"`
	Default  float64     `json:"default"`
	Decimals int         `json:"decimals"`
}

// Controls returns the full control catalog in display order. Wheel
// controls carry the per-channel range; balance ranges are declared
// once per tonal region.
func Controls() []Control {
	return []Control{
		{Key: "exposure", Label: "Exposure", Type: ControlSlider, Min: -4, Max: 4, Step: 0.05, Default: 0, Decimals: 2},
		{Key: "contrast", Label: "Contrast", Type: ControlSlider, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
		{Key: "contrastPivot", Label: "Pivot", Type: ControlSlider, Min: 0, Max: 1, Step: 0.01, Default: 0.18, Decimals: 2},
		{Key: "saturation", Label: "Saturation", Type: ControlSlider, Min: 0, Max: 200, Step: 1, Default: 100, Decimals: 0},
		{Key: "temperature", Label: "Temperature", Type: ControlSlider, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
		{Key: "tint", Label: "Tint", Type: ControlSlider, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
		{Key: "lift", Label: "Lift", Type: ControlWheel, Min: -1, Max: 1, Step: 0.01, Default: 0, Decimals: 2},
		{Key: "gamma", Label: "Gamma", Type: ControlWheel, Min: -1, Max: 1, Step: 0.01, Default: 0, Decimals: 2},
		{Key: "gain", Label: "Gain", Type: ControlWheel, Min: -1, Max: 1, Step: 0.01, Default: 0, Decimals: 2},
		{Key: "shadows", Label: "Shadows", Type: ControlWheel, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
		{Key: "midtones", Label: "Midtones", Type: ControlWheel, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
		{Key: "highlights", Label: "Highlights", Type: ControlWheel, Min: -100, Max: 100, Step: 1, Default: 0, Decimals: 0},
	}
}
