package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendBoundaries(t *testing.T) {
	for _, preset := range Presets() {
		t.Run(preset.Name, func(t *testing.T) {
			assert.Equal(t, Identity(), Blend(preset, 0))
			assert.Equal(t, preset.Params, Blend(preset, 100))
		})
	}
}

func TestBlendIsLinear(t *testing.T) {
	preset, ok := PresetByName("golden-hour")
	require.True(t, ok)

	half := Blend(preset, 50)
	assert.InDelta(t, preset.Params.Temperature/2, half.Temperature, 1e-9)
	assert.InDelta(t, preset.Params.Exposure/2, half.Exposure, 1e-9)
	assert.InDelta(t, (100+preset.Params.Saturation)/2, half.Saturation, 1e-9)
	assert.InDelta(t, preset.Params.Gamma.Master/2, half.Gamma.Master, 1e-9)
}

func TestBlendClampsIntensity(t *testing.T) {
	preset, ok := PresetByName("moonlit")
	require.True(t, ok)

	assert.Equal(t, Identity(), Blend(preset, -10))
	assert.Equal(t, preset.Params, Blend(preset, 250))
}

func TestPresetByName(t *testing.T) {
	_, ok := PresetByName("no-such-look")
	assert.False(t, ok)

	p, ok := PresetByName("film-noir")
	require.True(t, ok)
	assert.Equal(t, 0.0, p.Params.Saturation)
}

func TestPresetsAreWithinDeclaredRanges(t *testing.T) {
	for _, preset := range Presets() {
		t.Run(preset.Name, func(t *testing.T) {
			assert.Equal(t, preset.Params, preset.Params.Clamp(),
				"preset must not carry out-of-range values")
			assert.NotEmpty(t, preset.Description)
		})
	}
}
