// Package shader generates GLSL ES programs implementing the grading
// transform for a programmable rasterization stage. Parameters are baked
// into the fragment source as literals, so every parameter change
// produces a new program; only the GPU link step can fail, and that
// failure is fatal to the render attempt, never to the process.
package shader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"tonecraft.systems/grade/pkg/grade"
)

// VertexSource is the fixed vertex stage: a full-screen quad passthrough.
const VertexSource = `attribute vec2 a_position;
attribute vec2 a_texCoord;
varying vec2 v_texCoord;

void main() {
    gl_Position = vec4(a_position, 0.0, 1.0);
    v_texCoord = a_texCoord;
}
`

// FragmentSource emits the fragment stage for one parameter set. Stages
// at their neutral values are omitted entirely rather than emitted as
// no-ops, keeping the program small and avoiding float drift from
// trivially-identity arithmetic. The emitted math mirrors
// grade.TransformPixel stage for stage.
func FragmentSource(p grade.Parameters) string {
	p = p.Clamp()

	var b strings.Builder
	b.WriteString("precision highp float;\n\n")
	b.WriteString("varying vec2 v_texCoord;\n")
	b.WriteString("uniform sampler2D u_image;\n\n")
	b.WriteString("void main() {\n")
	b.WriteString("    vec4 tex = texture2D(u_image, v_texCoord);\n")
	b.WriteString("    vec3 c = tex.rgb;\n")

	if p.Exposure != 0 {
		fmt.Fprintf(&b, "\n    // exposure\n    c *= %s;\n", glslFloat(math.Exp2(p.Exposure)))
	}

	if p.LiftGammaGainActive() {
		b.WriteString("\n    // lift/gamma/gain\n")
		lift, gamma, gain := p.LGGCoefficients()
		channels := []string{"c.r", "c.g", "c.b"}
		for i, ch := range channels {
			fmt.Fprintf(&b, "    %s = clamp(%s * (%s + %s * (1.0 - %s)), 0.0, 1.0);\n",
				ch, glslFloat(gain[i]), ch, glslFloat(lift[i]), ch)
			if gamma[i] == 0 {
				// 1/gamma is unbounded at zero; the curve degenerates
				// to a step at 1.
				fmt.Fprintf(&b, "    %s = step(1.0, %s);\n", ch, ch)
			} else if gamma[i] != 1 {
				fmt.Fprintf(&b, "    %s = %s > 0.0 ? clamp(pow(%s, %s), 0.0, 1.0) : %s;\n",
					ch, ch, ch, glslFloat(1/gamma[i]), ch)
			}
		}
	}

	if p.TemperatureTintActive() {
		temp := p.Temperature / 100
		tint := p.Tint / 100
		fmt.Fprintf(&b, "\n    // temperature/tint\n    c += vec3(%s, %s, %s);\n",
			glslFloat(temp*0.1), glslFloat(tint*0.1-temp*0.02), glslFloat(-temp*0.1))
	}

	if p.Contrast != 0 {
		k := 1 + (p.Contrast/100)*1.5
		fmt.Fprintf(&b, "\n    // contrast\n    c = clamp((c - vec3(%s)) * %s + vec3(%s), 0.0, 1.0);\n",
			glslFloat(p.ContrastPivot), glslFloat(k), glslFloat(p.ContrastPivot))
	}

	if p.SaturationActive() {
		fmt.Fprintf(&b, "\n    // saturation\n")
		b.WriteString("    float satLuma = dot(c, vec3(0.2126, 0.7152, 0.0722));\n")
		fmt.Fprintf(&b, "    c = vec3(satLuma) + %s * (c - vec3(satLuma));\n",
			glslFloat(p.Saturation/100))
	}

	if p.BalanceActive() {
		b.WriteString("\n    // shadow/midtone/highlight balance\n")
		b.WriteString("    float balLuma = dot(c, vec3(0.2126, 0.7152, 0.0722));\n")
		b.WriteString("    float shadowW = 1.0 - smoothstep(0.0, 0.4, balLuma);\n")
		b.WriteString("    float midW = smoothstep(0.0, 0.4, balLuma) * (1.0 - smoothstep(0.6, 1.0, balLuma));\n")
		b.WriteString("    float highW = smoothstep(0.6, 1.0, balLuma);\n")
		fmt.Fprintf(&b, "    c += vec3(%s, %s, %s) * shadowW;\n",
			glslFloat(p.Shadows.R/100), glslFloat(p.Shadows.G/100), glslFloat(p.Shadows.B/100))
		fmt.Fprintf(&b, "    c += vec3(%s, %s, %s) * midW;\n",
			glslFloat(p.Midtones.R/100), glslFloat(p.Midtones.G/100), glslFloat(p.Midtones.B/100))
		fmt.Fprintf(&b, "    c += vec3(%s, %s, %s) * highW;\n",
			glslFloat(p.Highlights.R/100), glslFloat(p.Highlights.G/100), glslFloat(p.Highlights.B/100))
	}

	b.WriteString("\n    gl_FragColor = vec4(clamp(c, 0.0, 1.0), tex.a);\n")
	b.WriteString("}\n")
	return b.String()
}

// CompileError reports a GPU program compile or link failure. The
// compiler's diagnostic log is preserved verbatim so it can be surfaced
// to the caller; the renderer stays re-attemptable.
type CompileError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: %s stage failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

// glslFloat formats a float as a GLSL literal, keeping full precision
// and guaranteeing the token parses as a float rather than an int.
func glslFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
