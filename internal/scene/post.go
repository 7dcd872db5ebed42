package scene

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	bloomThreshold = 0.55
	bloomIntensity = 0.45
)

// bloom renders the 3D pass into an offscreen target and composites it with a soft glow on
// everything brighter than the threshold. When the shader fails to compile the target is
// drawn unfiltered; when the target cannot be created the pass draws straight to the screen.
type bloom struct {
	target   rl.RenderTexture2D
	w, h     int32
	shader   rl.Shader
	resLoc   int32
	ok       bool
	shaderOK bool
	active   bool
}

func newBloom() *bloom {
	b := &bloom{}
	b.shader = rl.LoadShaderFromMemory(postVS, bloomFS)
	if rl.IsShaderValid(b.shader) {
		b.shaderOK = true
		b.resLoc = rl.GetShaderLocation(b.shader, "resolution")
		set := func(name string, v float32) {
			if loc := rl.GetShaderLocation(b.shader, name); loc >= 0 {
				rl.SetShaderValue(b.shader, loc, []float32{v}, rl.ShaderUniformFloat)
			}
		}
		set("threshold", bloomThreshold)
		set("intensity", bloomIntensity)
	}
	return b
}

// resize recreates the target when the window size changed.
func (b *bloom) resize(w, h int32) {
	if b.ok && w == b.w && h == b.h {
		return
	}
	if b.ok {
		rl.UnloadRenderTexture(b.target)
		b.ok = false
	}
	if w <= 0 || h <= 0 {
		return
	}
	b.target = rl.LoadRenderTexture(w, h)
	b.w, b.h = w, h
	b.ok = rl.IsRenderTextureValid(b.target)
	if b.shaderOK && b.resLoc >= 0 {
		rl.SetShaderValue(b.shader, b.resLoc, []float32{float32(w), float32(h)}, rl.ShaderUniformVec2)
	}
}

func (b *bloom) begin() {
	b.resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	b.active = b.ok
	if b.active {
		rl.BeginTextureMode(b.target)
	}
}

func (b *bloom) end() {
	if !b.active {
		return
	}
	rl.EndTextureMode()
	if b.shaderOK {
		rl.BeginShaderMode(b.shader)
	}
	// Render textures are stored bottom-up.
	src := rl.NewRectangle(0, 0, float32(b.w), -float32(b.h))
	rl.DrawTextureRec(b.target.Texture, src, rl.NewVector2(0, 0), rl.White)
	if b.shaderOK {
		rl.EndShaderMode()
	}
	b.active = false
}

func (b *bloom) unload() {
	if b.ok {
		rl.UnloadRenderTexture(b.target)
		b.ok = false
	}
	if b.shaderOK {
		rl.UnloadShader(b.shader)
		b.shaderOK = false
	}
}

const (
	postVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec4 vertexColor;
uniform mat4 mvp;
out vec2 fragTexCoord;
out vec4 fragColor;
void main() {
  fragTexCoord = vertexTexCoord;
  fragColor = vertexColor;
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	bloomFS = `#version 330
in vec2 fragTexCoord;
in vec4 fragColor;
out vec4 finalColor;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec2 resolution;
uniform float threshold;
uniform float intensity;
void main() {
  vec4 base = texture(texture0, fragTexCoord);
  vec2 px = 2.0 / max(resolution, vec2(1.0));
  vec3 sum = vec3(0.0);
  float total = 0.0;
  for (int x = -4; x <= 4; x++) {
    for (int y = -4; y <= 4; y++) {
      vec3 c = texture(texture0, fragTexCoord + vec2(x, y) * px).rgb;
      float peak = max(max(c.r, c.g), c.b);
      float k = exp(-float(x * x + y * y) / 8.0);
      sum += c * smoothstep(threshold, threshold + 0.15, peak) * k;
      total += k;
    }
  }
  finalColor = vec4(base.rgb + sum / total * intensity, 1.0) * colDiffuse * fragColor;
}
`
)
