package primitives

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Lit is the shared lighting shader for the ground, platforms, placeholders, and loaded
// vehicle models. Uniform locations are looked up once.
type Lit struct {
	Shader rl.Shader
	locs   map[string]int32
}

var litUniforms = []string{
	"viewPos", "ambient", "fogColor", "fogRange", "specular",
	"spotCount", "spotPos", "spotDir", "spotColor", "spotCone",
	"pointCount", "pointPos", "pointColor",
}

// LoadLit compiles the shader. Call after the window exists.
func LoadLit() *Lit {
	l := &Lit{Shader: rl.LoadShaderFromMemory(litVS, litFS), locs: make(map[string]int32)}
	if !l.Valid() {
		return l
	}
	for _, name := range litUniforms {
		l.locs[name] = rl.GetShaderLocation(l.Shader, name)
	}
	return l
}

// Valid reports whether the shader compiled.
func (l *Lit) Valid() bool { return l != nil && rl.IsShaderValid(l.Shader) }

// Unload releases the shader.
func (l *Lit) Unload() {
	if l.Valid() {
		rl.UnloadShader(l.Shader)
	}
}

// Use assigns the shader to every material of model.
func (l *Lit) Use(model *rl.Model) {
	if !l.Valid() {
		return
	}
	for i := range model.GetMaterials() {
		model.GetMaterials()[i].Shader = l.Shader
	}
}

func (l *Lit) vec(name string, v []float32, typ rl.ShaderUniformDataType, count int32) {
	if loc, ok := l.locs[name]; ok && loc >= 0 && count > 0 {
		rl.SetShaderValueV(l.Shader, loc, v, typ, count)
	}
}

// Apply uploads the rig and the eye position. Call once per frame before drawing.
func (l *Lit) Apply(viewPos [3]float32, rig Lighting) {
	if !l.Valid() {
		return
	}
	l.vec("viewPos", viewPos[:], rl.ShaderUniformVec3, 1)
	l.vec("ambient", rig.Ambient[:], rl.ShaderUniformVec3, 1)
	l.vec("fogColor", rig.FogColor[:], rl.ShaderUniformVec3, 1)
	l.vec("fogRange", []float32{rig.FogNear, rig.FogFar}, rl.ShaderUniformVec2, 1)
	l.vec("specular", []float32{rig.Specular, rig.Shininess}, rl.ShaderUniformVec2, 1)

	spots := rig.Spots[:min(len(rig.Spots), maxSpots)]
	var pos, dir, col, cone []float32
	for _, s := range spots {
		d := s.Target.Sub(s.Position)
		if d.Len() > 0 {
			d = d.Normalize()
		}
		outer := math32.Cos(s.Angle)
		inner := math32.Cos(s.Angle * (1 - s.Penumbra))
		c := s.Color.Mul(s.Intensity)
		pos = append(pos, s.Position[:]...)
		dir = append(dir, d[:]...)
		col = append(col, c[:]...)
		cone = append(cone, inner, outer, s.Range)
	}
	n := int32(len(spots))
	l.vec("spotCount", []float32{float32(n)}, rl.ShaderUniformFloat, 1)
	l.vec("spotPos", pos, rl.ShaderUniformVec3, n)
	l.vec("spotDir", dir, rl.ShaderUniformVec3, n)
	l.vec("spotColor", col, rl.ShaderUniformVec3, n)
	l.vec("spotCone", cone, rl.ShaderUniformVec3, n)

	points := rig.Points[:min(len(rig.Points), maxPoints)]
	pos, col = pos[:0], col[:0]
	for _, p := range points {
		c := p.Color.Mul(p.Intensity)
		pos = append(pos, p.Position[0], p.Position[1], p.Position[2])
		col = append(col, c[0], c[1], c[2], p.Range)
	}
	m := int32(len(points))
	l.vec("pointCount", []float32{float32(m)}, rl.ShaderUniformFloat, 1)
	l.vec("pointPos", pos, rl.ShaderUniformVec3, m)
	l.vec("pointColor", col, rl.ShaderUniformVec4, m)
}

const (
	litVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 mvp;
uniform mat4 matModel;
uniform mat4 matNormal;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  fragPosition = vec3(matModel * vec4(vertexPosition, 1.0));
  fragTexCoord = vertexTexCoord;
  fragNormal = normalize(vec3(matNormal * vec4(vertexNormal, 0.0)));
  gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`
	litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform sampler2D texture0;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 ambient;
uniform vec3 fogColor;
uniform vec2 fogRange;
uniform vec2 specular;
uniform float spotCount;
uniform vec3 spotPos[4];
uniform vec3 spotDir[4];
uniform vec3 spotColor[4];
uniform vec3 spotCone[4];
uniform float pointCount;
uniform vec3 pointPos[2];
uniform vec4 pointColor[2];
out vec4 finalColor;

vec3 shade(vec3 base, vec3 N, vec3 V, vec3 L, vec3 radiance) {
  float NdotL = max(dot(N, L), 0.0);
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specular.y) * specular.x;
  return (base * NdotL + vec3(spec) * step(0.0, NdotL)) * radiance;
}

void main() {
  vec4 texel = texture(texture0, fragTexCoord) * colDiffuse;
  vec3 N = normalize(fragNormal);
  if (!gl_FrontFacing) N = -N;
  vec3 V = normalize(viewPos - fragPosition);
  vec3 color = ambient * texel.rgb;
  for (int i = 0; i < 4; i++) {
    if (float(i) >= spotCount) break;
    vec3 toLight = spotPos[i] - fragPosition;
    float dist = length(toLight);
    vec3 L = toLight / dist;
    float cosA = dot(-L, spotDir[i]);
    float cone = smoothstep(spotCone[i].y, spotCone[i].x, cosA);
    float falloff = clamp(1.0 - dist / spotCone[i].z, 0.0, 1.0);
    color += shade(texel.rgb, N, V, L, spotColor[i] * cone * falloff * falloff);
  }
  for (int i = 0; i < 2; i++) {
    if (float(i) >= pointCount) break;
    vec3 toLight = pointPos[i] - fragPosition;
    float dist = length(toLight);
    float falloff = clamp(1.0 - dist / pointColor[i].w, 0.0, 1.0);
    color += shade(texel.rgb, N, V, toLight / dist, pointColor[i].rgb * falloff * falloff);
  }
  float fog = smoothstep(fogRange.x, fogRange.y, length(viewPos - fragPosition));
  finalColor = vec4(mix(color, fogColor, fog), texel.a);
}
`
)
