package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/rigidscene/internal/dynamo"
	"github.com/san-kum/rigidscene/internal/scene"
)

// Uniforms is one frame of shader input derived from the render mode.
type Uniforms struct {
	ViewPos    [3]float32
	SpotDir    [3]float32
	FogColor   [4]float32
	Ambient    float32
	FogMode    float32 // 0 none, 1 linear, 2 exponential
	FogStart   float32
	FogEnd     float32
	FogDensity float32
	SpotOn     float32
	SpotInner  float32 // cosine of the inner half-angle
	SpotOuter  float32
	SpotBoost  float32
}

var (
	dayFog   = [4]float32{0.51, 0.58, 0.65, 1}
	nightFog = [4]float32{0.04, 0.04, 0.06, 1}
)

// UniformsFor computes shader input for a camera and mode. The spotlight
// sits at the camera and shines along its forward vector.
func UniformsFor(l scene.Lighting, m scene.Mode, cam dynamo.Transform) Uniforms {
	fwd := cam.Orientation.Rotate(mgl64.Vec3{0, 0, -1})
	u := Uniforms{
		ViewPos:    vec3f(cam.Position),
		SpotDir:    vec3f(fwd),
		FogStart:   float32(l.FogStart),
		FogEnd:     float32(l.FogEnd),
		FogDensity: float32(l.FogDensity),
		SpotInner:  float32(math.Cos(mgl64.DegToRad(l.SpotInner))),
		SpotOuter:  float32(math.Cos(mgl64.DegToRad(l.SpotOuter))),
		SpotBoost:  float32(l.SpotBoost),
		FogColor:   nightFog,
		Ambient:    float32(l.NightAmbient),
	}
	if m.Has(scene.Day) {
		u.FogColor = dayFog
		u.Ambient = float32(l.DayAmbient)
	}
	switch m.Fog() {
	case scene.FogLinear:
		u.FogMode = 1
	case scene.FogExponential:
		u.FogMode = 2
	}
	if m.Has(scene.Spotlight) {
		u.SpotOn = 1
	}
	return u
}

// Program is the shader program shared by every object in the scene.
type Program struct {
	Shader rl.Shader
	locs   map[string]int32
}

// LoadProgram compiles the scene shader. It needs an open window.
func LoadProgram() *Program {
	p := &Program{Shader: rl.LoadShaderFromMemory(sceneVS, sceneFS), locs: make(map[string]int32)}
	for _, name := range []string{
		"viewPos", "spotDir", "fogColor", "ambient", "fogMode", "fogStart", "fogEnd",
		"fogDensity", "spotOn", "spotInner", "spotOuter", "spotBoost",
	} {
		p.locs[name] = rl.GetShaderLocation(p.Shader, name)
	}
	return p
}

func (p *Program) Valid() bool { return rl.IsShaderValid(p.Shader) }

func (p *Program) setVec(name string, v []float32, kind rl.ShaderUniformDataType) {
	if loc := p.locs[name]; loc >= 0 {
		rl.SetShaderValueV(p.Shader, loc, v, kind, 1)
	}
}

func (p *Program) setFloat(name string, v float32) {
	if loc := p.locs[name]; loc >= 0 {
		rl.SetShaderValue(p.Shader, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

// Apply uploads u. Call once per frame before drawing.
func (p *Program) Apply(u Uniforms) {
	if !p.Valid() {
		return
	}
	p.setVec("viewPos", u.ViewPos[:], rl.ShaderUniformVec3)
	p.setVec("spotDir", u.SpotDir[:], rl.ShaderUniformVec3)
	p.setVec("fogColor", u.FogColor[:], rl.ShaderUniformVec4)
	p.setFloat("ambient", u.Ambient)
	p.setFloat("fogMode", u.FogMode)
	p.setFloat("fogStart", u.FogStart)
	p.setFloat("fogEnd", u.FogEnd)
	p.setFloat("fogDensity", u.FogDensity)
	p.setFloat("spotOn", u.SpotOn)
	p.setFloat("spotInner", u.SpotInner)
	p.setFloat("spotOuter", u.SpotOuter)
	p.setFloat("spotBoost", u.SpotBoost)
}

func (p *Program) Unload() {
	if p.Valid() {
		rl.UnloadShader(p.Shader)
	}
}

func vec3f(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

const (
	sceneVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`
	sceneFS = `#version 330
in vec3 fragPosition;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 spotDir;
uniform vec4 fogColor;
uniform float ambient;
uniform float fogMode;
uniform float fogStart;
uniform float fogEnd;
uniform float fogDensity;
uniform float spotOn;
uniform float spotInner;
uniform float spotOuter;
uniform float spotBoost;
out vec4 finalColor;
void main() {
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(vec3(0.4, 1.0, 0.3));
  float light = ambient * (0.6 + 0.4 * max(dot(N, L), 0.0));
  vec3 toFrag = fragPosition - viewPos;
  float dist = length(toFrag);
  if (spotOn > 0.5) {
    float c = dot(normalize(toFrag), normalize(spotDir));
    float s = smoothstep(spotOuter, spotInner, c);
    light += spotBoost * s * max(dot(N, -normalize(toFrag)), 0.0);
  }
  vec3 col = colDiffuse.rgb * min(light, 1.0);
  float f = 1.0;
  if (fogMode > 1.5) {
    f = exp(-fogDensity * dist);
  } else if (fogMode > 0.5) {
    f = (fogEnd - dist) / (fogEnd - fogStart);
  }
  f = clamp(f, 0.0, 1.0);
  finalColor = vec4(mix(fogColor.rgb, col, f), colDiffuse.a);
}
`
)
