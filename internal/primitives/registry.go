package primitives

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape names a cached mesh.
type Shape int

const (
	// Box is a unit cube centered on the origin; the loading placeholder.
	Box Shape = iota
	// Ground is the 60×60 floor plane.
	Ground
	// Disk is a thin unit-radius platform, top face at Y=0.
	Disk
	// Quad is a unit XZ plane used for the glow decal.
	Quad
)

const (
	groundSize   = 60
	diskSegments = 64
	diskHeight   = 0.04
	glowSize     = 256
	glowSoftness = 6
)

type cached struct {
	mesh rl.Mesh
	mtl  rl.Material
}

// Registry owns the showroom meshes and materials. Meshes are created on first use so GPU
// resources are allocated after the window exists.
type Registry struct {
	lit       *Lit
	cache     map[Shape]cached
	glow      rl.Texture2D
	glowOK    bool
	glowTried bool
}

// NewRegistry returns a registry drawing lit shapes with lit. A nil or invalid shader falls
// back to raylib's default material.
func NewRegistry(lit *Lit) *Registry {
	return &Registry{lit: lit, cache: make(map[Shape]cached)}
}

func (r *Registry) get(s Shape) (cached, bool) {
	if c, ok := r.cache[s]; ok {
		return c, true
	}
	var mesh rl.Mesh
	switch s {
	case Box:
		mesh = rl.GenMeshCube(1, 1, 1)
	case Ground:
		mesh = rl.GenMeshPlane(groundSize, groundSize, 1, 1)
	case Disk:
		mesh = rl.GenMeshCylinder(1, diskHeight, diskSegments)
	case Quad:
		mesh = rl.GenMeshPlane(1, 1, 1, 1)
	default:
		return cached{}, false
	}
	mtl := rl.LoadMaterialDefault()
	if s != Quad && r.lit.Valid() {
		mtl.Shader = r.lit.Shader
	}
	c := cached{mesh: mesh, mtl: mtl}
	r.cache[s] = c
	return c, true
}

// Draw draws shape with the given model transform and tint. Call between BeginMode3D and
// EndMode3D, after Lit.Apply for the frame.
func (r *Registry) Draw(s Shape, transform rl.Matrix, tint rl.Color) {
	c, ok := r.get(s)
	if !ok {
		return
	}
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	if s == Disk {
		transform = rl.MatrixMultiply(rl.MatrixTranslate(0, -diskHeight, 0), transform)
	}
	rl.DrawMesh(c.mesh, c.mtl, transform)
}

// DrawGlow draws the additive glow decal centered at pos with the given radius and intensity.
func (r *Registry) DrawGlow(pos rl.Vector3, radius, intensity float32, tint rl.Color) {
	if !r.ensureGlow() {
		return
	}
	c, ok := r.get(Quad)
	if !ok {
		return
	}
	rl.SetMaterialTexture(&c.mtl, rl.MapAlbedo, r.glow)
	if albedo := c.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		k := min(max(intensity, 0), 1)
		albedo.Color = rl.NewColor(uint8(float32(tint.R)*k), uint8(float32(tint.G)*k), uint8(float32(tint.B)*k), 255)
	}
	size := radius * 2
	transform := rl.MatrixMultiply(rl.MatrixScale(size, 1, size), rl.MatrixTranslate(pos.X, pos.Y, pos.Z))
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DisableDepthMask()
	rl.DrawMesh(c.mesh, c.mtl, transform)
	rl.EnableDepthMask()
	rl.EndBlendMode()
}

func (r *Registry) ensureGlow() bool {
	if r.glowOK || r.glowTried {
		return r.glowOK
	}
	r.glowTried = true
	img := rl.NewImageFromImage(GlowImage(glowSize, glowSoftness))
	r.glow = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	if !rl.IsTextureValid(r.glow) {
		return false
	}
	rl.SetTextureFilter(r.glow, rl.FilterBilinear)
	r.glowOK = true
	return true
}

// Unload frees all meshes and textures.
func (r *Registry) Unload() {
	for s, c := range r.cache {
		rl.UnloadMesh(&c.mesh)
		delete(r.cache, s)
	}
	if r.glowOK {
		rl.UnloadTexture(r.glow)
		r.glowOK, r.glowTried = false, false
	}
}
