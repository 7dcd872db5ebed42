// Package scene is the composition root of the showroom: it connects the phase store, the
// asset loader, the camera controller and the overlay, and renders the result with raylib.
package scene

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/asset"
	"configurator/internal/camera"
	"configurator/internal/catalog"
	"configurator/internal/logger"
	"configurator/internal/phase"
	"configurator/internal/primitives"
	"configurator/internal/stage"
	"configurator/internal/ui"
)

const (
	groundY       = -0.02
	glowLift      = 0.02
	glowSpread    = 1.6
	labelNameSize = 22
	labelSubSize  = 16
)

var (
	background    = rl.NewColor(0x03, 0x03, 0x06, 255)
	groundColor   = rl.NewColor(0x05, 0x05, 0x05, 255)
	platformIdle  = rl.NewColor(0x0D, 0x0D, 0x0D, 255)
	platformLit   = rl.NewColor(0x2A, 0x2A, 0x2A, 255)
	glowTint      = rl.NewColor(0xE8, 0xE4, 0xDF, 255)
	labelColor    = rl.NewColor(0xB4, 0xB4, 0xB4, 255)
	labelHover    = rl.NewColor(0xFF, 0xFF, 0xFF, 255)
	labelSubColor = rl.NewColor(0x80, 0x80, 0x80, 255)
)

// Scene owns every per-frame concern of the showroom. All methods run on the render thread.
type Scene struct {
	store   *phase.Store
	cat     *catalog.Catalog
	loader  *asset.Loader
	cam     *camera.Controller
	log     *logger.Logger
	ui      *ui.Engine
	overlay ui.Overlay
	stage   *stage.Stage

	vehicles map[catalog.ID]*vehicle
	camera   rl.Camera3D
	camKey   camera.Key
	aimed    bool
	dragging bool

	// PointerBlocked suppresses picking, dragging and zoom, e.g. while the console is open.
	PointerBlocked bool

	gpuReady bool
	lit      *primitives.Lit
	prims    *primitives.Registry
	post     *bloom
}

// New wires a scene. GPU resources are created on the first Update, after the window exists.
func New(store *phase.Store, loader *asset.Loader, cam *camera.Controller, engine *ui.Engine, log *logger.Logger) *Scene {
	cat := store.Catalog()
	s := &Scene{
		store:    store,
		cat:      cat,
		loader:   loader,
		cam:      cam,
		log:      log,
		ui:       engine,
		stage:    stage.New(cat.IDs()),
		vehicles: make(map[catalog.ID]*vehicle),
	}
	s.applyPose(cam.Rendered())
	return s
}

func (s *Scene) ensureGPU() {
	if s.gpuReady {
		return
	}
	s.gpuReady = true
	s.lit = primitives.LoadLit()
	if !s.lit.Valid() {
		s.log.Warn("lit shader unavailable, using flat shading")
	}
	s.prims = primitives.NewRegistry(s.lit)
	s.post = newBloom()
}

// Update advances one frame of dt seconds.
func (s *Scene) Update(dt float32) {
	s.ensureGPU()
	s.store.Update()
	st := s.store.State()

	for _, h := range s.loader.Poll() {
		s.settle(h)
	}
	s.ensureLoads(st)
	s.repaint(st)
	for _, v := range s.vehicles {
		v.sync()
	}

	if key := camera.KeyOf(st); !s.aimed || key != s.camKey {
		s.aim(st, key)
	}
	in := s.input(dt)
	s.applyPose(s.cam.Tick(in))

	// Input may have changed the store.
	s.stage.Update(dt, s.store.State())
}

func (s *Scene) aim(st phase.State, key camera.Key) {
	var pose camera.Pose
	if v, ok := s.cat.Variant(st.Selected); ok {
		pose = camera.Resolve(st.Phase, &v, st.Step)
	} else {
		pose = camera.Resolve(st.Phase, nil, st.Step)
	}
	s.cam.SetTarget(pose, camera.ProfileFor(key))
	s.camKey, s.aimed = key, true
}

func (s *Scene) applyPose(p camera.Pose) {
	s.camera = rl.Camera3D{
		Position:   vec3(p.Position),
		Target:     vec3(p.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       p.FOV,
		Projection: rl.CameraPerspective,
	}
}

// input builds the overlay for this frame, routes clicks to it first and the rest of the
// pointer to picking and the camera.
func (s *Scene) input(dt float32) camera.Input {
	st := s.store.State()
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	s.ui.SetNodes(s.overlay.Build(st, s.cat, float32(w), float32(h), s.status(st)))
	s.ui.Layout(int32(w), int32(h))

	in := camera.Input{DT: dt}
	mouse := rl.GetMousePosition()
	s.ui.Hover(mouse.X, mouse.Y)
	if s.PointerBlocked {
		s.dragging = false
		return in
	}
	overUI := s.ui.Blocks(mouse.X, mouse.Y)

	var picked catalog.ID
	if st.Phase == phase.Selection && !overUI {
		picked = s.pick(st, mouse)
	}
	if st.Phase == phase.Selection {
		s.store.SetHovered(picked)
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		switch {
		case s.ui.Click(mouse.X, mouse.Y, s.store):
		case picked != "":
			s.store.SelectVariant(picked)
		default:
			s.dragging = !overUI
		}
	}
	if !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		s.dragging = false
	}
	if s.dragging {
		d := rl.GetMouseDelta()
		in.Dragging, in.DragX, in.DragY = true, d.X, d.Y
	}
	if !overUI {
		in.Zoom = rl.GetMouseWheelMove()
	}
	return in
}

func (s *Scene) pick(st phase.State, mouse rl.Vector2) catalog.ID {
	ray := rl.GetScreenToWorldRay(mouse, s.camera)
	var targets []stage.Target
	for _, p := range s.stage.Placements(st) {
		if t, ok := s.footprint(p); ok {
			targets = append(targets, t)
		}
	}
	id, _ := stage.Pick(fromRL(ray.Position), fromRL(ray.Direction), targets)
	return id
}

func (s *Scene) status(st phase.State) ui.Status {
	v := s.vehicles[st.Selected]
	if v == nil {
		return ui.Status{}
	}
	return ui.Status{Loading: v.handle.State() == asset.Pending, Failed: v.failure}
}

// Draw renders the showroom and the overlay. Call between BeginDrawing and EndDrawing.
func (s *Scene) Draw() {
	s.ensureGPU()
	st := s.store.State()
	placements := s.stage.Placements(st)

	s.post.begin()
	rl.ClearBackground(background)
	rl.BeginMode3D(s.camera)
	eye := s.camera.Position
	s.lit.Apply([3]float32{eye.X, eye.Y, eye.Z}, primitives.Showroom(st.Phase == phase.Selection))
	s.prims.Draw(primitives.Ground, toRL(mgl32.Translate3D(0, groundY, 0)), groundColor)
	for _, p := range placements {
		s.drawPlatform(p)
	}
	for _, p := range placements {
		s.drawVehicle(p)
	}
	if st.Phase == phase.AR {
		drawARGrid()
	}
	rl.EndMode3D()
	s.post.end()

	s.drawLabels(placements)
	if st.Phase == phase.AR {
		s.drawARChrome()
	}
	s.ui.Draw()
}

func (s *Scene) drawPlatform(p stage.Placement) {
	c := p.Center
	m := mgl32.Translate3D(c[0], c[1], c[2]).Mul4(mgl32.Scale3D(p.Radius, 1, p.Radius))
	s.prims.Draw(primitives.Disk, toRL(m), mix(platformIdle, platformLit, p.Glow))
	s.prims.DrawGlow(rl.NewVector3(c[0], c[1]+glowLift, c[2]), p.Radius*glowSpread, p.Glow, glowTint)
}

func (s *Scene) drawLabels(placements []stage.Placement) {
	font := s.ui.Font()
	if font.Texture.ID == 0 {
		font = rl.GetFontDefault()
	}
	for _, p := range placements {
		v := s.vehicles[p.ID]
		if !p.Labeled || v == nil {
			continue
		}
		at := rl.GetWorldToScreen(vec3(p.Label), s.camera)
		col := labelColor
		if p.Hovered {
			col = labelHover
		}
		centered(font, v.variant.Name, at, labelNameSize, col)
		at.Y += labelNameSize + 4
		centered(font, "from "+catalog.FormatPrice(v.variant.BasePrice), at, labelSubSize, labelSubColor)
	}
}

func centered(font rl.Font, text string, at rl.Vector2, size float32, col rl.Color) {
	w := rl.MeasureTextEx(font, text, size, 1).X
	rl.DrawTextEx(font, text, rl.NewVector2(at.X-w/2, at.Y), size, 1, col)
}

// DescribeView reports the camera state for the console.
func (s *Scene) DescribeView() string {
	live, target := s.cam.Rendered(), s.cam.Target()
	return fmt.Sprintf("camera pos=(%.2f, %.2f, %.2f) look=(%.2f, %.2f, %.2f) fov=%.0f target=(%.2f, %.2f, %.2f) orbit=%s settled=%t",
		live.Position[0], live.Position[1], live.Position[2],
		live.Target[0], live.Target[1], live.Target[2], live.FOV,
		target.Position[0], target.Position[1], target.Position[2],
		s.cam.Profile().Name, s.cam.Settled())
}

// ResetOrbit drops any user orbit and zoom.
func (s *Scene) ResetOrbit() { s.cam.ResetOrbit() }

// Unload frees GPU resources and cancels a settling selection.
func (s *Scene) Unload() {
	s.store.CancelPending()
	s.unloadVehicles()
	if !s.gpuReady {
		return
	}
	s.prims.Unload()
	s.lit.Unload()
	s.post.unload()
}
