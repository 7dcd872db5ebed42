package scene

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"configurator/internal/asset"
	"configurator/internal/catalog"
	"configurator/internal/classifier"
	"configurator/internal/phase"
	"configurator/internal/primitives"
	"configurator/internal/stage"
)

var placeholderColor = rl.NewColor(0x1C, 0x1C, 0x1C, 255)

// vehicle is the render-side twin of one asset handle.
type vehicle struct {
	variant  catalog.Variant
	handle   *asset.Handle
	model    rl.Model
	uploaded bool
	failure  string
	paintKey string
	synced   int
}

// ensureLoads requests the geometry the current phase can show: every variant until one
// is chosen, then only the chosen one.
func (s *Scene) ensureLoads(st phase.State) {
	if st.Phase <= phase.Selection {
		for _, id := range s.cat.IDs() {
			s.vehicle(id)
		}
		return
	}
	if st.HasSelection() {
		s.vehicle(st.Selected)
	}
}

func (s *Scene) vehicle(id catalog.ID) *vehicle {
	if v, ok := s.vehicles[id]; ok {
		return v
	}
	variant, ok := s.cat.Variant(id)
	if !ok {
		return nil
	}
	v := &vehicle{variant: variant, handle: s.loader.Load(variant.Asset, variant.Scale), synced: -1}
	s.vehicles[id] = v
	// A handle shared with another variant may already be settled.
	if v.handle.State() != asset.Pending {
		s.settled(v)
	}
	return v
}

// settle uploads or reports every vehicle backed by h.
func (s *Scene) settle(h *asset.Handle) {
	for _, v := range s.vehicles {
		if v.handle == h {
			s.settled(v)
		}
	}
}

func (s *Scene) settled(v *vehicle) {
	id := v.variant.ID
	switch v.handle.State() {
	case asset.Failed:
		v.failure = fmt.Sprintf("%s model unavailable, showing placeholder", v.variant.Name)
		s.log.Error(v.handle.Err(), "vehicle load failed", "variant", id)
	case asset.Ready:
		if v.uploaded {
			return
		}
		model := rl.LoadModel(v.handle.Path())
		if model.MeshCount == 0 {
			v.failure = fmt.Sprintf("%s model could not be uploaded", v.variant.Name)
			s.log.Warn("vehicle upload failed", "variant", id, "path", v.handle.Path())
			return
		}
		s.lit.Use(&model)
		v.model, v.uploaded, v.synced = model, true, -1
		s.log.Info("vehicle ready", "variant", id, "surfaces", v.handle.Graph().SurfaceCount())
	}
}

// repaint runs the classifier for every loaded vehicle whose paint job changed.
func (s *Scene) repaint(st phase.State) {
	for _, v := range s.vehicles {
		if !v.handle.Ready() || v.handle.Graph().Root == nil {
			continue
		}
		req, key := stage.PaintFor(st, &v.variant)
		if key == v.paintKey {
			continue
		}
		first := v.paintKey == ""
		res := classifier.Apply(v.handle.Graph().Root, req)
		v.handle.Touch()
		v.paintKey = key
		if first {
			s.log.Info("vehicle classified", "variant", v.variant.ID,
				"body", res.Count(classifier.Body), "interior", res.Count(classifier.Interior),
				"skipped", res.Count(classifier.Skipped), "explicit", res.ExplicitBody)
		}
	}
}

// sync pushes recolored materials to the GPU model after a repaint. Materials the classifier
// left alone keep the color raylib loaded.
func (v *vehicle) sync() {
	if !v.uploaded || v.synced == v.handle.Revision() {
		return
	}
	mats := v.model.GetMaterials()
	for i, c := range albedos(v.handle.Graph(), len(mats)) {
		if albedo := mats[i].GetMap(rl.MapAlbedo); albedo != nil {
			albedo.Color = c
		}
	}
	v.synced = v.handle.Revision()
}

// albedos maps raylib material slots to the colors of painted graph materials. raylib
// reserves slot 0 for its default material.
func albedos(g *asset.Graph, slots int) map[int]rl.Color {
	out := make(map[int]rl.Color)
	for _, m := range g.Painted() {
		if i := m.Index + 1; i < slots {
			out[i] = rgb(m.Color)
		}
	}
	return out
}

// drawVehicle renders the model, or the placeholder box while it is unavailable.
func (s *Scene) drawVehicle(p stage.Placement) {
	v := s.vehicles[p.ID]
	if v == nil {
		return
	}
	if v.uploaded {
		v.model.Transform = toRL(p.World.Mul4(v.handle.Transform().Mat4()))
		rl.DrawModel(v.model, rl.Vector3{}, 1, rl.White)
		return
	}
	b := v.handle.Footprint()
	c, size := b.Center(), b.Size()
	m := p.World.Mul4(mgl32.Translate3D(c[0], c[1], c[2])).Mul4(mgl32.Scale3D(size[0], size[1], size[2]))
	s.prims.Draw(primitives.Box, toRL(m), placeholderColor)
}

// footprint is the world-space pick box of a placement.
func (s *Scene) footprint(p stage.Placement) (stage.Target, bool) {
	v := s.vehicles[p.ID]
	if v == nil {
		return stage.Target{}, false
	}
	return stage.Target{ID: p.ID, Box: v.handle.Footprint().Transformed(p.World)}, true
}

func (s *Scene) unloadVehicles() {
	for _, v := range s.vehicles {
		if v.uploaded {
			rl.UnloadModel(v.model)
			v.uploaded = false
		}
	}
}
