package world

import (
	"shadowplay/internal/components"
	"shadowplay/internal/engine"
	"shadowplay/internal/physics"
	"shadowplay/internal/shadow"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws the scene side on through the main camera.
type Renderer struct {
	Background   rl.Color
	ShowTriggers bool
	ShowGrid     bool

	drawn int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Background: rl.RayWhite,
		ShowGrid:   true,
	}
}

// Drawn returns how many renderers survived culling last frame.
func (r *Renderer) Drawn() int {
	return r.drawn
}

func (r *Renderer) Draw(camera rl.Camera3D, objects []*engine.GameObject) {
	aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
	frustum := ExtractFrustum(camera, aspect)
	visible := Visible(&frustum, objects)
	r.drawn = len(visible)

	rl.ClearBackground(r.Background)
	rl.BeginMode3D(camera)
	if r.ShowGrid {
		rl.DrawGrid(int32(shadow.LevelDepth), 1)
	}
	for _, mr := range visible {
		mr.Draw()
	}
	if r.ShowTriggers {
		drawTriggers(objects)
	}
	rl.EndMode3D()
}

// Visible returns the renderers of objects whose bounds touch the frustum.
func Visible(f *Frustum, objects []*engine.GameObject) []*components.MeshRenderer {
	var out []*components.MeshRenderer
	for _, g := range objects {
		if !g.Active {
			continue
		}
		mr := engine.GetComponent[*components.MeshRenderer](g)
		if mr == nil {
			continue
		}
		if f.ContainsAABB(rendererBounds(g, mr)) {
			out = append(out, mr)
		}
	}
	return out
}

func rendererBounds(g *engine.GameObject, mr *components.MeshRenderer) physics.AABB {
	if mr.MeshType == components.MeshProcedural && mr.Mesh != nil {
		return physics.NewAABBFromPoints(mr.Mesh.Vertices)
	}
	return physics.NewAABBFromCenter(rl.Vector3Add(g.WorldPosition(), mr.Offset), mr.Size)
}

func drawTriggers(objects []*engine.GameObject) {
	for _, g := range objects {
		for _, c := range g.Components() {
			box, ok := c.(*components.BoxCollider)
			if !ok || !box.IsTrigger() {
				continue
			}
			aabb := box.GetAABB()
			size := rl.Vector3Subtract(aabb.Max, aabb.Min)
			rl.DrawCubeWiresV(aabb.Center(), size, rl.Fade(rl.Red, 0.4))
		}
	}
}
