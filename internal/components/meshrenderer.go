package components

import (
	"shadowplay/internal/engine"
	"shadowplay/internal/shadow"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type MeshType int

const (
	MeshCube MeshType = iota
	MeshPlane
	// MeshProcedural draws Mesh, whose vertices are in world space.
	MeshProcedural
)

type MeshRenderer struct {
	engine.BaseComponent
	MeshType MeshType
	Color    rl.Color
	Size     rl.Vector3
	// Offset shifts cube and plane draws from the object's position.
	Offset   rl.Vector3
	Mesh     *shadow.Mesh
	Material string
}

func NewMeshRenderer(meshType MeshType, color rl.Color, size rl.Vector3) *MeshRenderer {
	return &MeshRenderer{
		MeshType: meshType,
		Color:    color,
		Size:     size,
	}
}

// NewProceduralRenderer draws m with a named material.
func NewProceduralRenderer(m *shadow.Mesh, material string, color rl.Color) *MeshRenderer {
	return &MeshRenderer{
		MeshType: MeshProcedural,
		Color:    color,
		Mesh:     m,
		Material: material,
	}
}

func (m *MeshRenderer) Draw() {
	g := m.GetGameObject()
	if g == nil || !g.Active {
		return
	}

	switch m.MeshType {
	case MeshCube:
		pos := rl.Vector3Add(g.WorldPosition(), m.Offset)
		rl.DrawCubeV(pos, m.Size, m.Color)
		rl.DrawCubeWiresV(pos, m.Size, rl.Fade(rl.Black, 0.3))
	case MeshPlane:
		rl.DrawPlane(rl.Vector3Add(g.WorldPosition(), m.Offset), rl.Vector2{X: m.Size.X, Y: m.Size.Z}, m.Color)
	case MeshProcedural:
		m.drawMesh()
	}
}

// drawMesh relies on raylib culling back faces, so triangle winding decides
// which side of a shadow plane is visible.
func (m *MeshRenderer) drawMesh() {
	if m.Mesh == nil {
		return
	}
	v := m.Mesh.Vertices
	tris := m.Mesh.Triangles
	for i := 0; i+2 < len(tris); i += 3 {
		rl.DrawTriangle3D(v[tris[i]], v[tris[i+1]], v[tris[i+2]], m.Color)
	}
}
