package shadow

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	windingForward = [6]int32{0, 1, 2, 0, 2, 3}
	windingReverse = [6]int32{2, 1, 0, 3, 2, 0}

	quadUVs = [4]rl.Vector2{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
)

// Winding returns the index pattern for one quad. Reversed winding flips which
// side of the plane is the front face.
func Winding(reverse bool) [6]int32 {
	if reverse {
		return windingReverse
	}
	return windingForward
}

// Mesh is a CPU-side triangle mesh. Once built, only vertex positions, normals
// and UVs are rewritten; the counts and the index array never change.
type Mesh struct {
	Vertices  []rl.Vector3
	Normals   []rl.Vector3
	UVs       []rl.Vector2
	Triangles []int32
}

// NewQuadMesh builds a 4-vertex, 2-triangle mesh.
func NewQuadMesh(vertices [4]rl.Vector3, reverse bool) *Mesh {
	m := &Mesh{
		Vertices: make([]rl.Vector3, 4),
		Normals:  make([]rl.Vector3, 4),
		UVs:      make([]rl.Vector2, 4),
	}
	w := Winding(reverse)
	m.Triangles = w[:]
	m.SetQuad(vertices)
	return m
}

// SetQuad rewrites the four corners in place and refreshes normals and UVs.
func (m *Mesh) SetQuad(vertices [4]rl.Vector3) {
	copy(m.Vertices, vertices[:])
	copy(m.UVs, quadUVs[:])
	m.RecalculateNormals()
}

// NewGridMesh builds a plane of segments x segments cells spanning the quad
// corners. Vertices are row-major from the bottom edge up, so vertex i sits in
// row i/(segments+1).
func NewGridMesh(corners [4]rl.Vector3, segments int, reverse bool) *Mesh {
	side := segments + 1
	m := &Mesh{
		Vertices:  make([]rl.Vector3, side*side),
		Normals:   make([]rl.Vector3, side*side),
		UVs:       make([]rl.Vector2, side*side),
		Triangles: make([]int32, 0, segments*segments*6),
	}
	w := Winding(reverse)
	for r := 0; r < segments; r++ {
		for c := 0; c < segments; c++ {
			cell := [4]int32{
				int32(r*side + c),
				int32(r*side + c + 1),
				int32((r+1)*side + c + 1),
				int32((r+1)*side + c),
			}
			for _, k := range w {
				m.Triangles = append(m.Triangles, cell[k])
			}
		}
	}
	m.SetGrid(corners)
	return m
}

// SetGrid lays the grid vertices out bilinearly between the quad corners
// (bottom-left, bottom-right, top-right, top-left).
func (m *Mesh) SetGrid(corners [4]rl.Vector3) {
	side := gridSide(len(m.Vertices))
	segments := float32(side - 1)
	for i := range m.Vertices {
		u := float32(i%side) / segments
		v := float32(i/side) / segments
		bottom := rl.Vector3Lerp(corners[0], corners[1], u)
		top := rl.Vector3Lerp(corners[3], corners[2], u)
		m.Vertices[i] = rl.Vector3Lerp(bottom, top, v)
		m.UVs[i] = rl.Vector2{X: u, Y: v}
	}
	m.RecalculateNormals()
}

// RecalculateNormals averages face normals into each vertex. Vertices only
// touched by collapsed triangles keep a zero normal.
func (m *Mesh) RecalculateNormals() {
	for i := range m.Normals {
		m.Normals[i] = rl.Vector3Zero()
	}
	for t := 0; t+2 < len(m.Triangles); t += 3 {
		i0, i1, i2 := m.Triangles[t], m.Triangles[t+1], m.Triangles[t+2]
		v0, v1, v2 := m.Vertices[i0], m.Vertices[i1], m.Vertices[i2]
		n := rl.Vector3CrossProduct(rl.Vector3Subtract(v1, v0), rl.Vector3Subtract(v2, v0))
		m.Normals[i0] = rl.Vector3Add(m.Normals[i0], n)
		m.Normals[i1] = rl.Vector3Add(m.Normals[i1], n)
		m.Normals[i2] = rl.Vector3Add(m.Normals[i2], n)
	}
	for i := range m.Normals {
		m.Normals[i] = rl.Vector3Normalize(m.Normals[i])
	}
}

// Bounds returns the axis-aligned extent of the vertices.
func (m *Mesh) Bounds() (min, max rl.Vector3) {
	if len(m.Vertices) == 0 {
		return rl.Vector3{}, rl.Vector3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = vector3Min(min, v)
		max = vector3Max(max, v)
	}
	return min, max
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices:  append([]rl.Vector3(nil), m.Vertices...),
		Normals:   append([]rl.Vector3(nil), m.Normals...),
		UVs:       append([]rl.Vector2(nil), m.UVs...),
		Triangles: append([]int32(nil), m.Triangles...),
	}
}

func gridSide(n int) int {
	side := int(math.Sqrt(float64(n)))
	if side*side != n {
		return 0
	}
	return side
}

func finite(vs ...rl.Vector3) bool {
	for _, v := range vs {
		for _, f := range [3]float32{v.X, v.Y, v.Z} {
			if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
				return false
			}
		}
	}
	return true
}

func vector3Min(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: min32(a.X, b.X), Y: min32(a.Y, b.Y), Z: min32(a.Z, b.Z)}
}

func vector3Max(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: max32(a.X, b.X), Y: max32(a.Y, b.Y), Z: max32(a.Z, b.Z)}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
