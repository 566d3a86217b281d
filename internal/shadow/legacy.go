package shadow

import rl "github.com/gen2brain/raylib-go/raylib"

// SkewState holds the per-vertex shear ramp for a subdivided wall plane.
// Vertex i gets row(i)/skewAmount, so higher rows shear further.
type SkewState struct {
	Skew []rl.Vector3
	base []rl.Vector3
}

// NewSkewState detects the square vertex grid of m and precomputes the ramp.
// The current vertices become the rest pose.
func NewSkewState(m *Mesh, skewAmount float32) (*SkewState, error) {
	side := gridSide(len(m.Vertices))
	if side < 2 {
		return nil, degenerate("legacy skew", "", "%d vertices do not form a square grid", len(m.Vertices))
	}
	if skewAmount == 0 {
		return nil, degenerate("legacy skew", "", "skew amount is zero")
	}
	s := &SkewState{
		Skew: make([]rl.Vector3, len(m.Vertices)),
	}
	for i := range s.Skew {
		row := i / side
		s.Skew[i] = rl.Vector3{X: float32(row) / skewAmount}
	}
	s.Rebase(m)
	return s, nil
}

// Rebase records the mesh's current vertices as the rest pose.
func (s *SkewState) Rebase(m *Mesh) {
	s.base = append(s.base[:0], m.Vertices...)
}

// Apply shears m in place for a player dist units from the caster.
func (s *SkewState) Apply(m *Mesh, dist float32) error {
	if len(m.Vertices) != len(s.base) {
		return degenerate("legacy skew", "", "mesh has %d vertices, state has %d", len(m.Vertices), len(s.base))
	}
	if !finite(rl.Vector3{X: dist}) {
		return degenerate("legacy skew", "", "non-finite distance %g", dist)
	}
	for i, orig := range s.base {
		v := orig
		v.X = orig.X + dist/10 + s.Skew[i].X*dist
		m.Vertices[i] = v
	}
	m.RecalculateNormals()
	return nil
}
