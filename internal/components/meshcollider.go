package components

import (
	"math"

	"shadowplay/internal/engine"
	"shadowplay/internal/physics"
	"shadowplay/internal/shadow"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// colliderThickness gives flat shadow planes enough depth for box tests.
const colliderThickness float32 = 0.2

// Triangle represents a single triangle with precomputed normal
type Triangle struct {
	V0, V1, V2 rl.Vector3
	Normal     rl.Vector3
}

// MeshCollider collides against the triangles of a procedural mesh given in
// world space. Call Build again whenever the mesh changes.
type MeshCollider struct {
	engine.BaseComponent
	Triangles []Triangle
	bounds    physics.AABB
	built     bool
}

func NewMeshCollider() *MeshCollider {
	return &MeshCollider{}
}

// Build extracts triangles from m. The triangle slice is reused between
// builds since shadow meshes never change topology.
func (m *MeshCollider) Build(mesh *shadow.Mesh) {
	m.Triangles = m.Triangles[:0]
	for t := 0; t+2 < len(mesh.Triangles); t += 3 {
		v0 := mesh.Vertices[mesh.Triangles[t]]
		v1 := mesh.Vertices[mesh.Triangles[t+1]]
		v2 := mesh.Vertices[mesh.Triangles[t+2]]

		normal := rl.Vector3CrossProduct(rl.Vector3Subtract(v1, v0), rl.Vector3Subtract(v2, v0))
		normal = rl.Vector3Normalize(normal)

		m.Triangles = append(m.Triangles, Triangle{V0: v0, V1: v1, V2: v2, Normal: normal})
	}
	m.bounds = physics.NewAABBFromPoints(mesh.Vertices).Thicken(colliderThickness)
	m.built = len(m.Triangles) > 0
}

// Clear drops all triangles; the collider stops reporting hits.
func (m *MeshCollider) Clear() {
	m.Triangles = nil
	m.bounds = physics.AABB{}
	m.built = false
}

func (m *MeshCollider) IsBuilt() bool {
	return m.built
}

func (m *MeshCollider) TriangleCount() int {
	return len(m.Triangles)
}

// GetAABB returns the thickened bounds of the mesh.
func (m *MeshCollider) GetAABB() physics.AABB {
	return m.bounds
}

// SphereIntersect tests if a sphere intersects the mesh and returns push-out vector
func (m *MeshCollider) SphereIntersect(center rl.Vector3, radius float32) (bool, rl.Vector3) {
	if !m.built {
		return false, rl.Vector3{}
	}

	query := physics.NewAABBFromCenter(center, rl.Vector3{X: radius * 2, Y: radius * 2, Z: radius * 2})
	if !query.Intersects(m.bounds) {
		return false, rl.Vector3{}
	}

	var totalPush rl.Vector3
	hit := false
	for i := range m.Triangles {
		collides, push := sphereTriangleIntersect(center, radius, &m.Triangles[i])
		if !collides {
			continue
		}
		// keep the largest push per axis
		if abs(push.X) > abs(totalPush.X) {
			totalPush.X = push.X
		}
		if abs(push.Y) > abs(totalPush.Y) {
			totalPush.Y = push.Y
		}
		if abs(push.Z) > abs(totalPush.Z) {
			totalPush.Z = push.Z
		}
		hit = true
	}
	return hit, totalPush
}

func abs(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// sphereTriangleIntersect tests sphere vs triangle and returns push vector
func sphereTriangleIntersect(center rl.Vector3, radius float32, tri *Triangle) (bool, rl.Vector3) {
	closest := closestPointOnTriangle(center, tri.V0, tri.V1, tri.V2)

	diff := rl.Vector3Subtract(center, closest)
	distSq := rl.Vector3DotProduct(diff, diff)
	if distSq >= radius*radius {
		return false, rl.Vector3{}
	}

	dist := float32(math.Sqrt(float64(distSq)))
	if dist < 0.0001 {
		// center on the triangle: push along the normal
		return true, rl.Vector3Scale(tri.Normal, radius)
	}
	return true, rl.Vector3Scale(diff, (radius-dist)/dist)
}

// closestPointOnTriangle finds the closest point on triangle abc to p by
// walking the Voronoi regions of its vertices, edges and face.
func closestPointOnTriangle(p, a, b, c rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v))
	}

	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w))
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}
