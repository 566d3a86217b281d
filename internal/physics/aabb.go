package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	half := rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

// NewAABBFromPoints returns the smallest box containing every point.
func NewAABBFromPoints(points []rl.Vector3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = rl.Vector3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
		box.Max = rl.Vector3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
	}
	return box
}

// Thicken grows any axis thinner than t to t, keeping the box centred.
// Flat shadow planes need some depth to be stood on.
func (a AABB) Thicken(t float32) AABB {
	grow := func(lo, hi float32) (float32, float32) {
		if hi-lo >= t {
			return lo, hi
		}
		mid := (lo + hi) / 2
		return mid - t/2, mid + t/2
	}
	a.Min.X, a.Max.X = grow(a.Min.X, a.Max.X)
	a.Min.Y, a.Max.Y = grow(a.Min.Y, a.Max.Y)
	a.Min.Z, a.Max.Z = grow(a.Min.Z, a.Max.Z)
	return a
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	dx1 := b.Max.X - a.Min.X // push a in +X
	dx2 := a.Max.X - b.Min.X // push a in -X
	dy1 := b.Max.Y - a.Min.Y // push a in +Y
	dy2 := a.Max.Y - b.Min.Y // push a in -Y
	dz1 := b.Max.Z - a.Min.Z // push a in +Z
	dz2 := a.Max.Z - b.Min.Z // push a in -Z

	// shallowest axis wins
	depth := dx1
	result := rl.Vector3{X: dx1}
	if dx2 < depth {
		depth = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < depth {
		depth = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < depth {
		depth = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < depth {
		depth = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < depth {
		result = rl.Vector3{Z: -dz2}
	}
	return result
}
