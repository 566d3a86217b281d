package world

import (
	"shadowplay/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum holds the 6 clip planes of a view frustum: left, right, bottom,
// top, near, far.
type Frustum struct {
	planes [6]clipPlane
}

// clipPlane is ax + by + cz + d = 0 with a unit normal pointing inside.
type clipPlane struct {
	normal   rl.Vector3
	distance float32
}

// ExtractFrustum builds the frustum of camera using the Gribb/Hartmann
// method on its view-projection matrix.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	view := rl.MatrixLookAt(camera.Position, camera.Target, camera.Up)

	var proj rl.Matrix
	if camera.Projection == rl.CameraPerspective {
		proj = rl.MatrixPerspective(camera.Fovy*rl.Deg2rad, aspect, 0.1, 1000.0)
	} else {
		halfH := camera.Fovy / 2.0
		halfW := halfH * aspect
		proj = rl.MatrixOrtho(-halfW, halfW, -halfH, halfH, 0.1, 1000.0)
	}

	// VP = P * V
	vp := rl.MatrixMultiply(view, proj)

	rows := [4][4]float32{
		{vp.M0, vp.M4, vp.M8, vp.M12},
		{vp.M1, vp.M5, vp.M9, vp.M13},
		{vp.M2, vp.M6, vp.M10, vp.M14},
		{vp.M3, vp.M7, vp.M11, vp.M15},
	}

	var f Frustum
	for i := 0; i < 3; i++ {
		f.planes[i*2] = planeFromRow(rows[3], rows[i], 1)
		f.planes[i*2+1] = planeFromRow(rows[3], rows[i], -1)
	}
	return f
}

// planeFromRow returns the normalised plane w + sign*row.
func planeFromRow(w, row [4]float32, sign float32) clipPlane {
	p := clipPlane{
		normal: rl.Vector3{
			X: w[0] + sign*row[0],
			Y: w[1] + sign*row[1],
			Z: w[2] + sign*row[2],
		},
		distance: w[3] + sign*row[3],
	}
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	p.normal = rl.Vector3Scale(p.normal, 1.0/length)
	p.distance /= length
	return p
}

// ContainsSphere tests if a sphere is inside or intersects the frustum.
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		if dist < -radius {
			return false
		}
	}
	return true
}

// ContainsAABB tests the box corner furthest along each plane normal. Boxes
// straddling a frustum corner may pass; that only costs a draw.
func (f *Frustum) ContainsAABB(box physics.AABB) bool {
	for i := range f.planes {
		n := f.planes[i].normal
		p := box.Min
		if n.X >= 0 {
			p.X = box.Max.X
		}
		if n.Y >= 0 {
			p.Y = box.Max.Y
		}
		if n.Z >= 0 {
			p.Z = box.Max.Z
		}
		if rl.Vector3DotProduct(n, p)+f.planes[i].distance < 0 {
			return false
		}
	}
	return true
}
