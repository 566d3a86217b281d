package shadow

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orientation is the direction the player is looking along the level.
type Orientation int

const (
	OrientNone Orientation = iota
	OrientLeft
	OrientRight
)

func (o Orientation) String() string {
	switch o {
	case OrientLeft:
		return "left"
	case OrientRight:
		return "right"
	}
	return "none"
}

const (
	vectorTolerance = 1e-5
	dotThreshold    = 0.5
)

var (
	worldLeft = rl.Vector3{X: -1, Y: 0, Z: 0}

	// A player with no rotation looks along +X.
	quatRight = rl.QuaternionIdentity()
	quatLeft  = rl.QuaternionFromEuler(0, rl.Pi, 0)
)

// rotationMatrix follows GameObject.WorldPosition: X, then Y, then Z.
func rotationMatrix(eulerDeg rl.Vector3) rl.Matrix {
	rotX := rl.MatrixRotateX(eulerDeg.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(eulerDeg.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(eulerDeg.Z * rl.Deg2rad)
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

func transformDirection(eulerDeg, dir rl.Vector3) rl.Vector3 {
	return rl.Vector3Transform(dir, rotationMatrix(eulerDeg))
}

func sameDirection(a, b rl.Vector3) bool {
	return rl.Vector3Distance(a, b) < vectorTolerance
}

func quatDot(a, b rl.Quaternion) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// orient reads the player's orientation. back is the caster's back vector in
// world space and is only used by FacingForwardVector.
func orient(mode FacingMode, playerRot, back rl.Vector3) Orientation {
	switch mode {
	case FacingRightVector:
		if sameDirection(transformDirection(playerRot, rl.Vector3{X: 1}), worldLeft) {
			return OrientLeft
		}
		return OrientRight
	case FacingForwardVector:
		if sameDirection(transformDirection(playerRot, rl.Vector3{Z: 1}), back) {
			return OrientLeft
		}
		return OrientRight
	case FacingRotationDot:
		q := rl.QuaternionFromEuler(playerRot.X*rl.Deg2rad, playerRot.Y*rl.Deg2rad, playerRot.Z*rl.Deg2rad)
		// q and -q are the same rotation
		left := abs32(quatDot(q, quatLeft))
		right := abs32(quatDot(q, quatRight))
		switch {
		case left > dotThreshold && left >= right:
			return OrientLeft
		case right > dotThreshold:
			return OrientRight
		}
	}
	return OrientNone
}

// faces reports whether a player with orientation o looks at a caster dist
// units along X from it (dist = casterX - playerX).
func faces(o Orientation, dist float32) bool {
	switch o {
	case OrientLeft:
		return dist >= 0
	case OrientRight:
		return dist < 0
	}
	return false
}
