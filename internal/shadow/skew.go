package shadow

import rl "github.com/gen2brain/raylib-go/raylib"

// minDistZ guards the near/far ratios against a player level with a corner.
const minDistZ float32 = 1e-4

// Regime is where the player stands along X relative to the caster.
type Regime int

const (
	RegimeNone Regime = iota
	// RegimeRight: the player is past the caster's min-X edge (dist > width/2).
	RegimeRight
	// RegimeLeft: the player is past the caster's max-X edge (dist < -width/2).
	RegimeLeft
	// RegimeWithin: the player is inside the caster's own width.
	RegimeWithin
)

func (r Regime) String() string {
	switch r {
	case RegimeRight:
		return "right"
	case RegimeLeft:
		return "left"
	case RegimeWithin:
		return "within"
	}
	return "none"
}

func regimeFor(dist, width float32) Regime {
	switch {
	case dist > width/2:
		return RegimeRight
	case dist < -width/2:
		return RegimeLeft
	}
	return RegimeWithin
}

// trapezoid is one skew result. horizontal is unused when lifted.
type trapezoid struct {
	vertical   [4]rl.Vector3
	horizontal [4]rl.Vector3
	lifted     bool
}

func ratio(dx, dz float32) (float32, bool) {
	dz = abs32(dz)
	if dz < minDistZ {
		return 0, false
	}
	return abs32(dx) / dz, true
}

// wallSpan returns the X of the two vertical edges of the wall shadow for a
// player at (x, z). The ratios m = dx/dz stand in for a perspective
// projection of the caster's silhouette corners onto the wall.
func wallSpan(r Regime, e edges, width, wallDist, x, z float32) (lo, hi float32, err error) {
	var mA, mB float32
	var okA, okB bool
	switch r {
	case RegimeRight:
		// near edge from the back corner, far edge from the front corner
		mA, okA = ratio(x-e.xMin, z-e.zBack)
		mB, okB = ratio(x-e.xMax, z-e.zFront)
		lo = e.xMin + mA*wallDist
		hi = e.xMax - width + mB*wallDist
	case RegimeLeft:
		mA, okA = ratio(e.xMax-x, z-e.zBack)
		mB, okB = ratio(e.xMin-x, z-e.zFront)
		lo = e.xMin + width - mB*wallDist
		hi = e.xMax - mA*wallDist
	case RegimeWithin:
		// both silhouette edges come from the front corners
		mA, okA = ratio(x-e.xMin, z-e.zFront)
		mB, okB = ratio(e.xMax-x, z-e.zFront)
		lo = e.xMin - mA*wallDist
		hi = e.xMax + mB*wallDist
	default:
		return 0, 0, degenerate("skew", "", "no regime")
	}
	if !okA || !okB {
		return 0, 0, degenerate("skew", "", "player at grazing depth z=%g", z)
	}
	return lo, hi, nil
}

// computeTrapezoid retargets the base quads for a player at pos. eyeY is the
// player's eye height in world space; lifted casters are anchored above
// their top face instead of on the floor.
func computeTrapezoid(c Caster, wallDist float32, pos rl.Vector3, eyeY float32, lifted bool) (trapezoid, Regime, error) {
	e := c.edges()
	dist := c.Origin.X - pos.X
	r := regimeFor(dist, c.Width)

	lo, hi, err := wallSpan(r, e, c.Width, wallDist, pos.X, pos.Z)
	if err != nil {
		return trapezoid{}, r, err
	}
	zWall := e.zBack - wallDist

	var t trapezoid
	if lifted {
		t.lifted = true
		top := c.Origin.Y + c.Height/2 + ShadowOffset
		mBase, okBase := ratio(top-eyeY, pos.Z-e.zBack)
		mTop, okTop := ratio(top+c.Height-eyeY, pos.Z-e.zBack)
		if !okBase || !okTop {
			return trapezoid{}, r, degenerate("skew", "", "player at grazing depth z=%g", pos.Z)
		}
		baseY := top + mBase*wallDist
		topY := top + c.Height + mTop*wallDist
		spread := (mTop - mBase) * wallDist / 2
		t.vertical = [4]rl.Vector3{
			{X: lo, Y: baseY, Z: zWall},
			{X: hi, Y: baseY, Z: zWall},
			{X: hi + spread, Y: topY, Z: zWall},
			{X: lo - spread, Y: topY, Z: zWall},
		}
	} else {
		t.vertical = [4]rl.Vector3{
			{X: lo, Y: e.yFloor, Z: zWall},
			{X: hi, Y: e.yFloor, Z: zWall},
			{X: hi, Y: e.yFloor + c.Height, Z: zWall},
			{X: lo, Y: e.yFloor + c.Height, Z: zWall},
		}
		switch r {
		case RegimeRight:
			t.horizontal = [4]rl.Vector3{
				{X: lo, Y: e.yFloor, Z: zWall},
				{X: hi, Y: e.yFloor, Z: zWall},
				{X: e.xMax, Y: e.yFloor, Z: e.zFront},
				{X: e.xMin, Y: e.yFloor, Z: e.zBack},
			}
		case RegimeLeft:
			t.horizontal = [4]rl.Vector3{
				{X: lo, Y: e.yFloor, Z: zWall},
				{X: hi, Y: e.yFloor, Z: zWall},
				{X: e.xMax, Y: e.yFloor, Z: e.zBack},
				{X: e.xMin, Y: e.yFloor, Z: e.zFront},
			}
		default:
			t.horizontal = [4]rl.Vector3{
				{X: lo, Y: e.yFloor, Z: zWall},
				{X: hi, Y: e.yFloor, Z: zWall},
				{X: e.xMax, Y: e.yFloor, Z: e.zFront},
				{X: e.xMin, Y: e.yFloor, Z: e.zFront},
			}
		}
	}

	if !finite(t.vertical[:]...) || !finite(t.horizontal[:]...) {
		return trapezoid{}, r, degenerate("skew", "", "non-finite vertex for player %v", pos)
	}
	return t, r, nil
}
