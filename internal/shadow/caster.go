package shadow

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	// ShadowOffset keeps generated planes from z-fighting the wall and floor.
	ShadowOffset float32 = 0.01
	LevelHeight  float32 = 30.0
	LevelDepth   float32 = 50.0
)

// Caster is the object a shadow is generated for. Width and Height already
// include the configured scale factors.
type Caster struct {
	Name              string
	Origin            rl.Vector3
	Width             float32
	Height            float32
	Depth             float32
	HeightScaleOffset float32
	// Lifted is set while the caster's bottom is above the player's eyes.
	Lifted bool
}

// NewCaster measures a caster from its bounding-box size. Scaling the height
// keeps the plane centred on the object, so half the growth is recorded as
// HeightScaleOffset.
func NewCaster(name string, origin, size rl.Vector3, scaleWidth, scaleHeight float32) (Caster, error) {
	c := Caster{
		Name:              name,
		Origin:            origin,
		Width:             size.X * scaleWidth,
		Height:            size.Y * scaleHeight,
		Depth:             size.Z,
		HeightScaleOffset: (size.Y*scaleHeight - size.Y) / 2,
	}
	if err := c.validate(); err != nil {
		return Caster{}, err
	}
	return c, nil
}

func (c Caster) validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Depth <= 0 {
		return degenerate("caster", c.Name, "extent %.3gx%.3gx%.3g", c.Width, c.Height, c.Depth)
	}
	if !finite(c.Origin) {
		return degenerate("caster", c.Name, "origin %v", c.Origin)
	}
	return nil
}

// WallDistance is how far the caster's back face is from a wall at wallZ,
// minus ShadowOffset.
func (c Caster) WallDistance(wallZ float32) float32 {
	return abs32(c.Origin.Z-c.Depth/2-wallZ) - ShadowOffset
}

// Bottom is the world Y of the caster's lowest face.
func (c Caster) Bottom() float32 {
	return c.Origin.Y - c.Height/2
}

type edges struct {
	xMin, xMax    float32
	yFloor        float32
	zBack, zFront float32
}

func (c Caster) edges() edges {
	return edges{
		xMin:   c.Origin.X - c.Width/2,
		xMax:   c.Origin.X + c.Width/2,
		yFloor: c.Origin.Y - c.Height/2 + ShadowOffset,
		zBack:  c.Origin.Z - c.Depth/2,
		zFront: c.Origin.Z + c.Depth/2,
	}
}

// basePlanes returns the unskewed wall and floor quads for a wall wallDist
// behind the caster.
func (c Caster) basePlanes(wallDist float32) (vertical, horizontal [4]rl.Vector3) {
	e := c.edges()
	zWall := e.zBack - wallDist
	hso := c.HeightScaleOffset

	vertical = [4]rl.Vector3{
		{X: e.xMin, Y: e.yFloor + hso, Z: zWall},
		{X: e.xMin + c.Width, Y: e.yFloor + hso, Z: zWall},
		{X: e.xMin + c.Width, Y: e.yFloor + c.Height + hso, Z: zWall},
		{X: e.xMin, Y: e.yFloor + c.Height + hso, Z: zWall},
	}
	horizontal = [4]rl.Vector3{
		{X: e.xMin, Y: e.yFloor, Z: zWall},
		{X: e.xMin + c.Width, Y: e.yFloor, Z: zWall},
		{X: e.xMin + c.Width, Y: e.yFloor, Z: e.zBack},
		{X: e.xMin, Y: e.yFloor, Z: e.zBack},
	}
	return vertical, horizontal
}
