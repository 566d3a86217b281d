package components

import (
	"shadowplay/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Camera follows a target object from a fixed side offset, the way the
// level is viewed in a 2.5D side-scroller.
type Camera struct {
	engine.BaseComponent
	FOV        float32
	Projection rl.CameraProjection
	Offset     rl.Vector3
	// Smoothing is the fraction of the remaining distance covered per second.
	Smoothing float32
	Target    *engine.GameObject

	position rl.Vector3
	placed   bool
}

func NewCamera() *Camera {
	return &Camera{
		FOV:        45.0,
		Projection: rl.CameraPerspective,
		Offset:     rl.Vector3{X: 0, Y: 6, Z: 28},
		Smoothing:  4,
	}
}

func (c *Camera) Update(deltaTime float32) {
	goal, ok := c.goal()
	if !ok {
		return
	}
	if !c.placed || c.Smoothing <= 0 {
		c.position = goal
		c.placed = true
		return
	}
	t := c.Smoothing * deltaTime
	if t > 1 {
		t = 1
	}
	c.position = rl.Vector3Lerp(c.position, goal, t)
}

func (c *Camera) goal() (rl.Vector3, bool) {
	if c.Target != nil {
		return rl.Vector3Add(c.focus(), c.Offset), true
	}
	if g := c.GetGameObject(); g != nil {
		return g.WorldPosition(), true
	}
	return rl.Vector3{}, false
}

// focus is the point the camera looks at: the target's eye if it has one.
func (c *Camera) focus() rl.Vector3 {
	p := c.Target.WorldPosition()
	if lp := engine.FindComponent[engine.LookProvider](c.Target); lp != nil {
		p.Y += lp.GetEyeHeight()
	}
	return p
}

// Position returns the current smoothed eye position.
func (c *Camera) Position() rl.Vector3 {
	return c.position
}

func (c *Camera) GetRaylibCamera() rl.Camera3D {
	target := c.position
	if c.Target != nil {
		target = c.focus()
	} else {
		target.Z--
	}
	return rl.Camera3D{
		Position:   c.position,
		Target:     target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       c.FOV,
		Projection: c.Projection,
	}
}
