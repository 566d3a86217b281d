package components

import (
	"shadowplay/internal/engine"
	"shadowplay/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CharacterController moves a side-scrolling character with gravity, pushing
// it out of solid box colliders and shadow meshes. The object's position is
// at its feet.
type CharacterController struct {
	engine.BaseComponent

	Height    float32
	Radius    float32
	Speed     float32
	JumpSpeed float32
	EyeHeight float32

	UseGravity bool
	Gravity    float32
	// KillY respawns the character when it falls below this height.
	KillY float32

	// Runtime state
	input      float32
	depth      float32
	jump       bool
	velocity   rl.Vector3
	isGrounded bool
	spawn      rl.Vector3
}

func NewCharacterController() *CharacterController {
	return &CharacterController{
		Height:     1.8,
		Radius:     0.4,
		Speed:      8,
		JumpSpeed:  9,
		EyeHeight:  1.6,
		UseGravity: true,
		Gravity:    20,
		KillY:      -20,
	}
}

func (c *CharacterController) Start() {
	if g := c.GetGameObject(); g != nil {
		c.spawn = g.Transform.Position
	}
}

// SetInput sets this frame's walk input along X and into the level along Z,
// each in [-1, 1]. jump is consumed on the next grounded update.
func (c *CharacterController) SetInput(walk, depth float32, jump bool) {
	c.input = walk
	c.depth = depth
	c.jump = c.jump || jump
}

func (c *CharacterController) Update(deltaTime float32) {
	g := c.GetGameObject()
	if g == nil {
		return
	}

	// Turning is a hard flip: the level is only ever seen side on. The model
	// looks down its local -X axis, so walking toward +X is a yaw of 180.
	if c.input > 0 {
		g.Transform.Rotation.Y = 180
	} else if c.input < 0 {
		g.Transform.Rotation.Y = 0
	}

	if c.UseGravity {
		if c.isGrounded && c.jump {
			c.velocity.Y = c.JumpSpeed
		} else if !c.isGrounded || c.velocity.Y > 0 {
			c.velocity.Y -= c.Gravity * deltaTime
		} else {
			c.velocity.Y = -0.1
		}
	}
	c.jump = false

	motion := rl.Vector3{
		X: c.input * c.Speed * deltaTime,
		Y: c.velocity.Y * deltaTime,
		Z: c.depth * c.Speed * deltaTime,
	}
	c.isGrounded = false
	c.Move(motion)

	if g.Transform.Position.Y < c.KillY {
		c.Respawn()
	}
}

// Respawn puts the character back where it started.
func (c *CharacterController) Respawn() {
	if g := c.GetGameObject(); g != nil {
		g.Transform.Position = c.spawn
	}
	c.velocity = rl.Vector3{}
	c.isGrounded = false
}

// Move moves the character by motion, horizontal first, and returns the
// displacement left after collisions.
func (c *CharacterController) Move(motion rl.Vector3) rl.Vector3 {
	g := c.GetGameObject()
	if g == nil {
		return rl.Vector3{}
	}
	original := g.Transform.Position

	var colliders []*engine.GameObject
	if g.Scene != nil {
		colliders = collidables(g.Scene.GameObjects, g, nil)
	}

	horizontal := rl.Vector3{X: motion.X, Z: motion.Z}
	if horizontal.X != 0 || horizontal.Z != 0 {
		c.moveWithCollision(g, horizontal, colliders)
	}
	if motion.Y != 0 {
		c.moveWithCollision(g, rl.Vector3{Y: motion.Y}, colliders)
	}
	return rl.Vector3Subtract(g.Transform.Position, original)
}

func (c *CharacterController) bounds(g *engine.GameObject) physics.AABB {
	center := g.Transform.Position
	center.Y += c.Height / 2
	return physics.NewAABBFromCenter(center, rl.Vector3{X: c.Radius * 2, Y: c.Height, Z: c.Radius * 2})
}

func (c *CharacterController) moveWithCollision(g *engine.GameObject, motion rl.Vector3, colliders []*engine.GameObject) {
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, motion)

	for _, other := range colliders {
		var push rl.Vector3
		if box := engine.GetComponent[*BoxCollider](other); box != nil && !box.IsTrigger() {
			push = c.bounds(g).Resolve(box.GetAABB())
		} else if mesh := engine.GetComponent[*MeshCollider](other); mesh != nil {
			push = c.meshPush(g, mesh)
		} else {
			continue
		}
		if push == (rl.Vector3{}) {
			continue
		}
		// only push back along the axis we moved on, plus upward for floors
		if motion.Y == 0 {
			if push.Y > 0 && push.Y <= c.Radius {
				push = rl.Vector3{Y: push.Y}
			} else {
				push.Y = 0
			}
		}
		g.Transform.Position = rl.Vector3Add(g.Transform.Position, push)
		if push.Y > 0 {
			c.isGrounded = true
			c.velocity.Y = 0
		} else if push.Y < 0 && c.velocity.Y > 0 {
			c.velocity.Y = 0
		}
	}
}

// meshPush tests the feet and head spheres against a shadow mesh.
func (c *CharacterController) meshPush(g *engine.GameObject, mesh *MeshCollider) rl.Vector3 {
	if !mesh.GetAABB().Intersects(c.bounds(g)) {
		return rl.Vector3{}
	}
	feet := g.Transform.Position
	feet.Y += c.Radius
	head := g.Transform.Position
	head.Y += c.Height - c.Radius

	var total rl.Vector3
	for _, center := range []rl.Vector3{feet, head} {
		if hit, push := mesh.SphereIntersect(center, c.Radius); hit {
			total = rl.Vector3Add(total, push)
		}
	}
	return total
}

// GetAABB makes the character a solid body for trigger volumes.
func (c *CharacterController) GetAABB() physics.AABB {
	g := c.GetGameObject()
	if g == nil {
		return physics.AABB{}
	}
	return c.bounds(g)
}

func (c *CharacterController) IsGrounded() bool {
	return c.isGrounded
}

func (c *CharacterController) GetVelocity() rl.Vector3 {
	return c.velocity
}

// GetLookDirection implements engine.LookProvider.
func (c *CharacterController) GetLookDirection() (x, y, z float32) {
	if g := c.GetGameObject(); g != nil && g.Transform.Rotation.Y == 180 {
		return 1, 0, 0
	}
	return -1, 0, 0
}

// GetEyeHeight implements engine.LookProvider.
func (c *CharacterController) GetEyeHeight() float32 {
	return c.EyeHeight
}

func collidables(objects []*engine.GameObject, self *engine.GameObject, out []*engine.GameObject) []*engine.GameObject {
	for _, o := range objects {
		if o == self || !o.Active {
			continue
		}
		out = append(out, o)
		out = collidables(o.Children, self, out)
	}
	return out
}
