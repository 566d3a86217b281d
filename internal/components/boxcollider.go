package components

import (
	"shadowplay/internal/engine"
	"shadowplay/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BoxCollider is an axis-aligned box around the object. With Trigger set it
// only reports overlaps through engine.TriggerHandler.
type BoxCollider struct {
	engine.BaseComponent
	Size    rl.Vector3
	Offset  rl.Vector3
	Trigger bool
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{
		Size:   size,
		Offset: rl.Vector3{},
	}
}

// NewTriggerCollider creates a trigger volume of the given size.
func NewTriggerCollider(size rl.Vector3) *BoxCollider {
	return &BoxCollider{Size: size, Trigger: true}
}

func (b *BoxCollider) GetAABB() physics.AABB {
	g := b.GetGameObject()
	center := rl.Vector3Add(g.WorldPosition(), b.Offset)
	return physics.NewAABBFromCenter(center, b.Size)
}

func (b *BoxCollider) IsTrigger() bool {
	return b.Trigger
}
