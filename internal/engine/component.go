package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// LookProvider is implemented by components that expose where an object is looking.
// The follow camera and the shadow scripts read eye height through it.
type LookProvider interface {
	GetLookDirection() (x, y, z float32)
	GetEyeHeight() float32
}

// TriggerHandler is implemented by components that want trigger volume callbacks.
// The trigger dispatcher calls these on every component of the trigger's GameObject.
type TriggerHandler interface {
	OnTriggerEnter(other *GameObject)
	OnTriggerStay(other *GameObject)
	OnTriggerExit(other *GameObject)
}

// Destroyer is implemented by components that hold resources released when
// their GameObject leaves the scene.
type Destroyer interface {
	OnDestroy()
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}
