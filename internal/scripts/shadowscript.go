package scripts

import (
	"errors"
	"fmt"
	"sync"

	"shadowplay/internal/components"
	"shadowplay/internal/engine"
	"shadowplay/internal/shadow"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const (
	DefaultWallName   = "BackWall"
	DefaultPlayerName = "Player"
	// ShadowTag marks generated plane objects so scene files skip them.
	ShadowTag = "Shadow"
)

var shadowColor = rl.Color{R: 24, G: 22, B: 34, A: 230}

var (
	defaultsMu     sync.RWMutex
	shadowDefaults = shadow.DefaultConfig()
)

// SetShadowDefaults sets the tuning new ShadowScripts start from before their
// own props are applied.
func SetShadowDefaults(cfg shadow.Config) {
	defaultsMu.Lock()
	shadowDefaults = cfg
	defaultsMu.Unlock()
}

func ShadowDefaults() shadow.Config {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return shadowDefaults
}

// ShadowScript casts a walkable shadow from its GameObject onto the back wall
// while the player is inside its trigger zone and looking at it.
type ShadowScript struct {
	engine.BaseComponent
	Config     shadow.Config
	Wall       engine.GameObjectRef
	Player     engine.GameObjectRef
	WallName   string
	PlayerName string

	// ShadowChanged fires with the new state whenever the planes appear or
	// disappear.
	ShadowChanged engine.EventWithArg[bool]

	log     *zap.Logger
	shadows *shadow.Engine
	trigger *components.BoxCollider
	player  *engine.GameObject
	planes  map[*shadow.Plane]*engine.GameObject
	active  bool
	started bool
	err     error
}

func NewShadowScript(cfg shadow.Config) *ShadowScript {
	return &ShadowScript{
		Config:     cfg,
		WallName:   DefaultWallName,
		PlayerName: DefaultPlayerName,
		log:        zap.NewNop(),
		planes:     make(map[*shadow.Plane]*engine.GameObject),
	}
}

// SetLogger is called by the world when the script is spawned.
func (s *ShadowScript) SetLogger(l *zap.Logger) {
	if l != nil {
		s.log = l
	}
}

// Engine returns the shadow engine, or nil before Start or after a failed setup.
func (s *ShadowScript) Engine() *shadow.Engine {
	return s.shadows
}

// Err returns the last setup or skew error.
func (s *ShadowScript) Err() error {
	return s.err
}

// TriggerCollider returns the trigger volume added in Start.
func (s *ShadowScript) TriggerCollider() *components.BoxCollider {
	return s.trigger
}

func (s *ShadowScript) Active() bool {
	return s.shadows != nil && s.shadows.Active()
}

func (s *ShadowScript) Start() {
	g := s.GetGameObject()
	if g == nil {
		return
	}
	s.started = true
	if err := s.setup(g); err != nil {
		s.err = err
		s.log.Error("shadow script disabled", zap.String("object", g.Name), zap.Error(err))
		return
	}
	if s.Config.CreateOnStart {
		s.run(s.shadows.Activate)
	}
}

func (s *ShadowScript) setup(g *engine.GameObject) error {
	if g.Scene == nil {
		return fmt.Errorf("%s: not in a scene: %w", g.Name, shadow.ErrMissingReference)
	}
	size, ok := casterSize(g)
	if !ok {
		return fmt.Errorf("%s: no renderer or collider to measure: %w", g.Name, shadow.ErrDegenerateGeometry)
	}
	caster, err := shadow.NewCaster(g.Name, g.WorldPosition(), size, s.Config.ScaleWidth, s.Config.ScaleHeight)
	if err != nil {
		return err
	}

	var wall shadow.Anchor
	if w := s.Wall.Resolve(g.Scene, s.WallName); w != nil {
		wall = w
	}
	var player shadow.Observer
	if p := s.Player.Resolve(g.Scene, s.PlayerName); p != nil {
		player = p
		s.player = p
		if lp := engine.FindComponent[engine.LookProvider](p); lp != nil {
			s.Config.EyeHeight = lp.GetEyeHeight()
		}
	}

	back := rl.Vector3Transform(rl.Vector3{Z: -1}, rl.MatrixRotateY(g.WorldRotation().Y*rl.Deg2rad))
	e, err := shadow.NewEngine(s.Config, caster, wall, player, s,
		shadow.WithLogger(s.log),
		shadow.WithBackVector(back))
	if err != nil {
		return err
	}
	s.shadows = e

	if s.trigger == nil {
		s.trigger = components.NewTriggerCollider(rl.Vector3{
			X: s.Config.TriggerDistance,
			Y: shadow.LevelHeight,
			Z: shadow.LevelDepth,
		})
		g.AddComponent(s.trigger)
	} else {
		s.trigger.Size.X = s.Config.TriggerDistance
	}
	return nil
}

// casterSize reads the caster's extent from its renderer, falling back to a
// solid box collider.
func casterSize(g *engine.GameObject) (rl.Vector3, bool) {
	scale := g.WorldScale()
	if r := engine.GetComponent[*components.MeshRenderer](g); r != nil && r.MeshType == components.MeshCube {
		return rl.Vector3Multiply(r.Size, scale), true
	}
	for _, c := range g.Components() {
		if box, ok := c.(*components.BoxCollider); ok && !box.IsTrigger() {
			return rl.Vector3Multiply(box.Size, scale), true
		}
	}
	return rl.Vector3{}, false
}

// Update keeps the planes attached to a moving caster.
func (s *ShadowScript) Update(deltaTime float32) {
	if s.shadows == nil {
		return
	}
	s.run(func() error {
		_, err := s.shadows.Verify(s.GetGameObject().WorldPosition())
		return err
	})
}

func (s *ShadowScript) OnTriggerEnter(other *engine.GameObject) {
	if s.shadows == nil || other != s.player {
		return
	}
	s.run(s.shadows.Activate)
}

func (s *ShadowScript) OnTriggerStay(other *engine.GameObject) {
	if s.shadows == nil || other != s.player {
		return
	}
	s.run(s.shadows.Skew)
}

func (s *ShadowScript) OnTriggerExit(other *engine.GameObject) {
	if s.shadows == nil || other != s.player {
		return
	}
	s.run(func() error {
		s.shadows.Deactivate()
		return nil
	})
}

func (s *ShadowScript) OnDestroy() {
	if s.shadows == nil {
		return
	}
	s.run(func() error {
		s.shadows.Deactivate()
		return nil
	})
}

// run calls op and fires ShadowChanged if the planes came or went.
func (s *ShadowScript) run(op func() error) {
	if err := op(); err != nil {
		s.err = err
		var ge *shadow.GeometryError
		if !errors.As(err, &ge) {
			s.log.Error("shadow update failed", zap.Error(err))
		}
	}
	if now := s.Active(); now != s.active {
		s.active = now
		s.ShadowChanged.Invoke(now)
	}
}

// rebuild tears the engine down and sets it up again with the current props.
// A shadow that was up is rebuilt straight away.
func (s *ShadowScript) rebuild() {
	g := s.GetGameObject()
	if g == nil || !s.started {
		return
	}
	wasActive := s.Active()
	if s.shadows != nil {
		s.shadows.Deactivate()
	}
	s.shadows = nil
	s.err = nil
	if err := s.setup(g); err != nil {
		s.err = err
		s.log.Error("shadow script disabled", zap.String("object", g.Name), zap.Error(err))
		s.run(func() error { return nil })
		return
	}
	if wasActive {
		s.run(s.shadows.Activate)
	}
}

// CreatePlane implements shadow.Sink. Planes become top-level objects since
// their vertices are already in world space.
func (s *ShadowScript) CreatePlane(p *shadow.Plane) error {
	g := s.GetGameObject()
	if g == nil || g.Scene == nil {
		return fmt.Errorf("plane %s: %w", p.Name, shadow.ErrMissingReference)
	}
	obj := engine.NewGameObject(p.Name)
	obj.Tags = []string{ShadowTag}
	obj.AddComponent(components.NewProceduralRenderer(p.Mesh, p.Material, shadowColor))
	collider := components.NewMeshCollider()
	collider.Build(p.Mesh)
	obj.AddComponent(collider)
	obj.Start()

	if g.Scene.World != nil {
		g.Scene.World.SpawnObject(obj)
	} else {
		g.Scene.AddGameObject(obj)
	}
	s.planes[p] = obj
	return nil
}

// UpdatePlane implements shadow.Sink.
func (s *ShadowScript) UpdatePlane(p *shadow.Plane) {
	obj, ok := s.planes[p]
	if !ok {
		return
	}
	if mc := engine.GetComponent[*components.MeshCollider](obj); mc != nil {
		mc.Build(p.Mesh)
	}
	if r := engine.GetComponent[*components.MeshRenderer](obj); r != nil {
		r.Mesh = p.Mesh
	}
}

// DestroyPlane implements shadow.Sink.
func (s *ShadowScript) DestroyPlane(p *shadow.Plane) {
	obj, ok := s.planes[p]
	if !ok {
		return
	}
	delete(s.planes, p)
	if obj.Scene == nil {
		return
	}
	if obj.Scene.World != nil {
		obj.Scene.World.Destroy(obj)
	} else {
		obj.Scene.RemoveGameObject(obj)
	}
}

func init() {
	engine.RegisterScriptWithMetadata("ShadowScript", shadowFactory, shadowSerializer, shadowApplier,
		map[string]string{
			"wall":   "GameObjectRef",
			"player": "GameObjectRef",
		})
}

func shadowFactory(props map[string]any) engine.Component {
	s := NewShadowScript(ShadowDefaults())
	for key, value := range props {
		if _, err := s.apply(key, value); err != nil {
			s.err = err
		}
	}
	return s
}

func shadowSerializer(c engine.Component) map[string]any {
	s, ok := c.(*ShadowScript)
	if !ok {
		return nil
	}
	cfg := s.Config
	return map[string]any{
		"material":          cfg.Material,
		"reverseTriWinding": cfg.ReverseTriWinding,
		"scaleWidth":        cfg.ScaleWidth,
		"scaleHeight":       cfg.ScaleHeight,
		"triggerDistance":   cfg.TriggerDistance,
		"skewAmount":        cfg.SkewAmount,
		"subdivisions":      cfg.Subdivisions,
		"facing":            cfg.Facing.String(),
		"skewMode":          cfg.SkewMode.String(),
		"lifted":            cfg.Lifted,
		"createOnStart":     cfg.CreateOnStart,
		"wall":              s.Wall.UID,
		"player":            s.Player.UID,
		"wallName":          s.WallName,
		"playerName":        s.PlayerName,
	}
}

func shadowApplier(c engine.Component, propName string, value any) bool {
	s, ok := c.(*ShadowScript)
	if !ok {
		return false
	}
	ok, err := s.apply(propName, value)
	if err != nil {
		s.err = err
		s.log.Warn("shadow prop rejected", zap.String("prop", propName), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}
	s.rebuild()
	return true
}

// apply sets one prop. Unknown names report false; bad mode names return an
// error and leave the previous value.
func (s *ShadowScript) apply(key string, value any) (bool, error) {
	props := map[string]any{key: value}
	cfg := &s.Config
	switch key {
	case "material":
		cfg.Material = engine.PropString(props, key, cfg.Material)
	case "reverseTriWinding":
		cfg.ReverseTriWinding = engine.PropBool(props, key, cfg.ReverseTriWinding)
	case "scaleWidth":
		cfg.ScaleWidth = engine.PropFloat(props, key, cfg.ScaleWidth)
	case "scaleHeight":
		cfg.ScaleHeight = engine.PropFloat(props, key, cfg.ScaleHeight)
	case "triggerDistance":
		cfg.TriggerDistance = engine.PropFloat(props, key, cfg.TriggerDistance)
	case "skewAmount":
		cfg.SkewAmount = engine.PropFloat(props, key, cfg.SkewAmount)
	case "subdivisions":
		cfg.Subdivisions = int(engine.PropFloat(props, key, float32(cfg.Subdivisions)))
	case "facing":
		m, err := shadow.ParseFacingMode(engine.PropString(props, key, cfg.Facing.String()))
		if err != nil {
			return false, err
		}
		cfg.Facing = m
	case "skewMode":
		m, err := shadow.ParseSkewMode(engine.PropString(props, key, cfg.SkewMode.String()))
		if err != nil {
			return false, err
		}
		cfg.SkewMode = m
	case "lifted":
		cfg.Lifted = engine.PropBool(props, key, cfg.Lifted)
	case "createOnStart":
		cfg.CreateOnStart = engine.PropBool(props, key, cfg.CreateOnStart)
	case "wall":
		s.Wall = engine.PropRef(props, key)
	case "player":
		s.Player = engine.PropRef(props, key)
	case "wallName":
		s.WallName = engine.PropString(props, key, s.WallName)
	case "playerName":
		s.PlayerName = engine.PropString(props, key, s.PlayerName)
	default:
		return false, nil
	}
	return true, nil
}
