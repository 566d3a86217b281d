// Package shadow builds the collidable shadow planes a caster throws onto the
// back wall and the floor, and skews them as the player walks past.
package shadow

import (
	"errors"
	"reflect"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// Anchor is a read-only world position, such as the back wall.
type Anchor interface {
	WorldPosition() rl.Vector3
}

// Observer is the read-only player handle. The engine never moves it.
type Observer interface {
	Anchor
	WorldRotation() rl.Vector3
}

// Sink materialises planes in the host scene. CreatePlane attaches a
// renderer and a collider sized to the mesh; UpdatePlane refreshes both after
// the mesh changed in place.
type Sink interface {
	CreatePlane(p *Plane) error
	UpdatePlane(p *Plane)
	DestroyPlane(p *Plane)
}

type PlaneKind int

const (
	PlaneVertical PlaneKind = iota
	PlaneHorizontal
)

func (k PlaneKind) String() string {
	if k == PlaneHorizontal {
		return "horizontal"
	}
	return "vertical"
}

// Plane is one generated shadow surface.
type Plane struct {
	Kind     PlaneKind
	Name     string
	Material string
	Mesh     *Mesh
}

// Bounds returns the plane's axis-aligned extent.
func (p *Plane) Bounds() (min, max rl.Vector3) {
	return p.Mesh.Bounds()
}

// Engine owns the shadow planes of a single caster.
type Engine struct {
	cfg    Config
	caster Caster
	wall   Anchor
	player Observer
	sink   Sink
	log    *zap.Logger

	back     rl.Vector3
	wallDist float32

	active     bool
	vertical   *Plane
	horizontal *Plane
	skew       *SkewState
	regime     Regime
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithBackVector sets the caster's back direction in world space, which
// FacingForwardVector compares the player's forward vector against.
func WithBackVector(back rl.Vector3) Option {
	return func(e *Engine) {
		e.back = back
	}
}

// NewEngine validates the references and measures the wall distance. A
// missing wall, player or sink is reported as ErrMissingReference.
func NewEngine(cfg Config, caster Caster, wall Anchor, player Observer, sink Sink, opts ...Option) (*Engine, error) {
	switch {
	case isNil(wall):
		return nil, missing("wall")
	case isNil(player):
		return nil, missing("player")
	case sink == nil:
		return nil, missing("shadow sink")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := caster.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		caster: caster,
		wall:   wall,
		player: player,
		sink:   sink,
		log:    zap.NewNop(),
		back:   rl.Vector3{Z: -1},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.wallDist = caster.WallDistance(wall.WorldPosition().Z)
	e.log = e.log.With(zap.String("caster", caster.Name))
	return e, nil
}

// isNil catches typed nil pointers hidden in an interface.
func isNil(a Anchor) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (e *Engine) Active() bool          { return e.active }
func (e *Engine) Caster() Caster        { return e.caster }
func (e *Engine) Config() Config        { return e.cfg }
func (e *Engine) WallDistance() float32 { return e.wallDist }
func (e *Engine) Vertical() *Plane      { return e.vertical }
func (e *Engine) Horizontal() *Plane    { return e.horizontal }
func (e *Engine) SkewState() *SkewState { return e.skew }
func (e *Engine) Regime() Regime        { return e.regime }

// Planes returns the live planes, vertical first.
func (e *Engine) Planes() []*Plane {
	var out []*Plane
	if e.vertical != nil {
		out = append(out, e.vertical)
	}
	if e.horizontal != nil {
		out = append(out, e.horizontal)
	}
	return out
}

func (e *Engine) eyeY() float32 {
	return e.player.WorldPosition().Y + e.cfg.EyeHeight
}

func (e *Engine) liftedNow() bool {
	return e.cfg.Lifted && e.caster.Bottom() > e.eyeY()
}

// Activate builds the planes. It is a no-op while already active.
func (e *Engine) Activate() error {
	if e.active {
		return nil
	}
	e.caster.Lifted = e.liftedNow()
	v, h := e.caster.basePlanes(e.wallDist)

	vertical := &Plane{Kind: PlaneVertical, Name: e.caster.Name + "_Shadow_V", Material: e.cfg.Material}
	if e.cfg.SkewMode == SkewLegacy {
		vertical.Mesh = NewGridMesh(v, e.cfg.Subdivisions, e.cfg.ReverseTriWinding)
		skew, err := NewSkewState(vertical.Mesh, e.cfg.SkewAmount)
		if err != nil {
			return err
		}
		e.skew = skew
	} else {
		vertical.Mesh = NewQuadMesh(v, e.cfg.ReverseTriWinding)
	}
	if err := e.sink.CreatePlane(vertical); err != nil {
		e.skew = nil
		return err
	}
	e.vertical = vertical

	if !e.caster.Lifted {
		if err := e.createHorizontal(h); err != nil {
			e.sink.DestroyPlane(e.vertical)
			e.vertical = nil
			e.skew = nil
			return err
		}
	}

	e.active = true
	e.regime = RegimeNone
	e.log.Debug("shadow activated",
		zap.Float32("wallDistance", e.wallDist),
		zap.Bool("lifted", e.caster.Lifted),
		zap.Stringer("skewMode", e.cfg.SkewMode))
	return nil
}

func (e *Engine) createHorizontal(h [4]rl.Vector3) error {
	horizontal := &Plane{
		Kind:     PlaneHorizontal,
		Name:     e.caster.Name + "_Shadow_H",
		Material: e.cfg.Material,
		Mesh:     NewQuadMesh(h, e.cfg.ReverseTriWinding),
	}
	if err := e.sink.CreatePlane(horizontal); err != nil {
		return err
	}
	e.horizontal = horizontal
	return nil
}

// Deactivate releases the planes and their colliders. It is a no-op while
// inactive.
func (e *Engine) Deactivate() {
	if !e.active {
		return
	}
	for _, p := range e.Planes() {
		e.sink.DestroyPlane(p)
	}
	e.vertical = nil
	e.horizontal = nil
	e.skew = nil
	e.active = false
	e.regime = RegimeNone
	e.log.Debug("shadow deactivated")
}

// Verify repositions the planes if the caster moved. Any exact change on any
// axis counts. Returns whether a reposition happened.
func (e *Engine) Verify(origin rl.Vector3) (bool, error) {
	if origin == e.caster.Origin {
		return false, nil
	}
	if !finite(origin) {
		return false, degenerate("verify", "", "origin %v", origin)
	}
	e.caster.Origin = origin
	return true, e.Reposition()
}

// Reposition re-measures the wall and rebuilds the unskewed planes in place.
func (e *Engine) Reposition() error {
	e.wallDist = e.caster.WallDistance(e.wall.WorldPosition().Z)
	if !e.active {
		return nil
	}
	v, h := e.caster.basePlanes(e.wallDist)
	if e.skew != nil {
		e.vertical.Mesh.SetGrid(v)
		e.skew.Rebase(e.vertical.Mesh)
	} else {
		e.vertical.Mesh.SetQuad(v)
	}
	e.sink.UpdatePlane(e.vertical)
	if e.horizontal != nil {
		e.horizontal.Mesh.SetQuad(h)
		e.sink.UpdatePlane(e.horizontal)
	}
	e.regime = RegimeNone
	e.log.Debug("shadow repositioned", zap.Float32("wallDistance", e.wallDist))
	return nil
}

// gate decides whether the player keeps the shadow alive. It deactivates
// when the player looks away or is out of range.
func (e *Engine) gate() (dist float32, ok bool, err error) {
	pos := e.player.WorldPosition()
	dist = e.caster.Origin.X - pos.X
	o := orient(e.cfg.Facing, e.player.WorldRotation(), e.back)
	half := e.cfg.TriggerDistance / 2
	if !faces(o, dist) || dist >= half || dist <= -half {
		e.Deactivate()
		return dist, false, nil
	}
	if err := e.Activate(); err != nil {
		return dist, false, err
	}
	return dist, true, nil
}

// Skew deforms the planes for the player's current position and facing,
// using the configured skew mode.
func (e *Engine) Skew() error {
	if e.cfg.SkewMode == SkewLegacy {
		return e.SkewLegacy()
	}
	_, ok, err := e.gate()
	if !ok || err != nil {
		return err
	}

	lifted := e.liftedNow()
	t, r, err := computeTrapezoid(e.caster, e.wallDist, e.player.WorldPosition(), e.eyeY(), lifted)
	if err != nil {
		var ge *GeometryError
		if errors.As(err, &ge) {
			ge.Plane = e.caster.Name
		}
		e.log.Warn("skew skipped", zap.Error(err))
		return err
	}
	if err := e.setLifted(lifted); err != nil {
		return err
	}

	e.vertical.Mesh.SetQuad(t.vertical)
	e.sink.UpdatePlane(e.vertical)
	if e.horizontal != nil {
		e.horizontal.Mesh.SetQuad(t.horizontal)
		e.sink.UpdatePlane(e.horizontal)
	}
	e.regime = r
	return nil
}

// setLifted drops the floor plane while the caster hangs above the player's
// eyes and restores it once the player climbs level with it.
func (e *Engine) setLifted(lifted bool) error {
	if lifted == e.caster.Lifted {
		return nil
	}
	e.caster.Lifted = lifted
	if lifted {
		if e.horizontal != nil {
			e.sink.DestroyPlane(e.horizontal)
			e.horizontal = nil
		}
		return nil
	}
	_, h := e.caster.basePlanes(e.wallDist)
	return e.createHorizontal(h)
}

// SkewLegacy shears the subdivided wall plane row by row instead of
// retargeting corners. The floor plane keeps its rest shape but still comes
// and goes with the lifted state.
func (e *Engine) SkewLegacy() error {
	if e.cfg.SkewMode != SkewLegacy {
		return degenerate("legacy skew", e.caster.Name, "engine built for %s skew", e.cfg.SkewMode)
	}
	dist, ok, err := e.gate()
	if !ok || err != nil {
		return err
	}
	if err := e.setLifted(e.liftedNow()); err != nil {
		return err
	}
	if err := e.skew.Apply(e.vertical.Mesh, dist); err != nil {
		e.log.Warn("legacy skew skipped", zap.Error(err))
		return err
	}
	e.sink.UpdatePlane(e.vertical)
	e.regime = regimeFor(dist, e.caster.Width)
	return nil
}
