package shadow

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anchor struct {
	pos rl.Vector3
	rot rl.Vector3
}

func (a *anchor) WorldPosition() rl.Vector3 { return a.pos }
func (a *anchor) WorldRotation() rl.Vector3 { return a.rot }

type recordingSink struct {
	live    map[string]*Plane
	updates int
	failOn  PlaneKind
	fail    bool
}

func newSink() *recordingSink {
	return &recordingSink{live: map[string]*Plane{}}
}

func (s *recordingSink) CreatePlane(p *Plane) error {
	if s.fail && p.Kind == s.failOn {
		return errors.New("collider rejected")
	}
	s.live[p.Name] = p
	return nil
}

func (s *recordingSink) UpdatePlane(p *Plane) { s.updates++ }

func (s *recordingSink) DestroyPlane(p *Plane) { delete(s.live, p.Name) }

var (
	facingLeft  = rl.Vector3{Y: 180}
	facingRight = rl.Vector3{}
)

// crate is a 2x2x1 box at the origin with the back wall at z=-10.
func crate(t *testing.T, cfg Config, player *anchor) (*Engine, *recordingSink) {
	t.Helper()
	caster, err := NewCaster("Crate", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 1}, cfg.ScaleWidth, cfg.ScaleHeight)
	require.NoError(t, err)
	sink := newSink()
	e, err := NewEngine(cfg, caster, &anchor{pos: rl.Vector3{Z: -10}}, player, sink)
	require.NoError(t, err)
	return e, sink
}

var approx = cmpopts.EquateApprox(0, 1e-4)

func TestWindingArrays(t *testing.T) {
	assert.Equal(t, [6]int32{2, 1, 0, 3, 2, 0}, Winding(true))
	assert.Equal(t, [6]int32{0, 1, 2, 0, 2, 3}, Winding(false))
}

func TestEveryPlaneUsesConfiguredWinding(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.ReverseTriWinding = reverse
		e, _ := crate(t, cfg, &anchor{pos: rl.Vector3{X: -3, Z: 5}, rot: facingLeft})
		require.NoError(t, e.Activate())

		want := Winding(reverse)
		planes := e.Planes()
		require.Len(t, planes, 2)
		for _, p := range planes {
			assert.Equal(t, want[:], p.Mesh.Triangles, "plane %s reverse=%v", p.Name, reverse)
		}

		// skewing never touches the index array
		require.NoError(t, e.Skew())
		for _, p := range e.Planes() {
			assert.Equal(t, want[:], p.Mesh.Triangles)
			assert.Len(t, p.Mesh.Vertices, 4)
		}
	}
}

func TestWallDistanceScenario(t *testing.T) {
	e, _ := crate(t, DefaultConfig(), &anchor{})
	assert.InDelta(t, 9.49, e.WallDistance(), 1e-5)
}

func TestActivateBuildsBaseQuads(t *testing.T) {
	e, sink := crate(t, DefaultConfig(), &anchor{})
	require.NoError(t, e.Activate())

	zWall := float32(-0.5 - 9.49)
	yFloor := float32(-1 + ShadowOffset)
	wantV := []rl.Vector3{
		{X: -1, Y: yFloor, Z: zWall},
		{X: 1, Y: yFloor, Z: zWall},
		{X: 1, Y: yFloor + 2, Z: zWall},
		{X: -1, Y: yFloor + 2, Z: zWall},
	}
	wantH := []rl.Vector3{
		{X: -1, Y: yFloor, Z: zWall},
		{X: 1, Y: yFloor, Z: zWall},
		{X: 1, Y: yFloor, Z: -0.5},
		{X: -1, Y: yFloor, Z: -0.5},
	}
	if diff := cmp.Diff(wantV, e.Vertical().Mesh.Vertices, approx); diff != "" {
		t.Errorf("vertical plane mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantH, e.Horizontal().Mesh.Vertices, approx); diff != "" {
		t.Errorf("horizontal plane mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, quadUVs[:], e.Vertical().Mesh.UVs)
	assert.Contains(t, sink.live, "Crate_Shadow_V")
	assert.Contains(t, sink.live, "Crate_Shadow_H")

	// forward winding faces +Z, towards the camera side of the wall
	for _, n := range e.Vertical().Mesh.Normals {
		assert.InDelta(t, 1, n.Z, 1e-5)
	}
}

func TestReverseWindingFlipsNormals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReverseTriWinding = true
	e, _ := crate(t, cfg, &anchor{})
	require.NoError(t, e.Activate())
	for _, n := range e.Vertical().Mesh.Normals {
		assert.InDelta(t, -1, n.Z, 1e-5)
	}
}

func TestHeightScaleOffset(t *testing.T) {
	c, err := NewCaster("Tall", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 1}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(4), c.Height)
	assert.Equal(t, float32(1), c.HeightScaleOffset)
}

func TestActivateThenDeactivateLeavesNoResidue(t *testing.T) {
	for _, mode := range []SkewMode{SkewTrapezoid, SkewLegacy} {
		cfg := DefaultConfig()
		cfg.SkewMode = mode
		e, sink := crate(t, cfg, &anchor{})

		require.NoError(t, e.Activate())
		require.NoError(t, e.Activate(), "second Activate is a no-op")
		assert.Len(t, sink.live, 2)

		e.Deactivate()
		assert.False(t, e.Active())
		assert.Empty(t, sink.live)
		assert.Nil(t, e.Vertical())
		assert.Nil(t, e.Horizontal())
		assert.Nil(t, e.SkewState())
		assert.Empty(t, e.Planes())

		e.Deactivate()
		assert.Empty(t, sink.live)
	}
}

func TestRepositionIsIdempotent(t *testing.T) {
	e, _ := crate(t, DefaultConfig(), &anchor{})
	require.NoError(t, e.Activate())

	require.NoError(t, e.Reposition())
	first := e.Vertical().Mesh.Clone()
	firstH := e.Horizontal().Mesh.Clone()
	require.NoError(t, e.Reposition())

	if diff := cmp.Diff(first, e.Vertical().Mesh); diff != "" {
		t.Errorf("vertical changed on second reposition:\n%s", diff)
	}
	if diff := cmp.Diff(firstH, e.Horizontal().Mesh); diff != "" {
		t.Errorf("horizontal changed on second reposition:\n%s", diff)
	}
}

func TestVerifyRepositionsOnlyOnChange(t *testing.T) {
	e, sink := crate(t, DefaultConfig(), &anchor{})
	require.NoError(t, e.Activate())
	before := e.Vertical().Mesh.Clone()

	moved, err := e.Verify(rl.Vector3{})
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Zero(t, sink.updates)

	moved, err = e.Verify(rl.Vector3{X: 3, Y: 0.5})
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, 2, sink.updates)
	for i, v := range e.Vertical().Mesh.Vertices {
		assert.InDelta(t, before.Vertices[i].X+3, v.X, 1e-5)
		assert.InDelta(t, before.Vertices[i].Y+0.5, v.Y, 1e-5)
		assert.InDelta(t, before.Vertices[i].Z, v.Z, 1e-5)
	}

	// moving towards the wall shortens the wall distance
	_, err = e.Verify(rl.Vector3{X: 3, Y: 0.5, Z: -2})
	require.NoError(t, err)
	assert.InDelta(t, 7.49, e.WallDistance(), 1e-5)
}

func TestSkewOutOfRangeRemovesShadow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TriggerDistance = 20
	// right-facing with the caster to its left side counts as facing
	player := &anchor{pos: rl.Vector3{X: 15, Z: 5}, rot: facingRight}
	e, sink := crate(t, cfg, player)
	require.NoError(t, e.Activate())

	require.NoError(t, e.Skew())
	assert.False(t, e.Active())
	assert.Empty(t, sink.live)

	// back in range brings it back
	player.pos.X = 5
	require.NoError(t, e.Skew())
	assert.True(t, e.Active())
	assert.Len(t, sink.live, 2)
}

func TestSkewNotFacingRemovesShadow(t *testing.T) {
	player := &anchor{pos: rl.Vector3{X: -4, Z: 5}, rot: facingRight}
	e, sink := crate(t, DefaultConfig(), player)
	require.NoError(t, e.Activate())

	require.NoError(t, e.Skew())
	assert.False(t, e.Active())
	assert.Empty(t, sink.live)
}

func TestSkewRightRegime(t *testing.T) {
	player := &anchor{pos: rl.Vector3{X: -4, Z: 5}, rot: facingLeft}
	e, _ := crate(t, DefaultConfig(), player)

	require.NoError(t, e.Skew())
	require.True(t, e.Active(), "Skew activates a facing, in-range shadow")
	assert.Equal(t, RegimeRight, e.Regime())

	wd := float32(9.49)
	mNear := float32(3) / 5.5
	mFar := float32(5) / 4.5
	lo := -1 + mNear*wd
	hi := -1 + mFar*wd
	zWall := -0.5 - wd
	y := float32(-1 + ShadowOffset)

	wantV := []rl.Vector3{{X: lo, Y: y, Z: zWall}, {X: hi, Y: y, Z: zWall}, {X: hi, Y: y + 2, Z: zWall}, {X: lo, Y: y + 2, Z: zWall}}
	wantH := []rl.Vector3{{X: lo, Y: y, Z: zWall}, {X: hi, Y: y, Z: zWall}, {X: 1, Y: y, Z: 0.5}, {X: -1, Y: y, Z: -0.5}}
	if diff := cmp.Diff(wantV, e.Vertical().Mesh.Vertices, approx); diff != "" {
		t.Errorf("vertical (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantH, e.Horizontal().Mesh.Vertices, approx); diff != "" {
		t.Errorf("horizontal (-want +got):\n%s", diff)
	}
}

func TestSkewLeftRegime(t *testing.T) {
	// dist = -4: a right-facing player looks at it
	player := &anchor{pos: rl.Vector3{X: 4, Z: 5}, rot: facingRight}
	e, _ := crate(t, DefaultConfig(), player)

	require.NoError(t, e.Skew())
	assert.Equal(t, RegimeLeft, e.Regime())

	wd := float32(9.49)
	mNear := float32(3) / 5.5
	mFar := float32(5) / 4.5
	lo := 1 - mFar*wd
	hi := 1 - mNear*wd
	got := e.Vertical().Mesh.Vertices
	assert.InDelta(t, lo, got[0].X, 1e-4)
	assert.InDelta(t, hi, got[1].X, 1e-4)
	assert.InDelta(t, 1, e.Horizontal().Mesh.Vertices[2].X, 1e-5)
	assert.InDelta(t, -0.5, e.Horizontal().Mesh.Vertices[2].Z, 1e-5)
}

func TestSkewWithinRegime(t *testing.T) {
	player := &anchor{pos: rl.Vector3{X: 0.5, Z: 5}, rot: facingRight}
	e, _ := crate(t, DefaultConfig(), player)
	// dist = -0.5 < 0, right-facing faces it
	require.NoError(t, e.Skew())
	assert.Equal(t, RegimeWithin, e.Regime())

	wd := float32(9.49)
	got := e.Vertical().Mesh.Vertices
	assert.InDelta(t, -1-(1.5/4.5)*wd, got[0].X, 1e-4)
	assert.InDelta(t, 1+(0.5/4.5)*wd, got[1].X, 1e-4)
}

// The near edge is continuous where the player crosses the caster's edge.
// The far edge jumps by the caster width. The within-bounds formula spreads
// from both real edges while the outside formulas collapse onto one.
func TestRegimeBoundaryContinuity(t *testing.T) {
	c, err := NewCaster("Crate", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 1}, 1, 1)
	require.NoError(t, err)
	e := c.edges()
	wd := c.WallDistance(-10)
	z := float32(5)

	loR, hiR, err := wallSpan(RegimeRight, e, c.Width, wd, e.xMin, z)
	require.NoError(t, err)
	loW, hiW, err := wallSpan(RegimeWithin, e, c.Width, wd, e.xMin, z)
	require.NoError(t, err)
	assert.InDelta(t, loR, loW, 1e-5, "near edge continuous at right boundary")
	assert.InDelta(t, c.Width, hiW-hiR, 1e-4, "far edge gap at right boundary")

	loL, hiL, err := wallSpan(RegimeLeft, e, c.Width, wd, e.xMax, z)
	require.NoError(t, err)
	loW, hiW, err = wallSpan(RegimeWithin, e, c.Width, wd, e.xMax, z)
	require.NoError(t, err)
	assert.InDelta(t, hiL, hiW, 1e-5, "near edge continuous at left boundary")
	assert.InDelta(t, c.Width, loL-loW, 1e-4, "far edge gap at left boundary")
}

func TestSkewGrazingDepthIsTypedFailure(t *testing.T) {
	player := &anchor{pos: rl.Vector3{X: -4, Z: -0.5}, rot: facingLeft}
	e, _ := crate(t, DefaultConfig(), player)
	require.NoError(t, e.Activate())
	before := e.Vertical().Mesh.Clone()

	err := e.Skew()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "skew", ge.Op)
	assert.Equal(t, "Crate", ge.Plane)

	if diff := cmp.Diff(before, e.Vertical().Mesh); diff != "" {
		t.Errorf("failed skew must keep the previous vertices:\n%s", diff)
	}
}

func TestLiftedCasterDropsFloorPlane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lifted = true
	caster, err := NewCaster("Shelf", rl.Vector3{Y: 8}, rl.Vector3{X: 2, Y: 2, Z: 1}, 1, 1)
	require.NoError(t, err)
	player := &anchor{pos: rl.Vector3{X: -4, Z: 5}, rot: facingLeft}
	sink := newSink()
	e, err := NewEngine(cfg, caster, &anchor{pos: rl.Vector3{Z: -10}}, player, sink)
	require.NoError(t, err)

	require.NoError(t, e.Skew())
	assert.True(t, e.Caster().Lifted)
	assert.Nil(t, e.Horizontal())
	assert.Len(t, sink.live, 1)

	v := e.Vertical().Mesh.Vertices
	top := float32(9 + ShadowOffset)
	assert.Greater(t, v[0].Y, top, "lifted shadow starts above the caster")
	assert.Greater(t, v[3].Y, v[0].Y)
	assert.Greater(t, v[2].X-v[3].X, v[1].X-v[0].X, "top edge is wider than the base")

	// the player climbs up to the shelf: the floor plane comes back
	player.pos.Y = 8
	require.NoError(t, e.Skew())
	assert.False(t, e.Caster().Lifted)
	assert.NotNil(t, e.Horizontal())
	assert.Len(t, sink.live, 2)
}

func TestLegacySkewShearsRows(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkewMode = SkewLegacy
	cfg.Subdivisions = 3
	cfg.SkewAmount = 6
	player := &anchor{pos: rl.Vector3{X: -4, Z: 5}, rot: facingLeft}
	e, _ := crate(t, cfg, player)
	require.NoError(t, e.Activate())

	mesh := e.Vertical().Mesh
	require.Len(t, mesh.Vertices, 16)
	require.Len(t, mesh.Triangles, 9*6)
	rest := mesh.Clone()

	state := e.SkewState()
	require.NotNil(t, state)
	assert.InDelta(t, 0, state.Skew[0].X, 1e-6)
	assert.InDelta(t, 1.0/6, state.Skew[4].X, 1e-6)
	assert.InDelta(t, 3.0/6, state.Skew[15].X, 1e-6)

	require.NoError(t, e.Skew())
	dist := float32(4)
	for i, v := range mesh.Vertices {
		row := i / 4
		want := rest.Vertices[i].X + dist/10 + float32(row)/6*dist
		assert.InDelta(t, want, v.X, 1e-4, "vertex %d", i)
		assert.Equal(t, rest.Vertices[i].Y, v.Y)
	}
	assert.Equal(t, rest.Triangles, mesh.Triangles)
}

func TestLegacySkewTracksLiftedState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkewMode = SkewLegacy
	cfg.Lifted = true
	caster, err := NewCaster("Shelf", rl.Vector3{Y: 8}, rl.Vector3{X: 2, Y: 2, Z: 1}, 1, 1)
	require.NoError(t, err)
	player := &anchor{pos: rl.Vector3{X: -4, Z: 5}, rot: facingLeft}
	sink := newSink()
	e, err := NewEngine(cfg, caster, &anchor{pos: rl.Vector3{Z: -10}}, player, sink)
	require.NoError(t, err)

	require.NoError(t, e.SkewLegacy())
	assert.True(t, e.Caster().Lifted)
	assert.Nil(t, e.Horizontal())
	assert.Len(t, sink.live, 1)

	player.pos.Y = 8
	require.NoError(t, e.SkewLegacy())
	assert.False(t, e.Caster().Lifted)
	require.NotNil(t, e.Horizontal())
	assert.Len(t, sink.live, 2)

	player.pos.Y = 0
	require.NoError(t, e.SkewLegacy())
	assert.True(t, e.Caster().Lifted)
	assert.Nil(t, e.Horizontal())
	assert.Len(t, sink.live, 1)
}

func TestLegacyRequiresSquareGrid(t *testing.T) {
	m := NewQuadMesh([4]rl.Vector3{}, false)
	m.Vertices = append(m.Vertices, rl.Vector3{})
	_, err := NewSkewState(m, 10)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestSkewLegacyOnTrapezoidEngine(t *testing.T) {
	e, _ := crate(t, DefaultConfig(), &anchor{})
	assert.ErrorIs(t, e.SkewLegacy(), ErrDegenerateGeometry)
}

func TestMissingReferences(t *testing.T) {
	caster, err := NewCaster("Crate", rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1, 1)
	require.NoError(t, err)
	var nilAnchor *anchor

	_, err = NewEngine(DefaultConfig(), caster, nil, &anchor{}, newSink())
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.ErrorContains(t, err, "wall")

	_, err = NewEngine(DefaultConfig(), caster, &anchor{}, nilAnchor, newSink())
	assert.ErrorIs(t, err, ErrMissingReference)
	assert.ErrorContains(t, err, "player")

	_, err = NewEngine(DefaultConfig(), caster, &anchor{}, &anchor{}, nil)
	assert.ErrorIs(t, err, ErrMissingReference)
}

func TestDegenerateCaster(t *testing.T) {
	_, err := NewCaster("Flat", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 0}, 1, 1)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)

	_, err = NewCaster("Squashed", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 1}, 0, 1)
	assert.ErrorIs(t, err, ErrDegenerateGeometry)
}

func TestSinkFailureRollsBack(t *testing.T) {
	caster, err := NewCaster("Crate", rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 1}, 1, 1)
	require.NoError(t, err)
	sink := newSink()
	sink.fail = true
	sink.failOn = PlaneHorizontal
	e, err := NewEngine(DefaultConfig(), caster, &anchor{pos: rl.Vector3{Z: -10}}, &anchor{}, sink)
	require.NoError(t, err)

	require.Error(t, e.Activate())
	assert.False(t, e.Active())
	assert.Empty(t, sink.live)
	assert.Nil(t, e.Vertical())
}

func TestOrientation(t *testing.T) {
	back := rl.Vector3{Z: -1}
	tests := []struct {
		name string
		mode FacingMode
		rot  rl.Vector3
		want Orientation
	}{
		{"right vector, unrotated", FacingRightVector, rl.Vector3{}, OrientRight},
		{"right vector, turned around", FacingRightVector, rl.Vector3{Y: 180}, OrientLeft},
		{"right vector, quarter turn", FacingRightVector, rl.Vector3{Y: 90}, OrientRight},
		{"forward vector, unrotated", FacingForwardVector, rl.Vector3{}, OrientRight},
		{"forward vector, turned around", FacingForwardVector, rl.Vector3{Y: 180}, OrientLeft},
		{"rotation dot, unrotated", FacingRotationDot, rl.Vector3{}, OrientRight},
		{"rotation dot, turned around", FacingRotationDot, rl.Vector3{Y: 180}, OrientLeft},
		{"rotation dot, slight turn", FacingRotationDot, rl.Vector3{Y: 30}, OrientRight},
		{"rotation dot, mostly around", FacingRotationDot, rl.Vector3{Y: 150}, OrientLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orient(tt.mode, tt.rot, back))
		})
	}
}

func TestFaces(t *testing.T) {
	assert.True(t, faces(OrientLeft, 3))
	assert.True(t, faces(OrientLeft, 0))
	assert.False(t, faces(OrientLeft, -3))
	assert.True(t, faces(OrientRight, -3))
	assert.False(t, faces(OrientRight, 0))
	assert.False(t, faces(OrientNone, 3))
}

func TestParseModes(t *testing.T) {
	for _, m := range []FacingMode{FacingRightVector, FacingForwardVector, FacingRotationDot} {
		got, err := ParseFacingMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseFacingMode("sideways")
	assert.Error(t, err)

	m, err := ParseSkewMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, SkewLegacy, m)
	_, err = ParseSkewMode("twist")
	assert.Error(t, err)
}
