package shadow

import (
	"fmt"
	"strings"
)

// FacingMode selects how the player's orientation is read. None of these is
// canonical; each matches one revision of the level scripts.
type FacingMode int

const (
	// FacingRightVector treats a player whose right vector is -X as facing left.
	FacingRightVector FacingMode = iota
	// FacingForwardVector compares the player's forward vector to the caster's back vector.
	FacingForwardVector
	// FacingRotationDot compares the player's rotation to fixed left/right quaternions.
	FacingRotationDot
)

var facingNames = map[FacingMode]string{
	FacingRightVector:   "right-vector",
	FacingForwardVector: "forward-vector",
	FacingRotationDot:   "rotation-dot",
}

func (m FacingMode) String() string {
	if name, ok := facingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("FacingMode(%d)", int(m))
}

// ParseFacingMode accepts the names printed by FacingMode.String.
func ParseFacingMode(s string) (FacingMode, error) {
	for m, name := range facingNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown facing mode %q", s)
}

// SkewMode selects how a facing, in-range player deforms the shadow.
type SkewMode int

const (
	// SkewTrapezoid retargets the quad corners into a perspective trapezoid.
	SkewTrapezoid SkewMode = iota
	// SkewLegacy shears a subdivided wall plane row by row.
	SkewLegacy
)

func (m SkewMode) String() string {
	switch m {
	case SkewTrapezoid:
		return "trapezoid"
	case SkewLegacy:
		return "legacy"
	}
	return fmt.Sprintf("SkewMode(%d)", int(m))
}

func ParseSkewMode(s string) (SkewMode, error) {
	switch strings.ToLower(s) {
	case "trapezoid", "":
		return SkewTrapezoid, nil
	case "legacy":
		return SkewLegacy, nil
	}
	return 0, fmt.Errorf("unknown skew mode %q", s)
}

// Config is the author-set tuning for one shadow caster.
type Config struct {
	Material          string
	ReverseTriWinding bool
	ScaleWidth        float32
	ScaleHeight       float32
	TriggerDistance   float32
	SkewAmount        float32
	Subdivisions      int
	Facing            FacingMode
	SkewMode          SkewMode
	Lifted            bool
	CreateOnStart     bool
	// EyeHeight is added to the player's position to decide whether a caster is lifted.
	EyeHeight float32
}

func DefaultConfig() Config {
	return Config{
		Material:        "shadow",
		ScaleWidth:      1.0,
		ScaleHeight:     1.0,
		TriggerDistance: 60.0,
		SkewAmount:      40.0,
		Subdivisions:    4,
		Facing:          FacingRightVector,
		SkewMode:        SkewTrapezoid,
		EyeHeight:       1.6,
	}
}

// Validate rejects tuning that cannot produce a mesh.
func (c Config) Validate() error {
	if c.ScaleWidth <= 0 || c.ScaleHeight <= 0 {
		return fmt.Errorf("scale must be positive, got %gx%g: %w", c.ScaleWidth, c.ScaleHeight, ErrDegenerateGeometry)
	}
	if c.TriggerDistance < 0 {
		return fmt.Errorf("trigger distance %g is negative: %w", c.TriggerDistance, ErrDegenerateGeometry)
	}
	if c.SkewMode == SkewLegacy {
		if c.Subdivisions < 1 {
			return fmt.Errorf("legacy skew needs at least one subdivision: %w", ErrDegenerateGeometry)
		}
		if c.SkewAmount == 0 {
			return fmt.Errorf("legacy skew amount is zero: %w", ErrDegenerateGeometry)
		}
	}
	if _, ok := facingNames[c.Facing]; !ok {
		return fmt.Errorf("facing: unknown mode %d", int(c.Facing))
	}
	return nil
}
