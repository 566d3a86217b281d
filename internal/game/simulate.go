package game

import (
	"fmt"
	"io"

	"shadowplay/internal/components"
	"shadowplay/internal/engine"
	"shadowplay/internal/scripts"
	"shadowplay/internal/shadow"
	"shadowplay/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

const simStep = float32(1.0 / 60.0)

// SimOptions describes a headless sweep of the player past a single caster.
type SimOptions struct {
	From, To   float32
	Steps      int
	Shadow     shadow.Config
	CasterPos  rl.Vector3
	CasterSize rl.Vector3
	WallZ      float32
}

func DefaultSimOptions() SimOptions {
	return SimOptions{
		From:       -20,
		To:         20,
		Steps:      41,
		Shadow:     shadow.DefaultConfig(),
		CasterPos:  rl.Vector3{Y: 1},
		CasterSize: rl.Vector3{X: 2, Y: 2, Z: 2},
		WallZ:      -10,
	}
}

// Sample is the shadow state after the player reached X.
type Sample struct {
	X        float32
	Active   bool
	Regime   shadow.Regime
	Lifted   bool
	Vertical []rl.Vector3
}

// Simulate walks a player from From to To through a world holding a wall and
// one caster, facing the way it walks, and records the shadow after each step.
func Simulate(opts SimOptions, log *zap.Logger) ([]Sample, error) {
	if opts.Steps < 2 {
		return nil, fmt.Errorf("simulate needs at least 2 steps, got %d", opts.Steps)
	}

	w := world.New(log)

	wall := engine.NewGameObject(scripts.DefaultWallName)
	wall.Transform.Position = rl.Vector3{Z: opts.WallZ}
	w.SpawnObject(wall)

	caster := engine.NewGameObject("Caster")
	caster.Transform.Position = opts.CasterPos
	caster.AddComponent(components.NewBoxCollider(opts.CasterSize))
	script := scripts.NewShadowScript(opts.Shadow)
	caster.AddComponent(script)
	w.SpawnObject(caster)

	player := engine.NewGameObject(scripts.DefaultPlayerName)
	player.Tags = []string{world.PlayerTag}
	player.Transform.Position = rl.Vector3{X: opts.From, Y: 0.9}
	if opts.To > opts.From {
		player.Transform.Rotation.Y = 180
	}
	player.AddComponent(components.NewBoxCollider(rl.Vector3{X: 0.8, Y: 1.8, Z: 0.8}))
	w.SpawnObject(player)

	w.Start()
	if err := script.Err(); err != nil && script.Engine() == nil {
		return nil, err
	}
	w.Update(simStep)

	samples := make([]Sample, 0, opts.Steps)
	stride := (opts.To - opts.From) / float32(opts.Steps-1)
	for i := 0; i < opts.Steps; i++ {
		player.Transform.Position.X = opts.From + stride*float32(i)
		w.Update(simStep)

		e := script.Engine()
		s := Sample{
			X:      player.Transform.Position.X,
			Active: e.Active(),
			Regime: e.Regime(),
			Lifted: e.Caster().Lifted,
		}
		if v := e.Vertical(); v != nil {
			s.Vertical = append([]rl.Vector3(nil), v.Mesh.Vertices...)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// WriteSamples prints one line per sample, followed by the wall plane's
// corners while the shadow is up.
func WriteSamples(out io.Writer, samples []Sample, withVertices bool) error {
	for _, s := range samples {
		state := "off"
		if s.Active {
			state = "on"
		}
		if _, err := fmt.Fprintf(out, "x=%7.2f shadow=%-3s regime=%-6s lifted=%t\n", s.X, state, s.Regime, s.Lifted); err != nil {
			return err
		}
		if !withVertices || len(s.Vertical) == 0 {
			continue
		}
		for i, v := range s.Vertical {
			if _, err := fmt.Fprintf(out, "    v%-2d (%.3f, %.3f, %.3f)\n", i, v.X, v.Y, v.Z); err != nil {
				return err
			}
		}
	}
	return nil
}
