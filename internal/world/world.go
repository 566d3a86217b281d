package world

import (
	"shadowplay/internal/components"
	"shadowplay/internal/engine"
	"shadowplay/internal/logging"
	"shadowplay/internal/physics"
	"shadowplay/internal/scripts"

	"go.uber.org/zap"
)

// PlayerTag marks the objects trigger volumes react to.
const PlayerTag = "Player"

// World owns the scene and runs the per-frame order: scripts, then trigger
// callbacks for this frame's positions.
type World struct {
	Scene    *engine.Scene
	Triggers *physics.Triggers
	log      *zap.Logger
	started  bool
}

func New(log *zap.Logger) *World {
	w := &World{
		Scene:    engine.NewScene("Main"),
		Triggers: physics.NewTriggers(),
		log:      logging.OrNop(log),
	}
	w.Scene.World = w
	return w
}

func (w *World) Logger() *zap.Logger {
	return w.log
}

// SpawnObject implements engine.WorldAccess. Objects spawned after Start are
// started immediately.
func (w *World) SpawnObject(g *engine.GameObject) {
	w.injectLogger(g)
	w.Scene.AddGameObject(g)
	if w.started {
		g.Start()
	}
}

// Destroy implements engine.WorldAccess. Removal is immediate; the scene
// skips removed objects for the rest of the tick.
func (w *World) Destroy(g *engine.GameObject) {
	if g.Scene != w.Scene {
		return
	}
	w.Scene.RemoveGameObject(g)
}

// loggerSetter is implemented by scripts that log through the world's logger.
type loggerSetter interface {
	SetLogger(l *zap.Logger)
}

func (w *World) injectLogger(g *engine.GameObject) {
	for _, c := range g.Components() {
		if ls, ok := c.(loggerSetter); ok {
			ls.SetLogger(w.log.With(zap.String("object", g.Name)))
		}
	}
	for _, child := range g.Children {
		w.injectLogger(child)
	}
}

func (w *World) Start() {
	w.started = true
	w.Scene.Start()
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
	w.Triggers.Update(w.Scene.GameObjects, w.Players())
}

// Players returns the objects tagged PlayerTag.
func (w *World) Players() []*engine.GameObject {
	return w.Scene.FindByTag(PlayerTag)
}

// Player returns the first player, or nil.
func (w *World) Player() *engine.GameObject {
	if players := w.Players(); len(players) > 0 {
		return players[0]
	}
	return nil
}

// ShadowScripts returns every shadow caster in the scene.
func (w *World) ShadowScripts() []*scripts.ShadowScript {
	var out []*scripts.ShadowScript
	for _, g := range w.Scene.GameObjects {
		if s := engine.GetComponent[*scripts.ShadowScript](g); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// MainCamera returns the first camera component in the scene.
func (w *World) MainCamera() *components.Camera {
	for _, g := range w.Scene.GameObjects {
		if c := engine.GetComponent[*components.Camera](g); c != nil {
			return c
		}
	}
	return nil
}
