package game

import (
	"fmt"
	"time"

	"shadowplay/internal/components"
	"shadowplay/internal/config"
	"shadowplay/internal/engine"
	"shadowplay/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// Input is one frame of player intent.
type Input struct {
	Walk    float32 // -1 left, +1 right
	Depth   float32 // -1 toward the wall, +1 toward the camera
	Jump    bool
	Respawn bool
	Debug   bool // toggle
	Save    bool
}

type Game struct {
	Config    *config.Config
	World     *world.World
	Renderer  *world.Renderer
	DebugMode bool

	log *zap.Logger

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
}

func New(cfg *config.Config, w *world.World, log *zap.Logger) *Game {
	return &Game{
		Config:   cfg,
		World:    w,
		Renderer: world.NewRenderer(),
		log:      log,
	}
}

func (g *Game) Run() error {
	win := g.Config.Window
	rl.SetConfigFlags(rl.FlagWindowHighdpi)
	rl.InitWindow(win.Width, win.Height, win.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(win.FPS)

	if g.World.MainCamera() == nil {
		return fmt.Errorf("scene %q has no camera", g.World.Scene.Name)
	}
	if g.World.Player() == nil {
		return fmt.Errorf("scene %q has no object tagged %s", g.World.Scene.Name, world.PlayerTag)
	}
	g.World.Start()

	for !rl.WindowShouldClose() {
		g.Update(rl.GetFrameTime(), readInput())
		g.Draw()
	}
	return nil
}

func readInput() Input {
	var in Input
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		in.Walk++
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		in.Walk--
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		in.Depth++
	}
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		in.Depth--
	}
	in.Jump = rl.IsKeyPressed(rl.KeySpace)
	in.Respawn = rl.IsKeyPressed(rl.KeyR)
	in.Debug = rl.IsKeyPressed(rl.KeyF1)
	in.Save = rl.IsKeyPressed(rl.KeyF5)
	return in
}

// Update applies input to the player and steps the world.
func (g *Game) Update(deltaTime float32, in Input) {
	updateStart := time.Now()

	if in.Debug {
		g.DebugMode = !g.DebugMode
		g.Renderer.ShowTriggers = g.DebugMode
	}
	if in.Save {
		g.saveScene()
	}

	if player := g.World.Player(); player != nil {
		if cc := engine.GetComponent[*components.CharacterController](player); cc != nil {
			cc.SetInput(in.Walk, in.Depth, in.Jump)
			if in.Respawn {
				cc.Respawn()
			}
		}
	}

	g.World.Update(deltaTime)

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) saveScene() {
	path := g.Config.Scene + ".save.json"
	if err := g.World.SaveScene(path); err != nil {
		g.log.Error("save failed", zap.Error(err))
		return
	}
	g.log.Info("scene saved", zap.String("path", path))
}

func (g *Game) Draw() {
	cam := g.World.MainCamera()
	if cam == nil {
		return
	}

	rl.BeginDrawing()
	drawStart := time.Now()
	g.Renderer.Draw(cam.GetRaylibCamera(), g.World.Scene.GameObjects)
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	rl.DrawText("A/D to walk, W/S to step in depth, Space to jump, R to respawn", 10, 10, 20, rl.DarkGray)
	rl.DrawText("F1 to toggle debug view, F5 to save the scene", 10, 35, 20, rl.DarkGray)
	rl.DrawFPS(10, 60)

	if !g.DebugMode {
		return
	}
	y := int32(85)
	for _, line := range g.HUDLines() {
		rl.DrawText(line, 10, y, 16, rl.DarkGreen)
		y += 20
	}
}

// HUDLines describes each shadow caster and the frame timings.
func (g *Game) HUDLines() []string {
	var lines []string
	for _, s := range g.World.ShadowScripts() {
		name := s.GetGameObject().Name
		switch {
		case s.Err() != nil && s.Engine() == nil:
			lines = append(lines, fmt.Sprintf("%s: disabled (%v)", name, s.Err()))
		case s.Active():
			e := s.Engine()
			lines = append(lines, fmt.Sprintf("%s: on, %s, lifted=%t", name, e.Regime(), e.Caster().Lifted))
		default:
			lines = append(lines, fmt.Sprintf("%s: off", name))
		}
	}
	lines = append(lines,
		fmt.Sprintf("Drawn:  %d", g.Renderer.Drawn()),
		fmt.Sprintf("Update: %.2f ms", g.updateMs),
		fmt.Sprintf("Draw:   %.2f ms", g.drawMs),
	)
	return lines
}
