package world

import (
	"encoding/json"
	"fmt"
	"os"

	"shadowplay/internal/components"
	"shadowplay/internal/engine"
	"shadowplay/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// --- JSON types ---

type SceneFile struct {
	Name    string      `json:"name,omitempty"`
	Objects []ObjectDef `json:"objects"`
}

type ObjectDef struct {
	UID        uint64            `json:"uid,omitempty"`
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Position   [3]float32        `json:"position"`
	Rotation   [3]float32        `json:"rotation"`
	Scale      [3]float32        `json:"scale"`
	Components []json.RawMessage `json:"components"`
}

type componentHeader struct {
	Type string `json:"type"`
}

type meshRendererDef struct {
	Type   string     `json:"type"`
	Mesh   string     `json:"mesh"`
	Size   [3]float32 `json:"size"`
	Offset [3]float32 `json:"offset,omitempty"`
	Color  string     `json:"color"`
}

type boxColliderDef struct {
	Type    string     `json:"type"`
	Size    [3]float32 `json:"size"`
	Offset  [3]float32 `json:"offset,omitempty"`
	Trigger bool       `json:"isTrigger,omitempty"`
}

type characterControllerDef struct {
	Type      string  `json:"type"`
	Height    float32 `json:"height,omitempty"`
	Radius    float32 `json:"radius,omitempty"`
	Speed     float32 `json:"speed,omitempty"`
	JumpSpeed float32 `json:"jumpSpeed,omitempty"`
	EyeHeight float32 `json:"eyeHeight,omitempty"`
	Gravity   float32 `json:"gravity,omitempty"`
}

type cameraDef struct {
	Type      string     `json:"type"`
	FOV       float32    `json:"fov,omitempty"`
	Offset    [3]float32 `json:"offset"`
	Smoothing float32    `json:"smoothing,omitempty"`
	Target    string     `json:"target,omitempty"`
}

type scriptDef struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

func lookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	var c rl.Color
	if _, err := fmt.Sscanf(name, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A); err == nil {
		return c
	}
	return rl.White
}

func lookupColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// --- Loading ---

func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scene: %w", err)
	}
	if err := w.LoadSceneData(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	w.log.Info("scene loaded", zap.String("path", path), zap.Int("objects", len(w.Scene.GameObjects)))
	return nil
}

// LoadSceneData adds the objects of an encoded scene file. Unknown component
// types are skipped with a warning.
func (w *World) LoadSceneData(data []byte) error {
	var sf SceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}
	if sf.Name != "" {
		w.Scene.Name = sf.Name
	}

	// cameras target objects by name, which may come later in the file
	cameraTargets := map[*components.Camera]string{}

	for _, objDef := range sf.Objects {
		g := engine.NewGameObjectWithUID(objDef.Name, objDef.UID)
		g.Tags = objDef.Tags
		g.Transform.Position = vec3(objDef.Position)
		g.Transform.Rotation = vec3(objDef.Rotation)

		// Default scale to 1 if zero
		if objDef.Scale == [3]float32{} {
			g.Transform.Scale = rl.Vector3{X: 1, Y: 1, Z: 1}
		} else {
			g.Transform.Scale = vec3(objDef.Scale)
		}

		for _, raw := range objDef.Components {
			var header componentHeader
			if err := json.Unmarshal(raw, &header); err != nil {
				return fmt.Errorf("object %s: %w", objDef.Name, err)
			}

			var err error
			switch header.Type {
			case "MeshRenderer":
				err = loadMeshRenderer(g, raw)
			case "BoxCollider":
				err = loadBoxCollider(g, raw)
			case "CharacterController":
				err = loadCharacterController(g, raw)
			case "Camera":
				var cam *components.Camera
				var target string
				cam, target, err = loadCamera(g, raw)
				if cam != nil && target != "" {
					cameraTargets[cam] = target
				}
			case "Script":
				err = loadScript(g, raw)
			default:
				w.log.Warn("unknown component skipped",
					zap.String("object", objDef.Name),
					zap.String("type", header.Type))
			}
			if err != nil {
				return fmt.Errorf("object %s: %s: %w", objDef.Name, header.Type, err)
			}
		}

		w.SpawnObject(g)
	}

	for cam, target := range cameraTargets {
		cam.Target = w.Scene.FindByName(target)
		if cam.Target == nil {
			w.log.Warn("camera target not found", zap.String("target", target))
		}
	}
	return nil
}

func vec3(v [3]float32) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func arr3(v rl.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

func loadMeshRenderer(g *engine.GameObject, raw json.RawMessage) error {
	var def meshRendererDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	var meshType components.MeshType
	switch def.Mesh {
	case "cube", "":
		meshType = components.MeshCube
	case "plane":
		meshType = components.MeshPlane
	default:
		return fmt.Errorf("unknown mesh %q", def.Mesh)
	}
	mr := components.NewMeshRenderer(meshType, lookupColor(def.Color), vec3(def.Size))
	mr.Offset = vec3(def.Offset)
	g.AddComponent(mr)
	return nil
}

func loadBoxCollider(g *engine.GameObject, raw json.RawMessage) error {
	var def boxColliderDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	col := components.NewBoxCollider(vec3(def.Size))
	col.Offset = vec3(def.Offset)
	col.Trigger = def.Trigger
	g.AddComponent(col)
	return nil
}

func loadCharacterController(g *engine.GameObject, raw json.RawMessage) error {
	var def characterControllerDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	cc := components.NewCharacterController()
	if def.Height > 0 {
		cc.Height = def.Height
	}
	if def.Radius > 0 {
		cc.Radius = def.Radius
	}
	if def.Speed > 0 {
		cc.Speed = def.Speed
	}
	if def.JumpSpeed > 0 {
		cc.JumpSpeed = def.JumpSpeed
	}
	if def.EyeHeight > 0 {
		cc.EyeHeight = def.EyeHeight
	}
	if def.Gravity > 0 {
		cc.Gravity = def.Gravity
	}
	g.AddComponent(cc)
	return nil
}

func loadCamera(g *engine.GameObject, raw json.RawMessage) (*components.Camera, string, error) {
	var def cameraDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, "", err
	}
	cam := components.NewCamera()
	if def.FOV > 0 {
		cam.FOV = def.FOV
	}
	if def.Offset != [3]float32{} {
		cam.Offset = vec3(def.Offset)
	}
	if def.Smoothing > 0 {
		cam.Smoothing = def.Smoothing
	}
	g.AddComponent(cam)
	return cam, def.Target, nil
}

func loadScript(g *engine.GameObject, raw json.RawMessage) error {
	var def scriptDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return err
	}
	comp := engine.CreateScript(def.Name, def.Props)
	if comp == nil {
		return fmt.Errorf("unknown script %q", def.Name)
	}
	g.AddComponent(comp)
	return nil
}

// --- Saving ---

// SaveScene writes the scene without generated shadow planes or the trigger
// volumes shadow scripts add for themselves.
func (w *World) SaveScene(path string) error {
	data, err := w.MarshalScene()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

func (w *World) MarshalScene() ([]byte, error) {
	sf := SceneFile{Name: w.Scene.Name}

	for _, g := range w.Scene.GameObjects {
		if g.HasTag(scripts.ShadowTag) {
			continue
		}

		objDef := ObjectDef{
			UID:      g.UID,
			Name:     g.Name,
			Tags:     g.Tags,
			Position: arr3(g.Transform.Position),
			Rotation: arr3(g.Transform.Rotation),
			Scale:    arr3(g.Transform.Scale),
		}

		owned := ownedTrigger(g)
		for _, c := range g.Components() {
			if c == owned {
				continue
			}
			raw, err := serializeComponent(c)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", g.Name, err)
			}
			if raw != nil {
				objDef.Components = append(objDef.Components, raw)
			}
		}

		sf.Objects = append(sf.Objects, objDef)
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

func ownedTrigger(g *engine.GameObject) engine.Component {
	if s := engine.GetComponent[*scripts.ShadowScript](g); s != nil {
		if t := s.TriggerCollider(); t != nil {
			return t
		}
	}
	return nil
}

func serializeComponent(c engine.Component) (json.RawMessage, error) {
	var def any

	switch comp := c.(type) {
	case *components.MeshRenderer:
		var mesh string
		switch comp.MeshType {
		case components.MeshCube:
			mesh = "cube"
		case components.MeshPlane:
			mesh = "plane"
		default:
			return nil, nil
		}
		def = meshRendererDef{
			Type:   "MeshRenderer",
			Mesh:   mesh,
			Size:   arr3(comp.Size),
			Offset: arr3(comp.Offset),
			Color:  lookupColorName(comp.Color),
		}

	case *components.BoxCollider:
		def = boxColliderDef{
			Type:    "BoxCollider",
			Size:    arr3(comp.Size),
			Offset:  arr3(comp.Offset),
			Trigger: comp.Trigger,
		}

	case *components.CharacterController:
		def = characterControllerDef{
			Type:      "CharacterController",
			Height:    comp.Height,
			Radius:    comp.Radius,
			Speed:     comp.Speed,
			JumpSpeed: comp.JumpSpeed,
			EyeHeight: comp.EyeHeight,
			Gravity:   comp.Gravity,
		}

	case *components.Camera:
		d := cameraDef{
			Type:      "Camera",
			FOV:       comp.FOV,
			Offset:    arr3(comp.Offset),
			Smoothing: comp.Smoothing,
		}
		if comp.Target != nil {
			d.Target = comp.Target.Name
		}
		def = d

	case *components.MeshCollider:
		// rebuilt from the mesh at runtime
		return nil, nil

	default:
		// Try script registry
		if name, props, ok := engine.SerializeScript(c); ok {
			def = scriptDef{Type: "Script", Name: name, Props: props}
		} else {
			return nil, nil
		}
	}

	data, err := json.Marshal(def)
	if err != nil {
		return nil, err
	}
	return data, nil
}
