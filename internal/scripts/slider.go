package scripts

import (
	"math"

	"shadowplay/internal/engine"
)

// Slider moves an object back and forth along X around where it started.
// Shadow casters with a Slider keep their planes attached every frame.
type Slider struct {
	engine.BaseComponent
	Distance float32
	Speed    float32

	originX float32
	elapsed float32
}

func (s *Slider) Start() {
	if g := s.GetGameObject(); g != nil {
		s.originX = g.Transform.Position.X
	}
}

func (s *Slider) Update(deltaTime float32) {
	g := s.GetGameObject()
	if g == nil || s.Distance == 0 {
		return
	}
	s.elapsed += deltaTime
	g.Transform.Position.X = s.originX + s.Distance*float32(math.Sin(float64(s.elapsed*s.Speed)))
}

func init() {
	engine.RegisterScript("Slider", sliderFactory, sliderSerializer)
}

func sliderFactory(props map[string]any) engine.Component {
	return &Slider{
		Distance: engine.PropFloat(props, "distance", 2),
		Speed:    engine.PropFloat(props, "speed", 1),
	}
}

func sliderSerializer(c engine.Component) map[string]any {
	s, ok := c.(*Slider)
	if !ok {
		return nil
	}
	return map[string]any{
		"distance": s.Distance,
		"speed":    s.Speed,
	}
}
