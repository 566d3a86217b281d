package physics

import "shadowplay/internal/engine"

// Volume is a collider that can report its world-space box.
type Volume interface {
	engine.Component
	GetAABB() AABB
}

// TriggerVolume is a Volume that may be flagged as a trigger. Triggers report
// overlaps but never push anything.
type TriggerVolume interface {
	Volume
	IsTrigger() bool
}

// triggerPair is (trigger object, object inside it). Unlike collision pairs
// these are ordered: only the trigger side gets callbacks.
type triggerPair struct {
	trigger, other *engine.GameObject
}

// Triggers tracks trigger overlaps frame to frame and dispatches
// OnTriggerEnter/Stay/Exit to engine.TriggerHandler components.
type Triggers struct {
	active     map[triggerPair]bool
	activeList []triggerPair
}

func NewTriggers() *Triggers {
	return &Triggers{active: make(map[triggerPair]bool)}
}

// Update tests every trigger in objects against every body and dispatches the
// callbacks for this frame. Bodies are usually only the player.
func (t *Triggers) Update(objects, bodies []*engine.GameObject) {
	current := make(map[triggerPair]bool)
	var currentList []triggerPair

	for _, g := range objects {
		if !g.Active {
			continue
		}
		vol := triggerOf(g)
		if vol == nil {
			continue
		}
		box := vol.GetAABB()
		for _, body := range bodies {
			if body == g || !body.Active {
				continue
			}
			bodyVol := solidOf(body)
			if bodyVol == nil || !box.Intersects(bodyVol.GetAABB()) {
				continue
			}
			pair := triggerPair{trigger: g, other: body}
			current[pair] = true
			currentList = append(currentList, pair)
		}
	}

	for _, pair := range t.activeList {
		if !current[pair] && pair.trigger.Scene != nil {
			notify(pair.trigger, func(h engine.TriggerHandler) { h.OnTriggerExit(pair.other) })
		}
	}
	for _, pair := range currentList {
		if t.active[pair] {
			notify(pair.trigger, func(h engine.TriggerHandler) { h.OnTriggerStay(pair.other) })
		} else {
			notify(pair.trigger, func(h engine.TriggerHandler) { h.OnTriggerEnter(pair.other) })
		}
	}

	t.active = current
	t.activeList = currentList
}

// Overlapping reports whether other was inside trigger at the last Update.
func (t *Triggers) Overlapping(trigger, other *engine.GameObject) bool {
	return t.active[triggerPair{trigger: trigger, other: other}]
}

func triggerOf(g *engine.GameObject) TriggerVolume {
	for _, c := range g.Components() {
		if tv, ok := c.(TriggerVolume); ok && tv.IsTrigger() {
			return tv
		}
	}
	return nil
}

// solidOf returns the first volume on g that is not a trigger.
func solidOf(g *engine.GameObject) Volume {
	for _, c := range g.Components() {
		if tv, ok := c.(TriggerVolume); ok && tv.IsTrigger() {
			continue
		}
		if v, ok := c.(Volume); ok {
			return v
		}
	}
	return nil
}

func notify(g *engine.GameObject, call func(engine.TriggerHandler)) {
	for _, c := range g.Components() {
		if h, ok := c.(engine.TriggerHandler); ok {
			call(h)
		}
	}
}
