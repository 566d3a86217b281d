package engine

// GameObjectRef is a serializable reference to a GameObject by UID.
// Scripts use it instead of looking objects up by name every frame.
//
//	type WallFollower struct {
//	    engine.BaseComponent
//	    Wall engine.GameObjectRef
//	}
//
//	func (s *WallFollower) Start() {
//	    if wall := s.Wall.Get(s.GetGameObject().Scene); wall != nil {
//	        // ...
//	    }
//	}
type GameObjectRef struct {
	UID uint64 // 0 = none
}

// Get resolves the reference. Returns nil for an empty reference or a
// GameObject that is no longer in the scene.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == 0 || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// Resolve is Get with a by-name fallback for scene files written before the
// reference was set.
func (r GameObjectRef) Resolve(scene *Scene, fallbackName string) *GameObject {
	if g := r.Get(scene); g != nil {
		return g
	}
	if scene == nil || fallbackName == "" {
		return nil
	}
	return scene.FindByName(fallbackName)
}

// IsValid reports whether the reference is set. It does not check the scene.
func (r GameObjectRef) IsValid() bool {
	return r.UID != 0
}

// Set points the reference at g. Pass nil to clear it.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = 0
	} else {
		r.UID = g.UID
	}
}

func (r *GameObjectRef) Clear() {
	r.UID = 0
}
