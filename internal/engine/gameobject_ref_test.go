package engine

import "testing"

func TestGameObjectRefGet(t *testing.T) {
	scene := NewScene("Test")
	obj := NewGameObject("BackWall")
	scene.AddGameObject(obj)

	ref := GameObjectRef{UID: obj.UID}
	if found := ref.Get(scene); found != obj {
		t.Errorf("Get() failed: expected %v, got %v", obj, found)
	}

	if (GameObjectRef{}).Get(scene) != nil {
		t.Error("Get() with UID=0 should return nil")
	}
	if (GameObjectRef{UID: 99999}).Get(scene) != nil {
		t.Error("Get() with non-existent UID should return nil")
	}
	if ref.Get(nil) != nil {
		t.Error("Get() with nil scene should return nil")
	}
}

func TestGameObjectRefResolveFallsBackToName(t *testing.T) {
	scene := NewScene("Test")
	wall := NewGameObject("BackWall")
	scene.AddGameObject(wall)

	var ref GameObjectRef
	if got := ref.Resolve(scene, "BackWall"); got != wall {
		t.Errorf("Resolve() should find %q by name, got %v", "BackWall", got)
	}
	if got := ref.Resolve(scene, "Missing"); got != nil {
		t.Errorf("Resolve() should return nil for a missing name, got %v", got)
	}
	if got := ref.Resolve(scene, ""); got != nil {
		t.Error("Resolve() with empty fallback should return nil")
	}

	other := NewGameObject("Other")
	scene.AddGameObject(other)
	ref.Set(other)
	if got := ref.Resolve(scene, "BackWall"); got != other {
		t.Error("Resolve() should prefer the UID over the name")
	}
}

func TestGameObjectRefSetClear(t *testing.T) {
	obj := NewGameObject("Player")

	var ref GameObjectRef
	if ref.IsValid() {
		t.Error("zero GameObjectRef should be invalid")
	}

	ref.Set(obj)
	if ref.UID != obj.UID || !ref.IsValid() {
		t.Errorf("Set() should store UID %d, got %d", obj.UID, ref.UID)
	}

	ref.Set(nil)
	if ref.IsValid() {
		t.Error("Set(nil) should clear the reference")
	}

	ref.Set(obj)
	ref.Clear()
	if ref.UID != 0 {
		t.Error("Clear() should reset UID to 0")
	}
}

func TestGameObjectRefSurvivesPropsRoundtrip(t *testing.T) {
	ref := GameObjectRef{UID: 12345}

	// Scene files store UIDs as JSON numbers.
	props := map[string]any{"wall": float64(ref.UID)}
	if got := PropRef(props, "wall"); got != ref {
		t.Errorf("PropRef roundtrip failed: expected %d, got %d", ref.UID, got.UID)
	}
	if got := PropRef(props, "player"); got.IsValid() {
		t.Error("PropRef on a missing key should be empty")
	}
}
