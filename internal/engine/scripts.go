package engine

import (
	"fmt"
	"sort"
)

// ScriptFactory creates a Component from scene-file props.
type ScriptFactory func(props map[string]any) Component

// ScriptSerializer converts a Component back to props for saving.
// It returns nil when c is not the script it serializes.
type ScriptSerializer func(c Component) map[string]any

// ScriptApplier applies a single property value to a script component.
// Returns true if the property was applied successfully.
type ScriptApplier func(c Component, propName string, value any) bool

type scriptEntry struct {
	factory    ScriptFactory
	serializer ScriptSerializer
	applier    ScriptApplier
	fieldTypes map[string]string
}

var scriptRegistry = map[string]scriptEntry{}

func register(name string, entry scriptEntry) {
	if _, exists := scriptRegistry[name]; exists {
		panic(fmt.Sprintf("script %q already registered", name))
	}
	scriptRegistry[name] = entry
}

// RegisterScript registers a named script with a factory and optional serializer.
func RegisterScript(name string, factory ScriptFactory, serializer ScriptSerializer) {
	register(name, scriptEntry{factory: factory, serializer: serializer})
}

// RegisterScriptWithApplier registers a script that also supports live property edits.
func RegisterScriptWithApplier(name string, factory ScriptFactory, serializer ScriptSerializer, applier ScriptApplier) {
	register(name, scriptEntry{factory: factory, serializer: serializer, applier: applier})
}

// RegisterScriptWithMetadata additionally records the declared type of props
// that need special handling, such as "GameObjectRef".
func RegisterScriptWithMetadata(name string, factory ScriptFactory, serializer ScriptSerializer, applier ScriptApplier, fieldTypes map[string]string) {
	register(name, scriptEntry{factory: factory, serializer: serializer, applier: applier, fieldTypes: fieldTypes})
}

// CreateScript looks up a registered script by name and creates it with the given props.
func CreateScript(name string, props map[string]any) Component {
	entry, ok := scriptRegistry[name]
	if !ok {
		return nil
	}
	return entry.factory(props)
}

// SerializeScript finds the registered serializer that recognizes c.
// Returns (name, props, true) if found, ("", nil, false) otherwise.
func SerializeScript(c Component) (string, map[string]any, bool) {
	for name, entry := range scriptRegistry {
		if entry.serializer == nil {
			continue
		}
		if props := entry.serializer(c); props != nil {
			return name, props, true
		}
	}
	return "", nil, false
}

// GetRegisteredScripts returns a sorted list of all registered script names.
func GetRegisteredScripts() []string {
	names := make([]string, 0, len(scriptRegistry))
	for name := range scriptRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyScriptProperty applies a property value to a script component.
func ApplyScriptProperty(c Component, propName string, value any) bool {
	for _, entry := range scriptRegistry {
		if entry.applier == nil {
			continue
		}
		if entry.applier(c, propName, value) {
			return true
		}
	}
	return false
}

// GetScriptFieldType returns the declared type of propName for the script c
// belongs to, or "" when nothing was declared.
func GetScriptFieldType(c Component, propName string) string {
	for _, entry := range scriptRegistry {
		if entry.serializer == nil || entry.serializer(c) == nil {
			continue
		}
		return entry.fieldTypes[propName]
	}
	return ""
}

// PropFloat reads a numeric prop. JSON and YAML decoders disagree on number
// types, so every numeric kind is accepted.
func PropFloat(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	case int64:
		return float32(v)
	}
	return fallback
}

func PropBool(props map[string]any, key string, fallback bool) bool {
	if v, ok := props[key].(bool); ok {
		return v
	}
	return fallback
}

func PropString(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return fallback
}

// PropRef reads a GameObjectRef stored as a UID number.
func PropRef(props map[string]any, key string) GameObjectRef {
	switch v := props[key].(type) {
	case float64:
		if v > 0 {
			return GameObjectRef{UID: uint64(v)}
		}
	case int:
		if v > 0 {
			return GameObjectRef{UID: uint64(v)}
		}
	case uint64:
		return GameObjectRef{UID: v}
	case GameObjectRef:
		return v
	}
	return GameObjectRef{}
}
