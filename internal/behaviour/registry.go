package behaviour

import (
	"GopherToon/internal/renderer"
	"sort"
)

// Constructor builds a behaviour, named in a scene config, acting on the
// scene's main model.
type Constructor func(model *renderer.Model) PlayerBehaviour

var registry = make(map[string]Constructor)

func Register(name string, constructor Constructor) {
	registry[name] = constructor
}

// Available lists registered behaviour names in sorted order.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create returns nil for unknown names.
func Create(name string, model *renderer.Model) PlayerBehaviour {
	if constructor, exists := registry[name]; exists {
		return constructor(model)
	}
	return nil
}
