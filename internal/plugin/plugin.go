// Package plugin defines the capability contract that feature plugins
// implement and the static registry the server host loads them from.
//
// Plugins self-register a factory under a unique name from init(); the host
// blank-imports the plugin packages and instantiates every enabled factory
// in sorted name order, so the final dispatch tables do not depend on map
// iteration or filesystem traversal.
package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Plugin is the contract every feature plugin satisfies. The three
// registration methods stage the plugin's tools, resources and prompts into
// the given Registration; the host commits the stage to the dispatcher only
// if all three calls succeed and no identifier collides.
type Plugin interface {
	// Name returns the plugin's registry name.
	Name() string

	RegisterTools(reg *Registration) error
	RegisterResources(reg *Registration) error
	RegisterPrompts(reg *Registration) error
}

// Factory creates a plugin instance. Factories must not block: expensive
// setup (network dials, credential checks) belongs in tool handlers.
type Factory func() (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default is the registry plugin packages register into from init().
var Default = NewRegistry()

// Register adds a factory to the default registry. Registering an empty
// name, a nil factory, or the same name twice is a programmer error and
// panics.
func Register(name string, f Factory) {
	Default.Register(name, f)
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		panic("plugin: Register with empty name")
	}
	if f == nil {
		panic(fmt.Sprintf("plugin: Register(%q) with nil factory", name))
	}
	if _, dup := r.factories[name]; dup {
		panic(fmt.Sprintf("plugin: Register called twice for %q", name))
	}
	r.factories[name] = f
}

// Names returns all registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup finds a factory by name, or nil if none is registered.
func (r *Registry) Lookup(name string) Factory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.factories[name]
}
