// Package host wires registered plugins into the shared MCP dispatcher.
package host

import (
	"fmt"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// Host owns the MCP server and tracks which plugin committed each
// tool/resource/prompt identifier, so a later plugin cannot silently
// overwrite an earlier one.
type Host struct {
	server *server.MCPServer

	tools     map[string]string // tool name -> owning plugin
	resources map[string]string // resource URI -> owning plugin
	prompts   map[string]string // prompt name -> owning plugin
}

// New creates a host around a freshly configured MCP server.
func New(name, version string) *Host {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	return &Host{
		server:    s,
		tools:     make(map[string]string),
		resources: make(map[string]string),
		prompts:   make(map[string]string),
	}
}

// MCPServer returns the underlying dispatcher.
func (h *Host) MCPServer() *server.MCPServer {
	return h.server
}

// Apply stages and commits a single plugin. Registration is atomic: if any
// of the three registration calls fails, or any staged identifier collides
// with one committed earlier (or repeats within the stage), nothing from
// this plugin reaches the dispatcher.
func (h *Host) Apply(p plugin.Plugin) error {
	reg := plugin.NewRegistration()

	if err := p.RegisterTools(reg); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}
	if err := p.RegisterResources(reg); err != nil {
		return fmt.Errorf("register resources: %w", err)
	}
	if err := p.RegisterPrompts(reg); err != nil {
		return fmt.Errorf("register prompts: %w", err)
	}

	if err := h.checkCollisions(p.Name(), reg); err != nil {
		return err
	}

	for _, entry := range reg.Tools() {
		h.server.AddTool(entry.Tool, entry.Handler)
		h.tools[entry.Tool.Name] = p.Name()
	}
	for _, entry := range reg.Resources() {
		h.server.AddResource(entry.Resource, entry.Handler)
		h.resources[entry.Resource.URI] = p.Name()
	}
	for _, entry := range reg.Prompts() {
		h.server.AddPrompt(entry.Prompt, entry.Handler)
		h.prompts[entry.Prompt.Name] = p.Name()
	}

	logrus.WithFields(logrus.Fields{
		"plugin":    p.Name(),
		"tools":     len(reg.Tools()),
		"resources": len(reg.Resources()),
		"prompts":   len(reg.Prompts()),
	}).Info("Registered plugin")

	return nil
}

func (h *Host) checkCollisions(pluginName string, reg *plugin.Registration) error {
	staged := make(map[string]struct{})

	check := func(kind, id string, committed map[string]string) error {
		key := kind + ":" + id
		if _, dup := staged[key]; dup {
			return fmt.Errorf("%s %q staged twice by plugin %q", kind, id, pluginName)
		}
		staged[key] = struct{}{}
		if owner, exists := committed[id]; exists {
			return fmt.Errorf("%s %q already registered by plugin %q", kind, id, owner)
		}
		return nil
	}

	for _, entry := range reg.Tools() {
		if err := check("tool", entry.Tool.Name, h.tools); err != nil {
			return err
		}
	}
	for _, entry := range reg.Resources() {
		if err := check("resource", entry.Resource.URI, h.resources); err != nil {
			return err
		}
	}
	for _, entry := range reg.Prompts() {
		if err := check("prompt", entry.Prompt.Name, h.prompts); err != nil {
			return err
		}
	}
	return nil
}

// ToolOwner reports which plugin committed the named tool.
func (h *Host) ToolOwner(name string) (string, bool) {
	owner, ok := h.tools[name]
	return owner, ok
}

// ResourceOwner reports which plugin committed the resource URI.
func (h *Host) ResourceOwner(uri string) (string, bool) {
	owner, ok := h.resources[uri]
	return owner, ok
}

// PromptOwner reports which plugin committed the named prompt.
func (h *Host) PromptOwner(name string) (string, bool) {
	owner, ok := h.prompts[name]
	return owner, ok
}

// Load instantiates every enabled plugin from the registry in sorted name
// order and applies it. A factory or registration failure is logged and the
// plugin skipped; Load fails only when nothing loaded at all.
func (h *Host) Load(registry *plugin.Registry, enabled func(name string) bool) ([]string, error) {
	var loaded []string

	for _, name := range registry.Names() {
		if enabled != nil && !enabled(name) {
			logrus.WithField("plugin", name).Info("Plugin disabled by configuration")
			continue
		}

		p, err := registry.Lookup(name)()
		if err != nil {
			logrus.WithField("plugin", name).WithError(err).Error("Plugin factory failed, skipping")
			continue
		}

		if err := h.Apply(p); err != nil {
			logrus.WithField("plugin", name).WithError(err).Error("Plugin registration failed, skipping")
			continue
		}

		loaded = append(loaded, name)
	}

	if len(loaded) == 0 {
		return nil, fmt.Errorf("no plugins loaded")
	}
	return loaded, nil
}
