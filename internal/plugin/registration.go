package plugin

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration stages one plugin's tools, resources and prompts before the
// host commits them to the shared dispatcher. Staging keeps registration
// atomic per plugin: a plugin that fails any registration step, or collides
// with an already-committed identifier, contributes nothing.
type Registration struct {
	tools     []ToolEntry
	resources []ResourceEntry
	prompts   []PromptEntry
}

// ToolEntry pairs a tool definition with its handler.
type ToolEntry struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// ResourceEntry pairs a resource definition with its handler.
type ResourceEntry struct {
	Resource mcp.Resource
	Handler  server.ResourceHandlerFunc
}

// PromptEntry pairs a prompt definition with its handler.
type PromptEntry struct {
	Prompt  mcp.Prompt
	Handler server.PromptHandlerFunc
}

// NewRegistration creates an empty stage.
func NewRegistration() *Registration {
	return &Registration{}
}

// AddTool stages a tool.
func (r *Registration) AddTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	r.tools = append(r.tools, ToolEntry{Tool: tool, Handler: handler})
}

// AddResource stages a resource.
func (r *Registration) AddResource(resource mcp.Resource, handler server.ResourceHandlerFunc) {
	r.resources = append(r.resources, ResourceEntry{Resource: resource, Handler: handler})
}

// AddPrompt stages a prompt.
func (r *Registration) AddPrompt(prompt mcp.Prompt, handler server.PromptHandlerFunc) {
	r.prompts = append(r.prompts, PromptEntry{Prompt: prompt, Handler: handler})
}

// Tools returns the staged tools.
func (r *Registration) Tools() []ToolEntry { return r.tools }

// Resources returns the staged resources.
func (r *Registration) Resources() []ResourceEntry { return r.resources }

// Prompts returns the staged prompts.
func (r *Registration) Prompts() []PromptEntry { return r.prompts }
