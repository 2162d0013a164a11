package host

import (
	"context"
	"errors"
	"testing"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlugin stages a configurable set of identifiers and can fail any
// registration step.
type fakePlugin struct {
	name      string
	tools     []string
	resources []string
	prompts   []string

	toolsErr   error
	promptsErr error
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) RegisterTools(reg *plugin.Registration) error {
	if p.toolsErr != nil {
		return p.toolsErr
	}
	for _, name := range p.tools {
		reg.AddTool(mcp.NewTool(name), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("ok"), nil
		})
	}
	return nil
}

func (p *fakePlugin) RegisterResources(reg *plugin.Registration) error {
	for _, uri := range p.resources {
		reg.AddResource(mcp.NewResource(uri, uri), func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return nil, nil
		})
	}
	return nil
}

func (p *fakePlugin) RegisterPrompts(reg *plugin.Registration) error {
	if p.promptsErr != nil {
		return p.promptsErr
	}
	for _, name := range p.prompts {
		reg.AddPrompt(mcp.NewPrompt(name), func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return mcp.NewGetPromptResult("", nil), nil
		})
	}
	return nil
}

func TestApplyCommitsAllIdentifiers(t *testing.T) {
	h := New("test", "0.0.1")
	p := &fakePlugin{
		name:      "alpha",
		tools:     []string{"a_run", "a_stop"},
		resources: []string{"alpha://status"},
		prompts:   []string{"alpha_help"},
	}

	require.NoError(t, h.Apply(p))

	owner, ok := h.ToolOwner("a_run")
	require.True(t, ok)
	assert.Equal(t, "alpha", owner)

	owner, ok = h.ResourceOwner("alpha://status")
	require.True(t, ok)
	assert.Equal(t, "alpha", owner)

	owner, ok = h.PromptOwner("alpha_help")
	require.True(t, ok)
	assert.Equal(t, "alpha", owner)
}

func TestApplyRejectsCrossPluginCollision(t *testing.T) {
	h := New("test", "0.0.1")
	require.NoError(t, h.Apply(&fakePlugin{name: "alpha", tools: []string{"shared"}}))

	second := &fakePlugin{
		name:    "beta",
		tools:   []string{"shared"},
		prompts: []string{"beta_help"},
	}
	err := h.Apply(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `already registered by plugin "alpha"`)

	// Nothing from the failed plugin may have committed.
	_, ok := h.PromptOwner("beta_help")
	assert.False(t, ok)

	owner, _ := h.ToolOwner("shared")
	assert.Equal(t, "alpha", owner)
}

func TestApplyRejectsDuplicateWithinStage(t *testing.T) {
	h := New("test", "0.0.1")
	err := h.Apply(&fakePlugin{name: "alpha", tools: []string{"dup", "dup"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "staged twice")

	_, ok := h.ToolOwner("dup")
	assert.False(t, ok)
}

func TestApplyRegistrationErrorCommitsNothing(t *testing.T) {
	h := New("test", "0.0.1")
	p := &fakePlugin{
		name:       "alpha",
		tools:      []string{"a_run"},
		promptsErr: errors.New("boom"),
	}

	require.Error(t, h.Apply(p))

	_, ok := h.ToolOwner("a_run")
	assert.False(t, ok)
}

func TestLoadSkipsFailingPlugins(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.Register("bad-factory", func() (plugin.Plugin, error) {
		return nil, errors.New("factory boom")
	})
	reg.Register("bad-registration", func() (plugin.Plugin, error) {
		return &fakePlugin{name: "bad-registration", toolsErr: errors.New("stage boom")}, nil
	})
	reg.Register("good", func() (plugin.Plugin, error) {
		return &fakePlugin{name: "good", tools: []string{"g_run"}}, nil
	})

	h := New("test", "0.0.1")
	loaded, err := h.Load(reg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, loaded)
}

func TestLoadHonorsEnabledFilter(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.Register("alpha", func() (plugin.Plugin, error) {
		return &fakePlugin{name: "alpha", tools: []string{"a_run"}}, nil
	})
	reg.Register("beta", func() (plugin.Plugin, error) {
		return &fakePlugin{name: "beta", tools: []string{"b_run"}}, nil
	})

	h := New("test", "0.0.1")
	loaded, err := h.Load(reg, func(name string) bool { return name != "beta" })
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, loaded)

	_, ok := h.ToolOwner("b_run")
	assert.False(t, ok)
}

func TestLoadFailsWhenNothingLoads(t *testing.T) {
	reg := plugin.NewRegistry()
	reg.Register("bad", func() (plugin.Plugin, error) {
		return nil, errors.New("factory boom")
	})

	h := New("test", "0.0.1")
	_, err := h.Load(reg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plugins loaded")
}

func TestLoadOrderIsSorted(t *testing.T) {
	reg := plugin.NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		name := name
		reg.Register(name, func() (plugin.Plugin, error) {
			return &fakePlugin{name: name, tools: []string{name + "_run"}}, nil
		})
	}

	h := New("test", "0.0.1")
	loaded, err := h.Load(reg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, loaded)
}
