package sshremote

import (
	"context"
	"testing"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, p *Plugin, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	reg := plugin.NewRegistration()
	require.NoError(t, p.RegisterTools(reg))

	for _, entry := range reg.Tools() {
		if entry.Tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = name
		req.Params.Arguments = args

		result, err := entry.Handler(context.Background(), req)
		require.NoError(t, err)
		return result
	}

	t.Fatalf("tool %s not registered", name)
	return nil
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestPluginRegistersInDefaultRegistry(t *testing.T) {
	factory := plugin.Default.Lookup(PluginName)
	require.NotNil(t, factory)

	p, err := factory()
	require.NoError(t, err)
	assert.Equal(t, PluginName, p.Name())
}

func TestStagedIdentifiers(t *testing.T) {
	p := NewPlugin()

	reg := plugin.NewRegistration()
	require.NoError(t, p.RegisterTools(reg))
	require.NoError(t, p.RegisterResources(reg))
	require.NoError(t, p.RegisterPrompts(reg))

	var toolNames []string
	for _, entry := range reg.Tools() {
		toolNames = append(toolNames, entry.Tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"ssh_configure", "ssh_connect", "ssh_disconnect",
		"ssh_execute", "ssh_upload", "ssh_download",
	}, toolNames)

	var uris []string
	for _, entry := range reg.Resources() {
		uris = append(uris, entry.Resource.URI)
	}
	assert.ElementsMatch(t, []string{"ssh://status", "ssh://config"}, uris)

	var prompts []string
	for _, entry := range reg.Prompts() {
		prompts = append(prompts, entry.Prompt.Name)
	}
	assert.ElementsMatch(t, []string{"ssh_troubleshoot", "remote_admin"}, prompts)
}

func TestConfigureTool(t *testing.T) {
	p := NewPlugin()

	result := callTool(t, p, "ssh_configure", map[string]any{
		"host":     "example.com",
		"username": "admin",
		"password": "secret",
	})
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "admin@example.com:22")

	st := p.session.Status()
	assert.True(t, st.Configured)
	assert.False(t, st.Connected)
}

func TestConfigureToolRejectsMissingAuth(t *testing.T) {
	p := NewPlugin()

	result := callTool(t, p, "ssh_configure", map[string]any{
		"host":     "example.com",
		"username": "admin",
	})
	assert.True(t, result.IsError)
}

func TestExecuteBeforeConnectReturnsErrorResult(t *testing.T) {
	p := NewPlugin()

	result := callTool(t, p, "ssh_execute", map[string]any{
		"command": "uname -a",
	})
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not connected")
}

func TestDisconnectWithoutConnectionTool(t *testing.T) {
	p := NewPlugin()

	result := callTool(t, p, "ssh_disconnect", nil)
	require.False(t, result.IsError)
	assert.Equal(t, "No active SSH connection", resultText(t, result))
}

func TestStatusResourceUnconfigured(t *testing.T) {
	p := NewPlugin()

	contents, err := p.handleStatusResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "not configured")
	assert.Contains(t, text.Text, "disconnected")
}

func TestConfigResourceElidesSecrets(t *testing.T) {
	p := NewPlugin()
	require.NoError(t, p.session.Configure(&Config{
		Host:     "example.com",
		Username: "admin",
		Password: "hunter2",
	}))

	contents, err := p.handleConfigResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, "example.com")
	assert.Contains(t, text.Text, "password")
	assert.NotContains(t, text.Text, "hunter2")
}

func TestTroubleshootPrompt(t *testing.T) {
	p := NewPlugin()

	req := mcp.GetPromptRequest{}
	req.Params.Name = "ssh_troubleshoot"
	req.Params.Arguments = map[string]string{"issue": "connection refused"}

	result, err := p.handleTroubleshootPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	content, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, content.Text, "connection refused")
}
