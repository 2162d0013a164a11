package sshremote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// PluginName is the registry name of the SSH plugin.
const PluginName = "ssh"

func init() {
	plugin.Register(PluginName, func() (plugin.Plugin, error) {
		return NewPlugin(), nil
	})
}

// Plugin exposes the SSH session as MCP tools, resources and prompts.
type Plugin struct {
	session *Session
}

// NewPlugin creates the plugin with a fresh disconnected session.
func NewPlugin() *Plugin {
	return &Plugin{session: NewSession()}
}

// Name returns the registry name.
func (p *Plugin) Name() string { return PluginName }

// RegisterTools stages the SSH tools.
func (p *Plugin) RegisterTools(reg *plugin.Registration) error {
	reg.AddTool(
		mcp.NewTool("ssh_configure",
			mcp.WithDescription("Configure the SSH connection parameters"),
			mcp.WithString("host", mcp.Required(), mcp.Description("Hostname or IP address")),
			mcp.WithString("username", mcp.Required(), mcp.Description("SSH username")),
			mcp.WithNumber("port", mcp.Description("SSH port (default: 22)")),
			mcp.WithString("password", mcp.Description("SSH password (alternative to a key)")),
			mcp.WithString("private_key_path", mcp.Description("Path to a private key file")),
			mcp.WithString("private_key_content", mcp.Description("Inline private key in PEM form")),
			mcp.WithNumber("timeout", mcp.Description("Connection timeout in seconds (default: 30)")),
		),
		p.handleConfigure,
	)

	reg.AddTool(
		mcp.NewTool("ssh_connect",
			mcp.WithDescription("Establish the SSH connection using the configured credentials (or SSH_* environment variables)"),
		),
		p.handleConnect,
	)

	reg.AddTool(
		mcp.NewTool("ssh_disconnect",
			mcp.WithDescription("Close the SSH connection"),
		),
		p.handleDisconnect,
	)

	reg.AddTool(
		mcp.NewTool("ssh_execute",
			mcp.WithDescription("Execute a shell command on the remote host and return its output and exit status"),
			mcp.WithString("command", mcp.Required(), mcp.Description("Shell command to execute")),
			mcp.WithNumber("timeout", mcp.Description("Command timeout in seconds (default: 120)")),
		),
		p.handleExecute,
	)

	reg.AddTool(
		mcp.NewTool("ssh_upload",
			mcp.WithDescription("Upload a local file to the remote host"),
			mcp.WithString("local_path", mcp.Required(), mcp.Description("Path of the local file to send")),
			mcp.WithString("remote_path", mcp.Required(), mcp.Description("Destination path on the remote host")),
		),
		p.handleUpload,
	)

	reg.AddTool(
		mcp.NewTool("ssh_download",
			mcp.WithDescription("Download a remote file to the local filesystem"),
			mcp.WithString("remote_path", mcp.Required(), mcp.Description("Path of the remote file to fetch")),
			mcp.WithString("local_path", mcp.Required(), mcp.Description("Destination path on the local filesystem")),
		),
		p.handleDownload,
	)

	return nil
}

// RegisterResources stages the read-only connection views.
func (p *Plugin) RegisterResources(reg *plugin.Registration) error {
	reg.AddResource(
		mcp.NewResource("ssh://status", "ssh-status",
			mcp.WithResourceDescription("Current SSH connection state"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleStatusResource,
	)

	reg.AddResource(
		mcp.NewResource("ssh://config", "ssh-config",
			mcp.WithResourceDescription("Active SSH configuration (secrets elided)"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleConfigResource,
	)

	return nil
}

// RegisterPrompts stages the guidance prompts.
func (p *Plugin) RegisterPrompts(reg *plugin.Registration) error {
	reg.AddPrompt(
		mcp.NewPrompt("ssh_troubleshoot",
			mcp.WithPromptDescription("Step-by-step SSH connection troubleshooting"),
			mcp.WithArgument("issue", mcp.ArgumentDescription("Description of the problem")),
		),
		p.handleTroubleshootPrompt,
	)

	reg.AddPrompt(
		mcp.NewPrompt("remote_admin",
			mcp.WithPromptDescription("Remote server administration assistant"),
			mcp.WithArgument("task", mcp.ArgumentDescription("Administration task to carry out")),
		),
		p.handleRemoteAdminPrompt,
	)

	return nil
}

func (p *Plugin) handleConfigure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	host, _ := req.RequireString("host")
	username, _ := req.RequireString("username")

	cfg := &Config{
		Host:              host,
		Username:          username,
		Port:              req.GetInt("port", defaultPort),
		Password:          req.GetString("password", ""),
		PrivateKeyPath:    req.GetString("private_key_path", ""),
		PrivateKeyContent: req.GetString("private_key_content", ""),
		Timeout:           time.Duration(req.GetInt("timeout", 30)) * time.Second,
	}

	if err := p.session.Configure(cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("SSH configured: %s@%s:%d", username, host, cfg.Port)), nil
}

func (p *Plugin) handleConnect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg, err := p.session.Connect()
	if err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("connect failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(msg), nil
}

func (p *Plugin) handleDisconnect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if p.session.Disconnect() {
		return mcp.NewToolResultText("SSH connection closed"), nil
	}
	return mcp.NewToolResultText("No active SSH connection"), nil
}

func (p *Plugin) handleExecute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command, _ := req.RequireString("command")
	timeout := req.GetInt("timeout", 120)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	result, err := p.session.Execute(ctx, command)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return mcp.NewToolResultError(fmt.Sprintf("Command timed out after %ds", timeout)), nil
		}
		logrus.WithField("plugin", PluginName).WithError(err).Error("execute failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(FormatResult(result)), nil
}

func (p *Plugin) handleUpload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	localPath, _ := req.RequireString("local_path")
	remotePath, _ := req.RequireString("remote_path")

	n, err := p.session.Upload(ctx, localPath, remotePath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Uploaded %d bytes to %s", n, remotePath)), nil
}

func (p *Plugin) handleDownload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	remotePath, _ := req.RequireString("remote_path")
	localPath, _ := req.RequireString("local_path")

	n, err := p.session.Download(ctx, remotePath, localPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Downloaded %d bytes to %s", n, localPath)), nil
}

func (p *Plugin) handleStatusResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st := p.session.Status()

	var text strings.Builder
	if st.Configured {
		text.WriteString(fmt.Sprintf("SSH target: %s@%s:%d\n", st.Username, st.Host, st.Port))
	} else {
		text.WriteString("SSH target: not configured\n")
	}
	if st.Connected {
		text.WriteString("Connection state: connected")
	} else {
		text.WriteString("Connection state: disconnected")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ssh://status",
			MIMEType: "text/plain",
			Text:     text.String(),
		},
	}, nil
}

func (p *Plugin) handleConfigResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cfg := p.session.ConfigView()

	var text string
	if cfg == nil {
		text = "SSH is not configured. Call ssh_configure or set SSH_HOST, SSH_USERNAME and an auth method."
	} else {
		text = fmt.Sprintf(
			"SSH configuration:\nHost: %s\nUsername: %s\nPort: %d\nTimeout: %s\nAuth method: %s",
			cfg.Host, cfg.Username, cfg.Port, cfg.Timeout, cfg.AuthMethodLabel(),
		)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ssh://config",
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

func (p *Plugin) handleTroubleshootPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	issue := req.Params.Arguments["issue"]

	text := fmt.Sprintf(`SSH troubleshooting assistant

Reported issue: %s

Work through these steps:
1. Check the SSH configuration (ssh://config resource)
2. Verify network reachability of the host and port
3. Confirm the SSH service is running on the remote host
4. Check the authentication credentials
5. Review firewall rules on both ends

Available tools:
- ssh_connect: test the connection
- ssh_execute: run diagnostic commands once connected`, issue)

	return mcp.NewGetPromptResult(
		"SSH connection troubleshooting",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (p *Plugin) handleRemoteAdminPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	task := req.Params.Arguments["task"]

	text := fmt.Sprintf(`Remote server administration assistant

Task: %s

I can help with:
1. Running system commands (ssh_execute)
2. Checking system state
3. Managing files and directories (ssh_upload / ssh_download)
4. Monitoring resources
5. Troubleshooting

Describe the operation and I will use the SSH tools to carry it out.`, task)

	return mcp.NewGetPromptResult(
		"Remote server administration",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
