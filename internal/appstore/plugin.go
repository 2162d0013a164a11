package appstore

import (
	"context"
	"fmt"
	"strings"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// PluginName is the registry name of the App Store Connect plugin.
const PluginName = "appstore"

func init() {
	plugin.Register(PluginName, func() (plugin.Plugin, error) {
		return NewPlugin(), nil
	})
}

// Plugin exposes the App Store Connect client as MCP tools, resources and
// prompts.
type Plugin struct {
	client *Client
}

// NewPlugin creates the plugin with an unconfigured client.
func NewPlugin() *Plugin {
	return &Plugin{client: NewClient()}
}

// Name returns the registry name.
func (p *Plugin) Name() string { return PluginName }

// RegisterTools stages the App Store Connect tools.
func (p *Plugin) RegisterTools(reg *plugin.Registration) error {
	reg.AddTool(
		mcp.NewTool("configure_credentials",
			mcp.WithDescription("Configure App Store Connect API credentials"),
			mcp.WithString("key_id", mcp.Required(), mcp.Description("API key ID")),
			mcp.WithString("issuer_id", mcp.Required(), mcp.Description("Issuer ID")),
			mcp.WithString("private_key", mcp.Required(), mcp.Description("PEM-encoded EC private key")),
			mcp.WithString("app_id", mcp.Description("Default app ID (optional)")),
			mcp.WithString("vendor_number", mcp.Description("Vendor number for sales/finance reports (optional)")),
		),
		p.handleConfigure,
	)

	reg.AddTool(
		mcp.NewTool("list_apps",
			mcp.WithDescription("List all App Store Connect apps"),
		),
		p.handleListApps,
	)

	reg.AddTool(
		mcp.NewTool("list_team_members",
			mcp.WithDescription("List App Store Connect team members"),
		),
		p.handleListTeamMembers,
	)

	reg.AddTool(
		mcp.NewTool("list_beta_groups",
			mcp.WithDescription("List an app's TestFlight beta groups"),
			mcp.WithString("app_name", mcp.Required(), mcp.Description("App name")),
		),
		p.handleListBetaGroups,
	)

	reg.AddTool(
		mcp.NewTool("list_beta_testers",
			mcp.WithDescription("List an app's TestFlight beta testers"),
			mcp.WithString("app_name", mcp.Required(), mcp.Description("App name")),
		),
		p.handleListBetaTesters,
	)

	reg.AddTool(
		mcp.NewTool("remove_beta_tester",
			mcp.WithDescription("Remove a tester from an app's TestFlight groups"),
			mcp.WithString("email", mcp.Required(), mcp.Description("Tester email address")),
			mcp.WithString("app_name", mcp.Required(), mcp.Description("App name")),
		),
		p.handleRemoveBetaTester,
	)

	reg.AddTool(
		mcp.NewTool("check_user_invitations",
			mcp.WithDescription("List pending App Store Connect user invitations"),
		),
		p.handleCheckInvitations,
	)

	reg.AddTool(
		mcp.NewTool("remove_team_member",
			mcp.WithDescription("Remove a member from the App Store Connect team"),
			mcp.WithString("email", mcp.Required(), mcp.Description("Member email address")),
		),
		p.handleRemoveTeamMember,
	)

	reg.AddTool(
		mcp.NewTool("list_devices",
			mcp.WithDescription("List registered development devices"),
			mcp.WithString("device_class", mcp.Description("Filter: IPHONE, IPAD, APPLE_WATCH, APPLE_TV or MAC")),
			mcp.WithString("status", mcp.Description("Filter: ENABLED or DISABLED")),
			mcp.WithString("platform", mcp.Description("Filter: IOS or MAC_OS")),
			mcp.WithNumber("limit", mcp.Description("Maximum devices to return (default: 100)")),
		),
		p.handleListDevices,
	)

	reg.AddTool(
		mcp.NewTool("register_device",
			mcp.WithDescription("Register a new development device"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Device name")),
			mcp.WithString("udid", mcp.Required(), mcp.Description("Device UDID")),
			mcp.WithString("platform", mcp.Required(), mcp.Description("IOS or MAC_OS")),
		),
		p.handleRegisterDevice,
	)

	reg.AddTool(
		mcp.NewTool("update_device",
			mcp.WithDescription("Rename a device or change its status"),
			mcp.WithString("device_id", mcp.Required(), mcp.Description("Device ID")),
			mcp.WithString("name", mcp.Description("New device name")),
			mcp.WithString("status", mcp.Description("ENABLED or DISABLED")),
		),
		p.handleUpdateDevice,
	)

	reg.AddTool(
		mcp.NewTool("find_device_by_udid",
			mcp.WithDescription("Look up a registered device by UDID"),
			mcp.WithString("udid", mcp.Required(), mcp.Description("Device UDID")),
		),
		p.handleFindDevice,
	)

	reg.AddTool(
		mcp.NewTool("get_sales_report",
			mcp.WithDescription("Download a sales and trends report (gzip CSV, returned as text)"),
			mcp.WithString("report_type", mcp.Description("SALES, SUBSCRIPTION, SUBSCRIBER, NEWSSTAND or INSTALLS (default: SALES)")),
			mcp.WithString("report_subtype", mcp.Description("SUMMARY or DETAILED (default: SUMMARY)")),
			mcp.WithString("frequency", mcp.Description("DAILY, WEEKLY, MONTHLY or YEARLY (default: DAILY)")),
			mcp.WithString("report_date", mcp.Description("YYYY-MM-DD (daily/weekly) or YYYY-MM (monthly); empty for the latest daily report")),
		),
		p.handleSalesReport,
	)

	reg.AddTool(
		mcp.NewTool("get_finance_report",
			mcp.WithDescription("Download a monthly finance report with revenue and tax detail"),
			mcp.WithString("region_code", mcp.Description("Region code; ZZ for the worldwide report (default: ZZ)")),
			mcp.WithString("report_date", mcp.Required(), mcp.Description("Report month in YYYY-MM form")),
		),
		p.handleFinanceReport,
	)

	return nil
}

// RegisterResources stages the read-only listing views.
func (p *Plugin) RegisterResources(reg *plugin.Registration) error {
	reg.AddResource(
		mcp.NewResource("appstore://apps", "appstore-apps",
			mcp.WithResourceDescription("All App Store Connect apps"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleAppsResource,
	)

	reg.AddResource(
		mcp.NewResource("appstore://members", "appstore-members",
			mcp.WithResourceDescription("App Store Connect team members"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleMembersResource,
	)

	reg.AddResource(
		mcp.NewResource("appstore://invitations", "appstore-invitations",
			mcp.WithResourceDescription("Pending user invitations"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleInvitationsResource,
	)

	reg.AddResource(
		mcp.NewResource("appstore://devices", "appstore-devices",
			mcp.WithResourceDescription("Registered development devices"),
			mcp.WithMIMEType("text/plain"),
		),
		p.handleDevicesResource,
	)

	return nil
}

// RegisterPrompts stages the TestFlight management prompt.
func (p *Plugin) RegisterPrompts(reg *plugin.Registration) error {
	reg.AddPrompt(
		mcp.NewPrompt("manage_testflight",
			mcp.WithPromptDescription("Guided TestFlight group and tester management"),
			mcp.WithArgument("action", mcp.ArgumentDescription("One of: create_group, add_tester, remove_tester"), mcp.RequiredArgument()),
			mcp.WithArgument("app_name", mcp.ArgumentDescription("App name")),
			mcp.WithArgument("group_name", mcp.ArgumentDescription("Beta group name")),
			mcp.WithArgument("tester_email", mcp.ArgumentDescription("Tester email address")),
		),
		p.handleTestFlightPrompt,
	)

	reg.AddPrompt(
		mcp.NewPrompt("appstore_analytics",
			mcp.WithPromptDescription("Sales and finance report analysis"),
			mcp.WithArgument("operation", mcp.ArgumentDescription("get_sales_report or get_finance_report")),
			mcp.WithArgument("date_range", mcp.ArgumentDescription("Report date or month")),
		),
		p.handleAnalyticsPrompt,
	)

	reg.AddPrompt(
		mcp.NewPrompt("appstore_device_management",
			mcp.WithPromptDescription("Development device registration and management"),
			mcp.WithArgument("operation", mcp.ArgumentDescription("list_devices, register_device, update_device or find_device_by_udid")),
			mcp.WithArgument("udid", mcp.ArgumentDescription("Device UDID")),
		),
		p.handleDevicePrompt,
	)

	reg.AddPrompt(
		mcp.NewPrompt("appstore_remove_user",
			mcp.WithPromptDescription("Guided removal of a user from the team and TestFlight"),
			mcp.WithArgument("email", mcp.ArgumentDescription("User email address"), mcp.RequiredArgument()),
			mcp.WithArgument("app_name", mcp.ArgumentDescription("App whose TestFlight access should also be revoked")),
		),
		p.handleRemoveUserPrompt,
	)

	return nil
}

func (p *Plugin) handleConfigure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyID, _ := req.RequireString("key_id")
	issuerID, _ := req.RequireString("issuer_id")
	privateKey, _ := req.RequireString("private_key")

	cfg := &Config{
		KeyID:        keyID,
		IssuerID:     issuerID,
		PrivateKey:   privateKey,
		AppID:        req.GetString("app_id", ""),
		VendorNumber: req.GetString("vendor_number", ""),
	}

	if err := p.client.Configure(cfg); err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("configure failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("App Store Connect credentials configured"), nil
}

func (p *Plugin) handleListApps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := p.appsText(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (p *Plugin) appsText(ctx context.Context) (string, error) {
	apps, err := p.client.Apps(ctx)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Found %d apps:\n", len(apps)))
	for _, app := range apps {
		text.WriteString(fmt.Sprintf("- %s (%s) - %s\n", app.Name, app.BundleID, app.Platform))
	}
	return strings.TrimRight(text.String(), "\n"), nil
}

func (p *Plugin) handleListTeamMembers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := p.membersText(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (p *Plugin) membersText(ctx context.Context) (string, error) {
	members, err := p.client.TeamMembers(ctx)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Team has %d members:\n", len(members)))
	for _, m := range members {
		text.WriteString(fmt.Sprintf("- %s (%s)\n", m.Email, m.FullName()))
	}
	return strings.TrimRight(text.String(), "\n"), nil
}

func (p *Plugin) handleListBetaGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appName, _ := req.RequireString("app_name")

	app, err := p.client.FindApp(ctx, appName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	groups, err := p.client.BetaGroups(ctx, app.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(groups) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("App %s has no TestFlight beta groups", appName)), nil
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Beta groups for %s:\n", appName))
	for _, g := range groups {
		text.WriteString(fmt.Sprintf("- %s (%s)\n", g.Name, g.GroupType()))
	}
	return mcp.NewToolResultText(strings.TrimRight(text.String(), "\n")), nil
}

func (p *Plugin) handleListBetaTesters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	appName, _ := req.RequireString("app_name")

	app, err := p.client.FindApp(ctx, appName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	testers, err := p.client.BetaTesters(ctx, app.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(testers) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("App %s has no TestFlight testers", appName)), nil
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("TestFlight testers for %s (%d):\n", appName, len(testers)))
	for _, t := range testers {
		text.WriteString(fmt.Sprintf("- %s (%s) - state: %s\n", t.Email, t.FullName(), t.State))
	}
	return mcp.NewToolResultText(strings.TrimRight(text.String(), "\n")), nil
}

func (p *Plugin) handleRemoveBetaTester(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, _ := req.RequireString("email")
	appName, _ := req.RequireString("app_name")

	if err := p.client.RemoveBetaTester(ctx, email, appName); err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("remove tester failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed %s from TestFlight groups of %s", email, appName)), nil
}

func (p *Plugin) handleAppsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := p.appsText(ctx)
	if err != nil {
		text = fmt.Sprintf("Failed to list apps: %v", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "appstore://apps", MIMEType: "text/plain", Text: text},
	}, nil
}

func (p *Plugin) handleMembersResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := p.membersText(ctx)
	if err != nil {
		text = fmt.Sprintf("Failed to list team members: %v", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "appstore://members", MIMEType: "text/plain", Text: text},
	}, nil
}

func (p *Plugin) handleTestFlightPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	action := req.Params.Arguments["action"]
	appName := req.Params.Arguments["app_name"]
	groupName := req.Params.Arguments["group_name"]
	testerEmail := req.Params.Arguments["tester_email"]

	var text string
	switch action {
	case "create_group":
		text = fmt.Sprintf("Create a TestFlight beta group named %q for the app %q.", groupName, appName)
	case "add_tester":
		text = fmt.Sprintf("Add the tester %q to the beta group %q.", testerEmail, groupName)
	case "remove_tester":
		text = fmt.Sprintf("Remove the tester %q from the beta group %q.", testerEmail, groupName)
	default:
		text = "Choose a valid TestFlight management action: create_group, add_tester or remove_tester."
	}

	return mcp.NewGetPromptResult(
		"TestFlight management",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (p *Plugin) handleCheckInvitations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := p.invitationsText(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (p *Plugin) invitationsText(ctx context.Context) (string, error) {
	invitations, err := p.client.UserInvitations(ctx)
	if err != nil {
		return "", err
	}
	if len(invitations) == 0 {
		return "No pending invitations", nil
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Pending invitations (%d):\n", len(invitations)))
	for _, inv := range invitations {
		text.WriteString(fmt.Sprintf("- %s (%s) - roles: %s - expires: %s\n",
			inv.Email, inv.FullName(), strings.Join(inv.Roles, ", "), inv.Expires))
	}
	return strings.TrimRight(text.String(), "\n"), nil
}

func (p *Plugin) handleRemoveTeamMember(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, _ := req.RequireString("email")

	if err := p.client.RemoveTeamMember(ctx, email); err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("remove member failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed %s from the team", email)), nil
}

func (p *Plugin) handleListDevices(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := DeviceFilter{
		DeviceClass: strings.ToUpper(req.GetString("device_class", "")),
		Status:      strings.ToUpper(req.GetString("status", "")),
		Platform:    strings.ToUpper(req.GetString("platform", "")),
		Limit:       req.GetInt("limit", 100),
	}

	text, err := p.devicesText(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (p *Plugin) devicesText(ctx context.Context, filter DeviceFilter) (string, error) {
	devices, err := p.client.Devices(ctx, filter)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "No registered devices", nil
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Found %d devices:\n", len(devices)))
	for _, d := range devices {
		text.WriteString(fmt.Sprintf("- %s (%s) - %s - %s\n", d.Name, d.DeviceClass, d.Platform, d.Status))
		text.WriteString(fmt.Sprintf("  UDID: %s\n", d.UDID))
		if d.Model != "" {
			text.WriteString(fmt.Sprintf("  Model: %s\n", d.Model))
		}
	}
	return strings.TrimRight(text.String(), "\n"), nil
}

func (p *Plugin) handleRegisterDevice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := req.RequireString("name")
	udid, _ := req.RequireString("udid")
	platform, _ := req.RequireString("platform")

	device, err := p.client.RegisterDevice(ctx, name, udid, strings.ToUpper(platform))
	if err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("register device failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Device registered:\n- Name: %s\n- UDID: %s\n- Platform: %s\n- Class: %s",
		device.Name, device.UDID, device.Platform, device.DeviceClass,
	)), nil
}

func (p *Plugin) handleUpdateDevice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deviceID, _ := req.RequireString("device_id")
	name := req.GetString("name", "")
	status := strings.ToUpper(req.GetString("status", ""))

	device, err := p.client.UpdateDevice(ctx, deviceID, name, status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Device updated:\n- Name: %s\n- Status: %s\n- UDID: %s",
		device.Name, device.Status, device.UDID,
	)), nil
}

func (p *Plugin) handleFindDevice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	udid, _ := req.RequireString("udid")

	device, err := p.client.FindDeviceByUDID(ctx, udid)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if device == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No device registered with UDID %s", udid)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Found device:\n- Name: %s\n- UDID: %s\n- Platform: %s\n- Class: %s\n- Status: %s",
		device.Name, device.UDID, device.Platform, device.DeviceClass, device.Status,
	)), nil
}

func (p *Plugin) handleSalesReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := p.client.SalesReport(ctx,
		req.GetString("report_type", "SALES"),
		req.GetString("report_subtype", "SUMMARY"),
		req.GetString("frequency", "DAILY"),
		req.GetString("report_date", ""),
	)
	if err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("sales report failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (p *Plugin) handleFinanceReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportDate, _ := req.RequireString("report_date")

	report, err := p.client.FinanceReport(ctx, req.GetString("region_code", "ZZ"), reportDate)
	if err != nil {
		logrus.WithField("plugin", PluginName).WithError(err).Error("finance report failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(report), nil
}

func (p *Plugin) handleInvitationsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := p.invitationsText(ctx)
	if err != nil {
		text = fmt.Sprintf("Failed to list invitations: %v", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "appstore://invitations", MIMEType: "text/plain", Text: text},
	}, nil
}

func (p *Plugin) handleDevicesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := p.devicesText(ctx, DeviceFilter{})
	if err != nil {
		text = fmt.Sprintf("Failed to list devices: %v", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: "appstore://devices", MIMEType: "text/plain", Text: text},
	}, nil
}

func (p *Plugin) handleAnalyticsPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	operation := req.Params.Arguments["operation"]
	dateRange := req.Params.Arguments["date_range"]

	text := fmt.Sprintf(`App Store Connect analytics assistant

Requested operation: %s
Date range: %s

Available reports:
- get_sales_report: downloads and purchases (DAILY/WEEKLY/MONTHLY/YEARLY)
- get_finance_report: monthly revenue and tax detail (region ZZ = worldwide)

Both reports need a vendor number (APPSTORE_VENDOR_NUMBER or the
vendor_number argument of configure_credentials). Sales data usually lags
1-2 days; finance reports are published monthly.`, operation, dateRange)

	return mcp.NewGetPromptResult(
		"App Store Connect analytics",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (p *Plugin) handleDevicePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	operation := req.Params.Arguments["operation"]
	udid := req.Params.Arguments["udid"]

	text := fmt.Sprintf(`Development device management assistant

Requested operation: %s
UDID: %s

Available tools:
- list_devices: list registered devices (filter by class, status, platform)
- register_device: register a device by name, UDID and platform
- update_device: rename a device or change its status
- find_device_by_udid: look up one device

Each developer account has a device limit; registered devices can install
TestFlight builds.`, operation, udid)

	return mcp.NewGetPromptResult(
		"Device management",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (p *Plugin) handleRemoveUserPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	email := req.Params.Arguments["email"]
	appName := req.Params.Arguments["app_name"]

	text := fmt.Sprintf(`Remove the user %q from App Store Connect.

Steps:
1. If an app is named (%q), remove their TestFlight access first with
   remove_beta_tester.
2. Remove them from the team with remove_team_member.

Removal is irreversible: the user loses App Store Connect access and can no
longer install TestFlight builds. Their submitted test feedback is kept.`, email, appName)

	return mcp.NewGetPromptResult(
		"User removal",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
