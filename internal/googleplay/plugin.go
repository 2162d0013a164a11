package googleplay

import (
	"context"
	"fmt"

	"pero-mcp/internal/plugin"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// PluginName is the registry name of the Google Play plugin.
const PluginName = "googleplay"

func init() {
	plugin.Register(PluginName, func() (plugin.Plugin, error) {
		return NewPlugin(), nil
	})
}

// Plugin exposes Google Play report downloads as MCP tools and prompts.
type Plugin struct {
	client *Client
}

// NewPlugin creates the plugin with an unconfigured storage client.
func NewPlugin() *Plugin {
	return &Plugin{client: NewClient()}
}

// Name returns the registry name.
func (p *Plugin) Name() string { return PluginName }

// RegisterTools stages the monthly report tools.
func (p *Plugin) RegisterTools(reg *plugin.Registration) error {
	reg.AddTool(
		mcp.NewTool("get_googleplay_monthly_financial_report",
			mcp.WithDescription("Download and merge the Google Play financial (earnings) report for a month"),
			mcp.WithString("target_month", mcp.Required(), mcp.Description("Month in YYYYMM form, e.g. 202401")),
		),
		p.handleFinancialReport,
	)

	reg.AddTool(
		mcp.NewTool("get_googleplay_monthly_sales_report",
			mcp.WithDescription("Download and merge the Google Play sales report for a month"),
			mcp.WithString("target_month", mcp.Required(), mcp.Description("Month in YYYYMM form, e.g. 202401")),
		),
		p.handleSalesReport,
	)

	return nil
}

// RegisterResources stages nothing; reports are parameterised by month.
func (p *Plugin) RegisterResources(reg *plugin.Registration) error {
	return nil
}

// RegisterPrompts stages the report analysis prompts.
func (p *Plugin) RegisterPrompts(reg *plugin.Registration) error {
	reg.AddPrompt(
		mcp.NewPrompt("googleplay_financial_report",
			mcp.WithPromptDescription("Analyse a monthly Google Play financial report"),
			mcp.WithArgument("target_month", mcp.ArgumentDescription("Month in YYYYMM form"), mcp.RequiredArgument()),
		),
		p.handleFinancialPrompt,
	)

	reg.AddPrompt(
		mcp.NewPrompt("googleplay_sales_report",
			mcp.WithPromptDescription("Analyse a monthly Google Play sales report"),
			mcp.WithArgument("target_month", mcp.ArgumentDescription("Month in YYYYMM form"), mcp.RequiredArgument()),
		),
		p.handleSalesPrompt,
	)

	return nil
}

func (p *Plugin) handleFinancialReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return p.handleReport(ctx, req, FinancialReports)
}

func (p *Plugin) handleSalesReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return p.handleReport(ctx, req, SalesReports)
}

func (p *Plugin) handleReport(ctx context.Context, req mcp.CallToolRequest, kind ReportKind) (*mcp.CallToolResult, error) {
	month, err := req.RequireString("target_month")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := p.client.MonthlyReport(ctx, kind, month)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"plugin": PluginName,
			"kind":   string(kind),
			"month":  month,
		}).WithError(err).Error("report download failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(report), nil
}

func (p *Plugin) handleFinancialPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	month := req.Params.Arguments["target_month"]
	text := fmt.Sprintf("Fetch the Google Play financial report for %s with the "+
		"get_googleplay_monthly_financial_report tool, then summarise total earnings, "+
		"the top-selling products and any notable month-over-month changes.", month)

	return mcp.NewGetPromptResult(
		"Google Play financial report analysis",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func (p *Plugin) handleSalesPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	month := req.Params.Arguments["target_month"]
	text := fmt.Sprintf("Fetch the Google Play sales report for %s with the "+
		"get_googleplay_monthly_sales_report tool, then summarise unit sales by product "+
		"and country, highlighting the strongest markets.", month)

	return mcp.NewGetPromptResult(
		"Google Play sales report analysis",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}
