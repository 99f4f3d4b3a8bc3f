// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/handlers"
	"github.com/harperreed/prospector/tracker"
)

// NewMCPServer registers every prospector tool, prompt, and resource. client
// may be nil, in which case the AI tools report that they are unavailable.
func NewMCPServer(t *tracker.Tracker, client *ai.Client, timeout time.Duration, version string) *mcp.Server {
	// Create handlers
	prospectHandlers := handlers.NewProspectHandlers(t)
	statsHandlers := handlers.NewStatsHandlers(t)
	vizHandlers := handlers.NewVizHandlers(t)
	aiHandlers := handlers.NewAIHandlers(t, client, timeout)
	promptHandlers := handlers.NewPromptHandlers(t)
	resourceHandlers := handlers.NewResourceHandlers(t)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "prospector",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_prospect",
		Description: "Add a new sponsorship prospect; a creation note starts its history",
	}, prospectHandlers.AddProspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_prospects",
		Description: "Search prospects by name or company, with optional status, group, and high-value filters",
	}, prospectHandlers.ListProspects)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_prospect",
		Description: "Get one prospect with its full interaction history, newest first",
	}, prospectHandlers.GetProspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_prospect",
		Description: "Update prospect fields; changing status records a statusChange entry",
	}, prospectHandlers.UpdateProspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Append a note, chat, email, or call to a prospect's history",
	}, prospectHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_prospect",
		Description: "Delete a prospect and its history (requires confirm=true)",
	}, prospectHandlers.DeleteProspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "pipeline_stats",
		Description: "Funnel counts, revenue against goal, pipeline value, and campaign conversion rates",
	}, statsHandlers.PipelineStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_statuses",
		Description: "The status catalog in funnel order with labels and groups",
	}, statsHandlers.ListStatuses)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "prospect_journey",
		Description: "The funnel stages a prospect has visited, with entry times",
	}, statsHandlers.Journey)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz graph of a prospect journey or the whole pipeline",
	}, vizHandlers.GenerateGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_script",
		Description: "Draft a personalized outreach message for a prospect using Gemini",
	}, aiHandlers.GenerateScript)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_profile",
		Description: "Extract a structured profile from LinkedIn text or screenshots, optionally creating a prospect",
	}, aiHandlers.ParseProfile)

	// Register prompts
	for _, prompt := range handlers.Prompts() {
		server.AddPrompt(prompt, promptHandlers.GetPrompt)
	}

	// Register resources
	for _, resource := range handlers.Resources() {
		server.AddResource(resource, resourceHandlers.ReadResource)
	}
	server.AddResourceTemplate(handlers.ProspectTemplate(), resourceHandlers.ReadResource)

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(t *tracker.Tracker, client *ai.Client, timeout time.Duration, version string, logger *zap.Logger) error {
	logger.Info("starting MCP server", zap.Bool("ai_enabled", client != nil))

	server := NewMCPServer(t, client, timeout, version)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
