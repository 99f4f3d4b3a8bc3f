// ABOUTME: MCP resource handlers for exposing prospect data
// ABOUTME: Provides read-only access to prospects, pipeline stats, and the status catalog via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

const ResourceScheme = "prospector://"

type ResourceHandlers struct {
	tracker *tracker.Tracker
	now     func() time.Time
}

func NewResourceHandlers(t *tracker.Tracker) *ResourceHandlers {
	return &ResourceHandlers{tracker: t, now: time.Now}
}

// Resources lists the fixed URIs served by ReadResource.
func Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: ResourceScheme + "prospects", Name: "prospects", Description: "All prospects without history", MIMEType: "application/json"},
		{URI: ResourceScheme + "pipeline", Name: "pipeline", Description: "Funnel, revenue, and campaign statistics", MIMEType: "application/json"},
		{URI: ResourceScheme + "statuses", Name: "statuses", Description: "Status catalog in funnel order", MIMEType: "application/json"},
	}
}

// ProspectTemplate addresses one prospect with its full history.
func ProspectTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		URITemplate: ResourceScheme + "prospects/{id}",
		Name:        "prospect",
		Description: "A single prospect with interaction history",
		MIMEType:    "application/json",
	}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, ResourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", ResourceScheme)
	}

	path := strings.TrimPrefix(uri, ResourceScheme)
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "prospects":
		if len(parts) == 1 {
			return h.readAllProspects(uri)
		}
		return h.readProspect(uri, parts[1])

	case "pipeline":
		stats := viz.GenerateDashboardStats(h.tracker.List(), h.now())
		return jsonResource(uri, BuildPipelineStats(stats))

	case "statuses":
		return jsonResource(uri, ListStatusesOutput{Statuses: models.StatusDefinitions(), Groups: models.Groups()})

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllProspects(uri string) (*mcp.ReadResourceResult, error) {
	prospects := h.tracker.List()
	out := make([]ProspectOutput, len(prospects))
	for i, p := range prospects {
		out[i] = prospectToOutput(p, false)
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readProspect(uri, id string) (*mcp.ReadResourceResult, error) {
	p, err := h.tracker.Get(id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return jsonResource(uri, prospectToOutput(p, true))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
