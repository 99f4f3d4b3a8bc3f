// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

type VizHandlers struct {
	tracker *tracker.Tracker
}

func NewVizHandlers(t *tracker.Tracker) *VizHandlers {
	return &VizHandlers{tracker: t}
}

type GenerateGraphInput struct {
	Type       string `json:"type" jsonschema:"Graph type: journey or pipeline"`
	ProspectID string `json:"prospect_id,omitempty" jsonschema:"Prospect ID (required for journey)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(_ context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	generator := viz.NewGraphGenerator(h.tracker)
	var dot string
	var err error

	switch input.Type {
	case "journey":
		if input.ProspectID == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("prospect_id required for journey graph")
		}
		dot, err = generator.GenerateJourneyGraph(input.ProspectID)

	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: journey, pipeline)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
