// ABOUTME: Pipeline statistics and status catalog MCP handlers
// ABOUTME: Read-only projections over the prospect collection
package handlers

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

type StatsHandlers struct {
	tracker *tracker.Tracker
	now     func() time.Time
}

func NewStatsHandlers(t *tracker.Tracker) *StatsHandlers {
	return &StatsHandlers{tracker: t, now: time.Now}
}

type PipelineStatsInput struct{}

type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

type PipelineStatsOutput struct {
	TotalProspects  int                  `json:"total_prospects"`
	ActivePipeline  int                  `json:"active_pipeline"`
	DealsClosed     int                  `json:"deals_closed"`
	DealsLost       int                  `json:"deals_lost"`
	ClosedRevenue   float64              `json:"closed_revenue"`
	PipelineValue   float64              `json:"pipeline_value"`
	AverageDealSize float64              `json:"average_deal_size"`
	RevenueGoal     float64              `json:"revenue_goal"`
	Funnel          []viz.FunnelStage    `json:"funnel"`
	Groups          []GroupCount         `json:"groups"`
	Statuses        []StatusCount        `json:"statuses"`
	Campaign        viz.CampaignActivity `json:"campaign"`
	StaleProspects  int                  `json:"stale_prospects"`
}

// BuildPipelineStats flattens dashboard stats into catalog order.
func BuildPipelineStats(stats *viz.DashboardStats) PipelineStatsOutput {
	out := PipelineStatsOutput{
		TotalProspects:  stats.TotalProspects,
		ActivePipeline:  stats.ActivePipeline,
		DealsClosed:     stats.DealsClosed,
		DealsLost:       stats.DealsLost,
		ClosedRevenue:   stats.ClosedRevenue,
		PipelineValue:   stats.PipelineValue,
		AverageDealSize: stats.AverageDealSize,
		RevenueGoal:     stats.RevenueGoal,
		Funnel:          stats.Funnel,
		Campaign:        stats.Campaign,
		StaleProspects:  len(stats.StaleProspects),
	}
	for _, g := range models.Groups() {
		out.Groups = append(out.Groups, GroupCount{Group: g, Count: stats.CountByGroup[g]})
	}
	for _, def := range models.StatusDefinitions() {
		out.Statuses = append(out.Statuses, StatusCount{
			Status: string(def.Value),
			Label:  def.Label,
			Count:  stats.CountByStatus[def.Value],
		})
	}
	return out
}

func (h *StatsHandlers) PipelineStats(_ context.Context, request *mcp.CallToolRequest, input PipelineStatsInput) (*mcp.CallToolResult, PipelineStatsOutput, error) {
	stats := viz.GenerateDashboardStats(h.tracker.List(), h.now())
	return nil, BuildPipelineStats(stats), nil
}

type ListStatusesInput struct{}

type ListStatusesOutput struct {
	Statuses []models.StatusDefinition `json:"statuses"`
	Groups   []string                  `json:"groups"`
}

func (h *StatsHandlers) ListStatuses(_ context.Context, request *mcp.CallToolRequest, input ListStatusesInput) (*mcp.CallToolResult, ListStatusesOutput, error) {
	return nil, ListStatusesOutput{Statuses: models.StatusDefinitions(), Groups: models.Groups()}, nil
}

type JourneyInput struct {
	ID string `json:"id" jsonschema:"Prospect ID (required)"`
}

type JourneyOutput struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Stages []viz.JourneyStage `json:"stages"`
}

func (h *StatsHandlers) Journey(_ context.Context, request *mcp.CallToolRequest, input JourneyInput) (*mcp.CallToolResult, JourneyOutput, error) {
	p, err := h.tracker.Get(input.ID)
	if err != nil {
		return nil, JourneyOutput{}, err
	}
	return nil, JourneyOutput{ID: p.ID, Name: p.Name, Stages: viz.VisitedStages(p)}, nil
}
