// ABOUTME: MCP prompt handlers for reusable outreach workflow templates
// ABOUTME: Builds outreach-script, pipeline-review, and follow-up-suggestions prompts
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

type PromptHandlers struct {
	tracker *tracker.Tracker
	now     func() time.Time
}

func NewPromptHandlers(t *tracker.Tracker) *PromptHandlers {
	return &PromptHandlers{tracker: t, now: time.Now}
}

// Prompts lists the templates served by GetPrompt.
func Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "outreach-script",
			Description: "Draft a personalized outreach message for a prospect",
			Arguments: []*mcp.PromptArgument{
				{Name: "id", Description: "Prospect ID", Required: true},
				{Name: "focus", Description: "Campaign focus (central-banks, fintech, institutional)"},
			},
		},
		{
			Name:        "pipeline-review",
			Description: "Review funnel health, revenue progress, and campaign conversion",
		},
		{
			Name:        "follow-up-suggestions",
			Description: "Suggest next actions for prospects that have gone quiet",
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "outreach-script":
		return h.getOutreachScriptPrompt(arguments)
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	case "follow-up-suggestions":
		return h.getFollowUpSuggestionsPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func (h *PromptHandlers) getOutreachScriptPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("id is required")
	}
	focus, err := ai.ParseFocus(args["focus"])
	if err != nil {
		return nil, err
	}
	p, err := h.tracker.Get(id)
	if err != nil {
		return nil, err
	}

	return userPrompt(
		fmt.Sprintf("Outreach script for %s (%s)", p.Name, focus.Label()),
		ai.BuildScriptPrompt(p, focus),
	), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	stats := viz.GenerateDashboardStats(h.tracker.List(), h.now())

	var promptText strings.Builder
	promptText.WriteString("Please review the current sponsorship pipeline:\n\n")
	promptText.WriteString(fmt.Sprintf("Total Prospects: %d\n", stats.TotalProspects))
	promptText.WriteString(fmt.Sprintf("Closed Revenue: %s of %s goal\n", viz.FormatUSD(stats.ClosedRevenue), viz.FormatUSD(stats.RevenueGoal)))
	promptText.WriteString(fmt.Sprintf("Open Pipeline Value: %s\n", viz.FormatUSD(stats.PipelineValue)))
	promptText.WriteString(fmt.Sprintf("Average Deal Size: %s\n\n", viz.FormatUSD(stats.AverageDealSize)))

	promptText.WriteString("Funnel:\n")
	for _, stage := range stats.Funnel {
		promptText.WriteString(fmt.Sprintf("  - %s: %d\n", stage.Label, stage.Count))
	}

	promptText.WriteString("\nBy Group:\n")
	for _, group := range models.Groups() {
		promptText.WriteString(fmt.Sprintf("  - %s: %d\n", group, stats.CountByGroup[group]))
	}

	c := stats.Campaign
	promptText.WriteString("\nCampaign:\n")
	promptText.WriteString(fmt.Sprintf("  - LinkedIn messages: %d\n", c.LinkedInMessages))
	promptText.WriteString(fmt.Sprintf("  - Emails obtained: %d (%s)\n", c.EmailsObtained, c.LinkedInToEmail))
	promptText.WriteString(fmt.Sprintf("  - Discovery calls: %d (%s)\n", c.DiscoveryCalls, c.EmailToCall))

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Analysis of funnel health and where prospects are stalling")
	promptText.WriteString("\n2. The deals most likely to close the gap to the revenue goal")
	promptText.WriteString("\n3. Suggestions for improving conversion between stages")

	return userPrompt("Sponsorship pipeline review", promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpSuggestionsPrompt() (*mcp.GetPromptResult, error) {
	stats := viz.GenerateDashboardStats(h.tracker.List(), h.now())

	var promptText strings.Builder
	if len(stats.StaleProspects) == 0 {
		promptText.WriteString("All prospects have recent activity. No follow-ups are due.\n")
		return userPrompt("Follow-up suggestions", promptText.String()), nil
	}

	promptText.WriteString(fmt.Sprintf("These %d prospects have had no activity recently:\n\n", len(stats.StaleProspects)))
	for _, stale := range stats.StaleProspects {
		p, err := h.tracker.Get(stale.ID)
		if err != nil {
			continue
		}
		since := "never contacted"
		if stale.DaysSince >= 0 {
			since = fmt.Sprintf("%d days since last activity", stale.DaysSince)
		}
		promptText.WriteString(fmt.Sprintf("- %s (%s), %s, status %s, %s\n",
			p.Name, orDash(p.Company), p.Platform, p.Status.Label(), since))
		if last, ok := p.LastInteraction(); ok {
			promptText.WriteString(fmt.Sprintf("  Last: %s\n", last.Content))
		}
	}

	promptText.WriteString("\nFor each prospect, suggest:")
	promptText.WriteString("\n1. Whether to re-engage now or move them to a nurturing status")
	promptText.WriteString("\n2. A one-line angle for the next message")

	return userPrompt("Follow-up suggestions", promptText.String()), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
