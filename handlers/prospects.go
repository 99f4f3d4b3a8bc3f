// ABOUTME: Prospect MCP tool handlers
// ABOUTME: Implements add, list, get, update, log_interaction, and delete prospect tools
package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
)

type ProspectHandlers struct {
	tracker *tracker.Tracker
}

func NewProspectHandlers(t *tracker.Tracker) *ProspectHandlers {
	return &ProspectHandlers{tracker: t}
}

type InteractionOutput struct {
	ID              string `json:"id"`
	Timestamp       string `json:"timestamp"`
	Type            string `json:"type"`
	Content         string `json:"content"`
	StatusAtTheTime string `json:"status_at_the_time"`
}

type ProspectOutput struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Company         string              `json:"company,omitempty"`
	Position        string              `json:"position,omitempty"`
	Email           string              `json:"email,omitempty"`
	Platform        string              `json:"platform"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	Group           string              `json:"group"`
	DealValue       float64             `json:"deal_value"`
	IsHighValue     bool                `json:"is_high_value"`
	Headline        string              `json:"headline,omitempty"`
	About           string              `json:"about,omitempty"`
	Experience      string              `json:"experience,omitempty"`
	CompanyOverview string              `json:"company_overview,omitempty"`
	CompanyWebsite  string              `json:"company_website,omitempty"`
	History         []InteractionOutput `json:"history,omitempty"`
}

func interactionToOutput(i models.Interaction) InteractionOutput {
	return InteractionOutput{
		ID:              i.ID,
		Timestamp:       i.Timestamp.Format(time.RFC3339),
		Type:            string(i.Type),
		Content:         i.Content,
		StatusAtTheTime: string(i.StatusAtTheTime),
	}
}

// prospectToOutput renders p with history newest first when withHistory is set.
func prospectToOutput(p models.Prospect, withHistory bool) ProspectOutput {
	out := ProspectOutput{
		ID:              p.ID,
		Name:            p.Name,
		Company:         p.Company,
		Position:        p.Position,
		Email:           p.Email,
		Platform:        string(p.Platform),
		Status:          string(p.Status),
		StatusLabel:     p.Status.Label(),
		Group:           models.StatusGroup(p.Status),
		DealValue:       p.DealValue,
		IsHighValue:     p.IsHighValue,
		Headline:        p.Headline,
		About:           p.About,
		Experience:      p.Experience,
		CompanyOverview: p.CompanyOverview,
		CompanyWebsite:  p.CompanyWebsite,
	}
	if withHistory {
		history := make([]models.Interaction, len(p.History))
		copy(history, p.History)
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Timestamp.After(history[j].Timestamp)
		})
		out.History = make([]InteractionOutput, len(history))
		for i, h := range history {
			out.History[i] = interactionToOutput(h)
		}
	}
	return out
}

type AddProspectInput struct {
	Name            string  `json:"name" jsonschema:"Prospect full name (required)"`
	Company         string  `json:"company,omitempty" jsonschema:"Company name"`
	Position        string  `json:"position,omitempty" jsonschema:"Job title"`
	Email           string  `json:"email,omitempty" jsonschema:"Email address"`
	Platform        string  `json:"platform,omitempty" jsonschema:"Outreach platform: linkedin, email, whatsapp, twitter (default linkedin)"`
	Status          string  `json:"status,omitempty" jsonschema:"Initial status value (default initial-contact)"`
	DealValue       float64 `json:"deal_value,omitempty" jsonschema:"Potential sponsorship value in dollars"`
	IsHighValue     bool    `json:"is_high_value,omitempty" jsonschema:"Flag as a high-value prospect"`
	Headline        string  `json:"headline,omitempty" jsonschema:"Profile headline"`
	About           string  `json:"about,omitempty" jsonschema:"Profile about section"`
	Experience      string  `json:"experience,omitempty" jsonschema:"Profile experience section"`
	CompanyOverview string  `json:"company_overview,omitempty" jsonschema:"Company overview"`
	CompanyWebsite  string  `json:"company_website,omitempty" jsonschema:"Company website URL"`
}

func (h *ProspectHandlers) AddProspect(_ context.Context, request *mcp.CallToolRequest, input AddProspectInput) (*mcp.CallToolResult, ProspectOutput, error) {
	if input.Name == "" {
		return nil, ProspectOutput{}, fmt.Errorf("name is required")
	}

	p, err := h.tracker.Create(models.ProspectFields{
		Name:            input.Name,
		Company:         input.Company,
		Position:        input.Position,
		Email:           input.Email,
		Platform:        models.Platform(input.Platform),
		Status:          models.Status(input.Status),
		DealValue:       input.DealValue,
		IsHighValue:     input.IsHighValue,
		Headline:        input.Headline,
		About:           input.About,
		Experience:      input.Experience,
		CompanyOverview: input.CompanyOverview,
		CompanyWebsite:  input.CompanyWebsite,
	})
	if err != nil {
		return nil, ProspectOutput{}, fmt.Errorf("failed to create prospect: %w", err)
	}

	return nil, prospectToOutput(p, true), nil
}

type ListProspectsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search query (matches name and company)"`
	Status    string `json:"status,omitempty" jsonschema:"Filter by status value"`
	Group     string `json:"group,omitempty" jsonschema:"Filter by funnel group, e.g. Post-Proposal"`
	HighValue bool   `json:"high_value,omitempty" jsonschema:"Only high-value prospects"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListProspectsOutput struct {
	Prospects []ProspectOutput `json:"prospects"`
	Total     int              `json:"total"`
}

func (h *ProspectHandlers) ListProspects(_ context.Context, request *mcp.CallToolRequest, input ListProspectsInput) (*mcp.CallToolResult, ListProspectsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 50
	}
	if input.Status != "" {
		if _, err := models.ParseStatus(input.Status); err != nil {
			return nil, ListProspectsOutput{}, err
		}
	}

	matches := FilterProspects(h.tracker.Find(input.Query), input.Status, input.Group, input.HighValue)

	result := make([]ProspectOutput, 0, len(matches))
	for i, p := range matches {
		if i == limit {
			break
		}
		result = append(result, prospectToOutput(p, false))
	}
	return nil, ListProspectsOutput{Prospects: result, Total: len(matches)}, nil
}

// FilterProspects keeps prospects matching every non-empty criterion.
func FilterProspects(prospects []models.Prospect, status, group string, highValueOnly bool) []models.Prospect {
	var out []models.Prospect
	for _, p := range prospects {
		if status != "" && string(p.Status) != status {
			continue
		}
		if group != "" && models.StatusGroup(p.Status) != group {
			continue
		}
		if highValueOnly && !p.IsHighValue {
			continue
		}
		out = append(out, p)
	}
	return out
}

type GetProspectInput struct {
	ID string `json:"id" jsonschema:"Prospect ID (required)"`
}

func (h *ProspectHandlers) GetProspect(_ context.Context, request *mcp.CallToolRequest, input GetProspectInput) (*mcp.CallToolResult, ProspectOutput, error) {
	if input.ID == "" {
		return nil, ProspectOutput{}, fmt.Errorf("id is required")
	}
	p, err := h.tracker.Get(input.ID)
	if err != nil {
		return nil, ProspectOutput{}, err
	}
	return nil, prospectToOutput(p, true), nil
}

type UpdateProspectInput struct {
	ID              string   `json:"id" jsonschema:"Prospect ID (required)"`
	Name            *string  `json:"name,omitempty" jsonschema:"Updated name"`
	Company         *string  `json:"company,omitempty" jsonschema:"Updated company"`
	Position        *string  `json:"position,omitempty" jsonschema:"Updated job title"`
	Email           *string  `json:"email,omitempty" jsonschema:"Updated email"`
	Platform        *string  `json:"platform,omitempty" jsonschema:"Updated platform"`
	Status          *string  `json:"status,omitempty" jsonschema:"New status value; a change is recorded in history"`
	DealValue       *float64 `json:"deal_value,omitempty" jsonschema:"Updated deal value"`
	IsHighValue     *bool    `json:"is_high_value,omitempty" jsonschema:"Updated high-value flag"`
	Headline        *string  `json:"headline,omitempty" jsonschema:"Updated headline"`
	About           *string  `json:"about,omitempty" jsonschema:"Updated about section"`
	Experience      *string  `json:"experience,omitempty" jsonschema:"Updated experience section"`
	CompanyOverview *string  `json:"company_overview,omitempty" jsonschema:"Updated company overview"`
	CompanyWebsite  *string  `json:"company_website,omitempty" jsonschema:"Updated company website"`
}

// Apply overlays the set fields onto p.
func (in UpdateProspectInput) Apply(p models.Prospect) models.Prospect {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setString(&p.Name, in.Name)
	setString(&p.Company, in.Company)
	setString(&p.Position, in.Position)
	setString(&p.Email, in.Email)
	setString(&p.Headline, in.Headline)
	setString(&p.About, in.About)
	setString(&p.Experience, in.Experience)
	setString(&p.CompanyOverview, in.CompanyOverview)
	setString(&p.CompanyWebsite, in.CompanyWebsite)
	if in.Platform != nil {
		p.Platform = models.Platform(*in.Platform)
	}
	if in.Status != nil {
		p.Status = models.Status(*in.Status)
	}
	if in.DealValue != nil {
		p.DealValue = *in.DealValue
	}
	if in.IsHighValue != nil {
		p.IsHighValue = *in.IsHighValue
	}
	return p
}

func (h *ProspectHandlers) UpdateProspect(_ context.Context, request *mcp.CallToolRequest, input UpdateProspectInput) (*mcp.CallToolResult, ProspectOutput, error) {
	if input.ID == "" {
		return nil, ProspectOutput{}, fmt.Errorf("id is required")
	}

	existing, err := h.tracker.Get(input.ID)
	if err != nil {
		return nil, ProspectOutput{}, err
	}

	updated, err := h.tracker.Update(input.Apply(existing))
	if err != nil {
		return nil, ProspectOutput{}, fmt.Errorf("failed to update prospect: %w", err)
	}
	return nil, prospectToOutput(updated, true), nil
}

type LogInteractionInput struct {
	ID      string `json:"id" jsonschema:"Prospect ID (required)"`
	Type    string `json:"type,omitempty" jsonschema:"Interaction type: note, chat, email, call (default note)"`
	Content string `json:"content" jsonschema:"What happened (required)"`
}

func (h *ProspectHandlers) LogInteraction(_ context.Context, request *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if input.ID == "" {
		return nil, InteractionOutput{}, fmt.Errorf("id is required")
	}
	if input.Content == "" {
		return nil, InteractionOutput{}, fmt.Errorf("content is required")
	}
	kind := models.InteractionNote
	if input.Type != "" {
		kind = models.InteractionType(input.Type)
	}

	entry, err := h.tracker.AddInteraction(input.ID, kind, input.Content)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}
	return nil, interactionToOutput(entry), nil
}

type DeleteProspectInput struct {
	ID      string `json:"id" jsonschema:"Prospect ID (required)"`
	Confirm bool   `json:"confirm" jsonschema:"Must be true; deletion removes the prospect and its history"`
}

type DeleteProspectOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *ProspectHandlers) DeleteProspect(_ context.Context, request *mcp.CallToolRequest, input DeleteProspectInput) (*mcp.CallToolResult, DeleteProspectOutput, error) {
	if input.ID == "" {
		return nil, DeleteProspectOutput{}, fmt.Errorf("id is required")
	}
	if !input.Confirm {
		return nil, DeleteProspectOutput{}, fmt.Errorf("confirm must be true to delete a prospect")
	}
	return nil, DeleteProspectOutput{ID: input.ID, Deleted: h.tracker.Delete(input.ID)}, nil
}
