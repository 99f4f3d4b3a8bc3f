// ABOUTME: AI-assisted MCP tools for outreach drafting and profile parsing
// ABOUTME: Work only when a Gemini client is configured
package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
)

// ErrAIUnavailable is returned by AI tools when no API key was configured.
var ErrAIUnavailable = errors.New("AI features are not configured (set GEMINI_API_KEY)")

type AIHandlers struct {
	tracker *tracker.Tracker
	client  *ai.Client
	timeout time.Duration
}

// NewAIHandlers accepts a nil client; the tools then report ErrAIUnavailable.
func NewAIHandlers(t *tracker.Tracker, client *ai.Client, timeout time.Duration) *AIHandlers {
	return &AIHandlers{tracker: t, client: client, timeout: timeout}
}

func (h *AIHandlers) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.timeout)
}

type GenerateScriptInput struct {
	ID    string `json:"id" jsonschema:"Prospect ID (required)"`
	Focus string `json:"focus,omitempty" jsonschema:"Campaign focus: central-banks, fintech, institutional (default central-banks)"`
}

type GenerateScriptOutput struct {
	ProspectID string `json:"prospect_id"`
	Focus      string `json:"focus"`
	Script     string `json:"script,omitempty"`
	IsError    bool   `json:"is_error"`
	Error      string `json:"error,omitempty"`
}

func (h *AIHandlers) GenerateScript(ctx context.Context, request *mcp.CallToolRequest, input GenerateScriptInput) (*mcp.CallToolResult, GenerateScriptOutput, error) {
	if h.client == nil {
		return nil, GenerateScriptOutput{}, ErrAIUnavailable
	}
	if input.ID == "" {
		return nil, GenerateScriptOutput{}, fmt.Errorf("id is required")
	}
	focus, err := ai.ParseFocus(input.Focus)
	if err != nil {
		return nil, GenerateScriptOutput{}, err
	}
	p, err := h.tracker.Get(input.ID)
	if err != nil {
		return nil, GenerateScriptOutput{}, err
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	result := h.client.GenerateScript(ctx, p, focus)
	out := GenerateScriptOutput{ProspectID: p.ID, Focus: string(focus)}
	if ai.IsErrorResult(result) {
		out.IsError = true
		out.Error = ai.ErrorMessage(result)
	} else {
		out.Script = result
	}
	return nil, out, nil
}

type ProfileImageInput struct {
	Data     string `json:"data" jsonschema:"Base64-encoded image bytes"`
	MIMEType string `json:"mime_type,omitempty" jsonschema:"Image MIME type; sniffed when empty"`
}

type ParseProfileInput struct {
	Text     string              `json:"text,omitempty" jsonschema:"Raw profile text pasted from LinkedIn"`
	Images   []ProfileImageInput `json:"images,omitempty" jsonschema:"Profile screenshots; used when text is empty"`
	Create   bool                `json:"create,omitempty" jsonschema:"Create a prospect from the parsed profile"`
	Status   string              `json:"status,omitempty" jsonschema:"Initial status when creating"`
	Platform string              `json:"platform,omitempty" jsonschema:"Platform when creating"`
}

type ParseProfileOutput struct {
	Profile  ai.Profile      `json:"profile"`
	Prospect *ProspectOutput `json:"prospect,omitempty"`
}

// DecodeImages turns base64 payloads into extractor images.
func DecodeImages(inputs []ProfileImageInput) ([]ai.Image, error) {
	images := make([]ai.Image, 0, len(inputs))
	for i, in := range inputs {
		data, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, fmt.Errorf("image %d: invalid base64: %w", i+1, err)
		}
		images = append(images, ai.NewImage(data, in.MIMEType))
	}
	return images, nil
}

func (h *AIHandlers) ParseProfile(ctx context.Context, request *mcp.CallToolRequest, input ParseProfileInput) (*mcp.CallToolResult, ParseProfileOutput, error) {
	if h.client == nil {
		return nil, ParseProfileOutput{}, ErrAIUnavailable
	}

	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	var profile *ai.Profile
	var err error
	if input.Text != "" {
		profile, err = h.client.ParseProfileText(ctx, input.Text)
	} else {
		images, decodeErr := DecodeImages(input.Images)
		if decodeErr != nil {
			return nil, ParseProfileOutput{}, decodeErr
		}
		profile, err = h.client.ParseProfileImages(ctx, images)
	}
	if err != nil {
		return nil, ParseProfileOutput{}, err
	}

	out := ParseProfileOutput{Profile: *profile}
	if input.Create {
		fields := profile.Fields()
		fields.Status = models.Status(input.Status)
		fields.Platform = models.Platform(input.Platform)
		p, err := h.tracker.Create(fields)
		if err != nil {
			return nil, ParseProfileOutput{}, fmt.Errorf("failed to create prospect: %w", err)
		}
		created := prospectToOutput(p, true)
		out.Prospect = &created
	}
	return nil, out, nil
}
