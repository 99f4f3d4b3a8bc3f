// ABOUTME: Tests for prompt context, script drafting, and profile extraction
// ABOUTME: Substitutes a fake content generator for the Gemini API
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/harperreed/prospector/models"
)

type fakeGenerator struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

func promptText(t *testing.T, contents []*genai.Content) string {
	t.Helper()
	require.NotEmpty(t, contents)
	var b strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func at(day, hour int) time.Time {
	return time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC)
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Equal(t, "No interaction history yet.", FormatHistory(nil))
	assert.Equal(t, "No interaction history yet.", FormatHistory([]models.Interaction{}))
}

func TestFormatHistoryOrdersAndTruncates(t *testing.T) {
	var history []models.Interaction
	// Inserted newest-first to prove sorting is by timestamp
	for i := 7; i >= 1; i-- {
		history = append(history, models.Interaction{
			ID:        fmt.Sprintf("h%d", i),
			Timestamp: at(i, 10),
			Type:      models.InteractionChat,
			Content:   fmt.Sprintf("message %d", i),
		})
	}

	out := FormatHistory(history)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "[Mon Jun 03 2024 - chat] message 3", lines[0])
	assert.Equal(t, "[Fri Jun 07 2024 - chat] message 7", lines[4])
	assert.Len(t, history, 7, "input must not be modified")
	assert.Equal(t, "h7", history[0].ID)
}

func TestBuildScriptPromptChatPlatform(t *testing.T) {
	p := models.Prospect{
		Name:     "Carlos Fernandez",
		Company:  "Bitso",
		Position: "Head of Compliance",
		Platform: models.PlatformLinkedIn,
		Status:   models.StatusFollowupGentleNudge,
		History: []models.Interaction{
			{Timestamp: at(1, 9), Type: models.InteractionChat, Content: "Hola Carlos"},
		},
	}

	prompt := BuildScriptPrompt(p, FocusFintech)
	assert.Contains(t, prompt, "CRITICAL RULES FOR THIS CHAT PLATFORM (LINKEDIN)")
	assert.Contains(t, prompt, "FIRST NAME ONLY: Carlos.")
	assert.Contains(t, prompt, "- Contact: Carlos\n")
	assert.Contains(t, prompt, "- Headline: N/A\n")
	assert.Contains(t, prompt, "- Timeline Phase: follow up gentle nudge\n")
	assert.Contains(t, prompt, "- Specific Focus Area: Fintech & Digital Banking\n")
	assert.Contains(t, prompt, "[Sat Jun 01 2024 - chat] Hola Carlos")
	assert.Contains(t, prompt, "DETECT LANGUAGE")
}

func TestBuildScriptPromptEmailPlatform(t *testing.T) {
	p := models.Prospect{
		Name:     "Agustina Ramos",
		Platform: models.PlatformEmail,
		Status:   models.StatusProposalEmailSent,
		About:    "Regulatory strategist",
	}

	prompt := BuildScriptPrompt(p, FocusCentralBanks)
	assert.NotContains(t, prompt, "CHAT PLATFORM")
	assert.Contains(t, prompt, "- About: Regulatory strategist\n")
	assert.Contains(t, prompt, "No interaction history yet.")
	assert.Contains(t, prompt, "well-formatted Markdown")
}

func TestFocus(t *testing.T) {
	f, err := ParseFocus("")
	require.NoError(t, err)
	assert.Equal(t, FocusCentralBanks, f)

	f, err = ParseFocus("institutional")
	require.NoError(t, err)
	assert.Equal(t, "Institutional Investment", f.Label())

	_, err = ParseFocus("retail")
	assert.Error(t, err)
	assert.Len(t, Focuses(), 3)
}

func TestGenerateScriptSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "  Hola Carlos, te escribo...  \n"}
	client := NewWithGenerator(gen)

	p := models.Prospect{ID: "2", Name: "Carlos Fernandez", Platform: models.PlatformLinkedIn, Status: models.StatusQualification}
	out := client.GenerateScript(context.Background(), p, FocusFintech)

	assert.Equal(t, "Hola Carlos, te escribo...", out)
	assert.False(t, IsErrorResult(out))
	assert.Equal(t, DefaultModel, gen.model)
	require.NotNil(t, gen.config.Temperature)
	assert.InDelta(t, 0.7, *gen.config.Temperature, 0.0001)
	assert.Contains(t, promptText(t, gen.contents), "Carlos")
}

func TestGenerateScriptErrorClassification(t *testing.T) {
	tests := []struct {
		apiErr string
		want   string
	}{
		{"googleapi: API key not valid. Please pass a valid API key.", "[ERROR] The API key is not valid. Please check the configuration."},
		{"Error 429: Quota exceeded for metric", "[ERROR] The API quota has been exceeded. Please wait a while before trying again."},
		{"404: model not found: gemini-9", "[ERROR] The specified AI model was not found. Contact the administrator."},
		{"connection reset by peer", "[ERROR] An error occurred while generating the script. Please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.apiErr, func(t *testing.T) {
			client := NewWithGenerator(&fakeGenerator{err: errors.New(tt.apiErr)})
			out := client.GenerateScript(context.Background(), models.Prospect{Name: "X"}, FocusFintech)
			assert.Equal(t, tt.want, out)
			assert.True(t, IsErrorResult(out))
			assert.Equal(t, strings.TrimPrefix(tt.want, "[ERROR] "), ErrorMessage(out))
		})
	}
}

func TestWithModel(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	client := NewWithGenerator(gen, WithModel("gemini-custom"), WithModel(""))
	assert.Equal(t, "gemini-custom", client.Model())
	client.GenerateScript(context.Background(), models.Prospect{Name: "X"}, FocusFintech)
	assert.Equal(t, "gemini-custom", gen.model)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

const fullProfileJSON = `{
  "name": "Jonathan Mondragon",
  "headline": "CRO | Fintech",
  "position": "Chief Revenue Officer (CRO)",
  "company": "VirtuaBroker",
  "about": "",
  "experience": "VirtuaBroker 2021-present",
  "companyOverview": "Online brokerage",
  "companyWebsite": "https://virtuabroker.example"
}`

func TestParseProfileText(t *testing.T) {
	gen := &fakeGenerator{text: fullProfileJSON}
	client := NewWithGenerator(gen)

	profile, err := client.ParseProfileText(context.Background(), "Jonathan Mondragon\nCRO | Fintech\nAboutAbout...")
	require.NoError(t, err)
	assert.Equal(t, "Jonathan Mondragon", profile.Name)
	assert.Equal(t, "", profile.About)
	assert.Equal(t, "https://virtuabroker.example", profile.CompanyWebsite)

	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.ResponseSchema)
	assert.Len(t, gen.config.ResponseSchema.Required, 8)
	require.NotNil(t, gen.config.Temperature)
	assert.Zero(t, *gen.config.Temperature)
	require.NotNil(t, gen.config.SystemInstruction)
	assert.Contains(t, promptText(t, gen.contents), "Please parse this LinkedIn profile text:")

	fields := profile.Fields()
	assert.Equal(t, "VirtuaBroker", fields.Company)
	assert.Equal(t, "VirtuaBroker 2021-present", fields.Experience)
}

func TestParseProfileTextRejectsEmptyInput(t *testing.T) {
	gen := &fakeGenerator{text: fullProfileJSON}
	client := NewWithGenerator(gen)

	_, err := client.ParseProfileText(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyProfileText)
	assert.Nil(t, gen.config, "model must not be called")
}

func TestParseProfileTextFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"api error", &fakeGenerator{err: errors.New("quota")}},
		{"not json", &fakeGenerator{text: "Sure! Here is the profile"}},
		{"missing field", &fakeGenerator{text: `{"name":"A","headline":"","position":"","company":"","about":"","experience":"","companyOverview":""}`}},
		{"null field", &fakeGenerator{text: strings.Replace(fullProfileJSON, `"about": ""`, `"about": null`, 1)}},
		{"non-string field", &fakeGenerator{text: strings.Replace(fullProfileJSON, `"about": ""`, `"about": 7`, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := NewWithGenerator(tt.gen).ParseProfileText(context.Background(), "text")
			assert.Nil(t, profile)
			assert.ErrorIs(t, err, ErrProfileText)
		})
	}
}

func TestParseProfileImages(t *testing.T) {
	gen := &fakeGenerator{text: fullProfileJSON}
	client := NewWithGenerator(gen)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	profile, err := client.ParseProfileImages(context.Background(), []Image{NewImage(png, ""), NewImage([]byte("jpegdata"), "image/jpeg")})
	require.NoError(t, err)
	assert.Equal(t, "VirtuaBroker", profile.Company)

	require.Len(t, gen.contents, 1)
	parts := gen.contents[0].Parts
	require.Len(t, parts, 3)
	assert.Contains(t, parts[0].Text, "screenshots")
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, "image/jpeg", parts[2].InlineData.MIMEType)
}

func TestParseProfileImagesFailures(t *testing.T) {
	client := NewWithGenerator(&fakeGenerator{err: errors.New("boom")})

	_, err := client.ParseProfileImages(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = client.ParseProfileImages(context.Background(), []Image{{MIMEType: "image/png", Data: []byte("x")}})
	assert.ErrorIs(t, err, ErrProfileImages)
}

func TestProfileApplyToKeepsIdentity(t *testing.T) {
	existing := models.Prospect{
		ID:      "keep",
		Name:    "Old",
		Status:  models.StatusQualification,
		History: []models.Interaction{{ID: "h"}},
	}
	updated := Profile{Name: "New", Company: "Co"}.ApplyTo(existing)
	assert.Equal(t, "keep", updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, models.StatusQualification, updated.Status)
	assert.Len(t, updated.History, 1)
}
