// ABOUTME: Structured profile extraction from pasted text or screenshots
// ABOUTME: JSON response mode with a schema; partial responses are rejected
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/harperreed/prospector/models"
)

var (
	// ErrProfileText is returned when text extraction fails for any reason.
	ErrProfileText = errors.New("Failed to parse profile with AI. Please check the provided text or try again.")

	// ErrProfileImages is returned when image extraction fails for any reason.
	ErrProfileImages = errors.New("Failed to parse profile from images with AI. Please check the provided images or try again.")

	ErrEmptyProfileText = errors.New("Please paste the profile text first.")
	ErrNoImages         = errors.New("Please upload at least one image of the profile.")
)

// Profile is the extraction result. Every field is required in the model
// response, even when empty.
type Profile struct {
	Name            string `json:"name"`
	Headline        string `json:"headline"`
	Position        string `json:"position"`
	Company         string `json:"company"`
	About           string `json:"about"`
	Experience      string `json:"experience"`
	CompanyOverview string `json:"companyOverview"`
	CompanyWebsite  string `json:"companyWebsite"`
}

// Fields converts the profile into prospect creation input.
func (p Profile) Fields() models.ProspectFields {
	return models.ProspectFields{
		Name:            p.Name,
		Company:         p.Company,
		Position:        p.Position,
		Headline:        p.Headline,
		About:           p.About,
		Experience:      p.Experience,
		CompanyOverview: p.CompanyOverview,
		CompanyWebsite:  p.CompanyWebsite,
	}
}

// ApplyTo overlays the profile onto an existing prospect, leaving identity
// and history alone.
func (p Profile) ApplyTo(target models.Prospect) models.Prospect {
	target.Name = p.Name
	target.Company = p.Company
	target.Position = p.Position
	target.Headline = p.Headline
	target.About = p.About
	target.Experience = p.Experience
	target.CompanyOverview = p.CompanyOverview
	target.CompanyWebsite = p.CompanyWebsite
	return target
}

// Image is one screenshot handed to the extractor.
type Image struct {
	MIMEType string
	Data     []byte
}

// NewImage sniffs the content type of data when mimeType is empty.
func NewImage(data []byte, mimeType string) Image {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return Image{MIMEType: mimeType, Data: data}
}

var profileFields = []string{"name", "headline", "position", "company", "about", "experience", "companyOverview", "companyWebsite"}

func profileSchema(descriptions map[string]string) *genai.Schema {
	props := make(map[string]*genai.Schema, len(profileFields))
	for _, f := range profileFields {
		props[f] = &genai.Schema{Type: genai.TypeString, Description: descriptions[f]}
	}
	required := make([]string, len(profileFields))
	copy(required, profileFields)
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         required,
		PropertyOrdering: required,
	}
}

var textDescriptions = map[string]string{
	"name":            "The person's full name, extracted from the top.",
	"headline":        "The person's main professional headline, usually a long string with '|' separators.",
	"position":        "The person's current primary job title (e.g., 'Chief Revenue Officer (CRO)').",
	"company":         "The name of the person's current primary company (e.g., 'VirtuaBroker').",
	"about":           "The complete, cleaned content from the 'About' section. Should be an empty string if not present.",
	"experience":      "The complete, cleaned text content from the 'Experience' section.",
	"companyOverview": "The complete, cleaned content from the company's 'Overview' section.",
	"companyWebsite":  "The URL of the company's website, extracted from the overview or contact info.",
}

var imageDescriptions = map[string]string{
	"name":            "The person's full name, extracted from the top.",
	"headline":        "The person's main professional headline.",
	"position":        "The person's current primary job title.",
	"company":         "The name of the person's current primary company.",
	"about":           "The content from the 'About' section. Should be an empty string if not present.",
	"experience":      "The text content from the 'Experience' section.",
	"companyOverview": "The content from the company's 'Overview' section.",
	"companyWebsite":  "The URL of the company's website.",
}

const textInstruction = `You are a highly intelligent data extraction engine. Your task is to parse the following text, which is a raw copy-paste from a LinkedIn profile page, and extract the specified information according to the provided JSON schema. Clean up any repeated headers like "AboutAbout" or "ExperienceExperience" from the content of the fields. If a section like 'About' is missing, return an empty string for that field. The 'position' should be the prospect's current main job title and 'company' is their current main company.`

const imageInstruction = `You are a highly intelligent data extraction engine. Your task is to analyze the following images, which are screenshots of a LinkedIn profile, and extract the specified information according to the provided JSON schema. The images may show different sections (header, about, experience, company page) and may be out of order. Piece together the information to build a complete profile. If a section like 'About' is not shown in any image, return an empty string for that field.`

func extractionConfig(instruction string, schema *genai.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		Temperature:       genai.Ptr[float32](0),
	}
}

// ParseProfileText extracts a profile from a pasted LinkedIn page.
func (c *Client) ParseProfileText(ctx context.Context, text string) (*Profile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyProfileText
	}

	prompt := fmt.Sprintf("Please parse this LinkedIn profile text:\n\n---\n%s\n---", text)
	raw, err := c.generate(ctx, genai.Text(prompt), extractionConfig(textInstruction, profileSchema(textDescriptions)))
	if err != nil {
		c.logger.Warn("profile text extraction failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileText, err)
	}

	profile, err := DecodeProfile(raw)
	if err != nil {
		c.logger.Warn("profile text extraction returned unusable JSON", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileText, err)
	}
	return profile, nil
}

// ParseProfileImages extracts a profile from one or more screenshots.
func (c *Client) ParseProfileImages(ctx context.Context, images []Image) (*Profile, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	parts := []*genai.Part{
		genai.NewPartFromText("Please analyze these LinkedIn profile screenshots and extract the user's details."),
	}
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	raw, err := c.generate(ctx, contents, extractionConfig(imageInstruction, profileSchema(imageDescriptions)))
	if err != nil {
		c.logger.Warn("profile image extraction failed", zap.Int("images", len(images)), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileImages, err)
	}

	profile, err := DecodeProfile(raw)
	if err != nil {
		c.logger.Warn("profile image extraction returned unusable JSON", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileImages, err)
	}
	return profile, nil
}

// DecodeProfile parses a model response, rejecting objects that omit any
// required field or carry a non-string value.
func DecodeProfile(raw string) (*Profile, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return nil, fmt.Errorf("invalid profile JSON: %w", err)
	}

	values := make(map[string]string, len(profileFields))
	var missing []string
	for _, name := range profileFields {
		v, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		var s string
		if string(v) == "null" || json.Unmarshal(v, &s) != nil {
			return nil, fmt.Errorf("profile field %s is not a string", name)
		}
		values[name] = s
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("profile response missing fields: %s", strings.Join(missing, ", "))
	}

	return &Profile{
		Name:            values["name"],
		Headline:        values["headline"],
		Position:        values["position"],
		Company:         values["company"],
		About:           values["about"],
		Experience:      values["experience"],
		CompanyOverview: values["companyOverview"],
		CompanyWebsite:  values["companyWebsite"],
	}, nil
}
