// ABOUTME: Outreach script drafting
// ABOUTME: Always returns text; failures come back as an [ERROR]-prefixed message
package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/harperreed/prospector/models"
)

// ErrorPrefix marks a drafting result that is an error message rather than a
// script.
const ErrorPrefix = "[ERROR] "

const (
	msgInvalidKey    = "The API key is not valid. Please check the configuration."
	msgQuota         = "The API quota has been exceeded. Please wait a while before trying again."
	msgModelNotFound = "The specified AI model was not found. Contact the administrator."
	msgGeneric       = "An error occurred while generating the script. Please try again later."
)

const scriptTemperature = 0.7

// GenerateScript drafts an outreach message for p. It never fails: an API
// error is classified and returned as ErrorPrefix plus a readable message.
func (c *Client) GenerateScript(ctx context.Context, p models.Prospect, focus Focus) string {
	prompt := BuildScriptPrompt(p, focus)

	text, err := c.generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](scriptTemperature),
	})
	if err != nil {
		c.logger.Warn("script generation failed", zap.String("prospect_id", p.ID), zap.Error(err))
		return ErrorPrefix + ClassifyError(err)
	}
	return strings.TrimSpace(text)
}

// ClassifyError maps an API error to an operator-facing message.
func ClassifyError(err error) string {
	if err == nil {
		return msgGeneric
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key not valid"):
		return msgInvalidKey
	case strings.Contains(msg, "quota"):
		return msgQuota
	case strings.Contains(msg, "model not found"):
		return msgModelNotFound
	default:
		return msgGeneric
	}
}

// IsErrorResult reports whether a GenerateScript result is an error message.
func IsErrorResult(s string) bool {
	return strings.HasPrefix(s, strings.TrimSpace(ErrorPrefix))
}

// ErrorMessage strips ErrorPrefix from an error result.
func ErrorMessage(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, strings.TrimSpace(ErrorPrefix)))
}
