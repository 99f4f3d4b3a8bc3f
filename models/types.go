// ABOUTME: Data models for prospects and their interaction history
// ABOUTME: Defines Prospect, Interaction, platforms, and interaction types
package models

import (
	"fmt"
	"time"
)

// Platform is the outreach channel used with a prospect.
type Platform string

const (
	PlatformLinkedIn Platform = "linkedin"
	PlatformEmail    Platform = "email"
	PlatformWhatsApp Platform = "whatsapp"
	PlatformTwitter  Platform = "twitter"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformLinkedIn, PlatformEmail, PlatformWhatsApp, PlatformTwitter}

func (p Platform) IsValid() bool {
	switch p {
	case PlatformLinkedIn, PlatformEmail, PlatformWhatsApp, PlatformTwitter:
		return true
	}
	return false
}

// IsChat reports whether the platform expects short conversational messages
// rather than formatted email.
func (p Platform) IsChat() bool {
	return p == PlatformLinkedIn || p == PlatformWhatsApp || p == PlatformTwitter
}

// ParsePlatform validates a raw platform value.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(raw)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown platform %q (valid: linkedin, email, whatsapp, twitter)", raw)
	}
	return p, nil
}

// InteractionType constants.
type InteractionType string

const (
	InteractionNote         InteractionType = "note"
	InteractionChat         InteractionType = "chat"
	InteractionEmail        InteractionType = "email"
	InteractionCall         InteractionType = "call"
	InteractionStatusChange InteractionType = "statusChange"
)

func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionNote, InteractionChat, InteractionEmail, InteractionCall, InteractionStatusChange:
		return true
	}
	return false
}

// ParseInteractionType validates a raw interaction type.
func ParseInteractionType(raw string) (InteractionType, error) {
	t := InteractionType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown interaction type %q (valid: note, chat, email, call, statusChange)", raw)
	}
	return t, nil
}

// Interaction is one logged event in a prospect's history. Entries are never
// edited once appended.
type Interaction struct {
	ID              string          `json:"id"`
	Timestamp       time.Time       `json:"timestamp"`
	Type            InteractionType `json:"type"`
	Content         string          `json:"content"`
	StatusAtTheTime Status          `json:"statusAtTheTime"`
}

type Prospect struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Company         string        `json:"company"`
	Position        string        `json:"position"`
	Email           string        `json:"email"`
	Platform        Platform      `json:"platform"`
	Status          Status        `json:"status"`
	DealValue       float64       `json:"dealValue"`
	IsHighValue     bool          `json:"isHighValue"`
	History         []Interaction `json:"history"`
	Headline        string        `json:"headline,omitempty"`
	About           string        `json:"about,omitempty"`
	Experience      string        `json:"experience,omitempty"`
	CompanyOverview string        `json:"companyOverview,omitempty"`
	CompanyWebsite  string        `json:"companyWebsite,omitempty"`
}

// Clone returns a copy that shares no history storage with p.
func (p Prospect) Clone() Prospect {
	if p.History != nil {
		h := make([]Interaction, len(p.History))
		copy(h, p.History)
		p.History = h
	}
	return p
}

// FirstName is the first word of the prospect's name.
func (p Prospect) FirstName() string {
	for i, r := range p.Name {
		if r == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

// LastInteraction returns the most recent entry by timestamp.
func (p Prospect) LastInteraction() (Interaction, bool) {
	if len(p.History) == 0 {
		return Interaction{}, false
	}
	last := p.History[0]
	for _, h := range p.History[1:] {
		if !h.Timestamp.Before(last.Timestamp) {
			last = h
		}
	}
	return last, true
}

// ProspectFields is the input for creating a prospect. About and Experience
// mark an AI-assisted creation when set.
type ProspectFields struct {
	Name            string   `json:"name"`
	Company         string   `json:"company"`
	Position        string   `json:"position"`
	Email           string   `json:"email"`
	Platform        Platform `json:"platform"`
	Status          Status   `json:"status"`
	DealValue       float64  `json:"dealValue"`
	IsHighValue     bool     `json:"isHighValue"`
	Headline        string   `json:"headline,omitempty"`
	About           string   `json:"about,omitempty"`
	Experience      string   `json:"experience,omitempty"`
	CompanyOverview string   `json:"companyOverview,omitempty"`
	CompanyWebsite  string   `json:"companyWebsite,omitempty"`
}
