// ABOUTME: Lifecycle operations on prospects: create, update, log, delete
// ABOUTME: Each operation mutates the collection in memory and then persists it
package tracker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/harperreed/prospector/models"
)

const (
	createdNote         = "Prospect created."
	createdFromAINote   = "Prospect created from AI Parser."
	statusChangedPrefix = "Status changed to "
)

func newProspectID() string {
	return uuid.New().String()
}

// Create adds a new prospect with a synthesized creation note.
func (t *Tracker) Create(fields models.ProspectFields) (models.Prospect, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return models.Prospect{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}

	status := fields.Status
	if status == "" {
		status = models.StatusInitialContact
	}
	if !status.IsValid() {
		return models.Prospect{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, status)
	}

	platform := fields.Platform
	if platform == "" {
		platform = models.PlatformLinkedIn
	}
	if !platform.IsValid() {
		return models.Prospect{}, fmt.Errorf("%w: unknown platform %q", ErrInvalid, platform)
	}

	note := createdNote
	if fields.About != "" || fields.Experience != "" {
		note = createdFromAINote
	}

	now := t.now()
	p := models.Prospect{
		ID:              t.newID(),
		Name:            name,
		Company:         fields.Company,
		Position:        fields.Position,
		Email:           fields.Email,
		Platform:        platform,
		Status:          status,
		DealValue:       fields.DealValue,
		IsHighValue:     fields.IsHighValue,
		Headline:        fields.Headline,
		About:           fields.About,
		Experience:      fields.Experience,
		CompanyOverview: fields.CompanyOverview,
		CompanyWebsite:  fields.CompanyWebsite,
		History: []models.Interaction{{
			ID:              t.interactionID(now),
			Timestamp:       now,
			Type:            models.InteractionNote,
			Content:         note,
			StatusAtTheTime: status,
		}},
	}

	t.commit(func() { t.prospects = append(t.prospects, p.Clone()) })
	t.logger.Debug("prospect created")
	return p, nil
}

// Update replaces the stored fields of the prospect with the same id. The
// history is append-only and owned by the tracker: the stored log is always
// the base and any history on next is ignored. A status change appends a
// statusChange entry recording the previous status.
func (t *Tracker) Update(next models.Prospect) (models.Prospect, error) {
	if !next.Status.IsValid() {
		return models.Prospect{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, next.Status)
	}
	if next.Platform != "" && !next.Platform.IsValid() {
		return models.Prospect{}, fmt.Errorf("%w: unknown platform %q", ErrInvalid, next.Platform)
	}

	t.mu.Lock()
	idx := t.indexOf(next.ID)
	if idx < 0 {
		t.mu.Unlock()
		return models.Prospect{}, fmt.Errorf("%w: %s", ErrNotFound, next.ID)
	}

	existing := t.prospects[idx]
	updated := next.Clone()
	updated.History = existing.Clone().History
	if updated.Platform == "" {
		updated.Platform = existing.Platform
	}

	if existing.Status != updated.Status {
		now := t.now()
		updated.History = append(updated.History, models.Interaction{
			ID:              t.interactionID(now),
			Timestamp:       now,
			Type:            models.InteractionStatusChange,
			Content:         statusChangedPrefix + models.StatusLabel(updated.Status),
			StatusAtTheTime: existing.Status,
		})
	}

	t.prospects[idx] = updated
	t.mu.Unlock()

	_ = t.Persist()
	return updated.Clone(), nil
}

// AddInteraction appends a logged event to a prospect's history. The
// prospect's status is left as is and recorded on the entry.
func (t *Tracker) AddInteraction(id string, kind models.InteractionType, content string) (models.Interaction, error) {
	if !kind.IsValid() {
		return models.Interaction{}, fmt.Errorf("%w: unknown interaction type %q", ErrInvalid, kind)
	}
	if kind == models.InteractionStatusChange {
		return models.Interaction{}, fmt.Errorf("%w: status changes are recorded by updating the status", ErrInvalid)
	}
	if strings.TrimSpace(content) == "" {
		return models.Interaction{}, fmt.Errorf("%w: content is required", ErrInvalid)
	}

	t.mu.Lock()
	idx := t.indexOf(id)
	if idx < 0 {
		t.mu.Unlock()
		return models.Interaction{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := t.now()
	entry := models.Interaction{
		ID:              t.interactionID(now),
		Timestamp:       now,
		Type:            kind,
		Content:         content,
		StatusAtTheTime: t.prospects[idx].Status,
	}
	p := t.prospects[idx].Clone()
	p.History = append(p.History, entry)
	t.prospects[idx] = p
	t.mu.Unlock()

	_ = t.Persist()
	return entry, nil
}

// Delete removes the prospect with id. It reports false, without persisting,
// when no such prospect exists.
func (t *Tracker) Delete(id string) bool {
	t.mu.Lock()
	idx := t.indexOf(id)
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	remaining := make([]models.Prospect, 0, len(t.prospects)-1)
	remaining = append(remaining, t.prospects[:idx]...)
	remaining = append(remaining, t.prospects[idx+1:]...)
	t.prospects = remaining
	t.mu.Unlock()

	_ = t.Persist()
	return true
}

// Get returns a copy of the prospect with id.
func (t *Tracker) Get(id string) (models.Prospect, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := t.indexOf(id)
	if idx < 0 {
		return models.Prospect{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.prospects[idx].Clone(), nil
}

// List returns a copy of the collection in insertion order.
func (t *Tracker) List() []models.Prospect {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := cloneAll(t.prospects)
	if out == nil {
		out = []models.Prospect{}
	}
	return out
}

// Find returns prospects matching a case-insensitive substring of name or
// company. An empty query returns everything.
func (t *Tracker) Find(query string) []models.Prospect {
	all := t.List()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	var out []models.Prospect
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Company), q) {
			out = append(out, p)
		}
	}
	return out
}
