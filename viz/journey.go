// ABOUTME: Per-prospect journey through the status catalog
// ABOUTME: Marks which stages were visited and when each was first entered
package viz

import (
	"sort"
	"time"

	"github.com/harperreed/prospector/models"
)

type JourneyStage struct {
	Status  models.Status `json:"status"`
	Label   string        `json:"label"`
	Group   string        `json:"group"`
	Visited bool          `json:"visited"`
	Current bool          `json:"current"`
	// EnteredAt is when the prospect first reached this status; nil when the
	// history says nothing about it.
	EnteredAt *time.Time `json:"enteredAt,omitempty"`
	// Touchpoints are the playbook steps for this status, loops included.
	Touchpoints []Touchpoint `json:"touchpoints,omitempty"`
}

// JourneyStages walks every catalog status in order. A status counts as
// visited when some history entry was recorded while in it, or when it is the
// current status.
func JourneyStages(p models.Prospect) []JourneyStage {
	history := make([]models.Interaction, len(p.History))
	copy(history, p.History)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})

	entered := make(map[models.Status]time.Time)
	enter := func(s models.Status, at time.Time) {
		if _, seen := entered[s]; !seen {
			entered[s] = at
		}
	}
	for i, h := range history {
		enter(h.StatusAtTheTime, h.Timestamp)
		if h.Type != models.InteractionStatusChange {
			continue
		}
		// The new status is whatever the next entry was recorded under, or
		// the current status when this was the last change.
		next := p.Status
		if i+1 < len(history) {
			next = history[i+1].StatusAtTheTime
		}
		enter(next, h.Timestamp)
	}

	defs := models.StatusDefinitions()
	stages := make([]JourneyStage, 0, len(defs))
	for _, def := range defs {
		stage := JourneyStage{
			Status:      def.Value,
			Label:       def.Label,
			Group:       def.Group,
			Current:     def.Value == p.Status,
			Touchpoints: TouchpointsForStatus(def.Value),
		}
		if at, ok := entered[def.Value]; ok {
			at := at
			stage.Visited = true
			stage.EnteredAt = &at
		}
		if stage.Current {
			stage.Visited = true
		}
		stages = append(stages, stage)
	}
	return stages
}

// VisitedStages filters JourneyStages to the visited ones, in catalog order.
func VisitedStages(p models.Prospect) []JourneyStage {
	var out []JourneyStage
	for _, s := range JourneyStages(p) {
		if s.Visited {
			out = append(out, s)
		}
	}
	return out
}
