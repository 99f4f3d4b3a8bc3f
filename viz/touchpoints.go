// ABOUTME: Customer journey map of campaign touchpoints linked to statuses
// ABOUTME: Per-stage prospect lists with the stage's total deal value
package viz

import (
	"fmt"

	"github.com/harperreed/prospector/models"
)

type Mood string

const (
	MoodPositive    Mood = "positive"
	MoodPeak        Mood = "peak"
	MoodNeutral     Mood = "neutral"
	MoodSideQuest   Mood = "side-quest"
	MoodLoop        Mood = "loop"
	MoodPositiveAlt Mood = "positive-alt"
	MoodUrgent      Mood = "urgent"
)

// Touchpoint is one step of the outreach playbook. Status is empty for the
// chat confirmation loops, which belong to the touchpoint before them.
type Touchpoint struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Timing      string        `json:"timing"`
	Day         int           `json:"day"`
	Mood        Mood          `json:"mood"`
	Description string        `json:"description"`
	Status      models.Status `json:"status,omitempty"`
}

// IsLoop reports a chat confirmation step closing the loop on an email.
func (tp Touchpoint) IsLoop() bool { return tp.Mood == MoodLoop }

// IsSideQuest reports the LinkedIn branch taken when a prospect hesitates to
// share an email.
func (tp Touchpoint) IsSideQuest() bool { return tp.Mood == MoodSideQuest }

// Map order. Loops follow the touchpoint they confirm.
var touchpoints = []Touchpoint{
	{1, "Initial Greeting", "0-1 min", 0, MoodPositive, "Warm, personal greeting to establish human connection.", models.StatusInitialContact},
	{2, "Main Pitch", "2-3 min", 0, MoodPeak, "The complete value proposition.", models.StatusInitialContact},
	{3, "Response Qualification", "5-10 min", 0, MoodNeutral, "Qualify responses and provide specific answers.", models.StatusQualification},
	{8, "LinkedIn Email Ask", "Day 0", 0, MoodSideQuest, "First attempt to get email after hesitation.", models.StatusLinkedInEmailAsk},
	{22, "LinkedIn Follow-up #1", "Day 7", 7, MoodSideQuest, "High-value follow-up on LinkedIn.", models.StatusLinkedInFollowup1},
	{4, "Send Overview Email", "Day 0", 0, MoodPositive, "Send the comprehensive overview email.", models.StatusOverviewEmailSent},
	{5, "Confirm Email Sent via Chat", "Day 0", 0, MoodLoop, "Close the loop on chat to confirm email.", ""},
	{6, "Email Content Follow-up", "Day 4", 4, MoodPositiveAlt, "Follow up with new, valuable information.", models.StatusEmailContentFollowup},
	{7, "Confirm Follow-up Sent via Chat", "Day 4", 4, MoodLoop, "Close the loop on chat for the follow-up.", ""},
	{9, "High-Value Rescue #1", "Day 7", 7, MoodNeutral, "Strategic re-engagement for silent prospects.", models.StatusHighValueRescue1},
	{10, "Social Proof", "Day 10", 10, MoodPeak, "Leverage new partnerships to create FOMO.", models.StatusSocialProofUpdate},
	{11, "Discovery Meeting Held", "Variable", 15, MoodNeutral, "Successful discovery call to understand needs.", models.StatusDiscoveryMeetingHeld},
	{12, "Sponsorship Proposal Meeting", "+2 days", 17, MoodPositive, "Present tailored sponsorship packages.", models.StatusProposalMeetingHeld},
	{13, "Send Proposal Email", "+24 hours", 18, MoodPeak, "Send a formal proposal email with resources.", models.StatusProposalEmailSent},
	{14, "Confirm Proposal Sent via Chat", "+24 hours", 18, MoodLoop, "Close the loop on chat for the proposal.", ""},
	{15, "Follow-up: Gentle Nudge", "+3 days", 21, MoodPositiveAlt, "Proactive offer of collaboration to remove blockers.", models.StatusFollowupGentleNudge},
	{16, "Confirm Nudge Sent via Chat", "+3 days", 21, MoodLoop, "Close the loop on chat for the 'Gentle Nudge'.", ""},
	{17, "Follow-up: Category Scarcity", "+7 days", 25, MoodUrgent, "Create diplomatic urgency with category interest.", models.StatusFollowupScarcity},
	{18, "Follow-up: Early Bird Offer", "+12 days", 30, MoodPeak, "A value-driven incentive to close the deal.", models.StatusFollowupEarlyBird},
	{19, "Confirm Offer Sent via Chat", "+12 days", 30, MoodLoop, "Close the loop on chat for the 'Early Bird Offer'.", ""},
	{20, "Follow-up: Final Call & Pivot", "+15 days", 33, MoodNeutral, "Final attempt that pivots to a new opportunity.", models.StatusFollowupFinalCall},
	{21, "Deal Closed", "+7 days", 40, MoodPeak, "Successful conversion to sponsor.", models.StatusDealClosed},
}

// animationOrder walks the map the way a prospect moves through it,
// including the detour back to qualification before the LinkedIn branch.
var animationOrder = []int{1, 2, 3, 4, 3, 8, 22, 4, 5, 6, 7, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21}

// Touchpoints returns the journey map in display order.
func Touchpoints() []Touchpoint {
	out := make([]Touchpoint, len(touchpoints))
	copy(out, touchpoints)
	return out
}

// AnimationOrder returns touchpoint ids in walk-through order. Ids repeat.
func AnimationOrder() []int {
	out := make([]int, len(animationOrder))
	copy(out, animationOrder)
	return out
}

// TouchpointByID looks up a touchpoint.
func TouchpointByID(id int) (Touchpoint, bool) {
	for _, tp := range touchpoints {
		if tp.ID == id {
			return tp, true
		}
	}
	return Touchpoint{}, false
}

// TouchpointsForStatus returns the touchpoints linked to s together with the
// loop steps that directly follow them. Statuses off the map (deal-lost) get
// none.
func TouchpointsForStatus(s models.Status) []Touchpoint {
	if s == "" {
		return nil
	}
	var out []Touchpoint
	owned := false
	for _, tp := range touchpoints {
		switch {
		case tp.Status == s:
			out = append(out, tp)
			owned = true
		case tp.IsLoop() && owned:
			out = append(out, tp)
		default:
			owned = false
		}
	}
	return out
}

// StageSummary is one status on the journey map with the prospects
// currently holding it.
type StageSummary struct {
	Status      models.Status     `json:"status"`
	Label       string            `json:"label"`
	Touchpoints []Touchpoint      `json:"touchpoints"`
	Prospects   []models.Prospect `json:"prospects"`
	TotalValue  float64           `json:"totalValue"`
}

func (s StageSummary) String() string {
	noun := "prospects"
	if len(s.Prospects) == 1 {
		noun = "prospect"
	}
	return fmt.Sprintf("%d %s | %s", len(s.Prospects), noun, FormatUSD(s.TotalValue))
}

// StageProspects lists the prospects at the touchpoint's status. Loop
// touchpoints resolve to the status of the step they confirm.
func StageProspects(prospects []models.Prospect, tp Touchpoint) StageSummary {
	status := tp.Status
	if status == "" {
		status = loopOwner(tp.ID)
	}
	return stageFor(prospects, status)
}

// StageSummaries covers every status on the map once, in map order.
func StageSummaries(prospects []models.Prospect) []StageSummary {
	var out []StageSummary
	seen := make(map[models.Status]bool)
	for _, tp := range touchpoints {
		if tp.Status == "" || seen[tp.Status] {
			continue
		}
		seen[tp.Status] = true
		out = append(out, stageFor(prospects, tp.Status))
	}
	return out
}

func stageFor(prospects []models.Prospect, status models.Status) StageSummary {
	summary := StageSummary{Status: status, Prospects: []models.Prospect{}}
	if status == "" {
		return summary
	}
	summary.Label = status.Label()
	summary.Touchpoints = TouchpointsForStatus(status)
	for _, p := range prospects {
		if p.Status == status {
			summary.Prospects = append(summary.Prospects, p)
			summary.TotalValue += p.DealValue
		}
	}
	return summary
}

func loopOwner(id int) models.Status {
	var owner models.Status
	for _, tp := range touchpoints {
		if tp.ID == id {
			return owner
		}
		if tp.Status != "" {
			owner = tp.Status
		}
	}
	return ""
}
