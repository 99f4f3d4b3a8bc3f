// ABOUTME: Status catalog for the prospect funnel
// ABOUTME: Ordered status definitions, funnel groups, and label lookups
package models

import "fmt"

// Status is the current funnel stage of a prospect.
type Status string

const (
	StatusInitialContact       Status = "initial-contact"
	StatusQualification        Status = "qualification"
	StatusLinkedInEmailAsk     Status = "linkedin-email-ask"
	StatusLinkedInFollowup1    Status = "linkedin-followup-1"
	StatusOverviewEmailSent    Status = "overview-email-sent"
	StatusEmailContentFollowup Status = "email-content-followup"
	StatusHighValueRescue1     Status = "high-value-rescue-1"
	StatusSocialProofUpdate    Status = "social-proof-update"
	StatusDiscoveryMeetingHeld Status = "discovery-meeting-held"
	StatusProposalMeetingHeld  Status = "proposal-meeting-held"
	StatusProposalEmailSent    Status = "proposal-email-sent"
	StatusFollowupGentleNudge  Status = "follow-up-gentle-nudge"
	StatusFollowupScarcity     Status = "follow-up-scarcity"
	StatusFollowupEarlyBird    Status = "follow-up-early-bird"
	StatusFollowupFinalCall    Status = "follow-up-final-call"
	StatusDealClosed           Status = "deal-closed"
	StatusDealLost             Status = "deal-lost"
)

// Funnel group names.
const (
	GroupProspecting   = "Prospecting"
	GroupPostOverview  = "Post-Overview"
	GroupReengagement  = "Re-engagement"
	GroupMeetingFunnel = "Meeting Funnel"
	GroupPostProposal  = "Post-Proposal"
	GroupTerminal      = "Terminal"
)

// UnknownLabel is returned for statuses outside the catalog.
const UnknownLabel = "Unknown"

type StatusDefinition struct {
	Value Status `json:"value"`
	Label string `json:"label"`
	Group string `json:"group"`
}

var statusDefinitions = []StatusDefinition{
	{StatusInitialContact, "Initial Contact", GroupProspecting},
	{StatusQualification, "Qualification / Email Ask", GroupProspecting},
	{StatusLinkedInEmailAsk, "LinkedIn Email Ask", GroupProspecting},
	{StatusLinkedInFollowup1, "LinkedIn Follow-up #1", GroupProspecting},
	{StatusOverviewEmailSent, "Overview Email Sent", GroupPostOverview},
	{StatusEmailContentFollowup, "Email Content Follow-up", GroupPostOverview},
	{StatusHighValueRescue1, "High-Value Rescue #1", GroupReengagement},
	{StatusSocialProofUpdate, "Social Proof Update", GroupReengagement},
	{StatusDiscoveryMeetingHeld, "Discovery Meeting Held", GroupMeetingFunnel},
	{StatusProposalMeetingHeld, "Sponsorship Proposal Meeting", GroupMeetingFunnel},
	{StatusProposalEmailSent, "Proposal Email Sent", GroupPostProposal},
	{StatusFollowupGentleNudge, "Follow-up: Gentle Nudge", GroupPostProposal},
	{StatusFollowupScarcity, "Follow-up: Category Scarcity", GroupPostProposal},
	{StatusFollowupEarlyBird, "Follow-up: Early Bird Offer", GroupPostProposal},
	{StatusFollowupFinalCall, "Follow-up: Final Call & Pivot", GroupPostProposal},
	{StatusDealClosed, "Deal Closed", GroupTerminal},
	{StatusDealLost, "Deal Lost", GroupTerminal},
}

var groups = []string{
	GroupProspecting,
	GroupPostOverview,
	GroupReengagement,
	GroupMeetingFunnel,
	GroupPostProposal,
	GroupTerminal,
}

var statusIndex = func() map[Status]StatusDefinition {
	idx := make(map[Status]StatusDefinition, len(statusDefinitions))
	for _, def := range statusDefinitions {
		idx[def.Value] = def
	}
	return idx
}()

// StatusDefinitions returns the catalog in funnel order.
func StatusDefinitions() []StatusDefinition {
	out := make([]StatusDefinition, len(statusDefinitions))
	copy(out, statusDefinitions)
	return out
}

// Groups returns the funnel group names in funnel order.
func Groups() []string {
	out := make([]string, len(groups))
	copy(out, groups)
	return out
}

// LookupStatus returns the catalog entry for s.
func LookupStatus(s Status) (StatusDefinition, bool) {
	def, ok := statusIndex[s]
	return def, ok
}

// StatusLabel returns the display label for s, or UnknownLabel.
func StatusLabel(s Status) string {
	if def, ok := statusIndex[s]; ok {
		return def.Label
	}
	return UnknownLabel
}

// StatusGroup returns the funnel group for s, or "" when s is not in the catalog.
func StatusGroup(s Status) string {
	return statusIndex[s].Group
}

// StatusesInGroup returns the member statuses of group, in funnel order.
func StatusesInGroup(group string) []Status {
	var out []Status
	for _, def := range statusDefinitions {
		if def.Group == group {
			out = append(out, def.Value)
		}
	}
	return out
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

func (s Status) IsValid() bool {
	_, ok := statusIndex[s]
	return ok
}

// IsTerminal reports whether s is an end state. Terminal statuses can still be
// changed; nothing enforces finality.
func (s Status) IsTerminal() bool {
	return s == StatusDealClosed || s == StatusDealLost
}

func (s Status) Label() string {
	return StatusLabel(s)
}

func (s Status) String() string {
	return string(s)
}
