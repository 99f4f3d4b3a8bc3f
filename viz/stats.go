// ABOUTME: Derived views over the prospect collection
// ABOUTME: Pure functions for funnel counts, revenue, pipeline value, and campaign conversion
package viz

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/harperreed/prospector/models"
)

// RevenueGoal is the campaign sponsorship revenue target in dollars.
const RevenueGoal = 500000.0

// Campaign outreach totals to date. These are operator-reported numbers, not
// derived from the collection.
const (
	CampaignLinkedInMessages = 450
	CampaignEmailsObtained   = 244
	CampaignDiscoveryCalls   = 37
)

// CountByStatus counts prospects per status. Statuses with no prospects are
// absent from the map.
func CountByStatus(prospects []models.Prospect) map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, p := range prospects {
		counts[p.Status]++
	}
	return counts
}

// CountByGroup counts prospects per funnel group. Every catalog group is
// present; prospects with an unknown status are not counted.
func CountByGroup(prospects []models.Prospect) map[string]int {
	counts := make(map[string]int, len(models.Groups()))
	for _, g := range models.Groups() {
		counts[g] = 0
	}
	for _, p := range prospects {
		if g := models.StatusGroup(p.Status); g != "" {
			counts[g]++
		}
	}
	return counts
}

func ClosedDeals(prospects []models.Prospect) int {
	n := 0
	for _, p := range prospects {
		if p.Status == models.StatusDealClosed {
			n++
		}
	}
	return n
}

func LostDeals(prospects []models.Prospect) int {
	n := 0
	for _, p := range prospects {
		if p.Status == models.StatusDealLost {
			n++
		}
	}
	return n
}

// ClosedRevenue sums deal value over deal-closed prospects.
func ClosedRevenue(prospects []models.Prospect) float64 {
	var total float64
	for _, p := range prospects {
		if p.Status == models.StatusDealClosed {
			total += p.DealValue
		}
	}
	return total
}

// PipelineValue sums deal value over prospects not in a terminal status.
func PipelineValue(prospects []models.Prospect) float64 {
	var total float64
	for _, p := range prospects {
		if !p.Status.IsTerminal() {
			total += p.DealValue
		}
	}
	return total
}

// AverageDealSize divides closed revenue by the closed count, treating zero
// closed deals as a denominator of one.
func AverageDealSize(prospects []models.Prospect) float64 {
	n := ClosedDeals(prospects)
	if n == 0 {
		n = 1
	}
	return ClosedRevenue(prospects) / float64(n)
}

// FunnelStage is one bar of the simplified funnel.
type FunnelStage struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Funnel collapses the catalog groups into the four stages shown on the
// dashboard.
func Funnel(prospects []models.Prospect) []FunnelStage {
	groups := CountByGroup(prospects)
	return []FunnelStage{
		{Key: "prospecting", Label: "Prospecting", Count: groups[models.GroupProspecting]},
		{
			Key:   "follow-up",
			Label: "Follow-up Funnel",
			Count: groups[models.GroupPostOverview] + groups[models.GroupMeetingFunnel] + groups[models.GroupPostProposal],
		},
		{Key: "re-engagement", Label: "Re-engagement", Count: groups[models.GroupReengagement]},
		{Key: "closed", Label: "Deals Closed", Count: ClosedDeals(prospects)},
	}
}

// ActivePipeline counts prospects in the first three funnel stages.
func ActivePipeline(prospects []models.Prospect) int {
	n := 0
	for _, s := range Funnel(prospects)[:3] {
		n += s.Count
	}
	return n
}

// CampaignActivity holds outreach volume and step conversion rates.
type CampaignActivity struct {
	LinkedInMessages int    `json:"linkedinMessages"`
	EmailsObtained   int    `json:"emailsObtained"`
	DiscoveryCalls   int    `json:"discoveryCalls"`
	LinkedInToEmail  string `json:"linkedinToEmailRate"`
	EmailToCall      string `json:"emailToCallRate"`
	LinkedInToCall   string `json:"linkedinToCallRate"`
}

func NewCampaignActivity(messages, emails, calls int) CampaignActivity {
	return CampaignActivity{
		LinkedInMessages: messages,
		EmailsObtained:   emails,
		DiscoveryCalls:   calls,
		LinkedInToEmail:  ConversionRate(emails, messages),
		EmailToCall:      ConversionRate(calls, emails),
		LinkedInToCall:   ConversionRate(calls, messages),
	}
}

// DefaultCampaignActivity reports the campaign's running totals.
func DefaultCampaignActivity() CampaignActivity {
	return NewCampaignActivity(CampaignLinkedInMessages, CampaignEmailsObtained, CampaignDiscoveryCalls)
}

// ConversionRate formats part/total as a percentage with two decimals, or
// N/A when total is zero.
func ConversionRate(part, total int) string {
	if total <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

var usd = message.NewPrinter(language.English)

// FormatUSD renders whole dollars with thousands separators, e.g. $1,250.
func FormatUSD(v float64) string {
	if v < 0 {
		return "-" + FormatUSD(-v)
	}
	return usd.Sprintf("$%d", int64(v+0.5))
}
