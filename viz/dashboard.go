// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for the sales campaign overview
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/prospector/models"
)

type DashboardStats struct {
	// Pipeline overview
	Funnel        []FunnelStage
	CountByGroup  map[string]int
	CountByStatus map[models.Status]int

	// Overall stats
	TotalProspects  int
	ActivePipeline  int
	DealsClosed     int
	DealsLost       int
	ClosedRevenue   float64
	PipelineValue   float64
	AverageDealSize float64
	RevenueGoal     float64

	Campaign CampaignActivity

	// Recent activity (last 7 days)
	RecentActivity []ActivityItem

	// Needs attention
	StaleProspects []StaleProspect
}

type ActivityItem struct {
	Date        time.Time
	Description string
}

type StaleProspect struct {
	ID        string
	Name      string
	Status    models.Status
	DaysSince int
}

const (
	recentWindow = 7 * 24 * time.Hour
	staleAfter   = 14
)

// GenerateDashboardStats computes every dashboard figure from the collection.
// now anchors the recent and stale windows.
func GenerateDashboardStats(prospects []models.Prospect, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		Funnel:          Funnel(prospects),
		CountByGroup:    CountByGroup(prospects),
		CountByStatus:   CountByStatus(prospects),
		TotalProspects:  len(prospects),
		ActivePipeline:  ActivePipeline(prospects),
		DealsClosed:     ClosedDeals(prospects),
		DealsLost:       LostDeals(prospects),
		ClosedRevenue:   ClosedRevenue(prospects),
		PipelineValue:   PipelineValue(prospects),
		AverageDealSize: AverageDealSize(prospects),
		RevenueGoal:     RevenueGoal,
		Campaign:        DefaultCampaignActivity(),
	}

	for _, p := range prospects {
		for _, h := range p.History {
			if now.Sub(h.Timestamp) <= recentWindow && !h.Timestamp.After(now) {
				stats.RecentActivity = append(stats.RecentActivity, ActivityItem{
					Date:        h.Timestamp,
					Description: fmt.Sprintf("%s: %s", p.Name, firstLine(h.Content)),
				})
			}
		}

		if p.Status.IsTerminal() {
			continue
		}
		last, ok := p.LastInteraction()
		if !ok {
			stats.StaleProspects = append(stats.StaleProspects, StaleProspect{ID: p.ID, Name: p.Name, Status: p.Status, DaysSince: -1})
			continue
		}
		daysSince := int(now.Sub(last.Timestamp).Hours() / 24)
		if daysSince > staleAfter {
			stats.StaleProspects = append(stats.StaleProspects, StaleProspect{ID: p.ID, Name: p.Name, Status: p.Status, DaysSince: daysSince})
		}
	}

	sort.Slice(stats.RecentActivity, func(i, j int) bool {
		return stats.RecentActivity[i].Date.After(stats.RecentActivity[j].Date)
	})
	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  PROSPECTOR SALES DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("REVENUE\n")
	out.WriteString(fmt.Sprintf("  💰 %s closed of %s goal (%d deals)\n",
		FormatUSD(stats.ClosedRevenue), FormatUSD(stats.RevenueGoal), stats.DealsClosed))
	out.WriteString(fmt.Sprintf("  📈 %s pipeline across %d active prospects\n",
		FormatUSD(stats.PipelineValue), stats.ActivePipeline))
	out.WriteString(fmt.Sprintf("  🎯 %s average deal size\n\n", FormatUSD(stats.AverageDealSize)))

	// Pipeline overview
	out.WriteString("SALES FUNNEL\n")
	renderFunnel(&out, stats.Funnel)
	out.WriteString("\n")

	out.WriteString("BY GROUP\n")
	for _, g := range models.Groups() {
		out.WriteString(fmt.Sprintf("  %-15s %3d\n", g, stats.CountByGroup[g]))
	}
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d prospects  ✅ %d closed  ❌ %d lost\n\n",
		stats.TotalProspects, stats.DealsClosed, stats.DealsLost))

	out.WriteString("CAMPAIGN\n")
	c := stats.Campaign
	out.WriteString(fmt.Sprintf("  ~%d LinkedIn messages → %d emails (%s) → %d calls (%s)\n",
		c.LinkedInMessages, c.EmailsObtained, c.LinkedInToEmail, c.DiscoveryCalls, c.EmailToCall))
	out.WriteString(fmt.Sprintf("  Overall conversion (LI → Call): %s\n\n", c.LinkedInToCall))

	if len(stats.RecentActivity) > 0 {
		out.WriteString("RECENT ACTIVITY\n")
		for i, item := range stats.RecentActivity {
			if i == 5 {
				break
			}
			out.WriteString(fmt.Sprintf("  %s  %s\n", item.Date.Format("Jan 02"), item.Description))
		}
		out.WriteString("\n")
	}

	// Needs attention
	if len(stats.StaleProspects) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d prospects - no activity in %d+ days\n", len(stats.StaleProspects), staleAfter))
	}

	return out.String()
}

func renderFunnel(out *strings.Builder, funnel []FunnelStage) {
	// Find max count for scaling
	maxCount := 0
	for _, s := range funnel {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range funnel {
		// Calculate bar length (0-10 blocks)
		barLength := (s.Count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-17s %s  %2d\n", s.Label, bar, s.Count))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len([]rune(s)) > 60 {
		s = string([]rune(s)[:57]) + "..."
	}
	return s
}
