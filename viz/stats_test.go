// ABOUTME: Tests for derived views, journey stages, dashboard, and graphs
// ABOUTME: Builds small collections in memory; graph tests render through go-graphviz
package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/prospector/models"
)

func prospect(id string, status models.Status, value float64) models.Prospect {
	return models.Prospect{
		ID:        id,
		Name:      "Prospect " + id,
		Status:    status,
		DealValue: value,
		History: []models.Interaction{{
			ID:              id + "-h1",
			Timestamp:       time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			Type:            models.InteractionNote,
			Content:         "Prospect created.",
			StatusAtTheTime: status,
		}},
	}
}

func TestRevenueScenario(t *testing.T) {
	prospects := []models.Prospect{
		prospect("a", models.StatusDealClosed, 60000),
		prospect("b", models.StatusDealClosed, 40000),
		prospect("c", models.StatusInitialContact, 10000),
		prospect("d", models.StatusProposalEmailSent, 10000),
		prospect("e", models.StatusHighValueRescue1, 10000),
	}

	assert.Equal(t, 100000.0, ClosedRevenue(prospects))
	assert.Equal(t, 50000.0, AverageDealSize(prospects))
	assert.Equal(t, 30000.0, PipelineValue(prospects))
	assert.Equal(t, 2, ClosedDeals(prospects))
	assert.Equal(t, 3, ActivePipeline(prospects))
}

func TestAverageDealSizeWithNoClosedDeals(t *testing.T) {
	prospects := []models.Prospect{
		prospect("a", models.StatusQualification, 25000),
		prospect("b", models.StatusDealLost, 5000),
	}
	assert.Equal(t, 0.0, AverageDealSize(prospects))
	assert.Equal(t, 0.0, AverageDealSize(nil))
}

func TestPipelineExcludesLostDeals(t *testing.T) {
	prospects := []models.Prospect{
		prospect("a", models.StatusDealLost, 5000),
		prospect("b", models.StatusDiscoveryMeetingHeld, 25000),
	}
	assert.Equal(t, 25000.0, PipelineValue(prospects))
	assert.Equal(t, 1, LostDeals(prospects))
}

func TestGroupCountsSumToTotal(t *testing.T) {
	var prospects []models.Prospect
	for i, def := range models.StatusDefinitions() {
		for j := 0; j <= i%3; j++ {
			prospects = append(prospects, prospect(string(def.Value)+string(rune('a'+j)), def.Value, 1))
		}
	}

	sum := 0
	for _, n := range CountByGroup(prospects) {
		sum += n
	}
	assert.Equal(t, len(prospects), sum)

	statusSum := 0
	for _, n := range CountByStatus(prospects) {
		statusSum += n
	}
	assert.Equal(t, len(prospects), statusSum)
}

func TestCountByGroupIgnoresUnknownStatus(t *testing.T) {
	counts := CountByGroup([]models.Prospect{prospect("a", "mystery", 0)})
	assert.Len(t, counts, len(models.Groups()))
	for _, n := range counts {
		assert.Zero(t, n)
	}
}

func TestFunnelStages(t *testing.T) {
	prospects := []models.Prospect{
		prospect("a", models.StatusInitialContact, 0),
		prospect("b", models.StatusOverviewEmailSent, 0),
		prospect("c", models.StatusProposalMeetingHeld, 0),
		prospect("d", models.StatusFollowupFinalCall, 0),
		prospect("e", models.StatusSocialProofUpdate, 0),
		prospect("f", models.StatusDealClosed, 0),
		prospect("g", models.StatusDealLost, 0),
	}

	funnel := Funnel(prospects)
	require.Len(t, funnel, 4)
	assert.Equal(t, []string{"prospecting", "follow-up", "re-engagement", "closed"},
		[]string{funnel[0].Key, funnel[1].Key, funnel[2].Key, funnel[3].Key})
	assert.Equal(t, 1, funnel[0].Count)
	assert.Equal(t, 3, funnel[1].Count)
	assert.Equal(t, 1, funnel[2].Count)
	assert.Equal(t, 1, funnel[3].Count)
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		part, total int
		want        string
	}{
		{244, 450, "54.22%"},
		{37, 244, "15.16%"},
		{37, 450, "8.22%"},
		{0, 10, "0.00%"},
		{5, 0, "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConversionRate(tt.part, tt.total))
	}

	c := DefaultCampaignActivity()
	assert.Equal(t, 450, c.LinkedInMessages)
	assert.Equal(t, "8.22%", c.LinkedInToCall)
}

func TestFormatUSD(t *testing.T) {
	tests := map[float64]string{
		0:        "$0",
		999:      "$999",
		1000:     "$1,000",
		47500:    "$47,500",
		1234567:  "$1,234,567",
		-2500:    "-$2,500",
		1999.6:   "$2,000",
		500000.0: "$500,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatUSD(in), "FormatUSD(%v)", in)
	}
}

func TestJourneyStages(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	p := models.Prospect{
		ID:     "j",
		Name:   "Journey",
		Status: models.StatusDiscoveryMeetingHeld,
		History: []models.Interaction{
			{ID: "1", Timestamp: t0, Type: models.InteractionNote, StatusAtTheTime: models.StatusInitialContact},
			{ID: "2", Timestamp: t0.Add(time.Hour), Type: models.InteractionStatusChange, StatusAtTheTime: models.StatusInitialContact},
			{ID: "3", Timestamp: t0.Add(2 * time.Hour), Type: models.InteractionEmail, StatusAtTheTime: models.StatusQualification},
			{ID: "4", Timestamp: t0.Add(3 * time.Hour), Type: models.InteractionStatusChange, StatusAtTheTime: models.StatusQualification},
		},
	}

	stages := JourneyStages(p)
	require.Len(t, stages, len(models.StatusDefinitions()))

	byStatus := map[models.Status]JourneyStage{}
	for _, s := range stages {
		byStatus[s.Status] = s
	}

	initial := byStatus[models.StatusInitialContact]
	assert.True(t, initial.Visited)
	require.NotNil(t, initial.EnteredAt)
	assert.Equal(t, t0, *initial.EnteredAt)

	qual := byStatus[models.StatusQualification]
	assert.True(t, qual.Visited)
	require.NotNil(t, qual.EnteredAt)
	assert.Equal(t, t0.Add(time.Hour), *qual.EnteredAt)

	current := byStatus[models.StatusDiscoveryMeetingHeld]
	assert.True(t, current.Visited)
	assert.True(t, current.Current)
	require.NotNil(t, current.EnteredAt)
	assert.Equal(t, t0.Add(3*time.Hour), *current.EnteredAt)

	assert.False(t, byStatus[models.StatusDealClosed].Visited)
	assert.Nil(t, byStatus[models.StatusDealClosed].EnteredAt)

	assert.Len(t, VisitedStages(p), 3)
}

func TestGenerateDashboardStats(t *testing.T) {
	now := time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)
	fresh := prospect("fresh", models.StatusQualification, 1000)
	fresh.History[0].Timestamp = now.Add(-24 * time.Hour)
	stale := prospect("stale", models.StatusProposalEmailSent, 2000)
	closed := prospect("closed", models.StatusDealClosed, 3000)
	empty := models.Prospect{ID: "empty", Name: "No History", Status: models.StatusInitialContact}

	stats := GenerateDashboardStats([]models.Prospect{fresh, stale, closed, empty}, now)
	assert.Equal(t, 4, stats.TotalProspects)
	assert.Equal(t, 3000.0, stats.ClosedRevenue)
	assert.Equal(t, 3000.0, stats.PipelineValue)
	require.Len(t, stats.RecentActivity, 1)
	assert.Contains(t, stats.RecentActivity[0].Description, "Prospect fresh")

	require.Len(t, stats.StaleProspects, 2)
	names := []string{stats.StaleProspects[0].Name, stats.StaleProspects[1].Name}
	assert.ElementsMatch(t, []string{"Prospect stale", "No History"}, names)

	out := RenderDashboard(stats)
	assert.Contains(t, out, "PROSPECTOR SALES DASHBOARD")
	assert.Contains(t, out, "$3,000 closed of $500,000 goal")
	assert.Contains(t, out, "Follow-up Funnel")
	assert.Contains(t, out, "NEEDS ATTENTION")
	assert.Contains(t, out, "8.22%")
}

type staticSource struct {
	prospects []models.Prospect
}

func (s staticSource) List() []models.Prospect { return s.prospects }

func (s staticSource) Get(id string) (models.Prospect, error) {
	for _, p := range s.prospects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Prospect{}, errors.New("not found")
}

func TestGenerateJourneyGraph(t *testing.T) {
	p := prospect("g1", models.StatusQualification, 5000)
	p.Name = "Graph Person"
	gen := NewGraphGenerator(staticSource{prospects: []models.Prospect{p}})

	dot, err := gen.GenerateJourneyGraph("g1")
	require.NoError(t, err)
	assert.True(t, strings.Contains(dot, "digraph"), "expected DOT output")
	assert.Contains(t, dot, "Graph Person")
	assert.Contains(t, dot, "gold")

	_, err = gen.GenerateJourneyGraph("missing")
	assert.Error(t, err)
}

func TestGeneratePipelineGraph(t *testing.T) {
	a := prospect("a", models.StatusDealClosed, 60000)
	a.Name = "Closer"
	b := prospect("b", models.StatusDiscoveryMeetingHeld, 25000)
	b.Name = "Meeter"
	gen := NewGraphGenerator(staticSource{prospects: []models.Prospect{a, b}})

	dot, err := gen.GeneratePipelineGraph()
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "Closer")
	assert.Contains(t, dot, "Meeter")
	assert.Contains(t, dot, "Meeting Funnel")
}
