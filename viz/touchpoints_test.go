package viz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/prospector/models"
)

func TestTouchpointMap(t *testing.T) {
	tps := Touchpoints()
	require.Len(t, tps, 22)

	ids := map[int]bool{}
	loops := 0
	for _, tp := range tps {
		assert.False(t, ids[tp.ID], "duplicate touchpoint %d", tp.ID)
		ids[tp.ID] = true
		if tp.IsLoop() {
			loops++
			assert.Empty(t, tp.Status, tp.Name)
			continue
		}
		assert.True(t, tp.Status.IsValid(), "%s links to %q", tp.Name, tp.Status)
	}
	assert.Equal(t, 5, loops)

	for _, id := range AnimationOrder() {
		_, ok := TouchpointByID(id)
		assert.True(t, ok, "animation step %d", id)
	}

	tp, ok := TouchpointByID(22)
	require.True(t, ok)
	assert.True(t, tp.IsSideQuest())
	assert.Equal(t, "Day 7", tp.Timing)
	assert.Equal(t, models.StatusLinkedInFollowup1, tp.Status)
}

func TestTouchpointsForStatus(t *testing.T) {
	initial := TouchpointsForStatus(models.StatusInitialContact)
	require.Len(t, initial, 2)
	assert.Equal(t, "Initial Greeting", initial[0].Name)
	assert.Equal(t, "Main Pitch", initial[1].Name)

	overview := TouchpointsForStatus(models.StatusOverviewEmailSent)
	require.Len(t, overview, 2)
	assert.True(t, overview[1].IsLoop())
	assert.Equal(t, "Confirm Email Sent via Chat", overview[1].Name)

	assert.Empty(t, TouchpointsForStatus(models.StatusDealLost))
	assert.Empty(t, TouchpointsForStatus(""))
}

func TestJourneyStagesCarryTouchpoints(t *testing.T) {
	p := prospect("a", models.StatusFollowupScarcity, 0)
	for _, stage := range JourneyStages(p) {
		if stage.Status != models.StatusFollowupScarcity {
			continue
		}
		require.Len(t, stage.Touchpoints, 1)
		assert.Equal(t, "+7 days", stage.Touchpoints[0].Timing)
		assert.Equal(t, MoodUrgent, stage.Touchpoints[0].Mood)
	}
}

func TestStageSummaries(t *testing.T) {
	prospects := []models.Prospect{
		prospect("a", models.StatusProposalEmailSent, 75000),
		prospect("b", models.StatusProposalEmailSent, 100000),
		prospect("c", models.StatusInitialContact, 5000),
		prospect("d", models.StatusDealLost, 9000),
	}

	stages := StageSummaries(prospects)
	byStatus := map[models.Status]StageSummary{}
	for _, s := range stages {
		_, dup := byStatus[s.Status]
		assert.False(t, dup, "status %s listed twice", s.Status)
		byStatus[s.Status] = s
	}
	assert.Len(t, stages, 16, "every status except deal-lost is on the map")

	proposal := byStatus[models.StatusProposalEmailSent]
	assert.Len(t, proposal.Prospects, 2)
	assert.Equal(t, 175000.0, proposal.TotalValue)
	assert.Equal(t, "2 prospects | $175,000", proposal.String())

	initial := byStatus[models.StatusInitialContact]
	assert.Equal(t, "1 prospect | $5,000", initial.String())
	assert.Len(t, initial.Touchpoints, 2)

	empty := byStatus[models.StatusSocialProofUpdate]
	assert.Equal(t, "0 prospects | $0", empty.String())
	assert.NotNil(t, empty.Prospects)
}

func TestStageProspectsForLoopUsesConfirmedStep(t *testing.T) {
	prospects := []models.Prospect{prospect("a", models.StatusProposalEmailSent, 2000)}

	loop, ok := TouchpointByID(14)
	require.True(t, ok)
	stage := StageProspects(prospects, loop)
	assert.Equal(t, models.StatusProposalEmailSent, stage.Status)
	assert.Len(t, stage.Prospects, 1)
}

func TestJourneyGraphShowsTiming(t *testing.T) {
	p := prospect("a", models.StatusEmailContentFollowup, 0)
	g := NewGraphGenerator(staticSource{prospects: []models.Prospect{p}})

	dot, err := g.GenerateJourneyGraph("a")
	require.NoError(t, err)
	assert.True(t, strings.Contains(dot, "Day 4"), dot)
}
