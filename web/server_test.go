package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/harperreed/prospector/handlers"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

type memPersister struct {
	prospects []models.Prospect
}

func (m *memPersister) Load() ([]models.Prospect, error) {
	if m.prospects == nil {
		return nil, tracker.ErrNoSavedData
	}
	return m.prospects, nil
}

func (m *memPersister) Save(p []models.Prospect) error {
	m.prospects = p
	return nil
}

func newTestServer(t *testing.T) (*Server, *tracker.Tracker) {
	t.Helper()
	tr := tracker.Open(&memPersister{})
	srv, err := NewServer(tr, WithClock(func() time.Time {
		return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return srv, tr
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestDashboardPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sales Dashboard")
	assert.Contains(t, body, "$95,000")
	assert.Contains(t, body, "Follow-up Funnel")
	assert.Contains(t, body, "54.22%")
}

func TestProspectPages(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/prospects?q=elena", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Elena Vasquez")
	assert.NotContains(t, rec.Body.String(), "Sofia Chen")

	rec = do(t, srv, http.MethodGet, "/partials/prospect/elena-vasquez-model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Journey")

	rec = do(t, srv, http.MethodGet, "/partials/prospect/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/followups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Elena Vasquez")
}

func TestGraphPartial(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/partials/graph?type=pipeline", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph")

	rec = do(t, srv, http.MethodGet, "/partials/graph?type=journey", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/partials/graph?type=journey&id=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/partials/graph?type=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIListAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/prospects", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list handlers.ListProspectsOutput
	decodeBody(t, rec, &list)
	assert.Equal(t, 10, list.Total)

	rec = do(t, srv, http.MethodGet, "/api/prospects?status=deal-closed", "")
	decodeBody(t, rec, &list)
	assert.Equal(t, 2, list.Total)

	rec = do(t, srv, http.MethodGet, "/api/prospects?status=won", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/prospects/elena-vasquez-model", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p handlers.ProspectOutput
	decodeBody(t, rec, &p)
	assert.Equal(t, "deal-closed", p.Status)
	assert.NotEmpty(t, p.History)

	rec = do(t, srv, http.MethodGet, "/api/prospects/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPICreateUpdateLogDelete(t *testing.T) {
	srv, tr := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/prospects", `{"name":"Marta Lopez","company":"Banco Sur","deal_value":15000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created handlers.ProspectOutput
	decodeBody(t, rec, &created)
	assert.Equal(t, "initial-contact", created.Status)
	require.Len(t, created.History, 1)
	assert.Equal(t, "Prospect created.", created.History[0].Content)

	rec = do(t, srv, http.MethodPost, "/api/prospects", `{"company":"No Name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/prospects", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/prospects/"+created.ID, `{"status":"qualification"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated handlers.ProspectOutput
	decodeBody(t, rec, &updated)
	assert.Equal(t, "qualification", updated.Status)
	require.Len(t, updated.History, 2)
	var change *handlers.InteractionOutput
	for i := range updated.History {
		if updated.History[i].Type == "statusChange" {
			change = &updated.History[i]
		}
	}
	require.NotNil(t, change)
	assert.Equal(t, "Status changed to Qualification / Email Ask", change.Content)
	assert.Equal(t, "initial-contact", change.StatusAtTheTime)

	rec = do(t, srv, http.MethodPut, "/api/prospects/missing", `{"status":"qualification"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/prospects/"+created.ID+"/interactions", `{"type":"call","content":"Intro call"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/prospects/"+created.ID+"/interactions", `{"type":"call"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/prospects/"+created.ID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/prospects/"+created.ID+"?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := tr.Get(created.ID)
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	rec = do(t, srv, http.MethodDelete, "/api/prospects/"+created.ID+"?confirm=true", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIStatsAndStatuses(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats handlers.PipelineStatsOutput
	decodeBody(t, rec, &stats)
	assert.Equal(t, 95000.0, stats.ClosedRevenue)
	assert.Equal(t, 360000.0, stats.PipelineValue)
	assert.Equal(t, 47500.0, stats.AverageDealSize)
	assert.Equal(t, 2, stats.DealsClosed)

	rec = do(t, srv, http.MethodGet, "/api/statuses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var statuses handlers.ListStatusesOutput
	decodeBody(t, rec, &statuses)
	assert.Len(t, statuses.Statuses, 17)
	assert.Len(t, statuses.Groups, 6)
}

func TestAPIStagesAndTouchpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/touchpoints", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tps struct {
		Touchpoints    []viz.Touchpoint `json:"touchpoints"`
		AnimationOrder []int            `json:"animationOrder"`
	}
	decodeBody(t, rec, &tps)
	assert.Len(t, tps.Touchpoints, 22)
	assert.Equal(t, 1, tps.AnimationOrder[0])

	rec = do(t, srv, http.MethodGet, "/api/stages?touchpoint=21", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stage viz.StageSummary
	decodeBody(t, rec, &stage)
	assert.Equal(t, models.StatusDealClosed, stage.Status)
	assert.Len(t, stage.Prospects, 2)
	assert.Equal(t, 95000.0, stage.TotalValue)

	rec = do(t, srv, http.MethodGet, "/api/stages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stages []viz.StageSummary
	decodeBody(t, rec, &stages)
	assert.Len(t, stages, 16)

	rec = do(t, srv, http.MethodGet, "/api/stages?touchpoint=99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/stages?touchpoint=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIJourney(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/prospects/elena-vasquez-model/journey", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var journey handlers.JourneyOutput
	decodeBody(t, rec, &journey)
	assert.Len(t, journey.Stages, 17)

	rec = do(t, srv, http.MethodGet, "/api/prospects/elena-vasquez-model/journey.dot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "graphviz")
	assert.Contains(t, rec.Body.String(), "digraph")

	rec = do(t, srv, http.MethodGet, "/api/prospects/missing/journey.dot", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/pipeline.dot", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIAIUnavailable(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/prospects/elena-vasquez-model/script", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/profile", `{"text":"Jane Doe, CTO at Acme"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/profile", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	do(t, srv, http.MethodGet, "/api/stats", "")
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "prospector_prospects_total 10")
	assert.Contains(t, body, "prospector_deals_closed 2")
	assert.Contains(t, body, `prospector_prospects_by_group{group="Terminal"}`)
	assert.Contains(t, body, `prospector_http_requests_total{code="200",method="GET",route="/api/stats"} 1`)
}

func TestStartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
