// ABOUTME: JSON API over the prospect tracker
// ABOUTME: Shares request types and validation with the MCP tool handlers
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/handlers"
	"github.com/harperreed/prospector/models"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/viz"
)

// maxBodyBytes caps request bodies; profile screenshots arrive base64 encoded.
const maxBodyBytes = 20 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, handlers.ErrAIUnavailable):
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) apiListProspects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := handlers.ListProspectsInput{
		Query:     q.Get("q"),
		Status:    q.Get("status"),
		Group:     q.Get("group"),
		HighValue: q.Get("high_value") == "true",
	}
	_, out, err := s.prospects.ListProspects(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiCreateProspect(w http.ResponseWriter, r *http.Request) {
	var input handlers.AddProspectInput
	if !s.decode(w, r, &input) {
		return
	}
	_, out, err := s.prospects.AddProspect(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) apiGetProspect(w http.ResponseWriter, r *http.Request) {
	_, out, err := s.prospects.GetProspect(r.Context(), nil, handlers.GetProspectInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiUpdateProspect(w http.ResponseWriter, r *http.Request) {
	var input handlers.UpdateProspectInput
	if !s.decode(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")
	_, out, err := s.prospects.UpdateProspect(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

// apiDeleteProspect requires ?confirm=true, mirroring the CLI prompt.
func (s *Server) apiDeleteProspect(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	_, out, err := s.prospects.DeleteProspect(r.Context(), nil, handlers.DeleteProspectInput{
		ID:      chi.URLParam(r, "id"),
		Confirm: confirm,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !out.Deleted {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: tracker.ErrNotFound.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) apiLogInteraction(w http.ResponseWriter, r *http.Request) {
	var input handlers.LogInteractionInput
	if !s.decode(w, r, &input) {
		return
	}
	input.ID = chi.URLParam(r, "id")
	_, out, err := s.prospects.LogInteraction(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) apiJourney(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, handlers.JourneyOutput{ID: p.ID, Name: p.Name, Stages: viz.JourneyStages(p)})
}

func (s *Server) apiJourneyDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.generator.GenerateJourneyGraph(chi.URLParam(r, "id"))
	if errors.Is(err, tracker.ErrNotFound) {
		s.writeError(w, err)
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeDOT(w, dot)
}

func (s *Server) apiPipelineDOT(w http.ResponseWriter, r *http.Request) {
	dot, err := s.generator.GeneratePipelineGraph()
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.writeDOT(w, dot)
}

func (s *Server) writeDOT(w http.ResponseWriter, dot string) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	if _, err := w.Write([]byte(dot)); err != nil {
		s.logger.Warn("failed to write graph", zap.Error(err))
	}
}

func (s *Server) apiGenerateScript(w http.ResponseWriter, r *http.Request) {
	var input handlers.GenerateScriptInput
	if r.ContentLength != 0 {
		if !s.decode(w, r, &input) {
			return
		}
	}
	if focus := r.URL.Query().Get("focus"); focus != "" {
		input.Focus = focus
	}
	input.ID = chi.URLParam(r, "id")

	_, out, err := s.ai.GenerateScript(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if out.IsError {
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, out)
}

func (s *Server) apiParseProfile(w http.ResponseWriter, r *http.Request) {
	var input handlers.ParseProfileInput
	if !s.decode(w, r, &input) {
		return
	}
	if input.Text == "" && len(input.Images) == 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text or images is required"})
		return
	}

	_, out, err := s.ai.ParseProfile(r.Context(), nil, input)
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if out.Prospect != nil {
		status = http.StatusCreated
	}
	s.writeJSON(w, status, out)
}

func (s *Server) apiStats(w http.ResponseWriter, r *http.Request) {
	stats := viz.GenerateDashboardStats(s.tracker.List(), s.now())
	s.writeJSON(w, http.StatusOK, handlers.BuildPipelineStats(stats))
}

func (s *Server) apiStatuses(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, handlers.ListStatusesOutput{
		Statuses: models.StatusDefinitions(),
		Groups:   models.Groups(),
	})
}

type touchpointsResponse struct {
	Touchpoints    []viz.Touchpoint `json:"touchpoints"`
	AnimationOrder []int            `json:"animationOrder"`
}

func (s *Server) apiTouchpoints(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, touchpointsResponse{
		Touchpoints:    viz.Touchpoints(),
		AnimationOrder: viz.AnimationOrder(),
	})
}

// apiStages answers the journey map's per-stage prospect list. ?touchpoint=
// narrows it to the stage of one touchpoint.
func (s *Server) apiStages(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("touchpoint")
	if raw == "" {
		s.writeJSON(w, http.StatusOK, viz.StageSummaries(s.tracker.List()))
		return
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid touchpoint id"})
		return
	}
	tp, ok := viz.TouchpointByID(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "touchpoint not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, viz.StageProspects(s.tracker.List(), tp))
}
