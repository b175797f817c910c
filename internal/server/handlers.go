package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ev-priority/internal/export"
	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/priority"
	"github.com/sells-group/ev-priority/internal/view"
)

type classifyResponse struct {
	Score           float64     `json:"score"`
	Label           model.Label `json:"label"`
	SuggestedAction string      `json:"suggested_action"`
}

type topResponse struct {
	Label model.Label          `json:"label"`
	N     int                  `json:"n"`
	Rows  []model.AggregateRow `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	env, ok := s.envOrError(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": env.Dataset.Len(),
	})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("score")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "score is required")
		return
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		writeError(w, http.StatusBadRequest, "score must be a finite number")
		return
	}
	label := priority.Classify(score)
	writeJSON(w, http.StatusOK, classifyResponse{
		Score:           score,
		Label:           label,
		SuggestedAction: model.SuggestedAction(label),
	})
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	label, err := model.ParseLabel(chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	env, ok := s.envOrError(w, r)
	if !ok {
		return
	}
	n := env.TopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
	}
	if n <= 0 || n > priority.MaxTopN {
		n = priority.MaxTopN
	}
	writeJSON(w, http.StatusOK, topResponse{
		Label: label,
		N:     n,
		Rows:  priority.TopN(env.Dataset.Records(), label, n),
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	env, ok := s.envOrError(w, r)
	if !ok {
		return
	}
	body, err := export.MarkersGeoJSON(priority.SpatialSummary(env.Dataset.Records()))
	if err != nil {
		s.internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	env, ok := s.envOrError(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, priority.Summary(env.Dataset.Records()))
}

func (s *Server) handleViewList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.views.Views())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	v, err := view.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	env, ok := s.envOrError(w, r)
	if !ok {
		return
	}
	res, err := s.views.Render(r.Context(), v, env)
	if err != nil {
		if eris.Is(err, view.ErrUnknownView) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) envOrError(w http.ResponseWriter, r *http.Request) (*view.Env, bool) {
	env, err := s.currentEnv(r.Context())
	if err != nil {
		s.log.Error("dataset unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
		return nil, false
	}
	return env, true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
