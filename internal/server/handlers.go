package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hetulpatel/PitchDeck/internal/extract"
	"github.com/hetulpatel/PitchDeck/internal/hashutil"
	"github.com/hetulpatel/PitchDeck/internal/logging"
	"github.com/hetulpatel/PitchDeck/internal/metrics"
	"github.com/hetulpatel/PitchDeck/internal/models"
	"github.com/hetulpatel/PitchDeck/internal/pitch"
	"github.com/hetulpatel/PitchDeck/internal/queue"
	"github.com/hetulpatel/PitchDeck/internal/storage/sqlite"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	AIConfigured bool   `json:"ai_configured"`
	Model        string `json:"model"`
	TwoStage     bool   `json:"two_stage"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.index)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Timestamp:    s.now().UTC().Format(time.RFC3339),
		AIConfigured: s.generator.AIEnabled(),
		Model:        s.model,
		TwoStage:     s.generator.TwoStage(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.rejectBody(w, err)
		return
	}

	// Required fields are checked before any upload is parsed.
	req.Normalize()
	if err := req.Validate(); err != nil {
		metrics.PitchRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	docs := s.extractAll(r.Context(), req.Files)
	out, err := s.generator.Generate(r.Context(), req, docs)
	if err != nil {
		var verr *pitch.ValidationError
		if errors.As(err, &verr) {
			metrics.PitchRequests.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
			return
		}
		logging.Errorf("[server] generate for %s: %v", req.CompanyName, err)
		metrics.PitchRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}

	s.record(r.Context(), req, docs, out)
	metrics.PitchRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, out.Pitch)
}

func (s *Server) rejectBody(w http.ResponseWriter, err error) {
	var bad *badRequestError
	switch {
	case errors.Is(err, errTooLarge):
		metrics.PitchRequests.WithLabelValues("too_large").Inc()
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
			Error: "request body exceeds " + strconv.FormatInt(s.maxUploadBytes, 10) + " bytes",
		})
	case errors.As(err, &bad):
		metrics.PitchRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: bad.Error()})
	default:
		logging.Errorf("[server] decode body: %v", err)
		metrics.PitchRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (s *Server) extractAll(ctx context.Context, uploads []pitch.Upload) []extract.Document {
	docs := make([]extract.Document, 0, len(uploads))
	for _, u := range uploads {
		doc := s.extractor.Extract(ctx, u.Filename, u.ContentType, u.Data)
		metrics.ExtractedDocuments.WithLabelValues(string(doc.Kind)).Inc()
		if doc.Failed {
			metrics.ExtractFailures.WithLabelValues(string(doc.Kind)).Inc()
		}
		docs = append(docs, doc)
	}
	return docs
}

// record writes the run to the optional sinks. Sink failures are logged only.
func (s *Server) record(ctx context.Context, req pitch.Request, docs []extract.Document, out *pitch.Outcome) {
	if s.runs == nil && s.events == nil {
		return
	}
	run := models.NewRun(req.CompanyName, req.Industry, req.FundingStage, s.now())
	run.FileCount = len(docs)
	run.ContextLength = len([]rune(out.Context))
	run.ContextHash = hashutil.HashContext(out.Context)
	run.Method = string(out.Pitch.GenerationMethod)
	if out.Err != nil {
		run.Error = out.Err.Error()
	}
	run.Duration = out.Duration

	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	reqID := middleware.GetReqID(ctx)
	if s.runs != nil {
		if err := s.runs.InsertRun(sinkCtx, run); err != nil {
			logging.Warnf("[server] run log write for %s failed (req=%s): %v", run.ID, reqID, err)
		}
	}
	if s.events != nil {
		if err := queue.PublishRun(sinkCtx, s.events, run); err != nil {
			logging.Warnf("[server] run event for %s failed (req=%s): %v", run.ID, reqID, err)
		}
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run log disabled"})
		return
	}
	limit := clampInt(r.URL.Query().Get("limit"), sqlite.DefaultListLimit, sqlite.MaxListLimit)
	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		logging.Errorf("[server] list runs: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	if runs == nil {
		runs = []models.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Debugf("[server] write response: %v", err)
	}
}
