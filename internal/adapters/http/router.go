package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/resume-classifier/internal/config"
	"github.com/kirillkom/resume-classifier/internal/core/domain"
	"github.com/kirillkom/resume-classifier/internal/core/ports"
	"github.com/kirillkom/resume-classifier/internal/observability/metrics"
)

type Router struct {
	cfg        config.Config
	classifier ports.ResumeClassifier
	ingestor   ports.ResumeIngestor
	reader     ports.ResumeReader
	metrics    *metrics.HTTPServerMetrics
	spec       *apiSpec
}

// NewRouter builds the API. ingestor and reader may be nil when asynchronous
// ingestion is not configured.
func NewRouter(
	cfg config.Config,
	classifier ports.ResumeClassifier,
	ingestor ports.ResumeIngestor,
	reader ports.ResumeReader,
) *Router {
	spec, err := loadAPISpec()
	if err != nil {
		// The document is embedded at build time.
		panic(err)
	}
	return &Router{
		cfg:        cfg,
		classifier: classifier,
		ingestor:   ingestor,
		reader:     reader,
		spec:       spec,
	}
}

func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) Handler() http.Handler {
	var onReject rejectFunc
	if rt.metrics != nil {
		onReject = rt.metrics.RecordRejected
	}
	gate := func(h http.HandlerFunc) http.Handler {
		return backpressureMiddleware(h, rt.cfg.APIMaxInFlight, rt.cfg.APIQueueWait(), onReject)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.openAPI)
	mux.HandleFunc("/v1/categories", rt.listCategories)
	mux.Handle("/v1/classify", gate(rt.classifyFile))
	mux.Handle("/v1/classify/text", gate(rt.classifyText))
	mux.HandleFunc("/v1/resumes", rt.uploadResume)
	mux.HandleFunc("/v1/resumes/", rt.getResumeByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = rateLimitMiddleware(mux, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onReject)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rt.spec.rendered)
}

func (rt *Router) listCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": domain.Categories()})
}

func (rt *Router) classifyFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, _, err := rt.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	prediction, err := rt.classifier.ClassifyDocument(r.Context(), doc)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictionResponse(prediction))
}

func (rt *Router) classifyText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.uploadLimit())
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := rt.spec.validateJSONBody(r.Context(), "/v1/classify/text", payload); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	prediction, err := rt.classifier.ClassifyText(r.Context(), req.Text)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictionResponse(prediction))
}

func (rt *Router) uploadResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.ingestor == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "asynchronous ingestion is not configured"})
		return
	}

	doc, mimeType, err := rt.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	resume, err := rt.ingestor.Upload(r.Context(), doc.Filename, mimeType, bytes.NewReader(doc.Content))
	if err != nil {
		slog.Error("resume_upload_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resume)
}

func (rt *Router) getResumeByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.reader == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "asynchronous ingestion is not configured"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/resumes/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "resume id is required"})
		return
	}

	resume, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type predictionPayload struct {
	Message    string `json:"message"`
	Category   string `json:"category"`
	CategoryID int    `json:"category_id"`
}

func predictionResponse(p domain.Prediction) predictionPayload {
	return predictionPayload{
		Message:    p.Message(),
		Category:   p.Category,
		CategoryID: p.CategoryID,
	}
}
