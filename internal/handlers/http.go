package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"hrv-service/internal/cache"
	"hrv-service/internal/hrv"
	"hrv-service/internal/metrics"
	"hrv-service/internal/models"
	"hrv-service/internal/parser"
)

// ResultCache хранилище готовых ответов анализа
type ResultCache interface {
	GetAnalysis(ctx context.Context, key string, dest interface{}) (bool, error)
	StoreAnalysis(ctx context.Context, key string, data interface{}) error
	Ping(ctx context.Context) error
	GetStats() map[string]interface{}
}

// Handler обработчик HTTP запросов
type Handler struct {
	estimator *hrv.Estimator
	cache     ResultCache
	delimiter rune
	maxUpload int64
}

// NewHandler создает новый обработчик; cache может быть nil
func NewHandler(estimator *hrv.Estimator, cache ResultCache, delimiter rune, maxUpload int64) *Handler {
	return &Handler{
		estimator: estimator,
		cache:     cache,
		delimiter: delimiter,
		maxUpload: maxUpload,
	}
}

// Root обрабатывает GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		metrics.RequestsTotal.WithLabelValues(r.Method, "/", "405").Inc()
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		metrics.RequestsTotal.WithLabelValues(r.Method, "/", "404").Inc()
		http.NotFound(w, r)
		return
	}

	metrics.RequestsTotal.WithLabelValues(r.Method, "/", "200").Inc()
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "HRV API is running",
	})
}

// Analyze обрабатывает POST /analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.RequestDuration.WithLabelValues(r.Method, "/analyze").Observe(duration)
	}()

	if r.Method != http.MethodPost {
		metrics.RequestsTotal.WithLabelValues(r.Method, "/analyze", "405").Inc()
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	startIndex := 0
	if raw := r.FormValue("start_index"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, r, http.StatusBadRequest, fmt.Errorf("start_index must be an integer, got %q", raw))
			return
		}
		startIndex = v
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	detector := h.estimator.Detector()
	key := cache.AnalysisKey(payload, startIndex, detectorTag(detector), h.delimiter)

	if h.cache != nil {
		var cached models.AnalysisResponse
		hit, err := h.cache.GetAnalysis(r.Context(), key, &cached)
		switch {
		case err != nil:
			metrics.CacheOperations.WithLabelValues("get_analysis", "error").Inc()
			log.Printf("Cache lookup failed for %s: %v", key, err)
		case hit:
			metrics.CacheOperations.WithLabelValues("get_analysis", "hit").Inc()
			metrics.RequestsTotal.WithLabelValues(r.Method, "/analyze", "200").Inc()
			writeJSON(w, http.StatusOK, cached)
			return
		default:
			metrics.CacheOperations.WithLabelValues("get_analysis", "miss").Inc()
		}
	}

	rec, err := parser.ParseRecording(bytes.NewReader(payload), h.delimiter)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(detector.Name(), "invalid_input").Inc()
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	analysisStart := time.Now()
	res, err := h.estimator.Analyze(rec, startIndex)
	metrics.AnalysisLatency.Observe(time.Since(analysisStart).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(detector.Name(), outcome(err)).Inc()
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	metrics.AnalysesTotal.WithLabelValues(detector.Name(), "success").Inc()
	metrics.SamplesProcessed.Add(float64(rec.Len() - startIndex))
	metrics.PeaksDetected.Observe(float64(len(res.Peaks)))

	response := models.NewAnalysisResponse(res)

	if h.cache != nil {
		if err := h.cache.StoreAnalysis(r.Context(), key, response); err == nil {
			metrics.CacheOperations.WithLabelValues("store_analysis", "success").Inc()
		} else {
			metrics.CacheOperations.WithLabelValues("store_analysis", "error").Inc()
			log.Printf("Failed to cache analysis %s: %v", key, err)
		}
	}

	metrics.RequestsTotal.WithLabelValues(r.Method, "/analyze", "200").Inc()
	writeJSON(w, http.StatusOK, response)
}

// HealthCheck обрабатывает GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	httpStatus := http.StatusOK
	cacheStatus := "disabled"

	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.Ping(r.Context()); err != nil {
			cacheStatus = "unreachable"
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"cache":     cacheStatus,
		"timestamp": time.Now(),
	})
}

// GetStats обрабатывает GET /stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.RequestDuration.WithLabelValues(r.Method, "/stats").Observe(duration)
	}()

	var cacheStats map[string]interface{}
	if h.cache != nil {
		cacheStats = h.cache.GetStats()
	}

	metrics.RequestsTotal.WithLabelValues(r.Method, "/stats", "200").Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyzer": map[string]interface{}{
			"detector":         h.estimator.Detector().Name(),
			"delimiter":        string(h.delimiter),
			"max_upload_bytes": h.maxUpload,
		},
		"cache":     cacheStats,
		"timestamp": time.Now(),
	})
}

// fail отдает ошибку в формате {"error": ...}, текст не маскируется
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	metrics.RequestsTotal.WithLabelValues(r.Method, "/analyze", strconv.Itoa(status)).Inc()
	log.Printf("Analyze request failed with %d: %v", status, err)
	writeJSON(w, status, models.ErrorResponse{Error: err.Error()})
}

// outcome метка исхода анализа для метрик
func outcome(err error) string {
	switch {
	case errors.Is(err, hrv.ErrInsufficientPeaks):
		return "insufficient_peaks"
	case errors.Is(err, hrv.ErrInvalidOffset), errors.Is(err, hrv.ErrLengthMismatch), errors.Is(err, hrv.ErrNonFiniteInterval):
		return "invalid_input"
	default:
		return "error"
	}
}

// detectorTag имя стратегии вместе с параметрами, чтобы ключ кэша менялся при их смене
func detectorTag(d hrv.PeakDetector) string {
	return fmt.Sprintf("%s%v", d.Name(), d)
}

// writeJSON кодирует ответ до отправки заголовка, чтобы ошибка кодирования стала 500
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		buf.Reset()
		json.NewEncoder(&buf).Encode(models.ErrorResponse{Error: "failed to encode response: " + err.Error()})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
