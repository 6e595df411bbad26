package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker tracks batch-level liveness for the health endpoint
type HealthChecker struct {
	mu            sync.RWMutex
	lastBatch     time.Time
	lastBatchSize int
	errors        []string
}

// HealthStatus is the JSON body served by the health endpoint
type HealthStatus struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	LastBatch     time.Time `json:"last_batch"`
	LastBatchSize int       `json:"last_batch_size"`
	Uptime        string    `json:"uptime"`
	Errors        []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RecordBatch marks a completed assessment batch
func (h *HealthChecker) RecordBatch(size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBatch = time.Now()
	h.lastBatchSize = size
	h.errors = h.errors[:0]
}

// RecordError appends a batch-level error for the next health report
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:        status,
		Timestamp:     time.Now(),
		LastBatch:     h.lastBatch,
		LastBatchSize: h.lastBatchSize,
		Uptime:        time.Since(startTime).String(),
		Errors:        h.errors,
	}

	json.NewEncoder(w).Encode(health)
}
