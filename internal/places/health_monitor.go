package places

import (
	"strings"
	"sync"
	"time"
)

// HealthMonitor tracks upstream places provider success and failure rates
type HealthMonitor struct {
	mu                   sync.RWMutex
	totalRequests        int64
	successfulRequests   int64
	failedRequests       int64
	consecutiveFailures  int64
	lastFailureTime      time.Time
	lastSuccessTime      time.Time
	recentFailures       []FailureRecord
	maxRecentFailures    int
	failureThreshold     float64 // failure ratio above which the provider is unhealthy
	consecutiveThreshold int64
	now                  func() time.Time
}

// FailureRecord is one failed upstream call
type FailureRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Location   string    `json:"location"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error"`
}

// HealthStatus is the snapshot reported by GET /health
type HealthStatus struct {
	IsHealthy           bool            `json:"is_healthy"`
	TotalRequests       int64           `json:"total_requests"`
	SuccessfulRequests  int64           `json:"successful_requests"`
	FailedRequests      int64           `json:"failed_requests"`
	SuccessRate         float64         `json:"success_rate"`
	ConsecutiveFailures int64           `json:"consecutive_failures"`
	LastFailureTime     *time.Time      `json:"last_failure_time,omitempty"`
	LastSuccessTime     *time.Time      `json:"last_success_time,omitempty"`
	RecentFailures      []FailureRecord `json:"recent_failures"`
	HealthIssues        []string        `json:"health_issues"`
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		maxRecentFailures:    20,
		failureThreshold:     0.5,
		consecutiveThreshold: 5,
		recentFailures:       make([]FailureRecord, 0, 20),
		now:                  time.Now,
	}
}

// RecordSuccess records a successful upstream call
func (h *HealthMonitor) RecordSuccess() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalRequests++
	h.successfulRequests++
	h.consecutiveFailures = 0
	h.lastSuccessTime = h.now()
}

// RecordFailure records a failed upstream call
func (h *HealthMonitor) RecordFailure(location string, statusCode int, errorMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.totalRequests++
	h.failedRequests++
	h.consecutiveFailures++
	h.lastFailureTime = now

	h.recentFailures = append(h.recentFailures, FailureRecord{
		Timestamp:  now,
		Location:   location,
		StatusCode: statusCode,
		Error:      errorMsg,
	})
	if len(h.recentFailures) > h.maxRecentFailures {
		h.recentFailures = h.recentFailures[1:]
	}
}

// GetHealthStatus returns the current health status
func (h *HealthMonitor) GetHealthStatus() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := HealthStatus{
		TotalRequests:       h.totalRequests,
		SuccessfulRequests:  h.successfulRequests,
		FailedRequests:      h.failedRequests,
		ConsecutiveFailures: h.consecutiveFailures,
		RecentFailures:      make([]FailureRecord, len(h.recentFailures)),
		HealthIssues:        []string{},
		IsHealthy:           true,
	}
	copy(status.RecentFailures, h.recentFailures)

	if h.totalRequests > 0 {
		status.SuccessRate = float64(h.successfulRequests) / float64(h.totalRequests)
	} else {
		status.SuccessRate = 1.0
	}

	if !h.lastFailureTime.IsZero() {
		t := h.lastFailureTime
		status.LastFailureTime = &t
	}
	if !h.lastSuccessTime.IsZero() {
		t := h.lastSuccessTime
		status.LastSuccessTime = &t
	}

	if h.totalRequests >= 10 && status.SuccessRate < (1.0-h.failureThreshold) {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "High upstream failure rate")
	}
	if h.consecutiveFailures >= h.consecutiveThreshold {
		status.IsHealthy = false
		status.HealthIssues = append(status.HealthIssues, "Multiple consecutive upstream failures")
	}

	h.analyzeFailurePatterns(&status)

	return status
}

// analyzeFailurePatterns reports an error category that dominates recent failures
func (h *HealthMonitor) analyzeFailurePatterns(status *HealthStatus) {
	if len(h.recentFailures) < 3 {
		return
	}

	counts := make(map[string]int)
	for _, failure := range h.recentFailures {
		counts[categorizeFailure(failure)]++
	}

	total := len(h.recentFailures)
	for category, count := range counts {
		if float64(count)/float64(total) <= 0.5 {
			continue
		}
		switch category {
		case "timeout":
			status.HealthIssues = append(status.HealthIssues, "Frequent upstream timeouts")
		case "quota":
			status.HealthIssues = append(status.HealthIssues, "Places quota or rate limit reached")
		case "authentication":
			status.HealthIssues = append(status.HealthIssues, "Places API key rejected")
		case "network":
			status.HealthIssues = append(status.HealthIssues, "Network errors reaching places provider")
		}
	}
}

func categorizeFailure(f FailureRecord) string {
	switch f.StatusCode {
	case 429:
		return "quota"
	case 401, 403:
		return "authentication"
	}

	msg := strings.ToLower(f.Error)
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return "quota"
	case strings.Contains(msg, "api key") || strings.Contains(msg, "request_denied"):
		return "authentication"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "dns") || strings.Contains(msg, "no such host"):
		return "network"
	}
	return "other"
}

// IsHealthy returns true if the provider is within healthy parameters
func (h *HealthMonitor) IsHealthy() bool {
	return h.GetHealthStatus().IsHealthy
}
