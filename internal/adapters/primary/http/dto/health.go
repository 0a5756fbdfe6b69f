package dto

type DatabaseStatusResponse struct {
	Status    string `json:"status"`
	LatencyMs *int64 `json:"latency,omitempty"`
	Error     string `json:"error,omitempty"`
}

type CDNStatusResponse struct {
	Status    string `json:"status"`
	CloudName string `json:"cloudName,omitempty"`
}

type MemoryResponse struct {
	Used       uint64 `json:"used"`
	Total      uint64 `json:"total"`
	Percentage int    `json:"percentage"`
}

type CheckResponse struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs *int64 `json:"duration,omitempty"`
}

// HealthResponse omits Memory, Checks and the CDN cloud name when the
// caller is not allowed to see details.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   string                 `json:"timestamp"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Database    DatabaseStatusResponse `json:"database"`
	CDN         CDNStatusResponse      `json:"cdn"`
	Memory      *MemoryResponse        `json:"memory,omitempty"`
	Uptime      int64                  `json:"uptime"`
	Checks      []CheckResponse        `json:"checks,omitempty"`
}

type DeepHealthRequest struct {
	Deep bool `json:"deep"`
}

type DeepHealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	Deep         bool   `json:"deep"`
	ProjectCount int    `json:"projectCount"`
	DurationMs   int64  `json:"duration"`
	Error        string `json:"error,omitempty"`
}

type ProjectSummaryResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	MediaCount int    `json:"mediaCount"`
}

type DBStatusResponse struct {
	Success       bool                    `json:"success"`
	Status        string                  `json:"status"`
	ProjectCount  int                     `json:"projectCount"`
	SampleProject *ProjectSummaryResponse `json:"sampleProject"`
	Error         string                  `json:"error,omitempty"`
}

type ErrorReportRequest struct {
	ErrorID        string         `json:"errorId"`
	Message        string         `json:"message" binding:"required"`
	Stack          string         `json:"stack"`
	ComponentStack string         `json:"componentStack"`
	Timestamp      string         `json:"timestamp"`
	URL            string         `json:"url"`
	UserAgent      string         `json:"userAgent"`
	Type           string         `json:"type"`
	AdditionalInfo map[string]any `json:"additionalInfo"`
}

type ErrorReportResponse struct {
	Success bool   `json:"success"`
	ErrorID string `json:"errorId"`
}
