package domain

import "time"

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckFail CheckStatus = "fail"
)

type HealthCheck struct {
	Name     string        `json:"name"`
	Status   CheckStatus   `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"-"`
}

type DatabaseHealth struct {
	Connected bool
	Latency   time.Duration
	Error     string
}

type MemoryUsage struct {
	UsedMB     uint64
	TotalMB    uint64
	Percentage int
}

type HealthReport struct {
	Status        HealthStatus
	Timestamp     time.Time
	Version       string
	Environment   string
	Database      DatabaseHealth
	CDNConfigured bool
	CDNCloudName  string
	Memory        MemoryUsage
	Uptime        time.Duration
	Checks        []HealthCheck
}

type DeepHealthReport struct {
	Status       HealthStatus
	Timestamp    time.Time
	ProjectCount int
	Duration     time.Duration
	Error        string
}

type DBStatus struct {
	Connected     bool
	ProjectCount  int
	SampleProject *ProjectSummary
	Error         string
}

type ProjectSummary struct {
	ID         string
	Title      string
	Category   string
	MediaCount int
}
