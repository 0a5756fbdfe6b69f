package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

const pingTimeout = 3 * time.Second

// HealthInfo is the static part of the health report, resolved from config
// at start-up.
type HealthInfo struct {
	Version       string
	Environment   string
	CDNConfigured bool
	CDNCloudName  string

	// RequiredSettings maps a setting name to whether it is present.
	RequiredSettings map[string]bool
}

type HealthService struct {
	db       ports.Pinger
	projects ports.ProjectRepository
	info     HealthInfo
	started  time.Time
	now      func() time.Time
}

func NewHealthService(db ports.Pinger, projects ports.ProjectRepository, info HealthInfo) *HealthService {
	return &HealthService{
		db:       db,
		projects: projects,
		info:     info,
		started:  time.Now(),
		now:      time.Now,
	}
}

// Ping reports whether the database answers.
func (s *HealthService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDatabaseUnavailable, err)
	}
	return nil
}

func (s *HealthService) Report(ctx context.Context) *domain.HealthReport {
	report := &domain.HealthReport{
		Timestamp:     s.now().UTC(),
		Version:       s.info.Version,
		Environment:   s.info.Environment,
		CDNConfigured: s.info.CDNConfigured,
		CDNCloudName:  s.info.CDNCloudName,
		Memory:        readMemory(),
		Uptime:        s.now().Sub(s.started),
	}

	start := s.now()
	pingErr := s.Ping(ctx)
	dbCheck := domain.HealthCheck{Name: "database", Duration: s.now().Sub(start)}
	if pingErr != nil {
		log.WithError(pingErr).Warn("health check: database unreachable")
		report.Database = domain.DatabaseHealth{Error: pingErr.Error()}
		dbCheck.Status = domain.CheckFail
		dbCheck.Message = pingErr.Error()
	} else {
		report.Database = domain.DatabaseHealth{Connected: true, Latency: dbCheck.Duration}
		dbCheck.Status = domain.CheckPass
		dbCheck.Message = "database connected"
	}

	cdnCheck := domain.HealthCheck{Name: "cdn", Status: domain.CheckPass}
	if s.info.CDNConfigured {
		cdnCheck.Message = "cdn configured: " + s.info.CDNCloudName
	} else {
		cdnCheck.Status = domain.CheckFail
		cdnCheck.Message = "cdn not configured, using local storage"
	}

	envCheck := domain.HealthCheck{Name: "environment", Status: domain.CheckPass, Message: "all required settings present"}
	if missing := missingSettings(s.info.RequiredSettings); len(missing) > 0 {
		envCheck.Status = domain.CheckFail
		envCheck.Message = "missing settings: " + strings.Join(missing, ", ")
	}

	report.Checks = []domain.HealthCheck{dbCheck, cdnCheck, envCheck}
	report.Status = overallStatus(report.Checks)
	return report
}

// Deep runs a real query against the catalogue in addition to the ping.
func (s *HealthService) Deep(ctx context.Context) *domain.DeepHealthReport {
	start := s.now()
	report := &domain.DeepHealthReport{Timestamp: start.UTC()}

	count, err := s.projects.Count(ctx)
	report.Duration = s.now().Sub(start)
	if err != nil {
		log.WithError(err).Warn("deep health check failed")
		report.Status = domain.HealthUnhealthy
		report.Error = err.Error()
		return report
	}

	report.Status = domain.HealthHealthy
	report.ProjectCount = count
	return report
}

func (s *HealthService) DBStatus(ctx context.Context) *domain.DBStatus {
	status := &domain.DBStatus{}

	if err := s.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.Connected = true

	count, err := s.projects.Count(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.ProjectCount = count

	if count > 0 {
		sample, _, err := s.projects.List(ctx, ports.ProjectFilter{Sort: domain.SortNewest, Limit: 1})
		if err != nil {
			log.WithError(err).Warn("db status: failed to load sample project")
		} else if len(sample) > 0 {
			p := sample[0]
			status.SampleProject = &domain.ProjectSummary{
				ID:         p.ID.String(),
				Title:      p.Title,
				Category:   p.Category,
				MediaCount: p.MediaCount,
			}
		}
	}
	return status
}

func overallStatus(checks []domain.HealthCheck) domain.HealthStatus {
	status := domain.HealthHealthy
	for _, c := range checks {
		if c.Status != domain.CheckFail {
			continue
		}
		if c.Name == "database" {
			return domain.HealthUnhealthy
		}
		status = domain.HealthDegraded
	}
	return status
}

func missingSettings(settings map[string]bool) []string {
	var missing []string
	for name, present := range settings {
		if !present {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

func readMemory() domain.MemoryUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := domain.MemoryUsage{
		UsedMB:  m.HeapAlloc >> 20,
		TotalMB: m.HeapSys >> 20,
	}
	if m.HeapSys > 0 {
		usage.Percentage = int(m.HeapAlloc * 100 / m.HeapSys)
	}
	return usage
}
