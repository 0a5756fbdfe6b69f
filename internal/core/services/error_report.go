package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

type ErrorReportService struct {
	sink ports.ErrorReportSink
	now  func() time.Time
}

func NewErrorReportService(sink ports.ErrorReportSink) *ErrorReportService {
	return &ErrorReportService{sink: sink, now: time.Now}
}

// Record stores a client-side error report and returns its id.
func (s *ErrorReportService) Record(ctx context.Context, report *domain.ErrorReport) (string, error) {
	if report == nil || strings.TrimSpace(report.Message) == "" {
		return "", domain.ErrInvalidErrorReport
	}

	if strings.TrimSpace(report.ID) == "" {
		report.ID = "err_" + uuid.NewString()
	}
	report.SavedAt = s.now().UTC()

	if err := s.sink.Write(ctx, report); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"error_id": report.ID,
		"type":     report.Type,
		"url":      report.URL,
	}).Warn("client error reported")

	return report.ID, nil
}
