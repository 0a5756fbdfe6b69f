package ports

import (
	"context"

	"portfolio-service/internal/core/domain"
)

type ErrorReportSink interface {
	Write(ctx context.Context, report *domain.ErrorReport) error
}
