package errorlog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"portfolio-service/internal/config"
	"portfolio-service/internal/core/domain"
)

// Sink appends client error reports as JSON lines to one file per UTC day:
// <dir>/errors-YYYY-MM-DD.jsonl.
type Sink struct {
	dir string

	mu     sync.Mutex
	day    string
	file   *os.File
	logger *zap.Logger
}

func NewSink(cfg *config.ErrorLogConfig) *Sink {
	return &Sink{dir: cfg.Dir}
}

func (s *Sink) Write(ctx context.Context, report *domain.ErrorReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	day := report.SavedAt.UTC().Format("2006-01-02")
	if day != s.day || s.logger == nil {
		if err := s.rotate(day); err != nil {
			return err
		}
	}

	s.logger.Error(report.Message, reportFields(report)...)
	return nil
}

// Close flushes and closes the current day's file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCurrent()
}

func (s *Sink) rotate(day string) error {
	if err := s.closeCurrent(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create error log dir: %w", err)
	}

	name := filepath.Join(s.dir, fmt.Sprintf("errors-%s.jsonl", day))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open error log %s: %w", name, err)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(f), zapcore.DebugLevel)
	s.file = f
	s.logger = zap.New(core)
	s.day = day
	return nil
}

func (s *Sink) closeCurrent() error {
	if s.file == nil {
		return nil
	}
	_ = s.logger.Sync()
	err := s.file.Close()
	s.file = nil
	s.logger = nil
	s.day = ""
	return err
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func reportFields(r *domain.ErrorReport) []zap.Field {
	fields := []zap.Field{
		zap.String("id", r.ID),
		zap.Time("savedAt", r.SavedAt.UTC()),
	}
	optional := []struct {
		key, value string
	}{
		{"stack", r.Stack},
		{"componentStack", r.ComponentStack},
		{"timestamp", r.Timestamp},
		{"url", r.URL},
		{"userAgent", r.UserAgent},
		{"type", r.Type},
		{"clientIp", r.ClientIP},
	}
	for _, o := range optional {
		if o.value != "" {
			fields = append(fields, zap.String(o.key, o.value))
		}
	}
	if len(r.AdditionalInfo) > 0 {
		fields = append(fields, zap.Any("additionalInfo", r.AdditionalInfo))
	}
	return fields
}
