package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"portfolio-service/internal/core/domain"
	"portfolio-service/internal/core/ports/output"
)

var (
	allowedImageTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/jpg":  {},
		"image/png":  {},
		"image/webp": {},
		"image/gif":  {},
	}
	allowedVideoTypes = map[string]struct{}{
		"video/mp4":       {},
		"video/mov":       {},
		"video/quicktime": {},
		"video/avi":       {},
		"video/x-msvideo": {},
		"video/webm":      {},
	}
)

type UploadLimits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
	Concurrency   int
}

type UploadService struct {
	cdn    ports.MediaStorage
	local  ports.MediaStorage
	limits UploadLimits
}

// NewUploadService wires the upload pipeline. cdn may be nil, in which case
// every file goes to local storage.
func NewUploadService(cdn, local ports.MediaStorage, limits UploadLimits) *UploadService {
	if limits.Concurrency <= 0 {
		limits.Concurrency = 1
	}
	return &UploadService{cdn: cdn, local: local, limits: limits}
}

// StorageKind reports the primary backend new uploads are sent to.
func (s *UploadService) StorageKind() domain.StorageType {
	if s.cdn != nil {
		return s.cdn.Kind()
	}
	return s.local.Kind()
}

// Upload validates and stores every file. Per-file failures are reported in
// the results; the returned error is set only when nothing was stored.
func (s *UploadService) Upload(ctx context.Context, files []domain.UploadFile) ([]domain.UploadResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	results := make([]domain.UploadResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limits.Concurrency)
	for i := range files {
		g.Go(func() error {
			results[i] = s.uploadOne(gctx, files[i])
			return nil
		})
	}
	_ = g.Wait()

	ok := 0
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			log.WithError(r.Err).WithField("file", r.OriginalName).Warn("file upload failed")
		}
	}

	log.WithFields(log.Fields{
		"succeeded": ok,
		"failed":    len(results) - ok,
		"storage":   s.StorageKind(),
	}).Info("upload batch finished")

	if ok == 0 {
		return results, domain.ErrAllUploadsFailed
	}
	return results, nil
}

func (s *UploadService) uploadOne(ctx context.Context, file domain.UploadFile) domain.UploadResult {
	res := domain.UploadResult{OriginalName: file.Name}

	mimeType := detectMimeType(file)
	res.MimeType = mimeType

	kind, err := s.classify(mimeType, fileSize(file))
	if err != nil {
		res.Err = err
		return res
	}
	res.Type = kind

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if s.cdn != nil {
		obj, err := s.cdn.Store(ctx, file, kind, mimeType)
		if err == nil {
			res.Object = obj
			return res
		}
		log.WithError(err).WithField("file", file.Name).Warn("cdn upload failed, storing locally")
	}

	obj, err := s.local.Store(ctx, file, kind, mimeType)
	if err != nil {
		res.Err = err
		return res
	}
	res.Object = obj
	return res
}

func (s *UploadService) classify(mimeType string, size int64) (domain.MediaType, error) {
	var (
		kind  domain.MediaType
		limit int64
	)
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		if _, ok := allowedImageTypes[mimeType]; !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mimeType)
		}
		kind, limit = domain.MediaTypeImage, s.limits.MaxImageBytes
	case strings.HasPrefix(mimeType, "video/"):
		if _, ok := allowedVideoTypes[mimeType]; !ok {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mimeType)
		}
		kind, limit = domain.MediaTypeVideo, s.limits.MaxVideoBytes
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, mimeType)
	}

	if limit > 0 && size > limit {
		return "", fmt.Errorf("%w: max %dMB", domain.ErrFileTooLarge, limit>>20)
	}
	return kind, nil
}

// detectMimeType sniffs the payload; the browser-declared type is used only
// when the bytes are not recognised.
func detectMimeType(file domain.UploadFile) string {
	detected := mimetype.Detect(file.Data).String()
	detected, _, _ = strings.Cut(detected, ";")
	detected = strings.TrimSpace(detected)
	if detected != "" && detected != "application/octet-stream" {
		return detected
	}
	declared, _, _ := strings.Cut(file.DeclaredType, ";")
	return strings.ToLower(strings.TrimSpace(declared))
}

func fileSize(file domain.UploadFile) int64 {
	if n := int64(len(file.Data)); n > file.Size {
		return n
	}
	return file.Size
}
