package localstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"portfolio-service/internal/config"
	"portfolio-service/internal/core/domain"
	ports "portfolio-service/internal/core/ports/output"
)

type localStore struct {
	dir        string
	publicPath string
	now        func() time.Time
}

// NewLocalStore returns a MediaStorage that writes files under cfg.LocalDir
// and serves them from cfg.PublicPath.
func NewLocalStore(cfg *config.UploadConfig) ports.MediaStorage {
	publicPath := "/" + strings.Trim(cfg.PublicPath, "/")
	return &localStore{
		dir:        cfg.LocalDir,
		publicPath: publicPath,
		now:        time.Now,
	}
}

func (s *localStore) Kind() domain.StorageType {
	return domain.StorageLocal
}

func (s *localStore) Store(ctx context.Context, file domain.UploadFile, kind domain.MediaType, mimeType string) (*domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrStorageUnavailable, err)
	}

	name := fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], extensionFor(file.Name, mimeType))
	target := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(file.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: close %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: chmod %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("%w: rename %s: %v", domain.ErrStorageUnavailable, name, err)
	}

	return &domain.StoredObject{
		FileName: name,
		URL:      path.Join(s.publicPath, name),
		Size:     int64(len(file.Data)),
		Storage:  domain.StorageLocal,
	}, nil
}

// extensionFor keeps the client's extension when present, otherwise derives
// one from the sniffed MIME type.
func extensionFor(name, mimeType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return m.Extension()
	}
	return ""
}
