package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/dto"
	"portfolio-service/internal/core/domain"
)

const multipartMemory = 32 << 20

func (h *Handler) Upload(c *gin.Context) {
	if h.opts.MaxUploadBytes > 0 {
		if c.Request.ContentLength > h.opts.MaxUploadBytes {
			mapDomainError(c, domain.ErrFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			mapDomainError(c, err)
			return
		}
		mapDomainError(c, domain.ErrNoFiles)
		return
	}

	headers := formFiles(c.Request.MultipartForm)
	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		file, err := readUpload(fh)
		if err != nil {
			log.WithError(err).WithField("file", fh.Filename).Error("read upload failed")
			mapDomainError(c, err)
			return
		}
		files = append(files, file)
	}

	results, err := h.uploadSvc.Upload(c.Request.Context(), files)
	if errors.Is(err, domain.ErrAllUploadsFailed) {
		c.JSON(http.StatusBadRequest, dto.ToUploadErrorResponse(results, err))
		return
	}
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUploadResponse(results, h.uploadSvc.StorageKind()))
}

// formFiles returns the "file" field when present and every "files" entry
// otherwise.
func formFiles(form *multipart.Form) []*multipart.FileHeader {
	if form == nil {
		return nil
	}
	if single := form.File["file"]; len(single) > 0 {
		return single[:1]
	}
	return form.File["files"]
}

func readUpload(fh *multipart.FileHeader) (domain.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return domain.UploadFile{
		Name:         fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Size:         fh.Size,
		Data:         data,
	}, nil
}
