package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"portfolio-service/internal/config"
	"portfolio-service/internal/core/domain"
	ports "portfolio-service/internal/core/ports/output"
)

const (
	imageTransformation = "c_limit,w_1200,h_800,q_auto,f_auto"
	videoTransformation = "c_limit,w_1280,h_720,q_auto,br_1m"
	videoThumbnail      = "c_fill,h_200,w_300,so_0"
)

type cloudinaryClient struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
	now       func() time.Time
}

// NewCloudinaryClient returns a MediaStorage that performs signed uploads to
// Cloudinary.
func NewCloudinaryClient(cfg *config.CloudinaryConfig) ports.MediaStorage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &cloudinaryClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		folder:    cfg.Folder,
		client: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

func (c *cloudinaryClient) Kind() domain.StorageType {
	return domain.StorageCloudinary
}

// Cloudinary upload API response
type uploadResponse struct {
	PublicID  string   `json:"public_id"`
	SecureURL string   `json:"secure_url"`
	Bytes     int64    `json:"bytes"`
	Width     *int     `json:"width"`
	Height    *int     `json:"height"`
	Duration  *float64 `json:"duration"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *cloudinaryClient) Store(ctx context.Context, file domain.UploadFile, kind domain.MediaType, mimeType string) (*domain.StoredObject, error) {
	resource := "image"
	transformation := imageTransformation
	if kind == domain.MediaTypeVideo {
		resource = "video"
		transformation = videoTransformation
	}

	params := map[string]string{
		"folder":         c.folder,
		"timestamp":      strconv.FormatInt(c.now().Unix(), 10),
		"transformation": transformation,
	}

	body, contentType, err := c.multipartBody(params, file, mimeType)
	if err != nil {
		return nil, fmt.Errorf("build cloudinary request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode cloudinary response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != nil {
		msg := resp.Status
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("%w: cloudinary upload failed: %s", domain.ErrStorageUnavailable, msg)
	}

	obj := &domain.StoredObject{
		FileName: out.PublicID,
		URL:      out.SecureURL,
		Size:     out.Bytes,
		Width:    out.Width,
		Height:   out.Height,
		Duration: out.Duration,
		PublicID: out.PublicID,
		Storage:  domain.StorageCloudinary,
	}
	if kind == domain.MediaTypeVideo {
		obj.Thumbnail = VideoThumbnailURL(out.SecureURL)
	}
	return obj, nil
}

func (c *cloudinaryClient) multipartBody(params map[string]string, file domain.UploadFile, mimeType string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("api_key", c.apiKey); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("signature", Sign(params, c.apiSecret)); err != nil {
		return nil, "", err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, path.Base(file.Name)))
	h.Set("Content-Type", mimeType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Sign computes the upload signature: SHA-1 over the non-empty params sorted
// by key, joined as k=v with '&', followed by the API secret.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// VideoThumbnailURL derives a 300x200 JPEG poster frame URL from a video's
// delivery URL.
func VideoThumbnailURL(videoURL string) string {
	thumb := strings.Replace(videoURL, "/upload/", "/upload/"+videoThumbnail+"/", 1)
	if ext := path.Ext(thumb); ext != "" {
		thumb = strings.TrimSuffix(thumb, ext)
	}
	return thumb + ".jpg"
}
