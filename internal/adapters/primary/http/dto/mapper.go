package dto

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"portfolio-service/internal/core/domain"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ============================================================================
// Projects
// ============================================================================

func ToProjectResponse(p *domain.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Location:        p.Location,
		CompletionDate:  formatTime(p.CompletionDate),
		Client:          p.Client,
		Featured:        p.Featured,
		ProjectDuration: p.ProjectDuration,
		ProjectCost:     p.ProjectCost,
		Views:           p.Views,
		Likes:           p.Likes,
		Rating:          p.Rating,
		CreatedAt:       formatTime(p.CreatedAt),
		UpdatedAt:       formatTime(p.UpdatedAt),
		MediaItems:      make([]MediaItemResponse, 0, len(p.MediaItems)),
		Tags:            make([]NameResponse, 0, len(p.Tags)),
		Materials:       make([]NameResponse, 0, len(p.Materials)),
		Count: CountResponse{
			Comments:   p.CommentCount,
			MediaItems: p.MediaCount,
		},
	}

	for _, m := range p.MediaItems {
		resp.MediaItems = append(resp.MediaItems, MediaItemResponse{
			ID:          m.ID,
			Type:        string(m.Type),
			Src:         m.Src,
			Thumbnail:   m.Thumbnail,
			Title:       m.Title,
			Description: m.Description,
			Duration:    m.Duration,
			Order:       m.Order,
		})
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, NameResponse{ID: t.ID, Name: t.Name})
	}
	for _, m := range p.Materials {
		resp.Materials = append(resp.Materials, NameResponse{ID: m.ID, Name: m.Name})
	}
	if p.Comments != nil {
		resp.Comments = ToCommentResponses(p.Comments)
	}
	return resp
}

func ToProjectResponses(projects []*domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}

func ToCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Name:      c.Name,
		Message:   c.Message,
		Rating:    c.Rating,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func ToCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}
	return out
}

// ============================================================================
// Auth
// ============================================================================

func ToAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{ID: a.ID, Username: a.Username, Email: a.Email}
}

func ToSessionInfo(s domain.Session, now time.Time) SessionInfo {
	remaining := s.Remaining(now).Hours()
	return SessionInfo{
		LoginTime:      formatTime(s.IssuedAt),
		ExpiresAt:      formatTime(s.ExpiresAt),
		RemainingHours: math.Round(remaining*10) / 10,
	}
}

// ============================================================================
// Uploads
// ============================================================================

// ToUploadResponse splits results into stored files and warnings for the
// ones that failed or did not land on the primary storage. storage_type
// reports the backend that actually holds the files when every one of them
// fell back.
func ToUploadResponse(results []domain.UploadResult, storage domain.StorageType) UploadResponse {
	resp := UploadResponse{
		Success:     true,
		Files:       make([]UploadedFileResponse, 0, len(results)),
		StorageType: string(storage),
	}
	fallbacks := 0
	for _, r := range results {
		if !r.OK() {
			resp.Warnings = append(resp.Warnings, r.OriginalName+": "+errorText(r.Err))
			continue
		}
		if r.Object.Storage != "" && r.Object.Storage != storage {
			fallbacks++
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %s upload failed, stored in %s storage", r.OriginalName, storage, r.Object.Storage))
		}
		resp.Files = append(resp.Files, ToUploadedFileResponse(r))
	}
	resp.Count = len(resp.Files)
	if resp.Count > 0 && fallbacks == resp.Count {
		resp.StorageType = resp.Files[0].StorageType
	}
	resp.Message = uploadMessage(resp.Count, len(results))
	return resp
}

func ToUploadedFileResponse(r domain.UploadResult) UploadedFileResponse {
	obj := r.Object
	thumb := obj.Thumbnail
	if thumb == "" && r.Type == domain.MediaTypeImage {
		thumb = obj.URL
	}
	return UploadedFileResponse{
		OriginalName: r.OriginalName,
		FileName:     obj.FileName,
		Src:          obj.URL,
		URL:          obj.URL,
		Type:         string(r.Type),
		Size:         obj.Size,
		MimeType:     r.MimeType,
		Width:        obj.Width,
		Height:       obj.Height,
		Duration:     obj.Duration,
		PublicID:     obj.PublicID,
		Thumbnail:    thumb,
		StorageType:  string(obj.Storage),
	}
}

func ToUploadErrorResponse(results []domain.UploadResult, err error) UploadErrorResponse {
	resp := UploadErrorResponse{
		Error:       err.Error(),
		Details:     []string{},
		FailedFiles: []FailedFileResponse{},
	}
	for _, r := range results {
		if r.OK() {
			continue
		}
		resp.Details = append(resp.Details, r.OriginalName+": "+errorText(r.Err))
		resp.FailedFiles = append(resp.FailedFiles, FailedFileResponse{
			OriginalName: r.OriginalName,
			Error:        errorText(r.Err),
		})
	}
	return resp
}

func uploadMessage(ok, total int) string {
	if ok == total {
		return pluralFiles(ok) + " uploaded successfully"
	}
	return pluralFiles(ok) + " uploaded, " + pluralFiles(total-ok) + " failed"
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return strconv.Itoa(n) + " files"
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// ============================================================================
// Health
// ============================================================================

// ToHealthResponse renders a report. Without detailed the memory figures,
// individual checks and CDN cloud name are left out.
func ToHealthResponse(r *domain.HealthReport, detailed bool) HealthResponse {
	resp := HealthResponse{
		Status:      string(r.Status),
		Timestamp:   formatTime(r.Timestamp),
		Version:     r.Version,
		Environment: r.Environment,
		Uptime:      int64(r.Uptime.Seconds()),
		CDN:         CDNStatusResponse{Status: "not_configured"},
	}

	if r.Database.Connected {
		resp.Database.Status = "connected"
	} else {
		resp.Database.Status = "error"
	}
	if r.CDNConfigured {
		resp.CDN.Status = "configured"
	}

	if !detailed {
		return resp
	}

	latency := r.Database.Latency.Milliseconds()
	resp.Database.LatencyMs = &latency
	resp.Database.Error = r.Database.Error
	resp.CDN.CloudName = r.CDNCloudName
	resp.Memory = &MemoryResponse{
		Used:       r.Memory.UsedMB,
		Total:      r.Memory.TotalMB,
		Percentage: r.Memory.Percentage,
	}
	for _, check := range r.Checks {
		d := check.Duration.Milliseconds()
		resp.Checks = append(resp.Checks, CheckResponse{
			Name:       check.Name,
			Status:     string(check.Status),
			Message:    check.Message,
			DurationMs: &d,
		})
	}
	return resp
}

func ToDeepHealthResponse(r *domain.DeepHealthReport) DeepHealthResponse {
	return DeepHealthResponse{
		Status:       string(r.Status),
		Timestamp:    formatTime(r.Timestamp),
		Deep:         true,
		ProjectCount: r.ProjectCount,
		DurationMs:   r.Duration.Milliseconds(),
		Error:        r.Error,
	}
}

func ToDBStatusResponse(s *domain.DBStatus) DBStatusResponse {
	resp := DBStatusResponse{
		Success:      s.Connected,
		Status:       "disconnected",
		ProjectCount: s.ProjectCount,
		Error:        s.Error,
	}
	if s.Connected {
		resp.Status = "connected"
	}
	if s.SampleProject != nil {
		resp.SampleProject = &ProjectSummaryResponse{
			ID:         s.SampleProject.ID,
			Title:      s.SampleProject.Title,
			Category:   s.SampleProject.Category,
			MediaCount: s.SampleProject.MediaCount,
		}
	}
	return resp
}

// ============================================================================
// Error reports
// ============================================================================

func (r *ErrorReportRequest) ToDomain(clientIP string) *domain.ErrorReport {
	return &domain.ErrorReport{
		ID:             r.ErrorID,
		Message:        r.Message,
		Stack:          r.Stack,
		ComponentStack: r.ComponentStack,
		Timestamp:      r.Timestamp,
		URL:            r.URL,
		UserAgent:      r.UserAgent,
		Type:           r.Type,
		AdditionalInfo: r.AdditionalInfo,
		ClientIP:       clientIP,
	}
}
