package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-service/internal/adapters/primary/http/middleware"
	"portfolio-service/internal/core/services"
)

const loggedInCookie = "admin-logged-in"

// Options carries the request-level settings handlers need from config.
type Options struct {
	SessionCookie  string
	SecureCookies  bool
	Production     bool
	HealthToken    string
	MaxUploadBytes int64
}

type Handler struct {
	projectSvc *services.ProjectService
	commentSvc *services.CommentService
	authSvc    *services.AuthService
	uploadSvc  *services.UploadService
	healthSvc  *services.HealthService
	reportSvc  *services.ErrorReportService
	opts       Options
	now        func() time.Time
}

func New(
	projectSvc *services.ProjectService,
	commentSvc *services.CommentService,
	authSvc *services.AuthService,
	uploadSvc *services.UploadService,
	healthSvc *services.HealthService,
	reportSvc *services.ErrorReportService,
	opts Options,
) *Handler {
	if opts.SessionCookie == "" {
		opts.SessionCookie = "admin-session"
	}
	return &Handler{
		projectSvc: projectSvc,
		commentSvc: commentSvc,
		authSvc:    authSvc,
		uploadSvc:  uploadSvc,
		healthSvc:  healthSvc,
		reportSvc:  reportSvc,
		opts:       opts,
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := middleware.RequireAdmin(h.authSvc, h.opts.SessionCookie)

	// Projects
	r.GET("/projects", h.ListProjects)
	r.GET("/projects/featured", h.FeaturedProjects)
	r.GET("/projects/:id", h.GetProject)
	r.POST("/projects", admin, h.CreateProject)
	r.PUT("/projects/:id", admin, h.UpdateProject)
	r.DELETE("/projects/:id", admin, h.DeleteProject)
	r.POST("/projects/:id/like", h.LikeProject)

	// Comments
	r.GET("/projects/:id/comments", h.ListComments)
	r.POST("/projects/:id/comments", h.AddComment)
	r.DELETE("/comments/:id", admin, h.DeleteComment)

	// Auth
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/check-session", h.CheckSession)
	r.POST("/auth/change-password", admin, h.ChangePassword)
	r.POST("/setup-admin", h.SetupAdmin)

	// Uploads
	r.POST("/upload", admin, h.Upload)

	// Diagnostics
	r.GET("/health-check", h.HealthCheck)
	r.POST("/health-check", h.DeepHealthCheck)
	r.GET("/db-status", h.DBStatus)
	r.POST("/error-report", h.ReportError)
}
