package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/dto"
	"portfolio-service/internal/core/domain"
)

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.healthSvc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	report := h.healthSvc.Report(c.Request.Context())
	status := http.StatusOK
	if report.Status == domain.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, dto.ToHealthResponse(report, h.detailsAllowed(c)))
}

func (h *Handler) DeepHealthCheck(c *gin.Context) {
	var req dto.DeepHealthRequest
	// An empty body is a plain health check.
	_ = c.ShouldBindJSON(&req)
	if !req.Deep {
		h.HealthCheck(c)
		return
	}

	c.Header("Cache-Control", "no-store")

	report := h.healthSvc.Deep(c.Request.Context())
	status := http.StatusOK
	if report.Status != domain.HealthHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.ToDeepHealthResponse(report))
}

func (h *Handler) DBStatus(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	result := h.healthSvc.DBStatus(c.Request.Context())
	status := http.StatusOK
	if !result.Connected {
		log.WithField("error", result.Error).Warn("db status check failed")
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.ToDBStatusResponse(result))
}

func (h *Handler) ReportError(c *gin.Context) {
	var req dto.ErrorReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapDomainError(c, domain.ErrInvalidErrorReport)
		return
	}

	id, err := h.reportSvc.Record(c.Request.Context(), req.ToDomain(c.ClientIP()))
	if err != nil {
		log.WithError(err).Error("record error report failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ErrorReportResponse{Success: true, ErrorID: id})
}

// detailsAllowed reports whether the caller may see memory, checks and CDN
// names. Outside production everyone may; in production only callers that
// present the health token.
func (h *Handler) detailsAllowed(c *gin.Context) bool {
	if !h.opts.Production {
		return true
	}
	if h.opts.HealthToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.opts.HealthToken)) == 1
}
