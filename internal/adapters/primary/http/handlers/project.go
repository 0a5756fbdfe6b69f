package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/dto"
	"portfolio-service/internal/core/services"
)

func (h *Handler) ListProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	query := services.ProjectQuery{
		Category:     c.Query("category"),
		FeaturedOnly: strings.EqualFold(c.Query("featured"), "true"),
		Sort:         c.Query("sort"),
		Limit:        limit,
		Page:         page,
	}

	result, err := h.projectSvc.List(c.Request.Context(), query)
	if err != nil {
		log.WithError(err).Error("list projects failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListProjectsResponse{
		Success:  true,
		Projects: dto.ToProjectResponses(result.Projects),
		Total:    result.Total,
		Pagination: dto.PaginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

func (h *Handler) FeaturedProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))

	start := h.now()
	projects, err := h.projectSvc.Featured(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("list featured projects failed")
		mapDomainError(c, err)
		return
	}
	elapsed := h.now().Sub(start)

	log.WithFields(log.Fields{
		"count":    len(projects),
		"query_ms": elapsed.Milliseconds(),
	}).Debug("featured projects loaded")

	c.JSON(http.StatusOK, dto.FeaturedProjectsResponse{
		Success:     true,
		Projects:    dto.ToProjectResponses(projects),
		Count:       len(projects),
		Performance: dto.PerformanceResponse{QueryTime: elapsed.Milliseconds()},
	})
}

func (h *Handler) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"project": dto.ToProjectResponse(project),
	})
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	in, err := req.ToInput()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), in)
	if err != nil {
		log.WithError(err).Error("create project failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "project created",
		"project": dto.ToProjectResponse(project),
	})
}

func (h *Handler) UpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	in, err := req.ToInput()
	if err != nil {
		mapDomainError(c, err)
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		log.WithError(err).WithField("project_id", id).Error("update project failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "project updated",
		"project": dto.ToProjectResponse(project),
	})
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Delete(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("project_id", id).Error("delete project failed")
		mapDomainError(c, err)
		return
	}

	deleted := dto.DeletedProjectResponse{ID: project.ID, Title: project.Title}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "project deleted",
		"deletedProject": deleted,
	})
}

func (h *Handler) LikeProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	likes, err := h.projectSvc.Like(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "likes": likes})
}

// projectID parses the :id path parameter and writes a 400 when it is not
// a UUID.
func projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project id"})
		return uuid.Nil, false
	}
	return id, true
}
