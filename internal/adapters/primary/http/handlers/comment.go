package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/dto"
)

func (h *Handler) ListComments(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	comments, err := h.commentSvc.List(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		items = append(items, dto.ToCommentResponse(cm))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comments": items})
}

func (h *Handler) AddComment(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	comment, err := h.commentSvc.Add(c.Request.Context(), id, req.Name, req.Message, req.Rating)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": dto.ToCommentResponse(comment),
	})
}

func (h *Handler) DeleteComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid comment id"})
		return
	}

	if err := h.commentSvc.Delete(c.Request.Context(), id); err != nil {
		log.WithError(err).WithField("comment_id", id).Error("delete comment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "comment deleted"})
}
