package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/dto"
	"portfolio-service/internal/adapters/primary/http/middleware"
	"portfolio-service/internal/core/domain"
)

func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mapDomainError(c, domain.ErrMissingCredentials)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"username":  req.Username,
			"client_ip": c.ClientIP(),
		}).Warn("admin login failed")
		mapDomainError(c, err)
		return
	}

	maxAge := int(h.authSvc.SessionTTL().Seconds())
	h.setCookie(c, h.opts.SessionCookie, result.Token, maxAge, true)
	h.setCookie(c, loggedInCookie, "true", maxAge, false)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "login successful",
		Admin:   dto.ToAdminResponse(result.Admin),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, h.opts.SessionCookie, "", -1, true)
	h.setCookie(c, loggedInCookie, "", -1, false)

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "logged out"})
}

func (h *Handler) CheckSession(c *gin.Context) {
	token, _ := c.Cookie(h.opts.SessionCookie)

	session, err := h.authSvc.CheckSession(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.CheckSessionResponse{
			Success:       false,
			Authenticated: false,
			Message:       err.Error(),
		})
		return
	}

	info := dto.ToSessionInfo(session, h.now())
	c.JSON(http.StatusOK, dto.CheckSessionResponse{
		Success:       true,
		Authenticated: true,
		Admin: &dto.AdminResponse{
			ID:       session.AdminID,
			Username: session.Username,
		},
		Session: &info,
	})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	session, ok := middleware.AdminSession(c)
	if !ok {
		mapDomainError(c, domain.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "currentPassword and newPassword are required"})
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), session.AdminID, req.CurrentPassword, req.NewPassword); err != nil {
		log.WithError(err).WithField("admin_id", session.AdminID).Warn("change password failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "password updated"})
}

func (h *Handler) SetupAdmin(c *gin.Context) {
	admin, err := h.authSvc.SetupAdmin(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	log.WithField("admin_id", admin.ID).Info("initial admin created")

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "admin account created",
		"admin":   dto.ToAdminResponse(admin),
	})
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.opts.SecureCookies, httpOnly)
}
