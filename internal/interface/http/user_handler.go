package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/internal/domain/repository"
	"github.com/eadebayo/delicioso/pkg/response"
	"github.com/eadebayo/delicioso/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), repository.UpdateUserInput{Name: req.Name, Email: req.Email})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "profile updated", nil)
}

// Deactivate soft-deletes the caller's own account and ends the session.
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), c.GetString("userID")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deactivated": true}, "account deactivated", nil)
}

func (h *UserHandler) ToggleHeart(c *gin.Context) {
	hearted, err := h.Svc.ToggleHeart(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"hearted": hearted}, "heart toggled", nil)
}

func (h *UserHandler) Hearts(c *gin.Context) {
	stores, err := h.Svc.HeartedStores(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "hearted stores", gin.H{"count": len(stores)})
}
