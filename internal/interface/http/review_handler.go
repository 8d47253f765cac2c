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

type ReviewHandler struct {
	Svc    *application.ReviewService
	Logger *logrus.Logger
}

func NewReviewHandler(svc *application.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{Svc: svc, Logger: logger}
}

type createReviewRequest struct {
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

type updateReviewRequest struct {
	Text   *string `json:"text"`
	Rating *int    `json:"rating" binding:"omitempty,min=1,max=5"`
}

// Create posts a review on the store in the path. The review write and the
// rating recompute are separate steps; when only the recompute fails the
// review is still acknowledged and the aggregate catches up on the next
// mutation.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.Create(c.Request.Context(), principalFrom(c), c.Param("id"), req.Text, req.Rating)
	if err != nil {
		if r != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).WithField("store_id", r.StoreID).Warn("rating recompute deferred")
			}
			response.Success(c, http.StatusCreated, reviewView(r), "review created, ratings refresh pending", nil)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, reviewView(r), "review created", nil)
}

func (h *ReviewHandler) ListByStore(c *gin.Context) {
	reviews, err := h.Svc.ListByStore(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviewViews(reviews), "reviews", gin.H{"count": len(reviews)})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	r, err := h.Svc.Update(c.Request.Context(), principalFrom(c), c.Param("id"), repository.UpdateReviewInput{Text: req.Text, Rating: req.Rating})
	if err != nil {
		if r != nil {
			response.Success(c, http.StatusOK, reviewView(r), "review updated, ratings refresh pending", nil)
			return
		}
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviewView(r), "review updated", nil)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "review deleted", nil)
}
