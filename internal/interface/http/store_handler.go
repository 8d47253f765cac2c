package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/internal/domain/repository"
	"github.com/eadebayo/delicioso/pkg/response"
	"github.com/eadebayo/delicioso/pkg/validation"
)

const defaultPageSize = 20

type StoreHandler struct {
	Svc     *application.StoreService
	Reviews *application.ReviewService
	Logger  *logrus.Logger
}

func NewStoreHandler(svc *application.StoreService, reviews *application.ReviewService, logger *logrus.Logger) *StoreHandler {
	return &StoreHandler{Svc: svc, Reviews: reviews, Logger: logger}
}

type locationRequest struct {
	Lng     float64 `json:"lng" binding:"min=-180,max=180"`
	Lat     float64 `json:"lat" binding:"min=-90,max=90"`
	Address string  `json:"address"`
}

type createStoreRequest struct {
	Name        string          `json:"name" binding:"required,storename"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags" binding:"required,min=1,dive,required"`
	Location    locationRequest `json:"location" binding:"required"`
	Photo       string          `json:"photo"`
}

// Tags: omitempty lets a request leave tags alone, but an explicit empty
// set still fails the non-empty check in the service.
type updateStoreRequest struct {
	Name        *string          `json:"name" binding:"omitempty,storename"`
	Description *string          `json:"description"`
	Tags        []string         `json:"tags" binding:"omitempty,min=1,dive,required"`
	Location    *locationRequest `json:"location"`
	Photo       *string          `json:"photo"`
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	st, err := h.Svc.Create(c.Request.Context(), principalFrom(c), application.CreateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Location:    entity.Location{Lng: req.Location.Lng, Lat: req.Location.Lat, Address: req.Location.Address},
		Photo:       req.Photo,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, storeView(st), "store created", nil)
}

func (h *StoreHandler) List(c *gin.Context) {
	limit := intQuery(c, "limit", defaultPageSize)
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	stores, err := h.Svc.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "stores", gin.H{"page": page, "limit": limit})
}

func (h *StoreHandler) Get(c *gin.Context) {
	st, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeView(st), "store", nil)
}

// GetBySlug also inlines the store's reviews, the detail page needs both.
func (h *StoreHandler) GetBySlug(c *gin.Context) {
	st, err := h.Svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	reviews, err := h.Reviews.ListByStore(c.Request.Context(), st.ID)
	if err != nil {
		fail(c, err)
		return
	}
	view := storeView(st)
	view["reviews"] = reviewViews(reviews)
	response.Success(c, http.StatusOK, view, "store", nil)
}

func (h *StoreHandler) Update(c *gin.Context) {
	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := repository.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Photo:       req.Photo,
	}
	if req.Location != nil {
		in.Location = &entity.Location{Lng: req.Location.Lng, Lat: req.Location.Lat, Address: req.Location.Address}
	}
	st, err := h.Svc.Update(c.Request.Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeView(st), "store updated", nil)
}

func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "store deleted", nil)
}

func (h *StoreHandler) ListByTag(c *gin.Context) {
	tag := c.Param("tag")
	stores, err := h.Svc.ListByTag(c.Request.Context(), tag)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "stores tagged "+tag, gin.H{"count": len(stores)})
}

func (h *StoreHandler) TagCounts(c *gin.Context) {
	tags, err := h.Svc.TagCounts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags, "tags", nil)
}

func (h *StoreHandler) TopRated(c *gin.Context) {
	stores, err := h.Svc.TopRated(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "top stores", nil)
}

// StatsByAuthor is an admin report over highly rated stores.
func (h *StoreHandler) StatsByAuthor(c *gin.Context) {
	p := principalFrom(c)
	if p == nil || !p.IsAdmin() {
		response.Error[any](c, http.StatusForbidden, "not allowed", nil)
		return
	}
	stats, err := h.Svc.StatsByAuthor(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "author stats", nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
