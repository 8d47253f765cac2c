package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/pkg/response"
)

type SearchHandler struct {
	Svc    *application.SearchService
	Logger *logrus.Logger
}

func NewSearchHandler(svc *application.SearchService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{Svc: svc, Logger: logger}
}

// Text is GET /stores/search?q=...
func (h *SearchHandler) Text(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Svc.Text(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

// Near is GET /stores/near?lng=..&lat=..&radius=.. — the map projection.
func (h *SearchHandler) Near(c *gin.Context) {
	stores, err := h.Svc.Near(c.Request.Context(), c.Query("lng"), c.Query("lat"), c.Query("radius"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "stores nearby", gin.H{"count": len(stores)})
}

// Within is GET /stores/within/:distance/center/:latlng/unit/:unit.
func (h *SearchHandler) Within(c *gin.Context) {
	stores, err := h.Svc.Within(c.Request.Context(), c.Param("distance"), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, storeViews(stores), "stores within radius", gin.H{"count": len(stores)})
}

// Distances is GET /stores/distances/:latlng/unit/:unit.
func (h *SearchHandler) Distances(c *gin.Context) {
	out, err := h.Svc.Distances(c.Request.Context(), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "store distances", gin.H{"count": len(out)})
}
