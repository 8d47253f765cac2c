package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/internal/domain/entity"
	"github.com/eadebayo/delicioso/pkg/response"
)

// principalKey is the gin context key the auth middleware stores the
// resolved *entity.User under.
const principalKey = "principal"

func principalFrom(c *gin.Context) *entity.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// fail maps a service error to its HTTP status. Anything outside the
// service taxonomy is reported as an internal error without detail.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "not allowed", nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, application.ErrDuplicateReview):
		response.Error[any](c, http.StatusConflict, "store already reviewed", nil)
	case errors.Is(err, application.ErrInvalidResetToken):
		response.Error[any](c, http.StatusBadRequest, "reset token is invalid or has expired", nil)
	case errors.Is(err, application.ErrInvalidQuery):
		response.Error[any](c, http.StatusBadRequest, "invalid query parameters", nil)
	case errors.Is(err, application.ErrTagsRequired):
		response.Error[any](c, http.StatusBadRequest, "at least one tag is required", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func userView(u *entity.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"photo":      u.Photo,
		"gravatar":   u.Gravatar(),
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

func storeView(s *entity.Store) gin.H {
	return gin.H{
		"id":               s.ID,
		"name":             s.Name,
		"slug":             s.Slug,
		"description":      s.Description,
		"tags":             s.Tags,
		"ratings_average":  s.RatingsAverage,
		"ratings_quantity": s.RatingsQuantity,
		"photo":            s.Photo,
		"location": gin.H{
			"lng":     s.Location.Lng,
			"lat":     s.Location.Lat,
			"address": s.Location.Address,
		},
		"author_id":  s.AuthorID,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
}

func storeViews(stores []*entity.Store) []gin.H {
	out := make([]gin.H, 0, len(stores))
	for _, s := range stores {
		out = append(out, storeView(s))
	}
	return out
}

func reviewView(r *entity.Review) gin.H {
	return gin.H{
		"id":         r.ID,
		"text":       r.Text,
		"rating":     r.Rating,
		"store_id":   r.StoreID,
		"author_id":  r.AuthorID,
		"created_at": r.CreatedAt,
	}
}

func reviewViews(reviews []*entity.Review) []gin.H {
	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, reviewView(r))
	}
	return out
}
