package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/middleware"
	"resume-vault/internal/shared/server/respond"
)

// Handler exposes user endpoints.
type Handler struct {
	Svc *Service
}

// RegisterRoutes mounts the user routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "could not load user", nil)
		return
	}

	respond.OK(c, user)
}
