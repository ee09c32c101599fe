package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches admin routes behind RequireAdmin.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/admin", middleware.RequireAdmin())
	grp.GET("/users", h.listUsers)
	grp.POST("/users/subscription", h.setSubscription)
}

func (h *Handler) listUsers(c *gin.Context) {
	rows, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"users": rows})
}

func (h *Handler) setSubscription(c *gin.Context) {
	var req SetSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	sub, err := h.Svc.SetSubscription(c.Request.Context(), req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	telemetry.Info("admin.subscription_set", map[string]any{
		"actor":  middleware.UserIDFromContext(c),
		"target": sub.UserID,
		"status": string(sub.Status),
	})
	respond.OK(c, gin.H{"subscription": sub})
}
