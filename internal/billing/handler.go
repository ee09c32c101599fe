package billing

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// maxWebhookBytes bounds the webhook body read.
const maxWebhookBytes = 64 << 10

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the authenticated billing routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	grp := rg.Group("/billing")
	grp.POST("/checkout", h.checkout)
	grp.GET("/subscription", h.subscription)
}

// RegisterWebhook attaches the provider webhook, which carries no session.
func (h *Handler) RegisterWebhook(rg *gin.RouterGroup) {
	rg.POST("/billing/webhook", h.webhook)
}

func (h *Handler) checkout(c *gin.Context) {
	url, err := h.Svc.Checkout(c.Request.Context(), middleware.UserIDFromContext(c), middleware.UserEmailFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"url": url})
}

func (h *Handler) subscription(c *gin.Context) {
	sub, err := h.Svc.Subscription(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"subscription": sub})
}

func (h *Handler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read body")
		return
	}
	if err := h.Svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"received": true})
}
