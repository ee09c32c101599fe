package resumes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes. tailorGuards run before the tailoring endpoint.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, tailorGuards ...gin.HandlerFunc) {
	grp := rg.Group("/resumes")
	chain := append(append([]gin.HandlerFunc{}, tailorGuards...), h.create)
	grp.POST("", chain...)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.PATCH("/:id", h.update)
	grp.DELETE("/:id", h.remove)
}

type updateRequest struct {
	IsActive *bool `json:"isActive"`
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	c.Set("profileId", in.ProfileID)
	res, err := h.Svc.Tailor(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("resumeId", res.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"resume": res})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"resumes": items})
}

func (h *Handler) get(c *gin.Context) {
	c.Set("resumeId", c.Param("id"))
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "isActive is required")
		return
	}
	c.Set("resumeId", c.Param("id"))
	res, err := h.Svc.SetActive(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), *req.IsActive)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"resume": res})
}

func (h *Handler) remove(c *gin.Context) {
	c.Set("resumeId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
