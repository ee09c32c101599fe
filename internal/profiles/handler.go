package profiles

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches profile routes. importGuards run before the ingestion endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, importGuards ...gin.HandlerFunc) {
	grp := rg.Group("/profiles")
	grp.POST("/import", guarded(importGuards, h.importProfile)...)
	grp.POST("/import/pdf", guarded(importGuards, h.importDocument)...)
	grp.POST("/manual", h.createManual)
	grp.GET("", h.list)
	grp.GET("/:id", h.get)
	grp.PATCH("/:id", h.update)
	grp.DELETE("/:id", h.remove)
}

func guarded(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}

func (h *Handler) importProfile(c *gin.Context) {
	var in ImportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	p, err := h.Svc.Import(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("profileId", p.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"profile": p})
}

func (h *Handler) importDocument(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxUploadBytes+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10 MB limit")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	if fileHeader.Size > extract.MaxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the 10 MB limit")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, extract.MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read upload")
		return
	}

	p, err := h.Svc.ImportDocument(c.Request.Context(), middleware.UserIDFromContext(c), Document{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("profileId", p.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"profile": p})
}

func (h *Handler) createManual(c *gin.Context) {
	var in ManualInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	p, err := h.Svc.CreateManual(c.Request.Context(), middleware.UserIDFromContext(c), middleware.UserEmailFromContext(c), in)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("profileId", p.ID)
	respond.JSON(c, http.StatusCreated, gin.H{"profile": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"profiles": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("profileId", p.ID)
	respond.OK(c, gin.H{"profile": p})
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	c.Set("profileId", c.Param("id"))
	p, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), patch)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"profile": p})
}

func (h *Handler) remove(c *gin.Context) {
	c.Set("profileId", c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		respond.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
