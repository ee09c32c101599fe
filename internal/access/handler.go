package access

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/resumedoc"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Handler struct {
	Svc        *Service
	LandingURL string
}

func NewHandler(svc *Service, landingURL string) *Handler {
	return &Handler{Svc: svc, LandingURL: landingURL}
}

// RegisterPage attaches the HTML page at /r/:slug.
func (h *Handler) RegisterPage(r gin.IRoutes) {
	r.GET("/r/:slug", h.page)
}

// RegisterAPI attaches the JSON variant under the given group.
func (h *Handler) RegisterAPI(rg *gin.RouterGroup) {
	rg.GET("/public/resumes/:slug", h.api)
}

type publicResume struct {
	Slug      string             `json:"slug"`
	JobTitle  string             `json:"jobTitle"`
	Content   resumedoc.Document `json:"content"`
	CreatedAt string             `json:"createdAt"`
}

func (h *Handler) page(c *gin.Context) {
	slug := c.Param("slug")
	c.Set("slug", slug)
	d, err := h.Svc.Resolve(c.Request.Context(), slug)
	if err != nil {
		telemetry.Error("access.resolve_failed", map[string]any{"slug": slug, "error": err.Error()})
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Set("visibility", string(d.Visibility))

	switch d.Visibility {
	case Visible:
		h.render(c, http.StatusOK, "resume.html", gin.H{"Doc": d.Resume.Content})
	case Gated:
		c.Redirect(http.StatusFound, h.LandingURL)
	default:
		h.render(c, http.StatusNotFound, "not_found.html", gin.H{"LandingURL": h.LandingURL})
	}
}

func (h *Handler) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		telemetry.Error("access.render_failed", map[string]any{"template": name, "error": err.Error()})
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) api(c *gin.Context) {
	slug := c.Param("slug")
	c.Set("slug", slug)
	d, err := h.Svc.Resolve(c.Request.Context(), slug)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	c.Set("visibility", string(d.Visibility))
	c.Header("Cache-Control", "no-store")

	switch d.Visibility {
	case Visible:
		respond.OK(c, gin.H{"resume": publicResume{
			Slug:      d.Resume.PublicLinkSlug,
			JobTitle:  d.Resume.JobTitle,
			Content:   d.Resume.Content,
			CreatedAt: d.Resume.CreatedAt.UTC().Format(time.RFC3339),
		}})
	case Gated:
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
			"error":       "This resume is not publicly available",
			"code":        "subscription_required",
			"redirectUrl": h.LandingURL,
		})
	default:
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
	}
}
