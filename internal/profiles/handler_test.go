package profiles

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newProfilesRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _ := newTestService(t)
	router := gin.New()
	api := router.Group("/api/v1", func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Set("userEmail", "jane@example.com")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(api)
	return router, svc
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerImportText(t *testing.T) {
	router, _ := newProfilesRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/profiles/import", `{"profileText":"John Doe, engineer"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Profile Profile `json:"profile"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Profile.ID == "" || body.Profile.FullName != "John Doe" {
		t.Fatalf("unexpected profile: %+v", body.Profile)
	}
	if strings.Contains(resp.Body.String(), "John Doe, engineer") {
		t.Fatalf("raw source leaked into response")
	}
}

func TestHandlerImportRequiresInput(t *testing.T) {
	router, _ := newProfilesRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/profiles/import", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"validation_error"`) {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestHandlerImportGuardsRunFirst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, st, _ := newTestService(t)
	router := gin.New()
	blocked := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"), blocked)

	resp := doJSON(router, http.MethodPost, "/api/v1/profiles/import", `{"profileText":"x"}`)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if st.calls != 0 {
		t.Fatalf("structurer should not run")
	}
	// Non-ingestion routes are not guarded.
	resp = doJSON(router, http.MethodGet, "/api/v1/profiles", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestHandlerImportDocumentMultipart(t *testing.T) {
	router, _ := newProfilesRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "cv.docx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	_, _ = fw.Write(docxBytes(t, "Jane Doe Engineer"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/profiles/import/pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHandlerImportDocumentMissingFile(t *testing.T) {
	router, _ := newProfilesRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/profiles/import/pdf", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerPatchConflict(t *testing.T) {
	router, svc := newProfilesRouter(t)
	p, err := svc.Import(t.Context(), "user-1", ImportInput{Text: "t"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	resp := doJSON(router, http.MethodPatch, "/api/v1/profiles/"+p.ID, `{"headline":"Lead","version":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(router, http.MethodPatch, "/api/v1/profiles/"+p.ID, `{"headline":"Other","version":1}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestHandlerGetDeleteLifecycle(t *testing.T) {
	router, svc := newProfilesRouter(t)
	p, err := svc.Import(t.Context(), "user-1", ImportInput{Text: "t"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if resp := doJSON(router, http.MethodGet, "/api/v1/profiles/"+p.ID, ""); resp.Code != http.StatusOK {
		t.Fatalf("get: %d", resp.Code)
	}
	if resp := doJSON(router, http.MethodDelete, "/api/v1/profiles/"+p.ID, ""); resp.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", resp.Code)
	}
	resp := doJSON(router, http.MethodGet, "/api/v1/profiles/"+p.ID, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Profile not found") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestHandlerManualUsesSessionEmail(t *testing.T) {
	router, _ := newProfilesRouter(t)

	resp := doJSON(router, http.MethodPost, "/api/v1/profiles/manual", `{"summary":"Backend engineer","skills":"Go"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"email":"jane@example.com"`) {
		t.Fatalf("expected session email in content: %s", resp.Body.String())
	}
}
