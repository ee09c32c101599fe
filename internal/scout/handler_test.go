package scout

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newScoutRouter(f *fakeSearcher, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(f)).RegisterRoutes(router.Group("/api/v1"), guards...)
	return router
}

func postScout(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestScoutHandlerReturnsTaggedResults(t *testing.T) {
	router := newScoutRouter(&fakeSearcher{configured: true, items: jobItems(2)})
	resp := postScout(router, `{"query":"go","type":"jobs"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Results) != 2 || body.Results[0]["kind"] != "job" || body.Results[0]["title"] != "Job 0" {
		t.Fatalf("unexpected results %+v", body.Results)
	}
}

func TestScoutHandlerErrors(t *testing.T) {
	router := newScoutRouter(&fakeSearcher{configured: false})
	if resp := postScout(router, `{"query":"","type":"jobs"}`); resp.Code != http.StatusBadRequest {
		t.Fatalf("empty query: expected 400, got %d", resp.Code)
	}
	if resp := postScout(router, `not json`); resp.Code != http.StatusBadRequest {
		t.Fatalf("bad body: expected 400, got %d", resp.Code)
	}
	if resp := postScout(router, `{"query":"go","type":"jobs"}`); resp.Code != http.StatusInternalServerError {
		t.Fatalf("unconfigured: expected 500, got %d", resp.Code)
	}
}

func TestScoutHandlerGuardsRunFirst(t *testing.T) {
	f := &fakeSearcher{configured: true}
	router := newScoutRouter(f, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	})
	if resp := postScout(router, `{"query":"go","type":"jobs"}`); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if f.lastKind != "" {
		t.Fatal("search ran despite guard")
	}
}
