package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shorturl-go/internal/classify"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/middleware"
	"shorturl-go/internal/repository"
	"shorturl-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type titlePassthrough struct{}

func (titlePassthrough) Fetch(_ context.Context, rawURL string) string { return rawURL }

func newTestEngine(t *testing.T) (*gin.Engine, repository.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	logger := zap.NewNop()

	links := service.NewLinkService(store, titlePassthrough{}, "https://sho.rt", logger)
	redirects := service.NewRedirectService(store, logger)
	sweeper := service.NewSweepService(store, 0, logger)

	classifier := classify.New([]string{"en", "zh"})

	linkHandler := NewShortLinkHandler(links, logger)
	redirectHandler := NewRedirectHandler(classifier, redirects)
	sweepHandler := NewSweepHandler(sweeper)

	r := gin.New()
	r.Use(middleware.GlobalErrorMiddleware())

	api := r.Group("/api")
	{
		api.POST("/shortlink", linkHandler.Create)
		api.GET("/shortlink", linkHandler.List)
		api.DELETE("/shortlink/custom", linkHandler.DeleteCustom)
		api.POST("/sweep", sweepHandler.Trigger)
	}

	r.Use(redirectHandler.Middleware())

	return r, store
}

func createLink(t *testing.T, r *gin.Engine, req dto.CreateShortLinkRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/shortlink", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

// Create with a scheme-less destination, then resolve the returned code: the
// redirect goes to the normalized URL.
func TestCreateThenRedirect(t *testing.T) {
	r, _ := newTestEngine(t)

	w := createLink(t, r, dto.CreateShortLinkRequest{DestinationURL: "example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data dto.CreateShortLinkResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	code := envelope.Data.ShortURL[len("https://sho.rt/"):]

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/"+code, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))
}

func TestRedirectMiss(t *testing.T) {
	r, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gone42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Reserved paths fall through to the page router, never the resolver.
func TestReservedPathFallsThrough(t *testing.T) {
	r, store := newTestEngine(t)

	// even a link stored under a reserved name must not shadow the page
	require.NoError(t, store.Insert(context.Background(), repository.Generated, &repository.Record{
		Code:           "custom",
		DestinationURL: "https://example.com",
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom", nil))
	// no redirect: gin's default 404 stands in for the external page router
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
}

func TestCreateInvalidDestinationReturns400(t *testing.T) {
	r, _ := newTestEngine(t)

	w := createLink(t, r, dto.CreateShortLinkRequest{DestinationURL: "ftp://example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomCodeConflictReturns409(t *testing.T) {
	r, _ := newTestEngine(t)

	w := createLink(t, r, dto.CreateShortLinkRequest{
		DestinationURL: "https://example.com",
		OwnerID:        "owner-1",
		RequestedCode:  "ab12",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = createLink(t, r, dto.CreateShortLinkRequest{
		DestinationURL: "https://example.com",
		OwnerID:        "owner-2",
		RequestedCode:  "ab12",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSweepEndpoint(t *testing.T) {
	r, store := newTestEngine(t)

	require.NoError(t, store.Insert(context.Background(), repository.Generated, &repository.Record{
		Code:           "stale1",
		DestinationURL: "https://example.com",
		LastClickedAt:  time.Now().AddDate(0, -2, 0),
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/sweep", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var summary dto.SweepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.DeletedGenerated)
	assert.Equal(t, 0, summary.DeletedCustom)
}
