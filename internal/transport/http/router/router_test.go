package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-mongo-blog/internal/core/config"
	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/repo"
	"go-gin-mongo-blog/internal/transport/http/handler"
	"go-gin-mongo-blog/internal/transport/http/router"
	"go-gin-mongo-blog/pkg/metrics"
)

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func apiEngine(store *repo.MemoryStore, opt router.APIOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := router.NewRegistry(
		handler.NewPostHandler(store.Posts(), nil),
		handler.NewCommentHandler(store.Comments()),
		handler.NewTagHandler(store.Tags()),
		handler.NewCategoryHandler(store.Categories()),
	)
	return router.NewAPIEngine(zap.NewNop(), reg, opt)
}

func TestAPI_Healthcheck(t *testing.T) {
	r := apiEngine(repo.NewMemoryStore(), router.APIOptions{})
	w := serve(r, http.MethodGet, "/healthcheck")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Blog server is running", w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAPI_Docs(t *testing.T) {
	r := apiEngine(repo.NewMemoryStore(), router.APIOptions{Title: "blog-cms", Version: "1.0.0"})

	w := serve(r, http.MethodGet, "/api-docs")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "swagger-ui")
	require.Contains(t, w.Body.String(), "/api-docs/doc.json")

	w = serve(r, http.MethodGet, "/api-docs/doc.json")
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		OpenAPI string                    `json:"openapi"`
		Info    map[string]string         `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Equal(t, "3.0.0", doc.OpenAPI)
	require.Equal(t, "blog-cms", doc.Info["title"])

	want := map[string][]string{
		"/posts":                       {"get", "post"},
		"/posts/create-many":           {"post"},
		"/posts/title":                 {"get"},
		"/posts/category/{categoryId}": {"get"},
		"/posts/{id}":                  {"get", "patch", "delete"},
		"/comments":                    {"get", "post"},
		"/comments/post/{postId}":      {"get"},
		"/comments/{id}":               {"get", "patch", "delete"},
		"/tags":                        {"get", "post"},
		"/tags/{id}":                   {"get", "patch", "delete"},
		"/categories":                  {"get", "post"},
		"/categories/{id}":             {"get", "patch", "delete"},
	}
	require.Len(t, doc.Paths, len(want))
	for p, methods := range want {
		require.Contains(t, doc.Paths, p)
		for _, m := range methods {
			require.Contains(t, doc.Paths[p], m, "%s %s", m, p)
		}
	}
}

func TestAPI_UploadDisabledWithoutStore(t *testing.T) {
	store := repo.NewMemoryStore()
	r := apiEngine(store, router.APIOptions{})

	cat, err := store.Categories().Create(t.Context(), "Tech")
	require.NoError(t, err)

	body := "--b\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nT\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"content\"\r\n\r\nC\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"author\"\r\n\r\nA\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"category\"\r\n\r\n" + cat.ID.Hex() + "\r\n" +
		"--b\r\nContent-Disposition: form-data; name=\"image\"; filename=\"a.png\"\r\nContent-Type: image/png\r\n\r\npng\r\n" +
		"--b--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "image upload is disabled")
}

func TestAPI_RateLimitFromConfig(t *testing.T) {
	r := apiEngine(repo.NewMemoryStore(), router.APIOptions{
		Limits: config.Limits{RPS: 1, Burst: 1, Concurrency: 10, MaxBodyMB: 1, TimeoutSec: 5},
	})
	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthcheck").Code)
	require.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/healthcheck").Code)
}

func TestAdmin_HealthMetricsAndTrash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repo.NewMemoryStore()
	ctx := t.Context()

	cat, err := store.Categories().Create(ctx, "Tech")
	require.NoError(t, err)
	kept, err := store.Posts().Create(ctx, domain.PostInput{Title: "kept", Content: "c", Author: "a", Category: cat.ID})
	require.NoError(t, err)
	gone, err := store.Posts().Create(ctx, domain.PostInput{Title: "gone", Content: "c", Author: "a", Category: cat.ID})
	require.NoError(t, err)
	_, err = store.Posts().SoftDelete(ctx, gone.ID)
	require.NoError(t, err)
	c, err := store.Comments().Create(ctx, domain.CommentInput{Content: "x", Name: "n", Email: "n@example.com", PostID: kept.ID})
	require.NoError(t, err)
	_, err = store.Comments().SoftDelete(ctx, c.ID)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r := router.NewAdminEngine(zap.NewNop(), router.NewRegistry(handler.NewTrashHandler(store.Posts(), store.Comments())), reg)

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)

	w := serve(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `blog_http_requests_total{method="GET",path="/health",status="200"}`)

	w = serve(r, http.MethodGet, "/admin/v1/trash/posts")
	require.Equal(t, http.StatusOK, w.Code)
	var posts struct {
		Data []domain.Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts.Data, 1)
	require.Equal(t, gone.ID, posts.Data[0].ID)
	require.NotNil(t, posts.Data[0].DeletedAt)

	w = serve(r, http.MethodGet, "/admin/v1/trash/comments?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), c.ID.Hex())

	w = serve(r, http.MethodGet, "/admin/v1/trash/posts?limit=0")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
