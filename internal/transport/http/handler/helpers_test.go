package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/repo"
	"go-gin-mongo-blog/internal/storage"
	"go-gin-mongo-blog/internal/transport/http/router"
)

type envelope[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

type testAPI struct {
	t     *testing.T
	r     *gin.Engine
	store *repo.MemoryStore
	dir   string
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repo.NewMemoryStore()
	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir, "/uploads", 1<<20)
	require.NoError(t, err)

	reg := router.NewRegistry(
		NewPostHandler(store.Posts(), images),
		NewCommentHandler(store.Comments()),
		NewTagHandler(store.Tags()),
		NewCategoryHandler(store.Categories()),
	)
	r := router.NewAPIEngine(zap.NewNop(), reg, router.APIOptions{
		Title: "blog", Version: "test", UploadDir: dir, UploadPrefix: "/uploads",
	})
	return &testAPI{t: t, r: r, store: store, dir: dir}
}

func (a *testAPI) raw(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *testAPI) send(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.raw(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// call 发送 JSON 请求并断言状态码
func call[T any](a *testAPI, method, path string, body any, status int) envelope[T] {
	a.t.Helper()
	w := a.send(method, path, body)
	require.Equal(a.t, status, w.Code, w.Body.String())
	return decode[T](a.t, w)
}

func (a *testAPI) category(name string) domain.Category {
	return call[domain.Category](a, http.MethodPost, "/categories", gin.H{"name": name}, http.StatusCreated).Data
}

func (a *testAPI) tag(name string) domain.Tag {
	return call[domain.Tag](a, http.MethodPost, "/tags", gin.H{"name": name}, http.StatusCreated).Data
}

func (a *testAPI) post(title string, cat domain.Category, tags ...domain.Tag) domain.Post {
	ids := []string{}
	for _, tg := range tags {
		ids = append(ids, tg.ID.Hex())
	}
	return call[domain.Post](a, http.MethodPost, "/posts", gin.H{
		"title": title, "content": "body of " + title, "author": "ann",
		"category": cat.ID.Hex(), "tags": ids,
	}, http.StatusCreated).Data
}

// multipartPost 构造 multipart 请求；file 为空则不带图片
func multipartPost(t *testing.T, fields map[string][]string, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}
