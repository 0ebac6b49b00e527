package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

func TestPost_CreateFindAndList(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech")
	go1, go2 := a.tag("go"), a.tag("mongo")

	p := a.post("Hello", cat, go2, go1)
	require.False(t, p.ID.IsZero())
	require.Equal(t, cat.ID, p.Category)
	require.Equal(t, []primitive.ObjectID{go2.ID, go1.ID}, p.Tags)
	require.Nil(t, p.DeletedAt)

	got := call[domain.Post](a, http.MethodGet, "/posts/"+p.ID.Hex(), nil, http.StatusOK)
	require.True(t, got.Success)
	require.Equal(t, "Post retrieved successfully", got.Message)
	require.Equal(t, "Hello", got.Data.Title)

	a.post("World", cat)
	list := call[[]domain.PopulatedPost](a, http.MethodGet, "/posts", nil, http.StatusOK)
	require.Len(t, list.Data, 2)
	require.Equal(t, "World", list.Data[0].Title)
	require.Equal(t, "Hello", list.Data[1].Title)
	require.NotNil(t, list.Data[1].Category)
	require.Equal(t, "Tech", list.Data[1].Category.Name)
	require.Equal(t, []string{"mongo", "go"}, []string{list.Data[1].Tags[0].Name, list.Data[1].Tags[1].Name})
}

func TestPost_EmptyListIsArray(t *testing.T) {
	a := newAPI(t)
	w := a.send(http.MethodGet, "/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"data":[],"message":"Posts retrieved successfully"}`, w.Body.String())
}

func TestPost_CreateValidation(t *testing.T) {
	a := newAPI(t)

	env := call[any](a, http.MethodPost, "/posts", gin.H{
		"content": "c", "imageUrl": "not a url", "tags": []string{"123"},
		"title": strings.Repeat("x", 101),
	}, http.StatusBadRequest)
	require.False(t, env.Success)
	require.Equal(t, "Validation failed", env.Message)
	require.ElementsMatch(t, []string{
		"title must be at most 100 characters",
		"imageUrl must be a valid uri",
		"author is required",
		"category is required",
		"tags[0] must be a valid ObjectId",
	}, env.Errors)

	all, err := a.store.Posts().FindAll(t.Context())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestPost_MalformedAndMissingID(t *testing.T) {
	a := newAPI(t)

	for _, m := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		env := call[any](a, m, "/posts/not-an-id", gin.H{}, http.StatusBadRequest)
		require.Equal(t, "Invalid post ID format", env.Message)
	}

	missing := primitive.NewObjectID().Hex()
	env := call[any](a, http.MethodGet, "/posts/"+missing, nil, http.StatusNotFound)
	require.Equal(t, "Post not found", env.Message)
	call[any](a, http.MethodPatch, "/posts/"+missing, gin.H{"title": "x"}, http.StatusNotFound)
	call[any](a, http.MethodDelete, "/posts/"+missing, nil, http.StatusNotFound)
}

func TestPost_PatchAndSoftDelete(t *testing.T) {
	a := newAPI(t)
	p := a.post("Draft", a.category("Tech"))

	up := call[domain.Post](a, http.MethodPatch, "/posts/"+p.ID.Hex(), gin.H{"title": "Final"}, http.StatusOK)
	require.Equal(t, "Post updated successfully", up.Message)
	require.Equal(t, "Final", up.Data.Title)
	require.Equal(t, p.Content, up.Data.Content)
	require.False(t, up.Data.UpdatedAt.Before(up.Data.CreatedAt))

	env := call[any](a, http.MethodPatch, "/posts/"+p.ID.Hex(), gin.H{"title": ""}, http.StatusBadRequest)
	require.Equal(t, []string{"title must not be empty"}, env.Errors)

	w := a.send(http.MethodDelete, "/posts/"+p.ID.Hex(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Empty(t, w.Body.String())

	call[any](a, http.MethodGet, "/posts/"+p.ID.Hex(), nil, http.StatusNotFound)
	call[any](a, http.MethodPatch, "/posts/"+p.ID.Hex(), gin.H{"title": "again"}, http.StatusNotFound)
	call[any](a, http.MethodDelete, "/posts/"+p.ID.Hex(), nil, http.StatusNotFound)

	list := call[[]domain.PopulatedPost](a, http.MethodGet, "/posts", nil, http.StatusOK)
	require.Empty(t, list.Data)

	trashed, err := a.store.Posts().FindDeleted(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	require.Equal(t, "Final", trashed[0].Title)
}

func TestPost_CreateMany(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech").ID.Hex()

	env := call[[]domain.Post](a, http.MethodPost, "/posts/create-many", []gin.H{
		{"title": "A", "content": "a", "author": "ann", "category": cat},
		{"title": "B", "content": "b", "author": "bob", "category": cat},
	}, http.StatusCreated)
	require.Len(t, env.Data, 2)
	require.NotEqual(t, env.Data[0].ID, env.Data[1].ID)

	bad := call[any](a, http.MethodPost, "/posts/create-many", []gin.H{
		{"title": "C", "content": "c", "author": "ann", "category": cat},
		{"title": "D", "content": "d", "category": cat},
	}, http.StatusBadRequest)
	require.Contains(t, bad.Errors, "author is required")

	list := call[[]domain.PopulatedPost](a, http.MethodGet, "/posts", nil, http.StatusOK)
	require.Len(t, list.Data, 2)
}

func TestPost_SearchByTitle(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech")
	a.post("Hello", cat)
	a.post("World", cat)
	gone := a.post("Yellow", cat)
	require.Equal(t, http.StatusNoContent, a.send(http.MethodDelete, "/posts/"+gone.ID.Hex(), nil).Code)

	env := call[[]domain.Post](a, http.MethodGet, "/posts/title?keyword=ELL", nil, http.StatusOK)
	require.Len(t, env.Data, 1)
	require.Equal(t, "Hello", env.Data[0].Title)

	env = call[[]domain.Post](a, http.MethodGet, "/posts/title?keyword=.*", nil, http.StatusOK)
	require.Empty(t, env.Data)

	env = call[[]domain.Post](a, http.MethodGet, "/posts/title", nil, http.StatusOK)
	require.Len(t, env.Data, 2)
}

func TestPost_ByCategory(t *testing.T) {
	a := newAPI(t)
	tech, life := a.category("Tech"), a.category("Life")
	a.post("Go", tech)
	a.post("Garden", life)

	env := call[[]domain.Post](a, http.MethodGet, "/posts/category/"+tech.ID.Hex(), nil, http.StatusOK)
	require.Len(t, env.Data, 1)
	require.Equal(t, "Go", env.Data[0].Title)

	call[any](a, http.MethodGet, "/posts/category/zzz", nil, http.StatusBadRequest)
}

func TestPost_CategoryDeleteDoesNotCascade(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech")
	p := a.post("Hello", cat)

	w := a.send(http.MethodDelete, "/categories/"+cat.ID.Hex(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	got := call[domain.Post](a, http.MethodGet, "/posts/"+p.ID.Hex(), nil, http.StatusOK)
	require.Equal(t, cat.ID, got.Data.Category)

	list := call[[]domain.PopulatedPost](a, http.MethodGet, "/posts", nil, http.StatusOK)
	require.Len(t, list.Data, 1)
	require.Nil(t, list.Data[0].Category)
}

func TestPost_MultipartWithImage(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech")
	tg := a.tag("go")

	req := multipartPost(t, map[string][]string{
		"title": {"Pic"}, "content": {"c"}, "author": {"ann"},
		"category": {cat.ID.Hex()}, "tags": {tg.ID.Hex()},
	}, "cat.png", []byte("png-bytes"))
	w := a.raw(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode[domain.Post](t, w)
	require.Equal(t, []primitive.ObjectID{tg.ID}, env.Data.Tags)
	require.True(t, strings.HasPrefix(env.Data.ImageURL, "http://example.com/uploads/"), env.Data.ImageURL)
	require.True(t, strings.HasSuffix(env.Data.ImageURL, "-cat.png"))

	name := strings.TrimPrefix(env.Data.ImageURL, "http://example.com/uploads/")
	b, err := os.ReadFile(filepath.Join(a.dir, name))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))

	served := a.raw(httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil))
	require.Equal(t, http.StatusOK, served.Code)
	require.Equal(t, "png-bytes", served.Body.String())
}

func TestPost_MultipartRejectsNonImage(t *testing.T) {
	a := newAPI(t)
	cat := a.category("Tech")

	req := multipartPost(t, map[string][]string{
		"title": {"Doc"}, "content": {"c"}, "author": {"ann"}, "category": {cat.ID.Hex()},
	}, "notes.gif", []byte("gif"))
	w := a.raw(req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Only images are allowed (.png, .jpg, .jpeg)", decode[any](t, w).Message)

	req = multipartPost(t, map[string][]string{
		"title": {"No image"}, "content": {"c"}, "author": {"ann"}, "category": {cat.ID.Hex()},
	}, "", nil)
	w = a.raw(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Empty(t, decode[domain.Post](t, w).Data.ImageURL)
}

// 图片已保存但帖子被存储拒绝时，文件要删掉
func TestPost_MultipartStoreRejectionRemovesImage(t *testing.T) {
	a := newAPI(t)

	req := multipartPost(t, map[string][]string{
		"title": {"Pic"}, "content": {"c"}, "author": {"ann"},
		"category": {primitive.NilObjectID.Hex()},
	}, "cat.png", []byte("png-bytes"))
	w := a.raw(req)
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	require.True(t, strings.HasPrefix(decode[any](t, w).Message, "Error creating Post: "))

	entries, err := os.ReadDir(a.dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
