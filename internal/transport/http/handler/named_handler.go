package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/transport/http/ez"
)

// name 只由存储层 schema 兜底（缺失时返回 500 StoreError）
type namedIn struct {
	Name string `json:"name"`
}

type namedPatchIn struct {
	Name *string `json:"name"`
}

// NamedHandler 标签 / 分类共用的 CRUD 接口
type NamedHandler[T domain.Named] struct {
	repo   domain.NamedRepository[T]
	entity string // "Tag" | "Category"
	path   string
	tag    string
}

func NewTagHandler(repo domain.TagRepository) *NamedHandler[domain.Tag] {
	return &NamedHandler[domain.Tag]{repo: repo, entity: "Tag", path: "/tags", tag: "Tags"}
}

func NewCategoryHandler(repo domain.CategoryRepository) *NamedHandler[domain.Category] {
	return &NamedHandler[domain.Category]{repo: repo, entity: "Category", path: "/categories", tag: "Categories"}
}

func (h *NamedHandler[T]) MountAPI(root *gin.RouterGroup, cat *ez.Catalog) {
	e := ez.New(root.Group(h.path), h.tag, cat)
	lower := strings.ToLower(h.entity)
	notFound := h.entity + " not found"

	ez.RegisterAction(e, ez.Action[namedIn, *T]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Summary: "Create a " + lower,
		Status:  http.StatusCreated, Message: h.entity + " created successfully",
		Handler: func(c *gin.Context, in *namedIn) (*T, error) {
			return h.repo.Create(c.Request.Context(), in.Name)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []T]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Summary: "List " + h.path[1:] + ", oldest first",
		Message: h.tag + " retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]T, error) {
			return h.repo.FindAll(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *T]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Summary: "Get a " + lower,
		Message: h.entity + " retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*T, error) {
			id, err := ez.ParamID(c, "id", lower)
			if err != nil {
				return nil, err
			}
			v, err := h.repo.FindByID(c.Request.Context(), id)
			return orNotFound(v, err, notFound)
		},
	})
	ez.RegisterAction(e, ez.Action[namedPatchIn, *T]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Summary: "Rename a " + lower,
		Message: h.entity + " updated successfully",
		Handler: func(c *gin.Context, in *namedPatchIn) (*T, error) {
			id, err := ez.ParamID(c, "id", lower)
			if err != nil {
				return nil, err
			}
			v, err := h.repo.UpdateByID(c.Request.Context(), id, in.Name)
			return orNotFound(v, err, notFound)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Summary: "Permanently delete a " + lower + " (posts keep their references)",
		Status:  http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id", lower)
			if err != nil {
				return struct{}{}, err
			}
			v, err := h.repo.Delete(c.Request.Context(), id)
			_, err = orNotFound(v, err, notFound)
			return struct{}{}, err
		},
	})
}
