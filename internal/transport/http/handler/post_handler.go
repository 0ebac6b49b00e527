package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/storage"
	"go-gin-mongo-blog/internal/transport/http/ez"
	"go-gin-mongo-blog/pkg/utils"
)

type postIn struct {
	Title    string                `json:"title" form:"title" binding:"required,max=100"`
	Content  string                `json:"content" form:"content" binding:"required"`
	ImageURL string                `json:"imageUrl" form:"imageUrl" binding:"omitempty,url"`
	Author   string                `json:"author" form:"author" binding:"required"`
	Category string                `json:"category" form:"category" binding:"required,objectid"`
	Tags     []string              `json:"tags" form:"tags" binding:"omitempty,dive,objectid"`
	Image    *multipart.FileHeader `json:"-" form:"image"`
}

func (in *postIn) input() (domain.PostInput, error) {
	cat, err := primitive.ObjectIDFromHex(in.Category)
	if err != nil {
		return domain.PostInput{}, ez.Invalid([]string{"category must be a valid ObjectId"})
	}
	tags, err := utils.ParseObjectIDs(in.Tags)
	if err != nil {
		return domain.PostInput{}, ez.Invalid([]string{"tags must be valid ObjectIds"})
	}
	return domain.PostInput{
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Author:   in.Author,
		Category: cat,
		Tags:     tags,
	}, nil
}

type postPatchIn struct {
	Title    *string   `json:"title" binding:"omitnil,min=1,max=100"`
	Content  *string   `json:"content" binding:"omitnil,min=1"`
	ImageURL *string   `json:"imageUrl" binding:"omitnil,url"`
	Author   *string   `json:"author" binding:"omitnil,min=1"`
	Category *string   `json:"category" binding:"omitnil,objectid"`
	Tags     *[]string `json:"tags" binding:"omitnil,dive,objectid"`
}

func (in *postPatchIn) patch() (domain.PostPatch, error) {
	p := domain.PostPatch{Title: in.Title, Content: in.Content, ImageURL: in.ImageURL, Author: in.Author}
	if in.Category != nil {
		id, err := primitive.ObjectIDFromHex(*in.Category)
		if err != nil {
			return p, ez.Invalid([]string{"category must be a valid ObjectId"})
		}
		p.Category = &id
	}
	if in.Tags != nil {
		tags, err := utils.ParseObjectIDs(*in.Tags)
		if err != nil {
			return p, ez.Invalid([]string{"tags must be valid ObjectIds"})
		}
		p.Tags = &tags
	}
	return p, nil
}

type postQueryIn struct {
	Keyword string `form:"keyword"`
}

type PostHandler struct {
	posts  domain.PostRepository
	images storage.ImageStore // nil 时不接受文件上传
}

func NewPostHandler(posts domain.PostRepository, images storage.ImageStore) *PostHandler {
	return &PostHandler{posts: posts, images: images}
}

func (h *PostHandler) MountAPI(root *gin.RouterGroup, cat *ez.Catalog) {
	e := ez.New(root.Group("/posts"), "Posts", cat)

	ez.RegisterAction(e, ez.Action[postIn, *domain.Post]{
		Method: http.MethodPost, Path: "", Binder: ez.BindAuto,
		Summary: "Create a post (JSON, or multipart/form-data with an optional image file)",
		Status:  http.StatusCreated, Message: "Post created successfully",
		Handler: h.create,
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.PopulatedPost]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Summary: "List active posts, newest first, with category and tags populated",
		Message: "Posts retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.PopulatedPost, error) {
			return h.posts.FindAll(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[[]postIn, []domain.Post]{
		Method: http.MethodPost, Path: "/create-many", Binder: ez.BindJSON,
		Summary: "Create several posts in order (not atomic: earlier posts stay on failure)",
		Status:  http.StatusCreated, Message: "Posts created successfully",
		Handler: h.createMany,
	})
	ez.RegisterAction(e, ez.Action[postQueryIn, []domain.Post]{
		Method: http.MethodGet, Path: "/title", Binder: ez.BindQuery,
		Summary: "Search active posts whose title contains the keyword (case-insensitive)",
		Message: "Posts retrieved successfully",
		Handler: func(c *gin.Context, in *postQueryIn) ([]domain.Post, error) {
			return h.posts.FindByQuery(c.Request.Context(), domain.PostQuery{Keyword: in.Keyword})
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Post]{
		Method: http.MethodGet, Path: "/category/:categoryId", Binder: ez.BindNone,
		Summary: "List active posts of a category",
		Message: "Posts retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Post, error) {
			id, err := ez.ParamID(c, "categoryId", "category")
			if err != nil {
				return nil, err
			}
			return h.posts.FindByCategoryID(c.Request.Context(), id)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Summary: "Get an active post",
		Message: "Post retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			id, err := ez.ParamID(c, "id", "post")
			if err != nil {
				return nil, err
			}
			p, err := h.posts.FindByID(c.Request.Context(), id)
			return orNotFound(p, err, "Post not found")
		},
	})
	ez.RegisterAction(e, ez.Action[postPatchIn, *domain.Post]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Summary: "Update fields of an active post",
		Message: "Post updated successfully",
		Handler: func(c *gin.Context, in *postPatchIn) (*domain.Post, error) {
			id, err := ez.ParamID(c, "id", "post")
			if err != nil {
				return nil, err
			}
			p, err := in.patch()
			if err != nil {
				return nil, err
			}
			post, err := h.posts.UpdateByID(c.Request.Context(), id, p)
			return orNotFound(post, err, "Post not found")
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Summary: "Soft delete a post",
		Status:  http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id", "post")
			if err != nil {
				return struct{}{}, err
			}
			p, err := h.posts.SoftDelete(c.Request.Context(), id)
			_, err = orNotFound(p, err, "Post not found")
			return struct{}{}, err
		},
	})
}

func (h *PostHandler) create(c *gin.Context, in *postIn) (*domain.Post, error) {
	data, err := in.input()
	if err != nil {
		return nil, err
	}
	if in.Image == nil {
		return h.posts.Create(c.Request.Context(), data)
	}
	img, err := h.saveImage(c, in.Image)
	if err != nil {
		return nil, err
	}
	data.ImageURL = img.URL
	p, err := h.posts.Create(c.Request.Context(), data)
	if err != nil {
		// 帖子没落库，图片也不留
		if rerr := h.images.Remove(context.WithoutCancel(c.Request.Context()), img.Key); rerr != nil {
			_ = c.Error(rerr)
		}
		return nil, err
	}
	return p, nil
}

func (h *PostHandler) createMany(c *gin.Context, in *[]postIn) ([]domain.Post, error) {
	data := make([]domain.PostInput, 0, len(*in))
	for i := range *in {
		d, err := (*in)[i].input()
		if err != nil {
			return nil, err
		}
		data = append(data, d)
	}
	return h.posts.CreateMany(c.Request.Context(), data)
}

func (h *PostHandler) saveImage(c *gin.Context, fh *multipart.FileHeader) (storage.Image, error) {
	if h.images == nil {
		return storage.Image{}, ez.BadRequest("image upload is disabled")
	}
	img, err := h.images.Save(c.Request.Context(), fh, baseURL(c))
	switch {
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		return storage.Image{}, ez.BadRequest(err.Error())
	case err != nil:
		return storage.Image{}, ez.Internal("Error uploading image", err)
	}
	return img, nil
}

// baseURL 当前请求的 <scheme>://<host>
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	} else if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}
