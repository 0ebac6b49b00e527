package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/transport/http/ez"
)

type trashQ struct {
	Limit int `form:"limit,default=1000" binding:"min=1,max=1000"`
}

// TrashHandler 管理端只读回收站：列出软删的文章 / 评论（deletedAt 倒序）
type TrashHandler struct {
	posts    domain.PostRepository
	comments domain.CommentRepository
}

func NewTrashHandler(posts domain.PostRepository, comments domain.CommentRepository) *TrashHandler {
	return &TrashHandler{posts: posts, comments: comments}
}

func (h *TrashHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin.Group("/trash"), "Trash", nil)

	ez.RegisterAction(e, ez.Action[trashQ, []domain.Post]{
		Method: http.MethodGet, Path: "/posts", Binder: ez.BindQuery,
		Message: "Deleted posts retrieved successfully",
		Handler: func(c *gin.Context, in *trashQ) ([]domain.Post, error) {
			return h.posts.FindDeleted(c.Request.Context(), in.Limit)
		},
	})
	ez.RegisterAction(e, ez.Action[trashQ, []domain.Comment]{
		Method: http.MethodGet, Path: "/comments", Binder: ez.BindQuery,
		Message: "Deleted comments retrieved successfully",
		Handler: func(c *gin.Context, in *trashQ) ([]domain.Comment, error) {
			return h.comments.FindDeleted(c.Request.Context(), in.Limit)
		},
	})
}
