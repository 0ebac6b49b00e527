package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
	"go-gin-mongo-blog/internal/transport/http/ez"
)

type commentIn struct {
	Content string `json:"content" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	PostID  string `json:"postId" binding:"required,objectid"`
}

type commentPatchIn struct {
	Content *string `json:"content" binding:"omitnil,min=1"`
	Name    *string `json:"name" binding:"omitnil,min=1"`
	Email   *string `json:"email" binding:"omitnil,email"`
	PostID  *string `json:"postId" binding:"omitnil,objectid"`
}

type CommentHandler struct {
	comments domain.CommentRepository
}

func NewCommentHandler(comments domain.CommentRepository) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) MountAPI(root *gin.RouterGroup, cat *ez.Catalog) {
	e := ez.New(root.Group("/comments"), "Comments", cat)

	ez.RegisterAction(e, ez.Action[commentIn, *domain.Comment]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON,
		Summary: "Create a comment",
		Status:  http.StatusCreated, Message: "Comment created successfully",
		Handler: func(c *gin.Context, in *commentIn) (*domain.Comment, error) {
			postID, err := primitive.ObjectIDFromHex(in.PostID)
			if err != nil {
				return nil, ez.Invalid([]string{"postId must be a valid ObjectId"})
			}
			return h.comments.Create(c.Request.Context(), domain.CommentInput{
				Content: in.Content, Name: in.Name, Email: in.Email, PostID: postID,
			})
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Comment]{
		Method: http.MethodGet, Path: "", Binder: ez.BindNone,
		Summary: "List active comments, oldest first",
		Message: "Comments retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Comment, error) {
			return h.comments.FindAll(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Comment]{
		Method: http.MethodGet, Path: "/post/:postId", Binder: ez.BindNone,
		Summary: "List active comments of a post, oldest first",
		Message: "Comments retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Comment, error) {
			id, err := ez.ParamID(c, "postId", "post")
			if err != nil {
				return nil, err
			}
			return h.comments.FindByPostID(c.Request.Context(), id)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Comment]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Summary: "Get an active comment",
		Message: "Comment retrieved successfully",
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Comment, error) {
			id, err := ez.ParamID(c, "id", "comment")
			if err != nil {
				return nil, err
			}
			cm, err := h.comments.FindByID(c.Request.Context(), id)
			return orNotFound(cm, err, "Comment not found")
		},
	})
	ez.RegisterAction(e, ez.Action[commentPatchIn, *domain.Comment]{
		Method: http.MethodPatch, Path: "/:id", Binder: ez.BindJSON,
		Summary: "Update fields of an active comment",
		Message: "Comment updated successfully",
		Handler: func(c *gin.Context, in *commentPatchIn) (*domain.Comment, error) {
			id, err := ez.ParamID(c, "id", "comment")
			if err != nil {
				return nil, err
			}
			p := domain.CommentPatch{Content: in.Content, Name: in.Name, Email: in.Email}
			if in.PostID != nil {
				postID, err := primitive.ObjectIDFromHex(*in.PostID)
				if err != nil {
					return nil, ez.Invalid([]string{"postId must be a valid ObjectId"})
				}
				p.PostID = &postID
			}
			cm, err := h.comments.UpdateByID(c.Request.Context(), id, p)
			return orNotFound(cm, err, "Comment not found")
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone,
		Summary: "Soft delete a comment",
		Status:  http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			id, err := ez.ParamID(c, "id", "comment")
			if err != nil {
				return struct{}{}, err
			}
			cm, err := h.comments.SoftDelete(c.Request.Context(), id)
			_, err = orNotFound(cm, err, "Comment not found")
			return struct{}{}, err
		},
	})
}
