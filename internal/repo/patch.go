package repo

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-gin-mongo-blog/internal/domain"
)

func newPost(in domain.PostInput) domain.Post {
	tags := slices.Clone(in.Tags)
	if tags == nil {
		tags = []primitive.ObjectID{}
	}
	return domain.Post{
		ID:       primitive.NewObjectID(),
		Title:    in.Title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		Author:   in.Author,
		Category: in.Category,
		Tags:     tags,
	}
}

func postSet(p domain.PostPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.Author != nil {
		set["author"] = *p.Author
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Tags != nil {
		tags := *p.Tags
		if tags == nil {
			tags = []primitive.ObjectID{}
		}
		set["tags"] = tags
	}
	return set
}

func applyPostPatch(dst *domain.Post, p domain.PostPatch) {
	if p.Title != nil {
		dst.Title = *p.Title
	}
	if p.Content != nil {
		dst.Content = *p.Content
	}
	if p.ImageURL != nil {
		dst.ImageURL = *p.ImageURL
	}
	if p.Author != nil {
		dst.Author = *p.Author
	}
	if p.Category != nil {
		dst.Category = *p.Category
	}
	if p.Tags != nil {
		dst.Tags = slices.Clone(*p.Tags)
		if dst.Tags == nil {
			dst.Tags = []primitive.ObjectID{}
		}
	}
}

func commentSet(p domain.CommentPatch) bson.M {
	set := bson.M{}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PostID != nil {
		set["postId"] = *p.PostID
	}
	return set
}

func applyCommentPatch(dst *domain.Comment, p domain.CommentPatch) {
	if p.Content != nil {
		dst.Content = *p.Content
	}
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Email != nil {
		dst.Email = *p.Email
	}
	if p.PostID != nil {
		dst.PostID = *p.PostID
	}
}
