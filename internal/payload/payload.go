// Package payload holds the request and response envelopes for the REST
// api. Requests wrap the entity under its resource name ({"article":
// {...}}, {"comment": {...}}); responses mirror that shape, which is
// what the frontend expects.
package payload

import (
	"forum-rest/internal/model"
)

type UserRequest struct {
	Username string `json:"username"`
}

type UserEnvelope struct {
	User *model.User `json:"user"`
}

// UserDetail is the denormalized read of a user: the user plus its
// articles and comments mapped from the id lists in stored order.
type UserDetail struct {
	User         *model.User      `json:"user"`
	UserArticles []*model.Article `json:"userArticles"`
	UserComments []*model.Comment `json:"userComments"`
}

// ArticleFields is the writable subset of an article accepted on create
// and update.
type ArticleFields struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

type ArticleRequest struct {
	Article *ArticleFields `json:"article"`
}

type ArticleEnvelope struct {
	Article *model.Article `json:"article"`
}

type ArticlesEnvelope struct {
	Articles []*model.Article `json:"articles"`
}

// ArticleDetail adds the denormalized comments to a single-article read.
type ArticleDetail struct {
	*model.Article

	Comments []*model.Comment `json:"comments"`
}

type ArticleDetailEnvelope struct {
	Article *ArticleDetail `json:"article"`
}

// CommentFields is the writable subset of a comment accepted on create
// and update. Only Body is honored on update.
type CommentFields struct {
	Body      string `json:"body"`
	Username  string `json:"username"`
	ArticleID int    `json:"articleId"`
}

type CommentRequest struct {
	Comment *CommentFields `json:"comment"`
}

type CommentEnvelope struct {
	Comment *model.Comment `json:"comment"`
}

type VoteRequest struct {
	Username string `json:"username"`
}
