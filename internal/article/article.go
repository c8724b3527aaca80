package article

import (
	"encoding/json"
	"net/http"

	"forum-rest/internal/payload"
	"forum-rest/internal/router"
	"forum-rest/internal/store"
	"forum-rest/internal/vote"
)

// Resource bundles the article handlers around an injected store.
type Resource struct {
	store *store.Store
}

func NewResource(s *store.Store) *Resource {
	return &Resource{store: s}
}

func (rs *Resource) Register(rt *router.Router) {
	rt.Handle("/articles", http.MethodGet, rs.List)
	rt.Handle("/articles", http.MethodPost, rs.Create)
	rt.Handle("/articles/:id", http.MethodGet, rs.Get)
	rt.Handle("/articles/:id", http.MethodPut, rs.Update)
	rt.Handle("/articles/:id", http.MethodDelete, rs.Delete)
	rt.Handle("/articles/:id/upvote", http.MethodPut, rs.Upvote)
	rt.Handle("/articles/:id/downvote", http.MethodPut, rs.Downvote)
}

// List returns all live articles, newest first.
func (rs *Resource) List(req *router.Request) router.Response {
	return router.OK(payload.ArticlesEnvelope{Articles: rs.store.Articles()})
}

// Create validates title, url and an existing author, then persists the
// article and links it to the author.
func (rs *Resource) Create(req *router.Request) router.Response {
	data := payload.ArticleRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Article == nil {
		return router.InvalidInput()
	}

	in := data.Article
	if in.Title == "" || in.URL == "" || in.Username == "" {
		return router.InvalidInput()
	}

	a, ok := rs.store.CreateArticle(in.Title, in.URL, in.Username)
	if !ok {
		return router.InvalidInput()
	}

	return router.Created(payload.ArticleEnvelope{Article: a})
}

// Get returns the article with its comments denormalized.
func (rs *Resource) Get(req *router.Request) router.Response {
	id, ok := router.ParseID(req.Params.ID)
	if !ok {
		return router.InvalidInput()
	}

	a, comments, ok := rs.store.ArticleWithComments(id)
	if !ok {
		return router.NotFound()
	}

	return router.OK(payload.ArticleDetailEnvelope{
		Article: &payload.ArticleDetail{
			Article:  a,
			Comments: comments,
		},
	})
}

// Update applies overwrite-if-present semantics to title and url.
func (rs *Resource) Update(req *router.Request) router.Response {
	id, ok := router.ParseID(req.Params.ID)
	if !ok {
		return router.InvalidInput()
	}

	data := payload.ArticleRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Article == nil {
		return router.InvalidInput()
	}

	a, ok := rs.store.UpdateArticle(id, data.Article.Title, data.Article.URL)
	if !ok {
		return router.NotFound()
	}

	return router.OK(payload.ArticleEnvelope{Article: a})
}

// Delete tombstones the article and cascades to its comments.
func (rs *Resource) Delete(req *router.Request) router.Response {
	id, ok := router.ParseID(req.Params.ID)
	if !ok {
		return router.InvalidInput()
	}

	if _, ok := rs.store.DeleteArticle(id); !ok {
		return router.NotFound()
	}

	return router.NoContent()
}

func (rs *Resource) Upvote(req *router.Request) router.Response {
	return rs.vote(req, vote.Up)
}

func (rs *Resource) Downvote(req *router.Request) router.Response {
	return rs.vote(req, vote.Down)
}

func (rs *Resource) vote(req *router.Request, d vote.Direction) router.Response {
	id, ok := router.ParseID(req.Params.ID)
	if !ok {
		return router.InvalidInput()
	}

	data := payload.VoteRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Username == "" {
		return router.InvalidInput()
	}

	a, ok := rs.store.VoteArticle(id, data.Username, d)
	if !ok {
		return router.InvalidInput()
	}

	return router.OK(payload.ArticleEnvelope{Article: a})
}
