package comment

import (
	"encoding/json"
	"net/http"

	"forum-rest/internal/payload"
	"forum-rest/internal/router"
	"forum-rest/internal/store"
	"forum-rest/internal/vote"
)

// Resource bundles the comment handlers around an injected store.
type Resource struct {
	store *store.Store
}

func NewResource(s *store.Store) *Resource {
	return &Resource{store: s}
}

func (rs *Resource) Register(rt *router.Router) {
	rt.Handle("/comments", http.MethodPost, rs.Create)
	rt.Handle("/comments/:id", http.MethodPut, rs.Update)
	rt.Handle("/comments/:id", http.MethodDelete, rs.Delete)
	rt.Handle("/comments/:id/upvote", http.MethodPut, rs.Upvote)
	rt.Handle("/comments/:id/downvote", http.MethodPut, rs.Downvote)
}

// Create validates body, an existing author and a live parent article,
// then persists the comment and links it on both sides.
func (rs *Resource) Create(req *router.Request) router.Response {
	data := payload.CommentRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Comment == nil {
		return router.InvalidInput()
	}

	in := data.Comment
	if in.Body == "" || in.Username == "" || in.ArticleID <= 0 {
		return router.InvalidInput()
	}

	c, ok := rs.store.CreateComment(in.Body, in.Username, in.ArticleID)
	if !ok {
		return router.InvalidInput()
	}

	return router.Created(payload.CommentEnvelope{Comment: c})
}

// Update rewrites only the body; a well-formed request against a missing
// comment is 404, a request without a body or id is 400.
func (rs *Resource) Update(req *router.Request) router.Response {
	id, idOK := router.ParseID(req.Params.ID)

	data := payload.CommentRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Comment == nil || data.Comment.Body == "" || !idOK {
		return router.InvalidInput()
	}

	c, ok := rs.store.UpdateComment(id, data.Comment.Body)
	if !ok {
		return router.NotFound()
	}

	return router.OK(payload.CommentEnvelope{Comment: c})
}

// Delete tombstones the comment and unlinks it from its author and its
// parent article.
func (rs *Resource) Delete(req *router.Request) router.Response {
	id, ok := router.ParseID(req.Params.ID)
	if !ok {
		return router.NotFound()
	}

	if _, ok := rs.store.DeleteComment(id); !ok {
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

	c, ok := rs.store.VoteComment(id, data.Username, d)
	if !ok {
		return router.InvalidInput()
	}

	return router.OK(payload.CommentEnvelope{Comment: c})
}
