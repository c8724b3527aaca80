package user

import (
	"encoding/json"
	"net/http"

	"forum-rest/internal/payload"
	"forum-rest/internal/router"
	"forum-rest/internal/store"
)

// Resource bundles the user handlers around an injected store.
type Resource struct {
	store *store.Store
}

func NewResource(s *store.Store) *Resource {
	return &Resource{store: s}
}

func (rs *Resource) Register(rt *router.Router) {
	rt.Handle("/users", http.MethodPost, rs.GetOrCreate)
	rt.Handle("/users/:username", http.MethodGet, rs.Get)
}

// GetOrCreate returns the existing user with 200, or creates one with
// empty reference lists and returns it with 201. Idempotent by design: a
// repeated POST never creates a duplicate.
func (rs *Resource) GetOrCreate(req *router.Request) router.Response {
	data := payload.UserRequest{}
	if err := json.Unmarshal(req.Body, &data); err != nil || data.Username == "" {
		return router.InvalidInput()
	}

	u, created := rs.store.GetOrCreateUser(data.Username)
	if created {
		return router.Created(payload.UserEnvelope{User: u})
	}

	return router.OK(payload.UserEnvelope{User: u})
}

// Get returns the user plus its denormalized articles and comments.
func (rs *Resource) Get(req *router.Request) router.Response {
	username := req.Params.Username
	if username == "" {
		return router.InvalidInput()
	}

	u, articles, comments, ok := rs.store.UserWithRefs(username)
	if !ok {
		return router.NotFound()
	}

	return router.OK(payload.UserDetail{
		User:         u,
		UserArticles: articles,
		UserComments: comments,
	})
}
