package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"forum-rest/internal/article"
	"forum-rest/internal/comment"
	"forum-rest/internal/router"
	"forum-rest/internal/store"
	"forum-rest/internal/user"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		params  router.Params
	}{
		{"/", "", router.Params{}},
		{"/articles", "/articles", router.Params{}},
		{"/articles/", "/articles", router.Params{}},
		{"/users", "/users", router.Params{}},
		{"/users/alice", "/users/:username", router.Params{Username: "alice"}},
		{"/articles/12", "/articles/:id", router.Params{ID: "12"}},
		{"/comments/3", "/comments/:id", router.Params{ID: "3"}},
		{"/articles/12/upvote", "/articles/:id/upvote", router.Params{ID: "12"}},
		{"/comments/3/downvote", "/comments/:id/downvote", router.Params{ID: "3"}},
		{"/articles/abc", "/articles/:id", router.Params{ID: "abc"}},
		// the cascade ignores trailing extra segments, as the clients expect
		{"/users/alice/profile", "/users/:username", router.Params{Username: "alice"}},
		{"/articles/12/comments", "/articles/:id", router.Params{ID: "12"}},
		{"/widgets/9/upvote/extra", "/widgets/:id/upvote", router.Params{ID: "9"}},
	}

	for _, tt := range tests {
		pattern, params := router.Classify(tt.path)
		assert.Equal(t, tt.pattern, pattern, tt.path)
		assert.Equal(t, tt.params, params, tt.path)
	}
}

func TestParseID(t *testing.T) {
	_, ok := router.ParseID("abc")
	assert.False(t, ok)

	_, ok = router.ParseID("0")
	assert.False(t, ok)

	_, ok = router.ParseID("-2")
	assert.False(t, ok)

	id, ok := router.ParseID("12")
	require.True(t, ok)
	assert.Equal(t, 12, id)
}

func newAPI(opts ...router.Option) (*router.Router, *store.Store) {
	st := store.New()
	rt := router.New(zap.NewNop().Sugar(), opts...)
	user.NewResource(st).Register(rt)
	article.NewResource(st).Register(rt)
	comment.NewResource(st).Register(rt)

	return rt, st
}

func TestDispatchUnknownRouteAndMethod(t *testing.T) {
	rt, _ := newAPI()

	resp := rt.Dispatch(http.MethodGet, "/widgets", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Nil(t, resp.Body)

	// route exists, method does not
	resp = rt.Dispatch(http.MethodDelete, "/users/alice", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = rt.Dispatch(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestRoutesTable(t *testing.T) {
	rt, _ := newAPI()

	table := rt.Routes()
	require.Contains(t, table, "/articles/:id/upvote")
	assert.Contains(t, table["/articles/:id/upvote"], http.MethodPut)
	assert.Contains(t, table["/articles"], http.MethodGet)
	assert.Contains(t, table["/articles"], http.MethodPost)
	assert.Contains(t, table["/users/:username"], http.MethodGet)
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&out)

	return resp, out
}

func TestPreflight(t *testing.T) {
	rt, _ := newAPI()
	srv := httptest.NewServer(rt)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/anything/at/all", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "false", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "86400", resp.Header.Get("Access-Control-Max-Age"))
	assert.Equal(t, int64(0), resp.ContentLength)
}

func TestCORSHeadersOnEveryResponse(t *testing.T) {
	rt, _ := newAPI()
	srv := httptest.NewServer(rt)
	defer srv.Close()

	resp, _ := doJSON(t, srv, http.MethodGet, "/articles", "")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, _ = doJSON(t, srv, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	rt, _ := newAPI()
	srv := httptest.NewServer(rt)
	defer srv.Close()

	resp, _ := doJSON(t, srv, http.MethodPost, "/users", `{"username": "al`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMutationHookFiresOnSuccessfulWritesOnly(t *testing.T) {
	var saves int

	rt, _ := newAPI(router.WithMutationHook(func() { saves++ }))
	srv := httptest.NewServer(rt)
	defer srv.Close()

	doJSON(t, srv, http.MethodGet, "/articles", "")
	assert.Equal(t, 0, saves)

	doJSON(t, srv, http.MethodPost, "/users", `{"username":""}`)
	assert.Equal(t, 0, saves)

	doJSON(t, srv, http.MethodPost, "/users", `{"username":"alice"}`)
	assert.Equal(t, 1, saves)
}

func TestCompletedHookCountsRequests(t *testing.T) {
	var completed int

	rt, _ := newAPI(router.WithCompletedHook(func(ctx context.Context) { completed++ }))
	srv := httptest.NewServer(rt)
	defer srv.Close()

	doJSON(t, srv, http.MethodGet, "/articles", "")
	doJSON(t, srv, http.MethodGet, "/nope", "")

	assert.Equal(t, 2, completed)
}

// The full flow over HTTP: two users, an article, a vote, a cascade
// delete. Deleted ids answer 404 afterwards.
func TestVotingFlowOverHTTP(t *testing.T) {
	rt, _ := newAPI()
	srv := httptest.NewServer(rt)
	defer srv.Close()

	resp, _ := doJSON(t, srv, http.MethodPost, "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, out := doJSON(t, srv, http.MethodPost, "/articles", `{"article":{"title":"T","url":"U","username":"alice"}}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := struct {
		ID int `json:"id"`
	}{}
	require.NoError(t, json.Unmarshal(out["article"], &created))
	assert.Equal(t, 1, created.ID)

	resp, _ = doJSON(t, srv, http.MethodPost, "/users", `{"username":"bob"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, out = doJSON(t, srv, http.MethodPut, "/articles/1/upvote", `{"username":"bob"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	voted := struct {
		UpvotedBy []string `json:"upvotedBy"`
	}{}
	require.NoError(t, json.Unmarshal(out["article"], &voted))
	assert.Equal(t, []string{"bob"}, voted.UpvotedBy)

	resp, _ = doJSON(t, srv, http.MethodDelete, "/articles/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, srv, http.MethodGet, "/articles/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
