package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Params are the values extracted from the path by Classify. Every
// registered route carries at most one identifying segment.
type Params struct {
	Username string
	ID       string
}

// Request is what a handler receives: the transport layer has already
// resolved the route, extracted params and validated that the body, if
// any, is well-formed JSON.
type Request struct {
	Method string
	Path   string
	Params Params
	Body   json.RawMessage
}

// Response is what a handler returns. A nil Body writes the status code
// alone.
type Response struct {
	Status int
	Body   interface{}
}

type HandlerFunc func(req *Request) Response

func OK(body interface{}) Response {
	return Response{Status: http.StatusOK, Body: body}
}

func Created(body interface{}) Response {
	return Response{Status: http.StatusCreated, Body: body}
}

func NoContent() Response {
	return Response{Status: http.StatusNoContent}
}

func InvalidInput() Response {
	return Response{Status: http.StatusBadRequest}
}

func NotFound() Response {
	return Response{Status: http.StatusNotFound}
}

// Classify resolves a URL path to its route pattern. The cascade is
// closed and ordered; clients rely on this exact shape:
//
//	1 non-empty segment            -> /<resource>
//	3rd segment up/downvote        -> /<resource>/:id/<action>
//	2+ segments, resource "users"  -> /users/:username
//	2+ segments otherwise          -> /<resource>/:id
//
// An empty pattern means no route. Trailing extra segments are ignored
// by the last three branches.
func Classify(path string) (string, Params) {
	segments := []string{}
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	switch {
	case len(segments) == 0:
		return "", Params{}
	case len(segments) == 1:
		return "/" + segments[0], Params{}
	case len(segments) >= 3 && (segments[2] == "upvote" || segments[2] == "downvote"):
		return "/" + segments[0] + "/:id/" + segments[2], Params{ID: segments[1]}
	case segments[0] == "users":
		return "/users/:username", Params{Username: segments[1]}
	default:
		return "/" + segments[0] + "/:id", Params{ID: segments[1]}
	}
}

// ParseID parses a path parameter as a positive integer id.
func ParseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

// Router dispatches requests through Classify and a pattern -> method ->
// handler table. It owns the CORS side channel and the JSON framing; the
// handlers only see Request and Response values.
type Router struct {
	table      map[string]map[string]HandlerFunc
	log        *zap.SugaredLogger
	onMutate   func()
	onComplete func(ctx context.Context)
}

type Option func(*Router)

// WithMutationHook registers fn to run after every successful mutating
// request (POST, PUT, DELETE with a non-error status). The persistence
// layer hangs off this hook; its failures must stay server-side.
func WithMutationHook(fn func()) Option {
	return func(rt *Router) {
		rt.onMutate = fn
	}
}

// WithCompletedHook registers fn to run once per dispatched request,
// used for the completed-requests counter.
func WithCompletedHook(fn func(ctx context.Context)) Option {
	return func(rt *Router) {
		rt.onComplete = fn
	}
}

func New(log *zap.SugaredLogger, opts ...Option) *Router {
	rt := &Router{
		table: map[string]map[string]HandlerFunc{},
		log:   log,
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Handle registers a handler for the route pattern and method.
func (rt *Router) Handle(pattern, method string, h HandlerFunc) {
	if rt.table[pattern] == nil {
		rt.table[pattern] = map[string]HandlerFunc{}
	}

	rt.table[pattern][method] = h
}

// Routes exposes the route table: pattern -> method -> handler.
func (rt *Router) Routes() map[string]map[string]HandlerFunc {
	return rt.table
}

// Dispatch resolves and runs the handler for method and path without any
// transport involved. An unknown route or method yields a bare 400.
func (rt *Router) Dispatch(method, path string, body []byte) Response {
	pattern, params := Classify(path)

	methods, ok := rt.table[pattern]
	if !ok {
		return Response{Status: http.StatusBadRequest}
	}

	h, ok := methods[method]
	if !ok {
		return Response{Status: http.StatusBadRequest}
	}

	return h(&Request{
		Method: method,
		Path:   path,
		Params: params,
		Body:   body,
	})
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		preflight(w)

		return
	}

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "X-Requested-With,content-type")

	resp := rt.dispatchHTTP(r)

	if mutating(r.Method) && resp.Status < http.StatusBadRequest && rt.onMutate != nil {
		rt.onMutate()
	}
	if rt.onComplete != nil {
		rt.onComplete(r.Context())
	}

	if resp.Body == nil {
		w.WriteHeader(resp.Status)

		return
	}

	render.Status(r, resp.Status)
	render.JSON(w, r, resp.Body)
}

func (rt *Router) dispatchHTTP(r *http.Request) Response {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rt.log.Errorw("read request body", "err", err)

		return Response{Status: http.StatusBadRequest}
	}

	// Malformed JSON is a client error, never a crash.
	if len(body) > 0 && !json.Valid(body) {
		return Response{Status: http.StatusBadRequest}
	}

	return rt.Dispatch(r.Method, r.URL.Path, body)
}

// preflight short-circuits OPTIONS with the fixed header set, no body,
// independent of routing.
func preflight(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Credentials", "false")
	h.Set("Access-Control-Max-Age", "86400") // 24 hours
	h.Set("Access-Control-Allow-Headers", "X-Requested-With, X-HTTP-Method-Override, Content-Type, Accept")
	w.WriteHeader(http.StatusOK)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}

	return false
}
