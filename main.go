//
// forum-rest
// ==========
// A REST API server for a small forum: users post articles, other users
// comment and vote on articles and comments.
//
// Boot the server:
// ----------------
// $ go run main.go
//
// Client requests:
// ----------------
// $ curl -X POST -d '{"username":"alice"}' http://localhost:4000/users
// {"user":{"username":"alice","articleIds":[],"commentIds":[]}}
//
// $ curl -X POST -d '{"article":{"title":"T","url":"U","username":"alice"}}' http://localhost:4000/articles
// {"article":{"id":1,"title":"T","url":"U","username":"alice","commentIds":[],"upvotedBy":[],"downvotedBy":[]}}
//
// $ curl http://localhost:4000/articles
// {"articles":[{"id":1,...}]}
//
// $ curl -X PUT -d '{"username":"bob"}' http://localhost:4000/articles/1/upvote
// {"article":{...,"upvotedBy":["bob"],"downvotedBy":[]}}
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"forum-rest/internal/article"
	"forum-rest/internal/comment"
	"forum-rest/internal/router"
	"forum-rest/internal/store"
	"forum-rest/internal/user"
)

const ServiceName = "forum"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
}

// nolint
func main() {

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	// nolint
	var (
		routes   = flag.Bool("routes", getEnvBool(ServiceName+"_routes", false), "Generate router documentation")
		addr     = flag.String("addr", getEnv(ServiceName+"_ADDR", ":4000"), "application port")
		diagPort = flag.String("diag_addr", getEnv(ServiceName+"_DIAG_ADDR", ":9999"), "diag port")
		dbFile   = flag.String("db", getEnv(ServiceName+"_DB", "forum-db.json"), "snapshot file, empty disables persistence")
	)

	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	a := App{
		sugarLogger: sugar,
	}

	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		a.sugarLogger.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)
	labels := []attribute.KeyValue{
		attribute.String("status", "200")}
	ServerCompletedCount := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests, by HTTP method and response status"),
	).Bind(labels...)
	defer ServerCompletedCount.Unbind()

	st := store.New()

	if *dbFile != "" {
		if err := store.LoadFile(*dbFile, st); err != nil {
			sugar.Errorw("snapshot load failed, starting empty", "file", *dbFile, "err", err)
		}
	}

	opts := []router.Option{
		router.WithCompletedHook(func(ctx context.Context) {
			ServerCompletedCount.Add(ctx, 1)
		}),
	}
	if *dbFile != "" {
		// A failed save is logged and never surfaced to the client.
		opts = append(opts, router.WithMutationHook(func() {
			if err := store.SaveFile(*dbFile, st); err != nil {
				sugar.Errorw("snapshot save failed", "file", *dbFile, "err", err)
			}
		}))
	}

	api := router.New(sugar, opts...)
	user.NewResource(st).Register(api)
	article.NewResource(st).Register(api)
	comment.NewResource(st).Register(api)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Handle("/*", api)

	diagRouter := chi.NewRouter()
	diagRouter.Use(a.Logger)
	diagRouter.Get("/metrics", exporter.ServeHTTP)
	diagRouter.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Infow("ping")
		_, err := w.Write([]byte("pong"))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	if *routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "forum-rest",
			Intro:       "forum-rest generated docs.",
		}))

		return
	}

	go func() {
		err := http.ListenAndServe(*addr, r)
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	err = http.ListenAndServe(*diagPort, diagRouter)
	if err != nil {
		a.sugarLogger.Errorw(err.Error())
	}

}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}
