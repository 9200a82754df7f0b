// Package server exposes mapping generation, compatibility checks and value
// transformation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kontent-migrator/internal/element"
	"kontent-migrator/internal/kontent"
	"kontent-migrator/internal/logger"
	"kontent-migrator/internal/mapping"
	"kontent-migrator/internal/match"
	"kontent-migrator/internal/transform"
)

const (
	basePath   = "/v1"
	apiVersion = "1.0.0"
)

// TypeSource provides content types of one environment.
type TypeSource interface {
	ListContentTypes(ctx context.Context) ([]element.ContentType, error)
	GetContentType(ctx context.Context, codename string) (element.ContentType, error)
}

// Config for the HTTP API handler.
type Config struct {
	Types TypeSource
	// Targets defaults to Types.
	Targets  TypeSource
	Language string
	// Gatherer is served on /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *logger.Logger
}

// New returns an HTTP handler exposing the migrator API.
func New(cfg Config) http.Handler {
	if cfg.Targets == nil {
		cfg.Targets = cfg.Types
	}

	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(cfg.Logger))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	api := humachi.New(router, huma.DefaultConfig("Kontent Migrator API", apiVersion))
	group := huma.NewGroup(api, basePath)

	registerTypes(group, cfg)
	registerMappings(group, cfg)
	registerTransform(group)

	return router
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			log.WithFields(logger.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"duration": time.Since(started).String(),
			}).Debug("request")
		})
	}
}

func handleError(err error) huma.StatusError {
	if errors.Is(err, kontent.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var apiErr *kontent.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		return huma.Error502BadGateway("upstream rejected the API key", err)
	}

	return huma.Error502BadGateway(err.Error())
}

func registerTypes(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "list-types",
		Method:      http.MethodGet,
		Path:        "/types",
		Summary:     "List content types",
		Errors:      []int{http.StatusBadGateway},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []TypeSummary `json:"body"`
	}, error) {
		types, err := cfg.Types.ListContentTypes(ctx)
		if err != nil {
			return nil, handleError(err)
		}

		out := make([]TypeSummary, 0, len(types))
		for _, ct := range types {
			out = append(out, TypeSummary{Codename: ct.Codename, Name: ct.Name, Elements: len(ct.Elements)})
		}

		return &struct {
			Body []TypeSummary `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-type",
		Method:      http.MethodGet,
		Path:        "/types/{codename}",
		Summary:     "Get a content type",
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, func(ctx context.Context, input *struct {
		Codename string `path:"codename"`
	}) (*struct {
		Body element.ContentType `json:"body"`
	}, error) {
		ct, err := cfg.Types.GetContentType(ctx, input.Codename)
		if err != nil {
			return nil, handleError(err)
		}

		return &struct {
			Body element.ContentType `json:"body"`
		}{Body: ct}, nil
	})
}

func registerMappings(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "generate-mappings",
		Method:      http.MethodPost,
		Path:        "/mappings",
		Summary:     "Generate field mappings for a content type pair",
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, func(ctx context.Context, input *struct {
		Body MappingRequest `json:"body"`
	}) (*struct {
		Body MappingResponse `json:"body"`
	}, error) {
		source, err := cfg.Types.GetContentType(ctx, input.Body.Source)
		if err != nil {
			return nil, handleError(err)
		}

		target, err := cfg.Targets.GetContentType(ctx, input.Body.Target)
		if err != nil {
			return nil, handleError(err)
		}

		language := input.Body.Language
		if language == "" {
			language = cfg.Language
		}

		return &struct {
			Body MappingResponse `json:"body"`
		}{Body: mappingResponse(mapping.NewMigrationConfig(source, target, language))}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-mapping",
		Method:      http.MethodPost,
		Path:        "/mappings/resolve",
		Summary:     "Check one source/target element pair",
	}, func(_ context.Context, input *struct {
		Body ResolveRequest `json:"body"`
	}) (*struct {
		Body VerdictResponse `json:"body"`
	}, error) {
		v := match.Resolve(input.Body.Source.descriptor(), input.Body.Target.descriptor())

		return &struct {
			Body VerdictResponse `json:"body"`
		}{Body: verdictResponse(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "suggest-targets",
		Method:      http.MethodPost,
		Path:        "/mappings/suggest",
		Summary:     "Rank target elements for a source element",
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, func(ctx context.Context, input *struct {
		Body SuggestRequest `json:"body"`
	}) (*struct {
		Body []CandidateResponse `json:"body"`
	}, error) {
		target, err := cfg.Targets.GetContentType(ctx, input.Body.Target)
		if err != nil {
			return nil, handleError(err)
		}

		minimum := match.DefaultSuggestionThreshold
		if input.Body.Minimum != nil {
			minimum = *input.Body.Minimum
		}

		list := match.Suggest(input.Body.Source.descriptor(), target.Elements).AboveThreshold(minimum)
		if input.Body.Limit > 0 {
			list = list.Top(input.Body.Limit)
		}

		return &struct {
			Body []CandidateResponse `json:"body"`
		}{Body: candidateResponses(list)}, nil
	})
}

func registerTransform(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "transform-value",
		Method:      http.MethodPost,
		Path:        "/transform",
		Summary:     "Convert a value between element types",
	}, func(_ context.Context, input *struct {
		Body TransformRequest `json:"body"`
	}) (*struct {
		Body TransformResponse `json:"body"`
	}, error) {
		source := element.ParseType(input.Body.SourceType)
		target := element.ParseType(input.Body.TargetType)

		resp := TransformResponse{Supported: transform.Supported(source, target)}
		if resp.Supported {
			resp.Value = transform.Transform(input.Body.Value, source, target)
		}

		return &struct {
			Body TransformResponse `json:"body"`
		}{Body: resp}, nil
	})
}
