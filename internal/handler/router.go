package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mayeul-docq/univia/internal/handler/stream"
	surveyHandler "github.com/mayeul-docq/univia/internal/handler/survey"
	"github.com/mayeul-docq/univia/internal/handler/watch"
	middlewarePkg "github.com/mayeul-docq/univia/internal/middleware"
	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
)

// NewRouter wires HTTP routes to the survey service.
func NewRouter(surveySvc *surveyservice.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		surveyHandler.New(surveySvc).RegisterRoutes(api)
		watch.New(surveySvc).RegisterRoutes(api)
		stream.New(surveySvc).RegisterRoutes(api)
	})

	return r
}
