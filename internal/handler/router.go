package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/itsmezubair/assistant/internal/config"
	"github.com/itsmezubair/assistant/internal/handler/ask"
	"github.com/itsmezubair/assistant/internal/handler/session"
	middlewarePkg "github.com/itsmezubair/assistant/internal/middleware"
	"github.com/itsmezubair/assistant/internal/store"
)

// NewRouter wires the HTTP endpoints to the session store and the reply
// generator.
func NewRouter(st store.Store, gen ask.Generator, mode config.HistoryMode) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	session.New(st).RegisterRoutes(r)
	ask.New(gen, st, mode).RegisterRoutes(r)

	return r
}
