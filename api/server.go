package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/session"
)

// Dependencies are the backend services every handler is built from
type Dependencies struct {
	Client   backend.Client
	Storage  backend.Storage
	Auth     backend.Auth
	Notifier services.Notifier
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(deps Dependencies, c map[string]string) (Server, error) {
	if deps.Client == nil || deps.Storage == nil || deps.Auth == nil {
		return Server{}, fmt.Errorf("server needs a backend client, storage and auth")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router, err := newRouter(deps, withConfig(c), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Dependencies, opts ...func(*router)) (*chi.Mux, error) {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	views, err := newRenderer()
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)
	chiRouter.Use(securityHeaders)

	guard := session.NewGuard(deps.Auth,
		session.WithSecureCookie(config.GetBool(router.config, "COOKIE_SECURE", false)),
		session.WithUnauthorizedHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponder(log.Logger).WriteError(w, errUnauthorized)
		}),
	)

	handlers := initializeHandlers(deps, views, guard, router.startupTime)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}

	setupPublicRoutes(chiRouter, handlers)
	setupObjectRoutes(chiRouter, deps.Storage)
	setupAdminRoutes(chiRouter, handlers, guard)
	chiRouter.Route("/api", func(r chi.Router) {
		r.Use(CORSCheckMiddleware(acceptedOrigins))
		r.Use(corsMiddleware(acceptedOrigins))
		setupAPIRoutes(r, handlers, guard)
	})

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
