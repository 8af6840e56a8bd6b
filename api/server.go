package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/project-showcase-backend/config"
	"github.com/rpupo63/project-showcase-backend/database"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(database database.Database, c map[string]string) (Server, error) {
	sessionConfig, err := SessionConfigFromEnv(c)
	if err != nil {
		return Server{}, err
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(database,
		withConfig(c),
		withStartupTime(startupTime),
		withSessionResolver(NewJWTSessionResolver(sessionConfig)),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180*time.Second),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180*time.Second),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180*time.Second),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config          map[string]string
	startupTime     time.Time
	sessionResolver SessionResolver
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

func withSessionResolver(resolver SessionResolver) func(*router) {
	return func(r *router) {
		r.sessionResolver = resolver
	}
}

func newRouter(database database.Database, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	maxBodyBytes := int64(config.GetInt(router.config, "MAX_BODY_BYTES", defaultMaxBodyBytes))
	handlers := initializeHandlers(database, router.sessionResolver, router.startupTime, maxBodyBytes)

	return buildRouter(handlers, config.GetList(router.config, "ACCEPTED_ORIGINS"))
}

// buildRouter wires the middleware chain around the routes
func buildRouter(handlers *routeHandlers, acceptedOrigins []string) *chi.Mux {
	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)

	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	// cors.Handler reads an empty list as "allow all"; with no accepted
	// origins every cross-origin request stays without CORS headers
	if len(acceptedOrigins) > 0 {
		chiRouter.Use(corsMiddleware(acceptedOrigins))
	}

	setupRoutes(chiRouter, handlers)

	return chiRouter
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
