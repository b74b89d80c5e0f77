package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"dive/internal/ai"
	"dive/internal/auth"
	"dive/internal/engagement"
	"dive/internal/planner"
	"dive/internal/ratelimiter"
	"dive/internal/routing"
	"dive/internal/search"
	"dive/internal/store"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	resolver      *routing.Resolver
	planner       *planner.Service
	engagement    *engagement.Counter
	generator     ai.Generator
	search        *search.Client
	authenticator auth.Authenticator
	rateLimiter   *ratelimiter.FixedWindowRateLimiter
}

type config struct {
	addr        string
	env         string
	frontendURL string
	db          dbConfig
	osrm        osrmConfig
	groq        groqConfig
	search      searchConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int
	maxIdleTime string
}

type osrmConfig struct {
	baseURL string
	timeout time.Duration
}

type groqConfig struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

type searchConfig struct {
	apiKey  string
	cx      string
	timeout time.Duration
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	iss    string
	aud    string
}

type basicConfig struct {
	user string
	pass string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Signals through ctx.Done() that the request timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/route", func(r chi.Router) {
			r.Post("/calculate", app.calculateRouteHandler)
		})

		r.Route("/theme", func(r chi.Router) {
			r.Post("/analyze", app.analyzeThemeHandler)
			r.Post("/schedule", app.generateScheduleHandler)
		})

		r.Post("/verify", app.verifyPlaceHandler)

		r.Route("/itineraries", func(r chi.Router) {
			r.With(app.AuthTokenMiddleware).Post("/", app.saveItineraryHandler)
			r.Get("/{itineraryID}", app.getItineraryHandler)
			r.Get("/user/{userID}", app.getUserItinerariesHandler)
			r.With(app.AuthTokenMiddleware).Delete("/{itineraryID}", app.deleteItineraryHandler)
		})

		r.Route("/community", func(r chi.Router) {
			r.Get("/posts", app.listPostsHandler)
			r.Get("/posts/{postID}", app.getPostHandler)
			r.Get("/users/{userID}/posts", app.getUserPostsHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/posts", app.createPostHandler)
				r.Put("/posts/{postID}", app.updatePostHandler)
				r.Delete("/posts/{postID}", app.deletePostHandler)
				r.Post("/posts/{postID}/like", app.toggleLikeHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
