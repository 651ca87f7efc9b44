package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pollbox/api/internal/core/ports"
)

// RouterConfig carries the cross-cutting pieces the routes share. Cache
// and Limiter may be nil (tests run without Redis).
type RouterConfig struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Cache          ports.PageCache
	Limiter        *RateLimiter
}

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, authHandler *AuthHandler, userHandler *UserHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	requireAuth := RequireAuth(cfg.JWTSecret)
	optionalAuth := OptionalAuth(cfg.JWTSecret)
	cachedPage := CachedPage(cfg.Cache)

	if authHandler != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/signin", authHandler.SignIn)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/signout", authHandler.SignOut)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		if userHandler != nil {
			r.With(requireAuth).Get("/me", userHandler.GetMe)
		}

		r.Route("/polls", func(r chi.Router) {
			r.With(cachedPage).Get("/", pollHandler.ListPublicPolls)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				if cfg.Limiter != nil {
					r.Use(cfg.Limiter.Middleware)
				}
				r.Post("/", pollHandler.CreatePoll)
			})
			r.With(requireAuth).Get("/mine", pollHandler.ListMyPolls)
			r.Get("/token/{token}", pollHandler.GetPollByShareToken)
			r.With(cachedPage).Get("/{id}", pollHandler.GetPoll)
			r.With(optionalAuth).Post("/{id}/votes", voteHandler.SubmitVote)
			r.With(optionalAuth).Get("/{id}/my-votes", voteHandler.MyVotes)
		})
	})

	return r
}
