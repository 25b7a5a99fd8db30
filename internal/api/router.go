package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/oyilmaz/ratehub/internal/api/handlers"
	"github.com/oyilmaz/ratehub/internal/auth"
	"github.com/oyilmaz/ratehub/internal/config"
	"github.com/oyilmaz/ratehub/internal/metrics"
	"github.com/oyilmaz/ratehub/internal/middleware"
	"github.com/oyilmaz/ratehub/internal/services"
)

type RouterDeps struct {
	Cfg        config.Config
	TM         *auth.TokenManager
	AuthSvc    *services.AuthService
	UserSvc    *services.UserService
	CatalogSvc *services.CatalogService
	ReviewSvc  *services.ReviewService
	CommentSvc *services.CommentService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	authMW := middleware.NewAuthMiddleware(d.TM)

	ah := handlers.NewAuthHandler(d.AuthSvc)
	uh := handlers.NewUsersHandler(d.UserSvc)
	ch := handlers.NewCatalogHandler(d.CatalogSvc)
	th := handlers.NewTitlesHandler(d.CatalogSvc)
	rh := handlers.NewReviewsHandler(d.ReviewSvc)
	cmh := handlers.NewCommentsHandler(d.CommentSvc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMW.Authenticate)

		r.Post("/auth/signup", ah.Signup)
		r.Post("/auth/token", ah.Token)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ch.ListCategories)
			r.Post("/", ch.CreateCategory)
			r.Delete("/{slug}", ch.DeleteCategory)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", ch.ListGenres)
			r.Post("/", ch.CreateGenre)
			r.Delete("/{slug}", ch.DeleteGenre)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", th.List)
			r.Post("/", th.Create)
			r.Route("/{titleID}", func(r chi.Router) {
				r.Get("/", th.Get)
				r.Patch("/", th.Update)
				r.Delete("/", th.Delete)

				r.Route("/reviews", func(r chi.Router) {
					r.Get("/", rh.List)
					r.Post("/", rh.Create)
					r.Route("/{reviewID}", func(r chi.Router) {
						r.Get("/", rh.Get)
						r.Patch("/", rh.Update)
						r.Delete("/", rh.Delete)

						r.Route("/comments", func(r chi.Router) {
							r.Get("/", cmh.List)
							r.Post("/", cmh.Create)
							r.Get("/{commentID}", cmh.Get)
							r.Patch("/{commentID}", cmh.Update)
							r.Delete("/{commentID}", cmh.Delete)
						})
					})
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", uh.Me)
			r.Patch("/me", uh.UpdateMe)
			r.Get("/", uh.List)
			r.Post("/", uh.Create)
			r.Get("/{username}", uh.Get)
			r.Patch("/{username}", uh.Update)
			r.Delete("/{username}", uh.Delete)
		})
	})

	return r
}
