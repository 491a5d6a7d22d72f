package router

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daygram-app/daygram-api/internal/middleware/metrics"
	"github.com/daygram-app/daygram-api/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/v1/healthz", h.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// Invite landing page works before sign-in; a present token still
	// resolves so is_member comes back right.
	r.With(authMw.OptionalAuth()).Get("/v1/join/{code}", h.PreviewInvite)

	// Everything below requires a signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())

		r.Get("/v1/profile", h.Profile)
		r.Put("/v1/profile", h.UpdateProfile)

		r.Route("/v1/groups", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Post("/", h.CreateGroup)

			r.Route("/{group}", func(r chi.Router) {
				r.Get("/", h.GetGroup)
				r.Patch("/", h.UpdateGroup)
				r.Delete("/", h.DeleteGroup)
				r.Post("/cover", h.SetGroupCover)

				r.Post("/join", h.JoinGroup)
				r.Post("/leave", h.LeaveGroup)
				r.Get("/members", h.GetMembers)
				r.Put("/members/{user}", h.ChangeMemberRole)
				r.Delete("/members/{user}", h.RemoveMember)

				r.Post("/invites", h.CreateInvite)
				r.Get("/invites", h.GetInvites)

				r.Get("/posts", h.GetGroupPosts)
				r.Post("/posts", h.CreatePost)

				r.Get("/leaderboard", h.GetLeaderboard)
			})
		})

		r.Post("/v1/join/{code}", h.JoinByInvite)

		r.Route("/v1/posts", func(r chi.Router) {
			r.Get("/export/csv", h.ExportPostsCSV)
			r.Post("/import/csv", h.ImportPostsCSV)

			r.Route("/{post}", func(r chi.Router) {
				r.Get("/", h.GetPost)
				r.Patch("/", h.UpdatePost)
				r.Delete("/", h.DeletePost)

				r.Get("/comments", h.GetComments)
				r.Post("/comments", h.CreateComment)
			})
		})

		r.Delete("/v1/comments/{comment}", h.DeleteComment)

		r.Get("/v1/reports/daily", h.GetDailyReport)
	})

	return r
}
