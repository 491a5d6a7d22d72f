package setup

import (
	"github.com/daygram-app/daygram-api/internal/config"
	"github.com/daygram-app/daygram-api/internal/handler"
	"github.com/daygram-app/daygram-api/internal/jwt"
	"github.com/daygram-app/daygram-api/internal/markdown"
	"github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/service"
	"github.com/daygram-app/daygram-api/internal/storage/cloudinary"
	"github.com/daygram-app/daygram-api/internal/storage/pg"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
	Janitor        *service.Janitor
}

// SetupDependencies wires storage, services, middleware and handlers.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	photos, err := cloudinary.New(cfg.Private.CloudinaryURL)
	if err != nil {
		return nil, err
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	access := service.NewAccess(storage)
	auth := service.NewAuth(storage, jwtService)
	groups := service.NewGroup(storage, access, photos, storage, &cfg.Public)
	posts := service.NewPost(storage, access, photos, storage)
	comments := service.NewComment(storage, access, storage)
	leaderboard := service.NewLeaderboard(storage, access)
	janitor := service.NewJanitor(storage, cfg.Public.InvitePurgeSpec)

	h := handler.New(auth, groups, posts, comments, leaderboard, cfg, markdown.New())
	authMw := middleware.NewAuth(jwtService, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: authMw,
		Janitor:        janitor,
	}, nil
}
