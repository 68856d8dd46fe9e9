package handlers

import (
	"bazaar/internal/config"
	"bazaar/internal/repos"
	"bazaar/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	ItemHandler   *ItemHandler
	ReviewHandler *ReviewHandler
	CartHandler   *CartHandler

	Auth     *services.AuthService
	MediaDir string
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	itemRepo := repos.NewItemRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	cartRepo := repos.NewCartRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	catalogSvc := services.NewCatalogService(itemRepo, reviewRepo, userRepo)
	reviewSvc := services.NewReviewService(reviewRepo, itemRepo)
	cartSvc := services.NewCartService(cartRepo, itemRepo)
	userSvc := services.NewUserService(userRepo, itemRepo, reviewRepo, cartRepo)

	return &Deps{
		AuthHandler:   &AuthHandler{Auth: authSvc},
		UserHandler:   &UserHandler{Users: userSvc, MediaDir: cfg.MediaDir},
		ItemHandler:   &ItemHandler{Catalog: catalogSvc, MediaDir: cfg.MediaDir},
		ReviewHandler: &ReviewHandler{Reviews: reviewSvc},
		CartHandler:   &CartHandler{Cart: cartSvc},
		Auth:          authSvc,
		MediaDir:      cfg.MediaDir,
	}
}
