package service_test

import (
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	items     *service.ItemService
	answers   *service.AnswerService
	selection *service.SelectionService
	ratings   *service.RatingService
	auth      *service.AuthService
	users     *service.UserService
	admins    *service.AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()

	itemRepo := repository.NewItemRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	auth := service.NewAuthService(userRepo, adminRepo, nil, cfg)
	return &fixture{
		db:        db,
		items:     service.NewItemService(itemRepo, db),
		answers:   service.NewAnswerService(itemRepo, answerRepo, db),
		selection: service.NewSelectionService(itemRepo),
		ratings:   service.NewRatingService(answerRepo, ratingRepo, userRepo, db),
		auth:      auth,
		users:     service.NewUserService(userRepo, answerRepo, ratingRepo, auth.Hasher, db),
		admins:    service.NewAdminService(adminRepo, auth.Hasher),
	}
}
