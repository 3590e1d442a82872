package service

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"quiz_rating_backend/pkg/monitoring"
	"quiz_rating_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RatingService struct {
	AnswerRepo *repository.AnswerRepository
	RatingRepo *repository.RatingRepository
	UserRepo   *repository.UserRepository
	DB         *gorm.DB
}

func NewRatingService(
	answerRepo *repository.AnswerRepository,
	ratingRepo *repository.RatingRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *RatingService {
	return &RatingService{
		AnswerRepo: answerRepo,
		RatingRepo: ratingRepo,
		UserRepo:   userRepo,
		DB:         db,
	}
}

// CategoryAverage 平均值以及参与平均的快照数
type CategoryAverage struct {
	Category model.Category `json:"category"`
	Average  float64        `json:"average"`
	Count    int64          `json:"count"`
}

// tally 把一批作答累加到快照上，返回被跳过的作答数
func tally(rating *model.TestRating, answers []model.Answer) int {
	rating.Reset()
	skipped := 0
	for _, a := range answers {
		rating.Time += a.Timer
		if a.Item == nil {
			skipped++
			continue
		}
		category, err := model.CategoryFor(a.Item.Level, a.Item.Type)
		if err != nil {
			logger.Log.Warn("Answer skipped by rating: item has no valid category",
				zap.Uint("answerID", a.ID),
				zap.Uint("itemID", a.ItemID),
				zap.Error(err))
			skipped++
			continue
		}
		*rating.Counter(category)++
		rating.CorrectAll++
	}
	return skipped
}

// BuildSnapshot 以最近 30 条正确作答生成新的快照，userID 为空时生成全局快照
func (s *RatingService) BuildSnapshot(ctx context.Context, userID *uint) (*model.TestRating, error) {
	ctx, span := tracing.Start(ctx, "RatingService.BuildSnapshot")
	defer span.End()

	var rating *model.TestRating
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if userID != nil {
			if _, err := s.UserRepo.WithTx(tx).FindByID(ctx, *userID); err != nil {
				return err
			}
		}

		answers := s.AnswerRepo.WithTx(tx)
		window, err := answers.RecentCorrect(ctx, userID, util.RatingWindow)
		if err != nil {
			return err
		}

		rating = &model.TestRating{UserID: userID}
		tally(rating, window)
		if err := s.RatingRepo.WithTx(tx).Create(ctx, rating); err != nil {
			return err
		}

		// 只有用户快照持有作答回引，全局快照不改动用户快照的关联
		if userID == nil {
			return nil
		}
		ids := make([]uint, 0, len(window))
		for _, a := range window {
			ids = append(ids, a.ID)
		}
		return answers.AttachRating(ctx, ids, rating.ID)
	})
	if err != nil {
		logger.Log.Warn("Failed to build rating snapshot", zap.Uintp("userID", userID), zap.Error(err))
		return nil, err
	}

	monitoring.SnapshotsBuilt.Inc()
	logger.Log.Info("Rating snapshot built",
		zap.Uint("ratingID", rating.ID),
		zap.Uintp("userID", userID),
		zap.Int("correctAll", rating.CorrectAll))
	return rating, nil
}

// RecomputeSnapshot 按当前关联的作答重算用户快照，全局快照返回 ErrValidation
func (s *RatingService) RecomputeSnapshot(ctx context.Context, id uint) (*model.TestRating, error) {
	ctx, span := tracing.Start(ctx, "RatingService.RecomputeSnapshot")
	defer span.End()

	var rating *model.TestRating
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ratings := s.RatingRepo.WithTx(tx)
		var err error
		rating, err = ratings.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if rating.UserID == nil {
			return fmt.Errorf("%w: rating %d is a global snapshot without linked answers", util.ErrValidation, id)
		}

		linked, err := s.AnswerRepo.WithTx(tx).ListByRating(ctx, id)
		if err != nil {
			return err
		}

		tally(rating, linked)
		return ratings.Save(ctx, rating)
	})
	if err != nil {
		logger.Log.Warn("Failed to recompute rating snapshot", zap.Uint("ratingID", id), zap.Error(err))
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) GetSnapshot(ctx context.Context, id uint) (*model.TestRating, error) {
	return s.RatingRepo.FindByID(ctx, id)
}

// ListForUser 用户没有任何快照时返回 ErrNoData
func (s *RatingService) ListForUser(ctx context.Context, userID uint) ([]model.TestRating, error) {
	ratings, err := s.RatingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, fmt.Errorf("%w: user %d has no ratings", util.ErrNoData, userID)
	}
	return ratings, nil
}

func (s *RatingService) ListAll(ctx context.Context) ([]model.TestRating, error) {
	return s.RatingRepo.List(ctx)
}

// CategoryValue 返回用户某个快照中指定分类的计数
func (s *RatingService) CategoryValue(ctx context.Context, userID, ratingID uint, level model.Level, typ model.Type) (int, error) {
	category, err := model.CategoryFor(level, typ)
	if err != nil {
		return 0, err
	}
	rating, err := s.RatingRepo.FindForUser(ctx, userID, ratingID)
	if err != nil {
		return 0, err
	}
	return *rating.Counter(category), nil
}

func (s *RatingService) AverageForUser(ctx context.Context, userID uint, level model.Level, typ model.Type) (*CategoryAverage, error) {
	return s.average(ctx, &userID, level, typ)
}

func (s *RatingService) AverageAcrossAllUsers(ctx context.Context, level model.Level, typ model.Type) (*CategoryAverage, error) {
	return s.average(ctx, nil, level, typ)
}

func (s *RatingService) average(ctx context.Context, userID *uint, level model.Level, typ model.Type) (*CategoryAverage, error) {
	category, err := model.CategoryFor(level, typ)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.RatingRepo.Average(ctx, userID, category)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if userID != nil {
			return nil, fmt.Errorf("%w: no %s ratings for user %d", util.ErrNoData, category, *userID)
		}
		return nil, fmt.Errorf("%w: no %s ratings", util.ErrNoData, category)
	}
	return &CategoryAverage{Category: category, Average: avg, Count: count}, nil
}
