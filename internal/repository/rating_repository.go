package repository

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/util"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) WithTx(tx *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: tx}
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.TestRating) error {
	err := r.DB.WithContext(ctx).Create(rating).Error
	return translate(err, "create rating", nil)
}

// Save 全量写回计数，updated_at 由 gorm 刷新
func (r *RatingRepository) Save(ctx context.Context, rating *model.TestRating) error {
	err := r.DB.WithContext(ctx).Save(rating).Error
	return translate(err, fmt.Sprintf("save rating %d", rating.ID), nil)
}

func (r *RatingRepository) FindByID(ctx context.Context, id uint) (*model.TestRating, error) {
	var rating model.TestRating
	err := r.DB.WithContext(ctx).First(&rating, id).Error
	if err != nil {
		return nil, translate(err, "find rating", fmt.Errorf("%w: id=%d", util.ErrRatingNotFound, id))
	}
	return &rating, nil
}

// FindForUser 快照必须属于该用户
func (r *RatingRepository) FindForUser(ctx context.Context, userID, id uint) (*model.TestRating, error) {
	var rating model.TestRating
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rating).Error
	if err != nil {
		return nil, translate(err, "find user rating",
			fmt.Errorf("%w: id=%d user=%d", util.ErrRatingNotFound, id, userID))
	}
	return &rating, nil
}

func (r *RatingRepository) ListByUser(ctx context.Context, userID uint) ([]model.TestRating, error) {
	var ratings []model.TestRating
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&ratings).Error
	return ratings, translate(err, "list user ratings", nil)
}

func (r *RatingRepository) List(ctx context.Context) ([]model.TestRating, error) {
	var ratings []model.TestRating
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&ratings).Error
	return ratings, translate(err, "list ratings", nil)
}

// Average 在 SQL 中对分类列求平均，只统计非空值；userID 为空时覆盖全部快照
func (r *RatingRepository) Average(ctx context.Context, userID *uint, category model.Category) (float64, int64, error) {
	var row struct {
		CountValue int64
		AvgValue   *float64
	}
	col := category.Column()
	q := r.DB.WithContext(ctx).
		Model(&model.TestRating{}).
		Select(fmt.Sprintf("COUNT(%s) AS count_value, AVG(%s) AS avg_value", col, col))
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Scan(&row).Error; err != nil {
		return 0, 0, translate(err, "average "+col, nil)
	}
	if row.CountValue == 0 || row.AvgValue == nil {
		return 0, 0, nil
	}
	return *row.AvgValue, row.CountValue, nil
}

func (r *RatingRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.TestRating{}).Error
	return translate(err, fmt.Sprintf("delete ratings of user %d", userID), nil)
}
