package repository

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) WithTx(tx *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: tx}
}

// MaxAttemptNumber 返回该题已有的最大序号，无记录时为 0
func (r *AnswerRepository) MaxAttemptNumber(ctx context.Context, itemID uint) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).
		Model(&model.Answer{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(MAX(attempt_number), 0)").
		Scan(&max).Error
	return max, translate(err, fmt.Sprintf("max attempt for item %d", itemID), nil)
}

func (r *AnswerRepository) Create(ctx context.Context, answer *model.Answer) error {
	err := r.DB.WithContext(ctx).Create(answer).Error
	return translate(err, fmt.Sprintf("item %d attempt %d", answer.ItemID, answer.AttemptNumber), nil)
}

// RecentCorrect 取最近的 limit 条正确作答（answered_at、id 倒序），userID 为空时不限用户
func (r *AnswerRepository) RecentCorrect(ctx context.Context, userID *uint, limit int) ([]model.Answer, error) {
	var answers []model.Answer
	q := r.DB.WithContext(ctx).
		Preload("Item").
		Where("correct = ?", true)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	err := q.Order("answered_at DESC, id DESC").
		Limit(limit).
		Find(&answers).Error
	return answers, translate(err, "recent correct answers", nil)
}

// ListByRating 返回关联到某个评分快照的作答
func (r *AnswerRepository) ListByRating(ctx context.Context, ratingID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Preload("Item").
		Where("rating_id = ?", ratingID).
		Order("answered_at DESC, id DESC").
		Find(&answers).Error
	return answers, translate(err, "answers by rating", nil)
}

// AttachRating 为作答设置评分快照的回引
func (r *AnswerRepository) AttachRating(ctx context.Context, answerIDs []uint, ratingID uint) error {
	if len(answerIDs) == 0 {
		return nil
	}
	err := r.DB.WithContext(ctx).
		Model(&model.Answer{}).
		Where("id IN ?", answerIDs).
		Update("rating_id", ratingID).Error
	return translate(err, fmt.Sprintf("attach answers to rating %d", ratingID), nil)
}

func (r *AnswerRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Answer{}).Error
	return translate(err, fmt.Sprintf("delete answers of user %d", userID), nil)
}
