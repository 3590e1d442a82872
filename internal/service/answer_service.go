package service

import (
	"context"
	"errors"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"quiz_rating_backend/pkg/monitoring"
	"quiz_rating_backend/pkg/tracing"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 序号冲突时的最大重试次数
const maxRecordAttempts = 5

type AnswerService struct {
	ItemRepo   *repository.ItemRepository
	AnswerRepo *repository.AnswerRepository
	DB         *gorm.DB
}

func NewAnswerService(itemRepo *repository.ItemRepository, answerRepo *repository.AnswerRepository, db *gorm.DB) *AnswerService {
	return &AnswerService{
		ItemRepo:   itemRepo,
		AnswerRepo: answerRepo,
		DB:         db,
	}
}

type RecordAnswerRequest struct {
	ItemID   uint   `json:"itemId" binding:"required"`
	Timer    int    `json:"timer"`
	Response string `json:"response"`
	// 由认证信息填充
	UserID *uint `json:"-"`
}

// RecordAnswer 判定正误并以题目维度的递增序号落库
func (s *AnswerService) RecordAnswer(ctx context.Context, req RecordAnswerRequest) (*model.Answer, error) {
	ctx, span := tracing.Start(ctx, "AnswerService.RecordAnswer")
	defer span.End()
	span.SetAttributes(attribute.Int("item.id", int(req.ItemID)))

	if req.Timer < 0 {
		return nil, fmt.Errorf("%w: timer must be >= 0, got %d", util.ErrValidation, req.Timer)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRecordAttempts; attempt++ {
		answer, err := s.recordOnce(ctx, req)
		if err == nil {
			monitoring.AnswersRecorded.WithLabelValues(strconv.FormatBool(answer.Correct)).Inc()
			logger.Log.Info("Answer recorded",
				zap.Uint("itemID", answer.ItemID),
				zap.Int("attemptNumber", answer.AttemptNumber),
				zap.Bool("correct", answer.Correct))
			return answer, nil
		}
		if !errors.Is(err, util.ErrDuplicate) {
			logger.Log.Warn("Failed to record answer", zap.Uint("itemID", req.ItemID), zap.Error(err))
			return nil, err
		}
		lastErr = err
		logger.Log.Debug("Attempt number conflict, retrying",
			zap.Uint("itemID", req.ItemID),
			zap.Int("try", attempt))
	}

	logger.Log.Error("Answer ordinal conflict retries exhausted", zap.Uint("itemID", req.ItemID), zap.Error(lastErr))
	return nil, util.StoreError(fmt.Sprintf("record answer for item %d", req.ItemID), lastErr)
}

func (s *AnswerService) recordOnce(ctx context.Context, req RecordAnswerRequest) (*model.Answer, error) {
	var answer *model.Answer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ItemRepo.WithTx(tx).FindByIDForUpdate(ctx, req.ItemID)
		if err != nil {
			return err
		}

		answers := s.AnswerRepo.WithTx(tx)
		last, err := answers.MaxAttemptNumber(ctx, item.ID)
		if err != nil {
			return err
		}

		answer = &model.Answer{
			ItemID:        item.ID,
			UserID:        req.UserID,
			Response:      req.Response,
			Correct:       req.Response == item.CorrectAnswer,
			AttemptNumber: last + 1,
			Timer:         req.Timer,
			AnsweredAt:    time.Now(),
		}
		return answers.Create(ctx, answer)
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}
