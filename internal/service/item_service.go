package service

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"slices"
	"strings"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ItemService struct {
	ItemRepo *repository.ItemRepository
	DB       *gorm.DB
}

func NewItemService(itemRepo *repository.ItemRepository, db *gorm.DB) *ItemService {
	return &ItemService{ItemRepo: itemRepo, DB: db}
}

type CreateItemRequest struct {
	Question      string      `json:"question" binding:"required"`
	Option1       string      `json:"option1" binding:"required"`
	Option2       string      `json:"option2" binding:"required"`
	Option3       string      `json:"option3" binding:"required"`
	Option4       string      `json:"option4" binding:"required"`
	CorrectAnswer string      `json:"correctAnswer" binding:"required"`
	Timer         int         `json:"timer"`
	Level         model.Level `json:"level" binding:"required"`
	Type          model.Type  `json:"type" binding:"required"`
}

// UpdateItemRequest 仅非空字段会被写入
type UpdateItemRequest struct {
	Question      *string      `json:"question"`
	Option1       *string      `json:"option1"`
	Option2       *string      `json:"option2"`
	Option3       *string      `json:"option3"`
	Option4       *string      `json:"option4"`
	CorrectAnswer *string      `json:"correctAnswer"`
	Timer         *int         `json:"timer"`
	Level         *model.Level `json:"level"`
	Type          *model.Type  `json:"type"`
}

// ItemView 面向答题者的题目，不含正确答案
type ItemView struct {
	ID       uint        `json:"id"`
	Question string      `json:"question"`
	Option1  string      `json:"option1"`
	Option2  string      `json:"option2"`
	Option3  string      `json:"option3"`
	Option4  string      `json:"option4"`
	Timer    int         `json:"timer"`
	Level    model.Level `json:"level"`
	Type     model.Type  `json:"type"`
}

func ToItemViews(items []model.Item) ([]ItemView, error) {
	views := make([]ItemView, 0, len(items))
	if err := copier.Copy(&views, &items); err != nil {
		return nil, err
	}
	return views, nil
}

func validateItem(item *model.Item) error {
	if strings.TrimSpace(item.Question) == "" {
		return fmt.Errorf("%w: question must not be empty", util.ErrValidation)
	}
	for i, opt := range item.Options() {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: option%d must not be empty", util.ErrValidation, i+1)
		}
	}
	if !slices.Contains(item.Options(), item.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer %q is not one of the options", util.ErrValidation, item.CorrectAnswer)
	}
	if item.Timer < 0 {
		return fmt.Errorf("%w: timer must be >= 0, got %d", util.ErrValidation, item.Timer)
	}
	if _, err := model.ParseLevel(string(item.Level)); err != nil {
		return err
	}
	if _, err := model.ParseType(string(item.Type)); err != nil {
		return err
	}
	return nil
}

func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*model.Item, error) {
	item := &model.Item{
		Question:      req.Question,
		Option1:       req.Option1,
		Option2:       req.Option2,
		Option3:       req.Option3,
		Option4:       req.Option4,
		CorrectAnswer: req.CorrectAnswer,
		Timer:         req.Timer,
		Level:         req.Level,
		Type:          req.Type,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.ItemRepo.Create(ctx, item); err != nil {
		logger.Log.Warn("Failed to create item", zap.String("question", item.Question), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Item created", zap.Uint("itemID", item.ID), zap.String("level", string(item.Level)))
	return item, nil
}

// Update 在一个事务中合并非空字段、校验并写回
func (s *ItemService) Update(ctx context.Context, id uint, req UpdateItemRequest) (*model.Item, error) {
	var updated *model.Item
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.ItemRepo.WithTx(tx)
		item, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		setString := func(col string, dst *string, v *string) {
			if v != nil {
				*dst = *v
				fields[col] = *v
			}
		}
		setString("question", &item.Question, req.Question)
		setString("option1", &item.Option1, req.Option1)
		setString("option2", &item.Option2, req.Option2)
		setString("option3", &item.Option3, req.Option3)
		setString("option4", &item.Option4, req.Option4)
		setString("correct_answer", &item.CorrectAnswer, req.CorrectAnswer)
		if req.Timer != nil {
			item.Timer = *req.Timer
			fields["timer"] = *req.Timer
		}
		if req.Level != nil {
			item.Level = *req.Level
			fields["level"] = *req.Level
		}
		if req.Type != nil {
			item.Type = *req.Type
			fields["type"] = *req.Type
		}

		if err := validateItem(item); err != nil {
			return err
		}

		updated, err = repo.Updates(ctx, id, fields)
		return err
	})
	if err != nil {
		logger.Log.Warn("Failed to update item", zap.Uint("itemID", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *ItemService) Delete(ctx context.Context, id uint) error {
	if err := s.ItemRepo.Delete(ctx, id); err != nil {
		logger.Log.Warn("Failed to delete item", zap.Uint("itemID", id), zap.Error(err))
		return err
	}
	logger.Log.Info("Item deleted", zap.Uint("itemID", id))
	return nil
}

func (s *ItemService) Get(ctx context.Context, id uint) (*model.Item, error) {
	return s.ItemRepo.FindByID(ctx, id)
}

func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	return s.ItemRepo.List(ctx)
}

func (s *ItemService) ListByLevel(ctx context.Context, level model.Level) ([]model.Item, error) {
	return s.ItemRepo.ListByLevel(ctx, level)
}
