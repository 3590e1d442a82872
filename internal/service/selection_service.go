package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"quiz_rating_backend/pkg/monitoring"
	"quiz_rating_backend/pkg/tracing"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ExamQuotas 考试中每个层级的题量
type ExamQuotas struct {
	Level1 int `form:"num_level_1"`
	Level2 int `form:"num_level_2"`
	Level3 int `form:"num_level_3"`
}

func DefaultExamQuotas() ExamQuotas {
	return ExamQuotas{
		Level1: util.DefaultExamLevel1,
		Level2: util.DefaultExamLevel2,
		Level3: util.DefaultExamLevel3,
	}
}

func (q ExamQuotas) forLevel(level model.Level) int {
	switch level {
	case model.Level1:
		return q.Level1
	case model.Level2:
		return q.Level2
	case model.Level3:
		return q.Level3
	}
	return 0
}

func (q ExamQuotas) Sum() int {
	return q.Level1 + q.Level2 + q.Level3
}

type SelectionService struct {
	ItemRepo *repository.ItemRepository
	// Shuffle 默认使用 math/rand/v2 的全局源，测试中可替换
	Shuffle func(n int, swap func(i, j int))
}

func NewSelectionService(itemRepo *repository.ItemRepository) *SelectionService {
	return &SelectionService{
		ItemRepo: itemRepo,
		Shuffle:  rand.Shuffle,
	}
}

// SelectPractice 返回该层级作答次数最少的 30 道题，不足时报错而不是返回残缺集合
func (s *SelectionService) SelectPractice(ctx context.Context, level model.Level) ([]model.Item, error) {
	ctx, span := tracing.Start(ctx, "SelectionService.SelectPractice")
	defer span.End()
	span.SetAttributes(attribute.String("level", string(level)))

	items, err := s.ItemRepo.LeastAttempted(ctx, level, util.SetSize)
	if err != nil {
		monitoring.SelectionFailures.WithLabelValues("practice", "store").Inc()
		return nil, err
	}

	if len(items) < util.SetSize {
		monitoring.SelectionFailures.WithLabelValues("practice", "insufficient").Inc()
		logger.Log.Warn("Not enough items for practice",
			zap.String("level", string(level)),
			zap.Int("found", len(items)))
		return nil, fmt.Errorf("%w: level %s has %d of %d items (short by %d)",
			util.ErrInsufficientItems, level, len(items), util.SetSize, util.SetSize-len(items))
	}
	return items, nil
}

// SelectExam 按配额从各层级取 id 最小的题目，拼接后打乱顺序
func (s *SelectionService) SelectExam(ctx context.Context, quotas ExamQuotas) ([]model.Item, error) {
	ctx, span := tracing.Start(ctx, "SelectionService.SelectExam")
	defer span.End()

	if quotas.Level1 < 0 || quotas.Level2 < 0 || quotas.Level3 < 0 || quotas.Sum() != util.SetSize {
		monitoring.SelectionFailures.WithLabelValues("exam", "validation").Inc()
		return nil, fmt.Errorf("%w: quotas %d+%d+%d sum to %d, must be non-negative and sum to %d",
			util.ErrValidation, quotas.Level1, quotas.Level2, quotas.Level3, quotas.Sum(), util.SetSize)
	}

	selected := make([]model.Item, 0, util.SetSize)
	var shortages []string
	for _, level := range model.Levels() {
		quota := quotas.forLevel(level)
		items, err := s.ItemRepo.FirstByLevel(ctx, level, quota)
		if err != nil {
			monitoring.SelectionFailures.WithLabelValues("exam", "store").Inc()
			return nil, err
		}
		if len(items) < quota {
			shortages = append(shortages, fmt.Sprintf("%s: %d of %d", level, len(items), quota))
		}
		selected = append(selected, items...)
	}

	if len(selected) < util.SetSize {
		monitoring.SelectionFailures.WithLabelValues("exam", "insufficient").Inc()
		logger.Log.Warn("Not enough items for exam",
			zap.Int("found", len(selected)),
			zap.Strings("shortages", shortages))
		return nil, fmt.Errorf("%w: found %d of %d (%s)",
			util.ErrInsufficientItems, len(selected), util.SetSize, strings.Join(shortages, ", "))
	}

	s.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}
