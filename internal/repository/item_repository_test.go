package repository_test

import (
	"context"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/testutil"
	"quiz_rating_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	item := &model.Item{
		Question:      "2 + 2 = ?",
		Option1:       "3",
		Option2:       "4",
		Option3:       "5",
		Option4:       "22",
		CorrectAnswer: "4",
		Timer:         45,
		Level:         model.Level2,
		Type:          model.Type3,
	}
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Question, got.Question)
	assert.Equal(t, item.Options(), got.Options())
	assert.Equal(t, item.CorrectAnswer, got.CorrectAnswer)
	assert.Equal(t, item.Timer, got.Timer)
	assert.Equal(t, item.Level, got.Level)
	assert.Equal(t, item.Type, got.Type)
}

func TestItemDuplicateQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	first := &model.Item{Question: "same", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectAnswer: "a", Level: model.Level1, Type: model.Type1}
	require.NoError(t, repo.Create(ctx, first))

	second := *first
	second.ID = 0
	err := repo.Create(ctx, &second)
	assert.ErrorIs(t, err, util.ErrDuplicate)
}

func TestItemNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, util.ErrItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), util.ErrNotFound)

	_, err = repo.Updates(ctx, 999, map[string]interface{}{"timer": 5})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestItemDeleteCascadesAnswers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	answers := repository.NewAnswerRepository(db)
	ctx := context.Background()

	items := testutil.CreateItems(t, db, model.Level1, model.Type1, 2)
	for i, item := range items {
		require.NoError(t, answers.Create(ctx, &model.Answer{
			ItemID: item.ID, Response: "A", Correct: true, AttemptNumber: 1, AnsweredAt: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	require.NoError(t, repo.Delete(ctx, items[0].ID))

	var remaining []model.Answer
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, items[1].ID, remaining[0].ItemID)
}

func TestLeastAttemptedOrdering(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	answers := repository.NewAnswerRepository(db)
	ctx := context.Background()

	items := testutil.CreateItems(t, db, model.Level1, model.Type1, 4)
	testutil.CreateItems(t, db, model.Level2, model.Type1, 2)

	// items[0] 两次，items[2] 一次，其余未作答
	attempts := []uint{items[0].ID, items[0].ID, items[2].ID}
	for i, id := range attempts {
		require.NoError(t, answers.Create(ctx, &model.Answer{
			ItemID: id, Response: "B", AttemptNumber: i + 1, AnsweredAt: time.Now(),
		}))
	}

	got, err := repo.LeastAttempted(ctx, model.Level1, 10)
	require.NoError(t, err)
	require.Len(t, got, 4)
	ids := []uint{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
	assert.Equal(t, []uint{items[1].ID, items[3].ID, items[2].ID, items[0].ID}, ids)
	for _, it := range got {
		assert.Equal(t, model.Level1, it.Level)
		assert.NotEmpty(t, it.Question)
	}

	limited, err := repo.LeastAttempted(ctx, model.Level1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestFirstByLevel(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewItemRepository(db)
	ctx := context.Background()

	testutil.CreateItems(t, db, model.Level3, model.Type1, 3)
	skills := testutil.CreateItems(t, db, model.Level3, model.Type2, 3)

	got, err := repo.FirstByLevel(ctx, model.Level3, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ID, got[i].ID)
	}
	assert.Equal(t, skills[0].ID, got[3].ID)

	none, err := repo.FirstByLevel(ctx, model.Level3, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
