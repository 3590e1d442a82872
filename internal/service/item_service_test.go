package service_test

import (
	"context"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/service"
	"quiz_rating_backend/internal/testutil"
	"quiz_rating_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemRequest(question string) service.CreateItemRequest {
	return service.CreateItemRequest{
		Question:      question,
		Option1:       "cat",
		Option2:       "dog",
		Option3:       "fox",
		Option4:       "owl",
		CorrectAnswer: "fox",
		Timer:         20,
		Level:         model.Level2,
		Type:          model.Type3,
	}
}

func TestCreateItemValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.items.Create(ctx, itemRequest("Which animal is red?"))
	require.NoError(t, err)
	assert.NotZero(t, item.ID)

	_, err = f.items.Create(ctx, itemRequest("Which animal is red?"))
	assert.ErrorIs(t, err, util.ErrDuplicate)

	req := itemRequest("Which animal barks?")
	req.CorrectAnswer = "cow"
	_, err = f.items.Create(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)

	req = itemRequest("Which animal hoots?")
	req.Timer = -1
	_, err = f.items.Create(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)

	req = itemRequest("Which animal meows?")
	req.Level = model.Level("colors")
	_, err = f.items.Create(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)

	req = itemRequest("  ")
	_, err = f.items.Create(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdateItemPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.items.Create(ctx, itemRequest("Which animal is red?"))
	require.NoError(t, err)

	newAnswer := "owl"
	newLevel := model.Level3
	updated, err := f.items.Update(ctx, item.ID, service.UpdateItemRequest{
		CorrectAnswer: &newAnswer,
		Level:         &newLevel,
	})
	require.NoError(t, err)
	assert.Equal(t, "owl", updated.CorrectAnswer)
	assert.Equal(t, model.Level3, updated.Level)
	assert.Equal(t, "Which animal is red?", updated.Question)
	assert.Equal(t, 20, updated.Timer)

	// 修改选项后原正确答案不在选项中
	renamed := "lynx"
	_, err = f.items.Update(ctx, item.ID, service.UpdateItemRequest{Option4: &renamed})
	assert.ErrorIs(t, err, util.ErrValidation)

	reloaded, err := f.items.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "owl", reloaded.Option4)

	_, err = f.items.Update(ctx, 9999, service.UpdateItemRequest{CorrectAnswer: &newAnswer})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteAndListItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	objects := testutil.CreateItems(t, f.db, model.Level1, model.Type1, 3)
	testutil.CreateItems(t, f.db, model.Level2, model.Type2, 2)

	all, err := f.items.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	byLevel, err := f.items.ListByLevel(ctx, model.Level1)
	require.NoError(t, err)
	assert.Equal(t, idsOf(objects), idsOf(byLevel))

	require.NoError(t, f.items.Delete(ctx, objects[0].ID))
	assert.ErrorIs(t, f.items.Delete(ctx, objects[0].ID), util.ErrNotFound)
	_, err = f.items.Get(ctx, objects[0].ID)
	assert.ErrorIs(t, err, util.ErrItemNotFound)
}

func TestToItemViewsHidesAnswer(t *testing.T) {
	items := []model.Item{{Question: "q", Option1: "a", Option2: "b", Option3: "c", Option4: "d", CorrectAnswer: "c", Level: model.Level1, Type: model.Type2}}
	views, err := service.ToItemViews(items)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "q", views[0].Question)
	assert.Equal(t, model.Type2, views[0].Type)
}
