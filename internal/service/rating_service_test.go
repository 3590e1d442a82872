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

func answerAll(t *testing.T, f *fixture, items []model.Item, userID *uint) []*model.Answer {
	t.Helper()
	out := make([]*model.Answer, 0, len(items))
	for _, it := range items {
		a, err := f.answers.RecordAnswer(context.Background(), service.RecordAnswerRequest{
			ItemID:   it.ID,
			Response: it.CorrectAnswer,
			Timer:    2,
			UserID:   userID,
		})
		require.NoError(t, err)
		require.True(t, a.Correct)
		out = append(out, a)
	}
	return out
}

func TestBuildSnapshotCountsCorrectAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var items []model.Item
	for i, correct := range []string{"A", "B", "C"} {
		item, err := f.items.Create(ctx, service.CreateItemRequest{
			Question:      "q" + correct,
			Option1:       "A",
			Option2:       "B",
			Option3:       "C",
			Option4:       "D",
			CorrectAnswer: correct,
			Timer:         i,
			Level:         model.Level1,
			Type:          model.Type1,
		})
		require.NoError(t, err)
		items = append(items, *item)
	}
	answerAll(t, f, items, nil)

	rating, err := f.ratings.BuildSnapshot(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, rating.UserID)
	assert.Equal(t, 3, rating.CorrectAll)
	assert.Equal(t, 3, rating.CategoryObjectsType1)
	assert.Equal(t, 6, rating.Time)
	for _, c := range model.Categories() {
		if c != model.CategoryObjectsType1 {
			assert.Zero(t, *rating.Counter(c), c)
		}
	}
	assert.Equal(t, rating.CorrectAll, rating.CategorySum())

	stored, err := f.ratings.GetSnapshot(ctx, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CorrectAll)

	// 全局快照不持有作答回引
	var linked int64
	require.NoError(t, f.db.Model(&model.Answer{}).Where("rating_id IS NOT NULL").Count(&linked).Error)
	assert.Zero(t, linked)
}

func TestBuildSnapshotIgnoresIncorrectAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	items := testutil.CreateItems(t, f.db, model.Level2, model.Type3, 4)
	answerAll(t, f, items[:2], nil)
	for _, it := range items[2:] {
		_, err := f.answers.RecordAnswer(ctx, service.RecordAnswerRequest{ItemID: it.ID, Response: "B"})
		require.NoError(t, err)
	}

	rating, err := f.ratings.BuildSnapshot(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, rating.CorrectAll)
	assert.Equal(t, 2, rating.CategoryActionsType3)
	assert.Equal(t, rating.CorrectAll, rating.CategorySum())
}

func TestBuildSnapshotWindowIsMostRecent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	objects := testutil.CreateItems(t, f.db, model.Level1, model.Type2, 5)
	skills := testutil.CreateItems(t, f.db, model.Level3, model.Type1, 30)
	older := answerAll(t, f, objects, nil)
	answerAll(t, f, skills, nil)

	rating, err := f.ratings.BuildSnapshot(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, util.RatingWindow, rating.CorrectAll)
	assert.Equal(t, 30, rating.CategorySkillsType1)
	assert.Zero(t, rating.CategoryObjectsType2)

	for _, a := range older {
		var reloaded model.Answer
		require.NoError(t, f.db.First(&reloaded, a.ID).Error)
		assert.Nil(t, reloaded.RatingID)
	}
}

func TestBuildSnapshotEmptyWindow(t *testing.T) {
	f := newFixture(t)

	rating, err := f.ratings.BuildSnapshot(context.Background(), nil)
	require.NoError(t, err)
	assert.NotZero(t, rating.ID)
	assert.Zero(t, rating.CorrectAll)
	assert.Zero(t, rating.Time)
}

func TestBuildSnapshotScopedToUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, f.db, "1001", "secret1")
	bob := testutil.CreateUser(t, f.db, "1002", "secret2")

	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level1, model.Type1, 2), &alice.ID)
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level3, model.Type3, 5), &bob.ID)

	rating, err := f.ratings.BuildSnapshot(ctx, &alice.ID)
	require.NoError(t, err)
	require.NotNil(t, rating.UserID)
	assert.Equal(t, alice.ID, *rating.UserID)
	assert.Equal(t, 2, rating.CorrectAll)
	assert.Equal(t, 2, rating.CategoryObjectsType1)
	assert.Zero(t, rating.CategorySkillsType3)

	missing := uint(9999)
	_, err = f.ratings.BuildSnapshot(ctx, &missing)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestNewestSnapshotTakesOverAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "1501", "secret1")
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level2, model.Type1, 3), &user.ID)

	first, err := f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)
	second, err := f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// 作答已转移到新快照，旧快照重算后清零，但历史行仍然保留
	recomputed, err := f.ratings.RecomputeSnapshot(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, recomputed.CorrectAll)

	recomputed, err = f.ratings.RecomputeSnapshot(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, recomputed.CorrectAll)
	assert.Equal(t, 3, recomputed.CategoryActionsType1)

	ratings, err := f.ratings.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	_, err = f.ratings.RecomputeSnapshot(ctx, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestGlobalSnapshotKeepsUserLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, f.db, "1601", "secret1")
	bob := testutil.CreateUser(t, f.db, "1602", "secret2")
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level1, model.Type1, 3), &alice.ID)
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level3, model.Type2, 2), &bob.ID)

	userSnap, err := f.ratings.BuildSnapshot(ctx, &alice.ID)
	require.NoError(t, err)
	require.Equal(t, 3, userSnap.CorrectAll)

	global, err := f.ratings.BuildSnapshot(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, global.CorrectAll)

	recomputed, err := f.ratings.RecomputeSnapshot(ctx, userSnap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, recomputed.CorrectAll)
	assert.Equal(t, 3, recomputed.CategoryObjectsType1)

	avg, err := f.ratings.AverageForUser(ctx, alice.ID, model.Level1, model.Type1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg.Average, 1e-9)

	// 全局快照无法按回引重算，存储的计数保持不变
	_, err = f.ratings.RecomputeSnapshot(ctx, global.ID)
	assert.ErrorIs(t, err, util.ErrValidation)
	stored, err := f.ratings.GetSnapshot(ctx, global.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.CorrectAll)

	all, err := f.ratings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategoryValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "2001", "secret1")
	other := testutil.CreateUser(t, f.db, "2002", "secret2")
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level3, model.Type2, 4), &user.ID)

	rating, err := f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)

	v, err := f.ratings.CategoryValue(ctx, user.ID, rating.ID, model.Level3, model.Type2)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = f.ratings.CategoryValue(ctx, user.ID, rating.ID, model.Level1, model.Type1)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = f.ratings.CategoryValue(ctx, other.ID, rating.ID, model.Level3, model.Type2)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = f.ratings.CategoryValue(ctx, user.ID, rating.ID+100, model.Level3, model.Type2)
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = f.ratings.CategoryValue(ctx, user.ID, rating.ID, model.Level1, model.Type3)
	assert.ErrorIs(t, err, util.ErrUnknownCategory)
}

func TestAverages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "3001", "secret1")
	other := testutil.CreateUser(t, f.db, "3002", "secret2")

	_, err := f.ratings.AverageForUser(ctx, user.ID, model.Level1, model.Type1)
	assert.ErrorIs(t, err, util.ErrNoData)
	_, err = f.ratings.AverageAcrossAllUsers(ctx, model.Level1, model.Type1)
	assert.ErrorIs(t, err, util.ErrNoData)

	// 用户快照：2 与 4，平均 3
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level1, model.Type1, 2), &user.ID)
	_, err = f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)
	answerAll(t, f, testutil.CreateItems(t, f.db, model.Level1, model.Type1, 2), &user.ID)
	_, err = f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)

	// 另一用户快照：0
	_, err = f.ratings.BuildSnapshot(ctx, &other.ID)
	require.NoError(t, err)

	avg, err := f.ratings.AverageForUser(ctx, user.ID, model.Level1, model.Type1)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryObjectsType1, avg.Category)
	assert.EqualValues(t, 2, avg.Count)
	assert.InDelta(t, 3.0, avg.Average, 1e-9)

	avg, err = f.ratings.AverageAcrossAllUsers(ctx, model.Level1, model.Type1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, avg.Count)
	assert.InDelta(t, 2.0, avg.Average, 1e-9)

	_, err = f.ratings.AverageForUser(ctx, user.ID, model.Level3, model.Type3)
	require.NoError(t, err)
	_, err = f.ratings.AverageAcrossAllUsers(ctx, model.Level1, model.Type3)
	assert.ErrorIs(t, err, util.ErrUnknownCategory)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "4001", "secret1")
	_, err := f.ratings.ListForUser(ctx, user.ID)
	assert.ErrorIs(t, err, util.ErrNoData)

	_, err = f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)
	_, err = f.ratings.BuildSnapshot(ctx, nil)
	require.NoError(t, err)

	ratings, err := f.ratings.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, user.ID, *ratings[0].UserID)
}
