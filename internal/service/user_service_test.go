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

func strPtr(s string) *string { return &s }

func registerRequest(number string) service.RegisterUserRequest {
	return service.RegisterUserRequest{
		FirstName:       "Ivan",
		LastName:        "Petrov",
		Number:          number,
		ParentFirstName: "Olga",
		ParentNumber:    "+70000000000",
		Birthday:        strPtr("2012-04-01"),
		Password:        "student-pass",
	}
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, registerRequest("6001"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "student-pass", user.Password)
	assert.False(t, user.IsBlocked)

	_, err = f.auth.AuthenticateUser(ctx, "6001", "student-pass")
	assert.NoError(t, err)

	_, err = f.users.Register(ctx, registerRequest("6001"))
	assert.ErrorIs(t, err, util.ErrDuplicate)

	req := registerRequest("6002")
	req.Birthday = strPtr("01.04.2012")
	_, err = f.users.Register(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)

	req = registerRequest("6003")
	req.Password = "123"
	_, err = f.users.Register(ctx, req)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.users.Register(ctx, registerRequest("6101"))
	require.NoError(t, err)
	_, err = f.users.Register(ctx, registerRequest("6102"))
	require.NoError(t, err)

	updated, err := f.users.Update(ctx, user.ID, service.UpdateUserRequest{
		FirstName:  strPtr("Pavel"),
		University: strPtr("MSU"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pavel", updated.FirstName)
	assert.Equal(t, "Petrov", updated.LastName)
	require.NotNil(t, updated.University)
	assert.Equal(t, "MSU", *updated.University)

	_, err = f.users.Update(ctx, user.ID, service.UpdateUserRequest{Number: strPtr("6102")})
	assert.ErrorIs(t, err, util.ErrDuplicate)

	_, err = f.users.Update(ctx, 9999, service.UpdateUserRequest{FirstName: strPtr("x")})
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "6201", "old-password")

	err := f.users.ChangePassword(ctx, user.ID, service.ChangePasswordRequest{OldPassword: "nope-nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, util.ErrAuthFailure)

	require.NoError(t, f.users.ChangePassword(ctx, user.ID, service.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password",
	}))

	_, err = f.auth.AuthenticateUser(ctx, "6201", "old-password")
	assert.ErrorIs(t, err, util.ErrAuthFailure)
	_, err = f.auth.AuthenticateUser(ctx, "6201", "new-password")
	assert.NoError(t, err)
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := testutil.CreateUser(t, f.db, "6301", "secret1")
	keep := testutil.CreateUser(t, f.db, "6302", "secret2")
	items := testutil.CreateItems(t, f.db, model.Level1, model.Type1, 3)

	answerAll(t, f, items, &user.ID)
	answerAll(t, f, items[:1], &keep.ID)
	_, err := f.ratings.BuildSnapshot(ctx, &user.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, user.ID))

	var answers, ratings int64
	require.NoError(t, f.db.Model(&model.Answer{}).Where("user_id = ?", user.ID).Count(&answers).Error)
	require.NoError(t, f.db.Model(&model.TestRating{}).Where("user_id = ?", user.ID).Count(&ratings).Error)
	assert.Zero(t, answers)
	assert.Zero(t, ratings)

	require.NoError(t, f.db.Model(&model.Answer{}).Where("user_id = ?", keep.ID).Count(&answers).Error)
	assert.EqualValues(t, 1, answers)

	_, err = f.users.Get(ctx, user.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	assert.ErrorIs(t, f.users.Delete(ctx, user.ID), util.ErrNotFound)
}

func TestAdminLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.admins.Register(ctx, service.RegisterAdminRequest{
		FirstName: "Anna",
		LastName:  "Smirnova",
		Number:    "9101",
		Password:  "admin-pass",
	})
	require.NoError(t, err)

	_, err = f.admins.Register(ctx, service.RegisterAdminRequest{
		FirstName: "Anna",
		LastName:  "Smirnova",
		Number:    "9101",
		Password:  "admin-pass",
	})
	assert.ErrorIs(t, err, util.ErrDuplicate)

	updated, err := f.admins.Update(ctx, admin.ID, service.UpdateAdminRequest{Password: strPtr("rotated-pass")})
	require.NoError(t, err)
	assert.Equal(t, "Anna", updated.FirstName)

	_, err = f.auth.AuthenticateAdmin(ctx, "9101", "rotated-pass")
	require.NoError(t, err)

	require.NoError(t, f.admins.Delete(ctx, admin.ID))
	_, err = f.admins.Get(ctx, admin.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
