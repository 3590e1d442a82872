package repository

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/util"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Create(user).Error
	return translate(err, fmt.Sprintf("user number %q", user.Number), nil)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err, "find user", fmt.Errorf("%w: id=%d", util.ErrUserNotFound, id))
	}
	return &user, nil
}

func (r *UserRepository) FindByNumber(ctx context.Context, number string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("number = ?", number).First(&user).Error
	if err != nil {
		return nil, translate(err, "find user by number", fmt.Errorf("%w: number=%s", util.ErrUserNotFound, number))
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, translate(err, "list users", nil)
}

func (r *UserRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (*model.User, error) {
	if len(fields) > 0 {
		err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err, fmt.Sprintf("update user %d", id), nil)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete user %d", id), nil)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", util.ErrUserNotFound, id)
	}
	return nil
}
