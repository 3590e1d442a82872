package repository

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/util"

	"gorm.io/gorm"
)

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) Create(ctx context.Context, admin *model.Admin) error {
	err := r.DB.WithContext(ctx).Create(admin).Error
	return translate(err, fmt.Sprintf("admin number %q", admin.Number), nil)
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*model.Admin, error) {
	var admin model.Admin
	err := r.DB.WithContext(ctx).First(&admin, id).Error
	if err != nil {
		return nil, translate(err, "find admin", fmt.Errorf("%w: id=%d", util.ErrAdminNotFound, id))
	}
	return &admin, nil
}

func (r *AdminRepository) FindByNumber(ctx context.Context, number string) (*model.Admin, error) {
	var admin model.Admin
	err := r.DB.WithContext(ctx).Where("number = ?", number).First(&admin).Error
	if err != nil {
		return nil, translate(err, "find admin by number", fmt.Errorf("%w: number=%s", util.ErrAdminNotFound, number))
	}
	return &admin, nil
}

func (r *AdminRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) (*model.Admin, error) {
	if len(fields) > 0 {
		err := r.DB.WithContext(ctx).Model(&model.Admin{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, translate(err, fmt.Sprintf("update admin %d", id), nil)
		}
	}
	return r.FindByID(ctx, id)
}

func (r *AdminRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Admin{}, id)
	if res.Error != nil {
		return translate(res.Error, fmt.Sprintf("delete admin %d", id), nil)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", util.ErrAdminNotFound, id)
	}
	return nil
}
