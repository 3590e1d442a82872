package service

import (
	"context"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/pkg/logger"

	"go.uber.org/zap"
)

type AdminService struct {
	AdminRepo *repository.AdminRepository
	Hasher    PasswordHasher
}

func NewAdminService(adminRepo *repository.AdminRepository, hasher PasswordHasher) *AdminService {
	return &AdminService{AdminRepo: adminRepo, Hasher: hasher}
}

type RegisterAdminRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Number    string `json:"number" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type UpdateAdminRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Number    *string `json:"number"`
	Password  *string `json:"password"`
}

func (s *AdminService) Register(ctx context.Context, req RegisterAdminRequest) (*model.Admin, error) {
	hashed, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	admin := &model.Admin{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Number:    req.Number,
		Password:  hashed,
	}
	if err := s.AdminRepo.Create(ctx, admin); err != nil {
		logger.Log.Warn("Failed to register admin", zap.String("number", req.Number), zap.Error(err))
		return nil, err
	}
	logger.Log.Info("Admin registered", zap.Uint("adminID", admin.ID))
	return admin, nil
}

func (s *AdminService) Get(ctx context.Context, id uint) (*model.Admin, error) {
	return s.AdminRepo.FindByID(ctx, id)
}

func (s *AdminService) Update(ctx context.Context, id uint, req UpdateAdminRequest) (*model.Admin, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Number != nil {
		fields["number"] = *req.Number
	}
	if req.Password != nil {
		hashed, err := s.Hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}
	return s.AdminRepo.Updates(ctx, id, fields)
}

func (s *AdminService) Delete(ctx context.Context, id uint) error {
	if err := s.AdminRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Admin deleted", zap.Uint("adminID", id))
	return nil
}
