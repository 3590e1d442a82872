package service

import (
	"context"
	"fmt"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo   *repository.UserRepository
	AnswerRepo *repository.AnswerRepository
	RatingRepo *repository.RatingRepository
	Hasher     PasswordHasher
	DB         *gorm.DB
}

func NewUserService(
	userRepo *repository.UserRepository,
	answerRepo *repository.AnswerRepository,
	ratingRepo *repository.RatingRepository,
	hasher PasswordHasher,
	db *gorm.DB,
) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		AnswerRepo: answerRepo,
		RatingRepo: ratingRepo,
		Hasher:     hasher,
		DB:         db,
	}
}

type RegisterUserRequest struct {
	FirstName       string  `json:"firstName" binding:"required"`
	LastName        string  `json:"lastName" binding:"required"`
	Number          string  `json:"number" binding:"required"`
	ParentFirstName string  `json:"parentFirstName"`
	ParentLastName  *string `json:"parentLastName"`
	ParentNumber    string  `json:"parentNumber"`
	Birthday        *string `json:"birthday"`
	SchoolClass     *int    `json:"schoolClass"`
	University      *string `json:"university"`
	GroupNumber     *string `json:"groupNumber"`
	Password        string  `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Number          *string `json:"number"`
	ParentFirstName *string `json:"parentFirstName"`
	ParentLastName  *string `json:"parentLastName"`
	ParentNumber    *string `json:"parentNumber"`
	Birthday        *string `json:"birthday"`
	SchoolClass     *int    `json:"schoolClass"`
	University      *string `json:"university"`
	GroupNumber     *string `json:"groupNumber"`
	Password        *string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func validateBirthday(birthday *string) error {
	if birthday == nil || *birthday == "" {
		return nil
	}
	if _, err := time.Parse(util.DateFormat, *birthday); err != nil {
		return fmt.Errorf("%w: birthday %q must be YYYY-MM-DD", util.ErrValidation, *birthday)
	}
	return nil
}

func (s *UserService) Register(ctx context.Context, req RegisterUserRequest) (*model.User, error) {
	if err := validateBirthday(req.Birthday); err != nil {
		return nil, err
	}
	hashed, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Number:          req.Number,
		ParentFirstName: req.ParentFirstName,
		ParentLastName:  req.ParentLastName,
		ParentNumber:    req.ParentNumber,
		Birthday:        req.Birthday,
		SchoolClass:     req.SchoolClass,
		University:      req.University,
		GroupNumber:     req.GroupNumber,
		Password:        hashed,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		logger.Log.Warn("Failed to register user", zap.String("number", req.Number), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("User registered", zap.Uint("userID", user.ID))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.UserRepo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, id uint, req UpdateUserRequest) (*model.User, error) {
	if err := validateBirthday(req.Birthday); err != nil {
		return nil, err
	}

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
	if req.ParentFirstName != nil {
		fields["parent_first_name"] = *req.ParentFirstName
	}
	if req.ParentLastName != nil {
		fields["parent_last_name"] = *req.ParentLastName
	}
	if req.ParentNumber != nil {
		fields["parent_number"] = *req.ParentNumber
	}
	if req.Birthday != nil {
		fields["birthday"] = *req.Birthday
	}
	if req.SchoolClass != nil {
		fields["school_class"] = *req.SchoolClass
	}
	if req.University != nil {
		fields["university"] = *req.University
	}
	if req.GroupNumber != nil {
		fields["group_number"] = *req.GroupNumber
	}
	if req.Password != nil {
		hashed, err := s.Hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hashed
	}

	user, err := s.UserRepo.Updates(ctx, id, fields)
	if err != nil {
		logger.Log.Warn("Failed to update user", zap.Uint("userID", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Delete 在同一事务中删除用户及其作答和评分
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.UserRepo.WithTx(tx).FindByID(ctx, id); err != nil {
			return err
		}
		if err := s.AnswerRepo.WithTx(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := s.RatingRepo.WithTx(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.UserRepo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		logger.Log.Warn("Failed to delete user", zap.Uint("userID", id), zap.Error(err))
		return err
	}
	logger.Log.Info("User deleted", zap.Uint("userID", id))
	return nil
}

func (s *UserService) Block(ctx context.Context, id uint) (*model.User, error) {
	return s.setBlocked(ctx, id, true)
}

func (s *UserService) Unblock(ctx context.Context, id uint) (*model.User, error) {
	return s.setBlocked(ctx, id, false)
}

func (s *UserService) setBlocked(ctx context.Context, id uint, blocked bool) (*model.User, error) {
	user, err := s.UserRepo.Updates(ctx, id, map[string]interface{}{"is_blocked": blocked})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("User block state changed", zap.Uint("userID", id), zap.Bool("blocked", blocked))
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uint, req ChangePasswordRequest) error {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Hasher.Compare(user.Password, req.OldPassword); err != nil {
		return fmt.Errorf("%w: old password does not match", util.ErrAuthFailure)
	}
	hashed, err := s.Hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.UserRepo.Updates(ctx, id, map[string]interface{}{"password": hashed})
	return err
}
