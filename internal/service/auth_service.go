package service

import (
	"context"
	"errors"
	"fmt"
	"quiz_rating_backend/internal/config"
	"quiz_rating_backend/internal/model"
	"quiz_rating_backend/internal/repository"
	"quiz_rating_backend/internal/util"
	"quiz_rating_backend/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenStore 令牌吊销列表
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// 未启用 Redis 时使用，注销不产生效果
type noopTokenStore struct{}

func (noopTokenStore) Revoke(context.Context, string, time.Duration) error { return nil }
func (noopTokenStore) IsRevoked(context.Context, string) (bool, error)    { return false, nil }

// Principal 已认证的主体
type Principal struct {
	ID     uint       `json:"id"`
	Number string     `json:"number"`
	Role   model.Role `json:"role"`
}

type LoginRequest struct {
	Number   string `json:"number" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Principal *Principal `json:"principal"`
}

type AuthService struct {
	UserRepo  *repository.UserRepository
	AdminRepo *repository.AdminRepository
	Tokens    TokenStore
	Hasher    PasswordHasher
	Cfg       *config.Config

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	userRepo *repository.UserRepository,
	adminRepo *repository.AdminRepository,
	tokens TokenStore,
	cfg *config.Config,
) *AuthService {
	if tokens == nil {
		tokens = noopTokenStore{}
	}
	return &AuthService{
		UserRepo:  userRepo,
		AdminRepo: adminRepo,
		Tokens:    tokens,
		Hasher:    PasswordHasher{Cost: cfg.Security.BcryptCost},
		Cfg:       cfg,
	}
}

// 未知账号也执行一次同等 cost 的比较，避免通过耗时区分账号是否存在
func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		hashed, err := s.Hasher.Hash(uuid.NewString())
		if err != nil {
			logger.Log.Error("Failed to build dummy password hash", zap.Error(err))
			return
		}
		s.dummyHash = hashed
	})
	_ = s.Hasher.Compare(s.dummyHash, password)
}

func (s *AuthService) AuthenticateUser(ctx context.Context, number, password string) (*Principal, error) {
	user, err := s.UserRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			s.compareDummy(password)
			return nil, fmt.Errorf("%w: invalid credentials", util.ErrAuthFailure)
		}
		return nil, err
	}

	cmpErr := s.Hasher.Compare(user.Password, password)
	if user.IsBlocked {
		logger.Log.Info("Blocked user login rejected", zap.Uint("userID", user.ID))
		return nil, fmt.Errorf("%w: account is blocked", util.ErrAuthFailure)
	}
	if cmpErr != nil {
		return nil, fmt.Errorf("%w: invalid credentials", util.ErrAuthFailure)
	}
	return &Principal{ID: user.ID, Number: user.Number, Role: model.RoleUser}, nil
}

func (s *AuthService) AuthenticateAdmin(ctx context.Context, number, password string) (*Principal, error) {
	admin, err := s.AdminRepo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			s.compareDummy(password)
			return nil, fmt.Errorf("%w: invalid credentials", util.ErrAuthFailure)
		}
		return nil, err
	}

	if err := s.Hasher.Compare(admin.Password, password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", util.ErrAuthFailure)
	}
	return &Principal{ID: admin.ID, Number: admin.Number, Role: model.RoleAdmin}, nil
}

// Login 认证成功后签发令牌
func (s *AuthService) Login(ctx context.Context, role model.Role, req LoginRequest) (*LoginResponse, error) {
	var (
		principal *Principal
		err       error
	)
	switch role {
	case model.RoleUser:
		principal, err = s.AuthenticateUser(ctx, req.Number, req.Password)
	case model.RoleAdmin:
		principal, err = s.AuthenticateAdmin(ctx, req.Number, req.Password)
	default:
		return nil, fmt.Errorf("%w: role %q", util.ErrInvalidEnum, role)
	}
	if err != nil {
		logger.Log.Info("Login failed", zap.String("role", string(role)), zap.String("number", req.Number), zap.Error(err))
		return nil, err
	}

	token, claims, err := util.GenerateJWT(principal.Number, string(principal.Role), s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logger.Log.Info("Login succeeded", zap.String("role", string(role)), zap.Uint("principalID", principal.ID))
	return &LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Principal: principal,
	}, nil
}

// VerifyToken 校验签名、过期与吊销，并按 subject 重新查询主体
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*Principal, *util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, util.StoreError("check token revocation", err)
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: token revoked", util.ErrAuthFailure)
	}

	switch model.Role(claims.Role) {
	case model.RoleUser:
		user, err := s.UserRepo.FindByNumber(ctx, claims.Subject)
		if err != nil {
			return nil, nil, principalLookupError(err, claims)
		}
		if user.IsBlocked {
			return nil, nil, fmt.Errorf("%w: account is blocked", util.ErrAuthFailure)
		}
		return &Principal{ID: user.ID, Number: user.Number, Role: model.RoleUser}, claims, nil
	case model.RoleAdmin:
		admin, err := s.AdminRepo.FindByNumber(ctx, claims.Subject)
		if err != nil {
			return nil, nil, principalLookupError(err, claims)
		}
		return &Principal{ID: admin.ID, Number: admin.Number, Role: model.RoleAdmin}, claims, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown role %q", util.ErrAuthFailure, claims.Role)
	}
}

func principalLookupError(err error, claims *util.Claims) error {
	if errors.Is(err, util.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", util.ErrPrincipalNotFound, claims.Role, claims.Subject)
	}
	return err
}

// Logout 吊销令牌直到其自然过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.Tokens.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
