package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"quickmoney-backend/internal/config"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/model"
	"quickmoney-backend/internal/repository"
	"quickmoney-backend/internal/token"
)

type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWT
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWT, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		logger:   logger,
	}
}

func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Username:     strings.TrimSpace(req.Username),
		Role:         model.RoleUser,
		ReferralCode: generateReferralCode(),
	}

	// An unknown referral code is ignored rather than failing the signup.
	if code := strings.TrimSpace(req.ReferralCode); code != "" {
		referrer, err := s.userRepo.FindByReferralCode(ctx, code)
		if err == nil {
			user.ReferredBy = &referrer.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup referral code: %w", err)
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", user.ID),
		zap.Bool("referred", user.ReferredBy != nil),
	)

	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if user.IsBanned {
		return "", ErrUserBanned
	}

	jwtToken, err := token.Generate(s.jwtCfg.Secret, s.jwtCfg.Expiry, user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return jwtToken, nil
}

func generateReferralCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return strings.ToUpper(hex.EncodeToString(bytes))
}
