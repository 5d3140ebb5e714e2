package service

import (
	"context"
	"errors"
	"strings"

	"skill_extractor_backend/internal/config"
	"skill_extractor_backend/internal/model"
	"skill_extractor_backend/internal/repository"
	"skill_extractor_backend/internal/util"
	"skill_extractor_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.UserRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, util.InternalError(err, "Failed to register user")
	}
	if exists {
		return nil, util.ConflictError("Username already exists")
	}
	exists, err = s.UserRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, util.InternalError(err, "Failed to register user")
	}
	if exists {
		return nil, util.ConflictError("Email already exists")
	}

	user, err := s.createUser(ctx, username, email, req.Password)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("User registered", zap.Uint("userId", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.UnauthorizedError("Invalid username or password")
		}
		return nil, util.InternalError(err, "Failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.UnauthorizedError("Invalid username or password")
	}

	token, err := util.GenerateJWT(user.ID, user.Username, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, util.InternalError(err, "Failed to issue token")
	}

	return &model.AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Message:  "Login successful",
	}, nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context) error {
	admin := s.Cfg.Admin
	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	exists, err := s.UserRepo.ExistsByUsername(ctx, admin.Username)
	if err != nil || exists {
		return err
	}

	email := admin.Email
	if email == "" {
		email = admin.Username + "@localhost"
	}
	user, err := s.createUser(ctx, admin.Username, email, admin.Password)
	if err != nil {
		return err
	}
	logger.Log.Info("Admin user created", zap.Uint("userId", user.ID), zap.String("username", user.Username))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.InternalError(err, "Failed to hash password")
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, util.InternalError(err, "Failed to create user")
	}
	return user, nil
}
