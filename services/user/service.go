package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "stayhub/database/repository/user"
	"stayhub/models"
	"stayhub/services/notification"
	"stayhub/utils"
)

const tokenTTL = 72 * time.Hour

// RegisterInput is the signup request.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// AuthResult is returned on successful login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService covers account lifecycle: signup, email verification, login,
// password reset and profile management.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	VerifyEmail(ctx context.Context, email, otp string) error
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) error
	ToggleFavorite(ctx context.Context, userID, hotelID string) ([]string, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	users  userRepo.UserRepository
	mailer notification.Mailer
}

// NewUserService constructs a DefaultUserService.
func NewUserService(users userRepo.UserRepository, mailer notification.Mailer) UserService {
	return &DefaultUserService{users: users, mailer: mailer}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *DefaultUserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, utils.ConflictError("an account with this email already exists")
	} else if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, utils.StoreError("failed to check existing account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.StoreError("failed to hash password", err)
	}

	now := time.Now().UTC()
	usr := &models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, usr); err != nil {
		return nil, utils.StoreError("failed to create account", err)
	}

	if err := s.sendOTP(ctx, email, "verify"); err != nil {
		utils.GetLogger().Error("failed to send verification OTP",
			zap.String("email", email), zap.Error(err))
	}
	return usr, nil
}

func (s *DefaultUserService) sendOTP(ctx context.Context, email, purpose string) error {
	otp, err := utils.GenerateOTP(6)
	if err != nil {
		return err
	}
	if err := utils.StoreOTP(ctx, purpose, email, otp); err != nil {
		return err
	}
	return s.mailer.SendOTP(email, otp, purpose)
}

func (s *DefaultUserService) VerifyEmail(ctx context.Context, email, otp string) error {
	email = normalizeEmail(email)
	if err := utils.VerifyOTP(ctx, "verify", email, otp); err != nil {
		return utils.ValidationError("invalid or expired verification code")
	}
	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return utils.NotFoundError("account not found")
		}
		return utils.StoreError("failed to fetch account", err)
	}
	if usr.IsVerified {
		return nil
	}
	if err := s.users.UpdateFields(ctx, usr.ID, map[string]interface{}{"isVerified": true}); err != nil {
		return utils.StoreError("failed to mark account verified", err)
	}
	return nil
}

func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	usr, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.UnauthorizedError("invalid email or password")
		}
		return nil, utils.StoreError("failed to fetch account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(password)); err != nil {
		return nil, utils.UnauthorizedError("invalid email or password")
	}
	if !usr.IsVerified {
		return nil, utils.UnauthorizedError("email address not verified")
	}

	token, err := utils.GenerateToken(usr.ID, usr.Email, usr.IsAdmin(), tokenTTL)
	if err != nil {
		return nil, utils.StoreError("failed to issue token", err)
	}
	return &AuthResult{Token: token, User: usr}, nil
}

func (s *DefaultUserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			// Do not reveal whether the account exists.
			return nil
		}
		return utils.StoreError("failed to fetch account", err)
	}
	if err := s.sendOTP(ctx, email, "reset"); err != nil {
		return utils.StoreError("failed to send reset code", err)
	}
	return nil
}

func (s *DefaultUserService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = normalizeEmail(email)
	if len(newPassword) < 8 {
		return utils.ValidationError("password must be at least 8 characters")
	}
	if err := utils.VerifyOTP(ctx, "reset", email, otp); err != nil {
		return utils.ValidationError("invalid or expired reset code")
	}
	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return utils.NotFoundError("account not found")
		}
		return utils.StoreError("failed to fetch account", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.StoreError("failed to hash password", err)
	}
	if err := s.users.UpdateFields(ctx, usr.ID, map[string]interface{}{"password": string(hash)}); err != nil {
		return utils.StoreError("failed to update password", err)
	}
	return nil
}

func (s *DefaultUserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, utils.NotFoundError("account not found")
		}
		return nil, utils.StoreError("failed to fetch account", err)
	}
	return usr, nil
}

func (s *DefaultUserService) UpdateName(ctx context.Context, userID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return utils.ValidationError("name must not be empty")
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"name": name}); err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return utils.NotFoundError("account not found")
		}
		return utils.StoreError("failed to update profile", err)
	}
	return nil
}

// ToggleFavorite adds or removes a hotel from the user's favorites and
// returns the updated list.
func (s *DefaultUserService) ToggleFavorite(ctx context.Context, userID, hotelID string) ([]string, error) {
	usr, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites := make([]string, 0, len(usr.Favorites)+1)
	removed := false
	for _, id := range usr.Favorites {
		if id == hotelID {
			removed = true
			continue
		}
		favorites = append(favorites, id)
	}
	if !removed {
		favorites = append(favorites, hotelID)
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"favorites": favorites}); err != nil {
		return nil, utils.StoreError("failed to update favorites", err)
	}
	return favorites, nil
}

func (s *DefaultUserService) ListAll(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, utils.StoreError("failed to list users", err)
	}
	return users, nil
}
