package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskly-be/internal/cache"
	"taskly-be/internal/email"
	"taskly-be/internal/entities"
	"taskly-be/internal/images"
	"taskly-be/internal/jwt"
	"taskly-be/internal/models"
	"taskly-be/internal/repository"
)

const (
	minPasswordLength = 7
	cacheTTL          = 10 * time.Minute
)

// UserService defines the interface for account and session business logic
type UserService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// Logout revokes exactly the token the request authenticated with;
	// other sessions of the same user stay valid.
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, id string) (*entities.User, error)
	UpdateProfile(ctx context.Context, user *entities.User, upd *models.UserUpdate) (*entities.User, error)
	// DeleteAccount removes the user and every task they own; the cascade
	// and the user removal succeed or fail together.
	DeleteAccount(ctx context.Context, user *entities.User) error
	SetAvatar(ctx context.Context, userID string, raw []byte) error
	ClearAvatar(ctx context.Context, userID string) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtService *jwt.JWTService
	cache      cache.Cache
	sender     email.Sender
	bcryptCost int
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewUserService creates a new user service. cacheClient may be nil for
// graceful degradation without Redis.
func NewUserService(repo repository.UserRepository, jwtService *jwt.JWTService, cacheClient cache.Cache, sender email.Sender, bcryptCost int, logger *slog.Logger) UserService {
	return &userService{
		repo:       repo,
		jwtService: jwtService,
		cache:      cacheClient,
		sender:     sender,
		bcryptCost: bcryptCost,
		validate:   validator.New(),
		logger:     logger,
	}
}

// validatePassword enforces the password policy on the plaintext before it
// is ever hashed
func (s *userService) validatePassword(password string) (string, error) {
	password = strings.TrimSpace(password)
	if len(password) < minPasswordLength {
		return "", invalidField("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return "", invalidField("password", `cannot contain "password"`)
	}
	return password, nil
}

// bcryptHashLen is the length of a canonical bcrypt hash.
// bcrypt.CompareHashAndPassword ignores bytes past the checksum, so the
// length must be checked separately or a hash with trailing garbage would
// still verify.
const bcryptHashLen = 60

func verifyPassword(hash, password string) bool {
	if len(hash) != bcryptHashLen {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *userService) hashPassword(password string) (string, error) {
	plain, err := s.validatePassword(password)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) validateEmail(addr string) (string, error) {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if err := s.validate.Var(addr, "required,email"); err != nil {
		return "", invalidField("email", "is not a valid email address")
	}
	return addr, nil
}

// issueToken generates a signed token and appends it to the user's token
// collection. Issuance always adds a new entry so concurrent sessions on
// other devices are unaffected.
func (s *userService) issueToken(ctx context.Context, userID string) (string, error) {
	token, err := s.jwtService.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.repo.AppendToken(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// Signup creates a new account, issues the first session token, and sends a
// welcome email in the background
func (s *userService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidField("name", "is required")
	}
	if req.Age < 0 {
		return nil, invalidField("age", "must be greater than or equal to 0")
	}
	emailAddr, err := s.validateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, name, emailAddr, hash, req.Age)
	if err != nil {
		return nil, err
	}

	s.sendInBackground(func(ctx context.Context) error {
		return s.sender.SendWelcome(ctx, user.Email, user.Name)
	})

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login verifies credentials and issues a new session token. All credential
// failures collapse into ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !verifyPassword(user.PasswordHash, strings.TrimSpace(req.Password)) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *userService) Logout(ctx context.Context, userID, token string) error {
	return s.repo.RevokeToken(ctx, userID, token)
}

func (s *userService) LogoutAll(ctx context.Context, userID string) error {
	return s.repo.RevokeAllTokens(ctx, userID)
}

// GetProfile returns a user's public profile by id, served from cache when
// possible
func (s *userService) GetProfile(ctx context.Context, id string) (*entities.User, error) {
	if uuid.Validate(id) != nil {
		return nil, repository.ErrNotFound
	}

	if s.cache != nil {
		var user entities.User
		if data, err := s.cache.Get(ctx, profileCacheKey(id)); err == nil {
			if err := json.Unmarshal([]byte(data), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			if err := s.cache.Set(ctx, profileCacheKey(id), string(data), cacheTTL); err != nil {
				s.logger.Warn("failed to cache profile", "user_id", id, "error", err)
			}
		}
	}
	return user, nil
}

// UpdateProfile applies an allow-listed partial update. The password is
// re-hashed only when the payload contains a password field; updates to
// unrelated fields never touch the stored hash.
func (s *userService) UpdateProfile(ctx context.Context, user *entities.User, upd *models.UserUpdate) (*entities.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalidField("name", "is required")
		}
		user.Name = name
	}
	if upd.Email != nil {
		emailAddr, err := s.validateEmail(*upd.Email)
		if err != nil {
			return nil, err
		}
		user.Email = emailAddr
	}
	if upd.Age != nil {
		if *upd.Age < 0 {
			return nil, invalidField("age", "must be greater than or equal to 0")
		}
		user.Age = *upd.Age
	}
	if upd.Password != nil {
		hash, err := s.hashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, user.ID)
	return updated, nil
}

// DeleteAccount removes the user record together with all owned tasks and
// session tokens, then sends a goodbye email in the background. If the task
// cascade fails, the whole deletion fails and the account stays intact.
func (s *userService) DeleteAccount(ctx context.Context, user *entities.User) error {
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.invalidateProfile(ctx, user.ID)
	s.invalidateAvatar(ctx, user.ID)

	s.sendInBackground(func(ctx context.Context) error {
		return s.sender.SendGoodbye(ctx, user.Email, user.Name)
	})
	return nil
}

// SetAvatar normalizes the uploaded image and stores it on the user record
func (s *userService) SetAvatar(ctx context.Context, userID string, raw []byte) error {
	normalized, err := images.Normalize(raw)
	if err != nil {
		return invalidField("avatar", err.Error())
	}
	if err := s.repo.UpdateAvatar(ctx, userID, normalized); err != nil {
		return err
	}
	s.invalidateAvatar(ctx, userID)
	return nil
}

func (s *userService) ClearAvatar(ctx context.Context, userID string) error {
	if err := s.repo.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}
	s.invalidateAvatar(ctx, userID)
	return nil
}

// GetAvatar returns the stored normalized avatar, served from cache when
// possible
func (s *userService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if uuid.Validate(userID) != nil {
		return nil, repository.ErrNotFound
	}

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, avatarCacheKey(userID)); err == nil {
			return []byte(data), nil
		}
	}

	avatar, err := s.repo.GetAvatar(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, avatarCacheKey(userID), string(avatar), cacheTTL); err != nil {
			s.logger.Warn("failed to cache avatar", "user_id", userID, "error", err)
		}
	}
	return avatar, nil
}

// sendInBackground runs a notification delivery without blocking or failing
// the triggering operation. Failures are logged and swallowed.
func (s *userService) sendInBackground(send func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Error("failed to send notification email", "error", err)
		}
	}()
}

func (s *userService) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, profileCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate profile cache", "user_id", userID, "error", err)
	}
}

func (s *userService) invalidateAvatar(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, avatarCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate avatar cache", "user_id", userID, "error", err)
	}
}

func profileCacheKey(userID string) string { return "user:profile:" + userID }
func avatarCacheKey(userID string) string  { return "user:avatar:" + userID }
