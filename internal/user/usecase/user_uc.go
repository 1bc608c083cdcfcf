package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carhub/car-inventory/internal/mailer"
	"github.com/carhub/car-inventory/internal/platform/logger"
	"github.com/carhub/car-inventory/internal/user/entity"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const tokenTTL = 72 * time.Hour

// UserRepository is the persistence port for accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

// TokenCache tracks the currently issued token per user so logout can
// invalidate a session before the JWT itself expires.
type TokenCache interface {
	CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error
	InvalidateToken(ctx context.Context, userID string) error
}

// Claims is the JWT payload shared with the HTTP auth middleware.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type UserUsecase struct {
	repo      UserRepository
	tokens    TokenCache
	mail      mailer.Mailer
	jwtSecret string
	logger    *logger.Logger
}

func NewUserUsecase(repo UserRepository, tokens TokenCache, mail mailer.Mailer, jwtSecret string, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		tokens:    tokens,
		mail:      mail,
		jwtSecret: jwtSecret,
		logger:    log.Named("UserUsecase"),
	}
}

// Register creates an account and logs it in immediately, returning the
// stored user and a fresh token. The welcome mail is best-effort.
func (u *UserUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	if err := u.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}
	u.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("email", email))

	token, err := u.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	if u.mail != nil {
		if err := u.mail.SendWelcomeEmail(user.Email, user.Name); err != nil {
			u.logger.Warn("failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
		}
	}
	return user, token, nil
}

// Login verifies the credentials and returns the user with a fresh
// token. Unknown email and wrong password are indistinguishable.
func (u *UserUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := u.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		u.logger.Warn("login failed", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	token, err := u.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	u.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, token, nil
}

// Logout invalidates the user's cached token.
func (u *UserUsecase) Logout(ctx context.Context, userID string) error {
	return u.tokens.InvalidateToken(ctx, userID)
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return u.repo.GetUserByID(ctx, userID)
}

func (u *UserUsecase) issueToken(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.jwtSecret))
	if err != nil {
		return "", err
	}
	if err := u.tokens.CacheToken(ctx, userID, token, tokenTTL); err != nil {
		u.logger.Warn("failed to cache session token", zap.String("user_id", userID), zap.Error(err))
	}
	return token, nil
}
