package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/plannersmart/internal/db"
	"github.com/alexanderramin/plannersmart/internal/domain"
	"github.com/alexanderramin/plannersmart/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	MinAPIKeyLength   = 10

	DefaultTokenTTL = time.Hour
)

// Claims is the payload of a session token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthConfig configures token signing and password hashing.
type AuthConfig struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int // zero uses bcrypt.DefaultCost
}

type authService struct {
	users    repository.UserRepo
	uow      db.UnitOfWork
	cfg      AuthConfig
	observer UseCaseObserver
	now      func() time.Time
}

func NewAuthService(users repository.UserRepo, uow db.UnitOfWork, cfg AuthConfig, observers ...UseCaseObserver) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		users:    users,
		uow:      uow,
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, password, apiKey string) (user *domain.User, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "register",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"username": username},
		})
	}()

	username = strings.TrimSpace(username)
	apiKey = strings.TrimSpace(apiKey)
	switch {
	case username == "" || password == "" || apiKey == "":
		return nil, invalid("Username, password, and API key are required.")
	case len(password) < MinPasswordLength:
		return nil, invalid(fmt.Sprintf("Password must be at least %d characters long.", MinPasswordLength))
	case len(apiKey) < MinAPIKeyLength:
		return nil, invalid("API Key seems too short.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalid("Password is too long.")
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		APIKey:       apiKey,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		if _, err := txUsers.GetByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := txUsers.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (token string, user *domain.User, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "login",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"username": username},
		})
	}()

	if username == "" || password == "" {
		return "", nil, invalid("Username and password are required.")
	}

	user, err = s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err = s.issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) issue(u *domain.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *authService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (s *authService) UpdateAPIKey(ctx context.Context, userID int64, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if len(apiKey) < MinAPIKeyLength {
		return invalid("A valid API Key is required.")
	}
	return s.users.UpdateAPIKey(ctx, userID, apiKey)
}
