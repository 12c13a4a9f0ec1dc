package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yelpcamp/internal/apperror"
	"yelpcamp/internal/config"
	"yelpcamp/internal/models"
	"yelpcamp/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	CurrentUser(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	duration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(cfg.Session.Secret),
		duration: cfg.Session.Duration,
	}
}

// Register creates the account. Username and email must both be unused.
func (s *authService) Register(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Email:    req.Email,
		Username: req.Username,
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login %q: %w", username, err)
	}
	return user, nil
}

// IssueToken signs the identity kept in the session cookie.
func (s *authService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// CurrentUser validates the token and loads the user it names. Any problem
// with the token, or a user that no longer exists, is ErrUnauthenticated.
func (s *authService) CurrentUser(ctx context.Context, tokenString string) (*models.User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %v: %w", err, apperror.ErrUnauthenticated)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("session user %s: %w", claims.Subject, apperror.ErrUnauthenticated)
		}
		return nil, err
	}

	return user, nil
}
