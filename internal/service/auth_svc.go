package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/adskipper/adskipper-go/internal/apperr"
	"github.com/adskipper/adskipper-go/internal/model"
	"github.com/adskipper/adskipper-go/internal/repository"
)

const tokenLifetime = 7 * 24 * time.Hour

// Claims are the JWT claims embedded in a bearer token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token verification.
type AuthService struct {
	users  *repository.UserRepo
	secret []byte
}

func NewAuthService(users *repository.UserRepo, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret)}
}

// Register creates a new account with an empty reputation ledger.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperr.Validation("", "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, username, string(hash))
	return err
}

// Login verifies credentials and issues a 7-day bearer token together with
// the user's current reputation.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.ErrBadCredentials
	}

	token, err := s.issueToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	rep, err := s.users.GetReputation(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:    token,
		Username: user.Username,
		Points:   rep.TotalPoints,
		Tier:     rep.Tier,
	}, nil
}

// Me returns the current user's profile and reputation.
func (s *AuthService) Me(ctx context.Context, userID int64, username string) (*model.MeResponse, error) {
	rep, err := s.users.GetReputation(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.MeResponse{Username: username, Points: rep.TotalPoints, Tier: rep.Tier}, nil
}

// VerifyToken resolves a bearer token to its claims.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueToken(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
