package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/avvvet/arena-services/internal/competesvc/store"
	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	ClaimUserID = "user_id"
)

type RegisterInput struct {
	Name        string
	Email       string
	Institution string
	Password    string
}

type AuthService struct {
	users     UserRepository
	tokenAuth *jwtauth.JWTAuth
	pepper    []byte
	tokenTTL  time.Duration
}

func NewAuthService(users UserRepository, jwtSecret, pepper string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		tokenAuth: jwtauth.New("HS256", []byte(jwtSecret), nil),
		pepper:    []byte(pepper),
		tokenTTL:  tokenTTL,
	}
}

// TokenAuth is used by the router to verify bearer tokens.
func (s *AuthService) TokenAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

// peppered keys the password with the server-side pepper. The result is
// fixed length, which keeps it under bcrypt's 72 byte input limit.
func (s *AuthService) peppered(password string) []byte {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(s.peppered(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), s.peppered(password)) == nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Institution:  strings.TrimSpace(in.Institution),
		PasswordHash: hash,
	})
	if err != nil {
		// lost a race with a concurrent registration
		var dae *store.DataAccessError
		if errors.As(err, &dae) && dae.IsConstraint() {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil || !s.ComparePassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) IssueToken(userID int64) (string, error) {
	claims := map[string]interface{}{
		ClaimUserID: strconv.FormatInt(userID, 10),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, s.tokenTTL)

	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// UserIDFromClaims extracts the user id written by IssueToken.
func UserIDFromClaims(claims map[string]interface{}) (int64, error) {
	raw, ok := claims[ClaimUserID].(string)
	if !ok {
		return 0, &ValidationError{Field: "token", Reason: "missing user id"}
	}
	return ParseID("token user id", raw)
}
