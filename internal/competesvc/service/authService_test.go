package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/avvvet/arena-services/internal/competesvc/store"
)

func memoryUsers() *fakeUsers {
	byEmail := map[string]*models.User{}
	var nextID int64
	f := &fakeUsers{}
	f.getByEmailFn = func(email string) (*models.User, error) {
		return byEmail[email], nil
	}
	f.createFn = func(user models.User) (*models.User, error) {
		nextID++
		user.ID = nextID
		byEmail[user.Email] = &user
		return &user, nil
	}
	return f
}

func TestRegisterAndLogin(t *testing.T) {
	users := memoryUsers()
	svc := NewAuthService(users, "secret", "pepper", time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Name:     " Ada ",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.Name)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	logged, token, err := svc.Login(ctx, "ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, token)

	decoded, err := svc.TokenAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(ctx)
	require.NoError(t, err)

	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.WithinDuration(t, time.Now().Add(time.Hour), decoded.Expiration(), time.Minute)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := memoryUsers()
	svc := NewAuthService(users, "secret", "pepper", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "b@example.com", Password: "password1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "b@example.com", "password2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPepperChangesHash(t *testing.T) {
	a := NewAuthService(memoryUsers(), "secret", "pepper-a", time.Hour)
	b := NewAuthService(memoryUsers(), "secret", "pepper-b", time.Hour)

	hash, err := a.HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, a.ComparePassword("hunter22", hash))
	assert.False(t, b.ComparePassword("hunter22", hash))
}

func TestRegister_EmailTaken(t *testing.T) {
	users := memoryUsers()
	svc := NewAuthService(users, "secret", "pepper", time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "C", Email: "c@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "C2", Email: "C@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ConcurrentDuplicateIsEmailTaken(t *testing.T) {
	users := &fakeUsers{
		getByEmailFn: func(string) (*models.User, error) { return nil, nil },
		createFn: func(models.User) (*models.User, error) {
			return nil, &store.DataAccessError{Op: "UserStore.CreateUser", Err: &pgconn.PgError{Code: "23505"}}
		},
	}
	svc := NewAuthService(users, "secret", "pepper", time.Hour)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "D", Email: "d@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserIDFromClaims_Missing(t *testing.T) {
	_, err := UserIDFromClaims(map[string]interface{}{})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = UserIDFromClaims(map[string]interface{}{ClaimUserID: "abc"})
	assert.True(t, errors.As(err, &ve))
}
