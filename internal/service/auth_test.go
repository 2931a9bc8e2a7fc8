package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
)

type stubUserRepo struct {
	users  map[string]domain.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:  map[string]domain.User{},
		nextID: 1,
	}
}

func (s *stubUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := s.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := s.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and strips roles", func(t *testing.T) {
		svc := NewAuthService(newStubUserRepo())

		created, err := svc.Signup(ctx, domain.User{
			Email:    "dana@example.com",
			Password: "secret-password",
			FullName: "Dana Levi",
			Roles:    []string{"admin"},
		})

		require.NoError(t, err)
		assert.NotEqual(t, "secret-password", created.Password)
		// Self-signup never grants access; an admin assigns roles later.
		assert.Empty(t, created.Roles)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc := NewAuthService(newStubUserRepo())

		_, err := svc.Signup(ctx, domain.User{Email: "dana@example.com", Password: "secret-password"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, domain.User{Email: "dana@example.com", Password: "other-password"})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	repo := newStubUserRepo()
	svc := NewAuthService(repo)

	_, err := svc.Signup(ctx, domain.User{
		Email:    "dana@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, "dana@example.com", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "dana@example.com", "nope")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "secret-password")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
