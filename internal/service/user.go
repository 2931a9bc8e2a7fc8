package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

const usersTable = "users"

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	repo  UserRepository
	audit AuditRecorder
}

func NewUserService(repo UserRepository, audit AuditRecorder) *UserService {
	return &UserService{
		repo:  repo,
		audit: audit,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// CreateUser is the administrative path: the account is created with its
// roles already assigned.
func (s *UserService) CreateUser(ctx context.Context, user domain.User, actorID uint) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditCreated, usersTable, recordID(created.ID), map[string]any{
		"email": created.Email,
		"roles": created.Roles,
	})

	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user domain.User, actorID uint) (domain.User, error) {
	existing, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, err
	}

	existing.FullName = user.FullName
	existing.Phone = user.Phone
	existing.Roles = user.Roles

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditUpdated, usersTable, recordID(updated.ID), map[string]any{
		"full_name": updated.FullName,
		"roles":     updated.Roles,
	})

	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint, actorID uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.audit.Record(ctx, actorID, domain.AuditDeleted, usersTable, recordID(id), map[string]any{
		"email": user.Email,
	})

	return nil
}
