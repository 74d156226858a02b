package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymdesk/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOwnerNotFound      = errors.New("owner not found")
)

const roleOwner = "owner"

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Owner, string, string, error)
	Login(ctx context.Context, req LoginRequest) (*Owner, string, string, error)
	GetByID(ctx context.Context, ownerID int) (*Owner, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *Owner, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Owner, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	o, err := s.repo.Create(ctx, req.Name, req.Email, passwordHash, roleOwner)
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(o.ID, o.Email, o.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return o, accessToken, refreshToken, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Owner, string, string, error) {
	o, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("failed to fetch owner: %w", err)
	}

	if !auth.CheckPassword(o.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(o.ID, o.Email, o.Role, s.jwtSecret)
	if err != nil {
		return nil, "", "", err
	}

	return o, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, ownerID int) (*Owner, error) {
	o, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to fetch owner: %w", err)
	}
	return o, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *Owner, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	o, err := s.GetByID(ctx, claims.OwnerID)
	if err != nil {
		return "", nil, err
	}

	newAccessToken, err := auth.GenerateAccessToken(o.ID, o.Email, o.Role, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, o, nil
}
