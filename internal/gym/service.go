package gym

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrGymNotFound     = errors.New("gym not found")
	ErrInvalidSettings = errors.New("invalid gym settings")
)

const (
	minSessionHours = 1
	maxSessionHours = 24
)

type Service interface {
	CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]Gym, error)
	GetGymByID(ctx context.Context, id int) (*Gym, error)
	UpdateSettings(ctx context.Context, id int, req UpdateSettingsRequest) (*Gym, error)
	ResolveSettings(ctx context.Context, id int) (Settings, error)
}

type service struct {
	repo                Repository
	defaultSessionHours int
	defaultMaxCapacity  int
}

func NewService(repo Repository, defaultSessionHours, defaultMaxCapacity int) Service {
	return &service{
		repo:                repo,
		defaultSessionHours: defaultSessionHours,
		defaultMaxCapacity:  defaultMaxCapacity,
	}
}

func (s *service) CreateGym(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	return s.repo.CreateGym(ctx, req.Name, req.Location)
}

func (s *service) GetAllGyms(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAllGyms(ctx)
}

func (s *service) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	return s.getGym(ctx, id)
}

// getGym maps a missing row to ErrGymNotFound. Anything else is a
// storage failure and stays distinguishable for the caller.
func (s *service) getGym(ctx context.Context, id int) (*Gym, error) {
	gym, err := s.repo.GetGymByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to fetch gym: %w", err)
	}
	return gym, nil
}

func (s *service) UpdateSettings(ctx context.Context, id int, req UpdateSettingsRequest) (*Gym, error) {
	if req.SessionTimeHours != nil &&
		(*req.SessionTimeHours < minSessionHours || *req.SessionTimeHours > maxSessionHours) {
		return nil, ErrInvalidSettings
	}
	if req.MaxCapacity != nil && *req.MaxCapacity <= 0 {
		return nil, ErrInvalidSettings
	}

	if _, err := s.getGym(ctx, id); err != nil {
		return nil, err
	}

	return s.repo.UpdateSettings(ctx, id, req.SessionTimeHours, req.MaxCapacity)
}

// ResolveSettings applies the fallback chain for gym configuration:
// gym row value, then the configured default. A missing gym is an
// error; there is no safe default without one.
func (s *service) ResolveSettings(ctx context.Context, id int) (Settings, error) {
	gym, err := s.getGym(ctx, id)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		SessionHours: s.defaultSessionHours,
		MaxCapacity:  s.defaultMaxCapacity,
	}

	if gym.SessionTimeHours != nil && *gym.SessionTimeHours > 0 {
		settings.SessionHours = *gym.SessionTimeHours
	}
	if settings.SessionHours < minSessionHours {
		settings.SessionHours = minSessionHours
	}
	if settings.SessionHours > maxSessionHours {
		settings.SessionHours = maxSessionHours
	}

	if gym.MaxCapacity != nil && *gym.MaxCapacity > 0 {
		settings.MaxCapacity = *gym.MaxCapacity
	}

	return settings, nil
}
