package announcement

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/broadcast"
	"gymdesk/internal/logger"
)

type Service interface {
	Publish(ctx context.Context, gymID int, req PublishRequest, now time.Time) (*PublishResponse, error)
	ListByGym(ctx context.Context, gymID int) ([]Announcement, error)
}

type service struct {
	repo        Repository
	broadcaster broadcast.Service
}

func NewService(repo Repository, broadcaster broadcast.Service) Service {
	return &service{repo: repo, broadcaster: broadcaster}
}

// Publish stores the announcement and emails every eligible gym
// member. The announcement persists even when the fan-out reports
// failures; delivery is best-effort by contract.
func (s *service) Publish(ctx context.Context, gymID int, req PublishRequest, now time.Time) (*PublishResponse, error) {
	a, err := s.repo.Create(ctx, gymID, req.Title, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to store announcement: %w", err)
	}

	delivery, err := s.broadcaster.BroadcastToGym(ctx, gymID, req.Title, req.Body, now)
	if err != nil {
		logger.Error("announcement fan-out failed", "gym_id", gymID, "announcement_id", a.ID)
		delivery = &broadcast.Summary{}
	}

	logger.Info("announcement published",
		"gym_id", gymID, "announcement_id", a.ID,
		"attempted", delivery.Attempted, "successful", delivery.Successful)

	return &PublishResponse{Announcement: a, Delivery: delivery}, nil
}

func (s *service) ListByGym(ctx context.Context, gymID int) ([]Announcement, error) {
	return s.repo.ListByGym(ctx, gymID)
}
