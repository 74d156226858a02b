package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gymdesk/internal/gym"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
)

var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMembershipExpired = errors.New("membership expired")
	ErrAlreadyCheckedIn  = errors.New("member already checked in")
	ErrGymNotConfigured  = errors.New("gym configuration unavailable")
)

// ConfirmationSender delivers the best-effort check-in emails.
// Failures are logged by the sender, never surfaced to the kiosk.
type ConfirmationSender interface {
	SendCheckInConfirmation(ctx context.Context, to, name, gymName string, checkOut time.Time) error
	SendExpiryReminder(ctx context.Context, to, name, gymName string, expiry time.Time) error
}

type Service interface {
	FindEligibleMember(ctx context.Context, gymID int, code string, now time.Time) (*member.Member, error)
	CheckIn(ctx context.Context, gymID int, code string, now time.Time) (*CheckInResponse, error)
	RecordCheckIn(ctx context.Context, m *member.Member, gymID int, now time.Time) (*Session, error)
	CurrentOccupancy(ctx context.Context, gymID int, now time.Time) (*Occupancy, error)
	RecentSessions(ctx context.Context, gymID, limit int) ([]SessionWithMember, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	gymService gym.Service
	confirm    ConfirmationSender
}

func NewService(repo Repository, memberRepo member.Repository, gymService gym.Service, confirm ConfirmationSender) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		gymService: gymService,
		confirm:    confirm,
	}
}

// FindEligibleMember resolves a member code within one gym and gates on
// the effective status. Active and expiring-soon members may check in;
// expired members are turned away. Lookups never cross gyms.
func (s *service) FindEligibleMember(ctx context.Context, gymID int, code string, now time.Time) (*member.Member, error) {
	m, err := s.memberRepo.FindByCode(ctx, gymID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to look up member: %w", err)
	}

	if m.EffectiveStatus(now) == membership.StatusExpired {
		return nil, ErrMembershipExpired
	}

	return m, nil
}

// RecordCheckIn creates a session with a checkout time derived from the
// gym's session length. The no-overlap invariant is enforced inside the
// repository transaction, not by a read here.
func (s *service) RecordCheckIn(ctx context.Context, m *member.Member, gymID int, now time.Time) (*Session, error) {
	settings, err := s.gymService.ResolveSettings(ctx, gymID)
	if err != nil {
		if errors.Is(err, gym.ErrGymNotFound) {
			return nil, ErrGymNotConfigured
		}
		return nil, fmt.Errorf("failed to resolve gym settings: %w", err)
	}

	checkOut := now.Add(time.Duration(settings.SessionHours) * time.Hour)

	session, err := s.repo.CreateSession(ctx, m.ID, gymID, now, checkOut)
	if err != nil {
		if errors.Is(err, ErrActiveSessionExists) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	return session, nil
}

func (s *service) CheckIn(ctx context.Context, gymID int, code string, now time.Time) (*CheckInResponse, error) {
	m, err := s.FindEligibleMember(ctx, gymID, code, now)
	if err != nil {
		return nil, err
	}

	session, err := s.RecordCheckIn(ctx, m, gymID, now)
	if err != nil {
		return nil, err
	}

	if s.confirm != nil && m.Email != "" {
		g, gerr := s.gymService.GetGymByID(ctx, gymID)
		gymName := ""
		if gerr == nil {
			gymName = g.Name
		}
		s.confirm.SendCheckInConfirmation(ctx, m.Email, m.Name, gymName, session.CheckOutTime)

		// An expiring-soon member gets nudged to renew while they are
		// standing at the kiosk anyway.
		if m.EffectiveStatus(now) == membership.StatusExpiringSoon && m.ExpiryDate != nil {
			s.confirm.SendExpiryReminder(ctx, m.Email, m.Name, gymName, *m.ExpiryDate)
		}
	}

	metrics.RecordCheckIn("ok")

	return &CheckInResponse{
		Session:    session,
		MemberName: m.Name,
		Status:     m.EffectiveStatus(now),
	}, nil
}

func (s *service) CurrentOccupancy(ctx context.Context, gymID int, now time.Time) (*Occupancy, error) {
	settings, err := s.gymService.ResolveSettings(ctx, gymID)
	if err != nil {
		if errors.Is(err, gym.ErrGymNotFound) {
			return nil, ErrGymNotConfigured
		}
		return nil, fmt.Errorf("failed to resolve gym settings: %w", err)
	}

	count, err := s.repo.CountActive(ctx, gymID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count occupancy: %w", err)
	}

	metrics.SetGymOccupancy(strconv.Itoa(gymID), count)

	return &Occupancy{
		GymID:       gymID,
		Current:     count,
		MaxCapacity: settings.MaxCapacity,
	}, nil
}

func (s *service) RecentSessions(ctx context.Context, gymID, limit int) ([]SessionWithMember, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListRecentByGym(ctx, gymID, limit)
}
