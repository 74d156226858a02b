package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"gymdesk/internal/email"
	"gymdesk/internal/gym"
	"gymdesk/internal/logger"
	"gymdesk/internal/member"
	"gymdesk/internal/membership"
	"gymdesk/internal/metrics"
)

var (
	ErrNoMatchingMembers = errors.New("no matching members")
	ErrInvalidStatus     = errors.New("invalid status")
)

// Sender delivers one email synchronously and reports the outcome as
// data. A failed send increments a counter; it never aborts a bulk run.
type Sender interface {
	SendNow(ctx context.Context, to, subject, body string) email.Result
}

// Summary is the accounting contract for a bulk email run. Attempted
// always equals Successful+Failed; NoEmailAddress counts eligible
// members without an address. Ineligible members land in no bucket.
type Summary struct {
	Attempted      int `json:"attempted"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
	NoEmailAddress int `json:"no_email_address"`
}

type StatusChangeResult struct {
	SuccessCount   int `json:"success_count"`
	ErrorCount     int `json:"error_count"`
	EmailSentCount int `json:"email_sent_count"`
}

type Service interface {
	BulkSetStatus(ctx context.Context, gymID int, memberIDs []int, newStatus string) (*StatusChangeResult, error)
	BulkSendEmail(ctx context.Context, gymID int, memberIDs []int, subject, bodyTemplate string, embedQR bool, now time.Time) (*Summary, error)
	BroadcastToGym(ctx context.Context, gymID int, subject, bodyTemplate string, now time.Time) (*Summary, error)
}

type service struct {
	memberRepo member.Repository
	gymService gym.Service
	sender     Sender
	workers    int
}

func NewService(memberRepo member.Repository, gymService gym.Service, sender Sender, workers int) Service {
	if workers <= 0 {
		workers = 1
	}
	return &service{
		memberRepo: memberRepo,
		gymService: gymService,
		sender:     sender,
		workers:    workers,
	}
}

// BulkSetStatus updates the stored status for all matching members and
// then notifies the updated members that have an address. Email
// failures are counted, never rolled back into the status change.
func (s *service) BulkSetStatus(ctx context.Context, gymID int, memberIDs []int, newStatus string) (*StatusChangeResult, error) {
	if newStatus != membership.StoredActive && newStatus != membership.StoredExpired {
		return nil, ErrInvalidStatus
	}

	matched, err := s.memberRepo.ListByIDs(ctx, gymID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	if len(matched) == 0 {
		return nil, ErrNoMatchingMembers
	}

	ids := make([]int, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.ID)
	}

	updated, err := s.memberRepo.UpdateStatus(ctx, gymID, ids, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	result := &StatusChangeResult{
		SuccessCount: updated,
		ErrorCount:   len(memberIDs) - updated,
	}
	metrics.RecordBulkStatusUpdate(newStatus, updated)

	gymName := s.gymName(ctx, gymID)

	var recipients []member.Member
	for _, m := range matched {
		if m.Email != "" {
			recipients = append(recipients, m)
		}
	}

	sent := s.sendToAll(ctx, recipients, func(m member.Member) (string, string) {
		return email.StatusChangeNotice(m.Name, gymName, newStatus)
	})
	result.EmailSentCount = sent.Successful

	return result, nil
}

// BulkSendEmail fans a templated email out over the named members.
// Eligibility is the broadcast predicate: effective status active or
// expiring soon, with an address. Ineligible members are skipped
// silently and land in no counter.
func (s *service) BulkSendEmail(ctx context.Context, gymID int, memberIDs []int, subject, bodyTemplate string, embedQR bool, now time.Time) (*Summary, error) {
	matched, err := s.memberRepo.ListByIDs(ctx, gymID, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	if len(matched) == 0 {
		return nil, ErrNoMatchingMembers
	}

	// A group send must never embed one member's QR code for everyone.
	embedQR = embedQR && len(memberIDs) == 1 && len(matched) == 1

	return s.fanOut(ctx, gymID, matched, subject, bodyTemplate, embedQR, now), nil
}

// BroadcastToGym sends to every eligible member of a gym. Used for
// announcement delivery; shares the bulk accounting contract.
func (s *service) BroadcastToGym(ctx context.Context, gymID int, subject, bodyTemplate string, now time.Time) (*Summary, error) {
	members, err := s.memberRepo.ListByGym(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	return s.fanOut(ctx, gymID, members, subject, bodyTemplate, false, now), nil
}

func (s *service) fanOut(ctx context.Context, gymID int, members []member.Member, subject, bodyTemplate string, embedQR bool, now time.Time) *Summary {
	gymName := s.gymName(ctx, gymID)
	body := substitutePlaceholders(bodyTemplate, gymName, gymID)

	summary := &Summary{}
	var recipients []member.Member
	for _, m := range members {
		eligible := membership.BroadcastEligible(m.MembershipStatus, m.ExpiryDate, m.Email, now)
		if eligible {
			summary.Attempted++
			recipients = append(recipients, m)
			continue
		}

		// Eligible but for the address: count separately. Fully
		// ineligible members are dropped without a counter.
		status := membership.EffectiveStatus(m.MembershipStatus, m.ExpiryDate, now)
		if m.Email == "" && status != membership.StatusExpired {
			summary.NoEmailAddress++
		}
	}

	sent := s.sendToAll(ctx, recipients, func(m member.Member) (string, string) {
		personal := body
		if embedQR {
			personal += "\n" + qrImageTag(m.MemberCode)
		}
		return subject, personal
	})
	summary.Successful = sent.Successful
	summary.Failed = sent.Failed

	metrics.RecordBroadcast("attempted", summary.Attempted)
	metrics.RecordBroadcast("successful", summary.Successful)
	metrics.RecordBroadcast("failed", summary.Failed)
	metrics.RecordBroadcast("no_email_address", summary.NoEmailAddress)

	return summary
}

type sendOutcome struct {
	Successful int
	Failed     int
}

// sendToAll pushes the recipients through a bounded worker pool. Each
// send is isolated; order across members carries no meaning and the
// counters are identical to a sequential loop.
func (s *service) sendToAll(ctx context.Context, recipients []member.Member, compose func(member.Member) (subject, body string)) sendOutcome {
	if len(recipients) == 0 {
		return sendOutcome{}
	}

	jobs := make(chan member.Member)
	var mu sync.Mutex
	var outcome sendOutcome
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(recipients) {
		workers = len(recipients)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				subject, body := compose(m)
				result := s.sender.SendNow(ctx, m.Email, subject, body)

				mu.Lock()
				if result.Success {
					outcome.Successful++
				} else {
					outcome.Failed++
				}
				mu.Unlock()

				if !result.Success {
					logger.Error("broadcast send failed", "to", m.Email, "reason", result.Message)
				}
			}
		}()
	}

	for _, m := range recipients {
		jobs <- m
	}
	close(jobs)
	wg.Wait()

	return outcome
}

func (s *service) gymName(ctx context.Context, gymID int) string {
	g, err := s.gymService.GetGymByID(ctx, gymID)
	if err != nil {
		return ""
	}
	return g.Name
}

// substitutePlaceholders replaces {{gymName}} and {{gymId}} globally.
// Unknown placeholders are left verbatim.
func substitutePlaceholders(body, gymName string, gymID int) string {
	body = strings.ReplaceAll(body, "{{gymName}}", gymName)
	body = strings.ReplaceAll(body, "{{gymId}}", strconv.Itoa(gymID))
	return body
}

func qrImageTag(memberCode string) string {
	return fmt.Sprintf(`<img src="https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=%s" alt="membership QR">`,
		url.QueryEscape(memberCode))
}
