package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata" // reset boundary must not depend on the host zoneinfo

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
	"github.com/Bagus-DevLab/chatbot-smartgarden/repository"
)

// DefaultDailyLimit applies when a non-positive limit is requested.
const DefaultDailyLimit = 10

// QuotaTimeZone anchors the daily reset at local midnight in Indonesia (WIB).
const QuotaTimeZone = "Asia/Jakarta"

var jakarta = loadJakarta()

func loadJakarta() *time.Location {
	loc, err := time.LoadLocation(QuotaTimeZone)
	if err != nil {
		return time.FixedZone("WIB", 7*60*60)
	}
	return loc
}

// QuotaDate formats t as the quota calendar date in Asia/Jakarta.
func QuotaDate(t time.Time) string {
	return t.In(jakarta).Format(models.QuotaDateLayout)
}

// QuotaService decides whether a user may send another chat message today.
type QuotaService interface {
	// CheckAndConsume reports whether the user is under maxPerDay for today
	// and, if so, records the request.
	CheckAndConsume(ctx context.Context, userID string, maxPerDay int) (bool, error)
	// Status reports today's usage without recording anything.
	Status(ctx context.Context, userID string, maxPerDay int) (*models.QuotaStatus, error)
}

type quotaService struct {
	repo repository.QuotaRepository
	now  func() time.Time
}

// QuotaOption customizes a QuotaService.
type QuotaOption func(*quotaService)

// WithClock replaces time.Now, mainly for tests crossing midnight.
func WithClock(now func() time.Time) QuotaOption {
	return func(s *quotaService) {
		s.now = now
	}
}

// NewQuotaService creates a QuotaService over the given repository.
func NewQuotaService(repo repository.QuotaRepository, opts ...QuotaOption) QuotaService {
	s := &quotaService{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAndConsume reads the record, then writes it in a separate call. Two
// concurrent requests from one user can both pass the check.
func (s *quotaService) CheckAndConsume(ctx context.Context, userID string, maxPerDay int) (bool, error) {
	if maxPerDay <= 0 {
		maxPerDay = DefaultDailyLimit
	}
	today := QuotaDate(s.now())

	quota, err := s.repo.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("quota check for user %s: %w", userID, err)
	}

	switch {
	case quota == nil:
		if err := s.repo.Save(ctx, &models.UserQuota{UserID: userID, Date: today, Count: 1}); err != nil {
			return false, fmt.Errorf("quota create for user %s: %w", userID, err)
		}
		slog.Info("[QuotaService] first request recorded", "user_id", userID, "date", today)
		return true, nil

	case quota.Date == today:
		if quota.Count >= maxPerDay {
			slog.Info("[QuotaService] daily quota exhausted", "user_id", userID, "date", today, "count", quota.Count, "limit", maxPerDay)
			return false, nil
		}
		if err := s.repo.Increment(ctx, userID); err != nil {
			return false, fmt.Errorf("quota increment for user %s: %w", userID, err)
		}
		return true, nil

	default:
		if err := s.repo.Save(ctx, &models.UserQuota{UserID: userID, Date: today, Count: 1}); err != nil {
			return false, fmt.Errorf("quota reset for user %s: %w", userID, err)
		}
		slog.Info("[QuotaService] quota reset for new day", "user_id", userID, "previous_date", quota.Date, "date", today)
		return true, nil
	}
}

func (s *quotaService) Status(ctx context.Context, userID string, maxPerDay int) (*models.QuotaStatus, error) {
	if maxPerDay <= 0 {
		maxPerDay = DefaultDailyLimit
	}
	today := QuotaDate(s.now())

	quota, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("quota status for user %s: %w", userID, err)
	}

	used := 0
	if quota != nil && quota.Date == today {
		used = quota.Count
	}
	remaining := maxPerDay - used
	if remaining < 0 {
		remaining = 0
	}
	return &models.QuotaStatus{Date: today, Used: used, Limit: maxPerDay, Remaining: remaining}, nil
}
