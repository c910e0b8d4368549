package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
)

// ErrEmptyUserID is returned when a quota operation is called without a user id.
var ErrEmptyUserID = errors.New("user ID cannot be empty")

// QuotaRepository stores one UserQuota record per user.
type QuotaRepository interface {
	// Get returns the stored record, or nil and no error when the user has none.
	Get(ctx context.Context, userID string) (*models.UserQuota, error)
	// Save creates or overwrites the record with the given date and count.
	Save(ctx context.Context, quota *models.UserQuota) error
	// Increment adds one to the stored count without touching the date.
	Increment(ctx context.Context, userID string) error
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a QuotaRepository backed by a SQL database.
// The user_limits table is expected to be migrated already (see database.Open).
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

func (r *quotaRepository) Get(ctx context.Context, userID string) (*models.UserQuota, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	var quota models.UserQuota
	err := r.db.WithContext(ctx).First(&quota, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch quota for user %s: %w", userID, err)
	}
	return &quota, nil
}

func (r *quotaRepository) Save(ctx context.Context, quota *models.UserQuota) error {
	if quota == nil || quota.UserID == "" {
		return ErrEmptyUserID
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "count", "updated_at"}),
	}).Create(quota).Error
	if err != nil {
		return fmt.Errorf("failed to save quota for user %s: %w", quota.UserID, err)
	}
	slog.Debug("[QuotaRepository] quota saved", "user_id", quota.UserID, "date", quota.Date, "count", quota.Count)
	return nil
}

func (r *quotaRepository) Increment(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	res := r.db.WithContext(ctx).Model(&models.UserQuota{}).
		Where("user_id = ?", userID).
		Update("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, gorm.ErrRecordNotFound)
	}
	return nil
}
