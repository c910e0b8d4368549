package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
)

const redisQuotaKeyPrefix = "user_limits:"

type redisQuotaRepository struct {
	client redis.UniversalClient
}

// NewRedisQuotaRepository creates a QuotaRepository storing each record as a
// hash user_limits:<uid> with fields date and count.
func NewRedisQuotaRepository(client redis.UniversalClient) QuotaRepository {
	return &redisQuotaRepository{client: client}
}

func redisQuotaKey(userID string) string {
	return redisQuotaKeyPrefix + userID
}

func (r *redisQuotaRepository) Get(ctx context.Context, userID string) (*models.UserQuota, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	fields, err := r.client.HGetAll(ctx, redisQuotaKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quota for user %s: %w", userID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	count := 0
	if raw, ok := fields["count"]; ok {
		count, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt quota count for user %s: %w", userID, err)
		}
	}
	return &models.UserQuota{UserID: userID, Date: fields["date"], Count: count}, nil
}

func (r *redisQuotaRepository) Save(ctx context.Context, quota *models.UserQuota) error {
	if quota == nil || quota.UserID == "" {
		return ErrEmptyUserID
	}

	key := redisQuotaKey(quota.UserID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "date", quota.Date, "count", quota.Count)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save quota for user %s: %w", quota.UserID, err)
	}
	return nil
}

func (r *redisQuotaRepository) Increment(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	key := redisQuotaKey(userID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, err)
	}
	if exists == 0 {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, errors.New("no quota record"))
	}
	if err := r.client.HIncrBy(ctx, key, "count", 1).Err(); err != nil {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, err)
	}
	return nil
}
