package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
)

// FirestoreQuotaCollection is the collection holding one document per user.
const FirestoreQuotaCollection = "user_limits"

type firestoreQuotaRepository struct {
	client *firestore.Client
}

// NewFirestoreQuotaRepository creates a QuotaRepository backed by the
// user_limits collection, one document per uid with fields date and count.
func NewFirestoreQuotaRepository(client *firestore.Client) QuotaRepository {
	return &firestoreQuotaRepository{client: client}
}

func (r *firestoreQuotaRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(FirestoreQuotaCollection).Doc(userID)
}

func (r *firestoreQuotaRepository) Get(ctx context.Context, userID string) (*models.UserQuota, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	snap, err := r.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch quota for user %s: %w", userID, err)
	}

	var quota models.UserQuota
	if err := snap.DataTo(&quota); err != nil {
		return nil, fmt.Errorf("corrupt quota document for user %s: %w", userID, err)
	}
	quota.UserID = userID
	return &quota, nil
}

func (r *firestoreQuotaRepository) Save(ctx context.Context, quota *models.UserQuota) error {
	if quota == nil || quota.UserID == "" {
		return ErrEmptyUserID
	}

	_, err := r.doc(quota.UserID).Set(ctx, map[string]interface{}{
		"date":  quota.Date,
		"count": quota.Count,
	})
	if err != nil {
		return fmt.Errorf("failed to save quota for user %s: %w", quota.UserID, err)
	}
	return nil
}

func (r *firestoreQuotaRepository) Increment(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "count", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to increment quota for user %s: %w", userID, err)
	}
	return nil
}
