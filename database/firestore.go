package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

var (
	firestoreClient *firestore.Client
	firestoreErr    error
	firestoreOnce   sync.Once
)

// InitFirestore creates the Firestore client once per process. The service
// account file is used when it exists; otherwise application default
// credentials apply (including FIRESTORE_EMULATOR_HOST).
func InitFirestore(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	firestoreOnce.Do(func() {
		var opts []option.ClientOption
		if credentialsFile != "" {
			if _, err := os.Stat(credentialsFile); err == nil {
				opts = append(opts, option.WithCredentialsFile(credentialsFile))
			} else {
				slog.Warn("[Database] firebase credentials file not found, using default credentials", "path", credentialsFile)
			}
		}

		client, err := firestore.NewClient(ctx, projectID, opts...)
		if err != nil {
			firestoreErr = fmt.Errorf("failed to create firestore client for project %s: %w", projectID, err)
			return
		}
		slog.Info("[Database] firestore client initialized", "project_id", projectID)
		firestoreClient = client
	})
	return firestoreClient, firestoreErr
}
