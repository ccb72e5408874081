package menusync

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"menu-sync/core/storage"
)

// Archiver stores the raw snapshot document before processing, so a
// disputed sync can be replayed byte for byte. Archiving is best effort:
// the sync proceeds whether or not the upload succeeds.
type Archiver struct {
	client storage.Client
	bucket string
}

// NewArchiver binds an archiver to a storage client and bucket.
func NewArchiver(client storage.Client, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Store uploads one raw snapshot under snapshots/{restaurant}/{syncID}.json
// and returns the object path.
func (a *Archiver) Store(ctx context.Context, restaurantPosID, syncID string, raw []byte) (string, error) {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return "", fmt.Errorf("bucket check failed: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("bucket create failed: %w", err)
		}
	}

	path := fmt.Sprintf("snapshots/%s/%s.json", restaurantPosID, syncID)
	_, err = a.client.PutObject(ctx, a.bucket, path, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"restaurant": restaurantPosID,
			"archived":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("snapshot upload failed: %w", err)
	}
	return path, nil
}
