package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage holds progress photos.
type FileStorage interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) error
	PresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// ProgressPhotoKey returns a fresh object key for a user's photo, e.g.
// "progress/42/0b6f....jpg".
func ProgressPhotoKey(userID int64, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "jpg"
	}
	return path.Join("progress", fmt.Sprint(userID), uuid.NewString()+"."+ext)
}
