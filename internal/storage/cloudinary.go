// Package storage uploads webcam snapshots to the external image store.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/examind/proctor-backend/internal/config"
)

// SnapshotStore persists one proctoring image and returns where it lives.
type SnapshotStore interface {
	Upload(ctx context.Context, sessionID string, r io.Reader) (url, publicID string, err error)
}

type cloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a SnapshotStore backed by Cloudinary.
func NewCloudinaryStore(cfg *config.Config) (SnapshotStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &cloudinaryStore{cld: cld, folder: cfg.CloudinaryFolder}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, sessionID string, r io.Reader) (string, string, error) {
	publicID := fmt.Sprintf("%s_%d", sessionID, time.Now().UnixMilli())

	resp, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: publicID,
	})
	if err != nil {
		return "", "", fmt.Errorf("upload snapshot: %w", err)
	}
	if resp.Error.Message != "" {
		return "", "", fmt.Errorf("upload snapshot: %s", resp.Error.Message)
	}
	return resp.SecureURL, resp.PublicID, nil
}
