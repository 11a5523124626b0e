package storage

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no image store is configured.
var ErrDisabled = errors.New("snapshot storage is not configured")

// Disabled rejects every upload. Snapshot uploads are a hard failure by
// contract, so an unconfigured store must not silently accept images.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, sessionID string, r io.Reader) (string, string, error) {
	return "", "", ErrDisabled
}
