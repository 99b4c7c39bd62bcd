package storage

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/config"
)

// New returns the media store selected by MEDIA_BACKEND
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case config.MediaLocal:
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	case config.MediaS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3Store(s3cfg), nil
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
}
