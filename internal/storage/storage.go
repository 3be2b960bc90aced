// Package storage persists finished search reports. Two backends: a local
// directory for interactive use, and S3 for runs whose reports need to
// land in a shared archive.
package storage

import (
	"context"

	"github.com/threatscope/threatscope/pkg/errors"
)

// Store persists one report payload under name and returns the final
// location: an absolute file path for local saves, an s3:// URI for
// uploads.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// Type selects a storage backend.
type Type string

// Supported backends.
const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config holds backend settings. Only the fields of the selected type are
// consulted.
type Config struct {
	Type Type

	// LocalDir is the report directory for local saves. Empty means the
	// current working directory.
	LocalDir string

	// S3 settings. Credentials may be left empty to use the default AWS
	// chain (environment, shared config, IAM role).
	S3Bucket     string
	S3Region     string
	S3Prefix     string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates the configured store.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case TypeLocal, "":
		return NewLocal(cfg.LocalDir)
	case TypeS3:
		return NewS3(ctx, cfg)
	default:
		return nil, &errors.ConfigError{
			Component: "storage",
			Message:   "unknown storage type " + string(cfg.Type),
		}
	}
}
