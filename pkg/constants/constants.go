// Package constants provides shared constants used throughout threatscope.
package constants

import "time"

// Timeouts.
const (
	// DefaultHTTPTimeout is the standard timeout for a single feed request.
	DefaultHTTPTimeout = 60 * time.Second

	// DialTimeout is the timeout for establishing network connections.
	DialTimeout = 10 * time.Second
)

// File permissions.
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x).
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--).
	FilePermissions = 0644
)

// Network limits.
const (
	// MaxIdleConnections is the maximum number of idle connections in the pool.
	MaxIdleConnections = 10
)

// Paths.
const (
	// CacheDirName is the per-user cache subdirectory for downloaded bundles.
	CacheDirName = "threatscope"
)
