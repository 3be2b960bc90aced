// Package attack fetches MITRE ATT&CK enterprise bundles from the official
// CTI release artifacts and exposes the intrusion-set objects as a
// structured source for the search pipeline.
package attack

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/threatscope/threatscope/internal/transport"
	"github.com/threatscope/threatscope/pkg/constants"
	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/logging"
)

const (
	// FeedName labels this feed in logs and errors.
	FeedName = "MITRE ATT&CK"

	// DefaultVersion is the ATT&CK release fetched when none is given.
	DefaultVersion = "18.1"

	// releasesURL lists the published ATT&CK versions, for the hint shown
	// when a requested release does not exist.
	releasesURL = "https://github.com/mitre/cti/releases"

	// releaseBase is the CTI release-artifact prefix. Release tags embed a
	// literal ampersand, pre-encoded so the tag survives URL parsing.
	releaseBase = "https://github.com/mitre/cti/releases/download/ATT%26CK-v"

	bundleFile = "enterprise-attack.json"
)

// BundleURL returns the release-artifact URL for an ATT&CK version,
// e.g. version "18.1" maps to
// .../download/ATT%26CK-v18.1/enterprise-attack.json.
func BundleURL(version string) string {
	return releaseBase + version + "/" + bundleFile
}

// bundle is the slice of the STIX bundle shape the pipeline consumes.
// Everything but the object list is ignored.
type bundle struct {
	Objects []intel.StructuredObject `json:"objects"`
}

// Client downloads ATT&CK bundles. With a cache directory configured,
// bundles are reused across runs: release artifacts are immutable, so a
// cached version never goes stale.
type Client struct {
	transport *transport.Client
	baseURL   string
	cacheDir  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL redirects bundle downloads, mainly for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithCacheDir enables the on-disk bundle cache rooted at dir.
func WithCacheDir(dir string) Option {
	return func(c *Client) {
		c.cacheDir = dir
	}
}

// WithTransport substitutes the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// New creates an ATT&CK feed client.
func New(opts ...Option) *Client {
	c := &Client{
		transport: transport.New(FeedName),
		baseURL:   releaseBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the structured objects of the given ATT&CK version,
// from cache when possible. An empty version means DefaultVersion.
func (c *Client) Fetch(ctx context.Context, version string) ([]intel.StructuredObject, error) {
	if version == "" {
		version = DefaultVersion
	}
	log := logging.FromContext(ctx)

	raw, cached := c.fromCache(version)
	if cached {
		log.Debug().Str("version", version).Msg("using cached bundle")
	} else {
		url := c.bundleURL(version)
		log.Info().Str("version", version).Str("url", url).Msg("downloading bundle")

		var err error
		raw, err = c.transport.GetBytes(ctx, url)
		if err != nil {
			if errors.IsVersionNotFound(err) {
				return nil, &errors.APIError{
					Feed:       FeedName,
					Endpoint:   url,
					StatusCode: 404,
					Message:    "no release for ATT&CK v" + version + "; published versions: " + releasesURL,
					Err:        err,
				}
			}
			return nil, err
		}
		c.toCache(version, raw, log)
	}

	var b bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, errors.WrapParse("json", FeedName+" v"+version, err)
	}

	log.Debug().Str("version", version).Int("objects", len(b.Objects)).Msg("decoded bundle")
	return b.Objects, nil
}

// Source fetches the bundle and wraps it as the highest-priority source.
func (c *Client) Source(ctx context.Context, version string) (intel.Source, error) {
	objects, err := c.Fetch(ctx, version)
	if err != nil {
		return intel.Source{}, err
	}
	return intel.NewStructuredSource(intel.LabelMITRE, 0, objects), nil
}

func (c *Client) bundleURL(version string) string {
	return c.baseURL + version + "/" + bundleFile
}

func (c *Client) cachePath(version string) string {
	return filepath.Join(c.cacheDir, "enterprise-attack-v"+version+".json")
}

// fromCache loads the cached bundle for a version, when caching is enabled
// and a previous run stored it.
func (c *Client) fromCache(version string) ([]byte, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	raw, err := os.ReadFile(c.cachePath(version))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// toCache stores a downloaded bundle via temp file and atomic rename, so a
// crashed run never leaves a truncated bundle behind. Cache failures only
// cost the next run a re-download, so they log instead of failing the run.
func (c *Client) toCache(version string, raw []byte, log *zerolog.Logger) {
	if c.cacheDir == "" {
		return
	}

	if err := os.MkdirAll(c.cacheDir, constants.DirPermissions); err != nil {
		log.Warn().Err(err).Str("dir", c.cacheDir).Msg("bundle cache disabled")
		return
	}

	tmp, err := os.CreateTemp(c.cacheDir, "enterprise-attack-*.json")
	if err != nil {
		log.Warn().Err(err).Msg("bundle cache write failed")
		return
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		log.Warn().Err(err).Msg("bundle cache write failed")
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		log.Warn().Err(err).Msg("bundle cache write failed")
		return
	}
	if err := os.Rename(tmpPath, c.cachePath(version)); err != nil {
		_ = os.Remove(tmpPath)
		log.Warn().Err(err).Msg("bundle cache write failed")
	}
}
