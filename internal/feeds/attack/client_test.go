package attack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
)

func bundleServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	fixture, err := os.ReadFile(filepath.Join("testdata", "enterprise-attack.json"))
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if r.URL.Path != "/18.1/enterprise-attack.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture)
	}))
}

func TestBundleURL(t *testing.T) {
	assert.Equal(t,
		"https://github.com/mitre/cti/releases/download/ATT%26CK-v18.1/enterprise-attack.json",
		BundleURL("18.1"))
	assert.Equal(t,
		"https://github.com/mitre/cti/releases/download/ATT%26CK-v17.0/enterprise-attack.json",
		BundleURL("17.0"))
}

func TestFetch(t *testing.T) {
	server := bundleServer(t, nil)
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	objects, err := client.Fetch(context.Background(), "18.1")
	require.NoError(t, err)
	require.Len(t, objects, 5)

	assert.Equal(t, "Sandworm Team", objects[0].Name)
	assert.Equal(t, []string{"ELECTRUM", "Telebots", "Voodoo Bear"}, objects[0].Aliases)
	assert.False(t, objects[0].Deprecated)
	assert.True(t, objects[2].Deprecated, "x_mitre_deprecated must survive decoding")
	assert.Equal(t, "malware", objects[3].Type)
}

func TestFetchDefaultsVersion(t *testing.T) {
	server := bundleServer(t, nil)
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	objects, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objects, 5)
}

func TestFetchVersionNotFound(t *testing.T) {
	server := bundleServer(t, nil)
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	_, err := client.Fetch(context.Background(), "99.9")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrVersionNotFound)

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "github.com/mitre/cti/releases",
		"the error should tell the user where published versions live")
}

func TestFetchMalformedBundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"objects": [{`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	_, err := client.Fetch(context.Background(), "18.1")
	require.Error(t, err)

	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	server := bundleServer(t, &hits)
	defer server.Close()

	cacheDir := t.TempDir()
	client := New(WithBaseURL(server.URL+"/"), WithCacheDir(cacheDir))

	first, err := client.Fetch(context.Background(), "18.1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// Release artifacts are immutable: the second fetch must come from disk.
	second, err := client.Fetch(context.Background(), "18.1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second fetch should not hit the network")
	assert.Equal(t, first, second)

	cached := filepath.Join(cacheDir, "enterprise-attack-v18.1.json")
	info, err := os.Stat(cached)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFetchWithoutCacheDirAlwaysDownloads(t *testing.T) {
	var hits atomic.Int32
	server := bundleServer(t, &hits)
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	_, err := client.Fetch(context.Background(), "18.1")
	require.NoError(t, err)
	_, err = client.Fetch(context.Background(), "18.1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestSource(t *testing.T) {
	server := bundleServer(t, nil)
	defer server.Close()

	client := New(WithBaseURL(server.URL + "/"))

	src, err := client.Source(context.Background(), "18.1")
	require.NoError(t, err)
	assert.Equal(t, intel.LabelMITRE, src.Label)
	assert.Equal(t, 0, src.Priority)
	assert.Equal(t, intel.KindStructured, src.Kind)
	assert.Len(t, src.Objects, 5)
}
