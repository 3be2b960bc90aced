package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	location, err := store.Save(context.Background(), "threat_groups_v18_1_energy.json", []byte(`{"count":0}`))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(location))

	data, err := os.ReadFile(filepath.Join(dir, "threat_groups_v18_1_energy.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"count":0}`, string(data))
}

func TestLocalSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Save(ctx, "report.json", []byte("first"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "report.json", []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestNewLocalCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")
	_, err := NewLocal(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewDispatch(t *testing.T) {
	ctx := context.Background()

	store, err := New(ctx, Config{Type: TypeLocal, LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	// An empty type defaults to local so the CLI works out of the box.
	store, err = New(ctx, Config{LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, store)

	_, err = New(ctx, Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), Config{Type: TypeS3})
	assert.Error(t, err)
}
