package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/threatscope/threatscope/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	err := &pkgerrors.NotFoundError{Resource: "tab", ID: "China"}
	assert.Equal(t, "tab with ID China not found", err.Error())
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Field: "keyword", Message: "cannot be empty"}
		assert.Equal(t, "validation failed for field keyword: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "bad config"}
		assert.Equal(t, "validation failed: bad config", err.Error())
	})
}

func TestAPIError(t *testing.T) {
	t.Run("status code in message", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Feed:       "MITRE",
			StatusCode: 503,
			Message:    "service unavailable",
			Endpoint:   "https://github.com/mitre/cti/releases",
		}
		assert.Contains(t, err.Error(), "MITRE")
		assert.Contains(t, err.Error(), "503")
		assert.True(t, errors.Is(err, pkgerrors.ErrFeedUnavailable))
	})

	t.Run("404 reads as missing version", func(t *testing.T) {
		err := &pkgerrors.APIError{Feed: "MITRE", StatusCode: 404, Message: "not found"}
		assert.True(t, errors.Is(err, pkgerrors.ErrVersionNotFound))
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
		assert.False(t, errors.Is(err, pkgerrors.ErrFeedUnavailable))
	})

	t.Run("transport failure without status", func(t *testing.T) {
		base := errors.New("connection refused")
		err := pkgerrors.WrapAPI("Google Sheet", "https://docs.google.com", 0, base)
		assert.True(t, pkgerrors.IsFeedUnavailable(err))

		var apiErr *pkgerrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, base, apiErr.Unwrap())
	})
}

func TestParseError(t *testing.T) {
	base := errors.New("unexpected EOF")
	err := pkgerrors.WrapParse("csv", "tab China", base)

	var parseErr *pkgerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "csv", parseErr.Format)
	assert.Contains(t, err.Error(), "tab China")
	assert.Equal(t, base, errors.Unwrap(parseErr))
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "/tmp/report.json", base)

	var ioErr *pkgerrors.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Operation)
	assert.Contains(t, err.Error(), "/tmp/report.json")
}

func TestConfigError(t *testing.T) {
	err := &pkgerrors.ConfigError{Component: "sheets", Message: "spreadsheet id missing"}
	assert.Contains(t, err.Error(), "sheets")
	assert.Contains(t, err.Error(), "spreadsheet id missing")
}

func TestStoreError(t *testing.T) {
	base := errors.New("bucket does not exist")
	err := &pkgerrors.StoreError{Backend: "s3", Key: "reports/x.json", Err: base}
	assert.Contains(t, err.Error(), "s3")
	assert.Contains(t, err.Error(), "reports/x.json")
	assert.Equal(t, base, errors.Unwrap(err))
}

func TestWrapHelpersNilStaysNil(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapAPI("MITRE", "x", 500, nil))
}
