package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/reports/files/")
	require.NoError(t, err)

	// Act
	path, err := s.Upload(ctx, strings.NewReader("%PDF-1.3"), "employee-1/report.pdf", "application/pdf")
	require.NoError(t, err)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "employee-1/report.pdf", path)
	assert.Equal(t, "%PDF-1.3", string(body))

	url, err := s.GetURL(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/reports/files/employee-1/report.pdf", url)
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	path, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", path)

	_, err = s.Upload(ctx, strings.NewReader("x"), "..", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)
}
