package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestFileReadRange(t *testing.T) {
	data := payload(1000)
	path := filepath.Join(t.TempDir(), "x.hic")
	require.NoError(t, os.WriteFile(path, data, 0644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()
	ctx := context.Background()

	assert.Equal(t, int64(1000), src.Size())
	assert.Equal(t, path, src.Name())

	b, err := src.ReadRange(ctx, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, data[10:30], b)

	b, err = src.ReadRange(ctx, 5, 0)
	require.NoError(t, err)
	assert.Len(t, b, 0)

	_, err = src.ReadRange(ctx, 990, 20)
	assert.True(t, errors.Is(err, ErrTruncatedRead), "%v", err)

	_, err = src.ReadRange(ctx, 1000, 1)
	assert.True(t, errors.Is(err, ErrOutOfRange), "%v", err)

	_, err = src.ReadRange(ctx, -1, 1)
	assert.True(t, errors.Is(err, ErrOutOfRange), "%v", err)
}

func TestFileNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.hic"))
	assert.True(t, errors.Is(err, ErrNotFound), "%v", err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("http://host/x.hic"))
	assert.True(t, IsRemote("https://host/x.hic"))
	assert.False(t, IsRemote("/data/x.hic"))
	assert.False(t, IsRemote("x.hic"))
}

func serve(t *testing.T, data []byte) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/x.hic" {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, "x.hic", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTPReadRange(t *testing.T) {
	data := payload(5000)
	ts := serve(t, data)
	ctx := context.Background()

	src, err := Open(ts.URL+"/x.hic", WithRetryMax(0), WithUserAgent("straw-test"))
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, int64(-1), src.Size())
	b, err := src.ReadRange(ctx, 100, 50)
	require.NoError(t, err)
	assert.Equal(t, data[100:150], b)
	assert.Equal(t, int64(5000), src.Size())

	b, err = src.ReadRange(ctx, 4990, 10)
	require.NoError(t, err)
	assert.Equal(t, data[4990:], b)

	// the server clips the range; the short body is reported
	_, err = src.ReadRange(ctx, 4990, 20)
	assert.True(t, errors.Is(err, ErrTruncatedRead), "%v", err)

	// beyond the learned size no request is made
	_, err = src.ReadRange(ctx, 6000, 10)
	assert.True(t, errors.Is(err, ErrOutOfRange), "%v", err)
}

func TestHTTPUnsatisfiable(t *testing.T) {
	ts := serve(t, payload(100))
	src, err := Open(ts.URL+"/x.hic", WithRetryMax(0))
	require.NoError(t, err)

	_, err = src.ReadRange(context.Background(), 200, 10)
	assert.True(t, errors.Is(err, ErrOutOfRange), "%v", err)
	assert.Equal(t, int64(100), src.Size())
}

func TestHTTPNotFound(t *testing.T) {
	ts := serve(t, payload(100))
	src, err := Open(ts.URL+"/other.hic", WithRetryMax(0))
	require.NoError(t, err)

	_, err = src.ReadRange(context.Background(), 0, 10)
	assert.True(t, errors.Is(err, ErrNotFound), "%v", err)
}

func TestHTTPIgnoresRange(t *testing.T) {
	data := payload(300)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer ts.Close()

	src, err := Open(ts.URL, WithRetryMax(0))
	require.NoError(t, err)
	b, err := src.ReadRange(context.Background(), 40, 60)
	require.NoError(t, err)
	assert.Equal(t, data[40:100], b)
	assert.Equal(t, int64(300), src.Size())
}

func TestParseContentRange(t *testing.T) {
	start, total, ok := parseContentRange("bytes 10-19/200")
	assert.True(t, ok)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, int64(200), total)

	start, total, ok = parseContentRange("bytes */200")
	assert.True(t, ok)
	assert.Equal(t, int64(-1), start)
	assert.Equal(t, int64(200), total)

	_, total, ok = parseContentRange("bytes 0-9/*")
	assert.True(t, ok)
	assert.Equal(t, int64(-1), total)

	_, _, ok = parseContentRange("items 0-9/10")
	assert.False(t, ok)
}
