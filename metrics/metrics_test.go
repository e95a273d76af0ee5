package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(fetchedBytes.WithLabelValues("file"))
	Fetched("file", 128)
	Fetched("file", 64)
	assert.Equal(t, before+192, testutil.ToFloat64(fetchedBytes.WithLabelValues("file")))

	blocks := testutil.ToFloat64(blocksDecoded)
	BlockDecoded()
	assert.Equal(t, blocks+1, testutil.ToFloat64(blocksDecoded))

	n := testutil.ToFloat64(records)
	Records(10)
	assert.Equal(t, n+10, testutil.ToFloat64(records))

	QueryDuration("observed", time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, testutil.ToFloat64(queryDuration.WithLabelValues("observed")), 1.0)
}

func TestWriteTextfile(t *testing.T) {
	Fetched("http", 1)
	path := filepath.Join(t.TempDir(), "straw.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "straw_source_fetched_bytes"))
	assert.True(t, strings.Contains(string(data), `kind="http"`))
}
