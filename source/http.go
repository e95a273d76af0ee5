package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	rhttp "github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/renzoespinoza10/straw/metrics"
)

// HTTP is a remote resource read with one ranged GET per ReadRange. The total
// size is learned from the first Content-Range header that reports it.
type HTTP struct {
	url       string
	userAgent string
	client    *rhttp.Client
	size      atomic.Int64
}

func newHTTP(url string, o *options) *HTTP {
	client := rhttp.NewClient()
	client.RetryMax = o.retryMax
	client.Logger = nil // disable logging every request
	if o.log != nil {
		client.Logger = leveledLogger{o.log.WithField("resource", url)}
	}
	if o.client != nil {
		client.HTTPClient = o.client
	}
	if o.timeout > 0 {
		client.HTTPClient.Timeout = o.timeout
	}
	h := &HTTP{url: url, userAgent: o.userAgent, client: client}
	h.size.Store(-1)
	return h
}

func (s *HTTP) Name() string {
	return s.url
}

func (s *HTTP) Size() int64 {
	return s.size.Load()
}

func (s *HTTP) ReadRange(ctx context.Context, off, n int64) ([]byte, error) {
	if err := checkRange(off, n, s.Size()); err != nil {
		return nil, err
	}
	if n == 0 {
		return []byte{}, nil
	}
	req, err := rhttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", s.url)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, off+n-1))
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s [%d,+%d)", s.url, off, n)
	}
	defer resp.Body.Close()

	var body io.Reader
	switch resp.StatusCode {
	case http.StatusPartialContent:
		start, total, ok := parseContentRange(resp.Header.Get("Content-Range"))
		if ok && total >= 0 {
			s.size.Store(total)
		}
		if ok && start != off {
			return nil, errors.Errorf("%s: server answered range at %d, asked %d", s.url, start, off)
		}
		body = resp.Body
	case http.StatusOK:
		// Range ignored: the whole resource follows.
		if resp.ContentLength >= 0 {
			s.size.Store(resp.ContentLength)
		}
		if _, err := io.CopyN(io.Discard, resp.Body, off); err != nil {
			if err == io.EOF {
				return nil, errors.Wrapf(ErrOutOfRange, "%s: offset %d", s.url, off)
			}
			return nil, errors.Wrapf(err, "fetch %s", s.url)
		}
		body = resp.Body
	case http.StatusRequestedRangeNotSatisfiable:
		if _, total, ok := parseContentRange(resp.Header.Get("Content-Range")); ok && total >= 0 {
			s.size.Store(total)
		}
		return nil, errors.Wrapf(ErrOutOfRange, "%s: range [%d,+%d)", s.url, off, n)
	case http.StatusNotFound:
		return nil, errors.Wrap(ErrNotFound, s.url)
	default:
		return nil, errors.Errorf("fetch %s: unexpected status %s", s.url, resp.Status)
	}

	buf, err := io.ReadAll(io.LimitReader(body, n))
	metrics.Fetched("http", len(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", s.url)
	}
	if int64(len(buf)) < n {
		return nil, errors.Wrapf(ErrTruncatedRead, "%s: got %d of %d bytes at %d", s.url, len(buf), n, off)
	}
	return buf, nil
}

func (s *HTTP) Close() error {
	s.client.HTTPClient.CloseIdleConnections()
	return nil
}

// parseContentRange parses "bytes a-b/total" and "bytes */total". total is -1
// when the server reports "*".
func parseContentRange(v string) (start, total int64, ok bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "bytes ") {
		return 0, 0, false
	}
	v = strings.TrimPrefix(v, "bytes ")
	i := strings.IndexByte(v, '/')
	if i < 0 {
		return 0, 0, false
	}
	rng, tot := v[:i], v[i+1:]
	total = -1
	if tot != "*" {
		t, err := strconv.ParseInt(tot, 10, 64)
		if err != nil {
			return 0, 0, false
		}
		total = t
	}
	if rng == "*" {
		return -1, total, true
	}
	j := strings.IndexByte(rng, '-')
	if j < 0 {
		return 0, 0, false
	}
	start, err := strconv.ParseInt(rng[:j], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return start, total, true
}
