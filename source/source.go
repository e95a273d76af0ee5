// Package source gives uniform random access to a .hic resource, whether it
// is a local file or a URL served with HTTP range requests.
package source

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrTruncatedRead = errors.New("truncated read")
	ErrOutOfRange    = errors.New("read out of range")
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRetryMax       = 3
	defaultUserAgent      = "straw"
)

// Source reads byte ranges of one resource.
//
// ReadRange returns exactly n bytes starting at off, or an error wrapping
// ErrTruncatedRead, ErrOutOfRange or the transport failure. Size reports the
// resource length, or -1 while it is still unknown.
type Source interface {
	Name() string
	Size() int64
	ReadRange(ctx context.Context, off, n int64) ([]byte, error)
	Close() error
}

// Option configures how a resource is opened.
type Option func(*options)

type options struct {
	timeout   time.Duration
	retryMax  int
	userAgent string
	log       *logrus.Entry
	client    *http.Client
}

func defaultOptions() *options {
	return &options{
		timeout:   defaultRequestTimeout,
		retryMax:  defaultRetryMax,
		userAgent: defaultUserAgent,
	}
}

// WithTimeout sets the per-request timeout of remote sources. Zero or less
// disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRetryMax sets how many times a failed remote request is retried.
func WithRetryMax(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.retryMax = n
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithLogger routes transport logging (retries, request tracing) to log.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithHTTPClient replaces the underlying http.Client of remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// IsRemote reports whether name is opened as an HTTP source.
func IsRemote(name string) bool {
	return strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://")
}

// Open opens a local path or an http(s) URL.
func Open(name string, opts ...Option) (Source, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if IsRemote(name) {
		return newHTTP(name, o), nil
	}
	f, err := OpenFile(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func checkRange(off, n, size int64) error {
	if off < 0 || n < 0 {
		return errors.Wrapf(ErrOutOfRange, "invalid range [%d,+%d)", off, n)
	}
	if size >= 0 && off >= size && n > 0 {
		return errors.Wrapf(ErrOutOfRange, "offset %d beyond size %d", off, size)
	}
	return nil
}
