// Package source fetches raw sales payloads from http(s), the local filesystem
// and S3. The Router picks a fetcher by the scheme of the source descriptor.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/crewboard/pkg/logger"
)

// Defaults applied by NewRouter.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 32 << 20
)

// Router dispatches Fetch calls by scheme. It satisfies snapshot.Fetcher.
type Router struct {
	timeout        time.Duration
	maxBytes       int64
	logFieldMaxLen int
	httpClient     *http.Client
	awsRegion      string
	awsProfile     string
	s3Client       S3API
	logger         logger.Logger

	http *HTTPFetcher
	file *FileFetcher
	s3   *S3Fetcher
}

// NewRouter creates a router with every supported scheme wired.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get()
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{}
	}

	transport := r.httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	client := *r.httpClient
	client.Transport = NewLoggingRoundTripper(transport, r.logger, r.logFieldMaxLen)

	r.http = &HTTPFetcher{client: &client, maxBytes: r.maxBytes}
	r.file = &FileFetcher{maxBytes: r.maxBytes}
	r.s3 = &S3Fetcher{
		client:   r.s3Client,
		region:   r.awsRegion,
		profile:  r.awsProfile,
		maxBytes: r.maxBytes,
	}
	return r
}

// Fetch returns the payload behind source. A fetch never runs longer than the
// configured timeout.
func (r *Router) Fetch(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty descriptor", ErrInvalidSource)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	scheme := schemeOf(source)
	switch scheme {
	case "http", "https":
		return r.http.Fetch(ctx, source)
	case "file", "":
		return r.file.Fetch(ctx, source)
	case "s3":
		return r.s3.Fetch(ctx, source)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// schemeOf returns the lower-cased URL scheme, or "" for plain paths.
// Windows drive letters ("C:\data.csv") count as plain paths.
func schemeOf(source string) string {
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) <= 1 {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// readLimited reads at most limit bytes from rd and fails if more remain.
func readLimited(rd io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(rd, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPayloadTooLarge, limit)
	}
	return b, nil
}
