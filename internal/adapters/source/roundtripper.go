package source

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"strconv"
	"time"

	"github.com/rs/xid"

	"github.com/okian/crewboard/pkg/logger"
	"github.com/okian/crewboard/pkg/metrics"
)

// LoggingRoundTripper implements http.RoundTripper and logs every outbound
// request and response head under a shared request id.
type LoggingRoundTripper struct {
	next           http.RoundTripper
	logger         logger.Logger
	logFieldMaxLen int
}

// NewLoggingRoundTripper returns a new logging RoundTripper instance.
func NewLoggingRoundTripper(next http.RoundTripper, log logger.Logger, logFieldMaxLen int) LoggingRoundTripper {
	return LoggingRoundTripper{
		next:           next,
		logger:         log,
		logFieldMaxLen: logFieldMaxLen,
	}
}

// RoundTrip implements http.RoundTripper interface.
func (rt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := xid.New().String()

	reqBytes, err := httputil.DumpRequestOut(req, false)
	if err != nil {
		rt.logger.Error(ctx, "dump request", logger.String("request_id", requestID), logger.Error(err))
	}

	rt.logger.Debug(ctx, "http request",
		logger.String("request_id", requestID),
		logger.String("request", rt.truncate(reqBytes)),
	)

	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		metrics.RecordUpstreamRequest(req.URL.Host, "error")
		rt.logger.Warn(ctx, "http request failed",
			logger.String("request_id", requestID),
			logger.String("url", req.URL.Redacted()),
			logger.Error(err),
		)
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}
	metrics.RecordUpstreamRequest(req.URL.Host, strconv.Itoa(resp.StatusCode))

	// Body is left out: payloads can be tens of megabytes.
	respBytes, err := httputil.DumpResponse(resp, false)
	if err != nil {
		rt.logger.Error(ctx, "dump response", logger.String("request_id", requestID), logger.Error(err))
	}

	rt.logger.Debug(ctx, "http response",
		logger.String("request_id", requestID),
		logger.String("response", rt.truncate(respBytes)),
		logger.Int("status", resp.StatusCode),
		logger.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return resp, nil
}

func (rt LoggingRoundTripper) truncate(b []byte) string {
	if rt.logFieldMaxLen != 0 && len(b) > rt.logFieldMaxLen {
		b = b[:rt.logFieldMaxLen]
	}
	return string(b)
}
