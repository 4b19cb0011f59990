package logging

import (
	"log/slog"
	"net/http"
	"time"
)

type roundTripLogger struct {
	next http.RoundTripper
}

// NewRoundTripLogger logs every outgoing request with the logger found in the
// request context.
func NewRoundTripLogger(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &roundTripLogger{next: next}
}

func (l *roundTripLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	logger := FromContext(ctx).With(
		slog.String("methodPath", req.Method+" "+req.URL.Path),
	)

	start := time.Now()
	resp, err := l.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		logger.WarnContext(ctx, "Request failed", "error", err.Error(), "duration", duration)
		return nil, err
	}

	logger.DebugContext(ctx, "Request completed", "status", resp.StatusCode, "duration", duration)
	return resp, nil
}
