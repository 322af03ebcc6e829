package http

import (
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type payloadContextKey struct{}
type bodySizeContextKey struct{}

// requestSizeField reports the body size the connector recorded on ctx, if any
func requestSizeField(req *http.Request) (zap.Field, bool) {
	ctx := req.Context()
	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		return zap.Int("payload_bytes", len(payload)), true
	}
	if size, ok := ctx.Value(bodySizeContextKey{}).(int); ok {
		return zap.Int("multipart_bytes", size), true
	}
	return zap.Skip(), false
}

type logTransport struct {
	next http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := ctxzap.Extract(ctx).With(
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
	)

	if f, ok := requestSizeField(req); ok {
		log.Debug("backend request", f)
	} else {
		log.Debug("backend request")
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)
	if err != nil {
		log.Debug("backend request failed", zap.Duration("duration", elapsed), zap.Error(err))
		return nil, err
	}

	log.Debug("backend response",
		zap.Int("status", resp.StatusCode),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("duration", elapsed),
	)
	return resp, nil
}

// WithRequestLogging logs every exchange at debug through the context logger
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{next: rt}
	})
}
