package http

import (
	"net"
	"net/http"
	"time"
)

// TransportFunc decorates a RoundTripper
type TransportFunc func(http.RoundTripper) http.RoundTripper

type httpConfig struct {
	connClientTimeout     time.Duration
	requestTimeout        time.Duration
	clientKeepAlive       time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
	idleConnTimeout       time.Duration
	maxIdleConnsPerHost   int
	transports            []TransportFunc
}

// Extraction and OCR on the backend are slow, so the request and header
// timeouts are generous compared to a typical API client.
func defaultHTTPConfig() *httpConfig {
	return &httpConfig{
		connClientTimeout:     10 * time.Second,
		requestTimeout:        2 * time.Minute,
		clientKeepAlive:       90 * time.Second,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 2 * time.Minute,
		idleConnTimeout:       90 * time.Second,
		maxIdleConnsPerHost:   4,
	}
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &http.Client{
		Timeout:   cfg.requestTimeout,
		Transport: cfg.roundTripper(),
	}
}

// roundTripper starts from a clone of the default transport, so proxy and
// HTTP/2 settings are kept, and stacks the decorators in the order they
// were registered. The last registered decorator sees the request first.
func (cfg *httpConfig) roundTripper() http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{
		Timeout:   cfg.connClientTimeout,
		KeepAlive: cfg.clientKeepAlive,
	}).DialContext
	base.MaxIdleConnsPerHost = cfg.maxIdleConnsPerHost
	base.TLSHandshakeTimeout = cfg.tlsHandshakeTimeout
	base.ResponseHeaderTimeout = cfg.responseHeaderTimeout
	base.IdleConnTimeout = cfg.idleConnTimeout

	var rt http.RoundTripper = base
	for _, wrap := range cfg.transports {
		rt = wrap(rt)
	}
	return rt
}
