package http

import "net/http"

type headerTransport struct {
	userAgent string
	token     string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.userAgent != "" {
		reqCopy.Header.Set("User-Agent", t.userAgent)
	}
	if t.token != "" {
		reqCopy.Header.Set("Authorization", "Bearer "+t.token)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithUserAgent sets the User-Agent header on every outbound request.
func WithUserAgent(userAgent string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{userAgent: userAgent, transport: rt}
	})
}

// WithAuthToken attaches a bearer token when one is configured (e.g. a backend behind a gateway).
func WithAuthToken(token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{token: token, transport: rt}
	})
}
