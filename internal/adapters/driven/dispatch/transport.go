package dispatch

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/custodia-labs/falcon-go/internal/core/domain"
	"github.com/custodia-labs/falcon-go/internal/logger"
)

// maxRedirects bounds redirect chains on the authentication routes.
const maxRedirects = 5

// redirectRoutes are the only paths a response may redirect to.
var redirectRoutes = []string{"/oauth2/token", "/oauth2/revoke"}

// httpClient returns a cached client for the connection settings.
func (c *Client) httpClient(conn domain.Connection) *http.Client {
	key := connectionKey(conn)

	c.mu.Lock()
	defer c.mu.Unlock()
	if hc, ok := c.clients[key]; ok {
		return hc
	}
	hc := newHTTPClient(conn)
	c.clients[key] = hc
	return hc
}

func connectionKey(conn domain.Connection) string {
	schemes := make([]string, 0, len(conn.Proxy))
	for s := range conn.Proxy {
		schemes = append(schemes, s)
	}
	sort.Strings(schemes)
	var b strings.Builder
	fmt.Fprintf(&b, "ssl=%t;timeout=%s", conn.SSLVerify, conn.Timeout)
	for _, s := range schemes {
		fmt.Fprintf(&b, ";%s=%s", s, conn.Proxy[s])
	}
	return b.String()
}

func newHTTPClient(conn domain.Connection) *http.Client {
	dialer := &net.Dialer{Timeout: conn.Timeout.Connect}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	transport.ResponseHeaderTimeout = conn.Timeout.Read
	transport.Proxy = proxyFunc(conn.Proxy)
	if !conn.SSLVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via ssl_verify=false
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       conn.Timeout.Total,
		CheckRedirect: checkRedirect,
	}
}

// proxyFunc selects a proxy by request scheme, falling back to the
// environment when none is configured.
func proxyFunc(proxy domain.Proxy) func(*http.Request) (*url.URL, error) {
	if len(proxy) == 0 {
		return http.ProxyFromEnvironment
	}
	return func(r *http.Request) (*url.URL, error) {
		raw, ok := proxy[r.URL.Scheme]
		if !ok || raw == "" {
			return nil, nil
		}
		return url.Parse(raw)
	}
}

// checkRedirect follows redirects only to the token and revoke routes.
// Any other redirect is returned to the caller unfollowed.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after too many redirects")
	}
	for _, route := range redirectRoutes {
		if strings.HasSuffix(req.URL.Path, route) {
			logger.Debug("following redirect to %s", req.URL.Redacted())
			return nil
		}
	}
	return http.ErrUseLastResponse
}
