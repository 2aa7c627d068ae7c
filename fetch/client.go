// Package fetch performs the outbound HTTP retrieval for a mirror run:
// GET only, browser-like headers, a shared cookie session, a Chrome TLS
// fingerprint, and a bounded redirect count.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	tls "github.com/refraction-networking/utls"
)

const (
	// DefaultUserAgent identifies as a desktop Chrome so sites that vary
	// on User-Agent serve the same markup a browser would see.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"

	// maxRedirects is kept below the requests-library default so a
	// redirect loop surfaces as an error instead of a long silent chain.
	maxRedirects = 10

	defaultTimeout = 10 * time.Second

	// maxBody caps response reads to keep memory bounded.
	maxBody = 10 << 20
)

// ErrTooManyRedirects marks a fetch abandoned after maxRedirects hops.
var ErrTooManyRedirects = errors.New("fetch: too many redirects")

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to
// http/1.1 only. Computed once at init time and reused per connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Fallback: HelloChrome_Auto is applied as-is at dial time.
		return
	}
	// Replace h2 with http/1.1 in the ALPN extension so the server never
	// negotiates HTTP/2, which Go's http.Transport cannot handle over a
	// utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// Config controls the outbound client.
type Config struct {
	// Timeout bounds each request end to end. Default: 10s.
	Timeout time.Duration

	// UserAgent overrides DefaultUserAgent when non-empty.
	UserAgent string
}

// Client is the HTTP client shared by every request of a run. The cookie
// jar gives the run session continuity across pages.
type Client struct {
	http *http.Client
	ua   string
}

// NewClient builds a run client: one cookie jar, a Chrome TLS
// fingerprint for https, and a redirect cap that turns loops into
// ErrTooManyRedirects.
func NewClient(cfg Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	transport := &http.Transport{
		DialTLSContext:    dialChromeTLS,
		ForceAttemptHTTP2: false,
	}

	return &Client{
		ua: ua,
		http: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return ErrTooManyRedirects
				}
				return nil
			},
		},
	}, nil
}

// Response is one fetched resource.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
}

// ContentType returns the declared content type, possibly empty.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// Get performs a single GET. Non-2xx statuses are errors: the mirror
// never persists error pages.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: HTTP %d for %s", resp.StatusCode, rawURL)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// dialChromeTLS establishes a TLS connection with a Chrome ClientHello.
func dialChromeTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: defaultTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("fetch: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}
