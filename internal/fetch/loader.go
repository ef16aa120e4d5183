package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/nao1215/csprecommend/internal/dom"
	"github.com/nao1215/csprecommend/internal/tor"
)

const (
	// StdinTarget reads the document from standard input.
	StdinTarget = "-"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "Mozilla/5.0 (compatible; csprecommend/1.0)"

	// DefaultMaxBodySize is the largest document or stylesheet read, in bytes.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	defaultRetryMax = 3
	acceptHeader    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// Loader loads documents. It implements pipeline.Loader and
// dom.StyleSheetLoader.
type Loader struct {
	// client retries transient failures and 5xx responses.
	client *retryablehttp.Client

	userAgent string

	// cookie is sent as the Cookie header, to the document and to its
	// same-origin stylesheets alike.
	cookie string

	// headers are extra request headers, typically authorization.
	headers map[string]string

	// proxy, when set, replaces the default transport.
	proxy       http.RoundTripper
	timeout     time.Duration
	maxBodySize int64
	retryMax    int

	// stdin is read once for the "-" target; stdinLocation is the URL the
	// document is assumed to live at.
	stdin         io.Reader
	stdinLocation string

	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. It is also handed to the retrying client.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithUserAgent sets the User-Agent header. Empty keeps DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(l *Loader) {
		if ua != "" {
			l.userAgent = ua
		}
	}
}

// WithCookie sends a raw cookie string ("a=1; b=2") with every request.
func WithCookie(cookie string) Option {
	return func(l *Loader) {
		l.cookie = cookie
	}
}

// WithHeaders sends extra headers with every request.
func WithHeaders(headers map[string]string) Option {
	return func(l *Loader) {
		l.headers = headers
	}
}

// WithProxyTransport routes all HTTP traffic through rt, typically
// tor.Client.Transport. Onion targets are refused without one.
func WithProxyTransport(rt http.RoundTripper) Option {
	return func(l *Loader) {
		l.proxy = rt
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMaxBodySize limits how many bytes of a response or file are read.
func WithMaxBodySize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBodySize = n
		}
	}
}

// WithRetryMax sets how often failed requests are retried.
func WithRetryMax(n int) Option {
	return func(l *Loader) {
		if n >= 0 {
			l.retryMax = n
		}
	}
}

// WithStdin replaces os.Stdin for the "-" target.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.stdin = r
	}
}

// WithStdinLocation sets the document URL assumed for stdin input, so that
// relative references and linked stylesheets can be resolved.
func WithStdinLocation(location string) Option {
	return func(l *Loader) {
		l.stdinLocation = location
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		retryMax:    defaultRetryMax,
		stdin:       os.Stdin,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.client = l.newClient()
	return l
}

func (l *Loader) newClient() *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = l.retryMax
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = l.logger
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	base := rc.HTTPClient.Transport
	if l.proxy != nil {
		base = l.proxy
	}
	rc.HTTPClient.Transport = &headerTransport{
		base:      base,
		userAgent: l.userAgent,
		cookie:    l.cookie,
		headers:   l.headers,
	}
	rc.HTTPClient.Timeout = l.timeout
	return rc
}

// Load implements pipeline.Loader.
func (l *Loader) Load(ctx context.Context, target string) (dom.Document, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyTarget
	}
	if target == StdinTarget {
		return l.loadStdin()
	}

	// A single letter scheme is a Windows drive.
	if u, err := url.Parse(target); err == nil && len(u.Scheme) > 1 {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l.loadHTTP(ctx, u)
		case "file":
			return l.loadFile(u.Path)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
		}
	}
	return l.loadFile(target)
}

func (l *Loader) loadStdin() (dom.Document, error) {
	data, err := l.readLimited(l.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return l.parse(data, "", l.stdinLocation)
}

func (l *Loader) loadFile(path string) (dom.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	data, err := l.readFile(abs)
	if err != nil {
		return nil, err
	}
	location := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return l.parse(data, "", location.String())
}

func (l *Loader) loadHTTP(ctx context.Context, u *url.URL) (dom.Document, error) {
	if err := checkOnion(u, l.proxy != nil); err != nil {
		return nil, err
	}
	body, contentType, final, err := l.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return l.parse(body, contentType, final.String())
}

func (l *Loader) parse(data []byte, contentType, location string) (dom.Document, error) {
	text, err := decodeText(data, contentType)
	if err != nil {
		return nil, err
	}
	return dom.Parse(strings.NewReader(text), location, dom.WithStyleSheetLoader(l))
}

// get fetches u and returns the body, its Content-Type and the URL after
// redirects.
func (l *Loader) get(ctx context.Context, u *url.URL) ([]byte, string, *url.URL, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, "", nil, fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, u.Redacted(), resp.StatusCode)
	}

	body, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to read %s: %w", u.Redacted(), err)
	}

	final := u
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	return body, resp.Header.Get("Content-Type"), final, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec // reading user supplied targets is the point
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	data, err := l.readLimited(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// readLimited reads at most maxBodySize bytes. Longer input is truncated.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBodySize {
		l.logger.Debug("body truncated", "limit", l.maxBodySize)
		data = data[:l.maxBodySize]
	}
	return data, nil
}

// checkOnion refuses malformed onion hosts and onion hosts without a proxy.
func checkOnion(u *url.URL, proxied bool) error {
	host := u.Hostname()
	if !tor.IsOnionHost(host) {
		return nil
	}
	if err := tor.ValidateOnionHost(host); err != nil {
		return fmt.Errorf("%s: %w", host, err)
	}
	if !proxied {
		return ErrProxyRequired
	}
	return nil
}

// LoadStyleSheet implements dom.StyleSheetLoader for http(s) and file URLs.
func (l *Loader) LoadStyleSheet(ctx context.Context, u *url.URL) (string, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if err := checkOnion(u, l.proxy != nil); err != nil {
			return "", err
		}
		data, contentType, _, err = l.get(ctx, u)
	case "file":
		data, err = l.readFile(filepath.FromSlash(u.Path))
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return "", err
	}
	return decodeText(data, contentType)
}
