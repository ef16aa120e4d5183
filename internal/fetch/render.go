package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/nao1215/csprecommend/internal/dom"
)

// RenderLoader loads http(s) targets in headless Chrome. Other targets, and
// the linked stylesheets of rendered documents, are read by the wrapped
// Loader.
type RenderLoader struct {
	loader      *Loader
	execPath    string
	proxyServer string
	settle      time.Duration
	logger      *slog.Logger
}

// RenderOption configures a RenderLoader.
type RenderOption func(*RenderLoader)

// WithExecPath sets the Chrome or Chromium binary.
func WithExecPath(path string) RenderOption {
	return func(r *RenderLoader) {
		r.execPath = path
	}
}

// WithSOCKSProxy makes the browser connect through the SOCKS5 proxy at addr.
func WithSOCKSProxy(addr string) RenderOption {
	return func(r *RenderLoader) {
		if addr != "" {
			r.proxyServer = "socks5://" + addr
		}
	}
}

// WithSettleTime waits d after the load event before the DOM is read.
func WithSettleTime(d time.Duration) RenderOption {
	return func(r *RenderLoader) {
		r.settle = d
	}
}

// WithRenderLogger sets the logger.
func WithRenderLogger(logger *slog.Logger) RenderOption {
	return func(r *RenderLoader) {
		r.logger = logger
	}
}

// NewRenderLoader creates a RenderLoader on top of loader.
func NewRenderLoader(loader *Loader, opts ...RenderOption) *RenderLoader {
	r := &RenderLoader{loader: loader}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *RenderLoader) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(r.loader.userAgent),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	if r.proxyServer != "" {
		opts = append(opts, chromedp.ProxyServer(r.proxyServer))
	}
	return opts
}

func (r *RenderLoader) extraHeaders() network.Headers {
	headers := network.Headers{}
	for k, v := range r.loader.headers {
		headers[k] = v
	}
	if r.loader.cookie != "" {
		headers["Cookie"] = r.loader.cookie
	}
	return headers
}

// Load implements pipeline.Loader.
func (r *RenderLoader) Load(ctx context.Context, target string) (dom.Document, error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return r.loader.Load(ctx, target)
	}
	if err := checkOnion(u, r.proxyServer != ""); err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	runCtx, cancelRun := context.WithTimeout(browserCtx, r.loader.timeout)
	defer cancelRun()

	r.logger.Debug("rendering", "url", u.Redacted())

	var html, location string
	if err := chromedp.Run(runCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(r.extraHeaders()),
		chromedp.Navigate(u.String()),
		chromedp.Sleep(r.settle),
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", u.Redacted(), err)
	}

	return dom.Parse(strings.NewReader(html), location, dom.WithStyleSheetLoader(r.loader))
}
