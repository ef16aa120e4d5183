package fetch

import (
	"context"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
)

// TestRenderLoaderOptions tests browser configuration without a browser.
func TestRenderLoaderOptions(t *testing.T) {
	t.Parallel()

	base := len(chromedp.DefaultExecAllocatorOptions)

	t.Run("defaults add headless flags and the user agent", func(t *testing.T) {
		t.Parallel()

		r := NewRenderLoader(New())
		if got := len(r.allocatorOptions()); got != base+4 {
			t.Errorf("len(allocatorOptions()) = %d, want %d", got, base+4)
		}
	})

	t.Run("exec path and proxy are appended", func(t *testing.T) {
		t.Parallel()

		r := NewRenderLoader(New(), WithExecPath("/usr/bin/chromium"), WithSOCKSProxy("127.0.0.1:9050"))
		if got := len(r.allocatorOptions()); got != base+6 {
			t.Errorf("len(allocatorOptions()) = %d, want %d", got, base+6)
		}
		if r.proxyServer != "socks5://127.0.0.1:9050" {
			t.Errorf("proxyServer = %q", r.proxyServer)
		}
	})

	t.Run("cookie and headers become extra headers", func(t *testing.T) {
		t.Parallel()

		r := NewRenderLoader(New(WithCookie("s=1"), WithHeaders(map[string]string{"X-A": "b"})))
		h := r.extraHeaders()
		if h["Cookie"] != "s=1" || h["X-A"] != "b" {
			t.Errorf("extraHeaders() = %v", h)
		}
	})
}

// TestRenderLoaderFallsBack tests that non-HTTP targets skip the browser.
func TestRenderLoaderFallsBack(t *testing.T) {
	t.Parallel()

	loader := New(WithStdin(strings.NewReader(`<script>alert(1)</script>`)))
	doc, err := NewRenderLoader(loader).Load(context.Background(), StdinTarget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(doc.ElementsByTagName("script")); got != 1 {
		t.Errorf("expected 1 script element, got %d", got)
	}
}
