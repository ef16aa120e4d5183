// Package fetch turns analysis targets into dom.Documents.
//
// Loader reads a target from stdin ("-"), a local file, a file:// URL or an
// http(s) URL. HTTP requests go through go-retryablehttp with optional
// proxy transport, site cookie and extra headers. Bodies are size limited,
// sniffed with mimetype and decoded to UTF-8 before parsing.
//
// Loader is also the dom.StyleSheetLoader of every document it returns, so
// same-origin linked stylesheets are read with the same client and
// credentials as the document.
//
// RenderLoader loads http(s) targets in headless Chrome through chromedp and
// analyses the DOM as it stands after the page's scripts ran.
//
// Design decision: The body is decoded before parsing rather than left to the
// HTML parser because:
// 1. Content-Type often omits the charset, and the <meta charset> of legacy
//    pages is only honored by golang.org/x/net/html/charset when it is found
//    in the first bytes
// 2. chardet catches pages whose declared charset is missing, so host names
//    in attributes are not mangled into tokens no browser would request
// 3. mimetype rejects images and archives served under an HTML URL before
//    they reach goquery
//
// # Usage
//
//	loader := fetch.New(
//	    fetch.WithLogger(logger),
//	    fetch.WithCookie(site.Cookie),
//	    fetch.WithTimeout(30*time.Second),
//	)
//	doc, err := loader.Load(ctx, "https://example.com/")
//
// Loading through Tor:
//
//	loader := fetch.New(fetch.WithProxyTransport(torClient.Transport()))
package fetch
