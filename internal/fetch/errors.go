package fetch

import "errors"

var (
	// ErrEmptyTarget is returned for a blank target.
	ErrEmptyTarget = errors.New("empty target")

	// ErrUnsupportedScheme is returned for URLs other than http, https and file.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")

	// ErrHTTPStatus is returned when the server answers with a 4xx or 5xx status.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML is returned when the content is binary.
	ErrNotHTML = errors.New("content is not HTML")

	// ErrProxyRequired is returned for .onion targets when no proxy is configured.
	ErrProxyRequired = errors.New("onion targets need a SOCKS5 proxy (use --proxy or --tor)")
)
