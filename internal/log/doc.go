// Package log builds the slog logger of csprecommend.
//
// SecureHandler wraps a text or JSON handler and masks request credentials
// before they are written: cookie and authorization values configured per
// site, sensitive entries of header maps, passwords in URL user info and
// token-like query parameters. Masking also applies in verbose mode, since
// debug output is the output most likely to be pasted into bug reports.
//
// # Security Features
//
// The SecureHandler replaces these values with MaskValue, at any nesting
// depth including groups:
//   - attributes named like credentials (cookie, authorization, session,
//     api_key, or any key containing token, secret or password)
//   - values that look like credentials on their own: JWTs, Bearer and Basic
//     authorization values
//   - sensitive entries of header maps passed as attribute values
//   - user info passwords and sensitive query parameters in URLs
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("request sent",
//	    "url", "https://example.com/?token=abc", // token value masked
//	    "cookie", site.Cookie,                   // masked
//	)
//	slog.SetDefault(logger)
//
// NewSecureJSONLogger produces the same records as JSON lines.
package log
