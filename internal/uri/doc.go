// Package uri splits URL-like strings into their components.
//
// Two grammars are available. ModeStrict follows the RFC 3986 reference
// grammar and never mistakes a relative path for a host name. ModeLoose
// accepts scheme-less input such as "www.example.com/app.js" and reports
// "www.example.com" as the host; it needs look-ahead and therefore runs on
// regexp2 instead of the standard regexp package.
//
// Parsing never fails. Input that neither grammar can make sense of yields a
// ParsedURI with empty fields, which callers treat as a same-document
// reference.
//
// # Usage
//
//	parts := uri.Parse("https://cdn.example.com/app.js?v=3")
//	parts.Protocol // "https"
//	parts.Host     // "cdn.example.com"
//	parts.Query    // "v=3"
package uri
