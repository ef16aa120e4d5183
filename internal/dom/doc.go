// Package dom provides the read-only document model the analysis runs on.
//
// Document, Element and StyleSheet describe the small part of a browser DOM
// and CSSOM the collector and the inline detector need: elements in document
// order, raw and resolved attributes, script text, and stylesheet rules that
// may refuse access the way a browser refuses cross-origin cssRules.
//
// HTMLDocument implements Document on top of goquery and golang.org/x/net/html.
// Stylesheet rules are parsed with github.com/aymerick/douceur.
//
// # Browser Behavior
//
// The model follows what a browser would do with the same markup, because the
// recommendation must allow exactly what the browser will fetch:
//   - URL properties resolve against the first <base href>, falling back to
//     the document location
//   - backslashes in http, https, ftp, ws, wss and file URLs read as slashes,
//     and tabs and newlines inside a URL are dropped
//   - a linked stylesheet from another origin refuses access to its rules,
//     like cssRules does, and is reported with ErrCrossOrigin
//
// # Usage
//
//	doc, err := dom.Parse(resp.Body, "https://example.com/",
//	    dom.WithStyleSheetLoader(loader),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, img := range doc.ElementsByTagName("img") {
//	    fmt.Println(img.Property("src")) // absolute URL
//	}
package dom
