// Package collector walks a document and records, per resource category, the
// origins the document loads content from.
//
// Every reference goes through the same steps: read the attribute (resolved
// like a DOM property for src and href, raw for object attributes), parse it
// with the uri package, and turn it into an origin token with a Resolver.
// Which elements and attributes feed which category is described by a single
// rule table; @font-face sources come from the document's readable
// stylesheets.
//
// The table mirrors what a browser fetches, not what an attribute happens to
// contain: <link> only counts when its rel names an icon or a stylesheet,
// <source> only inside <video> and <audio>, and a classid only when it is a
// fetchable URL rather than a "clsid:" identifier.
//
// Origins are stored as CSP source expressions: 'self' for the document's
// host and for relative references, data: for data URIs, and the lower-cased
// host otherwise. References whose host holds whitespace are dropped.
//
// # Usage
//
//	doc, err := dom.Parse(r, "https://example.com/")
//	if err != nil {
//	    return err
//	}
//	a := model.NewAnalysis("https://example.com/")
//	c := collector.New(collector.WithLogger(logger))
//	if err := c.Collect(ctx, doc, a); err != nil {
//	    return err // only a cancelled context
//	}
//	a.Source(model.CategoryScript).Values() // e.g. ['self' js.example.com]
package collector
