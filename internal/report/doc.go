// Package report writes analyses in the supported output formats.
//
//   - SimpleWriter: the plain-text recommendation, exactly as the policy
//     package formats it
//   - JSONWriter: a JSONReport per analysis, one object per line unless
//     pretty printed
//   - MarkdownWriter: a document with the directive table, header and meta tag
//     snippets and the violation list
//
// All writers implement Writer and may be combined with MultiWriter.
package report
