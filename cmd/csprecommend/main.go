// Package main provides the entry point for the csprecommend CLI.
//
// csprecommend reads an HTML document, collects the origins of every
// resource it references and prints a Content-Security-Policy that allows
// exactly those origins, along with the inline scripts, styles and event
// handlers the policy would block.
//
// Usage:
//
//	csprecommend analyze https://example.com/
//	csprecommend analyze index.html
//	curl -s https://example.com/ | csprecommend analyze --location https://example.com/
//
// See --help for all available options.
package main

func main() {
	Execute()
}
