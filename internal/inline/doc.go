// Package inline finds inline code that a Content-Security-Policy without
// 'unsafe-inline' would block: on* event handler attributes and <script>
// elements with a body.
package inline
