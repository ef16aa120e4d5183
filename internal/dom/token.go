package dom

import "strings"

// HasToken reports whether the space-separated list value contains token,
// ignoring ASCII case. It matches rel values such as "shortcut icon".
func HasToken(value, token string) bool {
	for _, f := range strings.Fields(value) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
