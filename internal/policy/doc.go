// Package policy renders collected origins and inline violations as a
// Content-Security-Policy recommendation.
//
// Format produces the human-readable recommendation, one directive per line.
// Header and MetaTag produce the same policy in deployable form.
package policy
