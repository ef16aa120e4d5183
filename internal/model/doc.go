// Package model defines the data shared by the analysis packages.
//
// An Analysis is the explicit context of one run: it owns one OriginSet per
// Category and the ordered list of inline Violations. The collector and the
// inline detector fill it, the policy and report packages read it.
//
// The types serialize to JSON for the report writers.
package model
