// Package query compiles analyst filter strings into predicate chains over
// alert records.
//
// The language is a flat sequence of field=value terms joined by AND / OR.
// Compilation folds terms left to right: the default combinator is AND, and
// an OR merges the new term with the immediately preceding predicate only.
// So `A AND B OR C` compiles to `A AND (B OR C)`, not `(A AND B) OR C`.
// This left-fold semantic is load-bearing: saved hunt queries and the NL
// translator both target it, so it must not be "fixed" into standard boolean
// precedence.
package query

import (
	"regexp"
	"strings"

	"github.com/secmon-lab/warden/pkg/domain/model"
)

// Predicate is one compiled filter term
type Predicate func(*model.Alert) bool

var (
	operatorRe = regexp.MustCompile(`(?i)\s+(AND|OR)\s+`)
	termRe     = regexp.MustCompile(`^(\w+)\s*=\s*"?([^"]+)"?$`)
)

// Parse compiles a query string into a predicate list. A blank query yields
// an empty list. Terms that do not match the field=value shape are silently
// dropped; a query where every term is malformed also yields an empty list.
// Parsing never fails.
func Parse(q string) []Predicate {
	if strings.TrimSpace(q) == "" {
		return nil
	}

	var filters []Predicate
	logic := "AND"

	for _, part := range splitPreservingOperators(q) {
		switch strings.ToUpper(part) {
		case "AND", "OR":
			logic = strings.ToUpper(part)
			continue
		}

		m := termRe.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		key, value := m[1], m[2]

		pred := func(alert *model.Alert) bool {
			fieldValue, ok := alert.Field(key)
			if !ok {
				return false
			}
			return strings.EqualFold(fieldValue, value)
		}

		if logic == "OR" && len(filters) > 0 {
			prev := filters[len(filters)-1]
			filters[len(filters)-1] = func(alert *model.Alert) bool {
				return prev(alert) || pred(alert)
			}
		} else {
			filters = append(filters, pred)
		}
	}

	return filters
}

// Match reports whether the alert satisfies every predicate in the list.
// An empty list matches everything.
func Match(alert *model.Alert, filters []Predicate) bool {
	for _, f := range filters {
		if !f(alert) {
			return false
		}
	}
	return true
}

// Filter returns the alerts matching the query, preserving stored order.
// Blank queries and queries with no parseable terms return the input as is.
func Filter(alerts []*model.Alert, q string) []*model.Alert {
	filters := Parse(q)
	if len(filters) == 0 {
		return alerts
	}

	matched := make([]*model.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if Match(alert, filters) {
			matched = append(matched, alert)
		}
	}
	return matched
}

// splitPreservingOperators splits the query on AND/OR separators, keeping the
// operator tokens in the output stream (the behavior of a capturing split)
func splitPreservingOperators(q string) []string {
	var parts []string
	last := 0
	for _, loc := range operatorRe.FindAllStringSubmatchIndex(q, -1) {
		parts = append(parts, q[last:loc[0]])
		parts = append(parts, q[loc[2]:loc[3]])
		last = loc[1]
	}
	parts = append(parts, q[last:])
	return parts
}
