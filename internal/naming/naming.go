// Package naming derives platform-legal, collision-resistant identifiers
// for the resources one demo run provisions.
package naming

import (
	"time"
)

// TimestampLayout qualifies schema and agent names so repeated runs for the
// same organization never collide.
const TimestampLayout = "20060102_150405"

// NameSet holds the resolved identifiers for one run.
type NameSet struct {
	Schema       string
	SemanticView string
	SearchIndex  string
	Agent        string
}

// Sanitize uppercases a name and replaces every character that is not a
// letter or digit (hyphens and spaces included) with an underscore.
func Sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			out = append(out, r-('a'-'A'))
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// ResolveNames produces the NameSet for an organization and creation
// timestamp. Pure function: identical inputs always yield identical names.
//
// Formats (fixed for compatibility with existing tooling):
//
//	schema        {ORG}_DEMO_{TIMESTAMP}
//	semantic view {ORG}_SEMANTIC_VIEW_SEMANTIC_MODEL
//	search index  {ORG}_SEARCH_SERVICE
//	agent         {ORG}_{TIMESTAMP}_AGENT
func ResolveNames(organization string, ts time.Time) NameSet {
	org := Sanitize(organization)
	stamp := ts.Format(TimestampLayout)
	return NameSet{
		Schema:       org + "_DEMO_" + stamp,
		SemanticView: org + "_SEMANTIC_VIEW_SEMANTIC_MODEL",
		SearchIndex:  org + "_SEARCH_SERVICE",
		Agent:        org + "_" + stamp + "_AGENT",
	}
}
