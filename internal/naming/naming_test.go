package naming

import (
	"testing"
	"time"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "acme", expected: "ACME"},
		{name: "hyphen", input: "Acme-Corp", expected: "ACME_CORP"},
		{name: "space", input: "Acme Corp", expected: "ACME_CORP"},
		{name: "punctuation", input: "Acme, Inc.", expected: "ACME__INC_"},
		{name: "digits preserved", input: "Area51", expected: "AREA51"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveNames(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	names := ResolveNames("Acme-Corp", ts)

	if names.Schema != "ACME_CORP_DEMO_20250314_092653" {
		t.Errorf("schema = %q", names.Schema)
	}
	if names.SemanticView != "ACME_CORP_SEMANTIC_VIEW_SEMANTIC_MODEL" {
		t.Errorf("semantic view = %q", names.SemanticView)
	}
	if names.SearchIndex != "ACME_CORP_SEARCH_SERVICE" {
		t.Errorf("search index = %q", names.SearchIndex)
	}
	if names.Agent != "ACME_CORP_20250314_092653_AGENT" {
		t.Errorf("agent = %q", names.Agent)
	}
}

func TestResolveNamesDeterministic(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if ResolveNames("Acme", ts) != ResolveNames("Acme", ts) {
		t.Error("identical inputs should yield identical names")
	}
}

func TestResolveNamesDistinctRuns(t *testing.T) {
	first := ResolveNames("Acme", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	second := ResolveNames("Acme", time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC))

	if first.Schema == second.Schema {
		t.Error("schema names for different timestamps should differ")
	}
	if first.Agent == second.Agent {
		t.Error("agent names for different timestamps should differ")
	}
	if first.SemanticView != second.SemanticView {
		t.Error("semantic view name should not depend on the timestamp")
	}
}
