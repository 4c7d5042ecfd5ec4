package prompt

import (
	"strings"
	"testing"

	"issue-analyze-service/taxonomy"
)

func TestTextContainsSentinel(t *testing.T) {
	if !strings.Contains(Text(), NonCivicSentinel) {
		t.Errorf("prompt does not instruct the sentinel token %q", NonCivicSentinel)
	}
}

func TestTextContainsTaxonomy(t *testing.T) {
	body := Text()
	for _, d := range taxonomy.Departments {
		if !strings.Contains(body, string(d)) {
			t.Errorf("prompt missing department %s", d)
		}
	}
	for _, p := range taxonomy.Priorities {
		if !strings.Contains(body, string(p)) {
			t.Errorf("prompt missing priority %s", p)
		}
	}
}

func TestTextContainsResponseFields(t *testing.T) {
	body := Text()
	for _, field := range []string{
		"department", "priority", "description", "location_details",
		"recommended_action", "safety_concern", "confidence_score",
	} {
		if !strings.Contains(body, field) {
			t.Errorf("prompt missing response field %q", field)
		}
	}
}

func TestTextStable(t *testing.T) {
	if Text() != Text() {
		t.Error("prompt text changed between calls")
	}
}
