// Package prompt produces the fixed instruction text sent to the vision
// model. The text is a pure function of the static taxonomy and is built
// once at process start.
package prompt

import (
	"fmt"
	"strings"

	"issue-analyze-service/taxonomy"
)

// NonCivicSentinel is the exact token the model must return when the image
// shows no municipal issue.
const NonCivicSentinel = "NON_CIVIC_ISSUE"

var text = build()

// Text returns the analysis prompt. Identical on every call.
func Text() string {
	return text
}

func build() string {
	var b strings.Builder

	b.WriteString("Analyze this image for municipal issues and infrastructure problems that citizens would report to local government.\n\n")
	b.WriteString("FIRST, determine if there are any actual municipal/civic issues visible in the image:\n")
	b.WriteString("- Municipal issues include: fires, water leaks, road damage, electrical hazards, waste problems, park maintenance issues, building violations, health hazards\n")
	b.WriteString("- NOT municipal issues: personal items (phones, cars, food), people, animals, indoor scenes, shopping, entertainment, normal everyday objects\n\n")
	fmt.Fprintf(&b, "If NO municipal issues are present, respond with exactly: %q\n\n", NonCivicSentinel)

	b.WriteString("If municipal issues ARE present, provide a JSON response with this structure:\n")
	b.WriteString("{\n")
	fmt.Fprintf(&b, "    \"department\": \"ONE OF: %s\",\n", joinDepartments())
	fmt.Fprintf(&b, "    \"priority\": \"ONE OF: %s\",\n", joinPriorities())
	b.WriteString("    \"description\": \"Detailed description of the issue visible in the image\",\n")
	b.WriteString("    \"location_details\": \"Any visible location markers, street signs, or identifying features\",\n")
	b.WriteString("    \"recommended_action\": \"Suggested action to resolve the issue\",\n")
	b.WriteString("    \"safety_concern\": \"Yes/No - whether this poses immediate safety risk\",\n")
	b.WriteString("    \"confidence_score\": \"0.0-1.0 - confidence in the analysis\"\n")
	b.WriteString("}\n\n")
	b.WriteString("Do not wrap the JSON in markdown code fences.\n\n")

	b.WriteString("CLASSIFICATION GUIDELINES:\n\nDEPARTMENTS:\n")
	for _, d := range taxonomy.Departments {
		fmt.Fprintf(&b, "- %s: %s\n", d, strings.Join(taxonomy.Hints[d], ", "))
	}

	b.WriteString("\nPRIORITY LEVELS:\n")
	for _, p := range taxonomy.Priorities {
		fmt.Fprintf(&b, "- %s: %s\n", p, taxonomy.PriorityGuidance[p])
	}

	b.WriteString("\nBe strict about what constitutes a municipal issue. Personal items, indoor scenes, and normal everyday objects are NOT municipal issues.\n")

	return b.String()
}

func joinDepartments() string {
	names := make([]string, len(taxonomy.Departments))
	for i, d := range taxonomy.Departments {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func joinPriorities() string {
	names := make([]string, len(taxonomy.Priorities))
	for i, p := range taxonomy.Priorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
