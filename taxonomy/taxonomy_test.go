package taxonomy

import "testing"

func TestParseDepartment(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Department
		wantOK bool
	}{
		{"exact", "FIRE", Fire, true},
		{"lower case", "water", Water, true},
		{"mixed case with spaces", " Roads ", Roads, true},
		{"space variant", "Civic Infrastructure", CivicInfra, true},
		{"dash variant", "disaster-relief", DisasterRelief, true},
		{"unknown", "BOGUS", DefaultDepartment, false},
		{"empty", "", DefaultDepartment, false},
		{"unknown token from model", "UNKNOWN", DefaultDepartment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDepartment(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDepartment(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Priority
		wantOK bool
	}{
		{"exact", "CRITICAL", Critical, true},
		{"lower case", "low", Low, true},
		{"padded", "  High ", High, true},
		{"unknown", "SUPERHIGH", DefaultPriority, false},
		{"empty", "", DefaultPriority, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePriority(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePriority(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHintsCoverEveryDepartment(t *testing.T) {
	for _, d := range Departments {
		if len(Hints[d]) == 0 {
			t.Errorf("department %s has no hint keywords", d)
		}
	}
}

func TestGuidanceCoversEveryPriority(t *testing.T) {
	for _, p := range Priorities {
		if PriorityGuidance[p] == "" {
			t.Errorf("priority %s has no guidance text", p)
		}
	}
}
