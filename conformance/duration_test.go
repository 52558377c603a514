package conformance

import "testing"

func TestISO8601Duration(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"PT1H30M", true},
		{"P3D", true},
		{"P1Y2M10DT2H30M", true},
		{"PT0.5S", true},
		{"P2W", true},
		{"P", false},
		{"PT", false},
		{"P1DT", false},
		{"1H", false},
		{"soon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ISO8601Duration(tt.in)
			if (err == nil) != tt.valid {
				t.Errorf("ISO8601Duration(%q) = %v, want valid=%v", tt.in, err, tt.valid)
			}
		})
	}
}

func TestNonEmpty(t *testing.T) {
	if NonEmpty("x") != nil {
		t.Error("NonEmpty(x) should pass")
	}
	if NonEmpty("") == nil {
		t.Error("NonEmpty(\"\") should fail")
	}
}
