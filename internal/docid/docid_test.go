package docid

import "testing"

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
		if !Valid(id) {
			t.Errorf("generated id %s is not valid", id)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"c6a1b7e4-1f2d-4c3b-9a8e-7d6f5e4c3b2a", true},
		{Zero, false},
		{"", false},
		{"not-a-uuid", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
