package models

import "testing"

func TestNormalizePriority(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Low", "Low", true},
		{"low", "Low", true},
		{"MEDIUM", "Medium", true},
		{"hIgH", "High", true},
		{"", "Medium", true},
		{"urgent", "", false},
		{"highest", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizePriority(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizePriority(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"not started", "not started", true},
		{"Not Started", "not started", true},
		{"IN PROGRESS", "in progress", true},
		{"Completed", "completed", true},
		{"", "", false},
		{"done", "", false},
		{"notstarted", "", false},
	}

	for _, tc := range cases {
		got, ok := NormalizeStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("NormalizeStatus(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
