package services

import "testing"

func TestNormalizeGroupName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"CS-Lab 2026", "cslab2026"},
		{"cs lab_2026", "cslab2026"},
		{"  Seminar A  ", "seminara"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeGroupName(c.in); got != c.want {
			t.Errorf("normalizeGroupName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
