package util

import "testing"

func TestIsWellFormedID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"11111111-1111-1111-1111-111111111111", true},
		{"d9428888-122b-11e1-b85c-61cd3cbb3210", true},
		{"", false},
		{"not-a-uuid", false},
		{"11111111-1111-1111-1111", false},
		{"11111111-1111-1111-1111-11111111111g", false},
	}
	for _, tc := range cases {
		if got := IsWellFormedID(tc.in); got != tc.want {
			t.Errorf("IsWellFormedID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestShortID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"11111111-1111-1111-1111-111111111111", "11111111"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ShortID(tc.in); got != tc.want {
			t.Errorf("ShortID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
