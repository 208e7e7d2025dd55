package util

import "testing"

func TestParseUintOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want uint
	}{
		{"42", 42},
		{"0", 0},
		{"", 0},
		{"-7", 0},
		{"abc", 0},
	}
	for _, tc := range cases {
		if got := ParseUintOrZero(tc.in); got != tc.want {
			t.Errorf("ParseUintOrZero(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
