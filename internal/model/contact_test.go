package model

import "testing"

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusNew, StatusInProgress, StatusResponded, StatusClosed} {
		if !ValidStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "open", "NEW", "done"} {
		if ValidStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusNew, StatusInProgress, true},
		{StatusInProgress, StatusResponded, true},
		{StatusResponded, StatusClosed, true},
		{StatusNew, StatusClosed, true},
		{StatusInProgress, StatusClosed, true},
		{StatusNew, StatusResponded, true},
		// same-state updates are allowed (notes-only changes)
		{StatusNew, StatusNew, true},
		{StatusClosed, StatusClosed, true},
		// never backwards
		{StatusInProgress, StatusNew, false},
		{StatusResponded, StatusInProgress, false},
		// closed is terminal
		{StatusClosed, StatusNew, false},
		{StatusClosed, StatusInProgress, false},
		{StatusClosed, StatusResponded, false},
		// unknown values
		{"open", StatusNew, false},
		{StatusNew, "open", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}
