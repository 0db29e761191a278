package domain

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		label string
		want  TicketStatus
		ok    bool
	}{
		{"Pending", TicketStatusPending, true},
		{"In Review", TicketStatusInReview, true},
		{"Resolved", TicketStatusResolved, true},
		{"Closed", "", false},
		{"pending", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.label)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tc.label, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseType(t *testing.T) {
	for _, label := range []string{"feedback", "complaint", "suggestion", "praise", "bug"} {
		if _, ok := ParseType(label); !ok {
			t.Errorf("ParseType(%q) rejected a valid label", label)
		}
	}
	for _, label := range []string{"Feedback", "question", ""} {
		if _, ok := ParseType(label); ok {
			t.Errorf("ParseType(%q) accepted an invalid label", label)
		}
	}
}

func TestParsePriority(t *testing.T) {
	for _, label := range []string{"Low", "Medium", "High", "Critical"} {
		if _, ok := ParsePriority(label); !ok {
			t.Errorf("ParsePriority(%q) rejected a valid label", label)
		}
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Error("ParsePriority accepted an unknown label")
	}
}

func TestValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		if got := ValidRating(rating); got != want {
			t.Errorf("ValidRating(%d) = %v, want %v", rating, got, want)
		}
	}
}

func TestNormalizeTag(t *testing.T) {
	cases := map[string]string{
		"Urgent":      "urgent",
		"  Billing  ": "billing",
		"ALREADY":     "already",
		"   ":         "",
	}
	for input, want := range cases {
		if got := NormalizeTag(input); got != want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", input, got, want)
		}
	}
}
