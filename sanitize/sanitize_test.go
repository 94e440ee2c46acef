package sanitize

import (
	"strings"
	"testing"
)

// TestSanitizeFreeText_FullRedaction verifies that a name, a numeric date,
// and a long digit run in one sentence all get replaced.
func TestSanitizeFreeText_FullRedaction(t *testing.T) {
	in := "My name is John Doe, my birthday is 3/14/1985 and my MRN is 12345678."
	out := SanitizeFreeText(in)

	if strings.Contains(out, "John") || strings.Contains(out, "Doe") {
		t.Errorf("Name not redacted: %s", out)
	}
	if strings.Contains(out, "3/14/1985") {
		t.Errorf("Date not redacted: %s", out)
	}
	if strings.Contains(out, "12345678") {
		t.Errorf("Number not redacted: %s", out)
	}
	for _, ph := range []string{NamePlaceholder, DatePlaceholder, NumberPlaceholder} {
		if !strings.Contains(out, ph) {
			t.Errorf("Expected placeholder %s in output: %s", ph, out)
		}
	}
}

// TestSanitizeFreeText_SafeProseUnchanged verifies that ordinary prose with
// weekdays and pronouns passes through byte for byte.
func TestSanitizeFreeText_SafeProseUnchanged(t *testing.T) {
	in := "She felt better on Monday after resting."
	if out := SanitizeFreeText(in); out != in {
		t.Errorf("Expected safe prose unchanged, got: %s", out)
	}
}

// TestSanitizeFreeText_Cases covers the individual passes.
func TestSanitizeFreeText_Cases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "numeric date with dashes",
			in:   "It started on 03-14-20 roughly.",
			want: "It started on [date] roughly.",
		},
		{
			name: "month name date",
			in:   "The surgery was March 14, 2020 I think.",
			want: "The surgery was [date] I think.",
		},
		{
			name: "day before month",
			in:   "I was admitted 14 March 2020 overnight.",
			want: "I was admitted [date] overnight.",
		},
		{
			name: "long number",
			in:   "You can call me at 5551234567 anytime.",
			want: "You can call me at [number] anytime.",
		},
		{
			name: "short number kept",
			in:   "My pain is 8 out of 10 since 3 days ago.",
			want: "My pain is 8 out of 10 since 3 days ago.",
		},
		{
			name: "safe words peeled off name run",
			in:   "On Monday John visited.",
			want: "On Monday [name] visited.",
		},
		{
			name: "multi-word name collapses to one placeholder",
			in:   "I was seen by Maria Garcia Lopez today.",
			want: "I was seen by [name] today.",
		},
		{
			name: "clinical vocabulary untouched",
			in:   "The Emergency Room gave me Tylenol.",
			want: "The Emergency Room gave me Tylenol.",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestSanitizeFreeText_PlaceholdersStable verifies that sanitizing already
// sanitized text changes nothing; placeholders never re-match.
func TestSanitizeFreeText_PlaceholdersStable(t *testing.T) {
	in := "My name is John Doe, my birthday is 3/14/1985 and my MRN is 12345678."
	once := SanitizeFreeText(in)
	twice := SanitizeFreeText(once)
	if once != twice {
		t.Errorf("Sanitization is not idempotent: %q vs %q", once, twice)
	}
}
