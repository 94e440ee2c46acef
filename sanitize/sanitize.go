// Package sanitize scrubs likely personal identifiers out of user-entered
// free text before it reaches a generated prompt, and offers a detect-only
// scan used to warn users before they submit content.
package sanitize

import (
	"regexp"
	"strings"
)

// Placeholder tokens inserted for redacted spans. Bracketed lowercase forms
// are chosen so later passes never re-match them: they contain no digits and
// no Title-Case words.
const (
	DatePlaceholder   = "[date]"
	NumberPlaceholder = "[number]"
	NamePlaceholder   = "[name]"
)

var (
	// Numeric dates: 3/14/2020, 03-14-20, 2020/03/14.
	numericDateRe = regexp.MustCompile(`\b\d{1,4}[/\-]\d{1,2}[/\-]\d{1,4}\b`)

	// Month-name dates: March 14, March 14th 2020, 14 March, Mar 3.
	monthNameDateRe = regexp.MustCompile(`\b(?:(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?|\d{1,2}\s+(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)(?:\.?,?\s+\d{4})?)\b`)

	// Runs of 4+ consecutive digits: MRNs, phone fragments, IDs.
	longNumberRe = regexp.MustCompile(`\d{4,}`)

	// 1-3 consecutive Title-Case words.
	titleCaseRunRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2}\b`)
)

// safeWords are Title-Case words that never count as name parts: weekdays,
// pronouns, and generic/clinical vocabulary common at sentence starts.
var safeWords = map[string]bool{
	// Weekdays.
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
	// Personal pronouns and common sentence openers.
	"I": true, "He": true, "She": true, "They": true, "We": true, "You": true,
	"It": true, "My": true, "His": true, "Her": true, "Their": true, "Our": true,
	"Me": true, "Him": true, "Them": true, "Us": true,
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"These": true, "Those": true, "There": true, "When": true, "After": true,
	"Before": true, "Since": true, "During": true, "On": true, "At": true,
	"In": true, "For": true, "From": true, "With": true, "About": true,
	"Yesterday": true, "Today": true,
	"Tomorrow": true, "Last": true, "Next": true, "No": true, "Yes": true,
	"Not": true, "Also": true, "Then": true, "And": true, "But": true,
	// Generic clinical vocabulary.
	"Doctor": true, "Dr": true, "Nurse": true, "Hospital": true, "Clinic": true,
	"Emergency": true, "Urgent": true, "Care": true, "Room": true,
	"Cardiology": true, "Neurology": true, "Radiology": true, "Oncology": true,
	"Pediatrics": true, "Tylenol": true, "Ibuprofen": true, "Advil": true,
	"Aspirin": true, "Covid": true, "Mri": true, "Ct": true, "Er": true,
}

// SanitizeFreeText rewrites free text for safe embedding in a prompt. Passes
// run in a fixed order over the same string: dates first, then long digit
// runs, then Title-Case name candidates. Placeholder tokens inserted by an
// earlier pass contain no digits or capitals, so later passes cannot re-match
// them. Text with no identifiers passes through unchanged.
func SanitizeFreeText(s string) string {
	out := numericDateRe.ReplaceAllString(s, DatePlaceholder)
	out = monthNameDateRe.ReplaceAllString(out, DatePlaceholder)
	out = longNumberRe.ReplaceAllString(out, NumberPlaceholder)
	out = titleCaseRunRe.ReplaceAllStringFunc(out, replaceNameCandidate)
	return out
}

// replaceNameCandidate decides whether a Title-Case run is a plausible name.
// Runs made entirely of safe words stay untouched; a run containing any
// non-safe Title-Case word is replaced wholesale. Safe leading words are
// peeled off first so "She met John Smith" keeps the pronoun.
func replaceNameCandidate(match string) string {
	words := strings.Fields(match)

	// Peel safe words off the front and back, keeping them verbatim.
	start := 0
	for start < len(words) && safeWords[words[start]] {
		start++
	}
	if start == len(words) {
		return match
	}
	end := len(words)
	for end > start && safeWords[words[end-1]] {
		end--
	}

	var b strings.Builder
	for _, w := range words[:start] {
		b.WriteString(w)
		b.WriteString(" ")
	}
	b.WriteString(NamePlaceholder)
	for _, w := range words[end:] {
		b.WriteString(" ")
		b.WriteString(w)
	}
	return b.String()
}
