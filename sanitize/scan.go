package sanitize

import "regexp"

// SpanKind classifies a suspected identifier found by Scan.
type SpanKind string

const (
	SpanDate   SpanKind = "date"
	SpanNumber SpanKind = "number"
	SpanName   SpanKind = "name"
)

// Span is one suspected identifier: its kind, the matched text, and its
// character offsets [Start, End) in the scanned string.
type Span struct {
	Kind  SpanKind `json:"kind"`
	Text  string   `json:"text"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}

// ScanReport summarizes a detect-only pass over arbitrary text. The input is
// never modified; the report is meant to warn a user before they submit.
type ScanReport struct {
	Dates   int    `json:"dates"`
	Numbers int    `json:"numbers"`
	Names   int    `json:"names"`
	Spans   []Span `json:"spans"`
}

// Clean reports whether nothing suspicious was found.
func (r ScanReport) Clean() bool { return len(r.Spans) == 0 }

// Name detection for the scan is deliberately narrower than the rewrite
// pass: it only fires on phrase-anchored patterns, so ordinary Title-Case
// prose does not trigger warnings.
var namePhraseRes = []*regexp.Regexp{
	// "my name is John", "the patient's name is Jane Doe". Case-insensitivity
	// covers the anchor phrase only; the capture stays strictly Title-Case.
	regexp.MustCompile(`\b(?i:name is)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`),
	// "patient John Smith", "Patient: Jane"
	regexp.MustCompile(`\b(?i:patient):?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`),
	// Title + capitalized name: "Dr. Smith", "Mrs Jones", "Mr. John Smith"
	regexp.MustCompile(`\b(?:Dr|Mr|Mrs|Ms|Prof)\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`),
}

// Scan looks for suspected dates, long numbers, and name-like phrases in the
// given text and returns counts plus character-offset spans. The text itself
// is left untouched.
func Scan(s string) ScanReport {
	var report ScanReport

	appendMatches := func(kind SpanKind, locs [][]int) {
		for _, loc := range locs {
			report.Spans = append(report.Spans, Span{
				Kind:  kind,
				Text:  s[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	dateLocs := numericDateRe.FindAllStringIndex(s, -1)
	dateLocs = append(dateLocs, monthNameDateRe.FindAllStringIndex(s, -1)...)
	report.Dates = len(dateLocs)
	appendMatches(SpanDate, dateLocs)

	numberLocs := filterContained(longNumberRe.FindAllStringIndex(s, -1), dateLocs)
	report.Numbers = len(numberLocs)
	appendMatches(SpanNumber, numberLocs)

	var nameLocs [][]int
	for _, re := range namePhraseRes {
		for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
			// Capture group 1 is the name itself, not the anchoring phrase.
			if len(m) >= 4 && m[2] >= 0 {
				nameLocs = append(nameLocs, []int{m[2], m[3]})
			}
		}
	}
	nameLocs = dedupeSpans(nameLocs)
	report.Names = len(nameLocs)
	appendMatches(SpanName, nameLocs)

	return report
}

// filterContained drops spans that fall entirely inside any of the covering
// spans, so digits inside an already-reported date are not double counted.
func filterContained(spans, covering [][]int) [][]int {
	out := spans[:0]
	for _, sp := range spans {
		contained := false
		for _, c := range covering {
			if sp[0] >= c[0] && sp[1] <= c[1] {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, sp)
		}
	}
	return out
}

func dedupeSpans(spans [][]int) [][]int {
	seen := make(map[[2]int]bool, len(spans))
	out := spans[:0]
	for _, sp := range spans {
		key := [2]int{sp[0], sp[1]}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sp)
	}
	return out
}
