// Package guidance turns a template, a session's answers, and the triggered
// red flags into the material for one generation attempt: a standalone
// instruction block, or a system/user prompt pair with an output schema and
// a deterministic fallback that needs no network at all.
package guidance

import (
	"fmt"
	"strings"

	"github.com/carelight/triage/sanitize"
	"github.com/carelight/triage/triage"
)

// GuidancePlan is everything one generation attempt needs. The fallback is
// computed up front so a caller can substitute it on any failure without a
// second pass through the engine.
type GuidancePlan struct {
	SystemPrompt string
	UserPrompt   string
	OutputSchema *SchemaDescriptor
	Fallback     GuidanceSections
}

const (
	skippedMarker = "(skipped)"
	noFlagsNoted  = "None noted"

	safetySentence = "This is general health education, not a diagnosis; for severe or worsening symptoms seek medical care right away."
)

// BuildPrompt renders a single self-contained instruction block: framing,
// style and privacy directives, the user's role and goal, every visible
// question with its answer (or a skipped marker), the supplied red flags,
// and a closing safety sentence. Deterministic for identical inputs.
func BuildPrompt(t *triage.Template, answers triage.Answers, role, goal string, redFlags []string) string {
	var b strings.Builder

	b.WriteString("You are preparing educational health information about " + t.Name + ".\n")
	b.WriteString("Write in plain, calm language a worried layperson can follow; avoid jargon and alarmism.\n")
	b.WriteString("Do not repeat names, dates, or identification numbers; refer to the person only by their role.\n\n")

	fmt.Fprintf(&b, "Role: %s\n", orUnspecified(role))
	fmt.Fprintf(&b, "Goal: %s\n\n", orUnspecified(goal))

	b.WriteString("Reported answers:\n")
	for _, q := range triage.VisibleQuestions(t, answers) {
		fmt.Fprintf(&b, "- %s %s\n", q.Label, renderAnswer(q, answers))
	}

	b.WriteString("\nUrgency notes:\n")
	if len(redFlags) == 0 {
		b.WriteString("- " + noFlagsNoted + "\n")
	} else {
		for _, f := range redFlags {
			b.WriteString("- " + f + "\n")
		}
	}

	b.WriteString("\n" + safetySentence + "\n")
	return b.String()
}

// BuildGuidance builds the plan for an external generation call: a system
// instruction describing the task and the exact JSON contract, a user
// instruction carrying the session's sanitized answers, the compiled output
// schema, and a fallback result that already satisfies that schema.
func BuildGuidance(t *triage.Template, answers triage.Answers, role, goal string, redFlags []string) (GuidancePlan, error) {
	schema, err := OutputSchema()
	if err != nil {
		return GuidancePlan{}, err
	}

	var sys strings.Builder
	sys.WriteString("You write educational health guidance about " + t.Name + " for a layperson. ")
	sys.WriteString("You never diagnose or prescribe; you explain what the reported answers can mean and when to seek care. ")
	sys.WriteString("Use calm, plain language. Never include names, dates, or identification numbers in your output.\n\n")
	sys.WriteString("Respond with a single JSON object and nothing else, with exactly these fields:\n")
	for _, f := range schema.Fields {
		if f.Array {
			fmt.Fprintf(&sys, "- %s: array of 1-%d strings, each at most %d characters\n", f.Name, f.MaxItems, f.MaxLen)
		} else {
			fmt.Fprintf(&sys, "- %s: string, at most %d characters\n", f.Name, f.MaxLen)
		}
	}

	var usr strings.Builder
	fmt.Fprintf(&usr, "Role: %s\n", orUnspecified(role))
	fmt.Fprintf(&usr, "Goal: %s\n", orUnspecified(goal))
	fmt.Fprintf(&usr, "Topic: %s\n\n", t.Name)
	usr.WriteString("Reported answers:\n")
	for _, q := range triage.VisibleQuestions(t, answers) {
		fmt.Fprintf(&usr, "- %s %s\n", q.Label, renderAnswer(q, answers))
	}
	usr.WriteString("\nTriggered urgency notes:\n")
	if len(redFlags) == 0 {
		usr.WriteString("- " + noFlagsNoted + "\n")
	} else {
		for _, f := range redFlags {
			usr.WriteString("- " + f + "\n")
		}
	}

	return GuidancePlan{
		SystemPrompt: sys.String(),
		UserPrompt:   usr.String(),
		OutputSchema: schema,
		Fallback:     Fallback(t.Name, redFlags),
	}, nil
}

// Fallback derives a complete, schema-valid result from the template name
// and the supplied red flags alone. It needs no answers and no network, so
// it is always available as a substitute for failed or invalid generations.
func Fallback(templateName string, redFlags []string) GuidanceSections {
	watchFor := make([]string, 0, len(redFlags))
	for _, f := range redFlags {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			watchFor = append(watchFor, truncate(trimmed, 200))
		}
	}
	if len(watchFor) == 0 {
		watchFor = []string{"No additional red flags identified from your answers"}
	}
	if len(watchFor) > 8 {
		watchFor = watchFor[:8]
	}

	return GuidanceSections{
		Title: truncate("Understanding "+templateName, 120),
		Summary: truncate(fmt.Sprintf(
			"Here is general information about %s based on the answers you shared. "+
				"It can help you decide what to watch for and how to talk with a clinician, "+
				"but it cannot replace an examination.", strings.ToLower(templateName)), 600),
		WatchFor: watchFor,
		Guidance: []string{
			"Keep track of when symptoms started and whether they are getting better or worse.",
			"Rest, stay hydrated, and avoid anything that clearly makes the symptoms worse.",
			"If any warning sign above appears, seek care at the level it suggests without waiting.",
		},
		DoctorPrep: []string{
			"Write down when the symptoms began and how they have changed.",
			"List any medications you take and anything you have tried for relief.",
			"Note questions you want answered so the visit covers what matters to you.",
		},
		SafetyReminder: truncate(safetySentence, 300),
	}
}

func renderAnswer(q triage.Question, answers triage.Answers) string {
	v, ok := answers[q.ID]
	if !ok || v == nil {
		return skippedMarker
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return skippedMarker
		}
		if q.Kind == triage.KindFreeText {
			return sanitize.SanitizeFreeText(t)
		}
		return t
	case []string:
		if len(t) == 0 {
			return skippedMarker
		}
		return strings.Join(t, ", ")
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", t), "0"), ".")
	case int:
		return fmt.Sprintf("%d", t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, fmt.Sprintf("%v", e))
		}
		if len(parts) == 0 {
			return skippedMarker
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return strings.TrimSpace(s)
}

// truncate limits s to max characters the way the schema counts them
// (code points, not bytes).
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
