package triage

import (
	"github.com/carelight/triage/internal/logger"
)

// Evaluate runs every red flag of the template against the given answers and
// partitions the triggered flags by severity. Flags run in declaration order.
// A predicate that errors (missing key, type mismatch, anything) is logged
// and treated as non-triggering, and evaluation of the remaining flags
// continues, so a single broken rule cannot take the whole questionnaire
// down.
//
// Evaluation is pure and deterministic: identical (template, answers) input
// always yields an identical Evaluation.
func (r *Registry) Evaluate(t *Template, answers Answers) Evaluation {
	normalized := NormalizeAnswers(t, answers)
	facts := map[string]any{"answers": map[string]any(normalized)}

	var ev Evaluation
	for _, flag := range t.RedFlags {
		prog, ok := r.programs[programKey(t.ID, flag.ID)]
		if !ok {
			// Unreachable after NewRegistry, but a missing program must not
			// abort the remaining flags either.
			logger.PredicateFailures.Add(1)
			logger.Error("red flag predicate not compiled", "template", t.ID, "flag", flag.ID)
			continue
		}

		out, _, err := prog.Eval(facts)
		if err != nil {
			logger.PredicateFailures.Add(1)
			logger.Warn("red flag predicate failed, treating as non-triggering",
				"template", t.ID, "flag", flag.ID, "error", err)
			continue
		}

		triggered, ok := out.Value().(bool)
		if !ok || !triggered {
			continue
		}

		logger.Debug("red flag triggered", "template", t.ID, "flag", flag.ID, "action", flag.Action)
		tf := TriggeredFlag{ID: flag.ID, Description: flag.Description, Action: flag.Action}
		if flag.Action == ActionERNow {
			ev.Emergency = append(ev.Emergency, tf)
		} else {
			ev.NonEmergency = append(ev.NonEmergency, tf)
		}
	}
	return ev
}
