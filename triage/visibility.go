package triage

// VisibleQuestions returns the template's questions that are currently
// relevant given the answers collected so far. A question with no ShowIf is
// always visible; one with a ShowIf is visible only when the referenced
// answer equals (scalar) or contains (list) the expected value. Order is the
// template's declared order, never re-sorted.
func VisibleQuestions(t *Template, answers Answers) []Question {
	visible := make([]Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		if q.ShowIf == nil {
			visible = append(visible, q)
			continue
		}
		v, ok := answers[q.ShowIf.Field]
		if !ok {
			continue
		}
		if answerMatches(v, q.ShowIf.Equals) {
			visible = append(visible, q)
		}
	}
	return visible
}

// PruneHiddenAnswers returns a copy of answers restricted to the question IDs
// that are currently visible. Answers under keys the template does not define
// are dropped as well. Removing a hidden answer can hide further questions
// that depended on it, so pruning repeats until the map is stable; pruning an
// already-pruned map is therefore a no-op. The result is a clone that never
// aliases the input's list values.
func PruneHiddenAnswers(t *Template, answers Answers) Answers {
	out := answers
	for range t.Questions {
		pruned := pruneOnce(t, out)
		if len(pruned) == len(out) {
			return pruned.Clone()
		}
		out = pruned
	}
	return pruneOnce(t, out).Clone()
}

func pruneOnce(t *Template, answers Answers) Answers {
	visible := VisibleQuestions(t, answers)
	keep := make(map[string]bool, len(visible))
	for _, q := range visible {
		keep[q.ID] = true
	}
	out := make(Answers, len(answers))
	for id, v := range answers {
		if keep[id] {
			out[id] = v
		}
	}
	return out
}
