package triage

import (
	"strconv"
	"strings"
)

// NormalizeAnswers coerces loosely-typed answer values into the three shapes
// the engine evaluates against: string, float64, or []string. Coercion is
// permissive: numeric strings parse to float64 for number/scale questions,
// scalars answering a multi-select wrap into a one-element list, and list
// elements are stringified. A value that cannot be coerced is dropped, which
// the evaluator treats the same as an absent answer.
func NormalizeAnswers(t *Template, answers Answers) Answers {
	out := make(Answers, len(answers))
	for id, v := range answers {
		if v == nil {
			continue
		}
		q := t.Question(id)
		if q == nil {
			// Unknown key: keep the raw value in its generic shape so that
			// pruning, not normalization, decides whether it survives.
			if nv, ok := normalizeScalar(v); ok {
				out[id] = nv
			}
			continue
		}
		switch q.Kind {
		case KindNumber, KindScale:
			if f, ok := toFloat(v); ok {
				out[id] = f
			}
		case KindMultiSelect:
			if list, ok := toStringList(v); ok && len(list) > 0 {
				out[id] = list
			}
		default:
			if s, ok := toString(v); ok {
				out[id] = s
			}
		}
	}
	return out
}

func normalizeScalar(v any) (any, bool) {
	if list, ok := toStringList(v); ok {
		return list, true
	}
	if f, ok := toFloat(v); ok {
		return f, true
	}
	if s, ok := toString(v); ok {
		return s, true
	}
	return nil, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func toStringList(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := toString(e); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		if t == "" {
			return nil, false
		}
		return []string{t}, true
	}
	return nil, false
}

// answerMatches reports whether an answer value matches the expected string:
// equality for scalars, membership for lists. Numeric answers compare against
// the expected value's numeric parse when possible, otherwise its string form.
func answerMatches(v any, expected string) bool {
	switch t := v.(type) {
	case string:
		return t == expected
	case []string:
		for _, s := range t {
			if s == expected {
				return true
			}
		}
		return false
	case float64:
		if f, err := strconv.ParseFloat(expected, 64); err == nil {
			return t == f
		}
		return strconv.FormatFloat(t, 'f', -1, 64) == expected
	case []any:
		for _, e := range t {
			if s, ok := toString(e); ok && s == expected {
				return true
			}
		}
		return false
	}
	return false
}
