package triage

import (
	"reflect"
	"testing"
)

func normalizationTemplate() *Template {
	return &Template{
		ID: "norm", Name: "Norm",
		Questions: []Question{
			{ID: "severity", Label: "Severity?", Kind: KindScale},
			{ID: "temp", Label: "Temperature?", Kind: KindNumber},
			{
				ID: "symptoms", Label: "Symptoms?", Kind: KindMultiSelect,
				Options: []string{"Cough", "Rash"},
			},
			{
				ID: "quality", Label: "Quality?", Kind: KindSingleSelect,
				Options: []string{"Sharp", "Dull"},
			},
			{ID: "notes", Label: "Notes?", Kind: KindFreeText},
		},
	}
}

// TestNormalizeAnswers_Coercion verifies the permissive coercion rules:
// numbers from ints and numeric strings, lists from scalars and []any,
// strings from numbers.
func TestNormalizeAnswers_Coercion(t *testing.T) {
	tmpl := normalizationTemplate()

	tests := []struct {
		name string
		in   Answers
		want Answers
	}{
		{
			name: "int to float for scale",
			in:   Answers{"severity": 7},
			want: Answers{"severity": 7.0},
		},
		{
			name: "numeric string to float for number",
			in:   Answers{"temp": " 38.5 "},
			want: Answers{"temp": 38.5},
		},
		{
			name: "scalar wraps into list for multi-select",
			in:   Answers{"symptoms": "Cough"},
			want: Answers{"symptoms": []string{"Cough"}},
		},
		{
			name: "any-slice stringified for multi-select",
			in:   Answers{"symptoms": []any{"Cough", "Rash"}},
			want: Answers{"symptoms": []string{"Cough", "Rash"}},
		},
		{
			name: "number stringified for single select",
			in:   Answers{"quality": "Sharp", "notes": 42},
			want: Answers{"quality": "Sharp", "notes": "42"},
		},
		{
			name: "uncoercible value dropped",
			in:   Answers{"severity": "very bad"},
			want: Answers{},
		},
		{
			name: "nil value dropped",
			in:   Answers{"notes": nil},
			want: Answers{},
		},
		{
			name: "empty list dropped",
			in:   Answers{"symptoms": []string{}},
			want: Answers{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswers(tmpl, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestNormalizeAnswers_UnknownKeySurvives verifies that keys the template
// does not define pass through in a generic shape; pruning, not
// normalization, decides whether they are kept.
func TestNormalizeAnswers_UnknownKeySurvives(t *testing.T) {
	tmpl := normalizationTemplate()

	got := NormalizeAnswers(tmpl, Answers{"mystery": "value"})
	if _, ok := got["mystery"]; !ok {
		t.Error("Expected unknown key to survive normalization")
	}
}

// TestAnswersClone_NoListAliasing verifies that mutating a clone's list does
// not leak into the original.
func TestAnswersClone_NoListAliasing(t *testing.T) {
	original := Answers{"symptoms": []string{"Cough", "Rash"}, "severity": 5.0}
	clone := original.Clone()

	clone["symptoms"].([]string)[0] = "Fever"
	if original["symptoms"].([]string)[0] != "Cough" {
		t.Error("Clone aliases the original's list")
	}
}

// TestActionLevelRank verifies the fixed severity order.
func TestActionLevelRank(t *testing.T) {
	order := []ActionLevel{ActionAdviceOnly, ActionCallClinic, ActionUrgentCare, ActionERNow}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("Expected %s to outrank %s", order[i], order[i-1])
		}
	}
	if ActionLevel("bogus").Rank() != 0 {
		t.Error("Expected unknown level to rank 0")
	}
}
