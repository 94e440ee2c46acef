package triage

// QuestionKind identifies how a question is answered and rendered.
type QuestionKind string

const (
	KindFreeText     QuestionKind = "free_text"
	KindSingleSelect QuestionKind = "single_select"
	KindMultiSelect  QuestionKind = "multi_select"
	KindNumber       QuestionKind = "number"
	KindScale        QuestionKind = "scale" // 1-10
)

// ShowIf gates a question's visibility on a prior answer.
// The question is visible only when the referenced answer equals (scalar)
// or contains (list) the expected value.
type ShowIf struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// Question is one entry in a template's ordered questionnaire.
type Question struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Kind     QuestionKind `json:"kind"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
	ShowIf   *ShowIf      `json:"showIf,omitempty"`
}

// ActionLevel is the urgency tier of a triggered red flag.
// The tiers form a fixed total order: ER_NOW > URGENT_CARE > CALL_CLINIC > ADVICE_ONLY.
type ActionLevel string

const (
	ActionERNow      ActionLevel = "ER_NOW"
	ActionUrgentCare ActionLevel = "URGENT_CARE"
	ActionCallClinic ActionLevel = "CALL_CLINIC"
	ActionAdviceOnly ActionLevel = "ADVICE_ONLY"
)

// Rank returns the severity rank of the action level, higher is more severe.
// Unknown levels rank below ADVICE_ONLY.
func (a ActionLevel) Rank() int {
	switch a {
	case ActionERNow:
		return 4
	case ActionUrgentCare:
		return 3
	case ActionCallClinic:
		return 2
	case ActionAdviceOnly:
		return 1
	}
	return 0
}

// RedFlag is a named urgency rule. Expression is a CEL predicate over a
// single `answers` map variable; it must evaluate to a boolean. Expressions
// should guard optional fields with has(); any evaluation error is treated
// as non-triggering.
type RedFlag struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Expression  string      `json:"expression"`
	Action      ActionLevel `json:"action"`
}

// OutputSection names one section of the structured guidance output.
type OutputSection struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// Template is the immutable definition of one symptom domain: its ordered
// question set, urgency rules, and output shape. Templates are seeded at
// startup and shared read-only across sessions.
type Template struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Questions []Question      `json:"questions"`
	RedFlags  []RedFlag       `json:"redFlags"`
	Output    []OutputSection `json:"output"`
}

// Question returns the template's question with the given ID, or nil.
func (t *Template) Question(id string) *Question {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return &t.Questions[i]
		}
	}
	return nil
}

// Answers maps a question ID to its current answer: a string, a float64, or
// a []string for multi-select questions. An Answers value is owned by exactly
// one in-progress session and is never shared across sessions.
type Answers map[string]any

// Clone returns a shallow copy of the answer map. List values are copied so
// the clone cannot alias the original's slices.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if list, ok := v.([]string); ok {
			cp := make([]string, len(list))
			copy(cp, list)
			out[k] = cp
			continue
		}
		out[k] = v
	}
	return out
}

// TriggeredFlag is one red flag that fired during evaluation.
type TriggeredFlag struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Action      ActionLevel `json:"action"`
}

// Evaluation partitions the triggered flags of one evaluation pass by
// severity. Both partitions retain every triggered flag in template
// declaration order; severity only decides the partition, it never
// suppresses a flag.
type Evaluation struct {
	Emergency    []TriggeredFlag `json:"emergency"`
	NonEmergency []TriggeredFlag `json:"nonEmergency"`
}

// HasEmergency reports whether any ER_NOW flag triggered.
func (e Evaluation) HasEmergency() bool { return len(e.Emergency) > 0 }

// All returns every triggered flag, emergency first, declaration order
// preserved within each partition.
func (e Evaluation) All() []TriggeredFlag {
	out := make([]TriggeredFlag, 0, len(e.Emergency)+len(e.NonEmergency))
	out = append(out, e.Emergency...)
	out = append(out, e.NonEmergency...)
	return out
}

// Descriptions returns the human-readable descriptions of every triggered
// flag, emergency partition first.
func (e Evaluation) Descriptions() []string {
	all := e.All()
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = f.Description
	}
	return out
}
