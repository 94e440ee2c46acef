package guidance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// GuidanceSections is the structured result shape shared by generated content
// and the deterministic fallback. Callers apply one code path regardless of
// which source produced it.
type GuidanceSections struct {
	Title          string   `json:"title"`
	Summary        string   `json:"summary"`
	WatchFor       []string `json:"watch_for"`
	Guidance       []string `json:"guidance"`
	DoctorPrep     []string `json:"doctor_prep"`
	SafetyReminder string   `json:"safety_reminder"`
}

// FieldSpec describes one output field's constraints for prompt rendering
// and schema generation.
type FieldSpec struct {
	Name     string `json:"name"`
	Array    bool   `json:"array"`
	MaxLen   int    `json:"maxLen"`   // max characters per value (or per item)
	MaxItems int    `json:"maxItems"` // arrays only; min is always 1
}

// SchemaDescriptor is the machine-checkable contract for generated content:
// the field list plus a compiled JSON Schema to validate raw model output
// against before it is accepted.
type SchemaDescriptor struct {
	Fields []FieldSpec
	schema *gojsonschema.Schema
	raw    []byte
}

// outputFields is the fixed section contract: every field required, arrays
// non-empty, every value length-bounded.
var outputFields = []FieldSpec{
	{Name: "title", MaxLen: 120},
	{Name: "summary", MaxLen: 600},
	{Name: "watch_for", Array: true, MaxLen: 200, MaxItems: 8},
	{Name: "guidance", Array: true, MaxLen: 300, MaxItems: 10},
	{Name: "doctor_prep", Array: true, MaxLen: 200, MaxItems: 8},
	{Name: "safety_reminder", MaxLen: 300},
}

// OutputSchema builds the section schema. The descriptor is immutable once
// built; building it again yields an equivalent value.
func OutputSchema() (*SchemaDescriptor, error) {
	props := make(map[string]any, len(outputFields))
	required := make([]string, 0, len(outputFields))
	for _, f := range outputFields {
		required = append(required, f.Name)
		if f.Array {
			props[f.Name] = map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": f.MaxItems,
				"items": map[string]any{
					"type":      "string",
					"minLength": 1,
					"maxLength": f.MaxLen,
				},
			}
			continue
		}
		props[f.Name] = map[string]any{
			"type":      "string",
			"minLength": 1,
			"maxLength": f.MaxLen,
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"required":             required,
		"additionalProperties": false,
		"properties":           props,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output schema: %w", err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile output schema: %w", err)
	}

	fields := make([]FieldSpec, len(outputFields))
	copy(fields, outputFields)
	return &SchemaDescriptor{Fields: fields, schema: schema, raw: raw}, nil
}

// JSON returns the schema document as raw JSON.
func (d *SchemaDescriptor) JSON() []byte {
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out
}

// Validate checks raw JSON content against the schema and, on success,
// decodes it into GuidanceSections.
func (d *SchemaDescriptor) Validate(raw []byte) (GuidanceSections, error) {
	var sections GuidanceSections
	result, err := d.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return sections, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return sections, fmt.Errorf("content does not match output schema: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return sections, fmt.Errorf("failed to decode sections: %w", err)
	}
	return sections, nil
}

// ValidateSections marshals the sections and validates them against the
// schema, used to assert the fallback honors the same contract as generated
// content.
func (d *SchemaDescriptor) ValidateSections(s GuidanceSections) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	_, err = d.Validate(raw)
	return err
}
