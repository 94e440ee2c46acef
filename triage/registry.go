package triage

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/cel-go/cel"
)

// ErrTemplateNotFound is returned by Registry.Get for an unknown template ID.
var ErrTemplateNotFound = errors.New("template not found")

// Registry is the immutable catalog of symptom templates. It is built once at
// process start, compiling every red-flag predicate up front, and is then
// safely shared read-only by any number of concurrent sessions. There is no
// runtime mutation API; adding a template is a deployment-time change.
type Registry struct {
	env       *cel.Env
	templates map[string]*Template
	programs  map[string]cel.Program // templateID/flagID -> compiled predicate
}

// NewRegistry builds a registry from the given templates. Every red-flag
// expression must compile; a template with a broken expression is a
// deployment error, not a runtime condition.
func NewRegistry(templates ...*Template) (*Registry, error) {
	// Predicates see the session's answers as a single dynamic map variable.
	env, err := cel.NewEnv(cel.Variable("answers", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	r := &Registry{
		env:       env,
		templates: make(map[string]*Template, len(templates)),
		programs:  make(map[string]cel.Program),
	}

	for _, t := range templates {
		if _, exists := r.templates[t.ID]; exists {
			return nil, fmt.Errorf("duplicate template ID %s", t.ID)
		}
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		for _, flag := range t.RedFlags {
			prog, err := r.compile(flag.Expression)
			if err != nil {
				return nil, fmt.Errorf("template %s flag %s: %w", t.ID, flag.ID, err)
			}
			r.programs[programKey(t.ID, flag.ID)] = prog
		}
		r.templates[t.ID] = t
	}

	return r, nil
}

// Get looks a template up by ID. The lookup is a pure map read.
func (r *Registry) Get(id string) (*Template, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return t, nil
}

// List returns every registered template sorted by ID.
func (r *Registry) List() []*Template {
	out := make([]*Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) compile(expression string) (cel.Program, error) {
	ast, issues := r.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	// Cost limit guards against runaway expressions; predicates here are
	// small but the limit keeps a bad deploy from hanging evaluation.
	prog, err := r.env.Program(ast, cel.CostLimit(1_000_000))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return prog, nil
}

func programKey(templateID, flagID string) string {
	return templateID + "/" + flagID
}

func validateTemplate(t *Template) error {
	if t.ID == "" {
		return errors.New("template ID is required")
	}
	if t.Name == "" {
		return errors.New("template name is required")
	}
	if len(t.Questions) == 0 {
		return errors.New("template must declare at least one question")
	}
	seen := make(map[string]bool, len(t.Questions))
	for _, q := range t.Questions {
		if q.ID == "" {
			return errors.New("question ID is required")
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question ID %s", q.ID)
		}
		seen[q.ID] = true
		switch q.Kind {
		case KindSingleSelect, KindMultiSelect:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %s: select kinds require options", q.ID)
			}
		case KindFreeText, KindNumber, KindScale:
		default:
			return fmt.Errorf("question %s: unknown kind %q", q.ID, q.Kind)
		}
		if q.ShowIf != nil && !seen[q.ShowIf.Field] {
			// ShowIf must reference an earlier question so visibility never
			// depends on answers that come later in the flow.
			return fmt.Errorf("question %s: showIf references %q which is not an earlier question", q.ID, q.ShowIf.Field)
		}
	}
	flagIDs := make(map[string]bool, len(t.RedFlags))
	for _, f := range t.RedFlags {
		if f.ID == "" || f.Description == "" || f.Expression == "" {
			return fmt.Errorf("red flag %q: id, description and expression are required", f.ID)
		}
		if flagIDs[f.ID] {
			return fmt.Errorf("duplicate red flag ID %s", f.ID)
		}
		flagIDs[f.ID] = true
		if f.Action.Rank() == 0 {
			return fmt.Errorf("red flag %s: unknown action level %q", f.ID, f.Action)
		}
	}
	return nil
}
