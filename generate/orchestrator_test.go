package generate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/carelight/triage/guidance"
)

// fakeClient returns canned output or a canned error.
type fakeClient struct {
	output string
	err    error
	calls  int
}

func (f *fakeClient) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.output, f.err
}

func testPlan(t *testing.T) guidance.GuidancePlan {
	t.Helper()
	schema, err := guidance.OutputSchema()
	if err != nil {
		t.Fatalf("Failed to build schema: %v", err)
	}
	return guidance.GuidancePlan{
		SystemPrompt: "system",
		UserPrompt:   "user",
		OutputSchema: schema,
		Fallback:     guidance.Fallback("Chest Pain", []string{"a flag"}),
	}
}

func validOutput(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(guidance.GuidanceSections{
		Title:          "Understanding chest pain",
		Summary:        "General information.",
		WatchFor:       []string{"worsening pain"},
		Guidance:       []string{"rest"},
		DoctorPrep:     []string{"note onset"},
		SafetyReminder: "Seek care for severe symptoms.",
	})
	if err != nil {
		t.Fatalf("Failed to marshal sections: %v", err)
	}
	return string(raw)
}

// TestGenerate_ValidOutput verifies schema-valid model output is returned
// as generated content.
func TestGenerate_ValidOutput(t *testing.T) {
	client := &fakeClient{output: validOutput(t)}
	o := NewOrchestrator(client, time.Second)

	result := o.Generate(context.Background(), testPlan(t))
	if result.Source != SourceGenerated {
		t.Fatalf("Expected generated source, got %s", result.Source)
	}
	if result.Sections.Title != "Understanding chest pain" {
		t.Errorf("Unexpected title: %s", result.Sections.Title)
	}
	if client.calls != 1 {
		t.Errorf("Expected exactly one call, got %d", client.calls)
	}
}

// TestGenerate_FencedOutput verifies markdown code fencing is stripped
// before validation.
func TestGenerate_FencedOutput(t *testing.T) {
	client := &fakeClient{output: "```json\n" + validOutput(t) + "\n```"}
	o := NewOrchestrator(client, time.Second)

	result := o.Generate(context.Background(), testPlan(t))
	if result.Source != SourceGenerated {
		t.Errorf("Expected fenced output accepted, got source %s", result.Source)
	}
}

// TestGenerate_FallbackPaths verifies every failure mode substitutes the
// fallback with exactly one attempt and no error.
func TestGenerate_FallbackPaths(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"client error", &fakeClient{err: errors.New("upstream unavailable")}},
		{"unparsable output", &fakeClient{output: "here is some advice: rest a lot"}},
		{"schema-invalid output", &fakeClient{output: `{"title":"only a title"}`}},
		{"empty output", &fakeClient{output: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrchestrator(tt.client, time.Second)
			plan := testPlan(t)

			result := o.Generate(context.Background(), plan)
			if result.Source != SourceFallback {
				t.Fatalf("Expected fallback source, got %s", result.Source)
			}
			if result.Sections.Title != plan.Fallback.Title {
				t.Errorf("Expected the plan's fallback sections, got %+v", result.Sections)
			}
			if tt.client.calls != 1 {
				t.Errorf("Expected exactly one attempt, got %d", tt.client.calls)
			}
		})
	}
}

// TestGenerate_NilClient verifies a disabled client serves the fallback
// without attempting anything.
func TestGenerate_NilClient(t *testing.T) {
	o := NewOrchestrator(nil, time.Second)
	plan := testPlan(t)

	result := o.Generate(context.Background(), plan)
	if result.Source != SourceFallback {
		t.Errorf("Expected fallback source, got %s", result.Source)
	}
	if err := plan.OutputSchema.ValidateSections(result.Sections); err != nil {
		t.Errorf("Expected fallback schema-valid: %v", err)
	}
}

// TestGenerate_CanceledContext verifies a dead context degrades to the
// fallback rather than erroring.
func TestGenerate_CanceledContext(t *testing.T) {
	slow := &fakeClient{output: validOutput(t)}
	o := NewOrchestrator(contextAwareClient{slow}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := o.Generate(ctx, testPlan(t))
	if result.Source != SourceFallback {
		t.Errorf("Expected fallback on canceled context, got %s", result.Source)
	}
}

// contextAwareClient fails when its context is already done, as a real
// network client would.
type contextAwareClient struct {
	inner Client
}

func (c contextAwareClient) Generate(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.inner.Generate(ctx, system, user)
}

// TestStripCodeFence covers the unwrap variants.
func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
