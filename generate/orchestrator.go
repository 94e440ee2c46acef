package generate

import (
	"context"
	"strings"
	"time"

	"github.com/carelight/triage/guidance"
	"github.com/carelight/triage/internal/logger"
)

// Source records where a result's content came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Result is what Generate hands back: sections that are always schema-valid,
// and the source they came from. A fallback result is not an error.
type Result struct {
	Sections guidance.GuidanceSections `json:"sections"`
	Source   Source                    `json:"source"`
}

// Orchestrator runs one generation attempt per plan. On timeout, transport
// failure, unparsable output, or schema-invalid content it substitutes the
// plan's deterministic fallback (a pure substitution, never a retry).
type Orchestrator struct {
	client     Client
	timeout    time.Duration
	slowBudget time.Duration
}

// NewOrchestrator builds an orchestrator. A nil client is allowed and means
// every call serves the fallback. A zero timeout defaults to 20s.
func NewOrchestrator(client Client, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Orchestrator{
		client:     client,
		timeout:    timeout,
		slowBudget: timeout / 2,
	}
}

// Generate performs the single external attempt for the plan. It never
// returns an error: any failure path degrades to the fallback, and the
// Source field is the only signal of what happened.
func (o *Orchestrator) Generate(ctx context.Context, plan guidance.GuidancePlan) Result {
	fallback := Result{Sections: plan.Fallback, Source: SourceFallback}

	if o.client == nil {
		logger.FallbackSubstitutions.Add(1)
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.client.Generate(ctx, plan.SystemPrompt, plan.UserPrompt)
	elapsed := time.Since(start)
	if elapsed > o.slowBudget {
		logger.SlowGenerations.Add(1)
		logger.Warn("generation call over soft budget", "elapsed", elapsed.String())
	}
	if err != nil {
		logger.FallbackSubstitutions.Add(1)
		logger.Warn("generation call failed, substituting fallback", "error", err)
		return fallback
	}

	sections, err := plan.OutputSchema.Validate([]byte(stripCodeFence(raw)))
	if err != nil {
		logger.FallbackSubstitutions.Add(1)
		logger.Warn("generated content rejected by schema, substituting fallback", "error", err)
		return fallback
	}

	return Result{Sections: sections, Source: SourceGenerated}
}

// stripCodeFence unwraps ```json ... ``` fencing that chat models often put
// around JSON output.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
