package main

import (
	"github.com/carelight/triage/access"
	"github.com/carelight/triage/generate"
	"github.com/carelight/triage/sanitize"
	"github.com/carelight/triage/triage"
)

// API Request and Response Models

// EvaluateRequest represents the request body for answer evaluation
type EvaluateRequest struct {
	TemplateID string         `json:"templateId" example:"chest_pain"`
	Answers    triage.Answers `json:"answers"`
} // @name EvaluateRequest

// EvaluateResponse carries the visible questions, the pruned answer map,
// and the severity-partitioned evaluation
type EvaluateResponse struct {
	TemplateID       string            `json:"templateId"`
	VisibleQuestions []triage.Question `json:"visibleQuestions"`
	PrunedAnswers    triage.Answers    `json:"prunedAnswers"`
	Evaluation       triage.Evaluation `json:"evaluation"`
} // @name EvaluateResponse

// GuidanceRequest represents the request body for a guidance generation
// attempt. RedFlags may be supplied by the caller; when omitted the engine's
// own evaluation of the answers is used. When Access is omitted the preview
// flag is read from the configured store and the caller is treated as
// anonymous.
type GuidanceRequest struct {
	TemplateID string         `json:"templateId" example:"chest_pain"`
	Answers    triage.Answers `json:"answers"`
	Role       string         `json:"role,omitempty"`
	Goal       string         `json:"goal,omitempty"`
	RedFlags   []string       `json:"redFlags,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	Access     *access.Facts  `json:"access,omitempty"`
} // @name GuidanceRequest

// GuidanceResponse carries the sections (generated or fallback), their
// source, and the evaluation that informed them
type GuidanceResponse struct {
	SessionID   string            `json:"sessionId"`
	TemplateID  string            `json:"templateId"`
	Result      generate.Result   `json:"result"`
	Evaluation  triage.Evaluation `json:"evaluation"`
	AccessState access.State      `json:"accessState"`
} // @name GuidanceResponse

// BlockedResponse is returned when the access gate refuses generation
type BlockedResponse struct {
	AccessState access.State `json:"accessState"`
	CTALabel    string       `json:"ctaLabel"`
	Error       string       `json:"error"`
} // @name BlockedResponse

// ScanRequest represents the request body for a detect-only PHI scan
type ScanRequest struct {
	Text string `json:"text"`
} // @name ScanRequest

// ScanResponse wraps the scan report; the text is never echoed back modified
type ScanResponse struct {
	Report sanitize.ScanReport `json:"report"`
} // @name ScanResponse

// AccessRequest represents the request body for an access gate evaluation.
// CTA carries the UI flags the label derives from; IsSubscriber and
// FreePreviewUsed inside it are overwritten from Facts so the two inputs
// cannot disagree.
type AccessRequest struct {
	Facts access.Facts    `json:"facts"`
	CTA   access.CTAState `json:"cta"`
} // @name AccessRequest

// AccessResponse returns the gate state, whether generation may proceed,
// and the matching call-to-action label
type AccessResponse struct {
	State    access.State `json:"state"`
	Allowed  bool         `json:"allowed"`
	CTALabel string       `json:"ctaLabel"`
} // @name AccessResponse

// PreviewResponse reports one user's free-preview flag
type PreviewResponse struct {
	Key  string `json:"key"`
	Used bool   `json:"used"`
} // @name PreviewResponse
