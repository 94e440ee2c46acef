package access

import "testing"

// TestCTALabel_Priority verifies that each condition maps to its label and
// that earlier conditions win when several hold at once.
func TestCTALabel_Priority(t *testing.T) {
	tests := []struct {
		name  string
		state CTAState
		want  string
	}{
		{"idle start", CTAState{}, LabelNext},
		{"auth loading", CTAState{AuthLoading: true}, LabelCheckingAccess},
		{"profile loading", CTAState{ProfileLoading: true}, LabelCheckingAccess},
		{"confirming subscription", CTAState{ConfirmingSub: true}, LabelUnlocking},
		{"creating checkout", CTAState{CreatingCheckout: true}, LabelOpeningCheckout},
		{"preview spent non-subscriber", CTAState{FreePreviewUsed: true}, LabelSubscribe},
		{"preview spent but subscriber", CTAState{FreePreviewUsed: true, IsSubscriber: true, FlowComplete: true}, LabelUpdate},
		{"emergency stop", CTAState{EmergencyStop: true}, LabelEmergency},
		{"template missing", CTAState{TemplateMissing: true}, LabelStart},
		{"no visible questions", CTAState{NoVisibleQuestions: true}, LabelStart},
		{"flow complete", CTAState{FlowComplete: true}, LabelUpdate},
		{"last visible question", CTAState{OnLastVisibleQuestion: true}, LabelSeeGuidance},
		{
			name:  "loading outranks everything",
			state: CTAState{AuthLoading: true, FreePreviewUsed: true, EmergencyStop: true, FlowComplete: true},
			want:  LabelCheckingAccess,
		},
		{
			name:  "paywall outranks emergency",
			state: CTAState{FreePreviewUsed: true, EmergencyStop: true},
			want:  LabelSubscribe,
		},
		{
			name:  "emergency outranks completion",
			state: CTAState{IsSubscriber: true, EmergencyStop: true, FlowComplete: true, OnLastVisibleQuestion: true},
			want:  LabelEmergency,
		},
		{
			name:  "completion outranks last question",
			state: CTAState{FlowComplete: true, OnLastVisibleQuestion: true},
			want:  LabelUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CTALabel(tt.state); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBlockedPrompt_PerState(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateAnonBlocked, LabelLogIn},
		{StatePaywallBlocked, LabelSubscribe},
		{StateSubscriber, ""},
		{StateFreeEligible, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := BlockedPrompt(tt.state); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
