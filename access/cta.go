package access

// CTAState is the flat set of engine/UI flags the call-to-action label is
// derived from.
type CTAState struct {
	AuthLoading           bool `json:"authLoading"`
	ProfileLoading        bool `json:"profileLoading"`
	ConfirmingSub         bool `json:"confirmingSubscription"`
	CreatingCheckout      bool `json:"creatingCheckout"`
	IsSubscriber          bool `json:"isSubscriber"`
	FreePreviewUsed       bool `json:"freePreviewUsed"`
	EmergencyStop         bool `json:"emergencyStop"`
	TemplateMissing       bool `json:"templateMissing"`
	NoVisibleQuestions    bool `json:"noVisibleQuestions"`
	FlowComplete          bool `json:"flowComplete"`
	OnLastVisibleQuestion bool `json:"onLastVisibleQuestion"`
}

// Call-to-action labels, one per derivable state.
const (
	LabelCheckingAccess = "Checking access…"
	LabelUnlocking      = "Unlocking your subscription…"
	LabelOpeningCheckout = "Opening secure checkout…"
	LabelSubscribe      = "Subscribe to unlock"
	LabelLogIn          = "Log in to continue"
	LabelEmergency      = "Emergency detected - call 911"
	LabelStart          = "Start"
	LabelUpdate         = "Update my guidance"
	LabelSeeGuidance    = "See my guidance"
	LabelNext           = "Next question"
)

// CTALabel maps the current state to a single label. Evaluation order is a
// strict priority list; the first matching condition wins.
func CTALabel(s CTAState) string {
	switch {
	case s.AuthLoading || s.ProfileLoading:
		return LabelCheckingAccess
	case s.ConfirmingSub:
		return LabelUnlocking
	case s.CreatingCheckout:
		return LabelOpeningCheckout
	case !s.IsSubscriber && s.FreePreviewUsed:
		return LabelSubscribe
	case s.EmergencyStop:
		return LabelEmergency
	case s.TemplateMissing || s.NoVisibleQuestions:
		return LabelStart
	case s.FlowComplete:
		return LabelUpdate
	case s.OnLastVisibleQuestion:
		return LabelSeeGuidance
	default:
		return LabelNext
	}
}

// BlockedPrompt returns the action prompt for a blocked gate state: anonymous
// callers are asked to log in, entitled-but-spent callers to subscribe. States
// that allow generation have no prompt.
func BlockedPrompt(s State) string {
	switch s {
	case StateAnonBlocked:
		return LabelLogIn
	case StatePaywallBlocked:
		return LabelSubscribe
	default:
		return ""
	}
}
