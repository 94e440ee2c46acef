// Package access decides whether generation may proceed for a session, and
// derives the user-facing call-to-action label for the current engine/UI
// state. The gate is a four-state machine recomputed on demand from three
// booleans; nothing in this package is persisted by the core itself.
package access

// State is one of the four mutually exclusive gating outcomes.
type State string

const (
	// StateSubscriber: active subscription; generation permitted, no auth
	// prompt needed.
	StateSubscriber State = "subscriber"
	// StateFreeEligible: free preview not yet used; generation permitted,
	// no auth prompt needed.
	StateFreeEligible State = "free_eligible"
	// StateAnonBlocked: preview spent and not logged in; caller must prompt
	// login.
	StateAnonBlocked State = "anon_blocked"
	// StatePaywallBlocked: logged in, preview spent, no subscription; caller
	// should present a subscription offer.
	StatePaywallBlocked State = "paywall_blocked"
)

// Allowed reports whether generation may proceed in this state.
func (s State) Allowed() bool {
	return s == StateSubscriber || s == StateFreeEligible
}

// Facts are the three inputs the gate is derived from.
type Facts struct {
	IsSubscriber    bool `json:"isSubscriber"`
	FreePreviewUsed bool `json:"freePreviewUsed"`
	IsLoggedIn      bool `json:"isLoggedIn"`
}

// Determine evaluates the gate in strict priority order: subscription first,
// then an unspent free preview, then login status. The function is total:
// all eight input combinations map to exactly one of the four states.
func Determine(isSubscriber, freePreviewUsed, isLoggedIn bool) State {
	switch {
	case isSubscriber:
		return StateSubscriber
	case !freePreviewUsed:
		return StateFreeEligible
	case !isLoggedIn:
		return StateAnonBlocked
	default:
		return StatePaywallBlocked
	}
}

// DetermineFacts is Determine over a Facts value.
func DetermineFacts(f Facts) State {
	return Determine(f.IsSubscriber, f.FreePreviewUsed, f.IsLoggedIn)
}
