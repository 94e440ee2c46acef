package access

import "testing"

// TestDetermine_AllCombinations walks every input combination through the
// gate and checks the resulting state and permission.
func TestDetermine_AllCombinations(t *testing.T) {
	tests := []struct {
		name            string
		isSubscriber    bool
		freePreviewUsed bool
		isLoggedIn      bool
		want            State
	}{
		{"subscriber fresh", true, false, true, StateSubscriber},
		{"subscriber spent preview", true, true, true, StateSubscriber},
		{"subscriber not logged in flag", true, false, false, StateSubscriber},
		{"subscriber spent and not logged in", true, true, false, StateSubscriber},
		{"anon fresh preview", false, false, false, StateFreeEligible},
		{"logged in fresh preview", false, false, true, StateFreeEligible},
		{"anon spent preview", false, true, false, StateAnonBlocked},
		{"logged in spent preview", false, true, true, StatePaywallBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Determine(tt.isSubscriber, tt.freePreviewUsed, tt.isLoggedIn)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}

			wantAllowed := tt.want == StateSubscriber || tt.want == StateFreeEligible
			if got.Allowed() != wantAllowed {
				t.Errorf("Expected Allowed()=%v for %s", wantAllowed, got)
			}
		})
	}
}

// TestDetermineFacts matches Determine on the struct form.
func TestDetermineFacts(t *testing.T) {
	f := Facts{IsSubscriber: false, FreePreviewUsed: true, IsLoggedIn: true}
	if got := DetermineFacts(f); got != StatePaywallBlocked {
		t.Errorf("Expected paywall_blocked, got %s", got)
	}
}

// TestPreviewKey verifies the key shape and the shared anonymous key.
func TestPreviewKey(t *testing.T) {
	if got := PreviewKey("user-42"); got != "triage-free-preview-user-42" {
		t.Errorf("Unexpected key: %s", got)
	}
	if got := PreviewKey(""); got != "triage-free-preview-anon" {
		t.Errorf("Unexpected anonymous key: %s", got)
	}
}
