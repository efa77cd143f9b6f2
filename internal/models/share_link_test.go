package models

import (
	"testing"
	"time"
)

func TestLinkState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		isActive  bool
		expiresAt *time.Time
		want      string
	}{
		{"active no expiry", true, nil, LinkStateActive},
		{"active future expiry", true, &future, LinkStateActive},
		{"expired", true, &past, LinkStateExpired},
		{"expires exactly now", true, &now, LinkStateExpired},
		{"deactivated", false, nil, LinkStateDeactivated},
		{"deactivated wins over expired", false, &past, LinkStateDeactivated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl := ServiceLink{IsActive: tt.isActive, ExpiresAt: tt.expiresAt}
			if got := sl.State(now); got != tt.want {
				t.Errorf("ServiceLink.State() = %q, want %q", got, tt.want)
			}

			cl := ClientLink{IsActive: tt.isActive, ExpiresAt: tt.expiresAt}
			if got := cl.State(now); got != tt.want {
				t.Errorf("ClientLink.State() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidAction(t *testing.T) {
	for _, action := range []string{ActionApprove, ActionReject, ActionComment} {
		if !ValidAction(action) {
			t.Errorf("ValidAction(%q) = false, want true", action)
		}
	}
	for _, action := range []string{"", "APPROVE", "delete", "approve "} {
		if ValidAction(action) {
			t.Errorf("ValidAction(%q) = true, want false", action)
		}
	}
}
