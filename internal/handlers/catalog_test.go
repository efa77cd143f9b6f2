package handlers

import (
	"errors"
	"testing"

	"atelier/internal/db"
	"atelier/internal/models"
)

func TestGroupServicesByCategory(t *testing.T) {
	services := []models.Service{
		{Name: "Brand Strategy", Category: "Strategy"},
		{Name: "Logo Design", Category: "Design"},
		{Name: "Brand Audit", Category: "Strategy"},
		{Name: "One-off Consult", Category: ""},
	}

	groups := groupServicesByCategory(services)

	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	// First-seen order across groups.
	if groups[0].Category != "Strategy" || groups[1].Category != "Design" || groups[2].Category != "Other" {
		t.Errorf("group order = [%s, %s, %s]", groups[0].Category, groups[1].Category, groups[2].Category)
	}

	// Incoming order within a group.
	if len(groups[0].Services) != 2 || groups[0].Services[0].Name != "Brand Strategy" {
		t.Errorf("Strategy group = %+v", groups[0].Services)
	}

	// Blank category lands in "Other".
	if len(groups[2].Services) != 1 || groups[2].Services[0].Name != "One-off Consult" {
		t.Errorf("Other group = %+v", groups[2].Services)
	}
}

func TestGroupServicesByCategory_Empty(t *testing.T) {
	if groups := groupServicesByCategory(nil); len(groups) != 0 {
		t.Errorf("got %d groups for empty input, want 0", len(groups))
	}
}

func TestLookupOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, models.OutcomeResolved},
		{"not found", db.ErrLinkNotFound, models.OutcomeNotFound},
		{"inactive", db.ErrLinkInactive, models.OutcomeInactive},
		{"expired", db.ErrLinkExpired, models.OutcomeExpired},
		{"wrapped inactive", errors.Join(errors.New("ctx"), db.ErrLinkInactive), models.OutcomeInactive},
		{"unrelated", errors.New("boom"), models.OutcomeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lookupOutcome(tt.err); got != tt.want {
				t.Errorf("lookupOutcome() = %q, want %q", got, tt.want)
			}
		})
	}
}
