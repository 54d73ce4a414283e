package engine

import (
	"errors"
	"testing"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
)

func TestFounderTakesStartPeriod(t *testing.T) {
	g := newTestGroup(t)

	founder := g.Member("u1")
	if founder.PayoutPeriod != "2024-01" {
		t.Errorf("founder payout period = %s, want 2024-01", founder.PayoutPeriod)
	}
	if founder.RotationOrder != 1 {
		t.Errorf("founder rotation order = %d, want 1", founder.RotationOrder)
	}
}

func TestTurnsFollowLatestAssignedPeriod(t *testing.T) {
	g := newTestGroup(t)

	tests := []struct {
		userID    string
		name      string
		wantOrder int
		wantTurn  period.Key
	}{
		{"u2", "Bilal", 2, "2024-02"},
		{"u3", "Chidi", 3, "2024-03"},
		{"u4", "Dana", 4, "2024-04"},
	}

	for _, tt := range tests {
		g = accept(t, g, tt.userID, tt.name)
		m := g.Member(tt.userID)
		if m.RotationOrder != tt.wantOrder {
			t.Errorf("%s rotation order = %d, want %d", tt.userID, m.RotationOrder, tt.wantOrder)
		}
		if m.PayoutPeriod != tt.wantTurn {
			t.Errorf("%s payout period = %s, want %s", tt.userID, m.PayoutPeriod, tt.wantTurn)
		}
	}
}

func TestAssignTurnAlreadyAssigned(t *testing.T) {
	g := newTestGroup(t)

	if err := assignTurn(g, "u1"); err != ErrAlreadyAssigned {
		t.Errorf("assignTurn on assigned member: err = %v, want ErrAlreadyAssigned", err)
	}
}

func TestAssignTurnUnknownMember(t *testing.T) {
	g := newTestGroup(t)

	if err := assignTurn(g, "ghost"); err != ErrMemberNotFound {
		t.Errorf("assignTurn on unknown member: err = %v, want ErrMemberNotFound", err)
	}
}

func TestAssignTurnDetectsBrokenRoster(t *testing.T) {
	g := newTestGroup(t)
	// An accepted member without a payout period is a programming error,
	// not a validation failure.
	g.Members = append(g.Members, &models.Member{
		UserID:        "broken",
		DisplayName:   "Broken",
		Status:        models.MemberAccepted,
		RotationOrder: 2,
	})
	g.Members = append(g.Members, &models.Member{
		UserID:      "u9",
		DisplayName: "Niner",
		Status:      models.MemberWaiting,
	})

	err := assignTurn(g, "u9")
	var invariant *InvariantError
	if !errors.As(err, &invariant) {
		t.Errorf("assignTurn error = %v, want InvariantError", err)
	}
}
