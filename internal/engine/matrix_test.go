package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newTestGroup creates a pending three-period group (2024-01..2024-03) with
// one founding admin, user u1.
func newTestGroup(t *testing.T) *models.Group {
	t.Helper()

	g, err := NewGroup(GroupParams{
		Name:           "Family Circle",
		MemberCapacity: 3,
		MonthlyAmount:  100,
		StartDate:      date(2024, time.January, 1),
		EndDate:        date(2024, time.March, 31),
		InvitationCode: "123456",
	}, "u1", "Amina")
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	return g
}

// accept joins and accepts a member, returning the updated snapshot.
func accept(t *testing.T, g *models.Group, userID, name string) *models.Group {
	t.Helper()

	g, err := Join(g, userID, name)
	if err != nil {
		t.Fatalf("Join(%s) failed: %v", userID, err)
	}
	g, err = SetMemberStatus(g, userID, models.MemberAccepted)
	if err != nil {
		t.Fatalf("SetMemberStatus(%s, accepted) failed: %v", userID, err)
	}
	return g
}

func TestRebuildIdempotent(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	before := g.Clone()
	if err := Rebuild(g); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if !reflect.DeepEqual(before, g) {
		t.Error("rebuilding an unchanged roster must be a no-op")
	}
}

func TestRebuildConservation(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")
	g = accept(t, g, "u3", "Chidi")

	periods := []period.Key{"2024-01", "2024-02", "2024-03"}
	ids := []string{"u1", "u2", "u3"}

	for _, owner := range ids {
		m := g.Member(owner)
		if len(m.Obligations) != len(periods)*(len(ids)-1) {
			t.Errorf("member %s has %d obligations, want %d", owner, len(m.Obligations), len(periods)*(len(ids)-1))
		}
		for _, counterparty := range ids {
			if counterparty == owner {
				continue
			}
			for _, p := range periods {
				count := 0
				for _, o := range m.Obligations {
					if o.CounterpartyID == counterparty && o.Period == p {
						count++
					}
				}
				if count != 1 {
					t.Errorf("member %s -> %s at %s: %d obligations, want exactly 1", owner, counterparty, p, count)
				}
			}
		}
	}
}

func TestRebuildNoSelfObligations(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	for _, m := range g.Members {
		for _, o := range m.Obligations {
			if o.CounterpartyID == m.UserID {
				t.Errorf("member %s has a self-obligation at %s", m.UserID, o.Period)
			}
		}
	}
}

func TestRebuildPendingForWaitingMembers(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	g, err := Join(g, "u3", "Chidi")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	for _, m := range g.Members {
		for _, o := range m.Obligations {
			involvesWaiting := m.UserID == "u3" || o.CounterpartyID == "u3"
			if involvesWaiting && o.State != models.Pending {
				t.Errorf("%s -> %s at %s: state %s, want pending", m.UserID, o.CounterpartyID, o.Period, o.State)
			}
			if !involvesWaiting && o.State != models.Unpaid {
				t.Errorf("%s -> %s at %s: state %s, want unpaid", m.UserID, o.CounterpartyID, o.Period, o.State)
			}
		}
	}
}

func TestAcceptancePromotesPendingObligations(t *testing.T) {
	g := newTestGroup(t)
	g, err := Join(g, "u2", "Bilal")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	g, err = SetMemberStatus(g, "u2", models.MemberAccepted)
	if err != nil {
		t.Fatalf("SetMemberStatus failed: %v", err)
	}

	// Scenario: 2 accepted members over 3 periods = 6 obligations, all unpaid.
	total := 0
	for _, m := range g.Members {
		for _, o := range m.Obligations {
			total++
			if o.State != models.Unpaid {
				t.Errorf("%s -> %s at %s: state %s, want unpaid", m.UserID, o.CounterpartyID, o.Period, o.State)
			}
		}
	}
	if total != 6 {
		t.Errorf("total obligations = %d, want 6", total)
	}
}

func TestSettlementMonotonicity(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	g, err := SettleObligation(g, "u1", "u2", "2024-01")
	if err != nil {
		t.Fatalf("SettleObligation failed: %v", err)
	}

	// A third member joining triggers a rebuild.
	g, err = Join(g, "u3", "Chidi")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	settled := g.Member("u1").Obligation("u2", "2024-01")
	if settled == nil || settled.State != models.Paid {
		t.Fatalf("paid obligation regressed: %+v", settled)
	}

	// Obligations introduced by the newcomer are pending; the rest unpaid.
	for _, o := range g.Member("u3").Obligations {
		if o.State != models.Pending {
			t.Errorf("newcomer obligation at %s is %s, want pending", o.Period, o.State)
		}
	}
}

func TestSettleObligationRollup(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	var err error
	for _, p := range []period.Key{"2024-01", "2024-02", "2024-03"} {
		g, err = SettleObligation(g, "u2", "u1", p)
		if err != nil {
			t.Fatalf("SettleObligation(%s) failed: %v", p, err)
		}
	}

	m := g.Member("u2")
	if m.TotalPaid != 300 {
		t.Errorf("TotalPaid = %v, want 300", m.TotalPaid)
	}
	if m.PaymentState != models.Paid {
		t.Errorf("PaymentState = %s, want paid", m.PaymentState)
	}

	// u1 has not settled anything; their side is independent.
	if g.Member("u1").PaymentState != models.Unpaid {
		t.Errorf("u1 PaymentState = %s, want unpaid", g.Member("u1").PaymentState)
	}
}

func TestSettleObligationErrors(t *testing.T) {
	g := newTestGroup(t)
	g = accept(t, g, "u2", "Bilal")

	if _, err := SettleObligation(g, "ghost", "u1", "2024-01"); err != ErrMemberNotFound {
		t.Errorf("unknown owner: err = %v, want ErrMemberNotFound", err)
	}
	if _, err := SettleObligation(g, "u2", "u1", "2030-01"); err != ErrObligationNotFound {
		t.Errorf("unknown period: err = %v, want ErrObligationNotFound", err)
	}
}

func TestRebuildPropagatesInvalidRange(t *testing.T) {
	g := newTestGroup(t)
	g.EndDate = date(2023, time.January, 1)

	if err := Rebuild(g); err != period.ErrInvalidRange {
		t.Errorf("Rebuild() error = %v, want period.ErrInvalidRange", err)
	}
}
