// Package engine implements the rotation ledger: the deterministic
// recomputation of rotation turns and pairwise payment obligations whenever
// a group's roster or schedule changes.
//
// Every exported operation takes a group snapshot and returns a new, fully
// consistent snapshot or a tagged error. Operations mutate a working copy
// and commit only on success, so callers never observe partial state. The
// engine performs no I/O; serializing operations per group is the
// persistence layer's job.
package engine

import (
	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
)

// Rebuild brings the group's obligation graph in line with its roster and
// schedule. For every pair of distinct participating members (accepted or
// waiting) and every period in the group's range it ensures one directed
// obligation per direction, creating missing ones as unpaid when both ends
// are accepted and as pending otherwise. Pending obligations whose ends are
// now both accepted become enforceable (unpaid).
//
// Rebuild only adds or promotes; it never deletes an obligation and never
// regresses a paid one, which makes it idempotent: rebuilding an unchanged
// roster is a no-op.
//
// Afterwards each member's TotalPaid and PaymentState rollups are recomputed.
func Rebuild(g *models.Group) error {
	periods, err := period.Sequence(g.StartDate, g.EndDate)
	if err != nil {
		return err
	}

	status := make(map[string]models.MemberStatus, len(g.Members))
	for _, m := range g.Members {
		status[m.UserID] = m.Status
	}

	for _, m := range g.Members {
		if !participates(m.Status) {
			continue
		}

		have := make(map[string]bool, len(m.Obligations))
		for i := range m.Obligations {
			o := &m.Obligations[i]
			have[obligationKey(o.CounterpartyID, o.Period)] = true

			// Promote obligations that became enforceable.
			if o.State == models.Pending &&
				m.Status == models.MemberAccepted &&
				status[o.CounterpartyID] == models.MemberAccepted {
				o.State = models.Unpaid
			}
		}

		for _, n := range g.Members {
			if n.UserID == m.UserID || !participates(n.Status) {
				continue
			}
			for _, p := range periods {
				if have[obligationKey(n.UserID, p)] {
					continue
				}
				state := models.Unpaid
				if m.Status != models.MemberAccepted || n.Status != models.MemberAccepted {
					state = models.Pending
				}
				m.Obligations = append(m.Obligations, models.Obligation{
					CounterpartyID:   n.UserID,
					CounterpartyName: n.DisplayName,
					Period:           p,
					State:            state,
				})
			}
		}
	}

	for _, m := range g.Members {
		rollup(m, g.MonthlyAmount)
	}
	return nil
}

// SettleObligation marks the obligation owed by ownerID to counterpartyID
// for the given period as paid and recomputes the owner's rollups. Paid is
// final: later rebuilds leave the obligation untouched.
func SettleObligation(g *models.Group, ownerID, counterpartyID string, p period.Key) (*models.Group, error) {
	if g.Member(ownerID) == nil {
		return nil, ErrMemberNotFound
	}

	out := g.Clone()
	o := out.Member(ownerID).Obligation(counterpartyID, p)
	if o == nil {
		return nil, ErrObligationNotFound
	}
	o.State = models.Paid
	rollup(out.Member(ownerID), out.MonthlyAmount)
	return out, nil
}

// participates reports whether a member takes part in the obligation matrix.
// Rejected members never owe or are owed.
func participates(s models.MemberStatus) bool {
	return s == models.MemberAccepted || s == models.MemberWaiting
}

func obligationKey(counterpartyID string, p period.Key) string {
	return counterpartyID + "\x00" + string(p)
}

// rollup recomputes the derived payment fields of one member.
// PaymentState is paid iff every obligation is paid.
func rollup(m *models.Member, monthlyAmount float64) {
	paid := 0
	for i := range m.Obligations {
		if m.Obligations[i].State == models.Paid {
			paid++
		}
	}
	m.TotalPaid = float64(paid) * monthlyAmount
	if paid == len(m.Obligations) {
		m.PaymentState = models.Paid
	} else {
		m.PaymentState = models.Unpaid
	}
}

// dropObligationsReferencing removes every obligation on every member that
// points at the given user. Used when a member is removed or rejected.
func dropObligationsReferencing(g *models.Group, userID string) {
	for _, m := range g.Members {
		kept := m.Obligations[:0]
		for _, o := range m.Obligations {
			if o.CounterpartyID != userID {
				kept = append(kept, o)
			}
		}
		m.Obligations = kept
	}
}

// recomputePool refreshes the derived total pool amount.
func recomputePool(g *models.Group) {
	g.TotalPool = float64(g.AcceptedCount()) * g.MonthlyAmount
}
