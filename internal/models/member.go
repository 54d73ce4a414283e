package models

import "github.com/Ashraf7ussein/RoscaBackend/internal/period"

// MemberStatus is the membership state of one group member.
type MemberStatus string

const (
	// MemberWaiting means the member redeemed an invitation and awaits an
	// admin decision. A waiting member holds pending (unenforceable)
	// obligations and no rotation turn.
	MemberWaiting MemberStatus = "waiting"

	// MemberAccepted means the member participates in the rotation.
	MemberAccepted MemberStatus = "accepted"

	// MemberRejected is terminal; a rejected member never owes or is owed.
	MemberRejected MemberStatus = "rejected"
)

// SettlementState is the settlement state of one obligation, or the rolled-up
// payment state of a member.
type SettlementState string

const (
	// Unpaid means the obligation is enforceable but not yet settled.
	Unpaid SettlementState = "unpaid"

	// Paid means the obligation is settled. Paid is final: rebuilds never
	// regress a paid obligation.
	Paid SettlementState = "paid"

	// Pending marks obligations involving a waiting member; they become
	// unpaid once both ends are accepted.
	Pending SettlementState = "pending"
)

// Obligation is a directed, per-period debt owed by its owning member to
// another member of the same group.
type Obligation struct {
	// CounterpartyID is the user ID of the member this obligation is owed to.
	CounterpartyID string `json:"counterpartyId"`

	// CounterpartyName is the counterparty's display name at creation time.
	CounterpartyName string `json:"counterpartyName"`

	// Period is the contribution period this obligation belongs to.
	Period period.Key `json:"period"`

	// State is the settlement state: unpaid, paid or pending.
	State SettlementState `json:"state"`
}

// Member represents one member of a group across the waiting, accepted and
// rejected states.
type Member struct {
	// UserID is the stable external user reference.
	UserID string `json:"userId"`

	// DisplayName is the member's display name.
	DisplayName string `json:"displayName"`

	// IsAdmin marks the group admin. Whenever the group has at least one
	// accepted member, exactly one member carries this flag.
	IsAdmin bool `json:"isAdmin"`

	// Status is the membership state (waiting, accepted, rejected).
	Status MemberStatus `json:"status"`

	// RotationOrder is the member's position in the payout rotation,
	// contiguous 1..N among accepted members. Zero while waiting/rejected.
	RotationOrder int `json:"rotationOrder"`

	// PayoutPeriod is the period in which this member receives the pooled
	// amount. Empty until a turn is assigned.
	PayoutPeriod period.Key `json:"payoutPeriod"`

	// PaymentState is the rollup over the member's obligations: paid iff
	// every obligation is paid, otherwise unpaid.
	PaymentState SettlementState `json:"paymentState"`

	// TotalPaid is derived: count of paid obligations x the group's
	// monthly amount.
	TotalPaid float64 `json:"totalPaid"`

	// Obligations are the debts this member owes, owned exclusively by
	// this member. There is never a self-obligation.
	Obligations []Obligation `json:"obligations"`
}

// Obligation returns a pointer to the obligation owed to the given
// counterparty for the given period, or nil.
func (m *Member) Obligation(counterpartyID string, p period.Key) *Obligation {
	for i := range m.Obligations {
		o := &m.Obligations[i]
		if o.CounterpartyID == counterpartyID && o.Period == p {
			return o
		}
	}
	return nil
}

// Clone returns a deep copy of the member.
func (m *Member) Clone() *Member {
	out := *m
	out.Obligations = make([]Obligation, len(m.Obligations))
	copy(out.Obligations, m.Obligations)
	return &out
}
