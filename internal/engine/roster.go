package engine

import (
	"time"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
)

// GroupParams are the caller-supplied fields for a new group. The invitation
// code is passed in rather than generated here; uniqueness across groups is
// the caller's concern.
type GroupParams struct {
	Name           string
	MemberCapacity int
	MonthlyAmount  float64
	StartDate      time.Time
	EndDate        time.Time
	InvitationCode string
}

// NewGroup creates a pending group with its founding admin. The founder is
// accepted immediately, holds the admin flag, rotation order 1 and the start
// period as payout period.
func NewGroup(p GroupParams, founderID, founderName string) (*models.Group, error) {
	g := &models.Group{
		Name:           p.Name,
		MemberCapacity: p.MemberCapacity,
		MonthlyAmount:  p.MonthlyAmount,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         models.GroupPending,
		InvitationCode: p.InvitationCode,
		Members: []*models.Member{{
			UserID:      founderID,
			DisplayName: founderName,
			IsAdmin:     true,
			Status:      models.MemberAccepted,
		}},
	}
	if err := assignTurn(g, founderID); err != nil {
		return nil, err
	}
	recomputePool(g)
	if err := Rebuild(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Join appends a waiting member to the roster. The new member holds no
// rotation turn yet; the rebuild gives every participant pending obligations
// toward them so the eventual debts are visible before acceptance.
func Join(g *models.Group, userID, displayName string) (*models.Group, error) {
	if g.Member(userID) != nil {
		return nil, ErrDuplicateMember
	}

	out := g.Clone()
	out.Members = append(out.Members, &models.Member{
		UserID:       userID,
		DisplayName:  displayName,
		Status:       models.MemberWaiting,
		PaymentState: models.Unpaid,
	})
	if err := Rebuild(out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMemberStatus decides a waiting member. Accepting assigns the member's
// rotation turn and rebuilds the obligation matrix so their pending
// obligations become enforceable. Rejecting discards the member's
// obligations in both directions; a rejected member never owes or is owed.
func SetMemberStatus(g *models.Group, userID string, target models.MemberStatus) (*models.Group, error) {
	if target != models.MemberAccepted && target != models.MemberRejected {
		return nil, ErrInvalidTransition
	}
	m := g.Member(userID)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	if m.Status != models.MemberWaiting {
		return nil, ErrInvalidTransition
	}

	out := g.Clone()
	decided := out.Member(userID)
	decided.Status = target

	if target == models.MemberAccepted {
		if err := assignTurn(out, userID); err != nil {
			return nil, err
		}
	} else {
		decided.Obligations = nil
		dropObligationsReferencing(out, userID)
	}

	recomputePool(out)
	if err := Rebuild(out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveMember deletes a member, drops every obligation referencing them and
// renumbers the remaining accepted members' rotation order to stay
// contiguous. If the removed member was admin, the group is left with no
// admin; the caller must follow up with TransferAdmin. The engine does not
// auto-promote a successor.
func RemoveMember(g *models.Group, userID string) (*models.Group, error) {
	if g.Member(userID) == nil {
		return nil, ErrMemberNotFound
	}

	out := g.Clone()
	for i, m := range out.Members {
		if m.UserID == userID {
			out.Members = append(out.Members[:i], out.Members[i+1:]...)
			break
		}
	}
	dropObligationsReferencing(out, userID)
	if err := compactRotation(out); err != nil {
		return nil, err
	}
	recomputePool(out)
	if err := Rebuild(out); err != nil {
		return nil, err
	}
	return out, nil
}

// TransferAdmin demotes the current admin (if any) and promotes the target,
// which must be an accepted member. The single-admin invariant is
// re-established atomically from the caller's point of view.
func TransferAdmin(g *models.Group, newAdminID string) (*models.Group, error) {
	m := g.Member(newAdminID)
	if m == nil || m.Status != models.MemberAccepted {
		return nil, ErrMemberNotFound
	}

	out := g.Clone()
	for _, mm := range out.Members {
		mm.IsAdmin = mm.UserID == newAdminID
	}
	return out, nil
}
