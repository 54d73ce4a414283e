package engine

import (
	"sort"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
)

// assignTurn gives a newly accepted member their turn in the payout rotation.
// The first accepted member receives the group's start period; every later
// member receives the period one month after the latest turn already
// assigned. The rotation order appends: existing members are never
// reordered.
//
// Invoked exactly once per member, when they transition to accepted. Callers
// must serialize acceptances per group; the engine exposes no concurrent
// assignment primitive.
func assignTurn(g *models.Group, userID string) error {
	m := g.Member(userID)
	if m == nil {
		return ErrMemberNotFound
	}
	if m.PayoutPeriod != "" {
		return ErrAlreadyAssigned
	}

	var latest period.Key
	accepted := 0
	for _, other := range g.Members {
		if other.UserID == userID || other.Status != models.MemberAccepted {
			continue
		}
		if other.PayoutPeriod == "" {
			return invariantf("accepted member %s has no payout period", other.UserID)
		}
		accepted++
		if latest == "" || latest.Before(other.PayoutPeriod) {
			latest = other.PayoutPeriod
		}
	}

	if latest == "" {
		m.PayoutPeriod = period.KeyOf(g.StartDate)
	} else {
		m.PayoutPeriod = latest.Next()
	}
	m.RotationOrder = accepted + 1
	return nil
}

// compactRotation renumbers the rotation order of accepted members to stay
// contiguous 1..N, preserving their relative order.
func compactRotation(g *models.Group) error {
	var accepted []*models.Member
	for _, m := range g.Members {
		if m.Status != models.MemberAccepted {
			continue
		}
		if m.RotationOrder == 0 {
			return invariantf("accepted member %s has no rotation order", m.UserID)
		}
		accepted = append(accepted, m)
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].RotationOrder < accepted[j].RotationOrder
	})
	for i, m := range accepted {
		m.RotationOrder = i + 1
	}
	return nil
}
