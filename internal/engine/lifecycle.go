package engine

import (
	"time"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
)

// Only forward transitions are legal. A closed group is never reopened.
var allowedTransitions = map[models.GroupStatus][]models.GroupStatus{
	models.GroupPending: {models.GroupActive, models.GroupClosed},
	models.GroupActive:  {models.GroupClosed},
	models.GroupClosed:  {},
}

// SetStatus moves the group along its lifecycle: pending -> active -> closed,
// with direct pending -> closed for groups abandoned before activating.
func SetStatus(g *models.Group, target models.GroupStatus) (*models.Group, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	legal := false
	for _, next := range allowedTransitions[g.Status] {
		if next == target {
			legal = true
			break
		}
	}
	if !legal {
		return nil, ErrIllegalTransition
	}

	out := g.Clone()
	out.Status = target
	return out, nil
}

// ScheduleUpdate carries the replaceable schedule fields of a group.
type ScheduleUpdate struct {
	Name           string
	MemberCapacity int
	MonthlyAmount  float64
	StartDate      time.Time
	EndDate        time.Time
}

// UpdateSchedule replaces the group's schedule fields, recomputes the total
// pool and rebuilds the obligation matrix, since a changed period range
// changes which periods require obligations. A malformed date range fails
// with period.ErrInvalidRange and leaves the input snapshot untouched.
func UpdateSchedule(g *models.Group, upd ScheduleUpdate) (*models.Group, error) {
	out := g.Clone()
	out.Name = upd.Name
	out.MemberCapacity = upd.MemberCapacity
	out.MonthlyAmount = upd.MonthlyAmount
	out.StartDate = upd.StartDate
	out.EndDate = upd.EndDate

	recomputePool(out)
	if err := Rebuild(out); err != nil {
		return nil, err
	}
	return out, nil
}
