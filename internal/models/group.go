package models

import "time"

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	// GroupPending is the initial state: the group is collecting members
	// and has not started its rotation.
	GroupPending GroupStatus = "pending"

	// GroupActive means the rotation is running.
	GroupActive GroupStatus = "active"

	// GroupClosed is terminal; a closed group is never reopened.
	GroupClosed GroupStatus = "closed"
)

// Valid reports whether s is one of the recognized group statuses.
func (s GroupStatus) Valid() bool {
	switch s {
	case GroupPending, GroupActive, GroupClosed:
		return true
	}
	return false
}

// Group represents one rotating savings group and its full roster.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// MemberCapacity is the target member count for the group.
	MemberCapacity int `json:"memberCapacity"`

	// MonthlyAmount is the contribution each member owes per period.
	MonthlyAmount float64 `json:"monthlyAmount"`

	// StartDate and EndDate bound the group's contribution periods.
	// The period sequence runs from the month containing StartDate to the
	// month containing EndDate, inclusive.
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	// TotalPool is derived: count of accepted members x MonthlyAmount.
	TotalPool float64 `json:"totalPool"`

	// Status is the lifecycle state (pending, active, closed).
	Status GroupStatus `json:"status"`

	// InvitationCode is the opaque 6-digit join token, unique across groups.
	InvitationCode string `json:"invitationCode"`

	// Members is the ordered roster across all member statuses.
	Members []*Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// Member returns the member with the given user ID, or nil.
func (g *Group) Member(userID string) *Member {
	for _, m := range g.Members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// AcceptedCount returns the number of accepted members.
func (g *Group) AcceptedCount() int {
	n := 0
	for _, m := range g.Members {
		if m.Status == MemberAccepted {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the group, including members and their
// obligation lists.
func (g *Group) Clone() *Group {
	out := *g
	out.Members = make([]*Member, len(g.Members))
	for i, m := range g.Members {
		out.Members[i] = m.Clone()
	}
	return &out
}
