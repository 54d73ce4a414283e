// Package service orchestrates engine operations over persisted group state.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Ashraf7ussein/RoscaBackend/internal/engine"
	"github.com/Ashraf7ussein/RoscaBackend/internal/invite"
	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage"
)

// maxCodeAttempts bounds the invitation-code retry loop on collisions.
const maxCodeAttempts = 10

// GroupService owns the read-modify-write cycle around the rotation ledger
// engine. The engine itself is pure and must be serialized per group; this
// layer is the persistence collaborator that provides that mutual exclusion,
// holding a per-group lock from snapshot read until the updated snapshot is
// stored. Operations on different groups run in parallel.
type GroupService struct {
	store storage.Store
	locks sync.Map // group ID -> *sync.Mutex
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

func (s *GroupService) lock(groupID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(groupID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// withGroup runs one engine operation against the stored snapshot of a group
// under that group's lock and persists the result.
func (s *GroupService) withGroup(ctx context.Context, groupID string, op func(*models.Group) (*models.Group, error)) (*models.Group, error) {
	mu := s.lock(groupID)
	mu.Lock()
	defer mu.Unlock()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	updated, err := op(group)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveGroup(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Create builds a new pending group with the caller as founding admin and a
// fresh invitation code, unique across groups.
func (s *GroupService) Create(ctx context.Context, params engine.GroupParams, founderID, founderName string) (*models.Group, error) {
	slog.Info("Create group request", "name", params.Name, "founder_id", founderID)

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}
	params.InvitationCode = code

	group, err := engine.NewGroup(params, founderID, founderName)
	if err != nil {
		slog.Error("Create group failed", "name", params.Name, "error", err)
		return nil, err
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("Create group failed to persist", "name", params.Name, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "invitation_code", group.InvitationCode)
	return group, nil
}

func (s *GroupService) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := invite.NewCode()
		if err != nil {
			return "", err
		}
		_, err = s.store.GetGroupByInvitationCode(ctx, code)
		if errors.Is(err, storage.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique invitation code")
}

// Get returns the full snapshot of one group.
func (s *GroupService) Get(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListByMember returns every group the user belongs to, in any status.
func (s *GroupService) ListByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByMember(ctx, userID)
}

// Join redeems an invitation code, adding the caller as a waiting member.
func (s *GroupService) Join(ctx context.Context, code, userID, displayName string) (*models.Group, error) {
	slog.Info("Join request", "user_id", userID)

	group, err := s.store.GetGroupByInvitationCode(ctx, code)
	if err != nil {
		slog.Warn("Join failed, code not found", "user_id", userID, "error", err)
		return nil, err
	}

	updated, err := s.withGroup(ctx, group.ID, func(g *models.Group) (*models.Group, error) {
		return engine.Join(g, userID, displayName)
	})
	if err != nil {
		slog.Warn("Join failed", "group_id", group.ID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Member joined", "group_id", group.ID, "user_id", userID)
	return updated, nil
}

// SetMemberStatus accepts or rejects a waiting member.
func (s *GroupService) SetMemberStatus(ctx context.Context, groupID, userID string, target models.MemberStatus) (*models.Group, error) {
	slog.Info("SetMemberStatus request", "group_id", groupID, "user_id", userID, "target", target)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.SetMemberStatus(g, userID, target)
	})
	if err != nil {
		slog.Warn("SetMemberStatus failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}
	return updated, nil
}

// RemoveMember removes a member from the roster.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) (*models.Group, error) {
	slog.Info("RemoveMember request", "group_id", groupID, "user_id", userID)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.RemoveMember(g, userID)
	})
	if err != nil {
		slog.Warn("RemoveMember failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}
	return updated, nil
}

// TransferAdmin moves the admin flag to another accepted member.
func (s *GroupService) TransferAdmin(ctx context.Context, groupID, newAdminID string) (*models.Group, error) {
	slog.Info("TransferAdmin request", "group_id", groupID, "new_admin_id", newAdminID)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.TransferAdmin(g, newAdminID)
	})
	if err != nil {
		slog.Warn("TransferAdmin failed", "group_id", groupID, "new_admin_id", newAdminID, "error", err)
		return nil, err
	}
	return updated, nil
}

// SetStatus moves the group along its lifecycle.
func (s *GroupService) SetStatus(ctx context.Context, groupID string, target models.GroupStatus) (*models.Group, error) {
	slog.Info("SetStatus request", "group_id", groupID, "target", target)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.SetStatus(g, target)
	})
	if err != nil {
		slog.Warn("SetStatus failed", "group_id", groupID, "target", target, "error", err)
		return nil, err
	}
	return updated, nil
}

// UpdateSchedule replaces the group's schedule fields and rebuilds the
// obligation matrix.
func (s *GroupService) UpdateSchedule(ctx context.Context, groupID string, upd engine.ScheduleUpdate) (*models.Group, error) {
	slog.Info("UpdateSchedule request", "group_id", groupID)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.UpdateSchedule(g, upd)
	})
	if err != nil {
		slog.Warn("UpdateSchedule failed", "group_id", groupID, "error", err)
		return nil, err
	}
	return updated, nil
}

// SettleObligation marks one directed obligation as paid.
func (s *GroupService) SettleObligation(ctx context.Context, groupID, ownerID, counterpartyID string, p period.Key) (*models.Group, error) {
	slog.Info("SettleObligation request", "group_id", groupID, "owner_id", ownerID, "counterparty_id", counterpartyID, "period", p)

	updated, err := s.withGroup(ctx, groupID, func(g *models.Group) (*models.Group, error) {
		return engine.SettleObligation(g, ownerID, counterpartyID, p)
	})
	if err != nil {
		slog.Warn("SettleObligation failed", "group_id", groupID, "owner_id", ownerID, "error", err)
		return nil, err
	}
	return updated, nil
}
