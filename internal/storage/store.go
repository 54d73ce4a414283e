// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for group and user persistence. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Group reads return full snapshots (roster and obligations included);
// SaveGroup replaces the stored snapshot wholesale, so what is persisted is
// exactly what the engine produced.
type Store interface {
	// CreateGroup persists a new group snapshot. The group's ID and
	// CreatedAt are populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a full group snapshot by ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInvitationCode retrieves a full group snapshot by its
	// invitation code.
	GetGroupByInvitationCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember retrieves every group whose roster contains the
	// given user, in any member status.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// SaveGroup replaces the stored snapshot of an existing group.
	SaveGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and everything it owns.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
