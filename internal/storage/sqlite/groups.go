package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/period"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage"
)

// dateLayout is the calendar representation for start/end dates.
const dateLayout = "2006-01-02"

// CreateGroup persists a new group snapshot, assigning ID and CreatedAt if
// unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, member_capacity, monthly_amount, start_date, end_date, total_pool, status, invitation_code, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.MemberCapacity, group.MonthlyAmount,
		group.StartDate.Format(dateLayout), group.EndDate.Format(dateLayout),
		group.TotalPool, string(group.Status), group.InvitationCode, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertRoster(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SaveGroup replaces the stored snapshot of an existing group. Member and
// obligation rows are rewritten in one transaction so the database holds
// exactly the engine's output.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET name = ?, member_capacity = ?, monthly_amount = ?, start_date = ?, end_date = ?, total_pool = ?, status = ?, invitation_code = ?
		 WHERE id = ?`,
		group.Name, group.MemberCapacity, group.MonthlyAmount,
		group.StartDate.Format(dateLayout), group.EndDate.Format(dateLayout),
		group.TotalPool, string(group.Status), group.InvitationCode, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM obligations WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear obligations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}

	if err := insertRoster(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertRoster(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	for pos, m := range group.Members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO members (group_id, user_id, display_name, is_admin, status, rotation_order, payout_period, payment_state, total_paid, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			group.ID, m.UserID, m.DisplayName, m.IsAdmin, string(m.Status),
			m.RotationOrder, string(m.PayoutPeriod), string(m.PaymentState), m.TotalPaid, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}

		for _, o := range m.Obligations {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO obligations (group_id, owner_id, counterparty_id, counterparty_name, period, state)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				group.ID, m.UserID, o.CounterpartyID, o.CounterpartyName, string(o.Period), string(o.State),
			)
			if err != nil {
				return fmt.Errorf("failed to insert obligation: %w", err)
			}
		}
	}
	return nil
}

// GetGroup retrieves a full group snapshot by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "id = ?", groupID)
}

// GetGroupByInvitationCode retrieves a full group snapshot by its invitation
// code.
func (s *SQLiteStore) GetGroupByInvitationCode(ctx context.Context, code string) (*models.Group, error) {
	return s.getGroupWhere(ctx, "invitation_code = ?", code)
}

func (s *SQLiteStore) getGroupWhere(ctx context.Context, where string, arg any) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, member_capacity, monthly_amount, start_date, end_date, total_pool, status, invitation_code, created_at
		 FROM groups WHERE `+where, arg,
	)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadRoster(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsByMember retrieves every group whose roster contains the given
// user, in any status.
func (s *SQLiteStore) ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.member_capacity, g.monthly_amount, g.start_date, g.end_date, g.total_pool, g.status, g.invitation_code, g.created_at
		 FROM groups g
		 JOIN members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.loadRoster(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// DeleteGroup removes a group; members and obligations cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var startDate, endDate, status string
	err := row.Scan(
		&group.ID, &group.Name, &group.MemberCapacity, &group.MonthlyAmount,
		&startDate, &endDate, &group.TotalPool, &status, &group.InvitationCode, &group.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	group.Status = models.GroupStatus(status)
	if group.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("failed to parse start date: %w", err)
	}
	if group.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return nil, fmt.Errorf("failed to parse end date: %w", err)
	}
	return group, nil
}

func (s *SQLiteStore) loadRoster(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, display_name, is_admin, status, rotation_order, payout_period, payment_state, total_paid
		 FROM members WHERE group_id = ? ORDER BY position`, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &models.Member{}
		var status, payoutPeriod, paymentState string
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.IsAdmin, &status, &m.RotationOrder, &payoutPeriod, &paymentState, &m.TotalPaid); err != nil {
			return fmt.Errorf("failed to scan member: %w", err)
		}
		m.Status = models.MemberStatus(status)
		m.PayoutPeriod = period.Key(payoutPeriod)
		m.PaymentState = models.SettlementState(paymentState)
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate members: %w", err)
	}

	obligations := make(map[string][]models.Obligation)
	oRows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, counterparty_id, counterparty_name, period, state
		 FROM obligations WHERE group_id = ? ORDER BY period, counterparty_id`, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get obligations: %w", err)
	}
	defer oRows.Close()

	for oRows.Next() {
		var ownerID, p, state string
		o := models.Obligation{}
		if err := oRows.Scan(&ownerID, &o.CounterpartyID, &o.CounterpartyName, &p, &state); err != nil {
			return fmt.Errorf("failed to scan obligation: %w", err)
		}
		o.Period = period.Key(p)
		o.State = models.SettlementState(state)
		obligations[ownerID] = append(obligations[ownerID], o)
	}
	if err := oRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate obligations: %w", err)
	}

	for _, m := range group.Members {
		m.Obligations = obligations[m.UserID]
	}
	return nil
}
