package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Ashraf7ussein/RoscaBackend/internal/engine"
	"github.com/Ashraf7ussein/RoscaBackend/internal/models"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage"
	"github.com/Ashraf7ussein/RoscaBackend/internal/storage/sqlite"
)

func newTestService(t *testing.T) *GroupService {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "rosca-service-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewGroupService(store)
}

func testParams() engine.GroupParams {
	return engine.GroupParams{
		Name:           "Family Circle",
		MemberCapacity: 3,
		MonthlyAmount:  100,
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestGroupLifecycleEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, testParams(), "u1", "Amina")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if group.ID == "" || len(group.InvitationCode) != 6 {
		t.Fatalf("group not initialized: id=%q code=%q", group.ID, group.InvitationCode)
	}

	// A second member redeems the code and is accepted.
	group, err = svc.Join(ctx, group.InvitationCode, "u2", "Bilal")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if group.Member("u2").Status != models.MemberWaiting {
		t.Errorf("joined status = %s, want waiting", group.Member("u2").Status)
	}

	group, err = svc.SetMemberStatus(ctx, group.ID, "u2", models.MemberAccepted)
	if err != nil {
		t.Fatalf("SetMemberStatus failed: %v", err)
	}
	m := group.Member("u2")
	if m.RotationOrder != 2 || m.PayoutPeriod != "2024-02" {
		t.Errorf("turn = %d/%s, want 2/2024-02", m.RotationOrder, m.PayoutPeriod)
	}

	// Settlement survives later roster changes.
	group, err = svc.SettleObligation(ctx, group.ID, "u1", "u2", "2024-01")
	if err != nil {
		t.Fatalf("SettleObligation failed: %v", err)
	}
	group, err = svc.Join(ctx, group.InvitationCode, "u3", "Chidi")
	if err != nil {
		t.Fatalf("second Join failed: %v", err)
	}
	if o := group.Member("u1").Obligation("u2", "2024-01"); o == nil || o.State != models.Paid {
		t.Errorf("settled obligation regressed: %+v", o)
	}

	// Lifecycle and admin handover.
	group, err = svc.SetStatus(ctx, group.ID, models.GroupActive)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	group, err = svc.TransferAdmin(ctx, group.ID, "u2")
	if err != nil {
		t.Fatalf("TransferAdmin failed: %v", err)
	}
	group, err = svc.RemoveMember(ctx, group.ID, "u1")
	if err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	if group.Member("u2").RotationOrder != 1 {
		t.Errorf("rotation order = %d, want 1 after compaction", group.Member("u2").RotationOrder)
	}

	// Everything above was persisted, not just returned.
	reloaded, err := svc.Get(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if reloaded.Status != models.GroupActive || reloaded.Member("u1") != nil {
		t.Error("persisted snapshot out of sync with returned snapshot")
	}
}

func TestJoinUnknownCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Join(context.Background(), "000000", "u2", "Bilal")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Join() error = %v, want ErrNotFound", err)
	}
}

func TestEngineErrorsPassThrough(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, testParams(), "u1", "Amina")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Join(ctx, group.InvitationCode, "u1", "Amina"); !errors.Is(err, engine.ErrDuplicateMember) {
		t.Errorf("duplicate join: err = %v, want ErrDuplicateMember", err)
	}
	if _, err := svc.SetMemberStatus(ctx, group.ID, "u1", models.MemberAccepted); !errors.Is(err, engine.ErrInvalidTransition) {
		t.Errorf("re-deciding member: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := svc.SetStatus(ctx, group.ID, models.GroupStatus("archived")); !errors.Is(err, engine.ErrInvalidStatus) {
		t.Errorf("bogus status: err = %v, want ErrInvalidStatus", err)
	}

	// Failed operations must not corrupt the stored snapshot.
	reloaded, err := svc.Get(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(reloaded.Members) != 1 || reloaded.Status != models.GroupPending {
		t.Error("failed operations left partial state behind")
	}
}

func TestInvitationCodesAreUnique(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		group, err := svc.Create(ctx, testParams(), "founder", "Founder")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if seen[group.InvitationCode] {
			t.Fatalf("invitation code %s issued twice", group.InvitationCode)
		}
		seen[group.InvitationCode] = true
	}
}

func TestConcurrentJoinsSerialize(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	group, err := svc.Create(ctx, testParams(), "u1", "Amina")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Concurrent joins on the same group must all land on the roster; the
	// per-group lock serializes the read-modify-write cycles.
	const joiners = 8
	var wg sync.WaitGroup
	errs := make([]error, joiners)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := string(rune('a' + i))
			_, errs[i] = svc.Join(ctx, group.InvitationCode, userID, "Member "+userID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}

	reloaded, err := svc.Get(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(reloaded.Members) != joiners+1 {
		t.Errorf("roster = %d members, want %d", len(reloaded.Members), joiners+1)
	}
}
