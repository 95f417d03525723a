package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"family-ledger-go/internal/domain/assets"
	"family-ledger-go/internal/domain/family"
	"family-ledger-go/internal/domain/role"
	"family-ledger-go/internal/domain/transactions"
	"family-ledger-go/internal/domain/user"
	"family-ledger-go/pkg/logger"
)

// fakeStore is shared between the bootstrap repository fake and the family
// repository fake so a family created through the family service is visible
// to the bootstrap lookups in the same test.
type fakeStore struct {
	users        map[string]*user.User
	families     map[string]*family.Family
	memberships  []family.Membership
	assets       map[string]*assets.Asset
	transactions map[string]*transactions.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[string]*user.User),
		families:     make(map[string]*family.Family),
		assets:       make(map[string]*assets.Asset),
		transactions: make(map[string]*transactions.Transaction),
	}
}

func (s *fakeStore) addUser(id, name string, currentFamilyID *string) {
	s.users[id] = &user.User{ID: id, Name: name, CurrentFamilyID: currentFamilyID}
}

func (s *fakeStore) addFamily(id, ownerID string) {
	s.families[id] = &family.Family{ID: id, Name: "Family " + id, CreatedBy: ownerID, InviteCode: "CODE" + id}
	s.memberships = append(s.memberships, family.Membership{FamilyID: id, UserID: ownerID, Role: role.Owner})
}

func (s *fakeStore) addOrphanAsset(id, holderID string) {
	s.assets[id] = &assets.Asset{ID: id, HolderID: holderID, Name: "Asset " + id}
}

func (s *fakeStore) addOrphanTransaction(id, memberID string) {
	s.transactions[id] = &transactions.Transaction{ID: id, MemberID: memberID}
}

type fakeBootstrapRepo struct {
	store *fakeStore
}

func (r *fakeBootstrapRepo) GetUser(ctx context.Context, userID string) (*user.User, error) {
	u, ok := r.store.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeBootstrapRepo) ListUsersWithoutMembership(ctx context.Context) ([]user.User, error) {
	result := make([]user.User, 0)
	for _, u := range r.store.users {
		hasMembership := false
		for _, m := range r.store.memberships {
			if m.UserID == u.ID {
				hasMembership = true
				break
			}
		}
		if !hasMembership {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (r *fakeBootstrapRepo) SetCurrentFamily(ctx context.Context, userID string, familyID *string) error {
	u, ok := r.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CurrentFamilyID = familyID
	return nil
}

func (r *fakeBootstrapRepo) GetFamily(ctx context.Context, familyID string) (*family.Family, error) {
	fam, ok := r.store.families[familyID]
	if !ok {
		return nil, family.ErrFamilyNotFound
	}
	copied := *fam
	return &copied, nil
}

func (r *fakeBootstrapRepo) GetAnyMembership(ctx context.Context, userID string) (*family.Membership, error) {
	for _, m := range r.store.memberships {
		if m.UserID == userID {
			copied := m
			return &copied, nil
		}
	}
	return nil, family.ErrMemberNotFound
}

func (r *fakeBootstrapRepo) ListOrphanAssets(ctx context.Context) ([]assets.Asset, error) {
	result := make([]assets.Asset, 0)
	for _, asset := range r.store.assets {
		if asset.FamilyID == nil {
			result = append(result, *asset)
		}
	}
	return result, nil
}

func (r *fakeBootstrapRepo) ListOrphanAssetsByHolder(ctx context.Context, holderID string) ([]assets.Asset, error) {
	result := make([]assets.Asset, 0)
	for _, asset := range r.store.assets {
		if asset.FamilyID == nil && asset.HolderID == holderID {
			result = append(result, *asset)
		}
	}
	return result, nil
}

func (r *fakeBootstrapRepo) SetAssetFamily(ctx context.Context, assetID, familyID string) error {
	asset, ok := r.store.assets[assetID]
	if !ok {
		return assets.ErrAssetNotFound
	}
	asset.FamilyID = &familyID
	return nil
}

func (r *fakeBootstrapRepo) ListOrphanTransactions(ctx context.Context) ([]transactions.Transaction, error) {
	result := make([]transactions.Transaction, 0)
	for _, transaction := range r.store.transactions {
		if transaction.FamilyID == nil {
			result = append(result, *transaction)
		}
	}
	return result, nil
}

func (r *fakeBootstrapRepo) ListOrphanTransactionsByMember(ctx context.Context, memberID string) ([]transactions.Transaction, error) {
	result := make([]transactions.Transaction, 0)
	for _, transaction := range r.store.transactions {
		if transaction.FamilyID == nil && transaction.MemberID == memberID {
			result = append(result, *transaction)
		}
	}
	return result, nil
}

func (r *fakeBootstrapRepo) SetTransactionFamily(ctx context.Context, transactionID, familyID string) error {
	transaction, ok := r.store.transactions[transactionID]
	if !ok {
		return transactions.ErrTransactionNotFound
	}
	transaction.FamilyID = &familyID
	return nil
}

// fakeFamilyRepo implements just enough of family.Repository for
// Service.CreateFamily; the member-management paths are never hit here.
type fakeFamilyRepo struct {
	store *fakeStore
}

func (r *fakeFamilyRepo) Transaction(ctx context.Context, fn func(family.Repository) error) error {
	return fn(r)
}

func (r *fakeFamilyRepo) CreateFamily(ctx context.Context, fam *family.Family) error {
	stored := *fam
	r.store.families[fam.ID] = &stored
	return nil
}

func (r *fakeFamilyRepo) GetFamily(ctx context.Context, familyID string) (*family.Family, error) {
	fam, ok := r.store.families[familyID]
	if !ok {
		return nil, family.ErrFamilyNotFound
	}
	copied := *fam
	return &copied, nil
}

func (r *fakeFamilyRepo) GetFamilyByCode(ctx context.Context, code string) (*family.Family, error) {
	for _, fam := range r.store.families {
		if fam.InviteCode == code {
			copied := *fam
			return &copied, nil
		}
	}
	return nil, family.ErrInviteCodeNotFound
}

func (r *fakeFamilyRepo) ListFamiliesByUser(ctx context.Context, userID string) ([]family.Family, error) {
	return nil, nil
}

func (r *fakeFamilyRepo) UpdateFamily(ctx context.Context, fam *family.Family) error {
	stored := *fam
	r.store.families[fam.ID] = &stored
	return nil
}

func (r *fakeFamilyRepo) UpdateInviteCode(ctx context.Context, familyID, code string) error {
	fam, ok := r.store.families[familyID]
	if !ok {
		return family.ErrFamilyNotFound
	}
	fam.InviteCode = code
	return nil
}

func (r *fakeFamilyRepo) DeleteFamily(ctx context.Context, familyID string) error {
	delete(r.store.families, familyID)
	return nil
}

func (r *fakeFamilyRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	for _, fam := range r.store.families {
		if fam.InviteCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFamilyRepo) AddMember(ctx context.Context, member *family.Membership) error {
	r.store.memberships = append(r.store.memberships, *member)
	return nil
}

func (r *fakeFamilyRepo) GetMember(ctx context.Context, familyID, userID string) (*family.Membership, error) {
	for _, m := range r.store.memberships {
		if m.FamilyID == familyID && m.UserID == userID {
			copied := m
			return &copied, nil
		}
	}
	return nil, family.ErrMemberNotFound
}

func (r *fakeFamilyRepo) ListMembers(ctx context.Context, familyID string) ([]family.MemberProfile, error) {
	return nil, nil
}

func (r *fakeFamilyRepo) UpdateMemberRole(ctx context.Context, familyID, userID string, newRole role.Role) error {
	return nil
}

func (r *fakeFamilyRepo) DeleteMember(ctx context.Context, familyID, userID string) error {
	return nil
}

func (r *fakeFamilyRepo) DeleteMembersByFamily(ctx context.Context, familyID string) error {
	return nil
}

func (r *fakeFamilyRepo) UserExists(ctx context.Context, userID string) (bool, error) {
	_, ok := r.store.users[userID]
	return ok, nil
}

func (r *fakeFamilyRepo) GetCurrentFamily(ctx context.Context, userID string) (*string, error) {
	u, ok := r.store.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u.CurrentFamilyID, nil
}

func (r *fakeFamilyRepo) SetCurrentFamily(ctx context.Context, userID string, familyID *string) error {
	u, ok := r.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CurrentFamilyID = familyID
	return nil
}

func (r *fakeFamilyRepo) ClearCurrentFamilyRefs(ctx context.Context, familyID string) error {
	for _, u := range r.store.users {
		if u.CurrentFamilyID != nil && *u.CurrentFamilyID == familyID {
			u.CurrentFamilyID = nil
		}
	}
	return nil
}

func (r *fakeFamilyRepo) SeedDefaultCategories(ctx context.Context, familyID string) error {
	return nil
}

func newTestService(store *fakeStore) *Service {
	families := family.NewService(&fakeFamilyRepo{store: store})
	log := logger.New(io.Discard, slog.LevelError, "json")
	return NewService(&fakeBootstrapRepo{store: store}, families, log)
}

func TestCreateDefaultFamilyValidPointer(t *testing.T) {
	store := newFakeStore()
	store.addFamily("fam-1", "alice")
	famID := "fam-1"
	store.addUser("alice", "Alice", &famID)
	svc := newTestService(store)

	fam, err := svc.CreateDefaultFamilyForUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fam.ID != "fam-1" {
		t.Fatalf("expected existing family, got %s", fam.ID)
	}
	if len(store.families) != 1 {
		t.Fatalf("expected no new family, got %d", len(store.families))
	}
}

func TestCreateDefaultFamilyStalePointerAdoptsMembership(t *testing.T) {
	store := newFakeStore()
	store.addFamily("fam-2", "bob")
	stale := "fam-deleted"
	store.addUser("bob", "Bob", &stale)
	svc := newTestService(store)

	fam, err := svc.CreateDefaultFamilyForUser(context.Background(), "bob")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fam.ID != "fam-2" {
		t.Fatalf("expected membership family, got %s", fam.ID)
	}
	current := store.users["bob"].CurrentFamilyID
	if current == nil || *current != "fam-2" {
		t.Fatalf("expected pointer adopted to fam-2, got %v", current)
	}
	if len(store.families) != 1 {
		t.Fatalf("expected no new family, got %d", len(store.families))
	}
}

func TestCreateDefaultFamilyCreatesNamed(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "Alice", nil)
	svc := newTestService(store)
	ctx := context.Background()

	fam, err := svc.CreateDefaultFamilyForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fam.Name != "Alice's Family" {
		t.Fatalf("expected named default family, got %q", fam.Name)
	}

	member, err := (&fakeFamilyRepo{store: store}).GetMember(ctx, fam.ID, "alice")
	if err != nil {
		t.Fatalf("expected owner membership, got %v", err)
	}
	if member.Role != role.Owner {
		t.Fatalf("expected owner role, got %v", member.Role)
	}
	current := store.users["alice"].CurrentFamilyID
	if current == nil || *current != fam.ID {
		t.Fatalf("expected pointer at new family, got %v", current)
	}

	// Second run resolves to the same family.
	again, err := svc.CreateDefaultFamilyForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again.ID != fam.ID {
		t.Fatalf("expected idempotent resolution, got %s and %s", fam.ID, again.ID)
	}
	if len(store.families) != 1 {
		t.Fatalf("expected exactly one family, got %d", len(store.families))
	}
}

func TestCreateDefaultFamilyUnnamedUser(t *testing.T) {
	store := newFakeStore()
	store.addUser("ghost", "", nil)
	svc := newTestService(store)

	fam, err := svc.CreateDefaultFamilyForUser(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fam.Name != "My Family" {
		t.Fatalf("expected fallback family name, got %q", fam.Name)
	}
}

func TestInitializeAllUsers(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "Alice", nil)
	store.addUser("bob", "Bob", nil)
	store.addFamily("fam-1", "carol")
	famID := "fam-1"
	store.addUser("carol", "Carol", &famID)
	svc := newTestService(store)

	initialized, err := svc.InitializeAllUsers(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if initialized != 2 {
		t.Fatalf("expected 2 users initialized, got %d", initialized)
	}
	if len(store.families) != 3 {
		t.Fatalf("expected 3 families, got %d", len(store.families))
	}

	// Everyone resolved: a re-run finds no membership-less users.
	initialized, err = svc.InitializeAllUsers(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if initialized != 0 {
		t.Fatalf("expected re-run no-op, got %d", initialized)
	}
}

func TestMigrateOrphanData(t *testing.T) {
	store := newFakeStore()
	store.addFamily("fam-1", "alice")
	famID := "fam-1"
	store.addUser("alice", "Alice", &famID)
	store.addUser("drifter", "Drifter", nil)
	store.addOrphanAsset("a1", "alice")
	store.addOrphanAsset("a2", "drifter")
	store.addOrphanTransaction("t1", "alice")
	svc := newTestService(store)

	migrated, err := svc.MigrateOrphanData(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if migrated != 2 {
		t.Fatalf("expected 2 rows migrated, got %d", migrated)
	}
	if got := store.assets["a1"].FamilyID; got == nil || *got != "fam-1" {
		t.Fatalf("expected a1 in fam-1, got %v", got)
	}
	if store.assets["a2"].FamilyID != nil {
		t.Fatalf("expected holder without family skipped")
	}
	if got := store.transactions["t1"].FamilyID; got == nil || *got != "fam-1" {
		t.Fatalf("expected t1 in fam-1, got %v", got)
	}

	// a2 stays orphaned until its holder joins a family, so a re-run
	// migrates nothing.
	migrated, err = svc.MigrateOrphanData(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if migrated != 0 {
		t.Fatalf("expected re-run no-op, got %d", migrated)
	}
}

func TestMigrateUserDataToFamily(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice", "Alice", nil)
	store.addUser("bob", "Bob", nil)
	store.addOrphanAsset("a1", "alice")
	store.addOrphanTransaction("t1", "alice")
	store.addOrphanAsset("a2", "bob")
	svc := newTestService(store)

	if err := svc.MigrateUserDataToFamily(context.Background(), "alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	current := store.users["alice"].CurrentFamilyID
	if current == nil {
		t.Fatalf("expected alice to have a family")
	}
	if got := store.assets["a1"].FamilyID; got == nil || *got != *current {
		t.Fatalf("expected a1 in alice's family, got %v", got)
	}
	if got := store.transactions["t1"].FamilyID; got == nil || *got != *current {
		t.Fatalf("expected t1 in alice's family, got %v", got)
	}
	if store.assets["a2"].FamilyID != nil {
		t.Fatalf("expected bob's orphan untouched")
	}
}
