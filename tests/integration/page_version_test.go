package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/infrastructure/persistence"
)

// TestPageVersionLifecycle_Integration walks a configuration through the
// full lifecycle against a real PostgreSQL database: draft, acceptance,
// production, revert.
func TestPageVersionLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPageVersionRepository(testDB.DB)
	service := appstorefront.NewVersionService(repo, nil, zap.NewNop())
	ctx := context.Background()

	storeID := uuid.New()
	userID := uuid.New()

	draft, err := service.UpsertDraft(ctx, appstorefront.UpsertDraftRequest{
		UserID:        userID,
		StoreID:       storeID,
		PageType:      "home",
		Configuration: json.RawMessage(`{"slots":[{"type":"hero"}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", draft.Status)
	assert.Equal(t, 1, draft.VersionNumber)

	// Upserting again for the same owner and scope reuses the draft
	again, err := service.UpsertDraft(ctx, appstorefront.UpsertDraftRequest{
		UserID:        userID,
		StoreID:       storeID,
		PageType:      "home",
		Configuration: json.RawMessage(`{"slots":[{"type":"hero"},{"type":"grid"}]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, draft.ID, again.ID)

	accepted, err := service.PublishToAcceptance(ctx, storeID, draft.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "acceptance", accepted.Status)
	require.NotNil(t, accepted.AcceptancePublishedAt)

	published, err := service.PublishToProduction(ctx, storeID, draft.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "published", published.Status)
	require.NotNil(t, published.PublishedAt)

	configuration, err := service.GetPublishedConfiguration(ctx, storeID, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slots":[{"type":"hero"},{"type":"grid"}]}`, configuration)

	// A second cycle produces version 2
	draft2, err := service.UpsertDraft(ctx, appstorefront.UpsertDraftRequest{
		UserID:        userID,
		StoreID:       storeID,
		PageType:      "home",
		Configuration: json.RawMessage(`{"slots":[]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, draft2.VersionNumber)

	_, err = service.PublishDraft(ctx, storeID, draft2.ID, userID)
	require.NoError(t, err)

	// Revert to version 1: a new version 3 carries v1's configuration and
	// version 2 is marked reverted
	reverted, err := service.RevertToVersion(ctx, appstorefront.RevertRequest{
		UserID:    userID,
		StoreID:   storeID,
		VersionID: draft.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "published", reverted.Status)
	assert.Equal(t, 3, reverted.VersionNumber)

	superseded, err := repo.FindByIDForStore(ctx, storeID, draft2.ID)
	require.NoError(t, err)
	assert.Equal(t, storefront.VersionStatusReverted, superseded.Status)

	// The revert target itself is never mutated
	target, err := repo.FindByIDForStore(ctx, storeID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, storefront.VersionStatusPublished, target.Status)

	configuration, err = service.GetPublishedConfiguration(ctx, storeID, "home")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slots":[{"type":"hero"},{"type":"grid"}]}`, configuration)

	history, err := service.GetVersionHistory(ctx, storeID, appstorefront.VersionHistoryFilter{PageType: "home"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].VersionNumber)
	assert.Equal(t, 1, history[1].VersionNumber)
}

// TestPageVersionScopeIsolation_Integration verifies that version numbers
// and reverts in one (store, page type) scope never touch another.
func TestPageVersionScopeIsolation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPageVersionRepository(testDB.DB)
	service := appstorefront.NewVersionService(repo, nil, zap.NewNop())
	ctx := context.Background()

	storeID := uuid.New()
	otherStore := uuid.New()
	userID := uuid.New()

	for _, scope := range []struct {
		store    uuid.UUID
		pageType string
	}{
		{storeID, "home"},
		{storeID, "product"},
		{otherStore, "home"},
	} {
		draft, err := service.UpsertDraft(ctx, appstorefront.UpsertDraftRequest{
			UserID:        userID,
			StoreID:       scope.store,
			PageType:      scope.pageType,
			Configuration: json.RawMessage(`{"slots":[]}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, draft.VersionNumber, "each scope numbers independently")

		_, err = service.PublishDraft(ctx, scope.store, draft.ID, userID)
		require.NoError(t, err)
	}

	// Revert in (storeID, home) must leave the other scopes' published
	// versions alone
	homeV1, err := repo.FindLatestByStatus(ctx, storeID, "home", storefront.VersionStatusPublished)
	require.NoError(t, err)

	draft2, err := service.UpsertDraft(ctx, appstorefront.UpsertDraftRequest{
		UserID:   userID,
		StoreID:  storeID,
		PageType: "home",
	})
	require.NoError(t, err)
	_, err = service.PublishDraft(ctx, storeID, draft2.ID, userID)
	require.NoError(t, err)

	_, err = service.RevertToVersion(ctx, appstorefront.RevertRequest{
		UserID:    userID,
		StoreID:   storeID,
		VersionID: homeV1.ID,
	})
	require.NoError(t, err)

	productLive, err := repo.FindLatestByStatus(ctx, storeID, "product", storefront.VersionStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, 1, productLive.VersionNumber)

	otherLive, err := repo.FindLatestByStatus(ctx, otherStore, "home", storefront.VersionStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, 1, otherLive.VersionNumber)
}

// TestCreateRevision_RollbackOnConflict_Integration forces the revision
// insert to collide with an existing version number and verifies the bulk
// supersede update rolled back with it.
func TestCreateRevision_RollbackOnConflict_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPageVersionRepository(testDB.DB)
	ctx := context.Background()

	storeID := uuid.New()
	userID := uuid.New()

	v1, err := storefront.NewDraft(userID, storeID, "home", `{"slots":["v1"]}`, 1, nil)
	require.NoError(t, err)
	require.NoError(t, v1.PublishDirect(userID))
	require.NoError(t, repo.Create(ctx, v1))

	v2, err := storefront.NewDraft(userID, storeID, "home", `{"slots":["v2"]}`, 2, nil)
	require.NoError(t, err)
	require.NoError(t, v2.PublishDirect(userID))
	require.NoError(t, repo.Create(ctx, v2))

	// Revision numbered 2 collides with v2's unique (store, page type,
	// version number) slot
	revision, err := storefront.NewRevision(v1, 2, userID)
	require.NoError(t, err)

	err = repo.CreateRevision(ctx, revision, v1.VersionNumber)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The supersede update must have rolled back: v2 is still published
	reloaded, err := repo.FindByIDForStore(ctx, storeID, v2.ID)
	require.NoError(t, err)
	assert.Equal(t, storefront.VersionStatusPublished, reloaded.Status)
}

// TestDraftInsertConflict_Integration verifies the unique scope index maps
// duplicate version numbers to a retryable conflict.
func TestDraftInsertConflict_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormPageVersionRepository(testDB.DB)
	ctx := context.Background()

	storeID := uuid.New()

	first, err := storefront.NewDraft(uuid.New(), storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	duplicate, err := storefront.NewDraft(uuid.New(), storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)

	err = repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}
