package experiment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/experiment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExperimentRepository is a mock implementation of ExperimentRepository
type MockExperimentRepository struct {
	mock.Mock
}

func (m *MockExperimentRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*experiment.Experiment, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) FindByKey(ctx context.Context, storeID uuid.UUID, key string) (*experiment.Experiment, error) {
	args := m.Called(ctx, storeID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) FindRunningByPageType(ctx context.Context, storeID uuid.UUID, pageType string) (*experiment.Experiment, error) {
	args := m.Called(ctx, storeID, pageType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) FindAll(ctx context.Context, storeID uuid.UUID) ([]experiment.Experiment, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]experiment.Experiment), args.Error(1)
}

func (m *MockExperimentRepository) Save(ctx context.Context, exp *experiment.Experiment) error {
	args := m.Called(ctx, exp)
	return args.Error(0)
}

func (m *MockExperimentRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

func (m *MockExperimentRepository) ExistsByKey(ctx context.Context, storeID uuid.UUID, key string) (bool, error) {
	args := m.Called(ctx, storeID, key)
	return args.Bool(0), args.Error(1)
}

// MockPageVersionRepository is a minimal mock for the version lookups the
// experiment service performs
type MockPageVersionRepository struct {
	mock.Mock
}

func (m *MockPageVersionRepository) FindByID(ctx context.Context, id uuid.UUID) (*storefront.PageVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.PageVersion), args.Error(1)
}

func (m *MockPageVersionRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*storefront.PageVersion, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.PageVersion), args.Error(1)
}

func (m *MockPageVersionRepository) FindActiveByOwner(ctx context.Context, userID, storeID uuid.UUID) (*storefront.PageVersion, error) {
	args := m.Called(ctx, userID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.PageVersion), args.Error(1)
}

func (m *MockPageVersionRepository) FindDraftByOwner(ctx context.Context, userID, storeID uuid.UUID, pageType string) (*storefront.PageVersion, error) {
	args := m.Called(ctx, userID, storeID, pageType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.PageVersion), args.Error(1)
}

func (m *MockPageVersionRepository) FindLatestByStatus(ctx context.Context, storeID uuid.UUID, pageType string, status storefront.VersionStatus) (*storefront.PageVersion, error) {
	args := m.Called(ctx, storeID, pageType, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storefront.PageVersion), args.Error(1)
}

func (m *MockPageVersionRepository) MaxVersionNumber(ctx context.Context, storeID uuid.UUID, pageType string) (int, error) {
	args := m.Called(ctx, storeID, pageType)
	return args.Int(0), args.Error(1)
}

func (m *MockPageVersionRepository) Create(ctx context.Context, version *storefront.PageVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockPageVersionRepository) Save(ctx context.Context, version *storefront.PageVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockPageVersionRepository) CreateRevision(ctx context.Context, revision *storefront.PageVersion, supersedeAbove int) error {
	args := m.Called(ctx, revision, supersedeAbove)
	return args.Error(0)
}

func (m *MockPageVersionRepository) SetCurrentEdit(ctx context.Context, userID, storeID uuid.UUID, pageType string, versionID uuid.UUID) error {
	args := m.Called(ctx, userID, storeID, pageType, versionID)
	return args.Error(0)
}

func (m *MockPageVersionRepository) VersionHistory(ctx context.Context, storeID uuid.UUID, pageType string, limit int) ([]storefront.PageVersion, error) {
	args := m.Called(ctx, storeID, pageType, limit)
	return args.Get(0).([]storefront.PageVersion), args.Error(1)
}

func newFixture(t *testing.T) (*ExperimentService, *MockExperimentRepository, *MockPageVersionRepository) {
	t.Helper()
	experiments := new(MockExperimentRepository)
	versions := new(MockPageVersionRepository)
	return NewExperimentService(experiments, versions, nil), experiments, versions
}

func publishedVersion(t *testing.T, storeID uuid.UUID, pageType string) *storefront.PageVersion {
	t.Helper()
	version, err := storefront.NewDraft(uuid.New(), storeID, pageType, `{}`, 1, nil)
	require.NoError(t, err)
	require.NoError(t, version.PublishDirect(uuid.New()))
	return version
}

func TestExperimentService_AddVariant(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("attaches published version of the same page type", func(t *testing.T) {
		svc, experiments, versions := newFixture(t)

		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		version := publishedVersion(t, storeID, "cart")

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		versions.On("FindByIDForStore", ctx, storeID, version.ID).Return(version, nil)
		experiments.On("Save", ctx, exp).Return(nil)

		resp, err := svc.AddVariant(ctx, storeID, exp.ID, AddVariantRequest{
			Name:          "control",
			PageVersionID: version.ID,
			Weight:        decimal.NewFromInt(50),
		})

		require.NoError(t, err)
		require.Len(t, resp.Variants, 1)
		assert.Equal(t, version.ID, resp.Variants[0].PageVersionID)
	})

	t.Run("rejects version from another page type", func(t *testing.T) {
		svc, experiments, versions := newFixture(t)

		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		version := publishedVersion(t, storeID, "checkout")

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		versions.On("FindByIDForStore", ctx, storeID, version.ID).Return(version, nil)

		_, err = svc.AddVariant(ctx, storeID, exp.ID, AddVariantRequest{
			Name:          "control",
			PageVersionID: version.ID,
			Weight:        decimal.NewFromInt(50),
		})

		require.Error(t, err)
		experiments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects missing version", func(t *testing.T) {
		svc, experiments, versions := newFixture(t)

		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		versionID := uuid.New()

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		versions.On("FindByIDForStore", ctx, storeID, versionID).Return(nil, shared.ErrNotFound)

		_, err = svc.AddVariant(ctx, storeID, exp.ID, AddVariantRequest{
			Name:          "control",
			PageVersionID: versionID,
			Weight:        decimal.NewFromInt(50),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_VARIANT", domainErr.Code)
	})
}

func TestExperimentService_Start(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	readyExperiment := func(t *testing.T) *experiment.Experiment {
		t.Helper()
		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		require.NoError(t, exp.AddVariant("control", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, exp.AddVariant("treatment", uuid.New(), decimal.NewFromInt(50)))
		return exp
	}

	t.Run("starts complete experiment", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)
		exp := readyExperiment(t)

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		experiments.On("FindRunningByPageType", ctx, storeID, "cart").Return(nil, shared.ErrNotFound)
		experiments.On("Save", ctx, exp).Return(nil)

		resp, err := svc.Start(ctx, storeID, exp.ID)

		require.NoError(t, err)
		assert.Equal(t, "running", resp.Status)
	})

	t.Run("refuses a second running experiment per page type", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)
		exp := readyExperiment(t)

		other := readyExperiment(t)
		require.NoError(t, other.Start())

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		experiments.On("FindRunningByPageType", ctx, storeID, "cart").Return(other, nil)

		_, err := svc.Start(ctx, storeID, exp.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXPERIMENT_CONFLICT", domainErr.Code)
		experiments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestExperimentService_Assign(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("assigns visitor to running experiment", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)

		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		require.NoError(t, exp.AddVariant("control", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, exp.AddVariant("treatment", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, exp.Start())

		experiments.On("FindRunningByPageType", ctx, storeID, "cart").Return(exp, nil)

		resp, err := svc.Assign(ctx, storeID, "cart", "visitor-42")

		require.NoError(t, err)
		assert.Equal(t, "cart-test", resp.ExperimentKey)
		assert.NotEmpty(t, resp.VariantName)
	})

	t.Run("not found when nothing is running", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)

		experiments.On("FindRunningByPageType", ctx, storeID, "cart").Return(nil, shared.ErrNotFound)

		_, err := svc.Assign(ctx, storeID, "cart", "visitor-42")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestExperimentService_Delete(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("deletes a draft experiment", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)
		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)
		experiments.On("Delete", ctx, storeID, exp.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, storeID, exp.ID))
		experiments.AssertExpectations(t)
	})

	t.Run("refuses to delete a started experiment", func(t *testing.T) {
		svc, experiments, _ := newFixture(t)
		exp, err := experiment.NewExperiment(storeID, "cart-test", "Cart Test", "cart")
		require.NoError(t, err)
		require.NoError(t, exp.AddVariant("control", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, exp.AddVariant("treatment", uuid.New(), decimal.NewFromInt(50)))
		require.NoError(t, exp.Start())

		experiments.On("FindByID", ctx, storeID, exp.ID).Return(exp, nil)

		err = svc.Delete(ctx, storeID, exp.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		experiments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
