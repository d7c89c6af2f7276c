package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appstorefront "github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	httpdto "github.com/storefront/backend/internal/interfaces/http/dto"
)

// MockPageVersionRepository is a mock implementation of PageVersionRepository
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
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storefront.PageVersion), args.Error(1)
}

func newPageVersionTestHandler(repo *MockPageVersionRepository) *PageVersionHandler {
	service := appstorefront.NewVersionService(repo, nil, zap.NewNop())
	return NewPageVersionHandler(service)
}

func authedRequest(method, target string, body []byte, storeID, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("X-Store-ID", storeID.String())
	req.Header.Set("X-User-ID", userID.String())
	return req
}

func TestPageVersionHandler_UpsertDraft_UpdatesExisting(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	draft, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)

	repo := new(MockPageVersionRepository)
	repo.On("FindDraftByOwner", mock.Anything, userID, storeID, "home").Return(draft, nil)
	repo.On("Save", mock.Anything, draft).Return(nil)

	h := newPageVersionTestHandler(repo)

	body, _ := json.Marshal(UpsertDraftHTTPRequest{
		PageType:      "home",
		Configuration: json.RawMessage(`{"slots":[{"type":"hero"}]}`),
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodPut, "/api/v1/pages/draft", body, storeID, userID)

	h.UpsertDraft(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "draft", data["status"])
	repo.AssertExpectations(t)
}

func TestPageVersionHandler_UpsertDraft_RequiresStoreContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := newPageVersionTestHandler(new(MockPageVersionRepository))

	body, _ := json.Marshal(UpsertDraftHTTPRequest{PageType: "home"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/v1/pages/draft", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpsertDraft(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPageVersionHandler_PublishToAcceptance(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	draft, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)

	repo := new(MockPageVersionRepository)
	repo.On("FindByIDForStore", mock.Anything, storeID, draft.ID).Return(draft, nil)
	repo.On("Save", mock.Anything, draft).Return(nil)

	h := newPageVersionTestHandler(repo)

	body, _ := json.Marshal(PublishHTTPRequest{VersionID: draft.ID.String()})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodPost, "/api/v1/pages/publish-acceptance", body, storeID, userID)

	h.PublishToAcceptance(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "acceptance", data["status"])
	repo.AssertExpectations(t)
}

func TestPageVersionHandler_Publish_WrongStateConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	version, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)
	require.NoError(t, version.PublishDirect(userID))

	repo := new(MockPageVersionRepository)
	repo.On("FindByIDForStore", mock.Anything, storeID, version.ID).Return(version, nil)

	h := newPageVersionTestHandler(repo)

	body, _ := json.Marshal(PublishHTTPRequest{VersionID: version.ID.String()})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodPost, "/api/v1/pages/publish", body, storeID, userID)

	h.PublishDraft(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}

func TestPageVersionHandler_Revert(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	target, err := storefront.NewDraft(userID, storeID, "home", `{"slots":["old"]}`, 3, nil)
	require.NoError(t, err)
	require.NoError(t, target.PublishDirect(userID))

	repo := new(MockPageVersionRepository)
	repo.On("FindByIDForStore", mock.Anything, storeID, target.ID).Return(target, nil)
	repo.On("MaxVersionNumber", mock.Anything, storeID, "home").Return(5, nil)
	repo.On("CreateRevision", mock.Anything, mock.AnythingOfType("*storefront.PageVersion"), 3).Return(nil)

	h := newPageVersionTestHandler(repo)

	body, _ := json.Marshal(RevertHTTPRequest{VersionID: target.ID.String()})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodPost, "/api/v1/pages/revert", body, storeID, userID)

	h.Revert(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "published", data["status"])
	assert.Equal(t, float64(6), data["version_number"])
	repo.AssertExpectations(t)
}

func TestPageVersionHandler_History(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	v1, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[]}`, 1, nil)
	require.NoError(t, err)
	require.NoError(t, v1.PublishDirect(userID))

	repo := new(MockPageVersionRepository)
	repo.On("VersionHistory", mock.Anything, storeID, "home", 0).Return([]storefront.PageVersion{*v1}, nil)

	h := newPageVersionTestHandler(repo)

	router := gin.New()
	router.GET("/api/v1/pages/versions", h.History)

	w := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/pages/versions?page_type=home", nil, storeID, userID)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	entries := resp.Data.([]interface{})
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestPageVersionHandler_History_RequiresPageType(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := newPageVersionTestHandler(new(MockPageVersionRepository))

	router := gin.New()
	router.GET("/api/v1/pages/versions", h.History)

	w := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/pages/versions", nil, uuid.New(), uuid.New())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPageVersionHandler_PublishedConfiguration_Public(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	live, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[{"type":"hero"}]}`, 2, nil)
	require.NoError(t, err)
	require.NoError(t, live.PublishDirect(userID))

	repo := new(MockPageVersionRepository)
	repo.On("FindLatestByStatus", mock.Anything, storeID, "home", storefront.VersionStatusPublished).Return(live, nil)

	h := newPageVersionTestHandler(repo)

	router := gin.New()
	router.GET("/api/v1/storefront/:store_id/pages/:page_type/config", h.PublishedConfiguration)

	w := httptest.NewRecorder()
	// No auth headers: the storefront read surface is public.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/"+storeID.String()+"/pages/home/config", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	slots := data["slots"].([]interface{})
	require.Len(t, slots, 1)
	repo.AssertExpectations(t)
}

func TestPageVersionHandler_PublishedConfiguration_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()

	repo := new(MockPageVersionRepository)
	repo.On("FindLatestByStatus", mock.Anything, storeID, "landing", storefront.VersionStatusPublished).
		Return(nil, shared.ErrNotFound)

	h := newPageVersionTestHandler(repo)

	router := gin.New()
	router.GET("/api/v1/storefront/:store_id/pages/:page_type/config", h.PublishedConfiguration)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/"+storeID.String()+"/pages/landing/config", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageVersionHandler_ActiveVersion(t *testing.T) {
	gin.SetMode(gin.TestMode)

	storeID := uuid.New()
	userID := uuid.New()

	draft, err := storefront.NewDraft(userID, storeID, "home", `{"slots":[]}`, 2, nil)
	require.NoError(t, err)
	draft.IsActive = true

	repo := new(MockPageVersionRepository)
	repo.On("FindActiveByOwner", mock.Anything, userID, storeID).Return(draft, nil)

	h := newPageVersionTestHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = authedRequest(http.MethodGet, "/api/v1/pages/active", nil, storeID, userID)

	h.ActiveVersion(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp httpdto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["version_number"])
	repo.AssertExpectations(t)
}
