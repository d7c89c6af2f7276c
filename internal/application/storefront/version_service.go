package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// maxVersionNumberAttempts bounds the recompute-and-retry loop when two
// writers race for the same version number in one scope. The unique index
// on (store_id, page_type, version_number) turns the loser's insert into a
// conflict instead of a silent duplicate.
const maxVersionNumberAttempts = 3

// PublishedConfigCache caches the live published configuration per
// (store, page type) scope so storefront reads skip the database.
type PublishedConfigCache interface {
	Get(ctx context.Context, storeID uuid.UUID, pageType string) (string, error)
	Set(ctx context.Context, storeID uuid.UUID, pageType string, configuration string) error
	Delete(ctx context.Context, storeID uuid.UUID, pageType string) error
}

// ErrCacheMiss is returned by PublishedConfigCache implementations when no
// entry exists for the scope
var ErrCacheMiss = errors.New("storefront: published config cache miss")

// VersionService drives the page-version lifecycle: draft upserts,
// promotion through acceptance to production, reverts, and the
// current-edit bookkeeping used by the editor.
type VersionService struct {
	versions       storefront.PageVersionRepository
	cache          PublishedConfigCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewVersionService creates a new VersionService. The cache may be nil;
// publishing then simply always hits the database on read.
func NewVersionService(versions storefront.PageVersionRepository, cache PublishedConfigCache, logger *zap.Logger) *VersionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionService{
		versions: versions,
		cache:    cache,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VersionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishDomainEvents publishes all domain events raised by the version
func (s *VersionService) publishDomainEvents(ctx context.Context, version *storefront.PageVersion) {
	if s.eventPublisher == nil {
		return
	}
	events := version.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = s.eventPublisher.Publish(ctx, events...)
	version.ClearDomainEvents()
}

// UpsertDraft returns the owner's existing draft for the scope, updating
// its configuration when one was supplied, or creates a new draft seeded
// from the supplied configuration, the latest published version, or the
// baseline default, in that order.
func (s *VersionService) UpsertDraft(ctx context.Context, req UpsertDraftRequest) (*PageVersionResponse, error) {
	existing, err := s.versions.FindDraftByOwner(ctx, req.UserID, req.StoreID, req.PageType)
	if err == nil {
		if len(req.Configuration) > 0 {
			if err := existing.UpdateConfiguration(string(req.Configuration)); err != nil {
				return nil, err
			}
		} else {
			existing.Touch()
		}
		if err := s.versions.Save(ctx, existing); err != nil {
			return nil, err
		}
		return ToPageVersionResponse(existing), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	configuration, parentID, err := s.resolveBaseConfiguration(ctx, req)
	if err != nil {
		return nil, err
	}

	var draft *storefront.PageVersion
	for attempt := 0; attempt < maxVersionNumberAttempts; attempt++ {
		max, err := s.versions.MaxVersionNumber(ctx, req.StoreID, req.PageType)
		if err != nil {
			return nil, err
		}

		draft, err = storefront.NewDraft(req.UserID, req.StoreID, req.PageType, configuration, max+1, parentID)
		if err != nil {
			return nil, err
		}

		err = s.versions.Create(ctx, draft)
		if err == nil {
			s.publishDomainEvents(ctx, draft)
			return ToPageVersionResponse(draft), nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		s.logger.Warn("version number conflict on draft insert, recomputing",
			zap.String("store_id", req.StoreID.String()),
			zap.String("page_type", req.PageType),
			zap.Int("version_number", max+1),
		)
	}

	return nil, shared.ErrConcurrencyConflict
}

// resolveBaseConfiguration picks the configuration a brand-new draft
// starts from and the published version it descends from, if any.
func (s *VersionService) resolveBaseConfiguration(ctx context.Context, req UpsertDraftRequest) (string, *uuid.UUID, error) {
	latest, err := s.versions.FindLatestByStatus(ctx, req.StoreID, req.PageType, storefront.VersionStatusPublished)
	switch {
	case err == nil:
		if len(req.Configuration) > 0 {
			return string(req.Configuration), &latest.ID, nil
		}
		return latest.Configuration, &latest.ID, nil
	case errors.Is(err, shared.ErrNotFound):
		if len(req.Configuration) > 0 {
			return string(req.Configuration), nil, nil
		}
		configuration, err := storefront.DefaultConfiguration(req.PageType)
		if err != nil {
			return "", nil, err
		}
		return configuration, nil, nil
	default:
		return "", nil, err
	}
}

// PublishToAcceptance promotes a draft to the acceptance (preview) stage
func (s *VersionService) PublishToAcceptance(ctx context.Context, storeID, draftID, publishedBy uuid.UUID) (*PageVersionResponse, error) {
	version, err := s.versions.FindByIDForStore(ctx, storeID, draftID)
	if err != nil {
		return nil, err
	}

	if err := version.PublishToAcceptance(publishedBy); err != nil {
		return nil, err
	}

	if err := s.versions.Save(ctx, version); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, version)

	return ToPageVersionResponse(version), nil
}

// PublishToProduction promotes an acceptance version to production
func (s *VersionService) PublishToProduction(ctx context.Context, storeID, acceptanceID, publishedBy uuid.UUID) (*PageVersionResponse, error) {
	version, err := s.versions.FindByIDForStore(ctx, storeID, acceptanceID)
	if err != nil {
		return nil, err
	}

	if err := version.PublishToProduction(publishedBy); err != nil {
		return nil, err
	}

	if err := s.versions.Save(ctx, version); err != nil {
		return nil, err
	}

	s.cachePublished(ctx, version)
	s.publishDomainEvents(ctx, version)

	return ToPageVersionResponse(version), nil
}

// PublishDraft promotes a draft straight to production, bypassing
// acceptance. Legacy path for stores without a preview environment.
func (s *VersionService) PublishDraft(ctx context.Context, storeID, draftID, publishedBy uuid.UUID) (*PageVersionResponse, error) {
	version, err := s.versions.FindByIDForStore(ctx, storeID, draftID)
	if err != nil {
		return nil, err
	}

	if err := version.PublishDirect(publishedBy); err != nil {
		return nil, err
	}

	if err := s.versions.Save(ctx, version); err != nil {
		return nil, err
	}

	s.cachePublished(ctx, version)
	s.publishDomainEvents(ctx, version)

	return ToPageVersionResponse(version), nil
}

// RevertToVersion creates a new published version copying the target's
// configuration and atomically marks every intervening published or
// acceptance version as reverted. The target itself is never mutated.
func (s *VersionService) RevertToVersion(ctx context.Context, req RevertRequest) (*PageVersionResponse, error) {
	target, err := s.versions.FindByIDForStore(ctx, req.StoreID, req.VersionID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxVersionNumberAttempts; attempt++ {
		max, err := s.versions.MaxVersionNumber(ctx, req.StoreID, target.PageType)
		if err != nil {
			return nil, err
		}

		revision, err := storefront.NewRevision(target, max+1, req.UserID)
		if err != nil {
			return nil, err
		}

		err = s.versions.CreateRevision(ctx, revision, target.VersionNumber)
		if err == nil {
			s.cachePublished(ctx, revision)
			s.publishDomainEvents(ctx, revision)
			return ToPageVersionResponse(revision), nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
	}

	return nil, shared.ErrConcurrencyConflict
}

// SetCurrentEdit marks a version as the one currently being edited for a
// (user, store, page type) triple; any previous mark in the triple is
// cleared in the same transaction.
func (s *VersionService) SetCurrentEdit(ctx context.Context, req SetCurrentEditRequest) error {
	return s.versions.SetCurrentEdit(ctx, req.UserID, req.StoreID, req.PageType, req.VersionID)
}

// GetActiveVersion returns the caller's most recently touched active
// version so the editor can resume where it left off. Relies on the
// legacy is_active flag, which publishes set and supersedes clear.
func (s *VersionService) GetActiveVersion(ctx context.Context, userID, storeID uuid.UUID) (*PageVersionResponse, error) {
	version, err := s.versions.FindActiveByOwner(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return ToPageVersionResponse(version), nil
}

// GetVersion retrieves a single version within a store
func (s *VersionService) GetVersion(ctx context.Context, storeID, id uuid.UUID) (*PageVersionResponse, error) {
	version, err := s.versions.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return ToPageVersionResponse(version), nil
}

// GetVersionHistory returns published versions for a scope, newest first
func (s *VersionService) GetVersionHistory(ctx context.Context, storeID uuid.UUID, filter VersionHistoryFilter) ([]VersionHistoryEntry, error) {
	versions, err := s.versions.VersionHistory(ctx, storeID, filter.PageType, filter.Limit)
	if err != nil {
		return nil, err
	}

	entries := make([]VersionHistoryEntry, 0, len(versions))
	for i := range versions {
		entries = append(entries, ToVersionHistoryEntry(&versions[i]))
	}
	return entries, nil
}

// GetPublishedConfiguration returns the live configuration for a scope,
// serving from the cache when possible
func (s *VersionService) GetPublishedConfiguration(ctx context.Context, storeID uuid.UUID, pageType string) (string, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, storeID, pageType)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("published config cache read failed",
				zap.String("store_id", storeID.String()),
				zap.String("page_type", pageType),
				zap.Error(err),
			)
		}
	}

	version, err := s.versions.FindLatestByStatus(ctx, storeID, pageType, storefront.VersionStatusPublished)
	if err != nil {
		return "", err
	}

	s.cachePublished(ctx, version)

	return version.Configuration, nil
}

// cachePublished is best effort: a cache failure never fails the write
// that triggered it.
func (s *VersionService) cachePublished(ctx context.Context, version *storefront.PageVersion) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, version.StoreID, version.PageType, version.Configuration); err != nil {
		s.logger.Warn("published config cache write failed",
			zap.String("store_id", version.StoreID.String()),
			zap.String("page_type", version.PageType),
			zap.Error(err),
		)
	}
}
