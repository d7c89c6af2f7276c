package plugin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/plugin"
	"github.com/storefront/backend/internal/domain/shared"
)

// InstallationService manages marketplace plugin installs for a store
type InstallationService struct {
	installations plugin.InstallationRepository
}

// NewInstallationService creates a new InstallationService
func NewInstallationService(installations plugin.InstallationRepository) *InstallationService {
	return &InstallationService{installations: installations}
}

// Install records a plugin install. Reinstalling an uninstalled plugin
// creates a fresh record; an active install blocks a duplicate.
func (s *InstallationService) Install(ctx context.Context, storeID, userID uuid.UUID, req InstallPluginRequest) (*InstallationResponse, error) {
	existing, err := s.installations.FindBySlug(ctx, storeID, req.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status != plugin.InstallationStatusUninstalled {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Plugin is already installed")
	}

	installation, err := plugin.NewInstallation(storeID, userID, req.Slug, req.Name, req.Version, req.Price)
	if err != nil {
		return nil, err
	}

	if err := s.installations.Save(ctx, installation); err != nil {
		return nil, err
	}

	return ToInstallationResponse(installation), nil
}

// Enable turns an installed plugin on
func (s *InstallationService) Enable(ctx context.Context, storeID, installationID uuid.UUID) (*InstallationResponse, error) {
	return s.transition(ctx, storeID, installationID, (*plugin.Installation).Enable)
}

// Disable turns an enabled plugin off
func (s *InstallationService) Disable(ctx context.Context, storeID, installationID uuid.UUID) (*InstallationResponse, error) {
	return s.transition(ctx, storeID, installationID, (*plugin.Installation).Disable)
}

// Uninstall removes a plugin from the store
func (s *InstallationService) Uninstall(ctx context.Context, storeID, installationID uuid.UUID) (*InstallationResponse, error) {
	return s.transition(ctx, storeID, installationID, (*plugin.Installation).Uninstall)
}

func (s *InstallationService) transition(ctx context.Context, storeID, installationID uuid.UUID, apply func(*plugin.Installation) error) (*InstallationResponse, error) {
	installation, err := s.installations.FindByID(ctx, storeID, installationID)
	if err != nil {
		return nil, err
	}

	if err := apply(installation); err != nil {
		return nil, err
	}

	if err := s.installations.Save(ctx, installation); err != nil {
		return nil, err
	}

	return ToInstallationResponse(installation), nil
}

// Upgrade bumps the installed version
func (s *InstallationService) Upgrade(ctx context.Context, storeID, installationID uuid.UUID, req UpgradePluginRequest) (*InstallationResponse, error) {
	installation, err := s.installations.FindByID(ctx, storeID, installationID)
	if err != nil {
		return nil, err
	}

	if err := installation.UpgradeTo(req.Version); err != nil {
		return nil, err
	}

	if err := s.installations.Save(ctx, installation); err != nil {
		return nil, err
	}

	return ToInstallationResponse(installation), nil
}

// Get retrieves a single installation
func (s *InstallationService) Get(ctx context.Context, storeID, installationID uuid.UUID) (*InstallationResponse, error) {
	installation, err := s.installations.FindByID(ctx, storeID, installationID)
	if err != nil {
		return nil, err
	}
	return ToInstallationResponse(installation), nil
}

// List returns installations for the store, optionally only enabled ones
func (s *InstallationService) List(ctx context.Context, storeID uuid.UUID, enabledOnly bool) ([]InstallationResponse, error) {
	var (
		installations []plugin.Installation
		err           error
	)
	if enabledOnly {
		installations, err = s.installations.FindEnabled(ctx, storeID)
	} else {
		installations, err = s.installations.FindAll(ctx, storeID)
	}
	if err != nil {
		return nil, err
	}

	responses := make([]InstallationResponse, 0, len(installations))
	for i := range installations {
		responses = append(responses, *ToInstallationResponse(&installations[i]))
	}
	return responses, nil
}
