package plugin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/plugin"
)

// InstallPluginRequest is the input for installing a marketplace plugin
type InstallPluginRequest struct {
	Slug    string          `json:"slug" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	Version string          `json:"version" binding:"required"`
	Price   decimal.Decimal `json:"price"`
}

// UpgradePluginRequest is the input for upgrading an installed plugin
type UpgradePluginRequest struct {
	Version string `json:"version" binding:"required"`
}

// InstallationResponse is the API representation of an installation
type InstallationResponse struct {
	ID            uuid.UUID       `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Version       string          `json:"version"`
	Price         decimal.Decimal `json:"price"`
	Status        string          `json:"status"`
	InstalledBy   uuid.UUID       `json:"installed_by"`
	EnabledAt     *time.Time      `json:"enabled_at,omitempty"`
	UninstalledAt *time.Time      `json:"uninstalled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInstallationResponse converts a domain installation to its API representation
func ToInstallationResponse(installation *plugin.Installation) *InstallationResponse {
	return &InstallationResponse{
		ID:            installation.ID,
		Slug:          installation.Slug,
		Name:          installation.Name,
		Version:       installation.Version,
		Price:         installation.Price,
		Status:        string(installation.Status),
		InstalledBy:   installation.InstalledBy,
		EnabledAt:     installation.EnabledAt,
		UninstalledAt: installation.UninstalledAt,
		CreatedAt:     installation.CreatedAt,
		UpdatedAt:     installation.UpdatedAt,
	}
}
