package plugin

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// InstallationStatus represents the state of a plugin installation
type InstallationStatus string

const (
	InstallationStatusInstalled   InstallationStatus = "installed"
	InstallationStatusEnabled     InstallationStatus = "enabled"
	InstallationStatusDisabled    InstallationStatus = "disabled"
	InstallationStatusUninstalled InstallationStatus = "uninstalled"
)

// Installation records a marketplace plugin installed into a store.
// Only the install record is managed here; plugins do not execute inside
// this service.
type Installation struct {
	shared.StoreAggregateRoot
	Slug          string             `gorm:"type:varchar(80);not null;uniqueIndex:idx_plugin_installations_store_slug,priority:2"`
	Name          string             `gorm:"type:varchar(120);not null"`
	Version       string             `gorm:"type:varchar(20);not null"`
	Price         decimal.Decimal    `gorm:"type:numeric(10,2);not null;default:0"`
	Status        InstallationStatus `gorm:"type:varchar(20);not null;default:'installed'"`
	InstalledBy   uuid.UUID          `gorm:"type:uuid;not null"`
	EnabledAt     *time.Time
	UninstalledAt *time.Time
}

// TableName returns the table name for GORM
func (Installation) TableName() string {
	return "plugin_installations"
}

// NewInstallation records a plugin install into a store
func NewInstallation(storeID, installedBy uuid.UUID, slug, name, version string, price decimal.Decimal) (*Installation, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || len(slug) > 80 {
		return nil, shared.NewDomainError("INVALID_SLUG", "Plugin slug must be 1-80 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Plugin name cannot be empty")
	}
	if version == "" {
		return nil, shared.NewDomainError("INVALID_VERSION", "Plugin version cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Plugin price cannot be negative")
	}

	return &Installation{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Slug:               slug,
		Name:               name,
		Version:            version,
		Price:              price,
		Status:             InstallationStatusInstalled,
		InstalledBy:        installedBy,
	}, nil
}

// Enable turns the plugin on for the storefront
func (i *Installation) Enable() error {
	if i.Status != InstallationStatusInstalled && i.Status != InstallationStatusDisabled {
		return shared.NewDomainError("INVALID_STATE", "Only installed or disabled plugins can be enabled")
	}

	now := time.Now()
	i.Status = InstallationStatusEnabled
	i.EnabledAt = &now
	i.UpdatedAt = now

	return nil
}

// Disable turns the plugin off without removing it
func (i *Installation) Disable() error {
	if i.Status != InstallationStatusEnabled {
		return shared.NewDomainError("INVALID_STATE", "Only enabled plugins can be disabled")
	}

	i.Status = InstallationStatusDisabled
	i.UpdatedAt = time.Now()

	return nil
}

// Uninstall removes the plugin from the store. Uninstalled is terminal;
// reinstalling creates a new record.
func (i *Installation) Uninstall() error {
	if i.Status == InstallationStatusUninstalled {
		return shared.NewDomainError("INVALID_STATE", "Plugin is already uninstalled")
	}

	now := time.Now()
	i.Status = InstallationStatusUninstalled
	i.UninstalledAt = &now
	i.UpdatedAt = now

	return nil
}

// UpgradeTo bumps the installed version. Uninstalled plugins cannot upgrade.
func (i *Installation) UpgradeTo(version string) error {
	if version == "" {
		return shared.NewDomainError("INVALID_VERSION", "Plugin version cannot be empty")
	}
	if i.Status == InstallationStatusUninstalled {
		return shared.NewDomainError("INVALID_STATE", "Uninstalled plugins cannot be upgraded")
	}

	i.Version = version
	i.UpdatedAt = time.Now()

	return nil
}

// IsEnabled returns true if the plugin is live on the storefront
func (i *Installation) IsEnabled() bool {
	return i.Status == InstallationStatusEnabled
}

// IsFree returns true for zero-priced plugins
func (i *Installation) IsFree() bool {
	return i.Price.IsZero()
}
