package plugin

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstallation(t *testing.T) *Installation {
	t.Helper()
	installation, err := NewInstallation(uuid.New(), uuid.New(), "reviews-widget", "Reviews Widget", "1.2.0", decimal.RequireFromString("9.99"))
	require.NoError(t, err)
	return installation
}

func TestNewInstallation(t *testing.T) {
	t.Run("records install", func(t *testing.T) {
		storeID := uuid.New()
		userID := uuid.New()

		installation, err := NewInstallation(storeID, userID, " Reviews-Widget ", "Reviews Widget", "1.2.0", decimal.RequireFromString("9.99"))

		require.NoError(t, err)
		assert.Equal(t, "reviews-widget", installation.Slug)
		assert.Equal(t, InstallationStatusInstalled, installation.Status)
		assert.Equal(t, userID, installation.InstalledBy)
		assert.False(t, installation.IsFree())
		assert.False(t, installation.IsEnabled())
	})

	t.Run("zero price is free", func(t *testing.T) {
		installation, err := NewInstallation(uuid.New(), uuid.New(), "free-badge", "Free Badge", "0.1.0", decimal.Zero)

		require.NoError(t, err)
		assert.True(t, installation.IsFree())
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewInstallation(uuid.New(), uuid.New(), "bad", "Bad", "1.0.0", decimal.RequireFromString("-1"))
		assert.Error(t, err)
	})

	t.Run("rejects empty slug", func(t *testing.T) {
		_, err := NewInstallation(uuid.New(), uuid.New(), "  ", "Name", "1.0.0", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty version", func(t *testing.T) {
		_, err := NewInstallation(uuid.New(), uuid.New(), "slug", "Name", "", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestInstallation_Lifecycle(t *testing.T) {
	t.Run("enable disable enable", func(t *testing.T) {
		installation := newInstallation(t)

		require.NoError(t, installation.Enable())
		assert.True(t, installation.IsEnabled())
		assert.NotNil(t, installation.EnabledAt)

		require.NoError(t, installation.Disable())
		assert.Equal(t, InstallationStatusDisabled, installation.Status)

		require.NoError(t, installation.Enable())
		assert.True(t, installation.IsEnabled())
	})

	t.Run("disable requires enabled", func(t *testing.T) {
		installation := newInstallation(t)
		assert.Error(t, installation.Disable())
	})

	t.Run("uninstall is terminal", func(t *testing.T) {
		installation := newInstallation(t)
		require.NoError(t, installation.Enable())

		require.NoError(t, installation.Uninstall())
		assert.Equal(t, InstallationStatusUninstalled, installation.Status)
		assert.NotNil(t, installation.UninstalledAt)

		assert.Error(t, installation.Enable())
		assert.Error(t, installation.Disable())
		assert.Error(t, installation.Uninstall())
	})
}

func TestInstallation_UpgradeTo(t *testing.T) {
	t.Run("upgrades live plugin", func(t *testing.T) {
		installation := newInstallation(t)
		require.NoError(t, installation.Enable())

		require.NoError(t, installation.UpgradeTo("1.3.0"))
		assert.Equal(t, "1.3.0", installation.Version)
	})

	t.Run("rejects upgrade after uninstall", func(t *testing.T) {
		installation := newInstallation(t)
		require.NoError(t, installation.Uninstall())

		assert.Error(t, installation.UpgradeTo("1.3.0"))
	})

	t.Run("rejects empty version", func(t *testing.T) {
		installation := newInstallation(t)
		assert.Error(t, installation.UpgradeTo(""))
	})
}
