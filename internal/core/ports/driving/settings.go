package driving

import "github.com/TheLustriVA/Croissant-TOML/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set parses and persists a single setting.
	Set(key domain.SettingKey, value string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
