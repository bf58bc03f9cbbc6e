package services

import (
	"fmt"

	"github.com/TheLustriVA/Croissant-TOML/internal/core/domain"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driven"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Stored values of the wrong
// type or out of range fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Output: domain.OutputSettings{
			Indent: s.getIndent(defaults.Output.Indent),
		},
		Render: domain.RenderSettings{
			Comments: s.getBool(domain.SettingRenderComments, defaults.Render.Comments),
			Header:   s.getBool(domain.SettingRenderHeader, defaults.Render.Header),
		},
		Validate: domain.ValidateSettings{
			Strict: s.getBool(domain.SettingValidateStrict, defaults.Validate.Strict),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}

	values := []struct {
		key   domain.SettingKey
		value any
	}{
		{domain.SettingOutputIndent, settings.Output.Indent},
		{domain.SettingRenderComments, settings.Render.Comments},
		{domain.SettingRenderHeader, settings.Render.Header},
		{domain.SettingValidateStrict, settings.Validate.Strict},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key.String(), v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses raw for key and persists the result.
func (s *SettingsService) Set(key domain.SettingKey, raw string) error {
	if !key.IsValid() {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Apply(key, raw); err != nil {
		return err
	}

	var value any
	switch key {
	case domain.SettingOutputIndent:
		value = settings.Output.Indent
	case domain.SettingRenderComments:
		value = settings.Render.Comments
	case domain.SettingRenderHeader:
		value = settings.Render.Header
	default:
		value = settings.Validate.Strict
	}
	if err := s.configStore.Set(key.String(), value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) getBool(key domain.SettingKey, defaultVal bool) bool {
	val, exists := s.configStore.Get(key.String())
	if !exists {
		return defaultVal
	}
	if _, ok := val.(bool); !ok {
		return defaultVal
	}
	return s.configStore.GetBool(key.String())
}

func (s *SettingsService) getIndent(defaultVal int) int {
	val, exists := s.configStore.Get(domain.SettingOutputIndent.String())
	if !exists {
		return defaultVal
	}
	switch val.(type) {
	case int, int64:
	default:
		return defaultVal
	}
	n := s.configStore.GetInt(domain.SettingOutputIndent.String())
	if n < 0 || n > 8 {
		return defaultVal
	}
	return n
}
