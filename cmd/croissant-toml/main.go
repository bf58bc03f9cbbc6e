// Command croissant-toml converts Croissant dataset metadata between
// JSON-LD and commented TOML.
package main

import (
	"fmt"
	"os"

	"github.com/TheLustriVA/Croissant-TOML/internal/adapters/driven/config/file"
	"github.com/TheLustriVA/Croissant-TOML/internal/adapters/driving/cli"
	"github.com/TheLustriVA/Croissant-TOML/internal/catalog"
	"github.com/TheLustriVA/Croissant-TOML/internal/core/services"
	"github.com/TheLustriVA/Croissant-TOML/internal/mapper"
	"github.com/TheLustriVA/Croissant-TOML/internal/normalisers/jsonld"
	"github.com/TheLustriVA/Croissant-TOML/internal/renderer"
	"github.com/TheLustriVA/Croissant-TOML/internal/textparser"
	"github.com/TheLustriVA/Croissant-TOML/internal/validator"
)

func main() {
	os.Exit(cli.Execute(build))
}

// build wires the driven adapters into the core services.
func build(configDir string) (*cli.Services, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cat := catalog.Default()
	v, err := validator.New(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to compile validation schema: %w", err)
	}

	conversionService := services.NewConversionService(
		jsonld.New(cat),
		renderer.New(cat,
			renderer.WithComments(settings.Render.Comments),
			renderer.WithHeader(settings.Render.Header),
		),
		textparser.New(),
		v,
		mapper.New(cat),
		*settings,
	)

	return &cli.Services{
		Conversion: conversionService,
		Settings:   settingsService,
		ConfigPath: store.Path(),
	}, nil
}
