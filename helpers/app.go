package helpers

import (
	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
)

// CreateApp builds the PocketBase app and the composer config bound to its
// command line. Values from .env are loaded first so they act as defaults.
func CreateApp() (*pocketbase.PocketBase, *Config, error) {
	godotenv.Load()

	app := pocketbase.NewWithConfig(pocketbase.Config{
		HideStartBanner: false,
	})

	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.BindFlags(app.RootCmd)

	return app, cfg, nil
}
