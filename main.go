package main

import (
	"log"

	"content-ai/composer"
	"content-ai/controllers"
	"content-ai/helpers"
	"content-ai/tasks"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

var app *pocketbase.PocketBase

func main() {
	var cfg *helpers.Config
	var err error
	app, cfg, err = helpers.CreateApp()
	if err != nil {
		log.Fatal(err)
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		generator := tasks.NewGenerator(cfg.GenerateURL, cfg.GenerateTimeout, app.Logger())
		comp := composer.New(composer.Options{
			Generator: generator,
			Clipboard: tasks.SystemClipboard{},
			Opener:    tasks.BrowserOpener{},
			ShareBase: cfg.ShareURL,
			Logger:    app.Logger(),
		})

		controllers.SetupComposerRoutes(se, comp)
		controllers.SetupPingRoutes(se)

		if cfg.ProbeSchedule != "" {
			go controllers.ProbeGenerationService(app, generator, comp)
			app.Cron().MustAdd("Probe Generation Service", cfg.ProbeSchedule, func() {
				controllers.ProbeGenerationService(app, generator, comp)
			})
		}

		app.Logger().Info("Composer ready", "generateURL", cfg.GenerateURL)
		return se.Next()
	})

	if err = app.Start(); err != nil {
		log.Fatal(err)
	}
}
