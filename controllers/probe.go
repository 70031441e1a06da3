package controllers

import (
	"context"
	"time"

	"content-ai/composer"

	"github.com/pocketbase/pocketbase/core"
)

type Prober interface {
	Probe(ctx context.Context) error
}

// ProbeGenerationService checks whether the generation service answers and
// records the result for the page.
func ProbeGenerationService(app core.App, prober Prober, comp *composer.Composer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := prober.Probe(ctx)
	if err != nil {
		app.Logger().Warn("Generation service is not reachable", "error", err)
		comp.SetServiceReachable(false)
		return
	}

	app.Logger().Debug("Generation service is reachable")
	comp.SetServiceReachable(true)
}
