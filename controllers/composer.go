package controllers

import (
	"context"
	"embed"
	"errors"
	"net/http"

	"content-ai/composer"
	"content-ai/helpers"
	"content-ai/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/template"
)

//go:embed views/composer.html
var views embed.FS

var registry = template.NewRegistry()

type composerPage struct {
	State     composer.State
	Notice    *composer.Notice
	PostTypes []models.PostType
	Tones     []models.Tone
}

type composerStatus struct {
	composer.State
	CanSubmit bool   `json:"can_submit"`
	ShareURL  string `json:"share_url,omitempty"`
}

func SetupComposerRoutes(se *core.ServeEvent, comp *composer.Composer) {
	se.Router.GET("/{$}", func(e *core.RequestEvent) error {
		return RenderComposer(e, comp)
	})
	se.Router.POST("/generate", func(e *core.RequestEvent) error {
		return GeneratePost(e, comp)
	})
	se.Router.POST("/regenerate", func(e *core.RequestEvent) error {
		return RegeneratePost(e, comp)
	})
	se.Router.POST("/copy", func(e *core.RequestEvent) error {
		return CopyPost(e, comp)
	})
	se.Router.POST("/share", func(e *core.RequestEvent) error {
		return SharePost(e, comp)
	})
	se.Router.POST("/pro", func(e *core.RequestEvent) error {
		return SetProMode(e, comp)
	})
	se.Router.GET("/api/v1/composer", func(e *core.RequestEvent) error {
		return ComposerStatus(e, comp)
	})
	se.Router.POST("/api/v1/composer/share", func(e *core.RequestEvent) error {
		return OpenShareWindow(e, comp)
	})
}

func RenderComposer(e *core.RequestEvent, comp *composer.Composer) error {
	html, err := registry.LoadFS(views, "views/composer.html").Render(composerPage{
		State:     comp.State(),
		Notice:    comp.TakeNotice(),
		PostTypes: models.PostTypes,
		Tones:     models.Tones,
	})
	if err != nil {
		e.App.Logger().Error("Failed to render composer page", "error", err)
		return e.String(http.StatusInternalServerError, "Failed to render page")
	}
	return e.HTML(http.StatusOK, html)
}

func GeneratePost(e *core.RequestEvent, comp *composer.Composer) error {
	postType := models.PostType(e.Request.FormValue("post_type"))
	tone := models.Tone(e.Request.FormValue("tone"))
	topic := e.Request.FormValue("topic")

	if err := comp.Update(postType, topic, tone); err != nil {
		e.App.Logger().Warn("Rejected composer form", "postType", postType, "tone", tone, "error", err)
		comp.Notify(composer.NoticeError, "Error: "+err.Error())
		return backToComposer(e)
	}

	return runGeneration(e, comp, comp.Generate)
}

func RegeneratePost(e *core.RequestEvent, comp *composer.Composer) error {
	return runGeneration(e, comp, comp.Regenerate)
}

// runGeneration detaches from the request context: closing the tab does not
// abort a generation that is already on its way.
func runGeneration(e *core.RequestEvent, comp *composer.Composer, generate func(context.Context) (composer.Result, error)) error {
	res, err := generate(context.WithoutCancel(e.Request.Context()))
	switch {
	case errors.Is(err, composer.ErrNoContent):
		// nothing to try again
	case err != nil:
		e.App.Logger().Debug("Generation not started", "error", err)
		comp.Notify(composer.NoticeError, "Error: "+err.Error())
	case res.Outcome == composer.Success:
		e.App.Logger().Info("Post generated", "length", len(res.Content))
	}
	return backToComposer(e)
}

func CopyPost(e *core.RequestEvent, comp *composer.Composer) error {
	if err := comp.CopyToClipboard(); err != nil && !errors.Is(err, composer.ErrNoContent) {
		e.App.Logger().Warn("Copy to clipboard failed", "error", err)
	}
	return backToComposer(e)
}

// SharePost answers the page's share form, which submits into a new
// window: that window is sent on to the share page.
func SharePost(e *core.RequestEvent, comp *composer.Composer) error {
	shareURL, err := comp.ShareURL()
	if errors.Is(err, composer.ErrNoContent) {
		return backToComposer(e)
	}
	if err != nil {
		e.App.Logger().Error("Failed to build share url", "error", err)
		comp.Notify(composer.NoticeError, "Error: "+err.Error())
		return backToComposer(e)
	}
	return e.Redirect(http.StatusSeeOther, shareURL)
}

// OpenShareWindow opens the share page in a new window of the browser on
// the machine running the composer.
func OpenShareWindow(e *core.RequestEvent, comp *composer.Composer) error {
	shareURL, err := comp.Share()
	switch {
	case errors.Is(err, composer.ErrNoContent):
		return helpers.Error(e, http.StatusConflict, err.Error())
	case err != nil && shareURL == "":
		return helpers.Error(e, http.StatusInternalServerError, err.Error())
	case err != nil:
		return helpers.Error(e, http.StatusBadGateway, "Failed to open a browser window, share url: "+shareURL)
	}
	return helpers.Success(e, "Share window opened", map[string]string{"share_url": shareURL})
}

func SetProMode(e *core.RequestEvent, comp *composer.Composer) error {
	comp.SetPro(e.Request.FormValue("is_pro") == "true")
	return backToComposer(e)
}

func ComposerStatus(e *core.RequestEvent, comp *composer.Composer) error {
	state := comp.State()
	status := composerStatus{State: state, CanSubmit: state.CanSubmit()}
	if state.HasContent() {
		shareURL, err := comp.ShareURL()
		if err != nil {
			return helpers.Error(e, http.StatusInternalServerError, err.Error())
		}
		status.ShareURL = shareURL
	}
	return helpers.Success(e, "", status)
}

func backToComposer(e *core.RequestEvent) error {
	return e.Redirect(http.StatusSeeOther, "/")
}
