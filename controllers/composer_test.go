package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"content-ai/composer"
	"content-ai/models"
	"content-ai/tasks"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generatorStub struct {
	calls   []models.GenerateRequest
	content string
	err     error
	// when set, Generate blocks until release is closed
	started chan struct{}
	release chan struct{}
}

func (g *generatorStub) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	g.calls = append(g.calls, req)
	if g.started != nil {
		close(g.started)
		<-g.release
	}
	return g.content, g.err
}

type clipboardStub struct {
	writes []string
}

func (c *clipboardStub) WriteText(text string) error {
	c.writes = append(c.writes, text)
	return nil
}

type openerStub struct {
	urls []string
	err  error
}

func (o *openerStub) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type composerHarness struct {
	handler   http.Handler
	comp      *composer.Composer
	generator *generatorStub
	clipboard *clipboardStub
	opener    *openerStub
}

func setupComposerHarness(t *testing.T) *composerHarness {
	t.Helper()

	app, err := tests.NewTestApp()
	require.NoError(t, err)
	t.Cleanup(app.Cleanup)

	h := &composerHarness{
		generator: &generatorStub{content: "Shipping beats perfect."},
		clipboard: &clipboardStub{},
		opener:    &openerStub{},
	}
	h.comp = composer.New(composer.Options{
		Generator: h.generator,
		Clipboard: h.clipboard,
		Opener:    h.opener,
		ShareBase: "https://www.linkedin.com/feed/?shareActive=true",
		Logger:    app.Logger(),
	})

	r, err := apis.NewRouter(app)
	require.NoError(t, err)
	se := &core.ServeEvent{App: app, Router: r}
	SetupComposerRoutes(se, h.comp)
	SetupPingRoutes(se)

	h.handler, err = r.BuildMux()
	require.NoError(t, err)
	return h
}

func (h *composerHarness) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp := httptest.NewRecorder()
	h.handler.ServeHTTP(resp, req)
	return resp
}

func (h *composerHarness) generate(t *testing.T, topic string) {
	t.Helper()
	resp := h.do(http.MethodPost, "/generate", url.Values{
		"post_type": {string(models.TechExplanation)},
		"topic":     {topic},
		"tone":      {string(models.Casual)},
	})
	require.Equal(t, http.StatusSeeOther, resp.Code)
	require.Equal(t, "/", resp.Header().Get("Location"))
}

const generateButtonDisabled = `id="generate" class="primary-btn" type="submit" disabled>`

func TestRenderComposerEmptyState(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "Content.AI")
	assert.Contains(t, body, "Viral LinkedIn Posts in Seconds")
	assert.Contains(t, body, "Your generated post will appear here...")
	assert.Contains(t, body, generateButtonDisabled)
	assert.NotContains(t, body, "Copy for LinkedIn")
	assert.NotContains(t, body, "Free plan includes branding.")
}

func TestGeneratePostRendersContent(t *testing.T) {
	h := setupComposerHarness(t)

	h.generate(t, "Why goroutines are cheap")

	require.Len(t, h.generator.calls, 1)
	assert.Equal(t, models.GenerateRequest{
		PostType: models.TechExplanation,
		Topic:    "Why goroutines are cheap",
		Tone:     models.Casual,
	}, h.generator.calls[0])

	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Shipping beats perfect.")
	assert.Contains(t, body, "Optimized for LinkedIn feed visibility")
	assert.Contains(t, body, "Copy for LinkedIn")
	assert.Contains(t, body, "Try another version")
	assert.Contains(t, body, "Free plan includes branding.")
	assert.NotContains(t, body, generateButtonDisabled)
	assert.NotContains(t, body, "Your generated post will appear here...")
}

func TestGeneratePostWithEmptyTopicSkipsNetwork(t *testing.T) {
	h := setupComposerHarness(t)

	h.generate(t, "")

	assert.Empty(t, h.generator.calls)
	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "topic is required")
	assert.Contains(t, body, generateButtonDisabled)
}

func TestGeneratePostRejectsUnknownTone(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodPost, "/generate", url.Values{
		"post_type": {string(models.PersonalStory)},
		"topic":     {"x"},
		"tone":      {"Furious"},
	})

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Empty(t, h.generator.calls)
	assert.Equal(t, "", h.comp.State().Topic)
}

func TestGeneratePostServiceErrorKeepsContent(t *testing.T) {
	h := setupComposerHarness(t)
	h.generate(t, "first")

	h.generator.err = &tasks.ServiceError{StatusCode: http.StatusUnprocessableEntity, Status: "422 Unprocessable Entity", Detail: "bad topic"}
	h.generate(t, "second")

	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Error: bad topic")
	assert.Contains(t, body, "Shipping beats perfect.")

	// the notice is shown once
	body = h.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "bad topic")
}

func TestGeneratePostTransportError(t *testing.T) {
	h := setupComposerHarness(t)
	h.generator.err = &tasks.TransportError{Err: errors.New("Failed to fetch")}

	h.generate(t, "topic")

	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Failed to fetch")
	assert.Contains(t, body, "Your generated post will appear here...")
}

func TestRegeneratePost(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodPost, "/regenerate", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Empty(t, h.generator.calls)

	h.generate(t, "topic")
	h.generator.content = "Another take."
	resp = h.do(http.MethodPost, "/regenerate", url.Values{})

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	require.Len(t, h.generator.calls, 2)
	assert.Equal(t, h.generator.calls[0], h.generator.calls[1])
	assert.Equal(t, "Another take.", h.comp.State().Content)
}

func TestCopyPost(t *testing.T) {
	h := setupComposerHarness(t)

	h.do(http.MethodPost, "/copy", url.Values{})
	assert.Empty(t, h.clipboard.writes)

	h.generate(t, "topic")
	resp := h.do(http.MethodPost, "/copy", url.Values{})

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, []string{"Shipping beats perfect."}, h.clipboard.writes)
	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, "Copied to clipboard! Ready to paste on LinkedIn.")
}

const sharedPostURL = "https://www.linkedin.com/feed/?shareActive=true&text=Shipping%20beats%20perfect."

func TestSharePost(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodPost, "/share", url.Values{})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "/", resp.Header().Get("Location"))

	h.generate(t, "topic")
	resp = h.do(http.MethodPost, "/share", url.Values{})

	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, sharedPostURL, resp.Header().Get("Location"))
	assert.Empty(t, h.opener.urls)
}

func TestShareFormTargetsNewWindow(t *testing.T) {
	h := setupComposerHarness(t)
	h.generate(t, "topic")

	body := h.do(http.MethodGet, "/", nil).Body.String()

	assert.Contains(t, body, `<form method="post" action="/share" target="_blank"`)
}

func TestOpenShareWindow(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodPost, "/api/v1/composer/share", nil)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Empty(t, h.opener.urls)

	h.generate(t, "topic")
	resp = h.do(http.MethodPost, "/api/v1/composer/share", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"share_url":"`)
	assert.Equal(t, []string{sharedPostURL}, h.opener.urls)
}

func TestOpenShareWindowWithoutBrowser(t *testing.T) {
	h := setupComposerHarness(t)
	h.opener.err = errors.New("no browser")
	h.generate(t, "topic")

	resp := h.do(http.MethodPost, "/api/v1/composer/share", nil)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), "Failed to open a browser window")
}

func TestRenderComposerWhileLoading(t *testing.T) {
	h := setupComposerHarness(t)
	h.generator.started = make(chan struct{})
	h.generator.release = make(chan struct{})

	done := make(chan int, 1)
	go func() {
		resp := h.do(http.MethodPost, "/generate", url.Values{
			"post_type": {string(models.PersonalStory)},
			"topic":     {"first"},
			"tone":      {string(models.Professional)},
		})
		done <- resp.Code
	}()
	<-h.generator.started

	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.Contains(t, body, `<meta http-equiv="refresh" content="2">`)
	assert.Contains(t, body, "Generating...")
	assert.Contains(t, body, generateButtonDisabled)

	// a second submit while loading keeps the fields of the running request
	resp := h.do(http.MethodPost, "/generate", url.Values{
		"post_type": {string(models.HiringPost)},
		"topic":     {"second"},
		"tone":      {string(models.Bold)},
	})
	assert.Equal(t, http.StatusSeeOther, resp.Code)
	assert.Equal(t, "first", h.comp.State().Topic)

	close(h.generator.release)
	assert.Equal(t, http.StatusSeeOther, <-done)

	body = h.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, `http-equiv="refresh"`)
	assert.NotContains(t, body, generateButtonDisabled)
	assert.Contains(t, body, "a generation is already in progress")
	assert.Len(t, h.generator.calls, 1)
}

func TestProModeRemovesBranding(t *testing.T) {
	h := setupComposerHarness(t)
	h.generate(t, "topic")

	resp := h.do(http.MethodPost, "/pro", url.Values{"is_pro": {"true"}})
	require.Equal(t, http.StatusSeeOther, resp.Code)

	body := h.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "Free plan includes branding.")
	assert.Contains(t, body, "Shipping beats perfect.")
	assert.Contains(t, body, "Pro Mode 💎")

	h.do(http.MethodPost, "/pro", url.Values{})
	assert.False(t, h.comp.State().IsPro)
}

func TestComposerStatus(t *testing.T) {
	h := setupComposerHarness(t)
	h.generate(t, "topic")

	resp := h.do(http.MethodGet, "/api/v1/composer", nil)

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Status bool           `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
	assert.Equal(t, "Tech explanation", envelope.Data["post_type"])
	assert.Equal(t, "Casual", envelope.Data["tone"])
	assert.Equal(t, "Shipping beats perfect.", envelope.Data["content"])
	assert.Equal(t, false, envelope.Data["loading"])
	assert.Equal(t, true, envelope.Data["can_submit"])
	assert.Equal(t, "https://www.linkedin.com/feed/?shareActive=true&text=Shipping%20beats%20perfect.", envelope.Data["share_url"])
}

func TestPing(t *testing.T) {
	h := setupComposerHarness(t)

	resp := h.do(http.MethodGet, "/api/v1/ping", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Ping success")
}
