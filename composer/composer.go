// Package composer holds the state of the post composer page and the
// operations the page triggers on it.
package composer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"content-ai/models"
	"content-ai/tasks"
)

var (
	ErrTopicRequired      = errors.New("topic is required")
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	ErrNoContent          = errors.New("nothing has been generated yet")
	ErrInvalidPostType    = errors.New("unknown post type")
	ErrInvalidTone        = errors.New("unknown tone")
)

const (
	copiedMessage        = "Copied to clipboard! Ready to paste on LinkedIn."
	defaultFailureNotice = "Failed to generate post"
)

type Generator interface {
	Generate(ctx context.Context, req models.GenerateRequest) (string, error)
}

type Clipboard interface {
	WriteText(text string) error
}

type Opener interface {
	Open(url string) error
}

// Outcome tags the result of a generation.
type Outcome int

const (
	Success Outcome = iota
	ServiceFailure
	TransportFailure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case ServiceFailure:
		return "service_error"
	case TransportFailure:
		return "transport_error"
	}
	return "unknown"
}

type Result struct {
	Outcome Outcome
	Content string
	Err     error
}

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a one-shot message shown to the user.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

type Reachability string

const (
	ReachabilityUnknown Reachability = "unknown"
	ReachabilityUp      Reachability = "up"
	ReachabilityDown    Reachability = "down"
)

// State is a snapshot of the composer.
type State struct {
	PostType models.PostType `json:"post_type"`
	Topic    string          `json:"topic"`
	Tone     models.Tone     `json:"tone"`
	IsPro    bool            `json:"is_pro"`
	Content  string          `json:"content"`
	Loading  bool            `json:"loading"`
	Service  Reachability    `json:"service"`
}

func (s State) HasContent() bool {
	return s.Content != ""
}

// CanSubmit reports whether the generate control is enabled.
func (s State) CanSubmit() bool {
	return !s.Loading && strings.TrimSpace(s.Topic) != ""
}

// ShowBranding reports whether the free plan branding notice is rendered.
func (s State) ShowBranding() bool {
	return s.HasContent() && !s.IsPro
}

type Options struct {
	Generator Generator
	Clipboard Clipboard
	Opener    Opener
	ShareBase string
	Logger    *slog.Logger
}

// Composer owns the composer state. All mutation goes through its methods;
// the lock is never held while talking to collaborators.
type Composer struct {
	mu     sync.Mutex
	state  State
	notice *Notice
	// request that produced state.Content
	last *models.GenerateRequest

	generator Generator
	clipboard Clipboard
	opener    Opener
	shareBase string
	logger    *slog.Logger
}

func New(opts Options) *Composer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{
		state: State{
			PostType: models.PersonalStory,
			Tone:     models.Professional,
			Service:  ReachabilityUnknown,
		},
		generator: opts.Generator,
		clipboard: opts.Clipboard,
		opener:    opts.Opener,
		shareBase: opts.ShareBase,
		logger:    logger,
	}
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update replaces the form fields. Nothing changes when a value is invalid
// or while a generation is in flight.
func (c *Composer) Update(postType models.PostType, topic string, tone models.Tone) error {
	if !postType.Valid() {
		return ErrInvalidPostType
	}
	if !tone.Valid() {
		return ErrInvalidTone
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return ErrGenerationInFlight
	}
	c.state.PostType = postType
	c.state.Topic = topic
	c.state.Tone = tone
	return nil
}

func (c *Composer) SetPro(isPro bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsPro = isPro
}

func (c *Composer) SetServiceReachable(ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok {
		c.state.Service = ReachabilityUp
	} else {
		c.state.Service = ReachabilityDown
	}
}

func (c *Composer) Notify(kind NoticeKind, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = &Notice{Kind: kind, Message: message}
}

// TakeNotice returns the pending notice, if any, and clears it.
func (c *Composer) TakeNotice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.notice
	c.notice = nil
	return n
}

// Generate sends the current form to the generation service. Precondition
// failures come back as the error; service and transport failures are
// reported in the Result and raise an error notice.
func (c *Composer) Generate(ctx context.Context) (Result, error) {
	req, err := c.begin(func() (models.GenerateRequest, error) {
		if strings.TrimSpace(c.state.Topic) == "" {
			return models.GenerateRequest{}, ErrTopicRequired
		}
		return models.GenerateRequest{
			PostType: c.state.PostType,
			Topic:    c.state.Topic,
			Tone:     c.state.Tone,
			IsPro:    c.state.IsPro,
		}, nil
	})
	if err != nil {
		return Result{}, err
	}
	return c.send(ctx, req), nil
}

// Regenerate is "try another version": the request that produced the
// current content is sent again. Pro is a local flag and follows its
// current value.
func (c *Composer) Regenerate(ctx context.Context) (Result, error) {
	req, err := c.begin(func() (models.GenerateRequest, error) {
		if c.last == nil {
			return models.GenerateRequest{}, ErrNoContent
		}
		req := *c.last
		req.IsPro = c.state.IsPro
		return req, nil
	})
	if err != nil {
		return Result{}, err
	}
	return c.send(ctx, req), nil
}

// begin builds the request under the lock and marks the composer loading.
func (c *Composer) begin(build func() (models.GenerateRequest, error)) (models.GenerateRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return models.GenerateRequest{}, ErrGenerationInFlight
	}
	req, err := build()
	if err != nil {
		return models.GenerateRequest{}, err
	}
	c.state.Loading = true
	return req, nil
}

func (c *Composer) send(ctx context.Context, req models.GenerateRequest) Result {
	content, err := c.generator.Generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if err == nil {
		c.state.Content = content
		c.last = &req
		return Result{Outcome: Success, Content: content}
	}

	res := Result{Outcome: TransportFailure, Err: err}
	message := "Error: " + err.Error() + ". Is the backend running?"

	var svcErr *tasks.ServiceError
	if errors.As(err, &svcErr) {
		res.Outcome = ServiceFailure
		detail := svcErr.Detail
		if detail == "" {
			detail = defaultFailureNotice
		}
		message = "Error: " + detail
	}

	c.notice = &Notice{Kind: NoticeError, Message: message}
	c.logger.Warn("Failed to generate post", "outcome", res.Outcome.String(), "postType", req.PostType, "tone", req.Tone, "error", err)
	return res
}

// CopyToClipboard puts the generated post on the clipboard. Without content
// nothing is written and ErrNoContent is returned.
func (c *Composer) CopyToClipboard() error {
	content := c.State().Content
	if content == "" {
		return ErrNoContent
	}

	if err := c.clipboard.WriteText(content); err != nil {
		c.logger.Error("Failed to write clipboard", "error", err)
		c.Notify(NoticeError, "Error: "+err.Error())
		return err
	}

	c.Notify(NoticeInfo, copiedMessage)
	return nil
}

// ShareURL builds the share link for the generated post.
func (c *Composer) ShareURL() (string, error) {
	content := c.State().Content
	if content == "" {
		return "", ErrNoContent
	}
	return tasks.ShareURL(c.shareBase, content)
}

// Share opens the share link in a new browser window and returns it.
func (c *Composer) Share() (string, error) {
	shareURL, err := c.ShareURL()
	if err != nil {
		return "", err
	}
	if c.opener == nil {
		return shareURL, nil
	}
	if err := c.opener.Open(shareURL); err != nil {
		c.logger.Warn("Failed to open share window", "error", err)
		return shareURL, err
	}
	return shareURL, nil
}
