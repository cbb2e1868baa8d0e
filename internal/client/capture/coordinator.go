// Package capture turns links handed over by the OS and video URLs found on
// the clipboard into quick-save requests.
//
// The Coordinator keeps at most one pending URL for a user who still has to
// sign in; a later detection replaces it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/bibliotube/internal/common"
	"github.com/dmitrijs2005/bibliotube/internal/logging"
)

// Navigator moves the user to the screens capture needs.
type Navigator interface {
	OpenQuickSave(ctx context.Context, videoURL string) error
	PromptLogin(ctx context.Context) error
}

// Confirmer asks the user whether a clipboard URL should be saved.
type Confirmer interface {
	Confirm(ctx context.Context, videoURL string) (bool, error)
}

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadText() (string, error)
}

// Identity resolves the signed-in user; common.ErrNoUser means nobody is.
type Identity interface {
	UserID() (string, error)
}

// Outcome says what a capture call did.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeOpened    Outcome = "opened"
	OutcomePending   Outcome = "pending"
)

type Coordinator struct {
	scheme    string
	nav       Navigator
	confirmer Confirmer
	clipboard Clipboard
	identity  Identity
	log       logging.Logger

	mu      sync.Mutex
	pending string
}

func NewCoordinator(scheme string, nav Navigator, confirmer Confirmer, clipboard Clipboard, identity Identity, log logging.Logger) *Coordinator {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Coordinator{
		scheme:    scheme,
		nav:       nav,
		confirmer: confirmer,
		clipboard: clipboard,
		identity:  identity,
		log:       log.With("module", "capture"),
	}
}

// HandleLink routes an OS-delivered link.
func (c *Coordinator) HandleLink(ctx context.Context, raw string) (Outcome, error) {
	cand, ok := ParseLink(raw, c.scheme)
	if !ok {
		return OutcomeIgnored, nil
	}
	c.log.Info(ctx, "link captured", "external", cand.External)
	return c.route(ctx, cand.URL)
}

// CheckClipboard reads the clipboard once and, for a video URL, asks for
// confirmation before routing it. Nothing is ever saved without a yes.
func (c *Coordinator) CheckClipboard(ctx context.Context) (Outcome, error) {
	if c.clipboard == nil {
		return OutcomeIgnored, nil
	}

	text, err := c.clipboard.ReadText()
	if err != nil {
		c.log.Warn(ctx, "clipboard read failed", "err", err)
		return OutcomeIgnored, nil
	}
	text = strings.TrimSpace(text)
	if !IsClipboardVideoURL(text) {
		return OutcomeIgnored, nil
	}

	ok, err := c.confirmer.Confirm(ctx, text)
	if err != nil {
		return OutcomeIgnored, fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return OutcomeDismissed, nil
	}
	return c.route(ctx, text)
}

// ResumeAfterLogin opens quick save for the pending URL, if any, and clears
// it.
func (c *Coordinator) ResumeAfterLogin(ctx context.Context) (Outcome, error) {
	videoURL := c.takePending()
	if videoURL == "" {
		return OutcomeIgnored, nil
	}
	if err := c.nav.OpenQuickSave(ctx, videoURL); err != nil {
		c.setPending(videoURL)
		return OutcomePending, fmt.Errorf("open quick save: %w", err)
	}
	return OutcomeOpened, nil
}

// Pending returns the URL waiting for sign-in.
func (c *Coordinator) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending, c.pending != ""
}

func (c *Coordinator) ClearPending() {
	c.setPending("")
}

func (c *Coordinator) route(ctx context.Context, videoURL string) (Outcome, error) {
	_, err := c.identity.UserID()
	switch {
	case err == nil:
		if err := c.nav.OpenQuickSave(ctx, videoURL); err != nil {
			return OutcomeIgnored, fmt.Errorf("open quick save: %w", err)
		}
		return OutcomeOpened, nil
	case errors.Is(err, common.ErrNoUser):
		c.setPending(videoURL)
		if err := c.nav.PromptLogin(ctx); err != nil {
			return OutcomePending, fmt.Errorf("prompt login: %w", err)
		}
		return OutcomePending, nil
	default:
		return OutcomeIgnored, fmt.Errorf("resolve user: %w", err)
	}
}

func (c *Coordinator) setPending(videoURL string) {
	c.mu.Lock()
	c.pending = videoURL
	c.mu.Unlock()
}

func (c *Coordinator) takePending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.pending
	c.pending = ""
	return u
}
