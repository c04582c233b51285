// Package switchboard routes card taps to artwork pages.
package switchboard

import (
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"sync"

	"github.com/arcanaland/easel/internal/card"
	"github.com/arcanaland/easel/internal/log"
)

// Opener launches a URL outside the terminal
type Opener func(url string) error

// Switchboard presents artwork pages for tapped cards
type Switchboard struct {
	base   *url.URL
	out    io.Writer
	opener Opener

	mu   sync.Mutex
	last string
}

// New creates a switchboard resolving hrefs against baseURL. A nil opener
// only prints where it would go.
func New(baseURL string, out io.Writer, opener Opener) (*Switchboard, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %q", baseURL)
	}
	return &Switchboard{base: base, out: out, opener: opener}, nil
}

// Resolve turns an href into an absolute URL
func (s *Switchboard) Resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	return s.base.ResolveReference(ref).String(), nil
}

// Navigate presents href for the given card
func (s *Switchboard) Navigate(from *card.Card, href string) error {
	target, err := s.Resolve(href)
	if err != nil {
		return err
	}

	logger := log.Log().WithField("url", target)
	if from != nil {
		logger = logger.WithField("artworkID", from.Artwork().ID)
	}
	logger.Debug("presenting artwork page")

	s.mu.Lock()
	s.last = target
	s.mu.Unlock()

	fmt.Fprintf(s.out, "Navigating to %s\n", target)

	if s.opener == nil {
		return nil
	}
	if err := s.opener(target); err != nil {
		return fmt.Errorf("error opening %s: %w", target, err)
	}
	return nil
}

// Last returns the most recently presented URL
func (s *Switchboard) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// BrowserOpener opens URLs with the platform's default handler
func BrowserOpener(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	return cmd.Start()
}
