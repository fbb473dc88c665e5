package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/events"
	"github.com/phrazzld/flashforge/internal/export"
	"github.com/phrazzld/flashforge/internal/flipcard"
	"github.com/phrazzld/flashforge/internal/genclient"
	"github.com/phrazzld/flashforge/internal/session"
	"github.com/phrazzld/flashforge/internal/studio"
	"github.com/phrazzld/flashforge/internal/tui"
)

// studioApp holds the wired collaborators of one studio run.
type studioApp struct {
	logger    *slog.Logger
	emitter   *events.InMemoryEventEmitter
	sessions  *session.Client
	generator *genclient.Client
	vm        *studio.ViewModel
	deliverer *export.DirDeliverer
	clipboard flipcard.Clipboard
}

func newStudio(cfg *config.StudioConfig, log *slog.Logger) (*studioApp, error) {
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.SessionEvent) error {
		log.Info("session event", "type", string(e.Type), "user_id", e.UserID)
		return nil
	}))

	sessions, err := session.NewClient(session.Config{BaseURL: cfg.ServerURL},
		session.NewFileStore(cfg.SessionFile), emitter, log)
	if err != nil {
		return nil, err
	}

	gen, err := genclient.New(genclient.Config{BaseURL: cfg.ServerURL}, log)
	if err != nil {
		return nil, err
	}

	return &studioApp{
		logger:    log,
		emitter:   emitter,
		sessions:  sessions,
		generator: gen,
		vm:        studio.New(gen, sessions, log),
		deliverer: export.NewDirDeliverer(cfg.ExportDir, log),
		clipboard: flipcard.SystemClipboard{},
	}, nil
}

func (s *studioApp) deps() *tui.Deps {
	return &tui.Deps{
		Sessions:  s.sessions,
		Auth:      s.sessions,
		Registrar: tui.AuthenticatorFunc(s.sessions.Register),
		Profiles:  s.sessions,
		Themes:    s.sessions,
		Studio:    s.vm,
		Deliverer: s.deliverer,
		Clipboard: s.clipboard,
		Logger:    s.logger,
	}
}

func (s *studioApp) app() (*tui.App, error) {
	return tui.NewApp(s.deps(), tui.NewNavigator())
}

func (s *studioApp) whoami(ctx context.Context, out io.Writer) error {
	current, err := s.sessions.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		_, err = fmt.Fprintln(out, "Not signed in.")
		return err
	}
	_, err = fmt.Fprintf(out, "%s (%s)\n", current.Email, current.UserID)
	return err
}

func (s *studioApp) close() {
	s.vm.Close()
}
