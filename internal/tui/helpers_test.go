package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/authgate"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/export"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/studio"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	mu        sync.Mutex
	session   *authgate.Session
	signOuts  int
	listeners map[int]func(*authgate.Session)
	nextID    int
}

func (f *fakeSessions) CurrentSession(context.Context) (*authgate.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeSessions) AccessToken(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return "", nil
	}
	return f.session.AccessToken, nil
}

func (f *fakeSessions) Subscribe(fn func(*authgate.Session)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listeners == nil {
		f.listeners = map[int]func(*authgate.Session){}
	}
	id := f.nextID
	f.nextID++
	f.listeners[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
	}
}

func (f *fakeSessions) SignOut(context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.signOuts++
	f.mu.Unlock()
	f.broadcast(nil)
	return nil
}

func (f *fakeSessions) set(s *authgate.Session) {
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()
}

func (f *fakeSessions) broadcast(s *authgate.Session) {
	f.mu.Lock()
	fns := make([]func(*authgate.Session), 0, len(f.listeners))
	for _, fn := range f.listeners {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

// expire ends the session from the provider's side.
func (f *fakeSessions) expire() {
	f.set(nil)
	f.broadcast(nil)
}

type fakeAuth struct {
	sessions *fakeSessions
	err      error

	mu    sync.Mutex
	calls []string
}

func (f *fakeAuth) SignIn(_ context.Context, email, _ string) (*authgate.Session, error) {
	f.mu.Lock()
	f.calls = append(f.calls, email)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s := &authgate.Session{UserID: uuid.New(), Email: email, AccessToken: "token"}
	f.sessions.set(s)
	return s, nil
}

func (f *fakeAuth) emails() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeGenerator struct {
	result *domain.GenerationResult
	err    error
}

func (f *fakeGenerator) Generate(context.Context, domain.GenerationRequest, string) (*domain.GenerationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeDeliverer struct {
	mu    sync.Mutex
	files []export.File
}

func (f *fakeDeliverer) Deliver(_ context.Context, file export.File) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, file)
	return "/exports/" + file.Name, nil
}

type fakeClipboard struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

type fakeThemes struct {
	mu    sync.Mutex
	saved []domain.ProfileTheme
}

func (f *fakeThemes) SaveTheme(_ context.Context, theme domain.ProfileTheme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, theme)
	return nil
}

func (f *fakeThemes) ReadTheme(context.Context, uuid.UUID) (domain.ProfileTheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return domain.ProfileTheme{}, nil
	}
	return f.saved[len(f.saved)-1], nil
}

func sampleResult() *domain.GenerationResult {
	return &domain.GenerationResult{
		Title: "Cell Biology",
		Flashcards: []domain.Flashcard{
			{Question: "What is the powerhouse of the cell?", Answer: "The mitochondria", Tags: []string{"bio"}},
			{Question: "What holds DNA?", Answer: "The nucleus"},
		},
	}
}

type fixture struct {
	sessions  *fakeSessions
	auth      *fakeAuth
	registrar *fakeAuth
	gen       *fakeGenerator
	deliverer *fakeDeliverer
	clipboard *fakeClipboard
	themes    *fakeThemes
	vm        *studio.ViewModel
	deps      *Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	sessions := &fakeSessions{}
	f := &fixture{
		sessions:  sessions,
		auth:      &fakeAuth{sessions: sessions},
		registrar: &fakeAuth{sessions: sessions},
		gen:       &fakeGenerator{result: sampleResult()},
		deliverer: &fakeDeliverer{},
		clipboard: &fakeClipboard{},
		themes:    &fakeThemes{},
	}
	f.vm = studio.New(f.gen, sessions, log)
	f.deps = &Deps{
		Sessions:  f.sessions,
		Auth:      f.auth,
		Registrar: f.registrar,
		Profiles:  f.themes,
		Themes:    f.themes,
		Studio:    f.vm,
		Deliverer: f.deliverer,
		Clipboard: f.clipboard,
		Logger:    log,
	}
	return f
}

// harness drives an App the way the Bubbletea runtime does: commands run on
// their own goroutines and their messages are fed back into Update from the
// test goroutine.
type harness struct {
	t    *testing.T
	app  *App
	msgs chan tea.Msg
	quit bool
}

// settleIdle is how long settle waits for another message before returning.
const settleIdle = 150 * time.Millisecond

func newHarness(t *testing.T, f *fixture) *harness {
	t.Helper()
	app, err := NewApp(f.deps, NewNavigator())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{t: t, app: app.WithContext(ctx), msgs: make(chan tea.Msg, 256)}
	h.exec(h.app.Init())
	h.settle()
	return h
}

func (h *harness) exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() { h.msgs <- cmd() }()
}

func (h *harness) update(msg tea.Msg) {
	_, cmd := h.app.Update(msg)
	h.exec(cmd)
}

// settle processes messages until none arrive for settleIdle.
func (h *harness) settle() {
	for {
		select {
		case msg := <-h.msgs:
			switch msg := msg.(type) {
			case nil, spinner.TickMsg:
			case tea.BatchMsg:
				for _, cmd := range msg {
					h.exec(cmd)
				}
			case tea.QuitMsg:
				h.quit = true
			default:
				h.update(msg)
			}
		case <-time.After(settleIdle):
			return
		}
	}
}

func (h *harness) press(k string) {
	h.update(keyMsg(k))
	h.settle()
}

func (h *harness) pressType(t tea.KeyType) {
	h.update(tea.KeyMsg{Type: t})
	h.settle()
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	h.settle()
}

func keyMsg(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
