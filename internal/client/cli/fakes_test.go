package cli

import (
	"bufio"
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/client/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/client/services"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
)

type fakeAuth struct {
	hasKey    bool
	key       ed25519.PrivateKey
	unlockErr error
	signInErr error
	pingErr   error

	created   []byte
	imported  []byte
	signedIn  int
	forgotten bool
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) HasKey(context.Context) (bool, error) { return f.hasKey, nil }

func (f *fakeAuth) CreateKey(_ context.Context, password []byte) (ed25519.PrivateKey, error) {
	f.created = append([]byte(nil), password...)
	f.hasKey = true
	return f.key, nil
}

func (f *fakeAuth) ImportKey(_ context.Context, password []byte, raw []byte) (ed25519.PrivateKey, error) {
	f.imported = append([]byte(nil), raw...)
	f.hasKey = true
	return ed25519.PrivateKey(append([]byte(nil), raw...)), nil
}

func (f *fakeAuth) Unlock(context.Context, []byte) (ed25519.PrivateKey, error) {
	if f.unlockErr != nil {
		return nil, f.unlockErr
	}
	return f.key, nil
}

func (f *fakeAuth) SignIn(context.Context, ed25519.PrivateKey) error {
	f.signedIn++
	return f.signInErr
}

func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

func (f *fakeAuth) Forget(context.Context) error {
	f.forgotten = true
	f.hasKey = false
	return nil
}

type fakeHost struct {
	key      ed25519.PrivateKey
	identity models.Identity
	epoch    *models.Epoch
}

func (h *fakeHost) SetKey(_ context.Context, key ed25519.PrivateKey) { h.key = key }
func (h *fakeHost) Identity() models.Identity                        { return h.identity }
func (h *fakeHost) Epoch() (models.Epoch, bool) {
	if h.epoch == nil {
		return models.Epoch{}, false
	}
	return *h.epoch, true
}

type sentCommand struct {
	id  string
	cmd flips.Command
}

type fakeList struct {
	snapshot flips.Snapshot
	events   []flips.Event
	commands []sentCommand
	sendErr  error
}

func (l *fakeList) Send(ev flips.Event) bool {
	l.events = append(l.events, ev)
	return true
}

func (l *fakeList) SendTo(id string, cmd flips.Command) error {
	if l.sendErr != nil {
		return l.sendErr
	}
	l.commands = append(l.commands, sentCommand{id: id, cmd: cmd})
	return nil
}

func (l *fakeList) Snapshot() flips.Snapshot { return l.snapshot }

// captureOutput replaces printlnFn and returns a function reading what was
// printed so far.
func captureOutput(t *testing.T) func() string {
	t.Helper()
	var (
		mu  sync.Mutex
		buf strings.Builder
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&buf, a...)
	}
	t.Cleanup(func() { printlnFn = orig })
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}

// stubInput replaces the interactive prompts with canned answers.
func stubInput(t *testing.T, passwords []string, texts []string, confirm bool) {
	t.Helper()
	origPw, origText, origConfirm := getPassword, getSimpleText, getConfirmation
	t.Cleanup(func() {
		getPassword, getSimpleText, getConfirmation = origPw, origText, origConfirm
	})

	getPassword = func(w io.Writer, prompt string) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, io.EOF
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getConfirmation = func(*bufio.Reader, string, io.Writer) (bool, error) {
		return confirm, nil
	}
}

func testKey(seed byte) ed25519.PrivateKey {
	s := make([]byte, ed25519.SeedSize)
	s[0] = seed
	return ed25519.NewKeyFromSeed(s)
}

func newTestApp(auth *fakeAuth, list *fakeList, host *fakeHost) *App {
	return &App{
		logger:      logging.Nop{},
		authService: auth,
		flips:       list,
		host:        host,
		reader:      rdr(""),
		out:         &bytes.Buffer{},
		now:         func() time.Time { return time.UnixMilli(1_000) },
		newID:       func() string { return "0123456789abcdef" },
	}
}

func readyDirty(filter models.FlipFilter, fl ...models.Flip) flips.Snapshot {
	views := make([]flips.FlipView, 0, len(fl))
	for _, f := range fl {
		views = append(views, flips.FlipView{Flip: f})
	}
	return flips.Snapshot{
		State:  flips.StateValue{Phase: flips.PhaseReady, Dirty: true, Active: filter == models.FlipFilterActive},
		Filter: filter,
		Flips:  views,
	}
}
