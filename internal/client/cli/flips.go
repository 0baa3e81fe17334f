package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/flipkeeper/internal/client/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/filex"
)

var (
	ErrAmbiguousID = errors.New("ambiguous flip id")
	ErrNotSignedIn = errors.New("not signed in")
)

func newFlipID() string {
	return uuid.NewString()
}

// shortID is the prefix shown in listings; any unique prefix is accepted
// as an id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// List prints the flip list for the current filter.
func (a *App) List(ctx context.Context) error {
	s := a.flips.Snapshot()
	identity := a.host.Identity()
	v := flips.BuildListView(s, identity)

	printlnFn(fmt.Sprintf("[%s] %s", v.Filter, v.State))

	if v.CannotSubmit {
		printlnFn("You cannot submit flips with identity status", identity.State)
	}
	if v.ShowSubmitBanner {
		printlnFn(fmt.Sprintf("Flips to submit: %d required, %d optional",
			max(v.Requirements.RemainingRequired, 0), max(v.Requirements.RemainingOptional, 0)))
	}

	switch {
	case s.State.Phase != flips.PhaseReady:
		printlnFn("Flip list is not loaded yet, sign in first")
		return nil
	case v.Empty:
		printlnFn("You have no flips yet")
		return nil
	}

	for _, f := range v.Flips {
		line := fmt.Sprintf("%-8s  %-10s  %d images", shortID(f.ID), f.Type, len(f.Images))
		if f.Hash != "" {
			line += "  " + f.Hash
		}
		if words := identity.Keywords[f.Hash]; f.Hash != "" && len(words) > 0 {
			line += "  " + models.FormatKeywords(words)
		} else if f.Keywords != nil {
			line += fmt.Sprintf("  pair %d/%d", f.Keywords[0], f.Keywords[1])
		}
		printlnFn(line)
	}
	for _, m := range v.MissingFlips {
		line := fmt.Sprintf("%-8s  %-10s  %s", "-", "missing", m.Hash)
		if len(m.Keywords) > 0 {
			line += "  " + models.FormatKeywords(m.Keywords)
		}
		printlnFn(line)
	}
	for _, p := range v.Placeholders {
		switch {
		case p.Disabled:
			printlnFn(p.Title, "(optional, locked)")
		case p.Optional:
			printlnFn(p.Title, "(optional)")
		default:
			printlnFn(p.Title)
		}
	}
	if len(v.Flips) == 0 && len(v.MissingFlips) == 0 && len(v.Placeholders) == 0 {
		printlnFn("Nothing to show")
	}
	return nil
}

// SetFilter switches the visible list: active, drafts or archived.
func (a *App) SetFilter(ctx context.Context, name string) error {
	f, err := models.ParseFlipFilter(name)
	if err != nil {
		return err
	}
	a.flips.Send(flips.Filter{Filter: f})
	return nil
}

// New creates a draft from image files given in story order. An optional
// leading "pair=A,B" picks the keyword pair.
func (a *App) New(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return ErrNotSignedIn
	}

	var pair *models.KeywordPair
	if len(args) > 0 && strings.HasPrefix(args[0], "pair=") {
		p, err := parsePair(strings.TrimPrefix(args[0], "pair="))
		if err != nil {
			return err
		}
		pair = &p
		args = args[1:]
	}
	if len(args) == 0 {
		return errors.New("usage: new [pair=A,B] <image>...")
	}

	images, err := filex.ReadImages(args)
	if err != nil {
		return err
	}
	order := make([]int, len(images))
	for i := range order {
		order[i] = i
	}

	f := models.Flip{
		ID:            a.newID(),
		Type:          models.FlipTypeDraft,
		Keywords:      pair,
		Images:        images,
		OriginalOrder: order,
		CreatedAt:     a.now(),
	}
	if err := f.Validate(); err != nil {
		return err
	}

	a.flips.Send(flips.AddDraft{Flip: f})
	printlnFn("Draft", shortID(f.ID), "created")
	return nil
}

func parsePair(s string) (models.KeywordPair, error) {
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return models.KeywordPair{}, fmt.Errorf("invalid pair %q", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return models.KeywordPair{}, fmt.Errorf("invalid pair %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return models.KeywordPair{}, fmt.Errorf("invalid pair %q: %w", s, err)
	}
	return models.KeywordPair{a, b}, nil
}

func (a *App) Publish(ctx context.Context, id string) error {
	return a.sendTo(id, flips.Publish{})
}

func (a *App) Archive(ctx context.Context, id string) error {
	return a.sendTo(id, flips.Archive{})
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.sendTo(id, flips.Delete{})
}

// Remove deletes a flip the network knows about and archives anything else.
func (a *App) Remove(ctx context.Context, id string) error {
	s := a.flips.Snapshot()
	f, err := findFlip(s.Flips, id)
	if err != nil {
		return err
	}
	cmd := flips.RemovalCommand(f, s.KnownFlips)
	if _, ok := cmd.(flips.Delete); ok {
		ok, err := getConfirmation(a.reader, removalPrompt(f.Flip), a.out)
		if err != nil || !ok {
			return err
		}
	}
	return a.flips.SendTo(f.ID, cmd)
}

func removalPrompt(f models.Flip) string {
	cover := "no cover"
	if c := f.Cover(); c != nil {
		cover = fmt.Sprintf("cover %d bytes", len(c))
	}
	return fmt.Sprintf("Delete flip %s (%s, %s) from the network?", shortID(f.ID), f.Hash, cover)
}

// Export writes a flip's images in story order to dir/<id>/.
func (a *App) Export(ctx context.Context, id, dir string) error {
	f, err := findFlip(a.flips.Snapshot().Flips, id)
	if err != nil {
		return err
	}

	if err := f.Validate(); err != nil {
		return err
	}

	out, err := filex.EnsureSubDir(dir, f.ID)
	if err != nil {
		return err
	}
	for i, idx := range f.OriginalOrder {
		name := filepath.Join(out, fmt.Sprintf("%d.img", i+1))
		if err := os.WriteFile(name, f.Images[idx], 0o600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	printlnFn("Exported to", out)
	return nil
}

// Status prints connectivity, identity and list state.
func (a *App) Status(ctx context.Context) error {
	printlnFn("Mode:", a.mode())

	if key := a.currentKey(); key != nil {
		identity := a.host.Identity()
		printlnFn("Identity:", identity.Address, identity.State)
		req := flips.Remaining(identity.RequiredFlips, identity.AvailableFlips, len(identity.Flips))
		printlnFn(fmt.Sprintf("Flips: %d made, %d required left, %d optional left",
			len(identity.Flips), max(req.RemainingRequired, 0), max(req.RemainingOptional, 0)))
	} else {
		printlnFn("Identity: locked")
	}

	if epoch, ok := a.host.Epoch(); ok {
		line := fmt.Sprintf("Epoch: %d", epoch.Epoch)
		if !epoch.NextValidation.IsZero() {
			line += ", next validation " + epoch.NextValidation.Local().Format("2006-01-02 15:04")
		}
		printlnFn(line)
	}

	printlnFn("List:", a.flips.Snapshot().State)
	return nil
}

func (a *App) sendTo(id string, cmd flips.Command) error {
	f, err := findFlip(a.flips.Snapshot().Flips, id)
	if err != nil {
		return err
	}
	return a.flips.SendTo(f.ID, cmd)
}

// findFlip resolves a full id or a unique id prefix.
func findFlip(list []flips.FlipView, id string) (flips.FlipView, error) {
	var (
		found flips.FlipView
		n     int
	)
	for _, f := range list {
		if f.ID == id {
			return f, nil
		}
		if strings.HasPrefix(f.ID, id) {
			found = f
			n++
		}
	}
	switch {
	case id == "" || n == 0:
		return flips.FlipView{}, fmt.Errorf("flip %q: %w", id, common.ErrorNotFound)
	case n > 1:
		return flips.FlipView{}, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
	}
	return found, nil
}
