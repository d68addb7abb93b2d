// Package cli is the interactive terminal client: a small REPL over the
// application core.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Fernando9200/sistema-lembretes/internal/app"
	"github.com/Fernando9200/sistema-lembretes/internal/identity"
	"github.com/Fernando9200/sistema-lembretes/internal/model"
)

// App binds the REPL to the application core.
type App struct {
	core   *app.App
	ident  identity.Provider
	reader *bufio.Reader
	out    io.Writer
	log    *zap.Logger
}

func New(core *app.App, ident identity.Provider, in io.Reader, out io.Writer, log *zap.Logger) *App {
	return &App{core: core, ident: ident, reader: bufio.NewReader(in), out: out, log: log}
}

func (a *App) loggedIn() bool { return a.core.Gate().CurrentUser() != nil }

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) register(ctx context.Context) error {
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}
	name, err := promptLine(a.reader, a.out, "Display name")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}
	if _, err := a.ident.Register(ctx, email, password, name); err != nil {
		return err
	}
	a.printf("Account created. Use 'login' to sign in.\n")
	return nil
}

func (a *App) login(ctx context.Context) error {
	email, err := promptLine(a.reader, a.out, "Email")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}
	if err := a.core.Gate().SignIn(ctx, email, password); err != nil {
		return err
	}
	a.printf("Signed in as %s\n", email)
	return nil
}

// logout flushes pending changes before tearing the session down, so nothing
// typed in the last seconds is lost.
func (a *App) logout(ctx context.Context) error {
	a.core.Flush(ctx)
	a.core.Gate().SignOut(ctx)
	a.printf("Signed out.\n")
	return nil
}

func (a *App) addReminder(ctx context.Context) error {
	title, err := promptLine(a.reader, a.out, "Title")
	if err != nil {
		return err
	}
	desc, err := promptLine(a.reader, a.out, "Description")
	if err != nil {
		return err
	}
	if _, err := a.core.AddReminder(title, desc); err != nil {
		return err
	}
	a.printf("Added.\n")
	return nil
}

func (a *App) listReminders() error {
	rs := a.core.Reminders().Display()
	if len(rs) == 0 {
		a.printf("No reminders.\n")
		return nil
	}
	for i, r := range rs {
		mark := " "
		if r.IsCompleted {
			mark = "x"
		}
		a.printf("%3d [%s] %s", i+1, mark, r.Title)
		if r.Description != "" {
			a.printf("  -  %s", r.Description)
		}
		a.printf("\n")
	}
	return nil
}

func (a *App) doneReminder(arg string) error {
	r, err := a.reminderAt(arg)
	if err != nil {
		return err
	}
	a.core.ToggleReminder(r.ID)
	return nil
}

func (a *App) editReminder(arg string) error {
	r, err := a.reminderAt(arg)
	if err != nil {
		return err
	}
	title, err := promptLine(a.reader, a.out, fmt.Sprintf("Title [%s]", r.Title))
	if err != nil {
		return err
	}
	desc, err := promptLine(a.reader, a.out, fmt.Sprintf("Description [%s]", r.Description))
	if err != nil {
		return err
	}
	if title != "" {
		r.Title = title
	}
	if desc != "" {
		r.Description = desc
	}
	return a.core.UpdateReminder(r)
}

func (a *App) removeReminder(arg string) error {
	r, err := a.reminderAt(arg)
	if err != nil {
		return err
	}
	a.core.RemoveReminder(r.ID)
	return nil
}

func (a *App) addNote(ctx context.Context) error {
	title, err := promptLine(a.reader, a.out, "Title")
	if err != nil {
		return err
	}
	content, err := promptMultiline(a.reader, a.out, "Note")
	if err != nil {
		return err
	}
	if _, err := a.core.AddTextItem(title, content); err != nil {
		return err
	}
	a.printf("Saved.\n")
	return nil
}

func (a *App) addLink(ctx context.Context) error {
	title, err := promptLine(a.reader, a.out, "Title")
	if err != nil {
		return err
	}
	url, err := promptLine(a.reader, a.out, "URL")
	if err != nil {
		return err
	}
	comment, err := promptLine(a.reader, a.out, "Comment")
	if err != nil {
		return err
	}
	if _, err := a.core.AddLinkItem(title, comment, url); err != nil {
		return err
	}
	a.printf("Saved.\n")
	return nil
}

func (a *App) saveFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	title, err := promptLine(a.reader, a.out, "Title")
	if err != nil {
		return err
	}
	if title == "" {
		title = filepath.Base(path)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if _, err := a.core.AddFileItem(ctx, title, "", filepath.Base(path), contentType, data); err != nil {
		return err
	}
	a.printf("Uploaded and saved.\n")
	return nil
}

func (a *App) listItems() error {
	items := a.core.Items().Display()
	if len(items) == 0 {
		a.printf("No saved items.\n")
		return nil
	}
	for i, it := range items {
		star := " "
		if it.IsFavorite {
			star = "*"
		}
		a.printf("%3d %s [%s] %s", i+1, star, it.Type, it.Title)
		switch it.Type {
		case model.ItemLink:
			a.printf("  -  %s", it.URL)
		case model.ItemFile:
			if it.File != nil {
				a.printf("  -  %s (%d bytes)", it.File.FileName, it.File.FileSize)
			}
		}
		a.printf("\n")
	}
	return nil
}

func (a *App) favoriteItem(arg string) error {
	it, err := a.itemAt(arg)
	if err != nil {
		return err
	}
	a.core.ToggleFavorite(it.ID)
	return nil
}

func (a *App) removeItem(arg string) error {
	it, err := a.itemAt(arg)
	if err != nil {
		return err
	}
	a.core.RemoveItem(it.ID)
	return nil
}

func (a *App) status() error {
	if u := a.core.Gate().CurrentUser(); u != nil {
		a.printf("Signed in as %s\n", u.Email)
	} else {
		a.printf("Not signed in.\n")
	}
	a.printf("loading=%v saving=%v pending=%v reauth=%v\n",
		a.core.Loading(), a.core.Saving(),
		a.core.Reminders().Snapshot().NeedsSave || a.core.Items().Snapshot().NeedsSave,
		a.core.ReauthRequired())
	return nil
}

// reminderAt resolves a 1-based index into the displayed reminder list.
func (a *App) reminderAt(arg string) (model.Reminder, error) {
	rs := a.core.Reminders().Display()
	i, err := parseIndex(arg, len(rs))
	if err != nil {
		return model.Reminder{}, err
	}
	return rs[i], nil
}

func (a *App) itemAt(arg string) (model.SavedItem, error) {
	items := a.core.Items().Display()
	i, err := parseIndex(arg, len(items))
	if err != nil {
		return model.SavedItem{}, err
	}
	return items[i], nil
}

func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no entry %q, run 'list' and use its numbers", arg)
	}
	return i - 1, nil
}
