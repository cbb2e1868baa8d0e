package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dmitrijs2005/bibliotube/internal/client/capture"
	"github.com/dmitrijs2005/bibliotube/internal/client/services"
	"github.com/dmitrijs2005/bibliotube/internal/videometa"
)

// readClipboard is a test seam for clipboard.ReadAll.
var readClipboard = clipboard.ReadAll

type systemClipboard struct{}

func (systemClipboard) ReadText() (string, error) {
	return readClipboard()
}

// Open handles a deep link or a pasted share URL.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: open <link>")
	}
	out, err := a.capture.HandleLink(ctx, args[0])
	if err != nil {
		return err
	}
	if out == capture.OutcomeIgnored {
		a.println("That is not a supported video link.")
	}
	return nil
}

// Paste runs the clipboard check on demand.
func (a *App) Paste(ctx context.Context) error {
	out, err := a.capture.CheckClipboard(ctx)
	if err != nil {
		return err
	}
	if out == capture.OutcomeIgnored {
		a.println("No video link in the clipboard.")
	}
	return nil
}

// Confirm asks whether a link found in the clipboard should be saved.
func (a *App) Confirm(_ context.Context, url string) (bool, error) {
	return GetYesNo(a.reader, fmt.Sprintf("Video link found in the clipboard:\n  %s\nSave it?", url), a.out)
}

// PromptLogin is called when a link arrives with nobody signed in. The link
// stays pending until login or register succeeds.
func (a *App) PromptLogin(_ context.Context) error {
	url, _ := a.capture.Pending()
	a.println("Log in or register to save", url)
	return nil
}

// OpenQuickSave shows the quick save form for url and saves on confirmation.
func (a *App) OpenQuickSave(ctx context.Context, url string) error {
	d, err := a.quick.Prepare(ctx, url)
	if err != nil {
		return err
	}
	if len(d.Folders) == 0 {
		name, err := getSimpleText(a.reader, "You have no folders yet. Name for a new folder", a.out)
		if err != nil {
			return err
		}
		f, err := a.library.CreateFolder(ctx, name, "")
		if err != nil {
			return err
		}
		d.Folders = append(d.Folders, f)
		d.FolderID = f.ID
	}

	a.printf("Quick save %s %s\n", videometa.PlatformIcon(d.Platform), d.URL)
	if err := a.fillDraft(&d); err != nil {
		return err
	}

	v, err := a.quick.Save(ctx, d)
	if err != nil {
		return err
	}
	a.lastVideos = nil
	a.println("Saved:", v.Title)
	return nil
}

func (a *App) fillDraft(d *services.QuickSaveDraft) error {
	title, err := getSimpleText(a.reader, fmt.Sprintf("Title (empty for %q)", placeholder(d.Title)), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		d.Title = title
	}

	a.println("Folders:")
	def := 1
	for i, f := range d.Folders {
		if f.ID == d.FolderID {
			def = i + 1
		}
		a.printf("  %d. %s\n", i+1, f.Name)
	}
	n, err := GetInt(a.reader, "Folder", def, a.out)
	if err != nil {
		return err
	}
	if n < 1 || n > len(d.Folders) {
		return fmt.Errorf("no folder number %d", n)
	}
	d.FolderID = d.Folders[n-1].ID

	d.Importance, err = GetInt(a.reader, "Importance 1-5", d.Importance, a.out)
	return err
}

// resumeCapture opens the quick save form for a link that arrived before
// sign-in.
func (a *App) resumeCapture(ctx context.Context) error {
	if _, err := a.capture.ResumeAfterLogin(ctx); err != nil {
		return err
	}
	return nil
}

func placeholder(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled"
	}
	return title
}
