package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bibliotube/internal/models"
)

// Folders syncs and then lists the user's folders, newest first.
func (a *App) Folders(ctx context.Context) error {
	a.syncQuietly(ctx, "folders")
	list, err := a.library.ListFolders(ctx)
	if err != nil {
		return err
	}
	a.lastFolders = list
	if len(list) == 0 {
		a.println("No folders yet. Create one with 'mkfolder'.")
		return nil
	}
	for i, f := range list {
		a.printf("%3d. %s  %s  [%s]\n", i+1, f.Name, f.Color, shortID(f.ID))
	}
	return nil
}

func (a *App) AddFolder(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		if name, err = getSimpleText(a.reader, "Folder name", a.out); err != nil {
			return err
		}
	}
	color, err := getSimpleText(a.reader, fmt.Sprintf("Color (empty for %s)", models.DefaultFolderColor), a.out)
	if err != nil {
		return err
	}

	f, err := a.library.CreateFolder(ctx, name, color)
	if err != nil {
		return err
	}
	a.lastFolders = nil
	a.println("Created folder", f.Name)
	return nil
}

func (a *App) EditFolder(ctx context.Context, args []string) error {
	f, err := a.folderByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, fmt.Sprintf("New name (empty to keep %q)", f.Name), a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = f.Name
	}
	color, err := getSimpleText(a.reader, fmt.Sprintf("Color (empty to keep %s)", f.Color), a.out)
	if err != nil {
		return err
	}

	f, err = a.library.UpdateFolder(ctx, f.ID, name, color)
	if err != nil {
		return err
	}
	if a.currentFolder.ID == f.ID {
		a.currentFolder = f
	}
	a.println("Updated folder", f.Name)
	return nil
}

// DeleteFolder removes a folder with everything in it after confirmation.
func (a *App) DeleteFolder(ctx context.Context, args []string) error {
	f, err := a.folderByRef(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete folder %q with all its videos and reminders?", f.Name), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.library.DeleteFolder(ctx, f.ID); err != nil {
		return err
	}
	if a.currentFolder.ID == f.ID {
		a.currentFolder = models.Folder{}
		a.currentVideo = models.Video{}
		a.lastVideos = nil
	}
	a.lastFolders = nil
	a.println("Deleted folder", f.Name)
	return nil
}

// folderByRef resolves ref against a fresh folder listing. An empty ref
// means the current folder.
func (a *App) folderByRef(ctx context.Context, ref string) (models.Folder, error) {
	if strings.TrimSpace(ref) == "" && a.currentFolder.ID != "" {
		return a.currentFolder, nil
	}
	list, err := a.library.ListFolders(ctx)
	if err != nil {
		return models.Folder{}, err
	}
	a.lastFolders = list
	return pick(list, ref,
		func(f models.Folder) string { return f.ID },
		func(f models.Folder) string { return f.Name })
}
