package commands

import (
	"fmt"
	"path/filepath"

	"github.com/camden-git/galleryprep/manifest"
	"github.com/facette/natsort"
)

// resolveFolder turns a folder argument into a path under the images root,
// or asks the user to pick one of the existing gallery folders.
func resolveFolder(app *App, p *Prompter, args []string) (string, error) {
	if len(args) > 0 {
		if filepath.IsAbs(args[0]) {
			return args[0], nil
		}
		return filepath.Join(app.Config.ImagesRoot, args[0]), nil
	}

	folders, err := manifest.GalleryFolders(app.Config.ImagesRoot)
	if err != nil {
		return "", err
	}
	if len(folders) == 0 {
		return "", fmt.Errorf("no gallery folders found in %s", app.Config.ImagesRoot)
	}
	natsort.Sort(folders)
	p.Println("Gallery folders:")
	for i, f := range folders {
		p.Println(fmt.Sprintf(" %d. %s", i+1, f))
	}
	n, err := p.ChooseIndex("Choose a folder", len(folders))
	if err != nil {
		return "", err
	}
	return filepath.Join(app.Config.ImagesRoot, folders[n-1]), nil
}
