package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/camden-git/galleryprep/gallery"
	"github.com/camden-git/galleryprep/manifest"
	"github.com/camden-git/galleryprep/models"
	"github.com/camden-git/galleryprep/utils"
	"github.com/facette/natsort"
	"github.com/spf13/cobra"
)

const coverSamples = 5

func newWizardCmd(app func() *App, in io.Reader, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Add or edit one gallery interactively",
		Long: `Walks through one gallery: pick or create the entry, make sure its folder
exists, resize photos for the web, write the manifest, choose the cover,
set password and download link, then save the registry and regenerate
the public documents.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), app(), NewPrompter(in, out, DefaultStyles()))
		},
	}
}

// wizardDecider answers session questions through the prompter.
type wizardDecider struct {
	app *App
	p   *Prompter
}

func (d *wizardDecider) ConfirmCreateFolder(path string) (bool, error) {
	return d.p.Confirm(fmt.Sprintf("Create folder '%s'?", path), false)
}

// ConfirmResize also makes sure a full-resolution copy exists before the
// in-place rewrite, offering to zip the originals when it does not.
func (d *wizardDecider) ConfirmResize(folder string) (bool, error) {
	ok, err := d.p.Confirm("Resize images for web? (recommended, overwrites the files)", true)
	if err != nil || !ok {
		return false, err
	}
	uploaded, err := d.p.Confirm("Is a full-resolution copy of this gallery stored elsewhere (e.g. uploaded for the download link)?", false)
	if err != nil {
		return false, err
	}
	if uploaded {
		return true, nil
	}
	archive, err := d.p.Confirm(fmt.Sprintf("Zip the current originals into %s first?", d.app.Config.ArchivesPath), true)
	if err != nil {
		return false, err
	}
	if !archive {
		d.p.Warn("Skipping resize so the originals are not lost.")
		return false, nil
	}
	zipPath, size, err := utils.CreateGalleryZip(folder, d.app.Config.ArchivesPath, d.app.Logger)
	if err != nil {
		return false, err
	}
	d.p.Success(fmt.Sprintf("Originals archived to %s (%d bytes).", zipPath, size))
	return true, nil
}

func runWizard(ctx context.Context, app *App, p *Prompter) error {
	p.Header("Gallery Wizard")

	reg, err := app.Engine.Load()
	if err != nil {
		return err
	}
	sel, err := chooseGallery(p, app, reg)
	if err != nil {
		return err
	}
	s := app.Engine.Begin(reg, sel)
	for _, w := range s.Warnings() {
		p.Warn(w)
	}
	warned := len(s.Warnings())

	entry := s.Entry()
	name, err := p.Ask("Gallery name (display)", entry.Name)
	if err != nil {
		return err
	}
	folder, err := p.Ask(fmt.Sprintf("Folder name under %s", app.Config.ImagesRoot), firstNonEmpty(entry.Folder, name))
	if err != nil {
		return err
	}
	title, err := p.Ask("Title", firstNonEmpty(entry.Title, name, folder))
	if err != nil {
		return err
	}
	if err := s.SetIdentity(name, folder, title); err != nil {
		p.Error(err.Error())
		return err
	}

	decider := &wizardDecider{app: app, p: p}
	if _, err := s.EnsureFolder(decider); err != nil {
		if errors.Is(err, gallery.ErrFolderMissing) {
			p.Error("Folder missing. Please add images first.")
		}
		return err
	}
	if _, err := s.NormalizeIfNeeded(ctx, decider); err != nil {
		return err
	}
	photos, err := s.BuildManifest()
	if err != nil {
		return err
	}
	p.Muted(fmt.Sprintf("Wrote %s (%d images).", app.Manifests.ManifestName(), len(photos)))

	requested := ""
	if len(photos) > 0 {
		def, _ := gallery.ResolveCover(s.Entry().Cover, photos)
		p.Println("Pick a cover photo (type a filename). Examples:")
		for _, sample := range photos[:min(coverSamples, len(photos))] {
			p.Muted(" - " + sample)
		}
		if requested, err = p.Ask("Cover photo", def); err != nil {
			return err
		}
	}
	if _, err := s.ResolveCover(requested); err != nil {
		return err
	}
	for _, w := range s.Warnings()[warned:] {
		p.Warn(w)
	}
	warned = len(s.Warnings())

	entry = s.Entry()
	password, err := p.Ask("Passcode (visible to users)", entry.Password)
	if err != nil {
		return err
	}
	for {
		link, err := p.Ask("Download link (public)", entry.DownloadLink)
		if err != nil {
			return err
		}
		err = s.CollectFields(gallery.Fields{Password: password, DownloadLink: link})
		if err == nil {
			break
		}
		if !errors.Is(err, gallery.ErrInvalidDownloadLink) {
			return err
		}
		p.Warn("That does not look like a URL (expected e.g. https://example.com/gallery.zip). Try again.")
		entry.DownloadLink = ""
	}

	for _, w := range s.Warnings()[warned:] {
		p.Warn(w)
	}
	warned = len(s.Warnings())
	printSummary(p, s.Entry(), len(photos))
	save, err := p.Confirm("Save this gallery and regenerate the public files?", true)
	if err != nil {
		return err
	}
	if !save {
		p.Warn("Nothing saved.")
		return gallery.ErrAborted
	}

	res, err := s.Commit()
	if err != nil {
		return err
	}
	for _, w := range res.Warnings[warned:] {
		p.Warn(w)
	}
	p.Success(fmt.Sprintf("Updated registry: %s", app.Registry.Path()))
	p.Success(fmt.Sprintf("Updated public data: %s", app.Projector.ListingPath()))
	p.Success(fmt.Sprintf("Secrets (public): %s", app.Projector.SecretsPath()))
	p.Println("You can now deploy.")
	return nil
}

// chooseGallery lists registered galleries and unregistered folders and
// turns the answer into a selection. The session reports out-of-range or
// unknown answers and starts a new entry.
func chooseGallery(p *Prompter, app *App, reg models.Registry) (gallery.Selection, error) {
	if len(reg.Galleries) == 0 {
		p.Println("No galleries yet. Add a new one.")
	} else {
		p.Println("Existing galleries:")
		for i, g := range reg.Galleries {
			p.Println(fmt.Sprintf(" %d. %s", i+1, g.Name))
		}
	}

	folders, err := manifest.GalleryFolders(app.Config.ImagesRoot)
	if err != nil {
		return gallery.Selection{}, err
	}
	var unregistered []string
	for _, f := range folders {
		if !folderRegistered(reg, f) {
			unregistered = append(unregistered, f)
		}
	}
	if len(unregistered) > 0 {
		natsort.Sort(unregistered)
		p.Muted("Folders without a gallery entry: " + strings.Join(unregistered, ", "))
	}

	if len(reg.Galleries) == 0 {
		return gallery.Selection{New: true}, nil
	}
	choice, err := p.Ask("Enter number to edit, or 'n' to add a new gallery", "n")
	if err != nil {
		return gallery.Selection{}, err
	}
	if strings.EqualFold(choice, "n") {
		return gallery.Selection{New: true}, nil
	}
	if n, err := strconv.Atoi(choice); err == nil {
		if n == 0 {
			n = -1
		}
		return gallery.Selection{Index: n}, nil
	}
	return gallery.Selection{Name: choice}, nil
}

func folderRegistered(reg models.Registry, folder string) bool {
	for _, g := range reg.Galleries {
		if g.FolderName() == folder {
			return true
		}
	}
	return false
}

func printSummary(p *Prompter, e models.GalleryEntry, photos int) {
	p.Header("Summary")
	p.Println(fmt.Sprintf("  name:          %s", e.Name))
	p.Println(fmt.Sprintf("  folder:        %s (%d photos)", e.Folder, photos))
	p.Println(fmt.Sprintf("  title:         %s", e.Title))
	p.Println(fmt.Sprintf("  cover:         %s", e.Cover))
	p.Println(fmt.Sprintf("  password:      %s", e.Password))
	p.Println(fmt.Sprintf("  download link: %s", e.DownloadLink))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
