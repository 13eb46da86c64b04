package commands

import (
	"fmt"
	"io"

	"github.com/camden-git/galleryprep/utils"
	"github.com/spf13/cobra"
)

func newArchiveCmd(app func() *App, in io.Reader, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "archive [folder]",
		Short: "Zip a gallery folder's current images",
		Long: `Creates a zip of the files in a gallery folder under the archives
directory. Use it to keep full-resolution originals before resizing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := NewPrompter(in, out, DefaultStyles())

			folder, err := resolveFolder(a, p, args)
			if err != nil {
				return err
			}
			path, size, err := utils.CreateGalleryZip(folder, a.Config.ArchivesPath, a.Logger)
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Archived %s to %s (%d bytes).", folder, path, size))
			return nil
		},
	}
}
