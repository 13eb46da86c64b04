package commands

import (
	"fmt"
	"io"

	"github.com/camden-git/galleryprep/gallery"
	"github.com/camden-git/galleryprep/media"
	"github.com/spf13/cobra"
)

func newResizeCmd(app func() *App, in io.Reader, out io.Writer) *cobra.Command {
	var all, yes bool
	cmd := &cobra.Command{
		Use:   "resize [folder]",
		Short: "Resize gallery images in place to fit the web target box",
		Long: `Rewrites every image that exceeds the configured maximum width or height
so that it fits, keeping the aspect ratio. Images are never upscaled.
The rewrite is irreversible: keep a full-resolution copy elsewhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := NewPrompter(in, out, DefaultStyles())

			target := a.Config.ImagesRoot
			if !all {
				folder, err := resolveFolder(a, p, args)
				if err != nil {
					return err
				}
				target = folder
			}

			b := a.Normalizer.Bounds()
			if !yes {
				ok, err := p.Confirm(fmt.Sprintf("Resize images in %s to fit %dx%d? This overwrites the files.", target, b.MaxWidth, b.MaxHeight), false)
				if err != nil {
					return err
				}
				if !ok {
					p.Warn("Nothing resized.")
					return gallery.ErrAborted
				}
			}

			var (
				res media.NormalizeResult
				err error
			)
			if all {
				res, err = a.Normalizer.NormalizeTree(cmd.Context(), target)
			} else {
				res, err = a.Normalizer.Normalize(cmd.Context(), target)
			}
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Resized %d image(s), %d already within %dx%d.", len(res.Resized), len(res.Unchanged), b.MaxWidth, b.MaxHeight))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "resize every image under the images root, recursively")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
