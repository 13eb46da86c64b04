package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newConvertCmd(app func() *App, in io.Reader, out io.Writer) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "convert [folder]",
		Short: "Convert PNG and JPEG images to WebP",
		Long: `Writes a WebP copy of every PNG and JPEG image and removes the source
file once its copy is on disk. With --all every folder under the images
root is converted, recursively.`,
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

			conversions, err := a.Converter.ConvertFolder(cmd.Context(), target, all)
			for _, c := range conversions {
				p.Muted(fmt.Sprintf("%s -> %s", relTo(a.Config.ImagesRoot, c.Source), relTo(a.Config.ImagesRoot, c.Target)))
			}
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Converted %d image(s) in %s.", len(conversions), target))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "convert every folder under the images root")
	return cmd
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
