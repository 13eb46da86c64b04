package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/spf13/cobra"
)

func newManifestCmd(app func() *App, in io.Reader, out io.Writer) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "manifest [folder]",
		Short: "Write the photo manifest of one or every gallery folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := NewPrompter(in, out, DefaultStyles())

			if all {
				built, err := a.Manifests.BuildAll(a.Config.ImagesRoot)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(built))
				for name := range built {
					names = append(names, name)
				}
				natsort.Sort(names)
				for _, name := range names {
					p.Muted(fmt.Sprintf("%s: %d image(s)", name, len(built[name])))
				}
				p.Success(fmt.Sprintf("Wrote %d manifest(s).", len(built)))
				return nil
			}

			folder, err := resolveFolder(a, p, args)
			if err != nil {
				return err
			}
			photos, err := a.Manifests.Build(folder)
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Wrote %s (%d image(s)).", filepath.Join(folder, a.Manifests.ManifestName()), len(photos)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "write a manifest for every folder under the images root")
	return cmd
}
