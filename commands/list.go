package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newListCmd(app func() *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered galleries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := NewPrompter(nil, out, DefaultStyles())

			reg, err := a.Registry.Load()
			if err != nil {
				return err
			}
			if len(reg.Galleries) == 0 {
				p.Muted(fmt.Sprintf("No galleries registered in %s.", a.Registry.Path()))
				return nil
			}
			p.Header(fmt.Sprintf("%d galleries", len(reg.Galleries)))
			for i, g := range reg.Galleries {
				locked := ""
				if g.Password != "" {
					locked = " (password)"
				}
				p.Println(fmt.Sprintf(" %d. %s%s", i+1, g.DisplayTitle(), locked))
				p.Muted(fmt.Sprintf("    name=%s folder=%s cover=%s", g.Name, g.FolderName(), g.Cover))
			}
			return nil
		},
	}
}
