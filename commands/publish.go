package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newPublishCmd(app func() *App, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Regenerate the public gallery listing and secrets documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			p := NewPrompter(nil, out, DefaultStyles())

			reg, err := a.Registry.Load()
			if err != nil {
				return err
			}
			payload, err := a.Projector.Publish(reg)
			if err != nil {
				return err
			}
			p.Success(fmt.Sprintf("Published %d galleries.", len(payload.Listing.Galleries)))
			p.Success(fmt.Sprintf("Listing: %s", a.Projector.ListingPath()))
			p.Success(fmt.Sprintf("Secrets (public): %s", a.Projector.SecretsPath()))
			return nil
		},
	}
}
