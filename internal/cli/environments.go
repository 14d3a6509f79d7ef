package cli

import (
	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/pkg/rest"
)

// environmentsCommand lists the known Basispoort environments.
func (c *CLI) environmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "environments",
		Short: "List known Basispoort environments",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printInfo("Basispoort environments")
			for _, env := range rest.Environments() {
				printKeyValue(env.String(), StyleLink.Render(env.BaseURL().String()))
			}
		},
	}
}
