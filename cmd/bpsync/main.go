// Command bpsync is a Basispoort operator tool for publishers: it
// inspects institutions and rosters, manages hosted license provider
// methods and products, and changes license permissions in bulk.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scholenwerk/basispoort-client/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbosity int
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v debug, -vv wire payloads)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		c.SetLogLevel(cli.LevelForVerbosity(verbosity))
	}

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
