// Command noori is the assistant's CLI front end: an interactive chat REPL
// and a Telegram bot runner, both thin adapters over the noori façade.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "noori",
		Short:         "Noori is a personal assistant driven by a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the JSON config file")

	root.AddCommand(newChatCmd(), newTelegramCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
