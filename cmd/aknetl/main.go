package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Best effort, env vars win over .env entries.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "aknetl",
		Short:         "Convert legal regulation text into Akoma Ntoso XML",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newConvertCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
