package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	config  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:           "rwdb",
		Short:         "Read/write routing database client",
		Long:          "rwdb routes reads to replicas and writes to the primary, pinning a session to the primary after the first write.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&f.config, "config", "", "config file (default ./rwdb.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log connection and statement activity")

	rootCmd.AddCommand(newQueryCmd(f))
	rootCmd.AddCommand(newStatCmd(f))
	rootCmd.AddCommand(newServerVersionCmd(f))
	rootCmd.AddCommand(newMigrateCmd(f))
	rootCmd.AddCommand(newServeCmd(f))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
