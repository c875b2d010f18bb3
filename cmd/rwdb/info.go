package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joestump/rwdb/internal/rwdb"
)

func newStatCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "stat [read|write]",
		Short:     "Print the server status summary",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(rwdb.Read), string(rwdb.Write)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, f, args, (*rwdb.Client).Stat)
		},
	}
}

func newServerVersionCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "server-version [read|write]",
		Short:     "Print the server version",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(rwdb.Read), string(rwdb.Write)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, f, args, (*rwdb.Client).ServerVersion)
		},
	}
}

// runInfo calls fn for the mode named in args (default read) and prints the result.
func runInfo(cmd *cobra.Command, f *rootFlags, args []string, fn func(*rwdb.Client, context.Context, rwdb.Mode) (string, error)) error {
	mode := rwdb.Read
	if len(args) == 1 {
		mode = rwdb.Mode(args[0])
	}
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q: must be read or write", mode)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	client, err := openClient(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	s, err := fn(client, cmd.Context(), mode)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}
