package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joestump/rwdb/internal/rwdb"
)

func newQueryCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <template> [args...]",
		Short: "Run one statement through the read/write router",
		Long: `Run one statement. Arguments fill the template's %s, %d, %f and %v
placeholders in order and are escaped for the connection's dialect.
Row sets print as one JSON object per line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			client, err := openClient(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			res, err := client.Query(cmd.Context(), args[0], rwdb.Strings(args[1:]...)...)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, client.InsertID())
		},
	}
}

func printResult(w io.Writer, res *rwdb.Result, insertID int64) error {
	if !res.HasRows() {
		_, err := fmt.Fprintf(w, "affected rows: %d, insert id: %d\n", res.AffectedRows(), insertID)
		return err
	}
	enc := json.NewEncoder(w)
	for res.Next() {
		if err := enc.Encode(res.Row()); err != nil {
			return err
		}
	}
	return nil
}
