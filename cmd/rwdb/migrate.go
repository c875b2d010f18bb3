package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/joestump/rwdb/internal/migrate"
)

func newMigrateCmd(f *rootFlags) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run goose migrations against the primary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			drv, err := newDriver(cfg)
			if err != nil {
				return err
			}

			database, err := drv.Open(cfg.Servers[0])
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := migrate.Up(database.DB, drv.Dialect(), os.DirFS(dir)); err != nil {
				return err
			}
			version, err := migrate.Version(database.DB, drv.Dialect())
			if err != nil {
				return err
			}

			log.Printf("migrations complete (version %d)", version)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "migrations", "directory of goose SQL migrations")
	return cmd
}
