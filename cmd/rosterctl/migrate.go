package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drostetom1-netizen/slimrooster-horeca/pkg/database"
)

func newMigrateCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}
	cmd.AddCommand(newMigrateUpCmd(env))
	cmd.AddCommand(newMigrateDownCmd(env))
	return cmd
}

func newMigrateUpCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "应用全部未执行的迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, err := env.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return database.RunMigrations(sqlDB, logger)
		},
	}
}

func newMigrateDownCmd(env *cliEnv) *cobra.Command {
	var steps int

	c := &cobra.Command{
		Use:   "down",
		Short: "回退迁移",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps 必须为正整数")
			}
			_, logger, db, err := env.openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return database.RollbackMigrations(sqlDB, steps, logger)
		},
	}
	c.Flags().IntVar(&steps, "steps", 1, "回退的版本数")
	return c
}
