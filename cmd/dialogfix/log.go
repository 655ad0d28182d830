package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dialogfix/internal/database"
	"github.com/at-ishikawa/dialogfix/internal/dialoglog"
	"github.com/at-ishikawa/dialogfix/schemas"
)

func newLogCommand() *cobra.Command {
	logCommand := &cobra.Command{
		Use:   "log",
		Short: "Dialogue log commands",
	}
	logCommand.AddCommand(
		newLogShowCommand(),
		newLogPruneCommand(),
		newLogMigrateCommand(),
	)
	return logCommand
}

func newLogShowCommand() *cobra.Command {
	var limit int
	command := &cobra.Command{
		Use:   "show",
		Short: "Print the most recent dialogue lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			entries, err := dialoglog.NewDBRepository(db).FindRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("FindRecent() > %w", err)
			}
			// Oldest first, like a chat log.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s: %s\n",
					e.CreatedAt.Format(time.DateTime), e.Status, e.DisplayName, e.TranslatedText); err != nil {
					return err
				}
			}
			return nil
		},
	}
	command.Flags().IntVar(&limit, "limit", 20, "number of lines")
	return command
}

func newLogPruneCommand() *cobra.Command {
	var olderThan time.Duration
	command := &cobra.Command{
		Use:   "prune",
		Short: "Delete old dialogue lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			deleted, err := dialoglog.NewDBRepository(db).DeleteBefore(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return fmt.Errorf("DeleteBefore() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d lines\n", deleted)
			return err
		},
	}
	command.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the lines to delete")
	return command
}

func newLogMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the dialogue log tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if err := database.Migrate(cmd.Context(), db, schemas.Migrations, "migrations"); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return err
		},
	}
}
